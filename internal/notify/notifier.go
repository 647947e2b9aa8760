// Package notify fans application lifecycle events out into per-user
// notification records via the process-local event bus.
package notify

import (
	"fmt"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"CampusPlacement-backend/internal/database"
	"CampusPlacement-backend/internal/model"
)

// Event topics published on the bus.
const (
	TopicApplicationStatus  = "application:status"
	TopicInterviewScheduled = "interview:scheduled"
)

// StatusChange is published whenever an application's status moves.
type StatusChange struct {
	ApplicationID uint
	StudentID     uuid.UUID
	JobTitle      string
	Status        string
	Feedback      string
}

// InterviewScheduled is published whenever an interview slot is created or
// moved.
type InterviewScheduled struct {
	ApplicationID uint
	StudentID     uuid.UUID
	JobTitle      string
	Date          string
	Time          string
	Mode          string
	MeetingLink   string
}

// Notifier subscribes to lifecycle topics and persists Notification rows.
type Notifier struct {
	db  *database.DBinstanceStruct
	bus EventBus.Bus
}

// NewNotifier wires a Notifier onto the given bus.
func NewNotifier(db *database.DBinstanceStruct, bus EventBus.Bus) (*Notifier, error) {
	n := &Notifier{db: db, bus: bus}

	if err := bus.SubscribeAsync(TopicApplicationStatus, n.onStatusChange, false); err != nil {
		return nil, err
	}
	if err := bus.SubscribeAsync(TopicInterviewScheduled, n.onInterviewScheduled, false); err != nil {
		return nil, err
	}
	return n, nil
}

// Close detaches the Notifier from the bus.
func (n *Notifier) Close() {
	_ = n.bus.Unsubscribe(TopicApplicationStatus, n.onStatusChange)
	_ = n.bus.Unsubscribe(TopicInterviewScheduled, n.onInterviewScheduled)
}

func (n *Notifier) onStatusChange(ev StatusChange) {
	msg := fmt.Sprintf("Your application for %q is now %s.", ev.JobTitle, ev.Status)
	if ev.Feedback != "" {
		msg += " Feedback: " + ev.Feedback
	}
	n.store(ev.StudentID, "Application update", msg)
}

func (n *Notifier) onInterviewScheduled(ev InterviewScheduled) {
	msg := fmt.Sprintf("Interview for %q scheduled on %s at %s (%s).",
		ev.JobTitle, ev.Date, ev.Time, ev.Mode)
	if ev.MeetingLink != "" {
		msg += " Join: " + ev.MeetingLink
	}
	n.store(ev.StudentID, "Interview scheduled", msg)
}

func (n *Notifier) store(userID uuid.UUID, title, msg string) {
	notification := model.Notification{
		UserID:  userID,
		Title:   title,
		Message: msg,
	}
	if err := n.db.Create(&notification).Error; err != nil {
		log.Errorf("failed to store notification for user %s: %v", userID, err)
	}
}
