package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Interview modes.
const (
	InterviewModeOnline  = "online"
	InterviewModeOffline = "offline"
)

// InterviewSchedule is the single active interview record for an application.
// Re-scheduling updates the existing row instead of creating a duplicate.
type InterviewSchedule struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	ApplicationID uint        `gorm:"not null;uniqueIndex" json:"application_id"`
	Application   Application `gorm:"foreignKey:ApplicationID;references:ID" json:"-"`

	StudentID uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	JobID     uint      `gorm:"not null;index" json:"job_id"`
	Job       Job       `gorm:"foreignKey:JobID;references:ID" json:"job"`

	Date        string         `gorm:"type:text" json:"date"`
	Time        string         `gorm:"type:text" json:"time"`
	Mode        string         `gorm:"type:text" json:"mode"`
	MeetingLink string         `gorm:"type:text" json:"meeting_link,omitempty"`
	Questions   pq.StringArray `gorm:"type:text[]" json:"questions"`

	ScheduledByID uuid.UUID `gorm:"type:uuid" json:"scheduled_by"`
	ScheduledBy   User      `gorm:"foreignKey:ScheduledByID;references:ID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
