package model

import (
	"time"

	"github.com/google/uuid"
)

// Application statuses, in lifecycle order.
const (
	// StatusApplied indicates a freshly submitted application
	StatusApplied = "applied"
	// StatusUnderReview indicates an admin has started reviewing
	StatusUnderReview = "under_review"
	// StatusShortlisted indicates the student passed the first screen
	StatusShortlisted = "shortlisted"
	// StatusInterviewScheduled indicates an interview slot exists
	StatusInterviewScheduled = "interview_scheduled"
	// StatusSelected indicates the student got the position
	StatusSelected = "selected"
	// StatusRejected indicates the application was turned down
	StatusRejected = "rejected"
	// StatusWithdrawn indicates the student pulled out
	StatusWithdrawn = "withdrawn"
)

// Application represents a student's submission against a Job. The composite
// unique index keeps at most one Application per (student, job) pair.
type Application struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_student_job" json:"student_id"`
	Student   User      `gorm:"foreignKey:StudentID;references:ID" json:"student"`

	JobID uint `gorm:"not null;uniqueIndex:idx_student_job;index" json:"job_id"`
	Job   Job  `gorm:"foreignKey:JobID;references:ID" json:"job"`

	Resume      string `gorm:"type:text" json:"resume"`
	CoverLetter string `gorm:"type:text" json:"cover_letter"`
	Status      string `gorm:"type:text;not null" json:"status"`
	Feedback    string `gorm:"type:text" json:"feedback"`

	AppliedAt    time.Time  `gorm:"type:timestamp" json:"applied_at"`
	ReviewedAt   *time.Time `gorm:"type:timestamp" json:"reviewed_at,omitempty"`
	ReviewedByID *uuid.UUID `gorm:"type:uuid" json:"reviewed_by,omitempty"`

	InterviewAt   *time.Time `gorm:"type:timestamp" json:"interview_at,omitempty"`
	InterviewMode string     `gorm:"type:text" json:"interview_mode,omitempty"`
	InterviewLink string     `gorm:"type:text" json:"interview_link,omitempty"`
}

// ValidStatus reports whether s is one of the known application statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusApplied, StatusUnderReview, StatusShortlisted,
		StatusInterviewScheduled, StatusSelected, StatusRejected, StatusWithdrawn:
		return true
	default:
		return false
	}
}

// IsTerminalStatus reports whether an application in status s can never move
// again.
func IsTerminalStatus(s string) bool {
	return s == StatusSelected || s == StatusRejected || s == StatusWithdrawn
}

// CanTransition reports whether an application may move from one status to
// another. Same-status updates are allowed so feedback can be amended without
// a transition.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusApplied:
		return to == StatusUnderReview || to == StatusShortlisted ||
			to == StatusRejected || to == StatusWithdrawn
	case StatusUnderReview:
		return to == StatusShortlisted || to == StatusRejected || to == StatusWithdrawn
	case StatusShortlisted:
		return to == StatusInterviewScheduled || to == StatusRejected || to == StatusWithdrawn
	case StatusInterviewScheduled:
		return to == StatusSelected || to == StatusRejected || to == StatusWithdrawn
	default:
		return false
	}
}
