package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an in-portal message for a user, written by the event bus
// subscriber when an application changes status or an interview is scheduled.
type Notification struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID" json:"-"`

	Title   string `gorm:"type:text" json:"title"`
	Message string `gorm:"type:text" json:"message"`
	Read    bool   `gorm:"default:false" json:"read"`

	CreatedAt time.Time `json:"created_at"`
}
