// Package model contain gorm model for recording data to database
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Roles recognised by the role-check middleware.
const (
	// RoleStudent can browse jobs, apply and manage their own applications
	RoleStudent = "student"
	// RoleAdmin manages jobs, companies, application statuses and interviews
	RoleAdmin = "admin"
)

// User is the account record behind every bearer token.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Username  string    `gorm:"type:text;not null;uniqueIndex" json:"username"`
	Email     *string   `gorm:"type:text;uniqueIndex" json:"email,omitempty"`
	Password  string    `gorm:"type:text" json:"-"`
	Role      string    `gorm:"type:text;not null" json:"role"`
	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
}

// StudentProfile carries placement-relevant academic data for a student user.
// Eligibility criteria on a Job are matched against these fields by the
// placement office, not enforced at apply time.
type StudentProfile struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID" json:"user"`

	EditableStudentInfo
}

// EditableStudentInfo is the subset of profile fields a student supplies at
// registration and may edit afterwards.
type EditableStudentInfo struct {
	FirstName      string         `gorm:"type:text" json:"first_name"`
	LastName       string         `gorm:"type:text" json:"last_name"`
	Department     string         `gorm:"type:text" json:"department"`
	GraduationYear int            `json:"graduation_year"`
	CGPA           float64        `json:"cgpa"`
	Skills         pq.StringArray `gorm:"type:text[]" json:"skills"`
}
