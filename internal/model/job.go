package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Employment types a Job may carry.
const (
	JobTypeFullTime   = "full_time"
	JobTypePartTime   = "part_time"
	JobTypeInternship = "internship"
	JobTypeContract   = "contract"
)

// Job is gorm model for a posted position open to student applications.
// AppliedCount and SelectedCount are adjusted only by application-side
// effects, inside the same transaction as the triggering write.
type Job struct {
	ID uint `gorm:"primaryKey;autoIncrement;->" json:"id"`

	CompanyID uint    `gorm:"not null;index;<-:create" json:"company_id"`
	Company   Company `gorm:"foreignKey:CompanyID;references:ID" json:"company"`

	PostedByID uuid.UUID `gorm:"type:uuid;<-:create" json:"posted_by_id"`
	PostedBy   User      `gorm:"foreignKey:PostedByID;references:ID" json:"-"`

	EditableJobInfo

	IsActive      bool `gorm:"default:true" json:"is_active"`
	AppliedCount  int  `gorm:"default:0" json:"applied_count"`
	SelectedCount int  `gorm:"default:0" json:"selected_count"`

	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`

	Applications []Application `gorm:"foreignKey:JobID" json:"-"`
}

// EditableJobInfo is the subset of job fields admins supply on create/update.
type EditableJobInfo struct {
	Title           string         `gorm:"type:text" json:"title" binding:"required"`
	Description     string         `gorm:"type:text" json:"description"`
	Requirements    pq.StringArray `gorm:"type:text[]" json:"requirements"`
	Location        string         `gorm:"type:text" json:"location"`
	Type            string         `gorm:"type:text" json:"type" binding:"omitempty,oneof=full_time part_time internship contract"`
	ExperienceLevel string         `gorm:"type:text" json:"experience_level"`
	SalaryMin       int            `json:"salary_min"`
	SalaryMax       int            `json:"salary_max"`
	SalaryCurrency  string         `gorm:"type:text" json:"salary_currency"`
	Deadline        *time.Time     `gorm:"type:timestamp" json:"deadline,omitempty"`
	TotalPositions  int            `json:"total_positions"`

	// Eligibility criteria, informational only.
	MinCGPA         float64        `json:"min_cgpa"`
	Departments     pq.StringArray `gorm:"type:text[]" json:"departments"`
	GraduationYears pq.Int64Array  `gorm:"type:integer[]" json:"graduation_years"`
	Skills          pq.StringArray `gorm:"type:text[]" json:"skills"`
}
