package model

import "time"

// Company is static reference data for a Job's employer.
type Company struct {
	ID uint `gorm:"primaryKey;autoIncrement;->" json:"id"`

	EditableCompanyInfo

	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`

	Jobs []Job `gorm:"foreignKey:CompanyID" json:"-"`
}

// EditableCompanyInfo is the subset of company fields admins supply on
// create/update.
type EditableCompanyInfo struct {
	Name         string  `gorm:"type:text;not null" json:"name" binding:"required"`
	Industry     string  `gorm:"type:text" json:"industry"`
	Size         *string `gorm:"type:text" json:"size,omitempty"`
	Website      string  `gorm:"type:text" json:"website"`
	ContactEmail string  `gorm:"type:text" json:"contact_email"`
}
