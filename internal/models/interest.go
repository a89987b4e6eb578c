package models

import "time"

// InterestSubmission is a lead-capture form entry; the submit endpoint is
// public, the listing is admin-only.
type InterestSubmission struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;type:text" json:"name"`
	Email     string    `gorm:"column:email;type:text" json:"email"`
	Company   string    `gorm:"column:company;type:text" json:"company"`
	Message   string    `gorm:"column:message;type:text" json:"message"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (InterestSubmission) TableName() string { return "interest_submissions" }
