package models

import "time"

// Proposal is a project inquiry scored at submission time so the dashboard
// can sort leads by priority.
type Proposal struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Email   string `gorm:"size:100;not null" json:"email"`
	Company string `gorm:"size:120" json:"company"`

	ProjectType string `gorm:"size:30;not null" json:"projectType"`
	BudgetRange string `gorm:"size:20;not null" json:"budgetRange"`
	Timeline    string `gorm:"size:20;not null" json:"timeline"`
	Description string `gorm:"size:3000;not null" json:"description"`

	Score    int    `json:"score"`
	Priority string `gorm:"size:10" json:"priority"`

	Status string `gorm:"size:20;default:'new'" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
