package models

import "time"

// Booking is a confirmed consultation slot. The interval is immutable after
// insert; only status, payment and admin notes change afterwards.
type Booking struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Reference string `gorm:"size:36;uniqueIndex;not null" json:"reference"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:100;not null" json:"email"`
	Phone string `gorm:"size:20;not null" json:"phone"`

	Service         string `gorm:"size:50;not null" json:"service"`
	DurationMinutes int    `gorm:"not null" json:"durationMinutes"`

	StartAt time.Time `gorm:"not null;index" json:"startAt"`
	EndAt   time.Time `gorm:"not null" json:"endAt"`

	Notes      string `gorm:"size:500" json:"notes"`
	AdminNotes string `gorm:"size:500" json:"adminNotes"`

	Status        string `gorm:"size:20;default:'new'" json:"status"`
	PaymentStatus string `gorm:"size:20;default:'unpaid'" json:"paymentStatus"`
	PaymentRef    string `gorm:"size:100" json:"paymentRef,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
