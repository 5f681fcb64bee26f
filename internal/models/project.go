package models

import "time"

type Project struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint         `gorm:"index;not null" json:"clientId"`
	Client   PortalClient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client"`

	Name    string `gorm:"size:120;not null" json:"name"`
	Summary string `gorm:"size:500" json:"summary"`

	Status string `gorm:"size:20;default:'active'" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Milestone is one step of a project timeline, ordered by Position.
// Clients approve milestones that the studio has put in review.
type Milestone struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProjectID uint    `gorm:"index;not null" json:"projectId"`
	Project   Project `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Title    string     `gorm:"size:150;not null" json:"title"`
	Details  string     `gorm:"size:1000" json:"details"`
	Position int        `gorm:"not null;default:0" json:"position"`
	DueAt    *time.Time `json:"dueAt"`

	Status     string     `gorm:"size:20;default:'pending'" json:"status"`
	ApprovedAt *time.Time `json:"approvedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProjectFile points at an object in the file store; PreviewKey is set for
// image uploads that got a webp preview.
type ProjectFile struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProjectID uint    `gorm:"index;not null" json:"projectId"`
	Project   Project `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	UploadedBy string `gorm:"size:10;not null" json:"uploadedBy"`
	FileName   string `gorm:"size:200;not null" json:"fileName"`
	ObjectKey  string `gorm:"size:255;uniqueIndex;not null" json:"-"`
	PreviewKey string `gorm:"size:255" json:"-"`

	ContentType string `gorm:"size:100" json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`

	CreatedAt time.Time `json:"createdAt"`
}

type FeedbackNote struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProjectID uint    `gorm:"index;not null" json:"projectId"`
	Project   Project `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	MilestoneID *uint `json:"milestoneId"`

	AuthorRole string `gorm:"size:10;not null" json:"authorRole"`
	AuthorName string `gorm:"size:100;not null" json:"authorName"`
	Body       string `gorm:"size:2000;not null" json:"body"`

	CreatedAt time.Time `json:"createdAt"`
}
