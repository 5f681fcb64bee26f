package models

import "time"

// PortalClient has no password; access goes through single-use magic links.
type PortalClient struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Email   string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Company string `gorm:"size:120" json:"company"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PortalToken records one issued magic link. TokenID is the uuid jti baked
// into the JWT; UsedAt makes the link single-use.
type PortalToken struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint         `gorm:"index;not null" json:"clientId"`
	Client   PortalClient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	TokenID   string     `gorm:"size:36;uniqueIndex;not null" json:"tokenId"`
	ExpiresAt time.Time  `gorm:"not null" json:"expiresAt"`
	UsedAt    *time.Time `json:"usedAt"`

	CreatedAt time.Time `json:"createdAt"`
}
