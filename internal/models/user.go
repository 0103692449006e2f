package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Username        string         `gorm:"uniqueIndex;size:64;not null;default:''" json:"username"`
	Email           string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash    string         `gorm:"size:255" json:"-"`
	GoogleID        *string        `gorm:"uniqueIndex;size:255" json:"-"` // nil for email signups (avoids duplicate '' on unique index)
	AvatarURL       string         `gorm:"size:512" json:"avatar_url"`
	// StripeAccountID is the connected Express account. Set once by
	// account provisioning, never cleared; nil until the owner opts in.
	StripeAccountID *string        `gorm:"size:255" json:"stripe_account_id,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasPaymentAccount reports whether the user finished the provisioning
// call; it says nothing about whether onboarding completed.
func (u *User) HasPaymentAccount() bool {
	return u.StripeAccountID != nil && *u.StripeAccountID != ""
}
