package models

import (
	"time"

	"gorm.io/gorm"
)

// Fundraiser is the money-bearing sub-record of an event. Amounts are
// stored in minor units (euro cents). CurrentAmountCents is mutated only
// inside the webhook ledger transaction and always equals the sum of the
// contributions attached to it.
type Fundraiser struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	EventID            uint           `gorm:"uniqueIndex;not null" json:"event_id"`
	TargetAmountCents  int64          `gorm:"not null" json:"target_amount_cents"`
	CurrentAmountCents int64          `gorm:"not null;default:0" json:"current_amount_cents"`
	Description        string         `gorm:"type:text" json:"description"`
	EndDate            *time.Time     `json:"end_date"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	// Contributions is append-only, ordered by webhook arrival.
	Contributions []Contribution `gorm:"foreignKey:FundraiserID" json:"contributions,omitempty"`
}

func (Fundraiser) TableName() string {
	return "fundraisers"
}

// Contribution is one settled payment. Rows are immutable once written;
// CreatedAt is the webhook-processing time, not checkout time.
type Contribution struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FundraiserID uint      `gorm:"not null;index" json:"fundraiser_id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"` // contributor
	AmountCents  int64     `gorm:"not null" json:"amount_cents"`
	Message      string    `gorm:"size:512" json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Contribution) TableName() string {
	return "contributions"
}
