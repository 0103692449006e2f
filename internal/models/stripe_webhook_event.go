package models

import "time"

// StripeWebhookEvent records every ledger-affecting webhook event that
// was applied. The unique index on ProviderEventID makes redelivered
// events a no-op: the insert fails inside the same transaction that
// would apply the contribution, so a duplicate can never double-count.
type StripeWebhookEvent struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProviderEventID string    `gorm:"uniqueIndex;size:255;not null" json:"provider_event_id"`
	EventType       string    `gorm:"size:100;not null" json:"event_type"`
	ProcessedAt     time.Time `json:"processed_at"`
}

func (StripeWebhookEvent) TableName() string {
	return "stripe_webhook_events"
}
