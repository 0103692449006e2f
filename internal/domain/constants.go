package domain

// Event types a user can track.
const (
	EventTypeBirthday    = "BIRTHDAY"
	EventTypeWedding     = "WEDDING"
	EventTypeAnniversary = "ANNIVERSARY"
	EventTypeGraduation  = "GRADUATION"
	EventTypeOther       = "OTHER"
)

// Checkout metadata keys. These round-trip through Stripe unmodified and
// are the only linkage between a checkout session and the contribution
// the webhook records; the webhook validates all three are present.
const (
	MetaEventID = "eventId"
	MetaUserID  = "userId"
	MetaMessage = "message"
)

// Currency for all fundraiser money movement.
const Currency = "eur"
