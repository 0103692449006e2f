package ws

import "time"

// ProgressUpdate is pushed to watchers whenever the webhook settles a
// contribution. Amounts are euro cents.
type ProgressUpdate struct {
	EventID            uint   `json:"event_id"`
	CurrentAmountCents int64  `json:"current_amount_cents"`
	ContributorID      uint   `json:"contributor_id"`
	AmountCents        int64  `json:"amount_cents"`
	Message            string `json:"message,omitempty"`
	UpdatedAt          int64  `json:"updated_at"`
}

// FundraiserHub streams ledger updates to the fundraiser detail pages,
// replacing client-side polling of the event document.
type FundraiserHub struct {
	*Hub
}

func NewFundraiserHub() *FundraiserHub {
	return &FundraiserHub{Hub: NewHub()}
}

// PublishContribution is called after the ledger transaction commits.
func (f *FundraiserHub) PublishContribution(eventID uint, newTotalCents int64, contributorID uint, amountCents int64, message string) {
	f.BroadcastToEvent(eventID, ProgressUpdate{
		EventID:            eventID,
		CurrentAmountCents: newTotalCents,
		ContributorID:      contributorID,
		AmountCents:        amountCents,
		Message:            message,
		UpdatedAt:          time.Now().Unix(),
	})
}
