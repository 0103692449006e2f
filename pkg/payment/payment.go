// Package payment wraps the payment platform behind a small interface so
// handlers stay testable and the Stripe SDK stays out of the rest of the
// tree.
package payment

import (
	"context"
	"errors"
	"math"
)

// ErrAccountNotFound is returned when the platform reports that the
// connected account does not exist.
var ErrAccountNotFound = errors.New("payment account not found")

// AccountStatus carries the two capability flags the UI gates on.
type AccountStatus struct {
	ChargesEnabled bool
	PayoutsEnabled bool
}

// CheckoutParams describes one hosted payment session: a single line
// item routed to the owner's connected account minus the platform fee.
// Metadata rides along unmodified and comes back on the webhook.
type CheckoutParams struct {
	ProductName          string
	ProductDescription   string
	UnitAmountCents      int64
	ApplicationFeeCents  int64
	DestinationAccountID string
	SuccessURL           string
	CancelURL            string
	Metadata             map[string]string
}

type Provider interface {
	// CreateConnectAccount provisions an Express account able to take
	// card payments and receive transfers, returning its id.
	CreateConnectAccount(ctx context.Context) (string, error)
	// CreateOnboardingLink issues a single-use onboarding URL for an
	// existing account.
	CreateOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error)
	// AccountStatus reads the account's capability flags. No side effects.
	AccountStatus(ctx context.Context, accountID string) (*AccountStatus, error)
	// CreateCheckoutSession creates a hosted session and returns its
	// redirect URL.
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (string, error)
}

// UnitAmount converts a major-unit amount to cents.
func UnitAmount(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Fee is the platform cut withheld before the transfer to the owner:
// 2.9% of the amount plus 30 cents.
func Fee(amount float64) int64 {
	return int64(math.Round(amount*100*0.029 + 30))
}
