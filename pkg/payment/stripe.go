package payment

import (
	"context"
	"errors"
	"log"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// StripeProvider implements Provider over the Stripe API. It holds a
// dedicated client built once from configuration, so handlers can share
// one instance across requests without any mutable per-request state.
type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

func (p *StripeProvider) CreateConnectAccount(ctx context.Context) (string, error) {
	params := &stripe.AccountParams{
		Type: stripe.String(string(stripe.AccountTypeExpress)),
		Capabilities: &stripe.AccountCapabilitiesParams{
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{Requested: stripe.Bool(true)},
			Transfers:    &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)},
		},
	}
	params.Context = ctx
	acct, err := p.api.Accounts.New(params)
	if err != nil {
		logStripeError("accounts.create", err)
		return "", err
	}
	return acct.ID, nil
}

func (p *StripeProvider) CreateOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx
	link, err := p.api.AccountLinks.New(params)
	if err != nil {
		logStripeError("accountlinks.create", err)
		return "", err
	}
	return link.URL, nil
}

func (p *StripeProvider) AccountStatus(ctx context.Context, accountID string) (*AccountStatus, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx
	acct, err := p.api.Accounts.GetByID(accountID, params)
	if err != nil {
		logStripeError("accounts.retrieve", err)
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeAccountInvalid {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &AccountStatus{
		ChargesEnabled: acct.ChargesEnabled,
		PayoutsEnabled: acct.PayoutsEnabled,
	}, nil
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, cp CheckoutParams) (string, error) {
	priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
		Currency: stripe.String(string(stripe.CurrencyEUR)),
		ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(cp.ProductName),
		},
		UnitAmount: stripe.Int64(cp.UnitAmountCents),
	}
	if cp.ProductDescription != "" {
		priceData.ProductData.Description = stripe.String(cp.ProductDescription)
	}
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: priceData,
				Quantity:  stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(cp.SuccessURL),
		CancelURL:  stripe.String(cp.CancelURL),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(cp.ApplicationFeeCents),
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(cp.DestinationAccountID),
			},
		},
	}
	params.Context = ctx
	for k, v := range cp.Metadata {
		params.AddMetadata(k, v)
	}
	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		logStripeError("checkout.sessions.create", err)
		return "", err
	}
	return sess.URL, nil
}

// logStripeError keeps the full platform diagnostics server side; the
// callers only surface generic messages.
func logStripeError(op string, err error) {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		log.Printf("[stripe] %s failed: type=%s code=%s status=%d msg=%s",
			op, stripeErr.Type, stripeErr.Code, stripeErr.HTTPStatusCode, stripeErr.Msg)
		return
	}
	log.Printf("[stripe] %s failed: %v", op, err)
}
