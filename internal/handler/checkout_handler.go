package handler

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/Demba-Soumare/birthdate/internal/apperr"
	"github.com/Demba-Soumare/birthdate/internal/domain"
	"github.com/Demba-Soumare/birthdate/internal/middleware"
	"github.com/Demba-Soumare/birthdate/internal/models"
	"github.com/Demba-Soumare/birthdate/pkg/payment"

	"github.com/gin-gonic/gin"
)

// CheckoutEventStore is the slice of the event repository checkout needs.
type CheckoutEventStore interface {
	GetByID(id uint) (*models.Event, error)
}

// CheckoutHandler builds hosted payment sessions for contributions.
// It never mutates local state; the ledger is only touched by the
// webhook after the payment settles.
type CheckoutHandler struct {
	events      CheckoutEventStore
	users       ConnectUserStore
	provider    payment.Provider
	frontendURL string
}

func NewCheckoutHandler(events CheckoutEventStore, users ConnectUserStore, provider payment.Provider, frontendURL string) *CheckoutHandler {
	return &CheckoutHandler{events: events, users: users, provider: provider, frontendURL: frontendURL}
}

type checkoutRequest struct {
	EventID string  `json:"eventId"`
	Amount  float64 `json:"amount"`
	Message string  `json:"message"`
}

// CreateSession validates the contribution, walks the precondition chain
// (event exists, owner exists, owner provisioned, owner charge-capable)
// and creates the checkout session. Each step fails with its own error
// kind so the client can render a specific message.
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	contributorID := middleware.GetUserID(c)
	if contributorID == 0 {
		renderError(c, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, apperr.New(apperr.InvalidArgument, "invalid request body"))
		return
	}
	if req.EventID == "" {
		renderError(c, apperr.New(apperr.InvalidArgument, "eventId is required"))
		return
	}
	eventID, err := strconv.ParseUint(req.EventID, 10, 64)
	if err != nil {
		renderError(c, apperr.New(apperr.InvalidArgument, "eventId is invalid"))
		return
	}
	if req.Amount <= 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		renderError(c, apperr.New(apperr.InvalidArgument, "amount must be a positive number"))
		return
	}

	event, err := h.events.GetByID(uint(eventID))
	if err != nil {
		renderError(c, apperr.New(apperr.NotFound, "event not found"))
		return
	}
	owner, err := h.users.GetByID(event.UserID)
	if err != nil {
		renderError(c, apperr.New(apperr.NotFound, "event owner not found"))
		return
	}
	if !owner.HasPaymentAccount() {
		renderError(c, apperr.New(apperr.FailedPrecondition, "the event owner has not configured payments"))
		return
	}
	status, err := h.provider.AccountStatus(c.Request.Context(), *owner.StripeAccountID)
	if err != nil {
		if errors.Is(err, payment.ErrAccountNotFound) {
			renderError(c, apperr.New(apperr.NotFound, "the event owner's payment account was not found"))
			return
		}
		renderError(c, apperr.New(apperr.Internal, "could not verify the owner's payment account"))
		return
	}
	if !status.ChargesEnabled {
		renderError(c, apperr.New(apperr.FailedPrecondition, "the event owner's payment setup is not complete yet"))
		return
	}

	eventIDStr := strconv.FormatUint(eventID, 10)
	sessionURL, err := h.provider.CreateCheckoutSession(c.Request.Context(), payment.CheckoutParams{
		ProductName:          fmt.Sprintf("Contribution pour %s", event.Title),
		ProductDescription:   req.Message,
		UnitAmountCents:      payment.UnitAmount(req.Amount),
		ApplicationFeeCents:  payment.Fee(req.Amount),
		DestinationAccountID: *owner.StripeAccountID,
		SuccessURL:           fmt.Sprintf("%s/fundraiser/%s/success", h.frontendURL, eventIDStr),
		CancelURL:            fmt.Sprintf("%s/fundraiser/%s", h.frontendURL, eventIDStr),
		Metadata: map[string]string{
			domain.MetaEventID: eventIDStr,
			domain.MetaUserID:  strconv.FormatUint(uint64(contributorID), 10),
			domain.MetaMessage: req.Message,
		},
	})
	if err != nil {
		renderError(c, apperr.New(apperr.Internal, "could not create the payment session"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionUrl": sessionURL})
}
