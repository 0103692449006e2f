package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/Demba-Soumare/birthdate/internal/domain"
	"github.com/Demba-Soumare/birthdate/internal/models"
	"github.com/Demba-Soumare/birthdate/internal/repository"
	"github.com/Demba-Soumare/birthdate/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
)

// ContributionLedger applies one settled payment to a fundraiser inside
// a single transaction and returns the new running total.
type ContributionLedger interface {
	ApplyContribution(ctx context.Context, providerEventID string, eventID uint, contrib *models.Contribution) (int64, error)
}

// StripeWebhookHandler receives signed events from Stripe. Signature
// verification over the raw body is the only authenticity check this
// endpoint has; nothing in the payload is trusted before it passes.
type StripeWebhookHandler struct {
	ledger ContributionLedger
	hub    *ws.FundraiserHub
	secret string
}

func NewStripeWebhookHandler(ledger ContributionLedger, hub *ws.FundraiserHub, webhookSecret string) *StripeWebhookHandler {
	return &StripeWebhookHandler{ledger: ledger, hub: hub, secret: webhookSecret}
}

// sessionMetadata is the schema the checkout handler attached; the
// webhook refuses to settle a payment it cannot link back to a
// contributor and an event.
type sessionMetadata struct {
	EventID uint
	UserID  uint
	Message string
}

var errBadMetadata = errors.New("session metadata is missing or malformed")

func parseSessionMetadata(md map[string]string) (*sessionMetadata, error) {
	rawEvent, ok := md[domain.MetaEventID]
	if !ok || rawEvent == "" {
		return nil, errBadMetadata
	}
	eventID, err := strconv.ParseUint(rawEvent, 10, 64)
	if err != nil {
		return nil, errBadMetadata
	}
	rawUser, ok := md[domain.MetaUserID]
	if !ok || rawUser == "" {
		return nil, errBadMetadata
	}
	userID, err := strconv.ParseUint(rawUser, 10, 64)
	if err != nil {
		return nil, errBadMetadata
	}
	// message may be empty but the key must be present.
	message, ok := md[domain.MetaMessage]
	if !ok {
		return nil, errBadMetadata
	}
	return &sessionMetadata{EventID: uint(eventID), UserID: uint(userID), Message: message}, nil
}

// Handle processes one webhook delivery. Responses follow the platform's
// retry contract: 200 acknowledges (including ignored event types and
// duplicate deliveries), 400 asks Stripe to send the event again.
func (h *StripeWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "Webhook Error: could not read body")
		return
	}
	event, err := webhook.ConstructEvent(body, c.GetHeader("Stripe-Signature"), h.secret)
	if err != nil {
		log.Printf("[stripe webhook] signature verification failed: %v", err)
		c.String(http.StatusBadRequest, "Webhook Error: %v", err)
		return
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Printf("[stripe webhook] bad session payload for event %s: %v", event.ID, err)
		c.String(http.StatusBadRequest, "Webhook Error: malformed session payload")
		return
	}
	md, err := parseSessionMetadata(session.Metadata)
	if err != nil {
		log.Printf("[stripe webhook] event %s: %v (metadata=%v)", event.ID, err, session.Metadata)
		c.String(http.StatusBadRequest, "Webhook Error: %v", err)
		return
	}

	contrib := &models.Contribution{
		UserID:      md.UserID,
		AmountCents: session.AmountTotal,
		Message:     md.Message,
	}
	newTotal, err := h.ledger.ApplyContribution(c.Request.Context(), event.ID, md.EventID, contrib)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateWebhookEvent) {
			log.Printf("[stripe webhook] duplicate delivery of event %s, ignoring", event.ID)
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		log.Printf("[stripe webhook] ledger update for event %s failed: %v", event.ID, err)
		c.String(http.StatusBadRequest, "Webhook Error: %v", err)
		return
	}

	if h.hub != nil {
		h.hub.PublishContribution(md.EventID, newTotal, md.UserID, contrib.AmountCents, md.Message)
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
