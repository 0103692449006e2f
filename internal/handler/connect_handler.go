package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/Demba-Soumare/birthdate/internal/apperr"
	"github.com/Demba-Soumare/birthdate/internal/middleware"
	"github.com/Demba-Soumare/birthdate/internal/models"
	"github.com/Demba-Soumare/birthdate/pkg/payment"

	"github.com/gin-gonic/gin"
)

// ConnectUserStore is the slice of the user repository the Connect flow
// needs.
type ConnectUserStore interface {
	GetByID(id uint) (*models.User, error)
	SetStripeAccountID(userID uint, accountID string) error
}

// ConnectHandler provisions Stripe Express accounts for event owners and
// issues onboarding links.
type ConnectHandler struct {
	users       ConnectUserStore
	provider    payment.Provider
	frontendURL string
}

func NewConnectHandler(users ConnectUserStore, provider payment.Provider, frontendURL string) *ConnectHandler {
	return &ConnectHandler{users: users, provider: provider, frontendURL: frontendURL}
}

// CreateAccount provisions a connected account for the caller and
// returns an onboarding link. Calling it again does not create a second
// account: an existing account id short-circuits to link re-issuance, so
// an owner who abandoned onboarding can resume without orphaning the
// first account.
func (h *ConnectHandler) CreateAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		renderError(c, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	u, err := h.users.GetByID(userID)
	if err != nil {
		renderError(c, apperr.New(apperr.NotFound, "user not found"))
		return
	}

	ctx := c.Request.Context()
	accountID := ""
	if u.HasPaymentAccount() {
		accountID = *u.StripeAccountID
	} else {
		accountID, err = h.provider.CreateConnectAccount(ctx)
		if err != nil {
			renderError(c, apperr.New(apperr.Internal, "could not create payment account"))
			return
		}
		if err := h.users.SetStripeAccountID(userID, accountID); err != nil {
			log.Printf("[stripe connect] persist account id for user %d failed: %v", userID, err)
			renderError(c, apperr.New(apperr.Internal, "could not save payment account"))
			return
		}
	}

	link, err := h.provider.CreateOnboardingLink(ctx, accountID,
		h.frontendURL+"/stripe/refresh",
		h.frontendURL+"/stripe/return")
	if err != nil {
		renderError(c, apperr.New(apperr.Internal, "could not create onboarding link"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"accountLink": link})
}

// MyPaymentStatus is the orchestration probe behind the "finish payment
// setup" banner: it reports whether the caller provisioned an account
// and, if so, its capability flags.
func (h *ConnectHandler) MyPaymentStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		renderError(c, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	u, err := h.users.GetByID(userID)
	if err != nil {
		renderError(c, apperr.New(apperr.NotFound, "user not found"))
		return
	}
	if !u.HasPaymentAccount() {
		c.JSON(http.StatusOK, gin.H{"configured": false})
		return
	}
	status, err := h.accountStatus(c.Request.Context(), *u.StripeAccountID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"configured":     true,
		"accountId":      *u.StripeAccountID,
		"chargesEnabled": status.ChargesEnabled,
		"payoutsEnabled": status.PayoutsEnabled,
	})
}

func (h *ConnectHandler) accountStatus(ctx context.Context, accountID string) (*payment.AccountStatus, error) {
	status, err := h.provider.AccountStatus(ctx, accountID)
	if err != nil {
		if errors.Is(err, payment.ErrAccountNotFound) {
			return nil, apperr.New(apperr.NotFound, "payment account not found")
		}
		return nil, apperr.New(apperr.Internal, "could not verify payment account status")
	}
	return status, nil
}

// renderError writes the {"error": {"status", "message"}} payload used
// by all payment endpoints.
func renderError(c *gin.Context, err error) {
	c.JSON(apperr.KindOf(err).HTTPStatus(), apperr.Payload(err))
}
