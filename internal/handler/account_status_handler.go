package handler

import (
	"errors"
	"net/http"

	"github.com/Demba-Soumare/birthdate/internal/apperr"
	"github.com/Demba-Soumare/birthdate/pkg/payment"

	"github.com/gin-gonic/gin"
)

// AccountStatusHandler answers capability queries for connected
// accounts. Read-only; safe to call repeatedly and concurrently.
type AccountStatusHandler struct {
	provider payment.Provider
}

func NewAccountStatusHandler(provider payment.Provider) *AccountStatusHandler {
	return &AccountStatusHandler{provider: provider}
}

type accountStatusRequest struct {
	Data struct {
		AccountID string `json:"accountId"`
	} `json:"data"`
}

// Status handles POST {data:{accountId}} and returns
// {data:{chargesEnabled,payoutsEnabled}}. The error taxonomy is part of
// the contract: INVALID_ARGUMENT for a missing account id, NOT_FOUND
// when the platform does not know the account, INTERNAL otherwise.
func (h *AccountStatusHandler) Status(c *gin.Context) {
	var req accountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Data.AccountID == "" {
		renderError(c, apperr.New(apperr.InvalidArgument, "accountId is required in the request body {data: {accountId: ...}}"))
		return
	}
	status, err := h.provider.AccountStatus(c.Request.Context(), req.Data.AccountID)
	if err != nil {
		if errors.Is(err, payment.ErrAccountNotFound) {
			renderError(c, apperr.Newf(apperr.NotFound, "payment account %q was not found", req.Data.AccountID))
			return
		}
		renderError(c, apperr.New(apperr.Internal, "could not verify payment account status"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"chargesEnabled": status.ChargesEnabled,
			"payoutsEnabled": status.PayoutsEnabled,
		},
	})
}
