package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Demba-Soumare/birthdate/pkg/payment"

	"github.com/gin-gonic/gin"
)

func newStatusRouter(provider payment.Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAccountStatusHandler(provider)
	r.POST("/stripe/account/status", h.Status)
	return r
}

func TestAccountStatusValidation(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"empty body", nil},
		{"missing data wrapper", map[string]interface{}{"accountId": "acct_123"}},
		{"empty accountId", map[string]interface{}{"data": map[string]interface{}{"accountId": ""}}},
		{"missing accountId", map[string]interface{}{"data": map[string]interface{}{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockProvider{}
			router := newStatusRouter(provider)
			w := doJSON(router, http.MethodPost, "/stripe/account/status", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", w.Code, w.Body.String())
			}
			if got := errorStatus(t, w); got != "INVALID_ARGUMENT" {
				t.Errorf("error status = %q, want INVALID_ARGUMENT", got)
			}
			if provider.statusCalls != 0 {
				t.Errorf("platform queried for an invalid request")
			}
		})
	}
}

func TestAccountStatusUnknownAccount(t *testing.T) {
	provider := &mockProvider{
		statusFn: func(context.Context, string) (*payment.AccountStatus, error) {
			return nil, payment.ErrAccountNotFound
		},
	}
	router := newStatusRouter(provider)
	w := doJSON(router, http.MethodPost, "/stripe/account/status",
		map[string]interface{}{"data": map[string]interface{}{"accountId": "acct_missing"}})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (%s)", w.Code, w.Body.String())
	}
	if got := errorStatus(t, w); got != "NOT_FOUND" {
		t.Errorf("error status = %q, want NOT_FOUND", got)
	}
}

func TestAccountStatusPlatformFailure(t *testing.T) {
	provider := &mockProvider{
		statusFn: func(context.Context, string) (*payment.AccountStatus, error) {
			return nil, context.DeadlineExceeded
		},
	}
	router := newStatusRouter(provider)
	w := doJSON(router, http.MethodPost, "/stripe/account/status",
		map[string]interface{}{"data": map[string]interface{}{"accountId": "acct_123"}})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 (%s)", w.Code, w.Body.String())
	}
	if got := errorStatus(t, w); got != "INTERNAL" {
		t.Errorf("error status = %q, want INTERNAL", got)
	}
}

func TestAccountStatusSuccess(t *testing.T) {
	var queried string
	provider := &mockProvider{
		statusFn: func(_ context.Context, accountID string) (*payment.AccountStatus, error) {
			queried = accountID
			return &payment.AccountStatus{ChargesEnabled: true, PayoutsEnabled: false}, nil
		},
	}
	router := newStatusRouter(provider)
	w := doJSON(router, http.MethodPost, "/stripe/account/status",
		map[string]interface{}{"data": map[string]interface{}{"accountId": "acct_123"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	if queried != "acct_123" {
		t.Errorf("queried account = %q", queried)
	}
	var resp struct {
		Data struct {
			ChargesEnabled bool `json:"chargesEnabled"`
			PayoutsEnabled bool `json:"payoutsEnabled"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Data.ChargesEnabled || resp.Data.PayoutsEnabled {
		t.Errorf("flags = %+v, want charges on, payouts off", resp.Data)
	}
}
