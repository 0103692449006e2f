package handler

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Demba-Soumare/birthdate/internal/models"
	"github.com/Demba-Soumare/birthdate/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
)

const testWebhookSecret = "whsec_test_secret"

type ledgerCall struct {
	providerEventID string
	eventID         uint
	contrib         models.Contribution
}

type mockLedger struct {
	mu    sync.Mutex
	calls []ledgerCall
	total int64
	err   error
}

func (m *mockLedger) ApplyContribution(_ context.Context, providerEventID string, eventID uint, contrib *models.Contribution) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, ledgerCall{providerEventID: providerEventID, eventID: eventID, contrib: *contrib})
	if m.err != nil {
		return 0, m.err
	}
	m.total += contrib.AmountCents
	return m.total, nil
}

func (m *mockLedger) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func newWebhookRouter(ledger ContributionLedger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewStripeWebhookHandler(ledger, nil, testWebhookSecret)
	r.POST("/webhooks/stripe", h.Handle)
	return r
}

// signedRequest builds a delivery carrying a valid Stripe-Signature
// header for the given payload.
func signedRequest(payload []byte) *http.Request {
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, testWebhookSecret)
	req, _ := http.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig)))
	return req
}

func checkoutCompletedPayload(eventID string, amountTotal int64, metadata map[string]string) []byte {
	obj := map[string]interface{}{
		"id":           "cs_" + eventID,
		"object":       "checkout.session",
		"amount_total": amountTotal,
		"currency":     "eur",
		"metadata":     metadata,
	}
	payload := map[string]interface{}{
		"id":          eventID,
		"api_version": stripe.APIVersion,
		"type":        "checkout.session.completed",
		"data":        map[string]interface{}{"object": obj},
	}
	b, _ := json.Marshal(payload)
	return b
}

func validMetadata() map[string]string {
	return map[string]string{"eventId": "1", "userId": "7", "message": "Bon anniversaire"}
}

func TestWebhookRejectsInvalidSignature(t *testing.T) {
	ledger := &mockLedger{}
	router := newWebhookRouter(ledger)

	payload := checkoutCompletedPayload("evt_1", 2000, validMetadata())
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"garbage header", "t=123,v1=deadbeef"},
		{"wrong secret", func() string {
			now := time.Now()
			sig := webhook.ComputeSignature(now, payload, "whsec_other")
			return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(string(payload)))
			if tt.header != "" {
				req.Header.Set("Stripe-Signature", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
		})
	}
	if ledger.callCount() != 0 {
		t.Errorf("ledger was touched %d times by unverified deliveries", ledger.callCount())
	}
}

// Tampering with the body after signing must invalidate the delivery.
func TestWebhookRejectsTamperedBody(t *testing.T) {
	ledger := &mockLedger{}
	router := newWebhookRouter(ledger)

	payload := checkoutCompletedPayload("evt_tamper", 2000, validMetadata())
	signed := signedRequest(payload)
	tampered := strings.Replace(string(payload), `"amount_total":2000`, `"amount_total":9000`, 1)
	req, _ := http.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(tampered))
	req.Header.Set("Stripe-Signature", signed.Header.Get("Stripe-Signature"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if ledger.callCount() != 0 {
		t.Errorf("tampered delivery reached the ledger")
	}
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	ledger := &mockLedger{}
	router := newWebhookRouter(ledger)

	payload, _ := json.Marshal(map[string]interface{}{
		"id":          "evt_pi_1",
		"api_version": stripe.APIVersion,
		"type":        "payment_intent.succeeded",
		"data":        map[string]interface{}{"object": map[string]interface{}{"id": "pi_1"}},
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(payload))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"received":true`) {
		t.Errorf("body = %s, want received:true ack", w.Body.String())
	}
	if ledger.callCount() != 0 {
		t.Errorf("ignored event type reached the ledger")
	}
}

func TestWebhookMetadataValidation(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]string
	}{
		{"missing eventId", map[string]string{"userId": "7", "message": ""}},
		{"empty eventId", map[string]string{"eventId": "", "userId": "7", "message": ""}},
		{"non-numeric eventId", map[string]string{"eventId": "x", "userId": "7", "message": ""}},
		{"missing userId", map[string]string{"eventId": "1", "message": ""}},
		{"non-numeric userId", map[string]string{"eventId": "1", "userId": "x", "message": ""}},
		{"missing message key", map[string]string{"eventId": "1", "userId": "7"}},
		{"nil metadata", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &mockLedger{}
			router := newWebhookRouter(ledger)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, signedRequest(checkoutCompletedPayload("evt_md", 2000, tt.metadata)))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", w.Code, w.Body.String())
			}
			if ledger.callCount() != 0 {
				t.Errorf("malformed metadata reached the ledger")
			}
		})
	}
}

func TestWebhookAppliesContribution(t *testing.T) {
	ledger := &mockLedger{}
	router := newWebhookRouter(ledger)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(checkoutCompletedPayload("evt_ok_1", 2000, validMetadata())))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	if ledger.callCount() != 1 {
		t.Fatalf("ledger calls = %d, want 1", ledger.callCount())
	}
	call := ledger.calls[0]
	if call.providerEventID != "evt_ok_1" {
		t.Errorf("provider event id = %q", call.providerEventID)
	}
	if call.eventID != 1 {
		t.Errorf("event id = %d, want 1", call.eventID)
	}
	if call.contrib.UserID != 7 {
		t.Errorf("contributor = %d, want 7", call.contrib.UserID)
	}
	if call.contrib.AmountCents != 2000 {
		t.Errorf("amount = %d cents, want 2000", call.contrib.AmountCents)
	}
	if call.contrib.Message != "Bon anniversaire" {
		t.Errorf("message = %q", call.contrib.Message)
	}
}

// A redelivered event id must be acknowledged with 200 so Stripe stops
// retrying, without a second ledger mutation.
func TestWebhookDuplicateDeliveryAcks(t *testing.T) {
	ledger := &mockLedger{err: repository.ErrDuplicateWebhookEvent}
	router := newWebhookRouter(ledger)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(checkoutCompletedPayload("evt_dup", 2000, validMetadata())))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"received":true`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

// An unknown fundraiser is a 400 so the delivery is retried; the event
// may have been created after a redeploy race.
func TestWebhookFundraiserNotFound(t *testing.T) {
	ledger := &mockLedger{err: repository.ErrFundraiserNotFound}
	router := newWebhookRouter(ledger)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(checkoutCompletedPayload("evt_orphan", 2000, validMetadata())))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (%s)", w.Code, w.Body.String())
	}
}

// Concurrent distinct deliveries must all settle and the running total
// must equal their sum.
func TestWebhookConcurrentDeliveries(t *testing.T) {
	ledger := &mockLedger{}
	router := newWebhookRouter(ledger)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload := checkoutCompletedPayload(fmt.Sprintf("evt_conc_%d", i), 500, validMetadata())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, signedRequest(payload))
			if w.Code != http.StatusOK {
				t.Errorf("delivery %d: status = %d (%s)", i, w.Code, w.Body.String())
			}
		}(i)
	}
	wg.Wait()

	if got := ledger.callCount(); got != n {
		t.Fatalf("ledger calls = %d, want %d", got, n)
	}
	if ledger.total != n*500 {
		t.Errorf("running total = %d cents, want %d", ledger.total, n*500)
	}
}
