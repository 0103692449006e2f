package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindMapping(t *testing.T) {
	tests := []struct {
		kind       Kind
		wantCode   string
		wantStatus int
	}{
		{Unauthenticated, "UNAUTHENTICATED", http.StatusUnauthorized},
		{InvalidArgument, "INVALID_ARGUMENT", http.StatusBadRequest},
		{NotFound, "NOT_FOUND", http.StatusNotFound},
		{FailedPrecondition, "FAILED_PRECONDITION", http.StatusPreconditionFailed},
		{Internal, "INTERNAL", http.StatusInternalServerError},
		{Unknown, "UNKNOWN", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.kind.Code(); got != tt.wantCode {
			t.Errorf("Code(%d) = %q, want %q", tt.kind, got, tt.wantCode)
		}
		if got := tt.kind.HTTPStatus(); got != tt.wantStatus {
			t.Errorf("HTTPStatus(%d) = %d, want %d", tt.kind, got, tt.wantStatus)
		}
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(New(NotFound, "missing")); got != NotFound {
		t.Errorf("KindOf = %d, want NotFound", got)
	}
	wrapped := fmt.Errorf("handler: %w", New(FailedPrecondition, "not ready"))
	if got := KindOf(wrapped); got != FailedPrecondition {
		t.Errorf("KindOf(wrapped) = %d, want FailedPrecondition", got)
	}
	if got := KindOf(errors.New("raw")); got != Unknown {
		t.Errorf("KindOf(raw) = %d, want Unknown", got)
	}
}

func TestPayloadShape(t *testing.T) {
	p := Payload(New(InvalidArgument, "eventId is required"))
	inner, ok := p["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("payload = %v, want error wrapper", p)
	}
	if inner["status"] != "INVALID_ARGUMENT" || inner["message"] != "eventId is required" {
		t.Errorf("inner = %v", inner)
	}

	// errors that never passed through this package must not leak detail
	p = Payload(errors.New("dial tcp 10.0.0.1:3306: connection refused"))
	inner = p["error"].(map[string]interface{})
	if inner["status"] != "UNKNOWN" {
		t.Errorf("status = %v, want UNKNOWN", inner["status"])
	}
	if inner["message"] != "an unexpected error occurred" {
		t.Errorf("raw error message leaked: %v", inner["message"])
	}
}
