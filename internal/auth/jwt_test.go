package auth

import (
	"testing"
	"time"

	"github.com/Demba-Soumare/birthdate/config"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 168 * time.Hour,
		Issuer:        "birthdate",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateAccessToken(cfg, 42, "paul@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "paul@example.com" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Issuer != "birthdate" {
		t.Errorf("issuer = %q", claims.Issuer)
	}
}

func TestParseAccessTokenRejects(t *testing.T) {
	cfg := testJWTConfig()
	good, _ := GenerateAccessToken(cfg, 42, "paul@example.com")

	other := testJWTConfig()
	other.AccessSecret = "another-secret"
	foreign, _ := GenerateAccessToken(other, 42, "paul@example.com")

	expired := testJWTConfig()
	expired.AccessExpiry = -time.Minute
	stale, _ := GenerateAccessToken(expired, 42, "paul@example.com")

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"wrong secret", foreign},
		{"expired", stale},
		{"truncated", good[:len(good)/2]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAccessToken(cfg, tt.token); err == nil {
				t.Fatal("token accepted, want rejection")
			}
		})
	}
}
