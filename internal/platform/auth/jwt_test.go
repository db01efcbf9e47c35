package auth

import (
	"testing"
	"time"

	"shortlink/internal/platform/config"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{
		Secret:         "test-secret",
		AccessTokenTTL: time.Hour,
	})

	token, err := svc.GenerateAccessToken("alice")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if claims.Subject != "alice" {
		t.Errorf("Expected subject alice, got %s", claims.Subject)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{
		Secret:         "test-secret",
		AccessTokenTTL: -time.Minute,
	})

	token, err := svc.GenerateAccessToken("alice")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := svc.ValidateToken(token); err == nil {
		t.Error("Expected expired token to be rejected")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	issuer := NewTokenService(config.JWTConfig{Secret: "secret-a", AccessTokenTTL: time.Hour})
	verifier := NewTokenService(config.JWTConfig{Secret: "secret-b", AccessTokenTTL: time.Hour})

	token, err := issuer.GenerateAccessToken("alice")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("Expected token with wrong signature to be rejected")
	}
}

func TestMalformedTokenRejected(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{Secret: "test-secret", AccessTokenTTL: time.Hour})

	if _, err := svc.ValidateToken("not.a.token"); err == nil {
		t.Error("Expected malformed token to be rejected")
	}
}
