package jwt

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

type testClaims struct {
	gojwt.RegisteredClaims
	UserID string `json:"user_id"`
}

func (c *testClaims) SetDefaults(now time.Time, ttl time.Duration, issuer string, audience []string) {
	c.IssuedAt = gojwt.NewNumericDate(now)
	c.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	c.Issuer = issuer
	c.Audience = audience
}

func newTestService(t *testing.T, cfg Config, opts ...Option) *Service[*testClaims] {
	t.Helper()
	svc, err := NewService(&cfg, func() *testClaims { return &testClaims{} }, opts...)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

func TestService_RoundTrip(t *testing.T) {
	svc := newTestService(t, Config{Secret: "test-secret", Issuer: "authsvc", Audience: []string{"web"}})

	token, err := svc.GenerateAccess(&testClaims{UserID: "u-1"})
	if err != nil {
		t.Fatalf("GenerateAccess failed: %v", err)
	}
	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.UserID != "u-1" {
		t.Errorf("expected user_id u-1, got %q", claims.UserID)
	}
	if claims.Issuer != "authsvc" {
		t.Errorf("expected issuer authsvc, got %q", claims.Issuer)
	}
}

func TestService_DefaultTTL(t *testing.T) {
	svc := newTestService(t, Config{Secret: "s"})
	if svc.TTL() != 7*24*time.Hour {
		t.Errorf("expected 7d default ttl, got %v", svc.TTL())
	}
}

func TestService_Expired(t *testing.T) {
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := issued
	clock := func() time.Time { return now }
	svc := newTestService(t, Config{Secret: "s", AccessTokenTTL: "1h"}, WithClock(clock))

	token, err := svc.GenerateAccess(&testClaims{UserID: "u-1"})
	if err != nil {
		t.Fatalf("GenerateAccess failed: %v", err)
	}

	now = issued.Add(59 * time.Minute)
	if _, err := svc.Parse(token); err != nil {
		t.Errorf("expected valid before expiry, got %v", err)
	}

	now = issued.Add(61 * time.Minute)
	if _, err := svc.Parse(token); err == nil {
		t.Error("expected expired token to fail")
	}
}

func TestService_WrongSecret(t *testing.T) {
	a := newTestService(t, Config{Secret: "secret-a"})
	b := newTestService(t, Config{Secret: "secret-b"})

	token, _ := a.GenerateAccess(&testClaims{UserID: "u-1"})
	if _, err := b.Parse(token); err == nil {
		t.Error("expected signature mismatch to fail")
	}
}

func TestService_RejectsOtherAlgorithm(t *testing.T) {
	hs256 := newTestService(t, Config{Secret: "s", Method: HS256})
	hs512 := newTestService(t, Config{Secret: "s", Method: HS512})

	token, _ := hs512.GenerateAccess(&testClaims{UserID: "u-1"})
	if _, err := hs256.Parse(token); err == nil {
		t.Error("expected algorithm mismatch to fail")
	}
}

func TestService_RequiresExpiry(t *testing.T) {
	svc := newTestService(t, Config{Secret: "s"})
	token, err := svc.Generate(&testClaims{UserID: "u-1"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := svc.Parse(token); err == nil {
		t.Error("expected token without exp to fail")
	}
}

func TestService_Tampered(t *testing.T) {
	svc := newTestService(t, Config{Secret: "s"})
	token, _ := svc.GenerateAccess(&testClaims{UserID: "u-1"})
	parts := strings.Split(token, ".")
	payload := []byte(parts[1])
	if payload[5] == 'x' {
		payload[5] = 'y'
	} else {
		payload[5] = 'x'
	}
	parts[1] = string(payload)
	if _, err := svc.Parse(strings.Join(parts, ".")); err == nil {
		t.Error("expected tampered payload to fail")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Secret: "s"}, false},
		{"missing secret", Config{}, true},
		{"bad method", Config{Secret: "s", Method: "RS256"}, true},
		{"bad ttl", Config{Secret: "s", AccessTokenTTL: "forever"}, true},
		{"negative ttl", Config{Secret: "s", AccessTokenTTL: "-1h"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ApplyDefaults()
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
