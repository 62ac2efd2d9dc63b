package oidc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNotConfigured is returned when no client id is configured.
	ErrNotConfigured = errors.New("oidc: client id is not configured")

	// ErrMissingEmail is returned when a verified token carries no email.
	ErrMissingEmail = errors.New("oidc: token payload has no email")
)

// Verifier validates ID tokens against a provider's published keys.
// Discovery happens on the first Verify call and is retried after failures.
type Verifier struct {
	cfg    Config
	client *http.Client
	now    func() time.Time

	mu   sync.Mutex
	jwks *jwksCache
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithHTTPClient overrides the client used for discovery and JWKS requests.
func WithHTTPClient(c *http.Client) Option {
	return func(v *Verifier) { v.client = c }
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

// NewVerifier creates a Verifier. No network calls are made until the first
// token is verified.
func NewVerifier(cfg Config, opts ...Option) *Verifier {
	cfg.ApplyDefaults()
	cfg.Issuer = strings.TrimRight(cfg.Issuer, "/")
	v := &Verifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.HTTPTimeout},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Configured reports whether a client id is set.
func (v *Verifier) Configured() bool {
	return v.cfg.ClientID != ""
}

// Verify validates a raw ID token and returns its claims. It checks the
// signature against the provider's JWKS, the algorithm, issuer, audience
// and expiry.
func (v *Verifier) Verify(ctx context.Context, rawIDToken string) (*IDToken, error) {
	if !v.Configured() {
		return nil, ErrNotConfigured
	}
	jwks, err := v.keys(ctx)
	if err != nil {
		return nil, err
	}

	claims := gojwt.MapClaims{}
	_, err = gojwt.ParseWithClaims(rawIDToken, claims,
		func(t *gojwt.Token) (interface{}, error) {
			kid, _ := t.Header["kid"].(string)
			return jwks.key(ctx, kid)
		},
		gojwt.WithValidMethods(v.cfg.SupportedSigningAlgs),
		gojwt.WithAudience(v.cfg.ClientID),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("oidc: verify token: %w", err)
	}

	token := &IDToken{Claims: claims}
	token.Issuer, _ = claims.GetIssuer()
	token.Subject, _ = claims.GetSubject()
	token.Audience, _ = claims.GetAudience()
	if exp, _ := claims.GetExpirationTime(); exp != nil {
		token.ExpiresAt = exp.Time
	}
	if iat, _ := claims.GetIssuedAt(); iat != nil {
		token.IssuedAt = iat.Time
	}

	if token.Issuer != v.cfg.Issuer && !slices.Contains(v.cfg.AlternateIssuers, token.Issuer) {
		return nil, fmt.Errorf("oidc: issuer mismatch: got %q, expected %q", token.Issuer, v.cfg.Issuer)
	}
	return token, nil
}

// VerifyIdentity verifies the token and returns the profile it asserts.
// Tokens without an email are rejected with ErrMissingEmail.
func (v *Verifier) VerifyIdentity(ctx context.Context, rawIDToken string) (*UserInfo, error) {
	token, err := v.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, err
	}
	info := token.ToUserInfo()
	if info.Email == "" {
		return nil, ErrMissingEmail
	}
	return info, nil
}

// --- Discovery ---

type discoveryDoc struct {
	Issuer  string `json:"issuer"`
	JWKSUri string `json:"jwks_uri"`
}

func (v *Verifier) keys(ctx context.Context) (*jwksCache, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.jwks != nil {
		return v.jwks, nil
	}

	doc, err := v.discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("oidc: discovery failed for %s: %w", v.cfg.Issuer, err)
	}
	v.jwks = &jwksCache{
		jwksURI:  doc.JWKSUri,
		client:   v.client,
		cacheTTL: v.cfg.JWKSCacheDuration,
		now:      v.now,
	}
	return v.jwks, nil
}

func (v *Verifier) discover(ctx context.Context) (*discoveryDoc, error) {
	var doc discoveryDoc
	if err := getJSON(ctx, v.client, v.cfg.Issuer+"/.well-known/openid-configuration", &doc); err != nil {
		return nil, err
	}
	if doc.JWKSUri == "" {
		return nil, errors.New("discovery document missing jwks_uri")
	}
	return &doc, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("GET %s returned %d: %s", url, resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
