package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authsvc/account"
	"github.com/kbukum/authsvc/auth/authctx"
	"github.com/kbukum/authsvc/auth/jwt"
	"github.com/kbukum/authsvc/auth/session"
	"github.com/kbukum/authsvc/authz"
	"github.com/kbukum/authsvc/errors"
	"github.com/kbukum/authsvc/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newCodec(t *testing.T) *session.Codec {
	t.Helper()
	c, err := session.NewCodec(jwt.Config{Secret: "middleware-secret"})
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	return c
}

func tokenFor(t *testing.T, c *session.Codec, role account.Role) string {
	t.Helper()
	token, err := c.Issue(session.ClaimsFor(&account.Account{
		ID:       "acc-1",
		Email:    "ann@x.com",
		Role:     role,
		Provider: account.ProviderLocal,
	}))
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	return token
}

func decode(t *testing.T, body io.Reader) errors.Envelope {
	t.Helper()
	var env errors.Envelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return env
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = logger.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	id := w.Header().Get(HeaderRequestID)
	if id == "" {
		t.Fatal("expected generated request id")
	}
	if seen != id {
		t.Errorf("expected context id %s, got %s", id, seen)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "given-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(HeaderRequestID); got != "given-id" {
		t.Errorf("expected given-id, got %s", got)
	}
}

func TestRecovery_RendersInternalEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.NewNop()))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	env := decode(t, w.Body)
	if env.Success {
		t.Error("expected success=false")
	}
	if env.Code != errors.ErrCodeInternal {
		t.Errorf("expected code %s, got %s", errors.ErrCodeInternal, env.Code)
	}
	if strings.Contains(w.Body.String(), "boom") {
		t.Error("panic value leaked into response")
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(CORSConfig{
		AllowedOrigins: []string{"http://app.local"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization"},
	}))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://app.local")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://app.local" {
		t.Errorf("expected allowed origin, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST" {
		t.Errorf("expected methods header, got %q", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set("Origin", "http://evil.local")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS header for foreign origin, got %q", got)
	}
}

func TestBodySizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodySizeLimit("10"))
	r.POST("/", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("short")))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64))))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}

func TestRequestLogger_NilMetrics(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(logger.NewNop(), nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", w.Code)
	}
}

func TestAuthenticate(t *testing.T) {
	codec := newCodec(t)
	gate := authz.NewGate(codec)

	r := gin.New()
	r.GET("/me", Authenticate(gate), func(c *gin.Context) {
		claims, ok := authctx.Get(c.Request.Context())
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, claims.ID)
	})

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, authz.MsgNoToken},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, authz.MsgNoToken},
		{"lowercase scheme", "bearer " + tokenFor(t, codec, account.RoleUser), http.StatusUnauthorized, authz.MsgNoToken},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized, authz.MsgInvalidToken},
		{"valid token", "Bearer " + tokenFor(t, codec, account.RoleUser), http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			if tt.status == http.StatusOK {
				if w.Body.String() != "acc-1" {
					t.Errorf("expected acc-1, got %s", w.Body.String())
				}
				return
			}
			if env := decode(t, w.Body); env.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, env.Message)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	codec := newCodec(t)
	gate := authz.NewGate(codec)

	r := gin.New()
	r.GET("/admin", Authenticate(gate), RequireRoles(gate, account.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/unguarded", RequireRoles(gate, account.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		path   string
		role   account.Role
		status int
	}{
		{"admin allowed", "/admin", account.RoleAdmin, http.StatusOK},
		{"user forbidden", "/admin", account.RoleUser, http.StatusForbidden},
		{"no authenticate step", "/unguarded", account.RoleAdmin, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, codec, tt.role))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, w.Code)
			}
		})
	}
}
