package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authsvc/component"
	"github.com/kbukum/authsvc/errors"
	"github.com/kbukum/authsvc/logger"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	cfg.Port = 0
	s := New(cfg, logger.NewNop())
	s.ApplyMiddleware(nil)
	return s
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.ReadTimeout != "15s" || cfg.IdleTimeout != "60s" {
		t.Errorf("unexpected timeouts %s/%s", cfg.ReadTimeout, cfg.IdleTimeout)
	}
	if cfg.MaxBodySize != "1MB" {
		t.Errorf("expected max body 1MB, got %s", cfg.MaxBodySize)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("expected wildcard origin, got %v", cfg.CORS.AllowedOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"port too large", Config{Port: 70000}},
		{"negative read timeout", Config{Port: 80, ReadTimeout: "-1s"}},
		{"unparseable write timeout", Config{Port: 80, WriteTimeout: "soon"}},
		{"unparseable idle timeout", Config{Port: 80, IdleTimeout: "1x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name   string
		status component.HealthStatus
		code   int
	}{
		{"healthy", component.StatusHealthy, http.StatusOK},
		{"unhealthy", component.StatusUnhealthy, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.RegisterDefaultEndpoints("authsvc", func(context.Context) []component.Health {
				return []component.Health{{Name: "database", Status: tt.status}}
			})

			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, w.Code)
			}
			var body struct {
				Status     string             `json:"status"`
				Service    string             `json:"service"`
				Components []component.Health `json:"components"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if body.Status != string(tt.status) {
				t.Errorf("expected status %s, got %s", tt.status, body.Status)
			}
			if body.Service != "authsvc" || len(body.Components) != 1 {
				t.Errorf("unexpected body %+v", body)
			}
		})
	}
}

func TestInfoEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.RegisterDefaultEndpoints("authsvc", nil)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/info", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body["service"] != "authsvc" {
		t.Errorf("expected service authsvc, got %v", body["service"])
	}
	if _, ok := body["version"]; !ok {
		t.Error("expected version field")
	}
}

func TestRespondHelpers(t *testing.T) {
	s := newTestServer(t)
	s.Engine().GET("/created", func(c *gin.Context) { RespondCreated(c, "made", gin.H{"id": "1"}) })
	s.Engine().GET("/app-error", func(c *gin.Context) { RespondWithError(c, errors.NotFound("User not found")) })
	s.Engine().GET("/plain-error", func(c *gin.Context) { RespondWithError(c, fmt.Errorf("disk on fire")) })
	s.Engine().GET("/status", func(c *gin.Context) {
		RespondWithStatus(c, http.StatusUnauthorized, errors.Validation("bad"))
	})

	tests := []struct {
		path    string
		code    int
		success bool
		message string
	}{
		{"/created", http.StatusCreated, true, "made"},
		{"/app-error", http.StatusNotFound, false, "User not found"},
		{"/plain-error", http.StatusInternalServerError, false, errors.Internal(nil).Message},
		{"/status", http.StatusUnauthorized, false, "bad"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, w.Code)
			}
			var env errors.Envelope
			if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if env.Success != tt.success || env.Message != tt.message {
				t.Errorf("unexpected envelope %+v", env)
			}
		})
	}
}

func TestServerComponent_Lifecycle(t *testing.T) {
	s := newTestServer(t)
	s.RegisterDefaultEndpoints("authsvc", nil)
	comp := NewComponent(s)

	ctx := context.Background()
	if h := comp.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if h := comp.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %s", h.Status)
	}

	resp, err := http.Get("http://" + s.Addr() + "/info")
	if err != nil {
		t.Fatalf("GET /info failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	if err := comp.Stop(ctx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}
