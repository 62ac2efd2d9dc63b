package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/authsvc/config"
	"github.com/kbukum/authsvc/logger"
)

func testConfig(driver string) *Config {
	cfg := &Config{}
	cfg.Name = "authsvc-test"
	cfg.Server.Host = "127.0.0.1"
	cfg.Auth.JWT.Secret = "app-test-secret"
	cfg.Auth.Password.BcryptCost = 4
	cfg.Store.Driver = driver
	return cfg
}

func startApp(t *testing.T, cfg *Config) *App {
	t.Helper()
	a, err := New(cfg, WithLogger(logger.NewNop()), WithGracefulTimeout(5*time.Second), WithPort(0))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() {
		if err := a.Shutdown(context.Background()); err != nil {
			t.Errorf("Shutdown failed: %v", err)
		}
	})
	return a
}

func post(t *testing.T, h http.Handler, path string, body map[string]string) (int, map[string]any) {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

func exerciseAccountFlow(t *testing.T, a *App) {
	t.Helper()
	h := a.Handler()
	register := map[string]string{"full_name": "Ann Lee", "email": "ann@x.com", "password": "secret1"}

	if code, body := post(t, h, "/api/v1/auth/register", register); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %v", code, body)
	}
	if code, _ := post(t, h, "/api/v1/auth/register", register); code != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate, got %d", code)
	}
	code, body := post(t, h, "/api/v1/auth/login", map[string]string{"email": "ann@x.com", "password": "secret1"})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	data, _ := body["data"].(map[string]any)
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatal("expected token in login response")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 from /me, got %d", w.Code)
	}
}

func TestApp_StoreDrivers(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name   string
		config func() *Config
	}{
		{"memory", func() *Config { return testConfig(StoreMemory) }},
		{"sqlite", func() *Config { return testConfig(StoreSQLite) }},
		{"redis", func() *Config {
			cfg := testConfig(StoreRedis)
			cfg.Store.Redis.Addr = mr.Addr()
			return cfg
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := startApp(t, tt.config())
			exerciseAccountFlow(t, a)

			w := httptest.NewRecorder()
			a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			if w.Code != http.StatusOK {
				t.Errorf("expected healthy service, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestApp_ServesOverTCP(t *testing.T) {
	a := startApp(t, testConfig(StoreMemory))

	resp, err := http.Get("http://" + a.Addr() + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing secret", func(c *Config) { c.Auth.JWT.Secret = "" }},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mongo" }},
		{"bad ttl", func(c *Config) { c.Auth.JWT.AccessTokenTTL = "soon" }},
		{"bad environment", func(c *Config) { c.Environment = "qa" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(StoreMemory)
			tt.mutate(cfg)
			if _, err := New(cfg, WithLogger(logger.NewNop())); err == nil {
				t.Error("expected config validation error")
			}
		})
	}
}

func TestStoreConfig_Defaults(t *testing.T) {
	var mem StoreConfig
	mem.ApplyDefaults()
	if mem.Driver != StoreMemory {
		t.Errorf("expected memory driver by default, got %s", mem.Driver)
	}

	sqlite := StoreConfig{Driver: StoreSQLite}
	sqlite.ApplyDefaults()
	if sqlite.Database.Driver != StoreSQLite || sqlite.Database.DSN != ":memory:" {
		t.Errorf("unexpected sqlite defaults %+v", sqlite.Database)
	}
	if !sqlite.Database.Migrate {
		t.Error("expected in-memory sqlite to be migrated")
	}

	pg := StoreConfig{Driver: StorePostgres}
	pg.Database.DSN = "postgres://auth:hunter2@db:5432/auth"
	if d := pg.Describe(); strings.Contains(d, "hunter2") {
		t.Errorf("expected DSN to be masked, got %q", d)
	}
}

type fakeFS struct{ files map[string]bool }

func (f fakeFS) Exists(path string) bool {
	return f.files[path]
}

func (f fakeFS) LoadEnv(string) error {
	return nil
}

func TestLoad_EnvAliases(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yml := "name: authsvc\nstore:\n  driver: sqlite\nauth:\n  jwt:\n    secret: from-file\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("JWT_EXPIRES_IN", "1d")
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "file:test.db")

	cfg, err := Load(
		config.WithFileSystem(fakeFS{files: map[string]bool{path: true}}),
		config.WithConfigFile(path),
	)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Auth.JWT.Secret != "from-env" {
		t.Errorf("expected secret from env, got %q", cfg.Auth.JWT.Secret)
	}
	if cfg.Auth.JWT.AccessTokenTTL != "1d" {
		t.Errorf("expected ttl 1d, got %q", cfg.Auth.JWT.AccessTokenTTL)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Store.Driver != StoreSQLite || cfg.Store.Database.DSN != "file:test.db" {
		t.Errorf("unexpected store config %+v", cfg.Store)
	}
}
