package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/authsvc/component"
	"github.com/kbukum/authsvc/logger"
)

func newTestClient(t *testing.T, prefix string) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	client, err := New(Config{Addr: mini.Addr(), KeyPrefix: prefix}, logger.NewNop())
	if err != nil {
		t.Fatalf("failed to create redis client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, mini
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Addr != "localhost:6379" || cfg.KeyPrefix != "authsvc" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}

	cfg.ReadTimeout = "soon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid read_timeout to fail")
	}
}

func TestClient_Key(t *testing.T) {
	tests := []struct {
		prefix string
		parts  []string
		want   string
	}{
		{"authsvc", []string{"account", "42"}, "authsvc:account:42"},
		{"", []string{"email", "a@x.io"}, "email:a@x.io"},
	}
	for _, tt := range tests {
		client := &Client{prefix: tt.prefix}
		if got := client.Key(tt.parts...); got != tt.want {
			t.Errorf("expected %s, got %s", tt.want, got)
		}
	}
}

func TestClient_GetSet(t *testing.T) {
	client, mini := newTestClient(t, "t")
	ctx := context.Background()

	if err := client.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, err := client.Get(ctx, "k"); err != nil || got != "v" {
		t.Errorf("expected v, got %q (%v)", got, err)
	}
	if ttl := mini.TTL("k"); ttl != time.Minute {
		t.Errorf("expected TTL 1m, got %v", ttl)
	}
	if _, err := client.Get(ctx, "missing"); !IsNil(err) {
		t.Errorf("expected nil error for missing key, got %v", err)
	}
}

func TestClient_ClaimAndSet(t *testing.T) {
	client, mini := newTestClient(t, "t")
	ctx := context.Background()

	won, err := client.ClaimAndSet(ctx, "idx:a", "1", "doc:1", `{"n":1}`)
	if err != nil || !won {
		t.Fatalf("expected first claim to win, got %v %v", won, err)
	}
	won, err = client.ClaimAndSet(ctx, "idx:a", "2", "doc:2", `{"n":2}`)
	if err != nil || won {
		t.Fatalf("expected second claim to lose, got %v %v", won, err)
	}

	if got, _ := mini.Get("idx:a"); got != "1" {
		t.Errorf("expected claim to keep 1, got %s", got)
	}
	if !mini.Exists("doc:1") {
		t.Error("expected winning document to be written")
	}
	if mini.Exists("doc:2") {
		t.Error("expected losing document not to be written")
	}
}

func TestClient_CloseTwice(t *testing.T) {
	client, _ := newTestClient(t, "t")
	if err := client.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	var nilClient *Client
	if err := nilClient.Close(); err != nil {
		t.Errorf("nil Close failed: %v", err)
	}
}

func TestComponent_Lifecycle(t *testing.T) {
	mini := miniredis.RunT(t)
	ctx := context.Background()

	c := NewComponent(Config{Addr: mini.Addr()}, logger.NewNop())
	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s: %s", h.Status, h.Message)
	}
	if c.Client() == nil {
		t.Fatal("expected client after start")
	}
	if err := c.Stop(ctx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
	if err := c.Stop(ctx); err != nil {
		t.Errorf("second Stop failed: %v", err)
	}
}

func TestComponent_StartFailsWhenUnreachable(t *testing.T) {
	mini, _ := miniredis.Run()
	addr := mini.Addr()
	mini.Close()

	c := NewComponent(Config{Addr: addr, DialTimeout: "100ms", MaxRetries: 1}, logger.NewNop())
	if err := c.Start(context.Background()); err == nil {
		t.Error("expected start to fail against a closed server")
	}
}
