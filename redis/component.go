package redis

import (
	"context"
	"fmt"

	"github.com/kbukum/authsvc/component"
	"github.com/kbukum/authsvc/logger"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component owns a Client for the lifetime of the service.
type Component struct {
	cfg    Config
	log    *logger.Logger
	client *Client
}

// NewComponent creates a Redis component. The client is created on Start.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log.WithComponent("redis")}
}

// Client returns the client, or nil before Start.
func (c *Component) Client() *Client { return c.client }

func (c *Component) Name() string { return "redis" }

// Start dials the server and fails unless it answers PING.
func (c *Component) Start(ctx context.Context) error {
	client, err := New(c.cfg, c.log)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis start: %w", err)
	}
	c.client = client
	return nil
}

func (c *Component) Stop(_ context.Context) error { return c.client.Close() }

func (c *Component) Health(ctx context.Context) component.Health {
	if c.client == nil {
		return component.Unhealthy(c.Name(), "not started")
	}
	if err := c.client.Ping(ctx); err != nil {
		return component.Unhealthy(c.Name(), err.Error())
	}
	return component.Healthy(c.Name())
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Redis",
		Type:    "redis",
		Details: fmt.Sprintf("%s db=%d pool=%d prefix=%s", c.cfg.Addr, c.cfg.DB, c.cfg.PoolSize, c.cfg.KeyPrefix),
	}
}
