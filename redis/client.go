package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/authsvc/logger"
)

// claimScript writes KEYS[2] only if it wins KEYS[1]. Both keys change
// together or not at all.
var claimScript = goredis.NewScript(`
if redis.call("SETNX", KEYS[1], ARGV[1]) == 1 then
  redis.call("SET", KEYS[2], ARGV[2])
  return 1
end
return 0
`)

// Client is a namespaced go-redis client.
type Client struct {
	rdb    *goredis.Client
	log    *logger.Logger
	prefix string

	mu     sync.Mutex
	closed bool
}

// New creates a Client. No connection is made until the first command.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("redis config: %w", err)
	}
	return &Client{
		rdb:    goredis.NewClient(cfg.options()),
		log:    log,
		prefix: cfg.KeyPrefix,
	}, nil
}

// Key joins parts under the client's namespace: "<prefix>:a:b".
func (c *Client) Key(parts ...string) string {
	if c.prefix == "" {
		return strings.Join(parts, ":")
	}
	return c.prefix + ":" + strings.Join(parts, ":")
}

// Ping verifies the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Get returns the value at key. A missing key yields an error for which
// IsNil reports true.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.rdb.Get(ctx, key).Result()
}

// Set stores value at key. A zero ttl means no expiry.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// ClaimAndSet atomically sets claimKey to claimValue and key to value,
// provided claimKey does not exist yet. It reports whether the claim won;
// a lost claim writes nothing.
func (c *Client) ClaimAndSet(ctx context.Context, claimKey, claimValue, key string, value any) (bool, error) {
	n, err := claimScript.Run(ctx, c.rdb, []string{claimKey, key}, claimValue, value).Int()
	if err != nil {
		return false, fmt.Errorf("redis claim %s: %w", claimKey, err)
	}
	return n == 1, nil
}

// IsNil reports whether err signals a missing key.
func IsNil(err error) bool {
	return errors.Is(err, goredis.Nil)
}

// Close closes the connection pool. It is safe to call more than once and
// on a nil Client.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.log.Debug("Closing Redis connection")
	return c.rdb.Close()
}
