package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/artemisia-corp/storefront/pkg/config"
	"github.com/artemisia-corp/storefront/pkg/logger"
)

// Every key lives under art:<kind>:<id>.
const (
	keyNamespace  = "art"
	kindSession   = "session"
	kindRateLimit = "rate_limit"
)

var (
	// ErrNotFound is returned when a session record does not exist or expired.
	ErrNotFound = errors.New("redis: record not found")

	errNotInitialized = errors.New("redis client not initialized")
)

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// Client holds the storefront's two kinds of Redis state: session records
// and fixed-window rate limit counters.
type Client struct {
	rdb *redis.Client
}

// New connects using cfg and fails fast when Redis does not answer a PING.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	logg.Info(logg.WithFields(ctx, map[string]any{"redis_addr": opts.Addr, "redis_db": opts.DB}), "redis connection established")
	return &Client{rdb: rdb}, nil
}

// NewFromClient wraps an existing go-redis client.
func NewFromClient(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// optionsFromConfig prefers ARTEMISIA_REDIS_URL; pool and timeout settings from
// cfg fill whatever the URL leaves unset.
func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	switch {
	case strings.TrimSpace(cfg.URL) != "":
		parsed, err := redis.ParseURL(strings.TrimSpace(cfg.URL))
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
		if opts.DB == 0 {
			opts.DB = cfg.DB
		}
	case strings.TrimSpace(cfg.Address) != "":
		opts = &redis.Options{Addr: strings.TrimSpace(cfg.Address), Password: cfg.Password, DB: cfg.DB}
	default:
		return nil, errors.New("redis url or address is required")
	}

	fill := func(dst *int, v int) {
		if *dst == 0 {
			*dst = v
		}
	}
	fillDur := func(dst *time.Duration, v time.Duration) {
		if *dst == 0 {
			*dst = v
		}
	}
	fill(&opts.PoolSize, cfg.PoolSize)
	fill(&opts.MinIdleConns, cfg.MinIdleConns)
	fillDur(&opts.DialTimeout, cfg.DialTimeout)
	fillDur(&opts.ReadTimeout, cfg.ReadTimeout)
	fillDur(&opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

// PutSession stores a session record unless the id is already taken.
func (c *Client) PutSession(ctx context.Context, sessionID string, payload []byte, ttl time.Duration) (bool, error) {
	if c == nil || c.rdb == nil {
		return false, errNotInitialized
	}
	return c.rdb.SetNX(ctx, SessionKey(sessionID), payload, ttl).Result()
}

// LoadSession returns the stored record or ErrNotFound.
func (c *Client) LoadSession(ctx context.Context, sessionID string) ([]byte, error) {
	if c == nil || c.rdb == nil {
		return nil, errNotInitialized
	}
	raw, err := c.rdb.Get(ctx, SessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return raw, err
}

// DeleteSession removes a session record. Missing records are not an error.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	if c == nil || c.rdb == nil {
		return errNotInitialized
	}
	return c.rdb.Del(ctx, SessionKey(sessionID)).Err()
}

// IncrWithTTL increments key and starts its TTL on the first hit of a window.
// A counter left without expiry (the EXPIRE after INCR failed) gets one on the next hit.
func (c *Client) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if c == nil || c.rdb == nil {
		return 0, errNotInitialized
	}
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if ttl <= 0 {
		return count, nil
	}
	if count > 1 {
		remaining, err := c.rdb.TTL(ctx, key).Result()
		if err != nil {
			return count, err
		}
		if remaining >= 0 {
			return count, nil
		}
	}
	if err := c.rdb.Expire(ctx, key, ttl).Err(); err != nil {
		return count, err
	}
	return count, nil
}

// FixedWindowAllow counts one attempt for scope and reports whether it is within limit.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	count, err := c.IncrWithTTL(ctx, RateLimitKey(scope), window)
	if err != nil {
		return false, 0, err
	}
	return count <= limit, count, nil
}

// Ping verifies the connection.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return errNotInitialized
	}
	return c.rdb.Ping(ctx).Err()
}

// Close shuts down the underlying client if available.
func (c *Client) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// SessionKey is the key holding a storefront session record.
func SessionKey(sessionID string) string {
	return key(kindSession, sessionID)
}

// RateLimitKey is the key counting attempts for a rate limit scope.
func RateLimitKey(scope string) string {
	return key(kindRateLimit, scope)
}

func key(kind, id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return keyNamespace + ":" + kind
	}
	return keyNamespace + ":" + kind + ":" + id
}
