// Package cache is a capability module wrapping a Redis client behind the
// loader.Module contract. It declares a dependency on "db" purely to
// exercise the Module Loader's dependency-ordering guarantee end to end;
// nothing in its own Init reaches into db's exports.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/krishnapaul242/gati/loader"
)

// ErrKeyNotFound is returned by Get when the key is absent.
var ErrKeyNotFound = errors.New("cache: key not found")

// Config configures the Redis client Module connects on Init.
type Config struct {
	Addr       string
	Password   string
	DB         int
	PoolSize   int
	DefaultTTL time.Duration
}

func (c Config) withDefaults() Config {
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.DefaultTTL <= 0 {
		c.DefaultTTL = 5 * time.Minute
	}
	return c
}

// Module owns a redis.Client for the lifetime it's registered with a
// loader.Loader.
type Module struct {
	cfg    Config
	client *redis.Client
}

// New returns an unconnected Module; Init dials Redis.
func New(cfg Config) *Module {
	return &Module{cfg: cfg.withDefaults()}
}

func (m *Module) Name() string           { return "cache" }
func (m *Module) Dependencies() []string { return []string{"db"} }

// Exports is the value cache's Init returns.
type Exports struct {
	client *redis.Client
}

// Get reads a key, returning ErrKeyNotFound when absent.
func (e Exports) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := e.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return val, nil
}

// Set writes a key with the given TTL. A ttl of 0 stores the key without
// expiration; Config.DefaultTTL is not applied here.
func (e Exports) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return e.client.Set(ctx, key, value, ttl).Err()
}

// Del removes a key.
func (e Exports) Del(ctx context.Context, key string) error {
	return e.client.Del(ctx, key).Err()
}

// TokenDenylist namespaces revoked-token tracking under a fixed key prefix,
// consumed by the auth module's Revoke/VerifyToken pair.
type TokenDenylist struct {
	client *redis.Client
}

const denylistPrefix = "gati:denylist:"

// Add marks a token ID as revoked until it would have expired anyway.
func (d TokenDenylist) Add(ctx context.Context, tokenID string, ttl time.Duration) error {
	return d.client.Set(ctx, denylistPrefix+tokenID, "1", ttl).Err()
}

// Contains reports whether a token ID has been revoked.
func (d TokenDenylist) Contains(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TokenDenylist returns the denylist helper bound to this module's client.
func (e Exports) TokenDenylist() TokenDenylist {
	return TokenDenylist{client: e.client}
}

func (m *Module) Init(ctx context.Context, _ loader.Dependencies) (any, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     m.cfg.Addr,
		Password: m.cfg.Password,
		DB:       m.cfg.DB,
		PoolSize: m.cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}

	m.client = client
	return Exports{client: client}, nil
}

func (m *Module) HealthCheck(ctx context.Context) error {
	if m.client == nil {
		return fmt.Errorf("cache: not initialized")
	}
	return m.client.Ping(ctx).Err()
}

func (m *Module) Shutdown(_ context.Context) error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}
