// Package db is a capability module wrapping a Postgres connection pool
// behind the loader.Module contract.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/krishnapaul242/gati/loader"
)

// Config configures the pool Module opens on Init.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	ConnectTimeout  time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxConns <= 0 {
		c.MaxConns = 10
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	return c
}

// Module opens and owns a pgxpool.Pool for the lifetime it's registered
// with a loader.Loader.
type Module struct {
	cfg  Config
	pool *pgxpool.Pool
}

// New returns an unconnected Module; Init opens the pool.
func New(cfg Config) *Module {
	return &Module{cfg: cfg.withDefaults()}
}

func (m *Module) Name() string           { return "db" }
func (m *Module) Dependencies() []string { return nil }

// Exports is the value db's Init returns, retrievable by dependents via
// loader.Dependencies.Get("db").
type Exports struct {
	pool *pgxpool.Pool
}

// Pool returns the underlying pgxpool.Pool for callers that need direct
// access (transactions, batch operations).
func (e Exports) Pool() *pgxpool.Pool { return e.pool }

// Query runs a read query against the pool.
func (e Exports) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return e.pool.Query(ctx, sql, args...)
}

// Exec runs a write statement against the pool.
func (e Exports) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return e.pool.Exec(ctx, sql, args...)
}

func (m *Module) Init(ctx context.Context, _ loader.Dependencies) (any, error) {
	poolCfg, err := pgxpool.ParseConfig(m.cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("db: parsing dsn: %w", err)
	}
	poolCfg.MaxConns = m.cfg.MaxConns
	poolCfg.MinConns = m.cfg.MinConns
	poolCfg.MaxConnLifetime = m.cfg.ConnMaxLifetime
	poolCfg.MaxConnIdleTime = m.cfg.ConnMaxIdleTime
	poolCfg.ConnConfig.ConnectTimeout = m.cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("db: opening pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	m.pool = pool
	return Exports{pool: pool}, nil
}

func (m *Module) HealthCheck(ctx context.Context) error {
	if m.pool == nil {
		return fmt.Errorf("db: not initialized")
	}
	return m.pool.Ping(ctx)
}

func (m *Module) Shutdown(_ context.Context) error {
	if m.pool != nil {
		m.pool.Close()
	}
	return nil
}
