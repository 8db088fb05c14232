package db

import (
	"context"
	"fmt"
	"time"

	"todo_api/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolOptions bounds the connection pool. MaxConns covers the fixed size plus
// the overflow allowance; callers past the bound wait in Acquire.
type PoolOptions struct {
	MaxConns          int32
	HealthCheckPeriod time.Duration
}

// Connect opens the process-wide pool and verifies it with a ping.
func Connect(ctx context.Context, dsn string, opts PoolOptions) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	cfg.MinConns = 0
	if opts.HealthCheckPeriod > 0 {
		cfg.HealthCheckPeriod = opts.HealthCheckPeriod
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connected", "max_conns", cfg.MaxConns)
	return pool, nil
}
