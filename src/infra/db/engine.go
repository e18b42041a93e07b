package db

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fastai/src/core/domain"
	"fastai/src/infra/config"
)

// txBeginner is the part of *pgxpool.Pool sessions need.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Engine wraps a pgx connection pool. It is shared by every request and is
// safe for concurrent use.
type Engine struct {
	pool  *pgxpool.Pool
	begin txBeginner
	log   *slog.Logger

	closeOnce sync.Once
}

// New creates the connection pool from cfg.
//
// The pool is lazy: no connection is opened here, so an unreachable database
// does not prevent startup (readiness reports it instead). Every pooled
// connection is pinged before it is handed out; a connection that fails the
// ping is destroyed and another one is acquired.
//
// A URL that cannot be resolved or parsed is a configuration error.
func New(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*Engine, error) {
	log.Info("creating database engine")

	dsn, err := cfg.ResolveURL()
	if err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, domain.NewConfigurationError(fmt.Sprintf("failed to parse database url: %v", err))
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	poolCfg.BeforeAcquire = prePing

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	log.Info("database engine created",
		"host", poolCfg.ConnConfig.Host,
		"port", poolCfg.ConnConfig.Port,
		"database", poolCfg.ConnConfig.Database,
	)

	return &Engine{
		pool:  pool,
		begin: pool,
		log:   log,
	}, nil
}

// prePing reports whether a pooled connection is still alive.
func prePing(ctx context.Context, conn *pgx.Conn) bool {
	return conn.Ping(ctx) == nil
}

// Pool exposes the underlying pool for adapters that need it (migrations).
func (e *Engine) Pool() *pgxpool.Pool {
	return e.pool
}

// Close releases all pooled connections. Calling it more than once is safe;
// only the first call has any effect. Sessions requested afterwards fail
// immediately.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.log.Info("destroying database engine")
		if e.pool != nil {
			e.pool.Close()
		}
	})
}
