// Package postgres stores saves and their event journal in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Neon681/bmt-idle-sub000/internal/config"
)

// applicationName tags every connection in pg_stat_activity.
const applicationName = "idled"

// ErrSchemaMissing is returned by Open when the saves tables have not been migrated.
var ErrSchemaMissing = errors.New("saves schema missing; run cmd/migrate")

// Pool owns the pgx connection pool behind a SaveRepository.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to the database described by cfg.
//
// Precondition: cfg passes config validation for the postgres backend.
// Postcondition: Returns a pinged Pool or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Name, err)
	}
	return &Pool{pool: pool}, nil
}

// schemaReady reports whether every table the repository writes exists.
func (p *Pool) schemaReady(ctx context.Context) (bool, error) {
	var saves, events bool
	err := p.pool.QueryRow(ctx, `
		SELECT to_regclass('saves') IS NOT NULL, to_regclass('save_events') IS NOT NULL`,
	).Scan(&saves, &events)
	if err != nil {
		return false, fmt.Errorf("checking schema: %w", err)
	}
	return saves && events, nil
}

// Close releases all pool resources.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}

// Open connects, verifies the migrated schema and returns a repository that
// owns its pool.
//
// Postcondition: on success, Close on the repository closes the pool.
// Returns ErrSchemaMissing when migrations have not been applied.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*SaveRepository, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	ok, err := pool.schemaReady(ctx)
	if err == nil && !ok {
		err = ErrSchemaMissing
	}
	if err != nil {
		pool.Close()
		return nil, err
	}
	repo := NewSaveRepository(pool.DB())
	repo.owner = pool
	return repo, nil
}
