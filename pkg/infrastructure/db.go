package infrastructure

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewRenderLogPool connects to the render log database. An empty dsn means
// render logging is disabled and returns a nil pool.
func NewRenderLogPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, nil
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse render log dsn: %w", err)
	}
	cfg.MaxConns = 4
	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect render log db: %w", err)
	}
	return pool, nil
}
