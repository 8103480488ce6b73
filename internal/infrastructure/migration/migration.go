package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("Starting database migrations")

	for _, m := range migrations {
		if err := m.Up(ctx, pool); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

var migrations = []Migration{
	{Name: "create_render_jobs", Up: createRenderJobs},
	{Name: "index_render_jobs_created_at", Up: indexRenderJobsCreatedAt},
}

func createRenderJobs(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS render_jobs (
			id           UUID PRIMARY KEY,
			resume_id    TEXT NOT NULL DEFAULT '',
			template_id  TEXT NOT NULL,
			locale       TEXT NOT NULL DEFAULT '',
			cache_key    TEXT NOT NULL DEFAULT '',
			cache_hit    BOOLEAN NOT NULL DEFAULT FALSE,
			status       TEXT NOT NULL,
			stage        TEXT NOT NULL DEFAULT '',
			bytes        INTEGER NOT NULL DEFAULT 0,
			duration_ms  BIGINT NOT NULL DEFAULT 0,
			error        TEXT NOT NULL DEFAULT '',
			artifact_key TEXT NOT NULL DEFAULT '',
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	return err
}

// indexRenderJobsCreatedAt backs the newest-first listing.
func indexRenderJobsCreatedAt(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS render_jobs_created_at_idx ON render_jobs (created_at DESC);`); err != nil {
		// An index is an optimisation; keep starting up without it.
		slog.Warn("Error creating render_jobs index", "error", err)
	}
	return nil
}
