package repository

import (
	"context"
	"fmt"
	"time"

	"resume-renderer/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

// RenderLogRepo persists render outcomes to the render_jobs table.
type RenderLogRepo struct {
	pool *pgxpool.Pool
}

// NewRenderLogRepo returns a repo backed by pool. A nil pool turns every
// call into a no-op so the renderer runs without a database.
func NewRenderLogRepo(pool *pgxpool.Pool) *RenderLogRepo {
	return &RenderLogRepo{pool: pool}
}

func (r *RenderLogRepo) Enabled() bool { return r != nil && r.pool != nil }

func (r *RenderLogRepo) Save(ctx context.Context, j *domain.RenderJob) error {
	if !r.Enabled() {
		return nil
	}
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx, `INSERT INTO render_jobs (id, resume_id, template_id, locale, cache_key, cache_hit, status, stage, bytes, duration_ms, error, artifact_key, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, stage = EXCLUDED.stage, bytes = EXCLUDED.bytes, duration_ms = EXCLUDED.duration_ms, error = EXCLUDED.error, artifact_key = EXCLUDED.artifact_key`,
		j.ID, j.ResumeID, j.TemplateID, j.Locale, j.CacheKey, j.CacheHit, j.Status, j.Stage, j.Bytes, j.Duration.Milliseconds(), j.Error, j.ArtifactKey, j.CreatedAt)
	if err != nil {
		return fmt.Errorf("save render job %s: %w", j.ID, err)
	}
	return nil
}

// Recent returns the latest render jobs, newest first.
func (r *RenderLogRepo) Recent(ctx context.Context, limit int) ([]domain.RenderJob, error) {
	if !r.Enabled() {
		return nil, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `SELECT id, resume_id, template_id, locale, cache_key, cache_hit, status, stage, bytes, duration_ms, error, artifact_key, created_at
		FROM render_jobs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query render jobs: %w", err)
	}
	defer rows.Close()

	var out []domain.RenderJob
	for rows.Next() {
		var (
			j  domain.RenderJob
			ms int64
		)
		if err := rows.Scan(&j.ID, &j.ResumeID, &j.TemplateID, &j.Locale, &j.CacheKey, &j.CacheHit, &j.Status, &j.Stage, &j.Bytes, &ms, &j.Error, &j.ArtifactKey, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan render job: %w", err)
		}
		j.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, j)
	}
	return out, rows.Err()
}
