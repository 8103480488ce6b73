package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RenderStatusSucceeded = "succeeded"
	RenderStatusFailed    = "failed"
)

// RenderJob records one PDF render for auditing and capacity planning.
type RenderJob struct {
	ID          uuid.UUID     `json:"id"`
	ResumeID    string        `json:"resume_id,omitempty"`
	TemplateID  string        `json:"template_id"`
	Locale      string        `json:"locale"`
	CacheKey    string        `json:"cache_key"`
	CacheHit    bool          `json:"cache_hit"`
	Status      string        `json:"status"`
	Stage       string        `json:"stage,omitempty"`
	Bytes       int           `json:"bytes"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error,omitempty"`
	ArtifactKey string        `json:"artifact_key,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}
