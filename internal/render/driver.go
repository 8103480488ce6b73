// Package render turns resumes into PDF documents using a shared headless
// browser.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"resume-renderer/internal/artifact"
	"resume-renderer/internal/cache"
	"resume-renderer/internal/compose"
	"resume-renderer/internal/domain"
	"resume-renderer/internal/metrics"
	"resume-renderer/internal/model"
	"resume-renderer/internal/templates"
	"resume-renderer/pkg/infrastructure"

	"github.com/google/uuid"
)

// Recorder persists the outcome of each render.
type Recorder interface {
	Save(ctx context.Context, j *domain.RenderJob) error
}

// Config wires a Driver. Only Pool is required.
type Config struct {
	Pool          *infrastructure.BrowserPool
	Registry      *templates.Registry
	PDF           infrastructure.PDFOptions
	Timeout       time.Duration
	CacheSize     int
	CacheTTL      time.Duration
	MinifyHTML    bool
	DefaultLocale string
	Recorder      Recorder
	Archive       artifact.Store
}

// Driver renders resumes to PDF. It is safe for concurrent use.
type Driver struct {
	pool       *infrastructure.BrowserPool
	registry   *templates.Registry
	compositor *compose.Compositor
	cache      *cache.Cache
	pdf        infrastructure.PDFOptions
	timeout    time.Duration
	recorder   Recorder
	archive    artifact.Store
}

// Stats combines cache and browser pool state.
type Stats struct {
	Cache cache.Stats              `json:"cache"`
	Pool  infrastructure.PoolStats `json:"pool"`
}

func New(cfg Config) (*Driver, error) {
	if cfg.Pool == nil {
		return nil, errors.New("render: browser pool is required")
	}
	if cfg.Registry == nil {
		cfg.Registry = templates.Default()
	}
	if cfg.PDF == (infrastructure.PDFOptions{}) {
		cfg.PDF = infrastructure.A4(0.5)
	}

	opts := []compose.Option{}
	if cfg.DefaultLocale != "" {
		opts = append(opts, compose.WithDefaultLocale(cfg.DefaultLocale))
	}
	if cfg.MinifyHTML {
		opts = append(opts, compose.WithMinify())
	}
	c, err := compose.New(opts...)
	if err != nil {
		return nil, err
	}

	d := &Driver{
		pool:       cfg.Pool,
		registry:   cfg.Registry,
		compositor: c,
		cache:      cache.New(cfg.CacheSize, cfg.CacheTTL),
		pdf:        cfg.PDF,
		timeout:    cfg.Timeout,
		recorder:   cfg.Recorder,
		archive:    cfg.Archive,
	}
	metrics.RegisterGauge("render_cache_entries", "Entries in the composed HTML cache", func() float64 {
		return float64(d.cache.Len())
	})
	metrics.RegisterGauge("browser_active_pages", "Pages currently open on the shared browser", func() float64 {
		return float64(d.pool.Stats().ActivePages)
	})
	return d, nil
}

// document is composed HTML plus what it was derived from.
type document struct {
	HTML       string
	Key        string
	TemplateID string
	Locale     string
	CacheHit   bool
}

// ComposeHTML returns the HTML GeneratePDF would print, sharing its cache.
// An empty templateID uses the resume's own template.
func (d *Driver) ComposeHTML(r *model.Resume, templateID string) (string, error) {
	doc, err := d.document(r, templateID)
	if err != nil {
		return "", err
	}
	return doc.HTML, nil
}

func (d *Driver) document(r *model.Resume, templateID string) (document, error) {
	if r == nil {
		return document{}, &Error{Stage: StageCompose, Err: fmt.Errorf("%w: nil resume", ErrComposition)}
	}
	if templateID == "" {
		templateID = r.TemplateID
	}
	tpl := d.registry.Lookup(templateID)
	if _, known := d.registry.Resolve(templateID); !known && templateID != "" {
		slog.Debug("Unknown template, using default", "requested", templateID, "template", tpl.ID)
	}
	locale := d.compositor.ResolveLocale(r.Locale)

	key, err := cache.Fingerprint(tpl.ID, locale, r)
	if err != nil {
		return document{}, &Error{Stage: StageCompose, Err: fmt.Errorf("%w: %v", ErrComposition, err)}
	}
	doc := document{Key: key, TemplateID: tpl.ID, Locale: locale}

	if html, ok := d.cache.Get(key); ok {
		metrics.ObserveCache(true)
		slog.Debug("Render cache hit", "key", key[:12], "template", tpl.ID)
		doc.HTML, doc.CacheHit = html, true
		return doc, nil
	}
	metrics.ObserveCache(false)

	html, err := d.compositor.Compose(r, tpl)
	if err != nil {
		return document{}, &Error{Stage: StageCompose, Err: fmt.Errorf("%w: %v", ErrComposition, err)}
	}
	d.cache.Set(key, html)
	slog.Debug("Render cache miss", "key", key[:12], "template", tpl.ID)
	doc.HTML = html
	return doc, nil
}

// GeneratePDF renders r with templateID, falling back to the default
// template for unknown ids. Any failure is an *Error matching ErrRender
// and no bytes are returned with it.
func (d *Driver) GeneratePDF(ctx context.Context, r *model.Resume, templateID string) ([]byte, error) {
	start := time.Now()
	metrics.IncRenderStarted()

	job := &domain.RenderJob{ID: uuid.New(), CreatedAt: start.UTC(), Status: domain.RenderStatusSucceeded}
	if r != nil {
		job.ResumeID = r.ID
	}

	out, err := d.generate(ctx, r, templateID, job)

	job.Duration = time.Since(start)
	metrics.ObserveRenderDurationMs(float64(job.Duration.Milliseconds()))
	if err != nil {
		metrics.IncRenderFailed()
		job.Status = domain.RenderStatusFailed
		job.Stage = string(stageOf(err))
		job.Error = err.Error()
		slog.Error("Render failed", "template", job.TemplateID, "stage", job.Stage, "error", err)
	} else {
		metrics.IncRenderSucceeded()
		job.Bytes = len(out)
		slog.Info("Render completed", "template", job.TemplateID, "bytes", job.Bytes, "cache_hit", job.CacheHit, "duration", job.Duration)
	}
	d.record(job)

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Driver) generate(ctx context.Context, r *model.Resume, templateID string, job *domain.RenderJob) ([]byte, error) {
	doc, err := d.document(r, templateID)
	if err != nil {
		return nil, err
	}
	job.TemplateID, job.Locale, job.CacheKey, job.CacheHit = doc.TemplateID, doc.Locale, doc.Key, doc.CacheHit

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	pg, err := d.pool.Acquire(ctx)
	if err != nil {
		return nil, &Error{Stage: StageAcquire, Err: err}
	}
	if err := pg.Load(ctx, doc.HTML); err != nil {
		d.pool.Discard(pg, err)
		return nil, &Error{Stage: StageLoad, Err: err}
	}
	out, err := pg.PrintPDF(ctx, d.pdf)
	if err != nil {
		d.pool.Discard(pg, err)
		return nil, &Error{Stage: StagePrint, Err: err}
	}
	if err := validatePDF(out); err != nil {
		d.pool.Discard(pg, err)
		return nil, &Error{Stage: StageValidate, Err: err}
	}
	d.pool.Release(pg)

	job.ArtifactKey = d.store(ctx, r, doc, out)
	return out, nil
}

// store archives a rendered PDF when an archive is configured. Failures
// are logged and never fail the render.
func (d *Driver) store(ctx context.Context, r *model.Resume, doc document, out []byte) string {
	if d.archive == nil {
		return ""
	}
	key := path.Join(time.Now().UTC().Format("2006/01/02"), doc.Key[:16]+"-"+r.FileName("pdf"))
	loc, err := d.archive.Put(ctx, key, "application/pdf", out)
	if err != nil {
		slog.Warn("Archiving PDF failed", "key", key, "error", err)
		return ""
	}
	return loc
}

func (d *Driver) record(job *domain.RenderJob) {
	if d.recorder == nil {
		return
	}
	// The caller's context may already be done; the log write stands alone.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.recorder.Save(ctx, job); err != nil {
		slog.Warn("Recording render job failed", "id", job.ID, "error", err)
	}
}

// Templates exposes the catalog the driver renders with.
func (d *Driver) Templates() *templates.Registry { return d.registry }

func (d *Driver) Stats() Stats {
	return Stats{Cache: d.cache.Stats(), Pool: d.pool.Stats()}
}

// Close drops cached documents and shuts the browser down.
func (d *Driver) Close() {
	d.cache.Purge()
	d.pool.Shutdown()
}
