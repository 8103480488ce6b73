package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "ENV", "LOG_LEVEL", "BROWSER_IDLE_TIMEOUT", "RENDER_CACHE_SIZE", "RENDER_CACHE_TTL", "PDF_MARGIN_INCHES", "ARTIFACT_STORE"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "3000" || cfg.Env != "development" || cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("unexpected basics %+v", cfg)
	}
	if cfg.BrowserIdleTimeout != 5*time.Minute || cfg.CacheSize != 100 || cfg.CacheTTL != 10*time.Minute {
		t.Fatalf("unexpected render defaults %+v", cfg)
	}
	if cfg.MarginInches != 0.5 || cfg.Paper != "A4" || cfg.ArtifactStore != "none" {
		t.Fatalf("unexpected output defaults %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BROWSER_IDLE_TIMEOUT", "90")
	t.Setenv("RENDER_CACHE_TTL", "30s")
	t.Setenv("RENDER_CACHE_SIZE", "-3")
	t.Setenv("RENDER_MINIFY_HTML", "true")
	t.Setenv("PDF_PAPER", "letter")

	cfg := Load()
	if cfg.Env != "production" || cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("unexpected basics %+v", cfg)
	}
	if cfg.BrowserIdleTimeout != 90*time.Second || cfg.CacheTTL != 30*time.Second {
		t.Fatalf("unexpected durations %+v", cfg)
	}
	if cfg.CacheSize != 100 {
		t.Fatalf("invalid size should fall back, got %d", cfg.CacheSize)
	}
	if !cfg.MinifyHTML || cfg.Paper != "LETTER" {
		t.Fatalf("unexpected flags %+v", cfg)
	}
}
