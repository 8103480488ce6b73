package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "resume-renderer/internal/adapter/http"
	repo "resume-renderer/internal/adapter/repository"
	"resume-renderer/internal/artifact"
	"resume-renderer/internal/config"
	"resume-renderer/internal/infrastructure/migration"
	"resume-renderer/internal/render"
	infra "resume-renderer/pkg/infrastructure"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(cfg.NewLogger())

	ctx := context.Background()

	// infra setup
	logPool, err := infra.NewRenderLogPool(ctx, cfg.JobsDatabaseURL)
	if err != nil {
		slog.Warn("Render log DB not available", "error", err)
	}
	if logPool != nil {
		if err := migration.RunMigrations(ctx, logPool); err != nil {
			slog.Warn("Render log migrations failed", "error", err)
		}
		defer logPool.Close()
	}
	renderLog := repo.NewRenderLogRepo(logPool)

	archive, err := artifact.New(ctx, artifact.Config{
		Kind:      cfg.ArtifactStore,
		Dir:       cfg.ArtifactDir,
		Bucket:    cfg.S3Bucket,
		Prefix:    cfg.S3Prefix,
		Region:    cfg.AWSRegion,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		slog.Warn("Artifact store disabled", "kind", cfg.ArtifactStore, "error", err)
	}

	pool := infra.NewBrowserPool(infra.NewChromeLauncher(infra.ChromeOptions{ExecPath: cfg.ChromePath}), cfg.BrowserIdleTimeout)

	pdf := infra.A4(cfg.MarginInches)
	if cfg.Paper == "LETTER" {
		pdf = infra.Letter(cfg.MarginInches)
	}

	rcfg := render.Config{
		Pool:          pool,
		PDF:           pdf,
		Timeout:       cfg.RenderTimeout,
		CacheSize:     cfg.CacheSize,
		CacheTTL:      cfg.CacheTTL,
		MinifyHTML:    cfg.MinifyHTML,
		DefaultLocale: cfg.DefaultLocale,
		Archive:       archive,
	}
	if renderLog.Enabled() {
		rcfg.Recorder = renderLog
	}
	driver, err := render.New(rcfg)
	if err != nil {
		slog.Error("Renderer setup failed", "error", err)
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		AppName:               "resume-renderer",
		BodyLimit:             1 << 20,
		DisableStartupMessage: cfg.Env == "production",
	})

	var recent httpadapter.RenderLog
	if renderLog.Enabled() {
		recent = renderLog
	}
	h := httpadapter.NewHandler(driver, recent)
	h.Register(app)

	go func() {
		slog.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	slog.Info("Shutting down")
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		slog.Warn("HTTP shutdown incomplete", "error", err)
	}
	driver.Close()
}
