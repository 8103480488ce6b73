package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port     string
	Env      string
	LogLevel slog.Level

	ChromePath         string
	BrowserIdleTimeout time.Duration
	RenderTimeout      time.Duration
	CacheSize          int
	CacheTTL           time.Duration
	MinifyHTML         bool
	Paper              string
	MarginInches       float64
	DefaultLocale      string

	JobsDatabaseURL string

	ArtifactStore string
	ArtifactDir   string
	S3Bucket      string
	S3Prefix      string
	AWSRegion     string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
}

// Load reads configuration from environment variables, after loading a
// .env file when one is present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:     getEnv("PORT", "3000"),
		Env:      normalizeEnv(getEnv("ENV", "development")),
		LogLevel: parseLevel(getEnv("LOG_LEVEL", "info")),

		ChromePath:         os.Getenv("CHROME_PATH"),
		BrowserIdleTimeout: getDuration("BROWSER_IDLE_TIMEOUT", 5*time.Minute),
		RenderTimeout:      getDuration("RENDER_TIMEOUT", 60*time.Second),
		CacheSize:          getInt("RENDER_CACHE_SIZE", 100),
		CacheTTL:           getDuration("RENDER_CACHE_TTL", 10*time.Minute),
		MinifyHTML:         getBool("RENDER_MINIFY_HTML", false),
		Paper:              strings.ToUpper(getEnv("PDF_PAPER", "A4")),
		MarginInches:       getFloat("PDF_MARGIN_INCHES", 0.5),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "en"),

		JobsDatabaseURL: os.Getenv("JOBS_DATABASE_URL"),

		ArtifactStore: strings.ToLower(getEnv("ARTIFACT_STORE", "none")),
		ArtifactDir:   getEnv("ARTIFACT_DIR", "resume-data/generated"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
		S3Prefix:      os.Getenv("S3_PREFIX"),
		AWSRegion:     os.Getenv("AWS_REGION"),
		S3Endpoint:    os.Getenv("S3_ENDPOINT"),
		S3AccessKey:   os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:   os.Getenv("S3_SECRET_KEY"),
	}
}

// NewLogger builds the process logger: JSON in production, text elsewhere.
func (c Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.Env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	// Bare numbers are seconds.
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	slog.Warn("Ignoring invalid duration", "key", key, "value", raw)
	return def
}

func getInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		slog.Warn("Ignoring invalid integer", "key", key, "value", raw)
		return def
	}
	return n
}

func getFloat(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		slog.Warn("Ignoring invalid number", "key", key, "value", raw)
		return def
	}
	return f
}

func getBool(key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}

func parseLevel(raw string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	default:
		return "development"
	}
}
