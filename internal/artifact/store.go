// Package artifact archives rendered documents.
package artifact

import (
	"context"
	"fmt"
	"strings"
)

// Store saves a rendered document under key and returns where it landed.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// Config selects and configures a Store.
type Config struct {
	Kind      string // none, local or s3
	Dir       string
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// New builds the store named by cfg.Kind. "none" and "" return a nil Store.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", "none":
		return nil, nil
	case "local":
		return NewLocal(cfg.Dir), nil
	case "s3", "r2":
		s, err := NewS3(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown artifact store %q", cfg.Kind)
	}
}

func applyPrefix(prefix, key string) string {
	cleanPrefix := strings.Trim(prefix, "/")
	cleanKey := strings.TrimLeft(key, "/")
	if cleanPrefix == "" {
		return cleanKey
	}
	if cleanKey == "" {
		return cleanPrefix
	}
	return cleanPrefix + "/" + cleanKey
}
