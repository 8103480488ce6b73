package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir matches where generated documents have always been written.
const DefaultDir = "resume-data/generated"

// Local writes artifacts below a base directory.
type Local struct {
	baseDir string
}

func NewLocal(baseDir string) *Local {
	if baseDir == "" {
		baseDir = DefaultDir
	}
	return &Local{baseDir: baseDir}
}

func (s *Local) Put(ctx context.Context, key, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	if clean == string(filepath.Separator) || strings.HasSuffix(key, "/") {
		return "", fmt.Errorf("invalid artifact key %q", key)
	}
	full := filepath.Join(s.baseDir, clean)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	// Write then rename so readers never observe a partial file.
	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("rename artifact: %w", err)
	}
	return full, nil
}
