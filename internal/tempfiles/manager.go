package tempfiles

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/tunegrab/tunegrab/internal/logger"
)

const dirPermissions = 0o755

// Manager allocates and removes temp assets under one managed directory.
// Uniqueness of allocated paths is the only concurrency-safety mechanism:
// concurrent requests derived from the same source title never collide, so
// no locking is needed.
type Manager struct {
	dir string
}

// NewManager creates the managed directory if needed. A creation error is
// returned alongside a usable Manager so the caller can decide to continue
// degraded (allocations will fail until the directory exists).
func NewManager(dir string) (*Manager, error) {
	m := &Manager{dir: dir}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return m, fmt.Errorf("failed to create temp directory %s: %w", dir, err)
	}
	return m, nil
}

// Dir returns the managed directory path.
func (m *Manager) Dir() string {
	return m.dir
}

// Allocate produces a collision-resistant path for a new temp asset. The
// base name is sanitized and suffixed with a UUID so two concurrent
// requests for the same title get distinct paths.
func (m *Manager) Allocate(base, ext string) string {
	name := Sanitize(base) + "-" + uuid.NewString() + ext
	return filepath.Join(m.dir, name)
}

// Sanitize reduces s to alphanumeric characters only, preventing path
// traversal and invalid filesystem characters. Titles with nothing left
// after sanitizing fall back to "media".
func Sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "media"
	}
	return b.String()
}

// Cleanup removes the given paths. Paths for assets that were never
// created are skipped silently; removal errors are logged but never
// propagated, so calling Cleanup can never fail the caller. Safe to call
// with the same path set more than once.
func (m *Manager) Cleanup(ctx context.Context, paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := os.Remove(path); err != nil {
			logger.Error(ctx, "failed to remove temp asset", err, logger.Fields{
				"path": path,
			})
			continue
		}
		logger.Info(ctx, "removed temp asset", logger.Fields{
			"path": path,
		})
	}
}

// SweepOlderThan removes managed-dir entries whose modification time is
// older than maxAge. It is a safety net for assets orphaned by a crash;
// in-flight requests always allocate fresh paths, so a generous maxAge
// cannot race a live download.
func (m *Manager) SweepOlderThan(ctx context.Context, maxAge time.Duration) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		logger.Error(ctx, "failed to read temp directory for sweep", err, logger.Fields{
			"dir": m.dir,
		})
		return
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(m.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.Error(ctx, "failed to sweep stale temp asset", err, logger.Fields{
				"path": path,
			})
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.Info(ctx, "swept stale temp assets", logger.Fields{
			"removed": removed,
			"max_age": maxAge.String(),
		})
	}
}

// Schedule registers a periodic sweep on c using a cron expression.
func (m *Manager) Schedule(c *cron.Cron, schedule string, maxAge time.Duration) error {
	_, err := c.AddFunc(schedule, func() {
		m.SweepOlderThan(context.Background(), maxAge)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule temp sweep: %w", err)
	}
	return nil
}
