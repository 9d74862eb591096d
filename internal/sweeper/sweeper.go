package sweeper

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ytget/media-bot/internal/metrics"
)

// Package sweeper reclaims orphaned artifacts that an orchestrator failed to
// clean up (crash, leak). It never touches files younger than the retention
// window, so in-flight downloads are safe even when their job looks stalled.

const (
	// DefaultPeriod is how often the artifact directory is scanned.
	DefaultPeriod = 30 * time.Minute

	// DefaultRetention is the minimum age before a file is reclaimed.
	DefaultRetention = 30 * time.Minute
)

// Sweeper periodically deletes stale files from the artifact directory.
type Sweeper struct {
	dir       string
	period    time.Duration
	retention time.Duration
	log       *zap.Logger
	now       func() time.Time
}

// New creates a sweeper for the given directory. Non-positive period or
// retention fall back to the defaults.
func New(dir string, period, retention time.Duration, log *zap.Logger) *Sweeper {
	if period <= 0 {
		period = DefaultPeriod
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Sweeper{
		dir:       dir,
		period:    period,
		retention: retention,
		log:       log,
		now:       time.Now,
	}
}

// Run blocks, sweeping on a fixed period until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	s.log.Info("sweeper started",
		zap.String("dir", s.dir),
		zap.Duration("period", s.period),
		zap.Duration("retention", s.retention))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep scans the directory once and removes files older than the retention
// window. Files disappearing between listing and deletion were cleaned by
// their owning job and are not an error.
func (s *Sweeper) Sweep() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("sweep: listing artifact dir failed", zap.Error(err))
		}
		return
	}

	cutoff := s.now().Add(-s.retention)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			continue // already gone
		}
		if info.ModTime().After(cutoff) {
			continue // too young, may belong to an in-flight job
		}

		if err := os.Remove(path); err != nil {
			if !os.IsNotExist(err) {
				s.log.Warn("sweep: removing stale artifact failed", zap.String("path", path), zap.Error(err))
			}
			continue
		}
		metrics.SweptFilesTotal.Inc()
		s.log.Info("sweep: reclaimed stale artifact", zap.String("path", path), zap.Time("modified", info.ModTime()))
	}
}
