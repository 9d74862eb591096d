package progress

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ytget/media-bot/internal/model"
)

// Package progress turns raw transfer telemetry into throttled human-facing
// updates. A Reporter is scoped to exactly one transfer job and discarded
// with it.

// DefaultInterval is the minimum gap between emitted updates.
const DefaultInterval = 3 * time.Second

// Editor edits the single progress message bound to a job.
type Editor func(text string) error

// Reporter rate-limits progress updates so the output channel is never
// flooded with edit storms. Phase transitions and terminal phases bypass the
// throttle; within a phase, at most one update per interval goes out.
type Reporter struct {
	edit     Editor
	interval time.Duration
	log      *zap.Logger

	mu        sync.Mutex
	lastEmit  time.Time
	lastPhase model.Phase
	now       func() time.Time
}

// NewReporter creates a reporter bound to one progress message.
func NewReporter(edit Editor, interval time.Duration, log *zap.Logger) *Reporter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Reporter{
		edit:     edit,
		interval: interval,
		log:      log,
		now:      time.Now,
	}
}

// Report emits a phase update, subject to throttling. Percent is 0..100 and
// only meaningful while downloading; rate and eta may be zero-valued.
func (r *Reporter) Report(phase model.Phase, percent float64, rate string, eta time.Duration) {
	r.mu.Lock()
	bypass := phase.IsTerminal() || phase != r.lastPhase
	if !bypass && r.now().Sub(r.lastEmit) < r.interval {
		r.mu.Unlock()
		return
	}
	r.lastEmit = r.now()
	r.lastPhase = phase
	r.mu.Unlock()

	if err := r.edit(render(phase, percent, rate, eta)); err != nil {
		// A lost edit is cosmetic; the transfer itself is unaffected.
		r.log.Debug("progress edit failed", zap.Error(err))
	}
}

func render(phase model.Phase, percent float64, rate string, eta time.Duration) string {
	switch phase {
	case model.PhaseInitializing:
		return "⏳ Preparing download..."
	case model.PhaseDownloading:
		if rate == "" {
			rate = "—"
		}
		return fmt.Sprintf("📥 Downloading: %.1f%%\n⚡ Speed: %s\n⏰ ETA: %s", percent, rate, formatETA(eta))
	case model.PhaseVerifying:
		return "🔎 Verifying file..."
	case model.PhaseDelivering:
		return "📤 Sending file to your chat..."
	case model.PhaseCompleted:
		return "✅ Download completed!"
	case model.PhaseFailed:
		return "❌ Download failed."
	}
	return string(phase)
}

// formatETA renders a duration as hh:mm:ss or mm:ss, or "—" if unknown.
func formatETA(eta time.Duration) string {
	secs := int(eta.Seconds())
	if secs <= 0 {
		return "—"
	}
	hours := secs / 3600
	minutes := (secs % 3600) / 60
	seconds := secs % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
