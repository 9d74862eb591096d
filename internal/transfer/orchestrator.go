package transfer

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ytget/media-bot/internal/extractor"
	"github.com/ytget/media-bot/internal/metrics"
	"github.com/ytget/media-bot/internal/model"
	"github.com/ytget/media-bot/internal/platform"
)

// Package transfer drives one download through completion: acquire bytes for
// the chosen encoding, verify them against the size ceiling, hand the
// artifact to delivery, and clean up local storage on every exit path.

// MinArtifactSize is the plausibility floor; anything smaller is treated as
// a corrupt download.
const MinArtifactSize = 100

// Job is one orchestration run. It is owned exclusively by the goroutine
// executing Run and never shared across concurrent jobs.
type Job struct {
	ID      string
	UserID  int64
	ChatID  int64
	URL     string
	Title   string
	Variant model.EncodingVariant

	phase model.Phase
	dest  string
}

// NewJob builds a job from a resolved selection.
func NewJob(userID, chatID int64, url, title string, variant model.EncodingVariant) *Job {
	return &Job{
		ID:      uuid.NewString()[:8],
		UserID:  userID,
		ChatID:  chatID,
		URL:     url,
		Title:   title,
		Variant: variant,
		phase:   model.PhaseInitializing,
	}
}

// Phase returns the job's current phase.
func (j *Job) Phase() model.Phase {
	return j.phase
}

// Orchestrator executes transfer jobs. Jobs for different users run
// concurrently; each user has at most one in flight.
type Orchestrator struct {
	extractor   extractor.Extractor
	messenger   Messenger
	recorder    Recorder
	downloadDir string
	sizeCeiling int64
	log         *zap.Logger

	mu     sync.Mutex
	active map[int64]struct{}
}

// NewOrchestrator creates a transfer orchestrator.
func NewOrchestrator(ex extractor.Extractor, m Messenger, rec Recorder, downloadDir string, sizeCeiling int64, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		extractor:   ex,
		messenger:   m,
		recorder:    rec,
		downloadDir: downloadDir,
		sizeCeiling: sizeCeiling,
		log:         log,
		active:      make(map[int64]struct{}),
	}
}

// Run executes the job to a terminal phase. It blocks for the duration of
// the transfer; callers run it on its own goroutine. A second selection
// while the user's job is in flight returns ErrJobActive immediately.
//
// The local artifact is removed on every exit path: success, verification
// failure, delivery failure, or fault.
func (o *Orchestrator) Run(ctx context.Context, job *Job, rep Reporter) error {
	if !o.acquire(job.UserID) {
		metrics.JobsRejectedTotal.Inc()
		return ErrJobActive
	}
	defer o.release(job.UserID)

	metrics.JobsStartedTotal.Inc()
	metrics.ActiveJobs.Inc()
	defer metrics.ActiveJobs.Dec()

	log := o.log.With(
		zap.String("job", job.ID),
		zap.Int64("user", job.UserID),
		zap.String("format", job.Variant.FormatID))
	log.Info("transfer started", zap.String("title", job.Title), zap.String("kind", job.Variant.Kind.String()))

	if err := o.run(ctx, job, rep, log); err != nil {
		job.phase = model.PhaseFailed
		rep.Report(model.PhaseFailed, 0, "", 0)
		metrics.JobsFailedTotal.WithLabelValues(FailureReason(err)).Inc()
		log.Warn("transfer failed", zap.String("phase", job.phase.String()), zap.Error(err))
		return err
	}
	return nil
}

func (o *Orchestrator) run(ctx context.Context, job *Job, rep Reporter, log *zap.Logger) error {
	// Initializing: compute the unique destination path up front. The path
	// is the single source of truth for where the artifact lives; nothing
	// ever scans the directory to guess.
	job.phase = model.PhaseInitializing
	rep.Report(model.PhaseInitializing, 0, "", 0)

	if job.Variant.FormatID == "" {
		return ErrUnsupportedFormat
	}
	if err := platform.CreateDirectoryIfNotExists(o.downloadDir); err != nil {
		return fmt.Errorf("%w: preparing download dir: %v", ErrProviderFailure, err)
	}
	job.dest = platform.ArtifactPath(o.downloadDir, job.Title, job.Variant.Ext)
	defer o.cleanup(job, log)

	// Downloading.
	job.phase = model.PhaseDownloading
	rep.Report(model.PhaseDownloading, 0, "", 0)

	sink := func(p extractor.Progress) {
		rep.Report(model.PhaseDownloading, p.Percent, p.Rate, p.ETA)
	}
	if err := o.extractor.Fetch(ctx, job.URL, job.Variant.FormatID, job.dest, sink); err != nil {
		return fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}

	info, err := os.Stat(job.dest)
	if err != nil || info.Size() < MinArtifactSize {
		return ErrCorruptArtifact
	}

	// Verifying: check the actual on-disk size, independent of whatever the
	// source advertised before the download.
	job.phase = model.PhaseVerifying
	rep.Report(model.PhaseVerifying, 0, "", 0)

	size := info.Size()
	if size > o.sizeCeiling {
		return fmt.Errorf("%w: %s", ErrOversizedArtifact, platform.FormatSize(size))
	}

	// Delivering: typed first, one untyped fallback.
	job.phase = model.PhaseDelivering
	rep.Report(model.PhaseDelivering, 0, "", 0)

	caption := renderCaption(job.Title, job.Variant.Kind, size)
	if err := o.messenger.SendMedia(ctx, job.ChatID, job.dest, job.Variant.Kind, caption); err != nil {
		log.Warn("typed delivery rejected, falling back to document", zap.Error(err))
		if docErr := o.messenger.SendDocument(ctx, job.ChatID, job.dest, caption); docErr != nil {
			return fmt.Errorf("%w: typed: %v; document: %v", ErrDeliveryRejected, err, docErr)
		}
	}

	// Completed: exactly one event record and one counter increment.
	job.phase = model.PhaseCompleted
	rep.Report(model.PhaseCompleted, 100, "", 0)
	metrics.JobsCompletedTotal.Inc()
	metrics.BytesDeliveredTotal.Add(float64(size))

	rec := DownloadRecord{
		UserID:   job.UserID,
		URL:      job.URL,
		Title:    job.Title,
		FormatID: job.Variant.FormatID,
		Kind:     job.Variant.Kind,
		Size:     size,
	}
	if err := o.recorder.RecordDownload(ctx, rec); err != nil {
		log.Warn("recording download event failed", zap.Error(err))
	}
	if err := o.recorder.IncrementUserCount(ctx, job.UserID); err != nil {
		log.Warn("incrementing user counter failed", zap.Error(err))
	}

	log.Info("transfer completed", zap.Int64("bytes", size))
	return nil
}

// cleanup removes the local artifact. Runs unconditionally on every exit
// path; a missing file means it was never written, which is fine.
func (o *Orchestrator) cleanup(job *Job, log *zap.Logger) {
	if job.dest == "" {
		return
	}
	if err := os.Remove(job.dest); err != nil && !os.IsNotExist(err) {
		log.Warn("artifact cleanup failed", zap.String("path", job.dest), zap.Error(err))
	}
}

func (o *Orchestrator) acquire(userID int64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.active[userID]; busy {
		return false
	}
	o.active[userID] = struct{}{}
	return true
}

func (o *Orchestrator) release(userID int64) {
	o.mu.Lock()
	delete(o.active, userID)
	o.mu.Unlock()
}

func renderCaption(title string, kind model.MediaKind, size int64) string {
	icon := "🎥"
	if kind == model.KindAudio {
		icon = "🎵"
	}
	return fmt.Sprintf("%s %s\n📁 Size: %s", icon, title, platform.FormatSize(size))
}
