package transfer

import (
	"context"
	"time"

	"github.com/ytget/media-bot/internal/model"
)

// Messenger delivers finished artifacts. Implementations enforce the same
// size ceiling as the rest of the pipeline before uploading.
type Messenger interface {
	// SendMedia delivers the artifact typed as audio or video.
	SendMedia(ctx context.Context, chatID int64, path string, kind model.MediaKind, caption string) error

	// SendDocument delivers the artifact as an untyped attachment; used as
	// the one-shot fallback when typed delivery is rejected.
	SendDocument(ctx context.Context, chatID int64, path string, caption string) error
}

// Recorder persists accounting side effects of a completed job. Exactly one
// record and one increment happen per completed job, zero on failure.
type Recorder interface {
	RecordDownload(ctx context.Context, rec DownloadRecord) error
	IncrementUserCount(ctx context.Context, userID int64) error
}

// DownloadRecord is the event written once per completed job.
type DownloadRecord struct {
	UserID   int64
	URL      string
	Title    string
	FormatID string
	Kind     model.MediaKind
	Size     int64
}

// Reporter receives phase/percent telemetry for one job. The progress
// package provides the throttled implementation.
type Reporter interface {
	Report(phase model.Phase, percent float64, rate string, eta time.Duration)
}
