package extractor

import (
	"context"
	"time"

	"github.com/ytget/media-bot/internal/model"
)

// Progress carries raw transfer telemetry from the provider.
type Progress struct {
	DownloadedBytes int64
	TotalBytes      int64
	Percent         float64 // 0..100, 0 when total is unknown
	Rate            string  // human readable, e.g. "1.2MB/s"
	ETA             time.Duration
}

// Extractor defines the provider contract the transfer pipeline depends on.
type Extractor interface {
	// Probe fetches metadata and the raw variant list for a media URL
	// without downloading anything.
	Probe(ctx context.Context, url string) (model.MediaDescriptor, error)

	// Fetch downloads the chosen encoding to destPath, forwarding telemetry
	// to sink. The file at destPath is the only output; implementations must
	// not scatter artifacts elsewhere.
	Fetch(ctx context.Context, url, formatID, destPath string, sink func(Progress)) error
}
