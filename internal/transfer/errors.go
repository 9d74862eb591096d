package transfer

import "errors"

// Failure taxonomy. Every failing job terminates with exactly one of these
// in its error chain; callers map them to user-facing messages instead of
// surfacing raw internal faults.
var (
	// ErrUnsupportedFormat means the requested encoding vanished from the
	// source since resolution.
	ErrUnsupportedFormat = errors.New("requested format is no longer available")

	// ErrOversizedArtifact means the downloaded file exceeds the delivery
	// size ceiling. Not retried.
	ErrOversizedArtifact = errors.New("file exceeds the delivery size limit")

	// ErrCorruptArtifact means the provider produced no output or a
	// near-empty file. Not retried.
	ErrCorruptArtifact = errors.New("downloaded file is missing or corrupt")

	// ErrDeliveryRejected means the messenger refused the artifact even
	// after the untyped-attachment fallback.
	ErrDeliveryRejected = errors.New("messenger rejected the file")

	// ErrProviderFailure is any extractor or network fault while fetching.
	ErrProviderFailure = errors.New("media provider failed")

	// ErrJobActive means the user already has a transfer in flight; a new
	// selection is rejected rather than queued.
	ErrJobActive = errors.New("a download is already in progress for this user")
)

// FailureReason returns a short stable label for a failed job's taxonomy
// kind, suitable for metrics and logs.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, ErrOversizedArtifact):
		return "oversized"
	case errors.Is(err, ErrCorruptArtifact):
		return "corrupt"
	case errors.Is(err, ErrDeliveryRejected):
		return "delivery_rejected"
	case errors.Is(err, ErrProviderFailure):
		return "provider_failure"
	case errors.Is(err, ErrJobActive):
		return "job_active"
	default:
		return "internal"
	}
}

// UserMessage maps a job failure onto the distinct, phase-specific message
// shown to the user. Raw internal fault strings are never the sole
// explanation when a taxonomy kind applies.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return "❌ Requested format is not available for this video anymore. Please resolve the link again."
	case errors.Is(err, ErrOversizedArtifact):
		return "❌ File is too large. Maximum size allowed is 2GB."
	case errors.Is(err, ErrCorruptArtifact):
		return "❌ Downloaded file is too small or corrupted. Please try a different quality."
	case errors.Is(err, ErrDeliveryRejected):
		return "❌ Failed to send file. Please try again."
	case errors.Is(err, ErrProviderFailure):
		return "❌ Download failed. Please try again or choose a different quality."
	case errors.Is(err, ErrJobActive):
		return "⏳ A download is already in progress. Please wait for it to finish."
	default:
		return "❌ Server error. Please try again later."
	}
}
