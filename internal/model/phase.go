package model

// Phase represents the state of a transfer job. Phases advance strictly in
// order; no phase begins before the prior one's postconditions hold.
type Phase string

const (
	// PhaseInitializing means the selection is being resolved and the
	// destination path computed.
	PhaseInitializing Phase = "Initializing"

	// PhaseDownloading means bytes are being fetched from the source.
	PhaseDownloading Phase = "Downloading"

	// PhaseVerifying means the on-disk artifact is being checked against the
	// size ceiling.
	PhaseVerifying Phase = "Verifying"

	// PhaseDelivering means the artifact is being handed to the messenger.
	PhaseDelivering Phase = "Delivering"

	// PhaseCompleted means the artifact was delivered.
	PhaseCompleted Phase = "Completed"

	// PhaseFailed means the job terminated without delivering.
	PhaseFailed Phase = "Failed"
)

// String returns the string representation of Phase.
func (p Phase) String() string {
	return string(p)
}

// IsActive returns true while the job is still running.
func (p Phase) IsActive() bool {
	return p == PhaseInitializing || p == PhaseDownloading || p == PhaseVerifying || p == PhaseDelivering
}

// IsTerminal returns true once the job can no longer change state.
func (p Phase) IsTerminal() bool {
	return p == PhaseCompleted || p == PhaseFailed
}
