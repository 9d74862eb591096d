package progress

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ytget/media-bot/internal/model"
)

type editRecorder struct {
	mu    sync.Mutex
	texts []string
}

func (e *editRecorder) edit(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.texts = append(e.texts, text)
	return nil
}

func (e *editRecorder) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.texts)
}

func newTestReporter(rec *editRecorder) (*Reporter, *time.Time) {
	r := NewReporter(rec.edit, 3*time.Second, zap.NewNop())
	now := time.Unix(1000, 0)
	r.now = func() time.Time { return now }
	return r, &now
}

func TestReporter_ThrottlesWithinPhase(t *testing.T) {
	rec := &editRecorder{}
	r, now := newTestReporter(rec)

	r.Report(model.PhaseDownloading, 1, "1.0MB/s", time.Minute)
	r.Report(model.PhaseDownloading, 2, "1.0MB/s", time.Minute)
	r.Report(model.PhaseDownloading, 3, "1.0MB/s", time.Minute)
	assert.Equal(t, 1, rec.count(), "updates within the interval should be suppressed")

	*now = now.Add(4 * time.Second)
	r.Report(model.PhaseDownloading, 50, "1.0MB/s", 30*time.Second)
	assert.Equal(t, 2, rec.count())
}

func TestReporter_PhaseChangeBypassesThrottle(t *testing.T) {
	rec := &editRecorder{}
	r, _ := newTestReporter(rec)

	r.Report(model.PhaseDownloading, 99, "2.0MB/s", time.Second)
	r.Report(model.PhaseVerifying, 0, "", 0)
	r.Report(model.PhaseDelivering, 0, "", 0)
	assert.Equal(t, 3, rec.count(), "phase transitions should always be emitted")
}

func TestReporter_TerminalAlwaysEmitted(t *testing.T) {
	rec := &editRecorder{}
	r, _ := newTestReporter(rec)

	r.Report(model.PhaseDownloading, 99, "2.0MB/s", time.Second)
	r.Report(model.PhaseCompleted, 100, "", 0)
	r.Report(model.PhaseCompleted, 100, "", 0) // terminal repeats still go out

	require.Equal(t, 3, rec.count())
	assert.Contains(t, rec.texts[1], "completed")
}

func TestRender_Downloading(t *testing.T) {
	text := render(model.PhaseDownloading, 42.5, "1.2MB/s", 95*time.Second)
	assert.Contains(t, text, "42.5%")
	assert.Contains(t, text, "1.2MB/s")
	assert.Contains(t, text, "01:35")
}

func TestFormatETA(t *testing.T) {
	tests := []struct {
		eta      time.Duration
		expected string
	}{
		{0, "—"},
		{-time.Second, "—"},
		{42 * time.Second, "00:42"},
		{95 * time.Second, "01:35"},
		{2*time.Hour + 3*time.Minute + 4*time.Second, "02:03:04"},
	}
	for _, test := range tests {
		if got := formatETA(test.eta); got != test.expected {
			t.Errorf("formatETA(%v) = %q, expected %q", test.eta, got, test.expected)
		}
	}
}

func TestRender_UnknownRate(t *testing.T) {
	text := render(model.PhaseDownloading, 0, "", 0)
	if !strings.Contains(text, "Speed: —") {
		t.Errorf("expected placeholder speed, got %q", text)
	}
}
