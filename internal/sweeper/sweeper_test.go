package sweeper

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("data"), 0644))
	stamp := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, stamp, stamp))
	return path
}

func TestSweep_RemovesOnlyStaleFiles(t *testing.T) {
	dir := t.TempDir()
	stale := writeAged(t, dir, "old-video-abc123.mp4", time.Hour)
	fresh := writeAged(t, dir, "inflight-def456.mp4", time.Minute)

	s := New(dir, DefaultPeriod, 30*time.Minute, zap.NewNop())
	s.Sweep()

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh, "files inside the retention window must survive")
}

func TestSweep_ExactCutoffSurvives(t *testing.T) {
	dir := t.TempDir()
	// Just inside the window.
	fresh := writeAged(t, dir, "borderline.mp4", 29*time.Minute)

	s := New(dir, DefaultPeriod, 30*time.Minute, zap.NewNop())
	s.Sweep()

	assert.FileExists(t, fresh)
}

func TestSweep_IgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "keep")
	require.NoError(t, os.Mkdir(sub, 0755))

	s := New(dir, DefaultPeriod, time.Nanosecond, zap.NewNop())
	s.Sweep()

	assert.DirExists(t, sub)
}

func TestSweep_MissingDirIsQuiet(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope"), DefaultPeriod, DefaultRetention, zap.NewNop())
	s.Sweep() // must not panic or error out
}

func TestNew_Defaults(t *testing.T) {
	s := New("/tmp/x", 0, 0, zap.NewNop())
	assert.Equal(t, DefaultPeriod, s.period)
	assert.Equal(t, DefaultRetention, s.retention)
}
