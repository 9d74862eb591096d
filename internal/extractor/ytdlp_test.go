package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/media-bot/internal/model"
)

const sampleProbeJSON = `{
	"id": "dQw4w9WgXcQ",
	"title": "Never Gonna Give You Up",
	"uploader": "Rick Astley",
	"duration": 213.0,
	"formats": [
		{"format_id": "sb0", "ext": "mhtml", "vcodec": "none", "acodec": "none"},
		{"format_id": "140", "ext": "m4a", "vcodec": "none", "acodec": "mp4a.40.2", "abr": 129.5, "filesize": 3457000},
		{"format_id": "251", "ext": "opus", "vcodec": "none", "acodec": "opus", "abr": 0, "filesize": 3900000},
		{"format_id": "136", "ext": "mp4", "vcodec": "avc1.4d401f", "acodec": "none", "height": 720, "fps": 30, "filesize": 45000000},
		{"format_id": "299", "ext": "mp4", "vcodec": "avc1.64002a", "acodec": "none", "height": 1080, "fps": 59.94, "filesize": 0},
		{"format_id": "18", "ext": "mp4", "vcodec": "avc1.42001E", "acodec": "mp4a.40.2", "height": 360, "fps": 0, "filesize": 12000000}
	]
}`

func TestParseProbeOutput(t *testing.T) {
	desc, err := parseProbeOutput([]byte(sampleProbeJSON))
	require.NoError(t, err)

	assert.Equal(t, "dQw4w9WgXcQ", desc.ID)
	assert.Equal(t, "Never Gonna Give You Up", desc.Title)
	assert.Equal(t, "Rick Astley", desc.Uploader)
	assert.Equal(t, 213, desc.Duration)

	// The storyboard entry is skipped; everything else classifies.
	require.Len(t, desc.Variants, 5)

	byID := make(map[string]model.EncodingVariant)
	for _, v := range desc.Variants {
		byID[v.FormatID] = v
	}

	m4a := byID["140"]
	assert.Equal(t, model.KindAudio, m4a.Kind)
	assert.Equal(t, 129, m4a.Bitrate)
	assert.Equal(t, int64(3457000), m4a.Size)

	// Missing bitrate falls back to 128.
	assert.Equal(t, 128, byID["251"].Bitrate)

	hd := byID["299"]
	assert.Equal(t, model.KindVideo, hd.Kind)
	assert.Equal(t, 1080, hd.Height)
	assert.Equal(t, 59, hd.FPS)
	assert.False(t, hd.SizeKnown())

	// Progressive format with both codecs counts as video; fps defaults to 30.
	progressive := byID["18"]
	assert.Equal(t, model.KindVideo, progressive.Kind)
	assert.Equal(t, 30, progressive.FPS)
}

func TestParseProbeOutput_Defaults(t *testing.T) {
	desc, err := parseProbeOutput([]byte(`{"id": "x", "formats": []}`))
	require.NoError(t, err)
	assert.Equal(t, "Unknown Title", desc.Title)
	assert.Equal(t, "Unknown", desc.Uploader)
	assert.Empty(t, desc.Variants)
}

func TestParseProbeOutput_LongTitle(t *testing.T) {
	long := `{"id": "x", "title": "AAAAAAAAAABBBBBBBBBBCCCCCCCCCCDDDDDDDDDDEEEEEEEEEEFFFFFFFFFF"}`
	desc, err := parseProbeOutput([]byte(long))
	require.NoError(t, err)
	assert.Len(t, []rune(desc.Title), 50)
}

func TestParseProbeOutput_Garbage(t *testing.T) {
	_, err := parseProbeOutput([]byte("not json"))
	assert.Error(t, err)
}
