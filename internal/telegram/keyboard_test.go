package telegram

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/media-bot/internal/model"
)

func sessionWith(videos, audios int) *model.Session {
	sess := &model.Session{ID: "s1"}
	for i := 0; i < videos; i++ {
		sess.Ladder.Video = append(sess.Ladder.Video, model.EncodingVariant{
			FormatID: fmt.Sprintf("v%d", i), Kind: model.KindVideo, Height: 1080 - i*120, FPS: 30,
		})
	}
	for i := 0; i < audios; i++ {
		sess.Ladder.Audio = append(sess.Ladder.Audio, model.EncodingVariant{
			FormatID: fmt.Sprintf("a%d", i), Kind: model.KindAudio, Ext: "m4a", Bitrate: 128,
		})
	}
	return sess
}

func flatten(sess *model.Session) []string {
	var data []string
	for _, row := range buildKeyboard(sess).InlineKeyboard {
		for _, btn := range row {
			data = append(data, *btn.CallbackData)
		}
	}
	return data
}

func TestBuildKeyboard_TwoPerRow(t *testing.T) {
	markup := buildKeyboard(sessionWith(3, 2))
	require.Len(t, markup.InlineKeyboard, 3)
	assert.Len(t, markup.InlineKeyboard[0], 2)
	assert.Len(t, markup.InlineKeyboard[1], 1, "odd video entry closes its own row")
	assert.Len(t, markup.InlineKeyboard[2], 2)
}

func TestBuildKeyboard_CapsVideoEntries(t *testing.T) {
	data := flatten(sessionWith(12, 0))
	assert.Len(t, data, maxVideoButtons)
}

func TestBuildKeyboard_TokensCarrySessionID(t *testing.T) {
	for _, d := range flatten(sessionWith(2, 1)) {
		token, ok := ParseSelectionToken(d)
		require.True(t, ok)
		assert.Equal(t, "s1", token.SessionID)
	}
}

func TestBuildKeyboard_IndicesMatchLadderOrder(t *testing.T) {
	data := flatten(sessionWith(2, 2))
	want := []string{"dl:s1:video:0", "dl:s1:video:1", "dl:s1:audio:0", "dl:s1:audio:1"}
	assert.Equal(t, want, data)
}

func TestRenderSummary(t *testing.T) {
	media := model.MediaDescriptor{Title: "Some Video", Uploader: "Channel", Duration: 125}
	text := renderSummary(media)
	assert.Contains(t, text, "Some Video")
	assert.Contains(t, text, "Channel")
	assert.Contains(t, text, "2:05")
}
