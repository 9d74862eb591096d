package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ytget/media-bot/internal/model"
)

func TestSelectionToken_RoundTrip(t *testing.T) {
	token := SelectionToken{SessionID: "a1b2c3d4", Kind: model.KindVideo, Index: 3}
	assert.Equal(t, "dl:a1b2c3d4:video:3", token.String())

	parsed, ok := ParseSelectionToken(token.String())
	assert.True(t, ok)
	assert.Equal(t, token, parsed)
}

func TestParseSelectionToken_Rejects(t *testing.T) {
	tests := []string{
		"",
		"stats",
		"help",
		"dl:abc:video",          // missing index
		"dl:abc:image:0",        // unknown kind
		"dl::video:0",           // empty session
		"dl:abc:video:x",        // non-numeric index
		"dl:abc:video:-1",       // negative index
		"xx:abc:video:0",        // wrong prefix
		"dl:abc:video:0:extra",  // trailing junk
	}
	for _, data := range tests {
		_, ok := ParseSelectionToken(data)
		assert.False(t, ok, "expected %q to be rejected", data)
	}
}
