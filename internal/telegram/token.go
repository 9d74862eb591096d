package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ytget/media-bot/internal/model"
)

// Callback tokens bind a button press to one ladder entry of one session.
// A token minted before the session was replaced carries the old session ID
// and stops resolving, so stale keyboards cannot trigger wrong downloads.

const tokenPrefix = "dl"

// SelectionToken addresses one ladder entry within a specific session.
type SelectionToken struct {
	SessionID string
	Kind      model.MediaKind
	Index     int
}

// String encodes the token as callback data: "dl:<session>:<kind>:<index>".
func (t SelectionToken) String() string {
	return fmt.Sprintf("%s:%s:%s:%d", tokenPrefix, t.SessionID, t.Kind, t.Index)
}

// ParseSelectionToken decodes callback data into a token. It reports false
// for data that is not a selection token at all, for example other callback
// actions or garbage.
func ParseSelectionToken(data string) (SelectionToken, bool) {
	parts := strings.Split(data, ":")
	if len(parts) != 4 || parts[0] != tokenPrefix {
		return SelectionToken{}, false
	}
	kind := model.MediaKind(parts[2])
	if parts[1] == "" || !kind.Valid() {
		return SelectionToken{}, false
	}
	index, err := strconv.Atoi(parts[3])
	if err != nil || index < 0 {
		return SelectionToken{}, false
	}
	return SelectionToken{SessionID: parts[1], Kind: kind, Index: index}, true
}
