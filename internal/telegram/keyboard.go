package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ytget/media-bot/internal/model"
	"github.com/ytget/media-bot/internal/platform"
)

const (
	// maxVideoButtons caps the keyboard so long format lists stay usable.
	maxVideoButtons = 8

	buttonsPerRow = 2
)

// buildKeyboard renders the session's ladder as an inline keyboard. Video
// entries come first, two per row, followed by audio entries. Button data
// carries the session ID so the keyboard dies with its session.
func buildKeyboard(sess *model.Session) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	video := sess.Ladder.Video
	if len(video) > maxVideoButtons {
		video = video[:maxVideoButtons]
	}
	for i, v := range video {
		token := SelectionToken{SessionID: sess.ID, Kind: model.KindVideo, Index: i}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(videoButtonLabel(v), token.String()))
		if len(row) == buttonsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
		row = nil
	}

	for i, v := range sess.Ladder.Audio {
		token := SelectionToken{SessionID: sess.ID, Kind: model.KindAudio, Index: i}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(audioButtonLabel(v), token.String()))
		if len(row) == buttonsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func videoButtonLabel(v model.EncodingVariant) string {
	label := "🎥 " + v.Label()
	if v.SizeKnown() {
		label += " (" + platform.FormatSize(v.Size) + ")"
	}
	return label
}

func audioButtonLabel(v model.EncodingVariant) string {
	label := "🎵 " + v.Label()
	if v.SizeKnown() {
		label += " (" + platform.FormatSize(v.Size) + ")"
	}
	return label
}

// renderSummary is the text above the format keyboard.
func renderSummary(media model.MediaDescriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎬 %s\n", media.Title)
	if media.Uploader != "" {
		fmt.Fprintf(&b, "👤 %s\n", media.Uploader)
	}
	fmt.Fprintf(&b, "⏱ Duration: %s\n\n", media.DurationString())
	b.WriteString("Choose a format to download:")
	return b.String()
}
