package telegram

import (
	"context"
	"fmt"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ytget/media-bot/internal/model"
	"github.com/ytget/media-bot/internal/platform"
	"github.com/ytget/media-bot/internal/transfer"
)

// Messenger delivers finished artifacts over the Bot API. It is the last
// place the size ceiling is checked; the transport rejects larger uploads
// anyway, this guard just fails with a clear error instead of a timeout.
type Messenger struct {
	api         *tgbotapi.BotAPI
	sizeCeiling int64
}

// NewMessenger wraps the Bot API client for artifact delivery.
func NewMessenger(api *tgbotapi.BotAPI, sizeCeiling int64) *Messenger {
	return &Messenger{api: api, sizeCeiling: sizeCeiling}
}

// SendMedia uploads the artifact as a typed video or audio message.
func (m *Messenger) SendMedia(ctx context.Context, chatID int64, path string, kind model.MediaKind, caption string) error {
	if err := m.guardSize(path); err != nil {
		return err
	}

	var msg tgbotapi.Chattable
	switch kind {
	case model.KindAudio:
		audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(path))
		audio.Caption = caption
		msg = audio
	default:
		video := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(path))
		video.Caption = caption
		video.SupportsStreaming = true
		msg = video
	}

	if _, err := m.api.Send(msg); err != nil {
		return fmt.Errorf("sending %s: %w", kind, err)
	}
	return nil
}

// SendDocument uploads the artifact as a plain document. Used as the
// fallback when the typed upload is rejected.
func (m *Messenger) SendDocument(ctx context.Context, chatID int64, path string, caption string) error {
	if err := m.guardSize(path); err != nil {
		return err
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	if _, err := m.api.Send(doc); err != nil {
		return fmt.Errorf("sending document: %w", err)
	}
	return nil
}

func (m *Messenger) guardSize(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat artifact: %w", err)
	}
	if info.Size() > m.sizeCeiling {
		return fmt.Errorf("%w: %s exceeds upload limit", transfer.ErrOversizedArtifact, platform.FormatSize(info.Size()))
	}
	return nil
}
