package telegram

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ytget/media-bot/internal/catalog"
	"github.com/ytget/media-bot/internal/extractor"
	"github.com/ytget/media-bot/internal/metrics"
	"github.com/ytget/media-bot/internal/progress"
	"github.com/ytget/media-bot/internal/session"
	"github.com/ytget/media-bot/internal/store"
	"github.com/ytget/media-bot/internal/transfer"
)

// urlPattern recognizes watch, embed, /v/ and short-link YouTube URLs.
var urlPattern = regexp.MustCompile(`(?:https?://)(?:www\.)?(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

const welcomeText = `👋 Welcome!

Send me a YouTube link and I'll show you the available formats.
Pick one and I'll download it and send it back to you.`

const helpText = `ℹ️ How to use:

1. Send a YouTube link
2. Pick a format from the keyboard
3. Wait for the file

Files over the size limit cannot be delivered. One download at a time per user.`

// Bot wires Bot API updates to probing, session tracking and transfers.
type Bot struct {
	api          *tgbotapi.BotAPI
	extractor    extractor.Extractor
	sessions     *session.Store
	orchestrator *transfer.Orchestrator
	db           *store.Postgres
	log          *zap.Logger

	adminUserID      int64
	sizeCeiling      int64
	progressInterval time.Duration
}

// NewBot assembles the update handler.
func NewBot(api *tgbotapi.BotAPI, ex extractor.Extractor, sessions *session.Store, orch *transfer.Orchestrator, db *store.Postgres, adminUserID, sizeCeiling int64, progressInterval time.Duration, log *zap.Logger) *Bot {
	return &Bot{
		api:              api,
		extractor:        ex,
		sessions:         sessions,
		orchestrator:     orch,
		db:               db,
		log:              log,
		adminUserID:      adminUserID,
		sizeCeiling:      sizeCeiling,
		progressInterval: progressInterval,
	}
}

// Run consumes updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	b.log.Info("bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	switch {
	case msg.IsCommand():
		switch msg.Command() {
		case "start":
			b.handleStart(ctx, msg)
		case "help":
			b.reply(msg.Chat.ID, helpText)
		case "stats":
			b.handleStats(ctx, msg)
		case "broadcast":
			b.handleBroadcast(ctx, msg)
		default:
			b.reply(msg.Chat.ID, "Unknown command. Send a video link or /help.")
		}
	case urlPattern.MatchString(msg.Text):
		b.handleURL(ctx, userID, msg.Chat.ID, urlPattern.FindString(msg.Text))
	default:
		b.reply(msg.Chat.ID, "Send me a YouTube link to get started, or /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	if err := b.db.UpsertUser(ctx, msg.From.ID); err != nil {
		b.log.Warn("registering user failed", zap.Int64("user", msg.From.ID), zap.Error(err))
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, welcomeText)
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My Stats", "stats"),
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ Help", "help"),
		),
	)
	if _, err := b.api.Send(out); err != nil {
		b.log.Warn("sending welcome failed", zap.Error(err))
	}
}

// handleURL probes the link and offers the format ladder. The new session
// unconditionally replaces the user's previous one; buttons on older
// keyboards stop resolving at that moment.
func (b *Bot) handleURL(ctx context.Context, userID, chatID int64, url string) {
	status, err := b.api.Send(tgbotapi.NewMessage(chatID, "🔍 Analyzing link..."))
	if err != nil {
		b.log.Warn("sending status message failed", zap.Error(err))
		return
	}

	media, err := b.extractor.Probe(ctx, url)
	if err != nil {
		metrics.ProbesTotal.WithLabelValues("error").Inc()
		b.log.Warn("probe failed", zap.String("url", url), zap.Error(err))
		b.edit(chatID, status.MessageID, "❌ Couldn't read that link. Check the URL and try again.")
		return
	}
	metrics.ProbesTotal.WithLabelValues("ok").Inc()

	ladder := catalog.BuildLadder(media.Variants, b.sizeCeiling)
	if ladder.Empty() {
		b.edit(chatID, status.MessageID, "❌ No downloadable formats fit within the size limit.")
		return
	}

	sess := b.sessions.Put(userID, media, ladder)

	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, status.MessageID, renderSummary(media), buildKeyboard(sess))
	if _, err := b.api.Send(edit); err != nil {
		b.log.Warn("sending format keyboard failed", zap.Error(err))
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Answer immediately so the client stops showing a spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Debug("answering callback failed", zap.Error(err))
	}

	// The originating message is omitted when it is no longer accessible,
	// for example a keyboard older than the Bot API's edit horizon. There is
	// no chat to act on then.
	if cb.Message == nil {
		b.log.Debug("callback without accessible message", zap.Int64("user", cb.From.ID))
		return
	}

	switch cb.Data {
	case "stats":
		b.handleUserStats(ctx, cb)
		return
	case "help":
		b.reply(cb.Message.Chat.ID, helpText)
		return
	}

	token, ok := ParseSelectionToken(cb.Data)
	if !ok {
		return
	}
	b.handleSelection(ctx, cb, token)
}

// handleSelection resolves a format pick and starts the transfer on its own
// goroutine. The progress reporter edits a single status message in place.
func (b *Bot) handleSelection(ctx context.Context, cb *tgbotapi.CallbackQuery, token SelectionToken) {
	userID := cb.From.ID
	chatID := cb.Message.Chat.ID

	sel, err := b.sessions.Resolve(userID, token.SessionID, token.Kind, token.Index)
	if err != nil {
		b.reply(chatID, "⌛ That menu has expired. Send the link again.")
		return
	}

	status, err := b.api.Send(tgbotapi.NewMessage(chatID, "⏳ Preparing download..."))
	if err != nil {
		b.log.Warn("sending progress message failed", zap.Error(err))
		return
	}

	editor := func(text string) error {
		_, err := b.api.Send(tgbotapi.NewEditMessageText(chatID, status.MessageID, text))
		return err
	}
	rep := progress.NewReporter(editor, b.progressInterval, b.log)

	job := transfer.NewJob(userID, chatID, sel.URL, sel.Title, sel.Variant)
	go func() {
		if err := b.orchestrator.Run(ctx, job, rep); err != nil {
			if errors.Is(err, transfer.ErrJobActive) {
				b.reply(chatID, transfer.UserMessage(err))
				return
			}
			b.edit(chatID, status.MessageID, transfer.UserMessage(err))
		}
	}()
}

func (b *Bot) handleUserStats(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	stats, err := b.db.UserStats(ctx, cb.From.ID)
	if err != nil {
		b.log.Warn("loading user stats failed", zap.Int64("user", cb.From.ID), zap.Error(err))
		b.reply(cb.Message.Chat.ID, "❌ Stats are unavailable right now.")
		return
	}
	text := fmt.Sprintf("📊 Your stats\n\nDownloads: %d\nFirst seen: %s",
		stats.DownloadCount, stats.FirstSeen.Format("2006-01-02"))
	b.reply(cb.Message.Chat.ID, text)
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		b.reply(msg.Chat.ID, "This command is for the bot admin.")
		return
	}

	stats, err := b.db.GlobalStats(ctx)
	if err != nil {
		b.log.Warn("loading global stats failed", zap.Error(err))
		b.reply(msg.Chat.ID, "❌ Stats are unavailable right now.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Bot stats\n\nUsers: %d\nDownloads: %d\nToday: %d\n",
		stats.TotalUsers, stats.TotalDownloads, stats.TodayDownloads)
	for kind, count := range stats.ByKind {
		fmt.Fprintf(&sb, "  %s: %d\n", kind, count)
	}
	b.reply(msg.Chat.ID, sb.String())
}

// handleBroadcast fans a message out to every registered user, reporting
// progress back to the admin every ten sends.
func (b *Bot) handleBroadcast(ctx context.Context, msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		b.reply(msg.Chat.ID, "This command is for the bot admin.")
		return
	}
	text := strings.TrimSpace(msg.CommandArguments())
	if text == "" {
		b.reply(msg.Chat.ID, "Usage: /broadcast <message>")
		return
	}

	ids, err := b.db.ListUserIDs(ctx)
	if err != nil {
		b.log.Warn("listing users for broadcast failed", zap.Error(err))
		b.reply(msg.Chat.ID, "❌ Couldn't load the user list.")
		return
	}

	status, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("📣 Broadcasting to %d users...", len(ids))))
	if err != nil {
		return
	}

	sent, failed := 0, 0
	for i, id := range ids {
		if ctx.Err() != nil {
			return
		}
		if _, err := b.api.Send(tgbotapi.NewMessage(id, text)); err != nil {
			failed++
		} else {
			sent++
		}
		if (i+1)%10 == 0 {
			b.edit(msg.Chat.ID, status.MessageID,
				fmt.Sprintf("📣 Broadcasting... %d/%d", i+1, len(ids)))
		}
	}
	b.edit(msg.Chat.ID, status.MessageID,
		fmt.Sprintf("📣 Broadcast done. Sent: %d, failed: %d", sent, failed))
}

func (b *Bot) isAdmin(userID int64) bool {
	return b.adminUserID != 0 && userID == b.adminUserID
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Warn("sending message failed", zap.Int64("chat", chatID), zap.Error(err))
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	if _, err := b.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		b.log.Debug("editing message failed", zap.Int64("chat", chatID), zap.Error(err))
	}
}
