package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ytget/media-bot/internal/admin"
	"github.com/ytget/media-bot/internal/config"
	"github.com/ytget/media-bot/internal/extractor"
	"github.com/ytget/media-bot/internal/session"
	"github.com/ytget/media-bot/internal/store"
	"github.com/ytget/media-bot/internal/sweeper"
	"github.com/ytget/media-bot/internal/telegram"
	"github.com/ytget/media-bot/internal/transfer"
)

func main() {
	app := &cli.App{
		Name:   "media-bot",
		Usage:  "Telegram bot that downloads media links and sends the files back",
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return fmt.Errorf("connecting to bot api: %w", err)
	}

	ex := extractor.NewClient(log)
	sessions := session.NewStore(cfg.SessionTTL)
	messenger := telegram.NewMessenger(api, cfg.SizeCeiling)
	orch := transfer.NewOrchestrator(ex, messenger, db, cfg.DownloadDir, cfg.SizeCeiling, log)
	bot := telegram.NewBot(api, ex, sessions, orch, db, cfg.AdminUserID, cfg.SizeCeiling, cfg.ProgressInterval, log)

	sw := sweeper.New(cfg.DownloadDir, cfg.SweepInterval, cfg.SweepRetention, log)
	go sw.Run(ctx)

	srv := admin.NewServer(cfg.AdminAddr, db, log)
	go func() {
		if err := srv.Run(ctx); err != nil {
			log.Error("admin server failed", zap.Error(err))
			stop()
		}
	}()

	bot.Run(ctx)
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}
