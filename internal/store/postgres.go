package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/ytget/media-bot/internal/transfer"
)

// Package store persists usage counters and download events in Postgres.
// The transfer pipeline only sees the Recorder contract; everything here is
// accounting.

// UserStats is the per-user view shown by the stats callback.
type UserStats struct {
	DownloadCount int64
	FirstSeen     time.Time
}

// GlobalStats is the admin view.
type GlobalStats struct {
	TotalUsers     int64
	TotalDownloads int64
	TodayDownloads int64
	ByKind         map[string]int64
}

// Postgres implements transfer.Recorder plus the stats and broadcast
// queries the bot glue needs.
type Postgres struct {
	db *sql.DB
}

// Open connects to Postgres and validates the connection with a ping.
func Open(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Postgres{db: db}, nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// EnsureSchema creates the users and downloads tables if they don't exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id        BIGINT PRIMARY KEY,
	first_seen     TIMESTAMPTZ NOT NULL DEFAULT now(),
	download_count BIGINT NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS downloads (
	id            BIGSERIAL PRIMARY KEY,
	user_id       BIGINT NOT NULL,
	url           TEXT NOT NULL,
	title         TEXT NOT NULL,
	format_id     TEXT NOT NULL,
	kind          TEXT NOT NULL,
	size_bytes    BIGINT NOT NULL DEFAULT 0,
	downloaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS downloads_user_idx ON downloads (user_id);
CREATE INDEX IF NOT EXISTS downloads_time_idx ON downloads (downloaded_at);`

	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}

// UpsertUser registers a user on first contact; repeat contacts are no-ops.
func (p *Postgres) UpsertUser(ctx context.Context, userID int64) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO users (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return fmt.Errorf("upserting user %d: %w", userID, err)
	}
	return nil
}

// IncrementUserCount bumps the user's download counter, creating the row if
// the user was somehow never registered.
func (p *Postgres) IncrementUserCount(ctx context.Context, userID int64) error {
	_, err := p.db.ExecContext(ctx, `
INSERT INTO users (user_id, download_count) VALUES ($1, 1)
ON CONFLICT (user_id) DO UPDATE SET download_count = users.download_count + 1`, userID)
	if err != nil {
		return fmt.Errorf("incrementing count for user %d: %w", userID, err)
	}
	return nil
}

// RecordDownload writes one download event.
func (p *Postgres) RecordDownload(ctx context.Context, rec transfer.DownloadRecord) error {
	_, err := p.db.ExecContext(ctx, `
INSERT INTO downloads (user_id, url, title, format_id, kind, size_bytes)
VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.UserID, rec.URL, rec.Title, rec.FormatID, rec.Kind.String(), rec.Size)
	if err != nil {
		return fmt.Errorf("recording download for user %d: %w", rec.UserID, err)
	}
	return nil
}

// UserStats returns the user's counter and first-seen timestamp.
func (p *Postgres) UserStats(ctx context.Context, userID int64) (UserStats, error) {
	var stats UserStats
	err := p.db.QueryRowContext(ctx,
		`SELECT download_count, first_seen FROM users WHERE user_id = $1`, userID).
		Scan(&stats.DownloadCount, &stats.FirstSeen)
	if err == sql.ErrNoRows {
		return UserStats{FirstSeen: time.Now()}, nil
	}
	if err != nil {
		return UserStats{}, fmt.Errorf("loading stats for user %d: %w", userID, err)
	}
	return stats, nil
}

// GlobalStats returns totals for the admin stats command.
func (p *Postgres) GlobalStats(ctx context.Context) (GlobalStats, error) {
	stats := GlobalStats{ByKind: make(map[string]int64)}

	if err := p.db.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&stats.TotalUsers); err != nil {
		return stats, fmt.Errorf("counting users: %w", err)
	}
	if err := p.db.QueryRowContext(ctx, `SELECT count(*) FROM downloads`).Scan(&stats.TotalDownloads); err != nil {
		return stats, fmt.Errorf("counting downloads: %w", err)
	}
	if err := p.db.QueryRowContext(ctx,
		`SELECT count(*) FROM downloads WHERE downloaded_at >= date_trunc('day', now())`).
		Scan(&stats.TodayDownloads); err != nil {
		return stats, fmt.Errorf("counting today's downloads: %w", err)
	}

	rows, err := p.db.QueryContext(ctx,
		`SELECT kind, count(*) FROM downloads GROUP BY kind ORDER BY count(*) DESC`)
	if err != nil {
		return stats, fmt.Errorf("grouping downloads by kind: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var count int64
		if err := rows.Scan(&kind, &count); err != nil {
			return stats, fmt.Errorf("scanning kind row: %w", err)
		}
		stats.ByKind[kind] = count
	}
	return stats, rows.Err()
}

// ListUserIDs returns every registered user, for broadcast fan-out.
func (p *Postgres) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT user_id FROM users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
