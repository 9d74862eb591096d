package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/ytget/media-bot/internal/model"
)

const (
	// DefaultProbeTimeout bounds metadata extraction.
	DefaultProbeTimeout = 60 * time.Second

	// progressPollInterval is how often yt-dlp reports raw telemetry; the
	// human-facing reporter throttles separately.
	progressPollInterval = 500 * time.Millisecond

	// maxTitleLength keeps titles display-safe in captions and keyboards.
	maxTitleLength = 50

	noCodec = "none"
)

// Client is the yt-dlp backed Extractor.
type Client struct {
	probeTimeout time.Duration
	log          *zap.Logger
}

// NewClient creates a yt-dlp backed extractor.
func NewClient(log *zap.Logger) *Client {
	return &Client{
		probeTimeout: DefaultProbeTimeout,
		log:          log,
	}
}

// Probe extracts metadata and the raw variant list without downloading.
func (c *Client) Probe(ctx context.Context, url string) (model.MediaDescriptor, error) {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	res, err := ytdlp.New().
		DumpSingleJSON().
		SkipDownload().
		NoPlaylist().
		NoWarnings().
		Run(ctx, url)
	if err != nil {
		return model.MediaDescriptor{}, fmt.Errorf("probing %s: %w", url, err)
	}

	desc, err := parseProbeOutput([]byte(res.Stdout))
	if err != nil {
		return model.MediaDescriptor{}, fmt.Errorf("parsing probe output for %s: %w", url, err)
	}
	desc.URL = url

	c.log.Debug("probed media",
		zap.String("id", desc.ID),
		zap.String("title", desc.Title),
		zap.Int("variants", len(desc.Variants)))
	return desc, nil
}

// Fetch downloads the chosen encoding to destPath. The destination is passed
// to yt-dlp as a literal output path, so the artifact lands exactly where the
// caller decided and nowhere else.
func (c *Client) Fetch(ctx context.Context, url, formatID, destPath string, sink func(Progress)) error {
	dl := ytdlp.New().
		Format(formatID).
		Output(destPath).
		NoPlaylist().
		NoWarnings().
		ForceOverwrites()

	if sink != nil {
		dl.ProgressFunc(progressPollInterval, func(update ytdlp.ProgressUpdate) {
			sink(toProgress(update))
		})
	}

	if _, err := dl.Run(ctx, url); err != nil {
		return fmt.Errorf("fetching format %s of %s: %w", formatID, url, err)
	}
	return nil
}

func toProgress(update ytdlp.ProgressUpdate) Progress {
	p := Progress{
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
		ETA:             update.ETA(),
	}
	if p.TotalBytes > 0 {
		p.Percent = float64(p.DownloadedBytes) / float64(p.TotalBytes) * 100
	}
	if !update.Started.IsZero() {
		if elapsed := time.Since(update.Started); elapsed.Seconds() > 0 {
			bytesPerSecond := float64(p.DownloadedBytes) / elapsed.Seconds()
			p.Rate = fmt.Sprintf("%.1fMB/s", bytesPerSecond/1024/1024)
		}
	}
	return p
}

// probeInfo mirrors the subset of yt-dlp -J output the bot cares about.
type probeInfo struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Uploader string        `json:"uploader"`
	Duration float64       `json:"duration"`
	Formats  []probeFormat `json:"formats"`
}

type probeFormat struct {
	FormatID string  `json:"format_id"`
	Ext      string  `json:"ext"`
	Height   int     `json:"height"`
	FPS      float64 `json:"fps"`
	Filesize int64   `json:"filesize"`
	Vcodec   string  `json:"vcodec"`
	Acodec   string  `json:"acodec"`
	ABR      float64 `json:"abr"`
}

func parseProbeOutput(data []byte) (model.MediaDescriptor, error) {
	var info probeInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return model.MediaDescriptor{}, err
	}

	desc := model.MediaDescriptor{
		ID:       info.ID,
		Title:    truncateTitle(info.Title),
		Uploader: info.Uploader,
		Duration: int(info.Duration),
	}
	if desc.Title == "" {
		desc.Title = "Unknown Title"
	}
	if desc.Uploader == "" {
		desc.Uploader = "Unknown"
	}

	for _, f := range info.Formats {
		if v, ok := toVariant(f); ok {
			desc.Variants = append(desc.Variants, v)
		}
	}
	return desc, nil
}

// toVariant classifies a raw format: video when it carries a video codec and
// a height, audio when it carries only an audio codec. Everything else
// (storyboards, codec-less manifests) is skipped.
func toVariant(f probeFormat) (model.EncodingVariant, bool) {
	hasVideo := f.Vcodec != "" && f.Vcodec != noCodec
	hasAudio := f.Acodec != "" && f.Acodec != noCodec

	switch {
	case hasVideo && f.Height > 0:
		fps := int(f.FPS)
		if fps == 0 {
			fps = 30
		}
		return model.EncodingVariant{
			FormatID: f.FormatID,
			Kind:     model.KindVideo,
			Ext:      f.Ext,
			Height:   f.Height,
			FPS:      fps,
			Size:     f.Filesize,
		}, true

	case hasAudio && !hasVideo:
		abr := int(f.ABR)
		if abr == 0 {
			abr = 128
		}
		return model.EncodingVariant{
			FormatID: f.FormatID,
			Kind:     model.KindAudio,
			Ext:      f.Ext,
			Bitrate:  abr,
			Size:     f.Filesize,
		}, true
	}
	return model.EncodingVariant{}, false
}

func truncateTitle(title string) string {
	title = strings.TrimSpace(title)
	runes := []rune(title)
	if len(runes) > maxTitleLength {
		return string(runes[:maxTitleLength])
	}
	return title
}
