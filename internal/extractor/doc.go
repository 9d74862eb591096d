package extractor

// Package extractor wraps media probing and fetching behind a small contract
// so the transfer pipeline never depends on a specific provider. The shipped
// implementation drives yt-dlp via github.com/lrstanley/go-ytdlp.
