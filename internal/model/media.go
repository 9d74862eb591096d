package model

import (
	"fmt"
	"strings"
	"time"
)

// MediaKind distinguishes video and audio encodings.
type MediaKind string

const (
	KindVideo MediaKind = "video"
	KindAudio MediaKind = "audio"
)

// String returns the string representation of MediaKind.
func (k MediaKind) String() string {
	return string(k)
}

// Valid reports whether the kind is one of the known values.
func (k MediaKind) Valid() bool {
	return k == KindVideo || k == KindAudio
}

// EncodingVariant is one encoded representation of source media as advertised
// by the extractor. FormatID is an opaque token and is not guaranteed unique
// across a probe response.
type EncodingVariant struct {
	FormatID string
	Kind     MediaKind
	Ext      string // container/codec label, e.g. "m4a"
	Height   int    // video only
	FPS      int    // video only
	Bitrate  int    // audio only, kbps
	Size     int64  // advertised byte size, 0 if unknown
}

// SizeKnown reports whether the source advertised a byte size.
func (v EncodingVariant) SizeKnown() bool {
	return v.Size > 0
}

// Label renders the user-facing quality label: "1080p60" / "720p" for video,
// "M4A 128kbps" for audio.
func (v EncodingVariant) Label() string {
	if v.Kind == KindAudio {
		return fmt.Sprintf("%s %dkbps", strings.ToUpper(v.Ext), v.Bitrate)
	}
	if v.FPS > 30 {
		return fmt.Sprintf("%dp%d", v.Height, v.FPS)
	}
	return fmt.Sprintf("%dp", v.Height)
}

// MediaDescriptor is the result of probing a source URL. It is immutable once
// fetched and lives for one resolution cycle.
type MediaDescriptor struct {
	ID       string
	URL      string
	Title    string
	Uploader string
	Duration int // seconds, 0 if unknown
	Variants []EncodingVariant
}

// DurationString formats the duration as M:SS, or "Unknown" when absent.
func (d MediaDescriptor) DurationString() string {
	if d.Duration <= 0 {
		return "Unknown"
	}
	return fmt.Sprintf("%d:%02d", d.Duration/60, d.Duration%60)
}

// SelectionLadder holds the ranked, deduplicated, size-filtered variants
// offered to a caller. Entries are addressed by (kind, index) for the
// lifetime of a session.
type SelectionLadder struct {
	Video []EncodingVariant
	Audio []EncodingVariant
}

// Empty reports whether the ladder offers nothing at all.
func (l SelectionLadder) Empty() bool {
	return len(l.Video) == 0 && len(l.Audio) == 0
}

// At returns the variant addressed by (kind, index), or false when the index
// is out of bounds for that kind.
func (l SelectionLadder) At(kind MediaKind, index int) (EncodingVariant, bool) {
	var seq []EncodingVariant
	switch kind {
	case KindVideo:
		seq = l.Video
	case KindAudio:
		seq = l.Audio
	default:
		return EncodingVariant{}, false
	}
	if index < 0 || index >= len(seq) {
		return EncodingVariant{}, false
	}
	return seq[index], true
}

// Session binds a user to their most recent media resolution. Exactly one
// live session exists per user; a new resolution overwrites the prior one.
type Session struct {
	ID        string
	Media     MediaDescriptor
	Ladder    SelectionLadder
	CreatedAt time.Time
}
