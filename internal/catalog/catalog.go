package catalog

import (
	"sort"
	"strings"

	"github.com/ytget/media-bot/internal/model"
)

// Package catalog builds selection ladders from raw probe output: it filters
// out variants that can never be delivered, deduplicates quality labels, and
// ranks what remains.

const (
	// MinVideoHeight is the lowest resolution surfaced to callers.
	MinVideoHeight = 240

	// MaxAudioEntries caps the audio ladder to the top bitrates.
	MaxAudioEntries = 3
)

var allowedAudioExts = map[string]struct{}{
	"mp3":  {},
	"m4a":  {},
	"opus": {},
}

// BuildLadder produces the ranked ladder for the given raw variants.
//
// Variants whose advertised size exceeds sizeCeiling are dropped here;
// variants with unknown size pass through, the ceiling is re-checked against
// the actual artifact after download. Video entries are deduplicated by
// quality label (first-seen wins) and sorted by descending height, ties
// broken by descending frame rate. Audio entries are sorted by descending
// bitrate and truncated to MaxAudioEntries.
//
// An empty input yields an empty ladder, not an error; the caller decides how
// to present "no formats".
func BuildLadder(variants []model.EncodingVariant, sizeCeiling int64) model.SelectionLadder {
	var ladder model.SelectionLadder
	seenLabels := make(map[string]struct{})

	for _, v := range variants {
		if v.SizeKnown() && v.Size > sizeCeiling {
			continue
		}

		switch v.Kind {
		case model.KindVideo:
			if v.Height < MinVideoHeight {
				continue
			}
			label := v.Label()
			if _, dup := seenLabels[label]; dup {
				continue
			}
			seenLabels[label] = struct{}{}
			ladder.Video = append(ladder.Video, v)

		case model.KindAudio:
			if _, ok := allowedAudioExts[strings.ToLower(v.Ext)]; !ok {
				continue
			}
			ladder.Audio = append(ladder.Audio, v)
		}
	}

	sort.SliceStable(ladder.Video, func(i, j int) bool {
		if ladder.Video[i].Height != ladder.Video[j].Height {
			return ladder.Video[i].Height > ladder.Video[j].Height
		}
		return ladder.Video[i].FPS > ladder.Video[j].FPS
	})

	sort.SliceStable(ladder.Audio, func(i, j int) bool {
		return ladder.Audio[i].Bitrate > ladder.Audio[j].Bitrate
	})
	if len(ladder.Audio) > MaxAudioEntries {
		ladder.Audio = ladder.Audio[:MaxAudioEntries]
	}

	return ladder
}
