package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// QualityBest is the sentinel quality id meaning "let the extractor pick"
const QualityBest = "best"

// QualityOption is one entry of the quality menu
type QualityOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// BestQualityOption returns the synthetic "best" entry
func BestQualityOption() QualityOption {
	return QualityOption{ID: QualityBest, Label: "Best Quality"}
}

// BuildQualityOptions turns the extractor's format list into the quality menu.
// The "best" entry is always first, so a source with a single direct URL and
// no format list still gets a non-empty menu.
func BuildQualityOptions(formats []MediaFormat) []QualityOption {
	seen := make(map[int]struct{})
	heights := make([]int, 0, len(formats))
	for _, f := range formats {
		if !f.HasVideo() || f.Height <= 0 {
			continue
		}
		if _, ok := seen[f.Height]; ok {
			continue
		}
		seen[f.Height] = struct{}{}
		heights = append(heights, f.Height)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(heights)))

	options := make([]QualityOption, 0, len(heights)+1)
	options = append(options, BestQualityOption())
	for _, h := range heights {
		options = append(options, QualityOption{
			ID:    strconv.Itoa(h),
			Label: fmt.Sprintf("%dp", h),
		})
	}
	return options
}

// NormalizeQuality validates a requested quality token.
// Empty means best; anything else must be "best" or a positive height.
func NormalizeQuality(quality string) (string, error) {
	quality = strings.TrimSpace(quality)
	if quality == "" || strings.EqualFold(quality, QualityBest) {
		return QualityBest, nil
	}

	height, err := strconv.Atoi(strings.TrimSuffix(quality, "p"))
	if err != nil || height <= 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidQuality, quality)
	}
	return strconv.Itoa(height), nil
}

// FormatExpression builds the yt-dlp format selector for a normalized quality.
// The preferred container is tried first, then any container.
func FormatExpression(quality, container string) string {
	if quality == QualityBest {
		return fmt.Sprintf("best[ext=%s]/best", container)
	}
	return fmt.Sprintf("best[height<=%s][ext=%s]/best[height<=%s]", quality, container, quality)
}
