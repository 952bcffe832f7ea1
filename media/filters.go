package media

import (
	"fmt"
	"sort"
	"strings"

	"animatic/timeline"
)

// EscapeDrawtext escapes the characters that break ffmpeg drawtext filter
// syntax (or worse, let text reach the filter parser as syntax). This is a
// correctness requirement for arbitrary user text, not just hygiene.
func EscapeDrawtext(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
		`,`, `\,`,
		`;`, `\;`,
	)
	return r.Replace(s)
}

// BuildDrawtextChain renders text elements into a comma-joined drawtext
// filter chain. Each element is gated by its position window; elements are
// layered in z-index order so higher z paints on top.
func BuildDrawtextChain(texts []timeline.TextElement) string {
	ordered := make([]timeline.TextElement, len(texts))
	copy(ordered, texts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ZIndex < ordered[j].ZIndex
	})

	filters := make([]string, 0, len(ordered))
	for _, t := range ordered {
		fontSize := t.FontSize
		if fontSize <= 0 {
			fontSize = 24
		}
		color := t.Color
		if color == "" {
			color = "white"
		}
		filters = append(filters, fmt.Sprintf(
			"drawtext=text='%s':fontsize=%d:fontcolor=%s:x=%g:y=%g:enable='between(t,%g,%g)'",
			EscapeDrawtext(t.Text), fontSize, color, t.X, t.Y, t.PositionStart, t.PositionEnd,
		))
	}
	return strings.Join(filters, ",")
}

// atempoChain decomposes a playback speed into atempo stages. A single
// atempo node only accepts factors in [0.5, 2.0], so factors outside that
// range are chained.
func atempoChain(speed float64) []string {
	var stages []string
	for speed > 2.0 {
		stages = append(stages, "atempo=2.0")
		speed /= 2.0
	}
	for speed < 0.5 {
		stages = append(stages, "atempo=0.5")
		speed /= 0.5
	}
	return append(stages, fmt.Sprintf("atempo=%g", speed))
}

// audioFilterChain builds the -af value for a trim: tempo stages when speed
// differs from 1, a volume stage when the 0-100 scalar differs from 100.
// Empty string means no audio filtering is needed.
func audioFilterChain(speed, volume float64) string {
	var parts []string
	if speed > 0 && speed != 1 {
		parts = append(parts, atempoChain(speed)...)
	}
	if volume >= 0 && volume != 100 {
		parts = append(parts, fmt.Sprintf("volume=%g", volume/100))
	}
	return strings.Join(parts, ",")
}
