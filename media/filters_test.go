package media

import (
	"strings"
	"testing"

	"animatic/timeline"
)

func TestEscapeDrawtext(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain text", "plain text"},
		{"it's 10:30", `it\'s 10\:30`},
		{`back\slash`, `back\\slash`},
		{"100%", `100\%`},
		{"a,b;c", `a\,b\;c`},
	}
	for _, tc := range cases {
		if got := EscapeDrawtext(tc.in); got != tc.want {
			t.Errorf("EscapeDrawtext(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildDrawtextChain(t *testing.T) {
	texts := []timeline.TextElement{
		{Text: "top", PositionStart: 1, PositionEnd: 3, X: 10, Y: 20, FontSize: 32, Color: "yellow", ZIndex: 2},
		{Text: "bottom", PositionStart: 0, PositionEnd: 5, ZIndex: 1},
	}

	chain := BuildDrawtextChain(texts)

	parts := strings.Split(chain, ",drawtext=")
	if len(parts) != 2 {
		t.Fatalf("expected 2 chained drawtext filters, got %q", chain)
	}
	// z-index 1 paints first, z-index 2 last (on top).
	if !strings.Contains(parts[0], "text='bottom'") {
		t.Errorf("lower z-index must come first, got %q", parts[0])
	}
	if !strings.Contains(parts[1], "text='top'") {
		t.Errorf("higher z-index must come last, got %q", parts[1])
	}
	if !strings.Contains(chain, "enable='between(t,1,3)'") {
		t.Errorf("missing position window gate: %q", chain)
	}
	if !strings.Contains(chain, "fontsize=32") || !strings.Contains(chain, "fontcolor=yellow") {
		t.Errorf("missing font settings: %q", chain)
	}
	// Defaults for the unstyled element.
	if !strings.Contains(parts[0], "fontsize=24") || !strings.Contains(parts[0], "fontcolor=white") {
		t.Errorf("missing defaults: %q", parts[0])
	}
}

func TestBuildDrawtextChainEscapesContent(t *testing.T) {
	chain := BuildDrawtextChain([]timeline.TextElement{
		{Text: "ratio 1:2, it's fine", PositionStart: 0, PositionEnd: 1},
	})
	if !strings.Contains(chain, `text='ratio 1\:2\, it\'s fine'`) {
		t.Errorf("text not escaped for the filter parser: %q", chain)
	}
}

func TestAtempoChain(t *testing.T) {
	cases := []struct {
		speed float64
		want  []string
	}{
		{1.5, []string{"atempo=1.5"}},
		{2, []string{"atempo=2"}},
		{4, []string{"atempo=2.0", "atempo=2"}},
		{0.25, []string{"atempo=0.5", "atempo=0.5"}},
		{5, []string{"atempo=2.0", "atempo=2.0", "atempo=1.25"}},
	}
	for _, tc := range cases {
		got := atempoChain(tc.speed)
		if len(got) != len(tc.want) {
			t.Errorf("atempoChain(%v) = %v, want %v", tc.speed, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("atempoChain(%v)[%d] = %q, want %q", tc.speed, i, got[i], tc.want[i])
			}
		}
	}
}

func TestAudioFilterChain(t *testing.T) {
	if got := audioFilterChain(1, 100); got != "" {
		t.Errorf("defaults must produce no filter, got %q", got)
	}
	if got := audioFilterChain(2, 100); got != "atempo=2" {
		t.Errorf("speed only: got %q", got)
	}
	if got := audioFilterChain(1, 50); got != "volume=0.5" {
		t.Errorf("volume only: got %q", got)
	}
	if got := audioFilterChain(2, 80); got != "atempo=2,volume=0.8" {
		t.Errorf("combined: got %q", got)
	}
	if got := audioFilterChain(1, 0); got != "volume=0" {
		t.Errorf("muted clip must still get a volume stage, got %q", got)
	}
}
