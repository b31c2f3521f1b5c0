package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestHStackRespectsRatios(t *testing.T) {
	h := HStack{Widgets: []Widget{Text("A"), Text("B")}, Ratios: []float64{0.75, 0.25}, Gap: 1}
	lines := strings.Split(h.Render(21, 2), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, 21, ansi.StringWidth(lines[0]))
	require.Equal(t, 16, strings.Index(lines[0], "B"))
}

func TestVStackSpacing(t *testing.T) {
	v := VStack{Widgets: []Widget{Text("top"), Text("bottom")}, Spacing: 1}
	out := v.Render(20, 5)
	require.Contains(t, out, "top")
	require.Contains(t, out, "bottom")
	lines := strings.Split(out, "\n")
	require.Equal(t, "bottom", strings.TrimSpace(lines[3]))
}

func TestApportion(t *testing.T) {
	tests := []struct {
		name   string
		total  int
		n      int
		ratios []float64
		want   []int
	}{
		{name: "even with remainder", total: 10, n: 3, want: []int{4, 3, 3}},
		{name: "weighted", total: 8, n: 2, ratios: []float64{3, 1}, want: []int{6, 2}},
		{name: "non-positive ratios", total: 6, n: 2, ratios: []float64{0, -1}, want: []int{3, 3}},
		{name: "ratio count mismatch", total: 7, n: 2, ratios: []float64{5}, want: []int{4, 3}},
		{name: "fractions", total: 20, n: 2, ratios: []float64{0.75, 0.25}, want: []int{15, 5}},
		{name: "no parts", total: 6, n: 0, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apportion(tt.total, tt.n, tt.ratios)
			require.Equal(t, tt.want, got)
			if tt.n > 0 {
				sum := 0
				for _, w := range got {
					sum += w
				}
				require.Equal(t, tt.total, sum)
			}
		})
	}
}

func TestHStackPadsShortColumns(t *testing.T) {
	h := HStack{Widgets: []Widget{Text("one\ntwo\nthree"), Text("x")}, Gap: 2}
	lines := strings.Split(h.Render(12, 3), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		require.Equal(t, 12, ansi.StringWidth(line))
	}
	require.Equal(t, "three       ", lines[2])
}

func TestBoxDrawsTitleAndClipsContent(t *testing.T) {
	out := Box{Title: "Logs", Content: "one\ntwo\nthree"}.Render(12, 4)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "╭─ Logs ───╮", lines[0])
	require.Equal(t, "│one       │", lines[1])
	require.Equal(t, "│two       │", lines[2])
	require.Equal(t, "╰──────────╯", lines[3])
}

func TestOverlayKeepsBaseAroundPopup(t *testing.T) {
	base := strings.Repeat("..........\n", 7)
	out := Overlay(base, "hi", 10, 7)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 7)
	for _, line := range lines {
		require.Equal(t, 10, ansi.StringWidth(line))
	}
	require.Equal(t, "..........", lines[0])
	require.Contains(t, lines[3], "hi")
	require.True(t, strings.HasPrefix(lines[3], "."))
}
