package widgets

import (
	"math"
	"strings"
)

// Widget draws itself into a width x height box.
type Widget interface {
	Render(width, height int) string
}

// Text is a Widget showing fixed text, clipped to the box.
type Text string

func (t Text) Render(width, height int) string {
	return fitCanvas(string(t), width, height)
}

// VStack stacks widgets top to bottom with Spacing blank rows between
// them. Ratios, when given for every widget, weight the height each
// receives.
type VStack struct {
	Widgets []Widget
	Spacing int
	Ratios  []float64
}

func (v VStack) Render(width, height int) string {
	n := len(v.Widgets)
	if n == 0 || width <= 0 || height <= 0 {
		return ""
	}
	spacing := max(0, v.Spacing)
	heights := apportion(max(1, height-spacing*(n-1)), n, v.Ratios)
	gap := strings.Repeat("\n", spacing+1)

	var b strings.Builder
	for i, w := range v.Widgets {
		if i > 0 {
			b.WriteString(gap)
		}
		h := max(1, heights[i])
		b.WriteString(fitCanvas(w.Render(width, h), width, h))
	}
	return b.String()
}

// HStack places widgets side by side separated by Gap columns. Every
// column is clipped and padded to its share of the width and to height.
type HStack struct {
	Widgets []Widget
	Ratios  []float64
	Gap     int
}

func (h HStack) Render(width, height int) string {
	n := len(h.Widgets)
	if n == 0 || width <= 0 || height <= 0 {
		return ""
	}
	gap := max(0, h.Gap)
	widths := apportion(max(1, width-gap*(n-1)), n, h.Ratios)

	columns := make([][]string, n)
	for i, w := range h.Widgets {
		cw := max(1, widths[i])
		columns[i] = strings.Split(fitCanvas(w.Render(cw, height), cw, height), "\n")
	}

	sep := strings.Repeat(" ", gap)
	rows := make([]string, height)
	for y := range rows {
		var b strings.Builder
		for i, col := range columns {
			if i > 0 {
				b.WriteString(sep)
			}
			b.WriteString(col[y])
		}
		rows[y] = b.String()
	}
	return strings.Join(rows, "\n")
}

// apportion cuts total into n parts proportional to ratios, or evenly when
// ratios does not cover every part. Non-positive ratios count as 1. Each
// cut is rounded up, so the leftmost parts absorb any remainder.
func apportion(total, n int, ratios []float64) []int {
	if n <= 0 {
		return nil
	}
	weight := func(i int) float64 {
		if len(ratios) != n || ratios[i] <= 0 {
			return 1
		}
		return ratios[i]
	}
	sum := 0.0
	for i := range n {
		sum += weight(i)
	}

	out := make([]int, n)
	acc, prev := 0.0, 0
	for i := range out {
		acc += weight(i)
		cut := total
		if i < n-1 {
			cut = min(total, int(math.Ceil(float64(total)*acc/sum-1e-9)))
		}
		out[i] = cut - prev
		prev = cut
	}
	return out
}
