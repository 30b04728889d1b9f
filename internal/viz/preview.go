package viz

import (
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/heatanim/internal/render"
)

var previewColors = []asciigraph.AnsiColor{
	asciigraph.Blue,
	asciigraph.Orange,
	asciigraph.Green,
	asciigraph.Red,
	asciigraph.Purple,
}

// Preview plots a frame's curves in the terminal, one line per curve,
// sampled over the positions in ascending order.
func Preview(f render.Frame, layout render.Layout, width, height int, color bool) string {
	var series [][]float64
	for _, c := range f.Curves {
		if len(c.Y) > 0 {
			series = append(series, gaps(c.Y))
		}
	}
	if len(series) == 0 {
		return ""
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(layout.Y.Min),
		asciigraph.UpperBound(layout.Y.Max),
		asciigraph.Caption(f.TimeLabel),
	}
	if color {
		colors := make([]asciigraph.AnsiColor, len(series))
		for i := range colors {
			colors[i] = previewColors[i%len(previewColors)]
		}
		opts = append(opts, asciigraph.SeriesColors(colors...))
	}

	graph := asciigraph.PlotMany(series, opts...)

	var b strings.Builder
	b.WriteString(graph)
	for i, label := range layout.Legend {
		b.WriteString("\n  ")
		if color {
			b.WriteString(previewColors[i%len(previewColors)].String())
			b.WriteString("──")
			b.WriteString(asciigraph.Default.String())
		} else {
			b.WriteString("──")
		}
		b.WriteString(" " + label)
	}
	return b.String()
}

// gaps replaces infinities with NaN, which the plot leaves blank.
func gaps(ys []float64) []float64 {
	out := make([]float64, len(ys))
	for i, y := range ys {
		if math.IsInf(y, 0) {
			y = math.NaN()
		}
		out[i] = y
	}
	return out
}
