package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/heatanim/internal/render"
	"github.com/san-kum/heatanim/internal/viz"
)

// FrameToSVG renders one frame as a standalone SVG with the layout's fixed
// axes, so a still matches the corresponding animation frame.
func FrameToSVG(f render.Frame, layout render.Layout, theme viz.Theme, width, height int) string {
	if width <= 0 || height <= 0 || layout.X.Span() <= 0 || layout.Y.Span() <= 0 {
		return ""
	}

	left, top, right, bottom := 60.0, 36.0, 16.0, 40.0
	pw := float64(width) - left - right
	ph := float64(height) - top - bottom
	px := func(x float64) float64 { return left + (x-layout.X.Min)/layout.X.Span()*pw }
	py := func(y float64) float64 { return top + (layout.Y.Max-y)/layout.Y.Span()*ph }

	var sb strings.Builder

	// SVG header
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="monospace" font-size="12">
<rect width="100%%" height="100%%" fill="%s"/>
<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s"/>
`, width, height, width, height, theme.Background, left, top, pw, ph, theme.Axes))

	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="20" text-anchor="middle" fill="%s">%s</text>
`, float64(width)/2, theme.Text, escape(layout.Title)))
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s">%s</text>
`, left+8, top+16, theme.Text, escape(f.TimeLabel)))

	colors := theme.Curves
	for k, c := range f.Curves {
		if len(c.X) < 2 {
			continue
		}
		stroke := "#000000"
		if len(colors) > 0 {
			stroke = string(colors[k%len(colors)])
		}
		d := pathData(c, px, py)
		if d == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="2" d="%s`, stroke, d))
		sb.WriteString("\"")
		if c.Label != "" {
			sb.WriteString(fmt.Sprintf(`><title>%s</title></path>
`, escape(c.Label)))
		} else {
			sb.WriteString("/>\n")
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// pathData joins the curve's points into move/line commands. A non-finite
// sample lifts the pen, so the curve resumes with a new subpath after it.
func pathData(c render.Curve, px, py func(float64) float64) string {
	var d strings.Builder
	cmd := "M"
	for i := range c.X {
		x, y := px(c.X[i]), py(c.Y[i])
		if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
			cmd = "M"
			continue
		}
		if d.Len() > 0 {
			d.WriteByte(' ')
		}
		fmt.Fprintf(&d, "%s%.1f,%.1f", cmd, x, y)
		cmd = "L"
	}
	return d.String()
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
