package viz

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/heatanim/internal/render"
)

const (
	DefaultWidth  = 640
	DefaultHeight = 384
)

// Palette slots shared by every frame of an animation.
const (
	idxBackground uint8 = iota
	idxAxes
	idxGrid
	idxText
	idxMuted
	idxBox
	idxCurves
)

// Plotter draws frames of one animation. The static parts (axes, grid,
// ticks, labels, annotation, legend) are drawn once into a backdrop that
// every frame starts from.
type Plotter struct {
	width, height int
	layout        render.Layout
	palette       color.Palette
	plot          image.Rectangle
	backdrop      *image.Paletted
}

func NewPlotter(layout render.Layout, theme Theme, width, height int) (*Plotter, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if layout.X.Span() <= 0 || layout.Y.Span() <= 0 {
		return nil, fmt.Errorf("degenerate axes x=%+v y=%+v", layout.X, layout.Y)
	}

	curves := len(layout.Legend)
	if curves == 0 {
		curves = 1
	}
	if int(idxCurves)+curves > 256 {
		return nil, fmt.Errorf("too many curves for a gif palette: %d", curves)
	}

	palette := color.Palette{
		rgba(theme.Background),
		rgba(theme.Axes),
		rgba(theme.Grid),
		rgba(theme.Text),
		rgba(theme.Muted),
		rgba(theme.Box),
	}
	for _, c := range theme.CurveColors(curves) {
		palette = append(palette, c)
	}

	p := &Plotter{
		width:   width,
		height:  height,
		layout:  layout,
		palette: palette,
		plot:    image.Rect(72, 44, width-24, height-52),
	}
	p.backdrop = p.drawBackdrop()
	return p, nil
}

func (p *Plotter) Palette() color.Palette { return p.palette }

// PlotArea is the pixel rectangle data is drawn into.
func (p *Plotter) PlotArea() image.Rectangle { return p.plot }

func (p *Plotter) px(x float64) int { return int(math.Round(p.fx(x))) }

func (p *Plotter) py(y float64) int { return int(math.Round(p.fy(y))) }

func (p *Plotter) fx(x float64) float64 {
	f := (x - p.layout.X.Min) / p.layout.X.Span()
	return float64(p.plot.Min.X) + f*float64(p.plot.Dx())
}

func (p *Plotter) fy(y float64) float64 {
	f := (p.layout.Y.Max - y) / p.layout.Y.Span()
	return float64(p.plot.Min.Y) + f*float64(p.plot.Dy())
}

func (p *Plotter) drawBackdrop() *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, p.width, p.height), p.palette)
	c := NewCanvas(img)
	l := p.layout

	for _, tick := range Ticks(l.X.Min, l.X.Max, 6) {
		x := p.px(tick)
		c.DashLine(x, p.plot.Min.Y, x, p.plot.Max.Y, idxGrid)
		c.DrawLine(x, p.plot.Max.Y, x, p.plot.Max.Y+4, idxAxes)
		label := FormatTick(tick)
		c.Text(x-TextWidth(label)/2, p.plot.Max.Y+7, label, idxText)
	}
	for _, tick := range Ticks(l.Y.Min, l.Y.Max, 6) {
		y := p.py(tick)
		c.DashLine(p.plot.Min.X, y, p.plot.Max.X, y, idxGrid)
		c.DrawLine(p.plot.Min.X-4, y, p.plot.Min.X, y, idxAxes)
		label := FormatTick(tick)
		c.Text(p.plot.Min.X-8-TextWidth(label), y-glyphH/2, label, idxText)
	}
	c.Rect(p.plot, idxAxes)

	c.Text((p.width-TextWidth(l.Title))/2, 12, l.Title, idxText)
	c.Text(p.plot.Min.X+(p.plot.Dx()-TextWidth(l.XLabel))/2, p.plot.Max.Y+26, l.XLabel, idxText)
	c.Text(8, p.plot.Min.Y-glyphH-4, l.YLabel, idxText)

	if l.Annotation != "" {
		p.drawBox(c, strings.Split(l.Annotation, "\n"), nil)
	}
	if len(l.Legend) > 0 {
		p.drawBox(c, l.Legend, func(i int) uint8 { return idxCurves + uint8(i) })
	}
	return img
}

// drawBox renders lines right-aligned in the plot's top-right corner. When
// swatch is set each line gets a short coloured line in front of it.
func (p *Plotter) drawBox(c *Canvas, lines []string, swatch func(int) uint8) {
	w := 0
	for _, line := range lines {
		w = max(w, TextWidth(line))
	}
	pad := 6
	sw := 0
	if swatch != nil {
		sw = 28
	}
	box := image.Rect(p.plot.Max.X-w-sw-2*pad-6, p.plot.Min.Y+6, p.plot.Max.X-6, p.plot.Min.Y+6+len(lines)*glyphH+2*pad)
	c.Fill(box, idxBox)
	c.Rect(box, idxMuted)

	for i, line := range lines {
		y := box.Min.Y + pad + i*glyphH
		x := box.Min.X + pad
		if swatch != nil {
			mid := y + glyphH/2
			c.ThickLine(x, mid, x+20, mid, swatch(i))
			x += sw
		}
		c.Text(x, y, line, idxText)
	}
}

// Draw renders one frame into a fresh image.
func (p *Plotter) Draw(f render.Frame) *image.Paletted {
	img := image.NewPaletted(p.backdrop.Rect, p.palette)
	c := NewCanvas(img)
	c.CopyFrom(p.backdrop)

	c.Clip = p.plot.Inset(1)
	// Segments are cut to a slightly larger window in float space so
	// out-of-range samples never reach the pixel walker.
	window := p.plot.Inset(-2)
	for k, curve := range f.Curves {
		idx := idxCurves + uint8(k)
		for j := 1; j < len(curve.X); j++ {
			x0, y0, x1, y1, ok := clipSegment(
				p.fx(curve.X[j-1]), p.fy(curve.Y[j-1]),
				p.fx(curve.X[j]), p.fy(curve.Y[j]), window)
			if !ok {
				continue
			}
			c.ThickLine(round(x0), round(y0), round(x1), round(y1), idx)
		}
		if len(curve.X) == 1 {
			x, y := p.fx(curve.X[0]), p.fy(curve.Y[0])
			if _, _, _, _, ok := clipSegment(x, y, x, y, window); ok {
				c.Set(round(x), round(y), idx)
			}
		}
	}

	c.Clip = img.Bounds()
	c.Text(p.plot.Min.X+10, p.plot.Min.Y+8, f.TimeLabel, idxText)
	return img
}

// clipSegment cuts the segment to r with Liang-Barsky. It reports false
// when nothing of the segment lies inside r or an endpoint is not finite.
func clipSegment(x0, y0, x1, y1 float64, r image.Rectangle) (float64, float64, float64, float64, bool) {
	if !finite(x0) || !finite(y0) || !finite(x1) || !finite(y1) {
		return 0, 0, 0, 0, false
	}
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0 - float64(r.Min.X)},
		{dx, float64(r.Max.X) - x0},
		{-dy, y0 - float64(r.Min.Y)},
		{dy, float64(r.Max.Y) - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, t)
		}
	}
	cx0, cy0 := x0+t0*dx, y0+t0*dy
	cx1, cy1 := x0+t1*dx, y0+t1*dy
	if !finite(cx0) || !finite(cy0) || !finite(cx1) || !finite(cy1) {
		return 0, 0, 0, 0, false
	}
	return cx0, cy0, cx1, cy1, true
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func round(v float64) int { return int(math.Round(v)) }

// Ticks returns round tick values covering [lo, hi], about n of them.
func Ticks(lo, hi float64, n int) []float64 {
	if hi <= lo || n < 2 {
		return nil
	}
	step := niceStep((hi - lo) / float64(n-1))
	start := math.Ceil(lo/step) * step
	var ticks []float64
	for v := start; v <= hi+step*1e-9; v += step {
		// Snap accumulated error so labels stay clean.
		ticks = append(ticks, math.Round(v/step)*step)
	}
	return ticks
}

func niceStep(raw float64) float64 {
	exp := math.Floor(math.Log10(raw))
	base := math.Pow(10, exp)
	switch f := raw / base; {
	case f <= 1:
		return base
	case f <= 2:
		return 2 * base
	case f <= 5:
		return 5 * base
	default:
		return 10 * base
	}
}

func FormatTick(v float64) string {
	if math.Abs(v) < 1e-12 {
		return "0"
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}
