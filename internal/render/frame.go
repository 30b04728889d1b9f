package render

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/heatanim/internal/heat"
)

// Padding is the fraction of the value range added above and below the data.
const Padding = 0.1

type Bounds struct {
	Min, Max float64
}

func (b Bounds) Span() float64 { return b.Max - b.Min }

func (b Bounds) Contains(v float64) bool { return v >= b.Min && v <= b.Max }

// PadBounds returns [lo - 0.1r, hi + 0.1r] with r = hi - lo. A flat field
// (r == 0) is widened by half a unit on each side so it stays drawable.
func PadBounds(lo, hi float64) Bounds {
	r := hi - lo
	if r == 0 {
		return Bounds{Min: lo - 0.5, Max: hi + 0.5}
	}
	return Bounds{Min: lo - Padding*r, Max: hi + Padding*r}
}

type Curve struct {
	Label string
	X, Y  []float64
}

// Frame is the drawable state for one timestep.
type Frame struct {
	Index     int
	Time      float64
	TimeLabel string
	Curves    []Curve
}

// Layout is everything that stays fixed across the frames of one animation.
type Layout struct {
	Title      string
	XLabel     string
	YLabel     string
	X          Bounds
	Y          Bounds
	Annotation string
	Legend     []string
}

// Source is a finite, restartable frame sequence.
type Source interface {
	FrameCount() int
	Frame(i int) (Frame, error)
	Layout() Layout
}

type Options struct {
	// YMin and YMax override the computed bounds independently.
	YMin, YMax *float64
	// Length is the domain length; it fixes the x axis and dx. Zero uses the
	// run's own length.
	Length float64
	// AllowMismatchedGrids skips the shared-timestep check for comparisons.
	// Series missing a frame's timestep then keep their previous curve.
	AllowMismatchedGrids bool
	Logger               *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o Options) yBounds(lo, hi float64) (Bounds, error) {
	b := PadBounds(lo, hi)
	if o.YMin != nil {
		b.Min = *o.YMin
	}
	if o.YMax != nil {
		b.Max = *o.YMax
	}
	if !finite(b.Min) || !finite(b.Max) || !finite(b.Span()) || b.Min >= b.Max {
		return Bounds{}, fmt.Errorf("invalid y-axis limits [%g, %g]", b.Min, b.Max)
	}
	return b, nil
}

// warnNonFinite notes samples that cannot be drawn. They are left out of the
// y range and the plot breaks its curve around them.
func (o Options) warnNonFinite(run *heat.Result) {
	if n := run.NonFinite(); n > 0 {
		o.logger().Warn("run has non-finite values", "id", run.ID(), "samples", n, "alpha", run.Params().Alpha)
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// TimeLabel formats the per-frame time annotation.
func TimeLabel(t float64) string {
	return fmt.Sprintf("Time: %.3f", t)
}
