package render

import (
	"fmt"
	"strings"

	"github.com/san-kum/heatanim/internal/heat"
)

const (
	SeriesTitle = "Heat Conduction Simulation"
	XLabel      = "Position (x)"
	YLabel      = "Temperature"
)

// NewSeries renders a single run: one curve per frame, one frame per
// distinct timestep.
func NewSeries(run *heat.Result, opts Options) (*Renderer, error) {
	if run == nil || run.Empty() {
		return nil, fmt.Errorf("no simulation data available")
	}

	p := run.Params()
	if opts.Length > 0 {
		p.Length = opts.Length
	}

	opts.warnNonFinite(run)
	lo, hi := run.ValueRange()
	yb, err := opts.yBounds(lo, hi)
	if err != nil {
		return nil, err
	}

	times := run.Timesteps()
	tr, err := newTrack("", run, times)
	if err != nil {
		return nil, err
	}

	opts.logger().Debug("series layout",
		"frames", len(times),
		"ymin", yb.Min,
		"ymax", yb.Max,
		"length", p.DomainLength(),
	)

	return &Renderer{
		times:  times,
		tracks: []track{tr},
		layout: Layout{
			Title:      SeriesTitle,
			XLabel:     XLabel,
			YLabel:     YLabel,
			X:          Bounds{Min: 0, Max: p.DomainLength()},
			Y:          yb,
			Annotation: Annotation(p),
		},
	}, nil
}

// Annotation is the static parameter block shown on every series frame.
func Annotation(p heat.Params) string {
	var b strings.Builder
	b.WriteString("Parameters:\n")
	fmt.Fprintf(&b, "alpha = %.3e (Thermal diffusivity)\n", p.Alpha)
	fmt.Fprintf(&b, "dx = %.3e (Spatial step)\n", p.DX())
	fmt.Fprintf(&b, "dt = %.3e (Time step)\n", p.Dt)
	fmt.Fprintf(&b, "CFL = %.3f (Courant number)\n", p.CFL())
	fmt.Fprintf(&b, "Total time = %.3f\n", p.Duration)
	fmt.Fprintf(&b, "Number of cells = %d", p.Cells)
	return b.String()
}
