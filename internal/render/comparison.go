package render

import (
	"fmt"
	"math"

	"github.com/san-kum/heatanim/internal/sweep"
)

const ComparisonTitle = "Temperature Evolution for Different Thermal Diffusivity Values"

// LegendLabel names the curve of one sweep member.
func LegendLabel(alpha float64) string {
	return fmt.Sprintf("alpha = %.3f", alpha)
}

// NewComparison overlays every run of a sweep. Frames follow the reference
// (first) run's timesteps. Unless opts.AllowMismatchedGrids is set, runs
// with a different timestep sequence fail with *heat.ComparisonError.
func NewComparison(res *sweep.Result, opts Options) (*Renderer, error) {
	if res == nil || res.Len() == 0 {
		return nil, fmt.Errorf("no simulation results available for comparison")
	}
	if !opts.AllowMismatchedGrids {
		if err := res.ValidateGrid(); err != nil {
			return nil, err
		}
	}

	_, ref := res.Reference()
	times := ref.Timesteps()

	lo, hi := math.Inf(1), math.Inf(-1)
	alphas := res.Alphas()
	tracks := make([]track, 0, len(alphas))
	legend := make([]string, 0, len(alphas))
	for _, alpha := range alphas {
		run, _ := res.Get(alpha)
		tr, err := newTrack(LegendLabel(alpha), run, times)
		if err != nil {
			return nil, fmt.Errorf("alpha %g: %w", alpha, err)
		}
		tracks = append(tracks, tr)
		legend = append(legend, tr.label)

		opts.warnNonFinite(run)
		if run.NonFinite() < run.Len() {
			rlo, rhi := run.ValueRange()
			lo = math.Min(lo, rlo)
			hi = math.Max(hi, rhi)
		}
	}
	if lo > hi {
		lo, hi = 0, 0
	}

	yb, err := opts.yBounds(lo, hi)
	if err != nil {
		return nil, err
	}

	length := opts.Length
	if length <= 0 {
		length = ref.Params().DomainLength()
	}

	opts.logger().Debug("comparison layout",
		"series", len(tracks),
		"frames", len(times),
		"ymin", yb.Min,
		"ymax", yb.Max,
	)

	return &Renderer{
		times:  times,
		tracks: tracks,
		layout: Layout{
			Title:  ComparisonTitle,
			XLabel: XLabel,
			YLabel: YLabel,
			X:      Bounds{Min: 0, Max: length},
			Y:      yb,
			Legend: legend,
		},
	}, nil
}
