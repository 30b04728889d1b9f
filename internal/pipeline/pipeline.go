// Package pipeline chains a solver run or sweep through rendering and
// encoding into one animation.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/san-kum/heatanim/internal/encode"
	"github.com/san-kum/heatanim/internal/heat"
	"github.com/san-kum/heatanim/internal/render"
	"github.com/san-kum/heatanim/internal/solver"
	"github.com/san-kum/heatanim/internal/storage"
	"github.com/san-kum/heatanim/internal/sweep"
	"github.com/san-kum/heatanim/internal/viz"
)

const (
	SeriesPrefix     = "heat_conduction"
	ComparisonPrefix = "alpha_comparison"
)

// Report is what a pipeline run produced. EncodeErr is set when the data
// was obtained but the animation could not be written.
type Report struct {
	Run       *heat.Result
	Sweep     *sweep.Result
	Source    render.Source
	Artifact  *encode.Artifact
	EncodeErr error
}

type Pipeline struct {
	Invoker   sweep.Invoker
	Encoder   *encode.Encoder
	Render    render.Options
	Theme     viz.Theme
	Width     int
	Height    int
	ImagesDir string
	Now       func() time.Time
	Logger    *slog.Logger
}

func (p *Pipeline) defaults() {
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	if p.Encoder == nil {
		p.Encoder = encode.New(encode.DefaultInterval, p.Logger)
	}
	if p.Render.Logger == nil {
		p.Render.Logger = p.Logger
	}
	if p.Theme.Name == "" {
		p.Theme = viz.CurrentTheme
	}
	if p.ImagesDir == "" {
		p.ImagesDir = "imgs"
	}
	if p.Now == nil {
		p.Now = time.Now
	}
}

// RunSingle runs the solver once and animates the result. An empty output
// gets a timestamped name; a relative one is placed under the images dir.
func (p *Pipeline) RunSingle(ctx context.Context, params heat.Params, output string) (*Report, error) {
	p.defaults()

	run, err := p.Invoker.Run(ctx, params)
	if err != nil {
		return nil, err
	}
	report := &Report{Run: run}

	src, err := render.NewSeries(run, p.Render)
	if err != nil {
		return report, err
	}
	report.Source = src

	path := p.seriesPath(run, output)
	p.animate(report, src, path)
	return report, nil
}

// RunSweep runs one solver invocation per alpha and animates all of them on
// shared axes. Output is used as given when set. If the runs disagree on
// their timesteps the report still carries the sweep alongside the
// *heat.ComparisonError.
func (p *Pipeline) RunSweep(ctx context.Context, alphas []float64, base heat.Params, output string) (*Report, error) {
	p.defaults()

	res, err := sweep.New(p.Invoker, p.Logger).Run(ctx, alphas, base)
	if err != nil {
		return nil, err
	}
	report := &Report{Sweep: res}

	src, err := render.NewComparison(res, p.Render)
	if err != nil {
		return report, err
	}
	report.Source = src

	path := output
	if path == "" {
		_, ref := res.Reference()
		path = filepath.Join(p.ImagesDir, p.artifactName(ComparisonPrefix, ref.ID()))
	}
	p.animate(report, src, path)
	return report, nil
}

// Animate renders a stored run without invoking the solver.
func (p *Pipeline) Animate(run *heat.Result, output string) (*Report, error) {
	p.defaults()

	src, err := render.NewSeries(run, p.Render)
	if err != nil {
		return nil, err
	}
	report := &Report{Run: run, Source: src}
	p.animate(report, src, p.seriesPath(run, output))
	return report, nil
}

func (p *Pipeline) seriesPath(run *heat.Result, output string) string {
	switch {
	case output == "":
		return filepath.Join(p.ImagesDir, p.artifactName(SeriesPrefix, run.ID()))
	case filepath.IsAbs(output):
		return output
	default:
		return filepath.Join(p.ImagesDir, output)
	}
}

func (p *Pipeline) artifactName(prefix, runID string) string {
	return fmt.Sprintf("%s_%s_%s.gif", prefix, p.Now().Format(storage.StampLayout), solver.ShortID(runID))
}

// animate records encoding failures on the report; they never discard the
// simulation data.
func (p *Pipeline) animate(report *Report, src render.Source, path string) {
	film, err := viz.NewFilm(src, p.Theme, p.Width, p.Height, p.Logger)
	if err != nil {
		report.EncodeErr = &heat.EncodingError{Path: path, Wrapped: err}
	} else {
		report.Artifact, report.EncodeErr = p.Encoder.Encode(path, film)
	}

	if report.EncodeErr != nil {
		p.Logger.Error("animation failed", "path", path, "err", report.EncodeErr)
	}
}
