package viz

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/san-kum/heatanim/internal/render"
)

// ProgressEvery is how often, in frames, Film logs rendering progress.
const ProgressEvery = 100

// Film rasterises a frame source on demand.
type Film struct {
	src     render.Source
	plotter *Plotter
	logger  *slog.Logger
}

func NewFilm(src render.Source, theme Theme, width, height int, logger *slog.Logger) (*Film, error) {
	p, err := NewPlotter(src.Layout(), theme, width, height)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Film{src: src, plotter: p, logger: logger}, nil
}

func (f *Film) Len() int { return f.src.FrameCount() }

func (f *Film) Image(i int) (*image.Paletted, error) {
	total := f.src.FrameCount()
	if i%ProgressEvery == 0 {
		f.logger.Info("processing frame",
			"frame", i,
			"total", total,
			"progress", fmt.Sprintf("%.1f%%", float64(i)/float64(total)*100),
		)
	}

	frame, err := f.src.Frame(i)
	if err != nil {
		return nil, err
	}
	return f.plotter.Draw(frame), nil
}
