package render

import (
	"fmt"

	"github.com/san-kum/heatanim/internal/heat"
)

// track is one curve: a run plus, for every frame, the timestep to draw.
type track struct {
	label string
	run   *heat.Result
	pick  []float64
}

func newTrack(label string, run *heat.Result, times []float64) (track, error) {
	own := run.Timesteps()
	if len(own) == 0 {
		return track{}, fmt.Errorf("%s has no records", run.ID())
	}

	tr := track{label: label, run: run, pick: make([]float64, len(times))}
	last := own[0]
	for i, t := range times {
		if _, ok := run.At(t); ok {
			last = t
		}
		tr.pick[i] = last
	}
	return tr, nil
}

func (tr track) curve(i int) Curve {
	recs, _ := tr.run.At(tr.pick[i])
	c := Curve{Label: tr.label, X: make([]float64, len(recs)), Y: make([]float64, len(recs))}
	for j, rec := range recs {
		c.X[j] = rec.X
		c.Y[j] = rec.Value
	}
	return c
}

// Renderer turns one or more runs into frames indexed by a reference
// timestep sequence. Frame(i) depends only on i.
type Renderer struct {
	times  []float64
	tracks []track
	layout Layout
}

func (r *Renderer) FrameCount() int { return len(r.times) }

func (r *Renderer) Layout() Layout { return r.layout }

func (r *Renderer) Bounds() Bounds { return r.layout.Y }

func (r *Renderer) Frame(i int) (Frame, error) {
	if i < 0 || i >= len(r.times) {
		return Frame{}, fmt.Errorf("frame %d out of range [0, %d)", i, len(r.times))
	}
	f := Frame{
		Index:     i,
		Time:      r.times[i],
		TimeLabel: TimeLabel(r.times[i]),
		Curves:    make([]Curve, len(r.tracks)),
	}
	for k, tr := range r.tracks {
		f.Curves[k] = tr.curve(i)
	}
	return f, nil
}

// Frames materialises the whole sequence.
func (r *Renderer) Frames() ([]Frame, error) {
	frames := make([]Frame, 0, len(r.times))
	for i := range r.times {
		f, err := r.Frame(i)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}
