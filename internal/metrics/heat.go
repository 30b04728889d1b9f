package metrics

import (
	"math"

	"github.com/san-kum/heatanim/internal/heat"
)

// HeatRetained is the share of the initial heat content still in the domain
// at the last observed timestep.
type HeatRetained struct {
	name    string
	initial float64
	current float64
	samples int
}

func NewHeatRetained() *HeatRetained {
	return &HeatRetained{name: "heat_retained"}
}

func (h *HeatRetained) Name() string { return h.name }

func (h *HeatRetained) Observe(t float64, profile []heat.Record) {
	q := Integral(profile)
	if h.samples == 0 {
		h.initial = q
	}
	h.current = q
	h.samples++
}

func (h *HeatRetained) Value() float64 {
	if h.samples == 0 || h.initial == 0 {
		return 0
	}
	return h.current / h.initial
}

func (h *HeatRetained) Reset() {
	h.initial = 0
	h.current = 0
	h.samples = 0
}

// PeakDecay is the last peak temperature relative to the first.
type PeakDecay struct {
	name    string
	initial float64
	current float64
	samples int
}

func NewPeakDecay() *PeakDecay {
	return &PeakDecay{name: "peak_ratio"}
}

func (p *PeakDecay) Name() string { return p.name }

func (p *PeakDecay) Observe(t float64, profile []heat.Record) {
	peak := Peak(profile)
	if p.samples == 0 {
		p.initial = peak
	}
	p.current = peak
	p.samples++
}

func (p *PeakDecay) Value() float64 {
	if p.samples == 0 || p.initial == 0 {
		return 0
	}
	return p.current / p.initial
}

func (p *PeakDecay) Reset() {
	p.initial = 0
	p.current = 0
	p.samples = 0
}

// DefaultTolerance is the relative rise in peak temperature tolerated
// between timesteps before it counts as a violation.
const DefaultTolerance = 1e-9

// Stability is the fraction of steps on which the peak temperature did not
// rise. Diffusion never raises the maximum, so rises point at an unstable
// step size (CFL above 0.5 for explicit schemes).
type Stability struct {
	name       string
	tolerance  float64
	first      float64
	last       float64
	violations int
	samples    int
}

func NewStability(tolerance float64) *Stability {
	return &Stability{
		name:      "stability",
		tolerance: tolerance,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(t float64, profile []heat.Record) {
	peak := Peak(profile)
	if s.samples == 0 {
		s.first = peak
	} else if peak-s.last > s.tolerance*math.Max(math.Abs(s.first), 1) {
		s.violations++
	}
	s.last = peak
	s.samples++
}

func (s *Stability) Value() float64 {
	if s.samples < 2 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples-1)
}

func (s *Stability) Reset() {
	s.first = 0
	s.last = 0
	s.violations = 0
	s.samples = 0
}
