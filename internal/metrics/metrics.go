package metrics

import (
	"github.com/san-kum/heatanim/internal/heat"
)

// Metric accumulates a scalar over the temperature profiles of a run, fed
// in ascending time order.
type Metric interface {
	Name() string
	Observe(t float64, profile []heat.Record)
	Value() float64
	Reset()
}

func Default() []Metric {
	return []Metric{
		NewHeatRetained(),
		NewPeakDecay(),
		NewStability(DefaultTolerance),
	}
}

// Evaluate feeds every timestep of run to each metric and collects the
// values by name. Metrics are reset first.
func Evaluate(run *heat.Result, metrics ...Metric) map[string]float64 {
	for _, m := range metrics {
		m.Reset()
	}
	for _, t := range run.Timesteps() {
		profile, _ := run.At(t)
		for _, m := range metrics {
			m.Observe(t, profile)
		}
	}

	values := make(map[string]float64, len(metrics))
	for _, m := range metrics {
		values[m.Name()] = m.Value()
	}
	return values
}

// Integral is the trapezoidal integral of the profile over x.
func Integral(profile []heat.Record) float64 {
	var sum float64
	for i := 1; i < len(profile); i++ {
		dx := profile[i].X - profile[i-1].X
		sum += 0.5 * dx * (profile[i].Value + profile[i-1].Value)
	}
	return sum
}

func Peak(profile []heat.Record) float64 {
	if len(profile) == 0 {
		return 0
	}
	peak := profile[0].Value
	for _, r := range profile[1:] {
		peak = max(peak, r.Value)
	}
	return peak
}
