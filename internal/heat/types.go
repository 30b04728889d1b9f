package heat

import (
	"fmt"
	"math"
	"sort"
)

// DefaultLength is the fixed domain length the solver discretises.
const DefaultLength = 1.0

type Params struct {
	Alpha    float64 `json:"alpha" yaml:"alpha"`
	Dt       float64 `json:"dt" yaml:"dt"`
	Duration float64 `json:"total_time" yaml:"time"`
	Cells    int     `json:"num_x" yaml:"cells"`
	Length   float64 `json:"length" yaml:"length"`
}

// DomainLength is Length, or DefaultLength when unset.
func (p Params) DomainLength() float64 {
	if p.Length <= 0 {
		return DefaultLength
	}
	return p.Length
}

// DX is the spatial step of the interior grid, L/(N+1).
func (p Params) DX() float64 {
	return p.DomainLength() / float64(p.Cells+1)
}

// CFL reports alpha*dt/dx^2. It is informational only.
func (p Params) CFL() float64 {
	dx := p.DX()
	return p.Alpha * p.Dt / (dx * dx)
}

func (p Params) ExpectedTimesteps() int {
	return int(p.Duration/p.Dt) + 1
}

func (p Params) Validate() error {
	if p.Alpha <= 0 {
		return fmt.Errorf("alpha must be positive, got %g", p.Alpha)
	}
	if p.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", p.Dt)
	}
	if p.Duration <= 0 {
		return fmt.Errorf("total time must be positive, got %g", p.Duration)
	}
	if p.Cells <= 0 {
		return fmt.Errorf("cell count must be positive, got %d", p.Cells)
	}
	return nil
}

// Record is one sample of the field at (T, X).
type Record struct {
	T     float64
	X     float64
	Value float64
}

// Result is the parsed output of one solver run. It is read-only once built.
type Result struct {
	id        string
	params    Params
	dir       string
	records   []Record
	timesteps []float64
	positions []float64
	byTime    map[float64][]Record
	min, max  float64
	nonFinite int
}

// NewResult groups raw records by timestep. The input order does not matter.
func NewResult(id string, params Params, dir string, records []Record) *Result {
	r := &Result{
		id:      id,
		params:  params,
		dir:     dir,
		records: make([]Record, len(records)),
		byTime:  make(map[float64][]Record),
		min:     math.Inf(1),
		max:     math.Inf(-1),
	}
	copy(r.records, records)

	seenX := make(map[float64]struct{})
	for _, rec := range r.records {
		if _, ok := r.byTime[rec.T]; !ok {
			r.timesteps = append(r.timesteps, rec.T)
		}
		r.byTime[rec.T] = append(r.byTime[rec.T], rec)
		if _, ok := seenX[rec.X]; !ok {
			seenX[rec.X] = struct{}{}
			r.positions = append(r.positions, rec.X)
		}
		if math.IsNaN(rec.Value) || math.IsInf(rec.Value, 0) {
			r.nonFinite++
			continue
		}
		r.min = math.Min(r.min, rec.Value)
		r.max = math.Max(r.max, rec.Value)
	}

	sort.Float64s(r.timesteps)
	sort.Float64s(r.positions)
	for _, recs := range r.byTime {
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].X < recs[j].X })
	}
	return r
}

func (r *Result) ID() string     { return r.id }
func (r *Result) Params() Params { return r.params }
func (r *Result) Dir() string    { return r.dir }
func (r *Result) Len() int       { return len(r.records) }
func (r *Result) Empty() bool    { return len(r.records) == 0 }

// Timesteps returns a copy of the ascending, deduplicated timestep sequence.
func (r *Result) Timesteps() []float64 {
	return append([]float64(nil), r.timesteps...)
}

// Positions returns a copy of the ascending, deduplicated position sequence.
func (r *Result) Positions() []float64 {
	return append([]float64(nil), r.positions...)
}

func (r *Result) Records() []Record {
	return append([]Record(nil), r.records...)
}

// At returns the records of timestep t in ascending position order.
func (r *Result) At(t float64) ([]Record, bool) {
	recs, ok := r.byTime[t]
	if !ok {
		return nil, false
	}
	return append([]Record(nil), recs...), true
}

// ValueRange returns the smallest and largest finite field value over all
// timesteps, or zeros when there is none.
func (r *Result) ValueRange() (float64, float64) {
	if r.nonFinite == len(r.records) {
		return 0, 0
	}
	return r.min, r.max
}

// NonFinite counts the samples holding inf or nan.
func (r *Result) NonFinite() int { return r.nonFinite }

// SameGrid reports whether both results carry the identical timestep sequence.
func (r *Result) SameGrid(other *Result) bool {
	if len(r.timesteps) != len(other.timesteps) {
		return false
	}
	for i, t := range r.timesteps {
		if other.timesteps[i] != t {
			return false
		}
	}
	return true
}
