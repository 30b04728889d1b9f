package render

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/san-kum/heatanim/internal/heat"
	"github.com/san-kum/heatanim/internal/sweep"
)

// grid builds a run with the given timesteps over cells interior points,
// with value(t, x) = scale * (t + x).
func grid(alpha float64, times []float64, cells int, scale float64) *heat.Result {
	p := heat.Params{Alpha: alpha, Dt: 0.1, Duration: 1, Cells: cells, Length: 1}
	var recs []heat.Record
	for k := len(times) - 1; k >= 0; k-- {
		for i := cells; i >= 1; i-- {
			x := float64(i) * p.DX()
			recs = append(recs, heat.Record{T: times[k], X: x, Value: scale * (times[k] + x)})
		}
	}
	return heat.NewResult("run", p, "", recs)
}

func float(v float64) *float64 { return &v }

func TestPadBounds(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi float64
		want   Bounds
	}{
		{"unit", 0, 100, Bounds{Min: -10, Max: 110}},
		{"negative", -2, 2, Bounds{Min: -2.4, Max: 2.4}},
		{"flat", 5, 5, Bounds{Min: 4.5, Max: 5.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PadBounds(tt.lo, tt.hi)
			if math.Abs(got.Min-tt.want.Min) > 1e-12 || math.Abs(got.Max-tt.want.Max) > 1e-12 {
				t.Errorf("PadBounds(%v, %v) = %+v, want %+v", tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestSeriesFrameCountAndOrder(t *testing.T) {
	times := []float64{0, 0.1, 0.2, 0.3}
	run := grid(0.01, times, 5, 1)

	r, err := NewSeries(run, Options{})
	if err != nil {
		t.Fatalf("NewSeries: %v", err)
	}

	if r.FrameCount() != len(times) {
		t.Fatalf("FrameCount() = %d, want %d", r.FrameCount(), len(times))
	}

	for i, want := range times {
		f, err := r.Frame(i)
		if err != nil {
			t.Fatalf("Frame(%d): %v", i, err)
		}
		if f.Time != want {
			t.Errorf("frame %d time = %v, want %v", i, f.Time, want)
		}
		if len(f.Curves) != 1 || len(f.Curves[0].X) != 5 {
			t.Fatalf("frame %d curves = %+v", i, f.Curves)
		}
		xs := f.Curves[0].X
		for j := 1; j < len(xs); j++ {
			if xs[j] <= xs[j-1] {
				t.Errorf("frame %d positions not ascending: %v", i, xs)
			}
		}
		if got := f.Curves[0].Y[0]; math.Abs(got-(want+xs[0])) > 1e-12 {
			t.Errorf("frame %d first value = %v, want %v", i, got, want+xs[0])
		}
	}

	if _, err := r.Frame(len(times)); err == nil {
		t.Error("expected out of range error")
	}
	if _, err := r.Frame(-1); err == nil {
		t.Error("expected out of range error")
	}
}

func TestSeriesRestartable(t *testing.T) {
	run := grid(0.01, []float64{0, 0.5, 1}, 3, 2)
	r, err := NewSeries(run, Options{})
	if err != nil {
		t.Fatal(err)
	}

	first, err := r.Frames()
	if err != nil {
		t.Fatal(err)
	}
	again, _ := r.Frame(2)
	back, _ := r.Frame(0)

	if again.Time != first[2].Time || again.Curves[0].Y[2] != first[2].Curves[0].Y[2] {
		t.Error("frame 2 differs between passes")
	}
	if back.TimeLabel != "Time: 0.000" {
		t.Errorf("frame 0 label = %q", back.TimeLabel)
	}
}

func TestSeriesBounds(t *testing.T) {
	run := grid(0.01, []float64{0, 1, 2}, 4, 10)
	lo, hi := run.ValueRange()

	r, err := NewSeries(run, Options{})
	if err != nil {
		t.Fatal(err)
	}
	b := r.Bounds()

	rng := hi - lo
	if b.Min != lo-0.1*rng || b.Max != hi+0.1*rng {
		t.Errorf("bounds = %+v, want [%v, %v]", b, lo-0.1*rng, hi+0.1*rng)
	}

	for _, rec := range run.Records() {
		if !b.Contains(rec.Value) {
			t.Errorf("value %v outside bounds %+v", rec.Value, b)
		}
	}
}

func TestSeriesExplicitBounds(t *testing.T) {
	run := grid(0.01, []float64{0, 1}, 2, 1)

	r, err := NewSeries(run, Options{YMin: float(-5)})
	if err != nil {
		t.Fatal(err)
	}
	lo, hi := run.ValueRange()
	if r.Bounds().Min != -5 || r.Bounds().Max != hi+0.1*(hi-lo) {
		t.Errorf("bounds = %+v", r.Bounds())
	}

	r, err = NewSeries(run, Options{YMin: float(0), YMax: float(120)})
	if err != nil {
		t.Fatal(err)
	}
	if r.Bounds() != (Bounds{Min: 0, Max: 120}) {
		t.Errorf("bounds = %+v", r.Bounds())
	}

	if _, err := NewSeries(run, Options{YMin: float(3), YMax: float(1)}); err == nil {
		t.Error("expected error for inverted limits")
	}

	for _, lim := range []Options{
		{YMax: float(math.Inf(1))},
		{YMin: float(math.Inf(-1))},
		{YMin: float(math.NaN())},
		{YMin: float(-1e308), YMax: float(1e308)},
	} {
		if _, err := NewSeries(run, lim); err == nil {
			t.Errorf("expected error for limits %v..%v", lim.YMin, lim.YMax)
		}
	}
}

func TestSeriesNonFiniteValues(t *testing.T) {
	p := heat.Params{Alpha: 0.5, Dt: 0.1, Duration: 0.1, Cells: 2, Length: 1}
	run := heat.NewResult("unstable", p, "", []heat.Record{
		{T: 0, X: 1.0 / 3, Value: 1},
		{T: 0, X: 2.0 / 3, Value: 2},
		{T: 0.1, X: 1.0 / 3, Value: math.Inf(1)},
		{T: 0.1, X: 2.0 / 3, Value: math.NaN()},
	})

	var buf bytes.Buffer
	r, err := NewSeries(run, Options{Logger: slog.New(slog.NewTextHandler(&buf, nil))})
	if err != nil {
		t.Fatal(err)
	}
	if r.Bounds() != PadBounds(1, 2) {
		t.Errorf("bounds = %+v, want the finite range padded", r.Bounds())
	}
	if !strings.Contains(buf.String(), "non-finite") || !strings.Contains(buf.String(), "samples=2") {
		t.Errorf("expected a non-finite warning, got %q", buf.String())
	}
	if _, err := r.Frame(1); err != nil {
		t.Errorf("frame with non-finite values: %v", err)
	}
}

func TestSeriesLayout(t *testing.T) {
	run := grid(0.01, []float64{0}, 3, 1)

	r, err := NewSeries(run, Options{Length: 2})
	if err != nil {
		t.Fatal(err)
	}
	l := r.Layout()
	if l.Title != SeriesTitle || l.XLabel != XLabel || l.YLabel != YLabel {
		t.Errorf("unexpected labels %+v", l)
	}
	if l.X != (Bounds{Min: 0, Max: 2}) {
		t.Errorf("x bounds = %+v", l.X)
	}
	if len(l.Legend) != 0 {
		t.Errorf("series should have no legend, got %v", l.Legend)
	}
}

func TestSeriesEmpty(t *testing.T) {
	if _, err := NewSeries(heat.NewResult("e", heat.Params{}, "", nil), Options{}); err == nil {
		t.Error("expected error for empty run")
	}
	if _, err := NewSeries(nil, Options{}); err == nil {
		t.Error("expected error for nil run")
	}
}

func TestAnnotationGolden(t *testing.T) {
	p := heat.Params{Alpha: 0.01, Dt: 0.002, Duration: 1.0, Cells: 100, Length: 1.0}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "annotation_default", []byte(Annotation(p)+"\n"))
}

func TestComparison(t *testing.T) {
	times := []float64{0, 0.1, 0.2}
	a := grid(0.001, times, 4, 1)
	b := grid(0.01, times, 4, 3)
	c := grid(0.1, times, 4, -2)
	res, err := sweep.NewResult(a, b, c)
	if err != nil {
		t.Fatal(err)
	}

	r, err := NewComparison(res, Options{})
	if err != nil {
		t.Fatalf("NewComparison: %v", err)
	}

	if r.FrameCount() != 3 {
		t.Fatalf("FrameCount() = %d, want 3", r.FrameCount())
	}

	l := r.Layout()
	wantLegend := []string{"alpha = 0.001", "alpha = 0.010", "alpha = 0.100"}
	for i, w := range wantLegend {
		if l.Legend[i] != w {
			t.Errorf("legend[%d] = %q, want %q", i, l.Legend[i], w)
		}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, run := range []*heat.Result{a, b, c} {
		rlo, rhi := run.ValueRange()
		lo, hi = math.Min(lo, rlo), math.Max(hi, rhi)
	}
	if want := PadBounds(lo, hi); r.Bounds() != want {
		t.Errorf("bounds = %+v, want %+v", r.Bounds(), want)
	}

	f, err := r.Frame(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Curves) != 3 {
		t.Fatalf("expected 3 curves, got %d", len(f.Curves))
	}
	if f.TimeLabel != "Time: 0.100" {
		t.Errorf("time label = %q", f.TimeLabel)
	}
	for k, curve := range f.Curves {
		if curve.Label != wantLegend[k] {
			t.Errorf("curve %d label = %q", k, curve.Label)
		}
	}
}

func TestComparisonRejectsMismatchedGrids(t *testing.T) {
	a := grid(0.001, []float64{0, 0.1, 0.2}, 2, 1)
	b := grid(0.01, []float64{0, 0.1}, 2, 1)
	res, _ := sweep.NewResult(a, b)

	_, err := NewComparison(res, Options{})
	if !errors.Is(err, heat.ErrComparison) {
		t.Errorf("expected comparison error, got %v", err)
	}
}

func TestComparisonSkipFramePolicy(t *testing.T) {
	a := grid(0.001, []float64{0, 0.1, 0.2, 0.3}, 2, 1)
	b := grid(0.01, []float64{0.1, 0.3}, 2, 1)
	res, _ := sweep.NewResult(a, b)

	r, err := NewComparison(res, Options{AllowMismatchedGrids: true})
	if err != nil {
		t.Fatal(err)
	}

	// b has no t=0: it shows its first timestep. It has no t=0.2: it keeps
	// the t=0.1 curve.
	wantPick := []float64{0.1, 0.1, 0.1, 0.3}
	for i, pick := range wantPick {
		f, err := r.Frame(i)
		if err != nil {
			t.Fatal(err)
		}
		curve := f.Curves[1]
		if len(curve.Y) == 0 {
			t.Fatalf("frame %d left empty", i)
		}
		want := pick + curve.X[0]
		if math.Abs(curve.Y[0]-want) > 1e-12 {
			t.Errorf("frame %d: b value %v, want %v (t=%v)", i, curve.Y[0], want, pick)
		}
	}
}

func TestComparisonEmpty(t *testing.T) {
	res, _ := sweep.NewResult()
	if _, err := NewComparison(res, Options{}); err == nil {
		t.Error("expected error for empty sweep")
	}
}
