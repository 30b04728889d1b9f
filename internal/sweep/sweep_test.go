package sweep_test

import (
	"context"
	"errors"
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/heatanim/internal/heat"
	"github.com/san-kum/heatanim/internal/sweep"
)

// fakeInvoker fabricates a run per call; steps overrides the timestep count
// for specific alphas.
type fakeInvoker struct {
	calls  []heat.Params
	failAt map[float64]error
	steps  map[float64]int
}

func (f *fakeInvoker) Run(ctx context.Context, p heat.Params) (*heat.Result, error) {
	f.calls = append(f.calls, p)
	if err, ok := f.failAt[p.Alpha]; ok {
		return nil, err
	}
	n := p.ExpectedTimesteps()
	if s, ok := f.steps[p.Alpha]; ok {
		n = s
	}
	var recs []heat.Record
	for s := 0; s < n; s++ {
		for i := 1; i <= p.Cells; i++ {
			recs = append(recs, heat.Record{T: float64(s) * p.Dt, X: float64(i) * p.DX(), Value: p.Alpha * float64(s)})
		}
	}
	return heat.NewResult("fake", p, "", recs), nil
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

var _ = Describe("Orchestrator", func() {
	var (
		inv  *fakeInvoker
		orch *sweep.Orchestrator
		base heat.Params
	)

	BeforeEach(func() {
		inv = &fakeInvoker{failAt: map[float64]error{}, steps: map[float64]int{}}
		orch = sweep.New(inv, quiet)
		base = heat.Params{Alpha: 99, Dt: 0.002, Duration: 1.0, Cells: 10, Length: 1.0}
	})

	It("runs every alpha in input order with shared parameters", func() {
		alphas := []float64{0.001, 0.01, 0.1}
		res, err := orch.Run(context.Background(), alphas, base)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Len()).To(Equal(3))
		Expect(res.Alphas()).To(Equal(alphas))
		Expect(inv.calls).To(HaveLen(3))
		for i, call := range inv.calls {
			Expect(call.Alpha).To(Equal(alphas[i]))
			Expect(call.Dt).To(Equal(base.Dt))
			Expect(call.Duration).To(Equal(base.Duration))
			Expect(call.Cells).To(Equal(base.Cells))
		}

		for _, alpha := range alphas {
			run, ok := res.Get(alpha)
			Expect(ok).To(BeTrue())
			Expect(run.Params().Alpha).To(Equal(alpha))
			Expect(run.Timesteps()).To(HaveLen(501))
		}

		refAlpha, ref := res.Reference()
		Expect(refAlpha).To(Equal(0.001))
		Expect(ref.Params().Alpha).To(Equal(0.001))
	})

	It("stops at the first failure and discards partial results", func() {
		boom := &heat.ProcessError{Path: "solver", ExitCode: 1, Wrapped: errors.New("exit status 1")}
		inv.failAt[0.01] = boom

		res, err := orch.Run(context.Background(), []float64{0.001, 0.01, 0.1}, base)
		Expect(res).To(BeNil())
		Expect(errors.Is(err, heat.ErrProcess)).To(BeTrue())
		Expect(inv.calls).To(HaveLen(2))
	})

	It("propagates data errors unchanged in kind", func() {
		inv.failAt[0.001] = &heat.DataError{Path: "x.csv", Wrapped: errors.New("missing")}

		_, err := orch.Run(context.Background(), []float64{0.001}, base)
		var de *heat.DataError
		Expect(errors.As(err, &de)).To(BeTrue())
		Expect(de.Path).To(Equal("x.csv"))
	})

	It("rejects empty and duplicate alpha lists before running", func() {
		_, err := orch.Run(context.Background(), nil, base)
		Expect(err).To(HaveOccurred())

		_, err = orch.Run(context.Background(), []float64{0.1, 0.2, 0.1}, base)
		Expect(err).To(MatchError(ContainSubstring("duplicate alpha")))
		Expect(inv.calls).To(BeEmpty())
	})

	It("does not validate grids itself", func() {
		inv.steps[0.1] = 100

		res, err := orch.Run(context.Background(), []float64{0.001, 0.1}, base)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Len()).To(Equal(2))
	})
})

var _ = Describe("Result.ValidateGrid", func() {
	build := func(steps ...int) *sweep.Result {
		inv := &fakeInvoker{steps: map[float64]int{}}
		var runs []*heat.Result
		for i, n := range steps {
			alpha := float64(i+1) / 100
			inv.steps[alpha] = n
			run, _ := inv.Run(context.Background(), heat.Params{Alpha: alpha, Dt: 0.1, Duration: 1, Cells: 2})
			runs = append(runs, run)
		}
		res, err := sweep.NewResult(runs...)
		Expect(err).NotTo(HaveOccurred())
		return res
	}

	It("accepts identical grids", func() {
		Expect(build(5, 5, 5).ValidateGrid()).To(Succeed())
	})

	It("accepts an empty sweep", func() {
		res, err := sweep.NewResult()
		Expect(err).NotTo(HaveOccurred())
		Expect(res.ValidateGrid()).To(Succeed())
	})

	It("reports the first mismatching member", func() {
		err := build(5, 5, 4).ValidateGrid()
		Expect(errors.Is(err, heat.ErrComparison)).To(BeTrue())

		var cerr *heat.ComparisonError
		Expect(errors.As(err, &cerr)).To(BeTrue())
		Expect(cerr.Reference).To(Equal(0.01))
		Expect(cerr.Alpha).To(Equal(0.03))
		Expect(cerr.Want).To(Equal(5))
		Expect(cerr.Got).To(Equal(4))
	})

	It("detects shifted timesteps of equal count", func() {
		ref := heat.NewResult("a", heat.Params{Alpha: 0.1}, "", []heat.Record{{T: 0}, {T: 0.1}, {T: 0.2}})
		other := heat.NewResult("b", heat.Params{Alpha: 0.2}, "", []heat.Record{{T: 0}, {T: 0.1}, {T: 0.25}})
		res, err := sweep.NewResult(ref, other)
		Expect(err).NotTo(HaveOccurred())

		var cerr *heat.ComparisonError
		Expect(errors.As(res.ValidateGrid(), &cerr)).To(BeTrue())
		Expect(cerr.Index).To(Equal(2))
	})

	It("refuses duplicate alphas", func() {
		a := heat.NewResult("a", heat.Params{Alpha: 0.1}, "", nil)
		_, err := sweep.NewResult(a, a)
		Expect(err).To(HaveOccurred())
	})
})
