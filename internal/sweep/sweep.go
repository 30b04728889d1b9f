package sweep

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/heatanim/internal/heat"
)

// Invoker is the single-run capability the orchestrator drives.
type Invoker interface {
	Run(ctx context.Context, p heat.Params) (*heat.Result, error)
}

// Result maps alpha to its run, remembering the order runs were made in.
type Result struct {
	alphas []float64
	runs   map[float64]*heat.Result
}

func newResult(capacity int) *Result {
	return &Result{
		alphas: make([]float64, 0, capacity),
		runs:   make(map[float64]*heat.Result, capacity),
	}
}

// NewResult builds a sweep result from already completed runs, keyed by
// each run's alpha, in the given order.
func NewResult(runs ...*heat.Result) (*Result, error) {
	r := newResult(len(runs))
	for _, run := range runs {
		if err := r.add(run.Params().Alpha, run); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Result) add(alpha float64, run *heat.Result) error {
	if _, ok := r.runs[alpha]; ok {
		return fmt.Errorf("duplicate alpha %g", alpha)
	}
	r.alphas = append(r.alphas, alpha)
	r.runs[alpha] = run
	return nil
}

func (r *Result) Len() int { return len(r.alphas) }

// Alphas returns the keys in execution order. The first is the reference.
func (r *Result) Alphas() []float64 {
	return append([]float64(nil), r.alphas...)
}

func (r *Result) Get(alpha float64) (*heat.Result, bool) {
	run, ok := r.runs[alpha]
	return run, ok
}

// Reference is the run whose timesteps drive comparison frames.
func (r *Result) Reference() (float64, *heat.Result) {
	if len(r.alphas) == 0 {
		return 0, nil
	}
	return r.alphas[0], r.runs[r.alphas[0]]
}

// ValidateGrid fails with *heat.ComparisonError when any run's timestep
// sequence differs from the reference run's.
func (r *Result) ValidateGrid() error {
	refAlpha, ref := r.Reference()
	if ref == nil {
		return nil
	}
	want := ref.Timesteps()
	for _, alpha := range r.alphas[1:] {
		run := r.runs[alpha]
		if ref.SameGrid(run) {
			continue
		}
		got := run.Timesteps()
		cerr := &heat.ComparisonError{Reference: refAlpha, Alpha: alpha, Want: len(want), Got: len(got)}
		if len(got) == len(want) {
			for i := range want {
				if want[i] != got[i] {
					cerr.Index = i
					break
				}
			}
		}
		return cerr
	}
	return nil
}

type Orchestrator struct {
	invoker Invoker
	logger  *slog.Logger
}

func New(invoker Invoker, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{invoker: invoker, logger: logger}
}

// Run invokes the solver once per alpha, strictly in order, holding dt,
// total time, cell count and length from base. The first failure aborts the
// sweep and nothing collected so far is returned.
func (o *Orchestrator) Run(ctx context.Context, alphas []float64, base heat.Params) (*Result, error) {
	if len(alphas) == 0 {
		return nil, fmt.Errorf("sweep needs at least one alpha")
	}

	seen := make(map[float64]struct{}, len(alphas))
	for _, alpha := range alphas {
		if _, dup := seen[alpha]; dup {
			return nil, fmt.Errorf("duplicate alpha %g in sweep", alpha)
		}
		seen[alpha] = struct{}{}
	}

	result := newResult(len(alphas))
	for i, alpha := range alphas {
		o.logger.Info("sweep member", "index", i+1, "of", len(alphas), "alpha", fmt.Sprintf("%.3f", alpha))

		p := base
		p.Alpha = alpha
		run, err := o.invoker.Run(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("sweep alpha %g: %w", alpha, err)
		}
		if err := result.add(alpha, run); err != nil {
			return nil, err
		}
	}
	return result, nil
}
