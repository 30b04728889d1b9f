package solver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/heatanim/internal/heat"
	"github.com/san-kum/heatanim/internal/storage"
)

const (
	DefaultExecutable = "build/heat1d_solver"
	DefaultPrefix     = "temperature"
	LogFile           = "solver.log"
)

// Invoker runs the external solver for one parameter set and parses its
// aggregate output into a heat.Result.
type Invoker struct {
	Executable string
	Store      *storage.Store
	Runner     Runner
	IDs        IDGenerator
	Now        func() time.Time
	Logger     *slog.Logger
}

func NewInvoker(executable string, st *storage.Store, logger *slog.Logger) *Invoker {
	return &Invoker{
		Executable: executable,
		Store:      st,
		Runner:     ProcessRunner{},
		IDs:        UUIDv7Generator{},
		Now:        time.Now,
		Logger:     logger,
	}
}

func (inv *Invoker) defaults() {
	if inv.Executable == "" {
		inv.Executable = DefaultExecutable
	}
	if inv.Store == nil {
		inv.Store = storage.New("results")
	}
	if inv.Runner == nil {
		inv.Runner = ProcessRunner{}
	}
	if inv.IDs == nil {
		inv.IDs = UUIDv7Generator{}
	}
	if inv.Now == nil {
		inv.Now = time.Now
	}
	if inv.Logger == nil {
		inv.Logger = slog.Default()
	}
}

// Run blocks for the solver's full runtime. It fails with *heat.ProcessError
// when the solver is missing or exits non-zero and with *heat.DataError when
// its aggregate output is missing or malformed.
func (inv *Invoker) Run(ctx context.Context, p heat.Params) (*heat.Result, error) {
	inv.defaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Length <= 0 {
		p.Length = heat.DefaultLength
	}
	if err := inv.Store.Init(); err != nil {
		return nil, fmt.Errorf("create results directory: %w", err)
	}

	started := inv.Now()
	stamp := started.Format(storage.StampLayout)
	runID := inv.IDs.Generate()

	runDir, err := inv.Store.Allocate(stamp, runID)
	if err != nil {
		return nil, fmt.Errorf("allocate run directory: %w", err)
	}

	log := inv.Logger.With("run", ShortID(runID))
	log.Info("running solver",
		"alpha", p.Alpha,
		"dt", p.Dt,
		"total_time", p.Duration,
		"num_x", p.Cells,
		"cfl", p.CFL(),
		"dir", runDir,
	)

	prefix := filepath.Join(runDir, DefaultPrefix)
	err = inv.Runner.Run(ctx, Invocation{
		Executable:   inv.Executable,
		Params:       p,
		OutputPrefix: prefix,
		LogPath:      filepath.Join(runDir, LogFile),
	})
	if err != nil {
		return nil, err
	}

	output := prefix + storage.AggregateSuffix
	if _, err := os.Stat(output); err != nil {
		return nil, &heat.DataError{Path: output, Wrapped: err}
	}

	records, err := storage.ReadAggregate(output)
	if err != nil {
		return nil, &heat.DataError{Path: output, Wrapped: err}
	}

	result := heat.NewResult(runID, p, runDir, records)
	if err := checkGrid(result, p); err != nil {
		return nil, &heat.DataError{Path: output, Wrapped: err}
	}

	meta := storage.RunMetadata{
		ID:        runID,
		Stamp:     stamp,
		Timestamp: started,
		Params:    p,
		DX:        p.DX(),
		CFL:       p.CFL(),
		Solver:    inv.Executable,
		Output:    filepath.Base(output),
		Timesteps: len(result.Timesteps()),
		Positions: len(result.Positions()),
	}
	if err := inv.Store.Save(runDir, meta); err != nil {
		return nil, fmt.Errorf("save run metadata: %w", err)
	}

	log.Info("solver finished",
		"timesteps", meta.Timesteps,
		"positions", meta.Positions,
		"elapsed", inv.Now().Sub(started),
	)
	return result, nil
}

// checkGrid accepts N interior positions, or N+2 when the solver also
// reports both boundary nodes.
func checkGrid(r *heat.Result, p heat.Params) error {
	if r.Empty() {
		return fmt.Errorf("no records")
	}
	n := len(r.Positions())
	if n != p.Cells && n != p.Cells+2 {
		return fmt.Errorf("got %d positions, expected %d cells", n, p.Cells)
	}
	return nil
}
