package solver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/san-kum/heatanim/internal/heat"
	"github.com/san-kum/heatanim/internal/storage"
)

var fixedNow = time.Date(2026, 10, 15, 9, 30, 12, 0, time.UTC)

func defaultParams() heat.Params {
	return heat.Params{Alpha: 0.01, Dt: 0.002, Duration: 1.0, Cells: 100, Length: 1.0}
}

// gridRunner writes an aggregate file with cells interior positions and
// steps+1 timesteps.
func gridRunner(steps, cells int) RunnerFunc {
	return func(ctx context.Context, inv Invocation) error {
		dx := 1.0 / float64(cells+1)
		var recs []heat.Record
		for s := steps; s >= 0; s-- {
			for i := 1; i <= cells; i++ {
				recs = append(recs, heat.Record{T: float64(s) * inv.Params.Dt, X: float64(i) * dx, Value: float64(s + i)})
			}
		}
		f, err := os.Create(inv.OutputPrefix + storage.AggregateSuffix)
		if err != nil {
			return err
		}
		defer f.Close()
		return storage.WriteAggregate(f, recs)
	}
}

func newTestInvoker(t *testing.T, runner Runner, ids ...string) (*Invoker, string) {
	t.Helper()
	base := filepath.Join(t.TempDir(), "results")
	return &Invoker{
		Store:  storage.New(base),
		Runner: runner,
		IDs:    NewFixedGenerator(ids...),
		Now:    func() time.Time { return fixedNow },
	}, base
}

func TestInvokerRun(t *testing.T) {
	g := NewWithT(t)
	inv, base := newTestInvoker(t, gridRunner(10, 4), "run-1")

	p := heat.Params{Alpha: 0.01, Dt: 0.1, Duration: 1.0, Cells: 4}
	result, err := inv.Run(context.Background(), p)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(result.ID()).To(Equal("run-1"))
	g.Expect(result.Dir()).To(Equal(filepath.Join(base, "202610150930", "run-1")))
	g.Expect(result.Timesteps()).To(HaveLen(11))
	g.Expect(result.Positions()).To(HaveLen(4))
	g.Expect(result.Params().Length).To(Equal(heat.DefaultLength))

	ts := result.Timesteps()
	for i := 1; i < len(ts); i++ {
		g.Expect(ts[i]).To(BeNumerically(">", ts[i-1]))
	}

	meta, err := inv.Store.Load("run-1")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(meta.Stamp).To(Equal("202610150930"))
	g.Expect(meta.Timesteps).To(Equal(11))
	g.Expect(meta.Output).To(Equal("temperature_all_timesteps.csv"))
}

func TestInvokerPassesInvocation(t *testing.T) {
	g := NewWithT(t)
	var got Invocation
	runner := RunnerFunc(func(ctx context.Context, inv Invocation) error {
		got = inv
		return gridRunner(1, 3)(ctx, inv)
	})
	inv, _ := newTestInvoker(t, runner, "run-1")
	inv.Executable = "/opt/heat1d_solver"

	_, err := inv.Run(context.Background(), heat.Params{Alpha: 0.5, Dt: 0.25, Duration: 0.25, Cells: 3})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(got.Executable).To(Equal("/opt/heat1d_solver"))
	g.Expect(filepath.Base(got.OutputPrefix)).To(Equal("temperature"))
	g.Expect(got.LogPath).To(HaveSuffix(LogFile))
	g.Expect(got.Args()).To(Equal([]string{
		"--alpha", "0.5", "--dt", "0.25", "--time", "0.25",
		"--output", got.OutputPrefix, "3",
	}))
}

func TestInvokerSameMinuteRunsDoNotCollide(t *testing.T) {
	g := NewWithT(t)
	inv, _ := newTestInvoker(t, gridRunner(2, 2), "run-a", "run-b")
	p := heat.Params{Alpha: 0.01, Dt: 0.5, Duration: 1.0, Cells: 2}

	first, err := inv.Run(context.Background(), p)
	g.Expect(err).NotTo(HaveOccurred())
	second, err := inv.Run(context.Background(), p)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(first.Dir()).NotTo(Equal(second.Dir()))
	g.Expect(filepath.Dir(first.Dir())).To(Equal(filepath.Dir(second.Dir())))
}

func TestInvokerMissingExecutable(t *testing.T) {
	g := NewWithT(t)
	inv, base := newTestInvoker(t, ProcessRunner{}, "run-1")
	inv.Executable = filepath.Join(t.TempDir(), "does-not-exist")

	result, err := inv.Run(context.Background(), defaultParams())
	g.Expect(result).To(BeNil())
	g.Expect(errors.Is(err, heat.ErrProcess)).To(BeTrue())

	var pe *heat.ProcessError
	g.Expect(errors.As(err, &pe)).To(BeTrue())
	g.Expect(pe.ExitCode).To(Equal(0))

	entries, err := os.ReadDir(filepath.Join(base, "202610150930", "run-1"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(entries).To(BeEmpty())
}

func TestInvokerMissingOutput(t *testing.T) {
	g := NewWithT(t)
	noop := RunnerFunc(func(ctx context.Context, inv Invocation) error { return nil })
	inv, _ := newTestInvoker(t, noop, "run-1")

	_, err := inv.Run(context.Background(), defaultParams())
	g.Expect(errors.Is(err, heat.ErrData)).To(BeTrue())
	g.Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
}

func TestInvokerPositionCount(t *testing.T) {
	tests := []struct {
		name    string
		written int
		wantErr bool
	}{
		{"interior only", 5, false},
		{"with boundaries", 7, false},
		{"short", 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			inv, _ := newTestInvoker(t, gridRunner(2, tt.written), "run-1")
			_, err := inv.Run(context.Background(), heat.Params{Alpha: 0.1, Dt: 0.5, Duration: 1.0, Cells: 5})
			if tt.wantErr {
				g.Expect(errors.Is(err, heat.ErrData)).To(BeTrue())
			} else {
				g.Expect(err).NotTo(HaveOccurred())
			}
		})
	}
}

func TestInvokerInvalidParams(t *testing.T) {
	g := NewWithT(t)
	called := false
	runner := RunnerFunc(func(ctx context.Context, inv Invocation) error {
		called = true
		return nil
	})
	inv, base := newTestInvoker(t, runner, "run-1")

	_, err := inv.Run(context.Background(), heat.Params{Alpha: 0.01, Dt: 0, Duration: 1, Cells: 10})
	g.Expect(err).To(HaveOccurred())
	g.Expect(called).To(BeFalse())
	_, statErr := os.Stat(base)
	g.Expect(os.IsNotExist(statErr)).To(BeTrue())
}

func TestInvokerUnwritableResults(t *testing.T) {
	g := NewWithT(t)
	called := false
	runner := RunnerFunc(func(ctx context.Context, inv Invocation) error {
		called = true
		return nil
	})
	inv, base := newTestInvoker(t, runner, "run-1")
	g.Expect(os.WriteFile(base, []byte("not a directory"), 0644)).To(Succeed())

	_, err := inv.Run(context.Background(), defaultParams())
	g.Expect(err).To(MatchError(ContainSubstring("create results directory")))
	g.Expect(called).To(BeFalse())
}

func fakeSolver(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake solver is a POSIX shell script")
	}
	path, err := filepath.Abs(filepath.Join("testdata", "fake_solver.sh"))
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInvokerExternalProcess(t *testing.T) {
	g := NewWithT(t)
	inv, _ := newTestInvoker(t, ProcessRunner{}, "run-1")
	inv.Executable = fakeSolver(t)

	result, err := inv.Run(context.Background(), defaultParams())
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(result.Timesteps()).To(HaveLen(501))
	g.Expect(result.Positions()).To(HaveLen(100))
	g.Expect(result.Timesteps()[0]).To(Equal(0.0))

	first, ok := result.At(0)
	g.Expect(ok).To(BeTrue())
	g.Expect(first).To(HaveLen(100))

	lo, hi := result.ValueRange()
	g.Expect(lo).To(Equal(0.0))
	g.Expect(hi).To(Equal(100.0))

	logData, err := os.ReadFile(filepath.Join(result.Dir(), LogFile))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(logData)).To(ContainSubstring("fake 1D heat solver"))
}

func TestInvokerNonZeroExit(t *testing.T) {
	g := NewWithT(t)
	inv, _ := newTestInvoker(t, ProcessRunner{}, "run-1")
	inv.Executable = fakeSolver(t)
	t.Setenv("FAKE_SOLVER_EXIT", "3")

	result, err := inv.Run(context.Background(), defaultParams())
	g.Expect(result).To(BeNil())

	var pe *heat.ProcessError
	g.Expect(errors.As(err, &pe)).To(BeTrue())
	g.Expect(pe.ExitCode).To(Equal(3))
}

func TestInvokerCancelled(t *testing.T) {
	g := NewWithT(t)
	inv, _ := newTestInvoker(t, ProcessRunner{}, "run-1")
	inv.Executable = fakeSolver(t)
	t.Setenv("FAKE_SOLVER_SLEEP", "30")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	result, err := inv.Run(ctx, defaultParams())
	g.Expect(result).To(BeNil())
	g.Expect(time.Since(start)).To(BeNumerically("<", 10*time.Second))

	var pe *heat.ProcessError
	g.Expect(errors.As(err, &pe)).To(BeTrue())
	g.Expect(pe.ExitCode).To(Equal(0))
	g.Expect(errors.Is(err, context.DeadlineExceeded)).To(BeTrue())
	g.Expect(err.Error()).To(ContainSubstring("interrupted"))
	g.Expect(err.Error()).NotTo(ContainSubstring("status -1"))
}

func TestShortID(t *testing.T) {
	g := NewWithT(t)
	g.Expect(ShortID("abc")).To(Equal("abc"))
	g.Expect(ShortID("0192f3a4-1b2c-7d3e-8f40-123456789abc")).To(Equal("123456789abc"))
}
