package solver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/san-kum/heatanim/internal/heat"
)

// Invocation is everything the external solver needs for one run.
type Invocation struct {
	Executable   string
	Params       heat.Params
	OutputPrefix string
	// LogPath receives the solver's combined stdout and stderr. Optional.
	LogPath string
}

// Args renders the solver command line: flags first, cell count last.
func (inv Invocation) Args() []string {
	return []string{
		"--alpha", formatFloat(inv.Params.Alpha),
		"--dt", formatFloat(inv.Params.Dt),
		"--time", formatFloat(inv.Params.Duration),
		"--output", inv.OutputPrefix,
		strconv.Itoa(inv.Params.Cells),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WaitDelay bounds how long a cancelled solver may keep its output open.
const WaitDelay = 2 * time.Second

// Runner executes the solver once and blocks until it terminates.
type Runner interface {
	Run(ctx context.Context, inv Invocation) error
}

// ProcessRunner spawns the solver as a child process.
type ProcessRunner struct {
	// Echo, when set, also receives the solver's output.
	Echo io.Writer
}

func (r ProcessRunner) Run(ctx context.Context, inv Invocation) error {
	path, err := exec.LookPath(inv.Executable)
	if err != nil {
		return &heat.ProcessError{Path: inv.Executable, Wrapped: err}
	}

	cmd := exec.CommandContext(ctx, path, inv.Args()...)
	// Children that inherited the output pipes must not hold Wait open after
	// a cancel.
	cmd.WaitDelay = WaitDelay

	var sinks []io.Writer
	if inv.LogPath != "" {
		logFile, err := os.Create(inv.LogPath)
		if err != nil {
			return &heat.ProcessError{Path: path, Wrapped: err}
		}
		defer logFile.Close()
		sinks = append(sinks, logFile)
	}
	if r.Echo != nil {
		sinks = append(sinks, r.Echo)
	}
	if len(sinks) > 0 {
		out := io.MultiWriter(sinks...)
		cmd.Stdout = out
		cmd.Stderr = out
	}

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &heat.ProcessError{Path: path, Wrapped: fmt.Errorf("interrupted: %w", ctxErr)}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &heat.ProcessError{Path: path, ExitCode: exitErr.ExitCode(), Wrapped: err}
		}
		return &heat.ProcessError{Path: path, Wrapped: err}
	}
	return nil
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, inv Invocation) error

func (f RunnerFunc) Run(ctx context.Context, inv Invocation) error {
	return f(ctx, inv)
}
