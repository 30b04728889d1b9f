package heat

import (
	"errors"
	"fmt"
)

// Domain errors for the run and render pipeline.
var (
	// ErrProcess indicates the solver could not be started or exited non-zero.
	ErrProcess = errors.New("heat: solver process failed")

	// ErrData indicates the solver output is missing or unreadable.
	ErrData = errors.New("heat: solver output invalid")

	// ErrComparison indicates sweep members do not share a timestep grid.
	ErrComparison = errors.New("heat: mismatched timestep grids")

	// ErrEncoding indicates the animation artifact could not be written.
	ErrEncoding = errors.New("heat: animation encoding failed")
)

// ProcessError wraps a solver start or exit failure.
type ProcessError struct {
	Path     string
	ExitCode int
	Wrapped  error
}

func (e *ProcessError) Error() string {
	if e.ExitCode != 0 {
		return fmt.Sprintf("solver %s exited with status %d: %v", e.Path, e.ExitCode, e.Wrapped)
	}
	return fmt.Sprintf("solver %s: %v", e.Path, e.Wrapped)
}

func (e *ProcessError) Unwrap() []error { return []error{ErrProcess, e.Wrapped} }

// DataError wraps a missing or malformed output file.
type DataError struct {
	Path    string
	Wrapped error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("solver output %s: %v", e.Path, e.Wrapped)
}

func (e *DataError) Unwrap() []error { return []error{ErrData, e.Wrapped} }

// ComparisonError names the first series whose grid differs from the reference.
type ComparisonError struct {
	Reference float64
	Alpha     float64
	Want      int
	Got       int
	Index     int
}

func (e *ComparisonError) Error() string {
	if e.Want != e.Got {
		return fmt.Sprintf("alpha %g has %d timesteps, reference alpha %g has %d", e.Alpha, e.Got, e.Reference, e.Want)
	}
	return fmt.Sprintf("alpha %g differs from reference alpha %g at timestep %d", e.Alpha, e.Reference, e.Index)
}

func (e *ComparisonError) Unwrap() error { return ErrComparison }

// EncodingError wraps a failed artifact write.
type EncodingError struct {
	Path    string
	Wrapped error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Path, e.Wrapped)
}

func (e *EncodingError) Unwrap() []error { return []error{ErrEncoding, e.Wrapped} }
