package main

import (
	"errors"
	"fmt"

	"github.com/san-kum/heatanim/internal/heat"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitFailure    = 1
	ExitSolver     = 2
	ExitComparison = 3
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	var exitErr *ExitError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, heat.ErrComparison):
		return ExitComparison
	case errors.Is(err, heat.ErrProcess), errors.Is(err, heat.ErrData):
		return ExitSolver
	default:
		return ExitFailure
	}
}
