package core

import (
	"errors"
	"fmt"
)

var (
	// ErrSetup wraps failures to acquire the terminal before the first frame.
	ErrSetup = errors.New("terminal setup failed")
	// ErrNoTTY means interactive mode was requested without a terminal.
	ErrNoTTY = errors.New("no terminal available")
	// ErrRender wraps output failures after setup.
	ErrRender = errors.New("render failed")
	// ErrKilled is returned by Run after Kill or context cancellation.
	ErrKilled = errors.New("program killed")
	// ErrProgramDone is returned when Run is called a second time.
	ErrProgramDone = errors.New("program already ran")
	// ErrPanic wraps panics recovered from commands and subscriptions.
	ErrPanic = errors.New("panic")
)

// ExitError carries an explicit process exit status.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps the error returned by Run to a process exit status:
// 0 for success or cancellation, the code of an ExitError, 2 for setup
// failures and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *ExitError
	switch {
	case errors.As(err, &exit):
		return exit.Code
	case errors.Is(err, ErrSetup):
		return 2
	default:
		return 1
	}
}
