package script

import (
	"errors"
	"fmt"
)

// Errors for script state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("script state is closed")

	// ErrHandlerTimeout is returned when a call exceeds its deadline.
	ErrHandlerTimeout = errors.New("script execution timed out")

	// ErrReentrantCall is returned when Go code called from a script tries
	// to run the same state again.
	ErrReentrantCall = errors.New("script state is already running")
)

// CompileError describes a failure to load or evaluate a tool script.
type CompileError struct {
	Message string
	Line    int    // 1-based, 0 when unknown
	Text    string // offending source line
}

func (e *CompileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// RuntimeError describes an error raised while a callback was running.
type RuntimeError struct {
	Message string
	Line    int
	Err     error
}

func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}
