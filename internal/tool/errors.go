package tool

import (
	"errors"
	"fmt"
)

// Errors returned by tool definitions.
var (
	// ErrNoMetadata is returned when a script has no leading metadata block.
	ErrNoMetadata = errors.New("tool: no metadata block")

	// ErrInvalidParameter is returned when a parameter spec or value is invalid.
	ErrInvalidParameter = errors.New("tool: invalid parameter")

	// ErrUnknownPreset is returned for a preset id that does not exist.
	ErrUnknownPreset = errors.New("tool: unknown preset")
)

// HandlerRuntimeError wraps an error returned by a lifecycle callback.
type HandlerRuntimeError struct {
	Lifecycle Lifecycle
	Err       error
}

func (e *HandlerRuntimeError) Error() string {
	return fmt.Sprintf("tool: %s handler: %v", e.Lifecycle, e.Err)
}

// Unwrap returns the callback's error.
func (e *HandlerRuntimeError) Unwrap() error {
	return e.Err
}
