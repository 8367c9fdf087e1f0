package app

import (
	"errors"
	"fmt"
)

// Studio errors.
var (
	// ErrQuit signals that the studio should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates Run was called twice.
	ErrAlreadyRunning = errors.New("studio already running")

	// ErrNoBackend indicates Run was called without a backend.
	ErrNoBackend = errors.New("no backend")

	// ErrNoFilePath indicates a save of a document that has no path.
	ErrNoFilePath = errors.New("document has no file path")

	// ErrBadRecording indicates a malformed line in a pointer recording.
	ErrBadRecording = errors.New("malformed recording")
)

// FileError is a failed file operation on a script or output file.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// InitError is a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
