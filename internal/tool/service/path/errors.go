package path

import (
	"errors"
	"fmt"
)

// -- Error Types --

// WorkDirError is returned when the working directory is invalid.
type WorkDirError struct {
	Root  string
	Cause error
}

func (e *WorkDirError) Error() string {
	return fmt.Sprintf("invalid working directory %s: %v", e.Root, e.Cause)
}
func (e *WorkDirError) Unwrap() error { return e.Cause }

// -- Sentinels --

var (
	ErrEmptyPath     = errors.New("path is empty")
	ErrWorkDirNotSet = errors.New("working directory not set")
	ErrHomeNotSet    = errors.New("home directory not set")
	ErrNotADirectory = errors.New("not a directory")
)
