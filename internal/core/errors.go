package core

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyHistory is returned by Undo and Repeat when no operation has
	// been applied.
	ErrEmptyHistory = errors.New("no operations to undo or repeat")

	// ErrEmptyRedo is returned by Redo when nothing has been undone since
	// the last user action.
	ErrEmptyRedo = errors.New("no operations to redo")

	// ErrNoImage is returned by operations that need a loaded image.
	ErrNoImage = errors.New("no image loaded")
)

// LoadError reports an image that could not be read. The session is left
// unchanged.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// IOError reports a failed write of an image, log or macro file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// LogCorruptError reports an operation log or macro file that could not
// be used. The session has already recovered when it is returned.
type LogCorruptError struct {
	Path string
	Err  error
}

func (e *LogCorruptError) Error() string {
	return fmt.Sprintf("unusable operation log %s: %v", e.Path, e.Err)
}

func (e *LogCorruptError) Unwrap() error { return e.Err }
