package domain

import (
	"errors"
	"fmt"
)

// Domain error types. Invariant-guard rejections in batch moves are NOT
// errors - they are logged skips, so a multi-item operation degrades
// gracefully instead of aborting.
type (
	// NotFoundError indicates a record was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input (empty name, malformed request)
	ValidationError struct {
		Message string
	}

	// PathResolutionError indicates an edit path that does not resolve
	// through the document's actual structure - typically a stale path
	// captured against an outdated document.
	PathResolutionError struct {
		Path string
		Step int
	}

	// StorageError wraps an underlying table read/write failure. The core
	// never retries these; they surface to the caller of the attempted
	// operation.
	StorageError struct {
		Op  string
		Err error
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }

func (e *PathResolutionError) Error() string {
	return fmt.Sprintf("path %s does not resolve at step %d", e.Path, e.Step)
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrBadPath    = errors.New("path does not resolve")
	ErrClosed     = errors.New("view is closed")
)

// Is allows errors.Is() matching against the sentinels
func (e *NotFoundError) Is(target error) bool       { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool     { return target == ErrValidation }
func (e *PathResolutionError) Is(target error) bool { return target == ErrBadPath }
