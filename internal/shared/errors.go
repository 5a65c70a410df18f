package shared

import (
	"errors"
	"fmt"
)

// shared error classes across the application
// client-class: ErrInvalidInput, ErrNotFound
// server-class: ErrUpstream, ErrInvalidUpstreamShape, ErrStorage

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("not found")
	ErrUpstream             = errors.New("upstream error")
	ErrInvalidUpstreamShape = errors.New("invalid upstream shape")
	ErrStorage              = errors.New("storage error")
)

// UpstreamError reports a failed call to the remote catalog.
// StatusCode is zero when no HTTP response was received.
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("AniList API request failed: HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("AniList API request failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// StorageError reports a failed persistence operation. The operation
// is rolled back before this error is returned.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// IsClientError reports whether err is caused by the caller's input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotFound)
}
