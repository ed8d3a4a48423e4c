package store

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("store: key not found")
	ErrQuotaExceeded = errors.New("store: quota exceeded")
	ErrSerialization = errors.New("store: serialization failed")
	ErrWrite         = errors.New("store: write failed")
)

type Reason string

const (
	ReasonQuotaExceeded Reason = "quota_exceeded"
	ReasonSerialization Reason = "serialization_error"
	ReasonWrite         Reason = "write_error"
)

// SaveError is the failure outcome of Store.Save. In-memory state that
// triggered the save is still valid; only the durable copy is behind.
type SaveError struct {
	Key    string
	Reason Reason
	Err    error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("store: save %q: %s: %v", e.Key, e.Reason, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

func newSaveError(key string, reason Reason, cause error) *SaveError {
	sentinel := ErrWrite
	switch reason {
	case ReasonQuotaExceeded:
		sentinel = ErrQuotaExceeded
	case ReasonSerialization:
		sentinel = ErrSerialization
	}
	if cause == nil || errors.Is(cause, sentinel) {
		return &SaveError{Key: key, Reason: reason, Err: sentinelOr(cause, sentinel)}
	}
	return &SaveError{Key: key, Reason: reason, Err: fmt.Errorf("%w: %w", sentinel, cause)}
}

func sentinelOr(err, sentinel error) error {
	if err != nil {
		return err
	}
	return sentinel
}

// IsSaveError reports whether err carries at least one SaveError
func IsSaveError(err error) bool {
	var se *SaveError
	return errors.As(err, &se)
}
