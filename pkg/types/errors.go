package types

import (
	"errors"
	"fmt"
)

// Operation errors.
var (
	ErrNotFound      = errors.New("movie not found")
	ErrAuthFailed    = errors.New("invalid username or password")
	ErrStorage       = errors.New("storage failure")
	ErrInvalidValue  = errors.New("invalid value")
	ErrSessionLocked = errors.New("another session holds the data directory")
)

// ValidationError reports user input that was rejected. Message is meant to
// be shown to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrInvalidValue) hold for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidValue
}

// StorageError reports an I/O or parse failure on a backing store.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStorage) hold for every StorageError.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// NewStorageError wraps err as a StorageError. A nil err returns nil and an
// err that already is a StorageError is returned unchanged.
func NewStorageError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Path: path, Err: err}
}
