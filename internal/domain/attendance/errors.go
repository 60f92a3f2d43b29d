package attendance

import (
	"errors"
	"fmt"
)

// Validation errors. These are detected before any write and reject the whole request.
var (
	ErrInvalidDate      = errors.New("attendance may only be marked for the current day")
	ErrInvalidPeriod    = errors.New("period is outside the teaching day")
	ErrEmptyRoster      = errors.New("no students provided")
	ErrInvalidStatus    = errors.New("status must be one of: Present, Absent, OnDuty")
	ErrDuplicateStudent = errors.New("student appears more than once in the batch")
	ErrUnknownStudent   = errors.New("student is not on the roster of this class")
	ErrSlotLocked       = errors.New("attendance for this period has already been submitted")
	ErrInvalidQuery     = errors.New("invalid query")
)

// StorageError wraps any failure reaching the attendance store.
// Writes that completed before the failure are not rolled back.
type StorageError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *StorageError) Error() string {
	return fmt.Sprintf("attendance storage %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying store error.
func (e *StorageError) Unwrap() error { return e.Err }

// WrapStorage returns nil for a nil err, else a *StorageError tagged with op.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrEmptyRoster) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrDuplicateStudent) ||
		errors.Is(err, ErrUnknownStudent) ||
		errors.Is(err, ErrInvalidQuery)
}
