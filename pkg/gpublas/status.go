package gpublas

import (
	"errors"

	"github.com/samcharles93/gpublas/internal/backend"
)

type (
	// Status is the outcome code of a backend call.
	Status = backend.Status
	// Kind groups statuses into failure classes.
	Kind = backend.Kind
	// Library is a loaded backend.
	Library = backend.Library
	// DevicePtr is an address in a backend's device memory.
	DevicePtr = backend.DevicePtr
)

const (
	StatusSuccess         = backend.StatusSuccess
	StatusNotInitialized  = backend.StatusNotInitialized
	StatusAllocFailed     = backend.StatusAllocFailed
	StatusInvalidValue    = backend.StatusInvalidValue
	StatusArchMismatch    = backend.StatusArchMismatch
	StatusMappingError    = backend.StatusMappingError
	StatusExecutionFailed = backend.StatusExecutionFailed
	StatusInternalError   = backend.StatusInternalError
	StatusNotSupported    = backend.StatusNotSupported
)

const (
	KindNone            = backend.KindNone
	KindInit            = backend.KindInit
	KindInvalidArgument = backend.KindInvalidArgument
	KindResource        = backend.KindResource
	KindExecution       = backend.KindExecution
)

// ErrDestroyed is wrapped by errors returned from a destroyed Context.
var ErrDestroyed = errors.New("context destroyed")

// StatusError reports a failed operation.
type StatusError struct {
	Op     string
	Status Status
	Err    error
}

func (e *StatusError) Error() string {
	msg := "gpublas: " + e.Op + ": " + e.Status.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StatusError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Status}
	}
	return []error{e.Status, e.Err}
}

// Kind reports the failure class. A failed session create is always an
// initialization failure, whatever status the backend returned.
func (e *StatusError) Kind() Kind {
	if e.Op == opCreate {
		return KindInit
	}
	return e.Status.Kind()
}

// StatusOf extracts the Status carried by err. It returns StatusSuccess for
// nil and StatusInternalError for errors that carry no status.
func StatusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	var st Status
	if errors.As(err, &st) {
		return st
	}
	return StatusInternalError
}

func invalid(op string, err error) *StatusError {
	return &StatusError{Op: op, Status: StatusInvalidValue, Err: err}
}
