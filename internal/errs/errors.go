// Package errs provides the error type shared by the storage backends and
// the HTTP layer.
//
// Backends wrap their native errors (os.PathError, minio.ErrorResponse, …)
// into *errs.Error. Handlers inspect the kind through the Is* predicates and
// never import backend packages to do so:
//
//	if errs.IsNotFound(err) {
//	    response.NotFound(w, "File not found")
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error independently of the backend that produced it.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindInitFailed               // storage directories or bucket could not be prepared
	ErrKindNotFound                 // no regular file / object for the key
	ErrKindIO                       // open, read, write or remove failed
	ErrKindInvalidInput             // malformed key or request body
	ErrKindConnectionFailed         // remote backend unreachable
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindPermissionDenied         // access denied by filesystem or backend
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindInitFailed:
		return "init_failed"
	case ErrKindNotFound:
		return "not_found"
	case ErrKindIO:
		return "io_error"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindPermissionDenied:
		return "permission_denied"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by storage operations.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// IsNotFound reports whether err means the key has no stored object.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsInitFailed reports whether err came from preparing the storage root.
func IsInitFailed(err error) bool {
	return KindOf(err) == ErrKindInitFailed
}

// IsIO reports whether err is a read/write/remove failure other than absence.
func IsIO(err error) bool {
	return KindOf(err) == ErrKindIO
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return KindOf(err) == ErrKindInvalidInput
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a connectivity failure.
func IsConnectionFailed(err error) bool {
	return KindOf(err) == ErrKindConnectionFailed
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return KindOf(err) == ErrKindPermissionDenied
}

// KindOf extracts the ErrKind from any error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
