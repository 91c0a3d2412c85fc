package http

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can decide how to record it, and so a
// future retry policy can tell transient failures from permanent ones.
type Kind int

const (
	// KindTransient covers network failures and non-404 HTTP errors.
	KindTransient Kind = iota

	// KindNotFound means the server answered 404 for the resource.
	KindNotFound

	// KindLocalIO means the remote read worked but writing locally failed.
	KindLocalIO
)

// String returns the kind as written to error files.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindLocalIO:
		return "local I/O error"
	default:
		return "network error"
	}
}

// Sentinel errors matched by errors.Is against an *Error of the same kind.
var (
	ErrNotFound  = errors.New("not found")
	ErrTransient = errors.New("network error")
	ErrLocalIO   = errors.New("local I/O error")
)

// Error is returned by every Client method.
//
// Example:
//
//	_, err := client.Get(ctx, url)
//	if errors.Is(err, http.ErrNotFound) {
//	    // record and move on
//	}
type Error struct {
	Kind Kind

	// Op is the operation that failed, e.g. "GET" or "download".
	Op string

	URL string

	// Status is the HTTP status code, or 0 if no response was received.
	Status int

	Err error
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", e.Kind, e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	switch target { //nolint:errorlint
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrTransient:
		return e.Kind == KindTransient
	case ErrLocalIO:
		return e.Kind == KindLocalIO
	}

	return false
}

// KindOf returns the Kind of err. Errors that did not come from this package
// are treated as transient.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindTransient
}

func newError(kind Kind, op, url string, status int, err error) *Error {
	return &Error{Kind: kind, Op: op, URL: url, Status: status, Err: err}
}
