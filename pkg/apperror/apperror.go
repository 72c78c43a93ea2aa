// Package apperror defines the error taxonomy shared by usecases and the HTTP
// delivery layer.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindAuthorization  Kind = "authorization"
	KindNotFound       Kind = "not_found"
	KindConflict       Kind = "conflict"
	KindAggregate      Kind = "aggregate"
	KindInternal       Kind = "internal"
)

// Error carries a Kind, a message that is safe to show to clients and an
// optional wrapped cause that is only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so sentinel values such as
// ErrForbidden work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

var (
	// ErrForbidden is returned when a caller touches a record owned by someone else.
	ErrForbidden = &Error{Kind: KindAuthorization, Message: "you do not have permission to modify this record"}
	// ErrNotFound is returned when a record does not exist in the caller's scope.
	ErrNotFound = &Error{Kind: KindNotFound, Message: "record not found"}
	// ErrInvalidCredentials is deliberately vague about which field was wrong.
	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Message: "invalid username or password"}
)

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Aggregate wraps a failure while computing derived statistics.
func Aggregate(err error) *Error {
	return &Error{Kind: KindAggregate, Message: "failed to compute statistics", Err: err}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
