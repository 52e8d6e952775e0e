// Package errs holds the sentinel errors shared by repositories and services,
// and the typed error services return to the HTTP layer.
package errs

import (
	"errors"
	"net/http"
)

// Sentinels returned by repositories.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint or duplicate check failed.
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnauthorized indicates failed authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller's plan or role does not allow the action.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalid indicates malformed input.
	ErrInvalid = errors.New("invalid input")
)

// Kind classifies an Error for status mapping
type Kind int

const (
	KindInternal Kind = iota
	KindInvalid
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUnprocessable
)

var kindSentinel = map[Kind]error{
	KindInvalid:      ErrInvalid,
	KindUnauthorized: ErrUnauthorized,
	KindForbidden:    ErrForbidden,
	KindNotFound:     ErrNotFound,
	KindConflict:     ErrAlreadyExists,
}

// Error is a user-facing failure with a stable code
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is match an Error against the sentinel for its kind.
func (e *Error) Is(target error) bool {
	s, ok := kindSentinel[e.Kind]
	return ok && s == target
}

// New creates an Error
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap creates an Error with an underlying cause
func Wrap(kind Kind, code, message string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Cause: cause}
}

// NotFound is shorthand for a NOT_FOUND error
func NotFound(message string) *Error {
	return New(KindNotFound, "NOT_FOUND", message)
}

// Invalid is shorthand for an INVALID_REQUEST error
func Invalid(message string) *Error {
	return New(KindInvalid, "INVALID_REQUEST", message)
}

// As extracts an *Error from err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	if e, ok := As(err); ok {
		switch e.Kind {
		case KindInvalid:
			return http.StatusBadRequest
		case KindUnauthorized:
			return http.StatusUnauthorized
		case KindForbidden:
			return http.StatusForbidden
		case KindNotFound:
			return http.StatusNotFound
		case KindConflict:
			return http.StatusConflict
		case KindUnprocessable:
			return http.StatusUnprocessableEntity
		}
		return http.StatusInternalServerError
	}

	switch {
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Code returns the machine-readable code for err
func Code(err error) string {
	if e, ok := As(err); ok && e.Code != "" {
		return e.Code
	}
	switch {
	case errors.Is(err, ErrInvalid):
		return "INVALID_REQUEST"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrAlreadyExists):
		return "ALREADY_EXISTS"
	}
	return "INTERNAL"
}

// PublicMessage returns the message safe to show users. Internal failures are masked.
func PublicMessage(err error) string {
	if e, ok := As(err); ok && e.Kind != KindInternal {
		return e.Message
	}
	if HTTPStatus(err) != http.StatusInternalServerError {
		return err.Error()
	}
	return "internal server error"
}
