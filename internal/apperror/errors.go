package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindValidation Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindMethodNotAllowed
	KindInternal
)

// Sentinel errors for comparison with errors.Is.
var (
	ErrEmptyCart    = errors.New("your cart is empty")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("permission denied")
)

// Error carries a kind and a client-facing detail alongside the wrapped cause.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a client validation error.
func Validation(detail string) *Error {
	return &Error{Kind: KindValidation, Detail: detail}
}

// Forbidden builds a known-identity, insufficient-rights error.
func Forbidden(detail string) *Error {
	return &Error{Kind: KindForbidden, Detail: detail, Err: ErrForbidden}
}

// Unauthorized builds an unknown-identity error.
func Unauthorized(detail string) *Error {
	return &Error{Kind: KindUnauthorized, Detail: detail, Err: ErrUnauthorized}
}

// NotFound builds a missing-entity error.
func NotFound(detail string) *Error {
	return &Error{Kind: KindNotFound, Detail: detail, Err: ErrNotFound}
}

// Conflict wraps a storage uniqueness fault with a readable detail.
func Conflict(detail string, err error) *Error {
	return &Error{Kind: KindConflict, Detail: detail, Err: err}
}

// MethodNotAllowed builds the rejection for an unsupported HTTP verb.
func MethodNotAllowed(method string) *Error {
	return &Error{Kind: KindMethodNotAllowed, Detail: fmt.Sprintf("Method %q not allowed.", method)}
}

// StatusCode maps an error to the HTTP status it should produce.
// Unclassified errors are internal faults.
func StatusCode(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		switch ae.Kind {
		case KindValidation:
			return http.StatusBadRequest
		case KindUnauthorized:
			return http.StatusUnauthorized
		case KindForbidden:
			return http.StatusForbidden
		case KindNotFound:
			return http.StatusNotFound
		case KindConflict:
			return http.StatusConflict
		case KindMethodNotAllowed:
			return http.StatusMethodNotAllowed
		}
	}
	switch {
	case errors.Is(err, ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// Detail extracts the client-facing message for an error. Internal faults
// are masked with a generic message so storage errors never leak.
func Detail(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Detail
	}
	if StatusCode(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}
