package service

import (
	"errors"
	"fmt"
)

// OAuth 2.0 error codes (RFC 6749 section 5.2). Every error returned by the
// grant engine matches exactly one of these with errors.Is.
var (
	ErrInvalidRequest       = errors.New("invalid_request")
	ErrInvalidClient        = errors.New("invalid_client")
	ErrInvalidGrant         = errors.New("invalid_grant")
	ErrInvalidScope         = errors.New("invalid_scope")
	ErrUnsupportedGrantType = errors.New("unsupported_grant_type")
	ErrServerError          = errors.New("server_error")
)

// Administrative outcomes that have no OAuth error code.
var (
	ErrNotFound = errors.New("not_found")
	ErrConflict = errors.New("conflict")
)

// Error pairs one of the sentinel codes with a description that is safe to
// show the caller.
type Error struct {
	Code        error
	Description string
}

func (e *Error) Error() string { return e.Code.Error() + ": " + e.Description }

func (e *Error) Unwrap() error { return e.Code }

func describe(code error, format string, args ...any) error {
	return &Error{Code: code, Description: fmt.Sprintf(format, args...)}
}

// serverError marks a storage or infrastructure failure. The outcome of the
// call that produced it is indeterminate and it must not be retried here.
func serverError(err error) error {
	if errors.Is(err, ErrServerError) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrServerError, err)
}

// Description returns the caller-facing description of err, or "" when none
// was attached. Server errors never expose their cause.
func Description(err error) string {
	if errors.Is(err, ErrServerError) {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Description
	}
	return ""
}

// Code returns the sentinel that err matches. Anything unrecognised is a
// server error.
func Code(err error) error {
	for _, code := range []error{
		ErrInvalidRequest,
		ErrInvalidClient,
		ErrInvalidGrant,
		ErrInvalidScope,
		ErrUnsupportedGrantType,
		ErrNotFound,
		ErrConflict,
	} {
		if errors.Is(err, code) {
			return code
		}
	}
	return ErrServerError
}
