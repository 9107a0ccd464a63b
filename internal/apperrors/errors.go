// Package apperrors defines the error taxonomy shared by handlers and
// services. Every failure surfaced to a client is one of these kinds; the
// HTTP layer maps kinds to status codes in exactly one place.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping and logging.
type Kind int

const (
	// KindValidation is missing or malformed input (400).
	KindValidation Kind = iota
	// KindAuthentication is a request with no resolvable session (401).
	KindAuthentication
	// KindAuthorization is an authenticated caller that is not permitted (403).
	KindAuthorization
	// KindUpstreamAuth is an identity-provider rejection of an auth operation (400).
	KindUpstreamAuth
	// KindUpstreamStore is an identity-provider data-store failure (500).
	KindUpstreamStore
	// KindConfiguration is missing deployment configuration (500).
	KindConfiguration
)

// Error is a classified application error. Message is safe to return to the
// caller; Err is the underlying cause and is only logged, never serialized.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the error kind to a response status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindUpstreamAuth:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Validation returns a 400-class input error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Code: "bad_request", Message: message}
}

// ValidationField returns a 400-class input error naming the offending field.
func ValidationField(field, message string) *Error {
	return &Error{Kind: KindValidation, Code: "bad_request", Message: fmt.Sprintf("%s: %s", field, message)}
}

// Authentication returns a 401-class error for requests with no resolvable session.
func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Code: "auth_failed", Message: message}
}

// Authorization returns a 403-class error for authenticated but unpermitted callers.
func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Code: "forbidden", Message: message}
}

// UpstreamAuth wraps an identity-provider rejection, keeping the provider's
// message for the caller. code may be empty.
func UpstreamAuth(code, message string, err error) *Error {
	if code == "" {
		code = "auth_failed"
	}
	return &Error{Kind: KindUpstreamAuth, Code: code, Message: message, Err: err}
}

// UpstreamStore wraps an identity-provider data-store failure.
func UpstreamStore(message string, err error) *Error {
	return &Error{Kind: KindUpstreamStore, Code: "upstream_error", Message: message, Err: err}
}

// Configuration returns a fail-fast error for missing deployment configuration.
func Configuration(message string) *Error {
	return &Error{Kind: KindConfiguration, Code: "configuration_error", Message: message}
}

// From converts any error to an *Error, wrapping unknown errors as an
// internal upstream-store failure with a generic client message.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Kind: KindUpstreamStore, Code: "internal_error", Message: "Unexpected error", Err: err}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
