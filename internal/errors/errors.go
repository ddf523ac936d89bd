package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error types for the session client
var (
	// Configuration errors
	ErrUnknownService = errors.New("unknown service")
	ErrMissingConfig  = errors.New("missing configuration")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")

	// Token errors
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingExpiry = errors.New("token has no expiry claim")
	ErrRefreshFailed = errors.New("token refresh failed")

	// Response errors
	ErrServer     = errors.New("server problem")
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrBadPayload = errors.New("unexpected response payload")
)

// ServerProblemMessage is shown for every 5xx response regardless of its body.
const ServerProblemMessage = "Terjadi masalah pada server"

// APIError is the single shape every non-2xx backend response is normalized into.
type APIError struct {
	Status  int    // HTTP status code
	Message string // Backend-provided or generic message
	Service string // Backend service that answered
}

func (e *APIError) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("%s: %d: %s", e.Service, e.Status, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Unwrap maps the status onto a sentinel so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status >= http.StatusInternalServerError:
		return ErrServer
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return ErrForbidden
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrValidation
	}
}

// RefreshError is returned by every caller waiting on a failed refresh.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	if e.Err == nil {
		return ErrRefreshFailed.Error()
	}
	return fmt.Sprintf("%s: %v", ErrRefreshFailed, e.Err)
}

func (e *RefreshError) Is(target error) bool {
	return target == ErrRefreshFailed
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing message of err: the APIError message when there is one.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
