package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrForbidden          = fmt.Errorf("forbidden")
	ErrNotFound           = fmt.Errorf("not found")
	ErrAlreadyConnected   = fmt.Errorf("channel already connected for user")
	ErrTranslationFailed  = fmt.Errorf("translation failed")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrIdleTimeout        = fmt.Errorf("idle read timeout")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
)

// MapToHTTPStatus converts a domain error into the HTTP status served by the
// REST surface. Anything unrecognized is an internal error: domain code never
// leaks storage failures as client faults.
func MapToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidPassword), errors.Is(err, ErrUserAlreadyExists):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
