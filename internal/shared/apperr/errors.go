// Package apperr defines the error taxonomy shared by every feature.
//
// Usecases wrap one of the sentinel kinds with context using fmt.Errorf("%w: ...")
// and handlers classify the result with errors.Is or HTTPStatus.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidation indicates malformed input, detected before any storage access.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates a uniqueness violation.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized indicates bad credentials or an invalid token.
	// Callers must never learn the underlying cause.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates an authenticated caller without the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates that a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorage indicates a persistence failure not otherwise classified.
	ErrStorage = errors.New("storage failure")
)

// Validation wraps ErrValidation with a human readable message.
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// Conflict wraps ErrConflict with a human readable message.
func Conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}

// NotFound wraps ErrNotFound with a human readable message.
func NotFound(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

// Storage wraps a raw persistence error so that it is classified as ErrStorage
// while keeping the original error available to errors.Is / errors.As.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// HTTPStatus maps an error to the status code handlers respond with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message that may be shown to API clients.
// Storage and unknown errors are replaced by a generic text.
func PublicMessage(err error) string {
	switch HTTPStatus(err) {
	case http.StatusInternalServerError:
		return "internal server error"
	case http.StatusUnauthorized:
		return "unauthorized"
	default:
		return err.Error()
	}
}
