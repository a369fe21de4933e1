// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"fmt"

	"drive_backend/internal/shared/apperr"
)

var (
	// ErrUserNotFound is returned by the repository when no user matches the lookup.
	ErrUserNotFound = fmt.Errorf("%w: user not found", apperr.ErrNotFound)

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = fmt.Errorf("%w: email already exists", apperr.ErrConflict)

	// ErrDuplicateUser is returned by the repository when an insert violates the email or
	// social ID uniqueness constraint.
	ErrDuplicateUser = fmt.Errorf("%w: email or social id already registered", apperr.ErrConflict)

	// ErrSocialIDUnavailable is returned when no free social ID could be allocated.
	ErrSocialIDUnavailable = fmt.Errorf("%w: could not allocate social id", apperr.ErrConflict)

	// ErrInvalidCredentials is the only error Login returns for a bad email or password.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
)

