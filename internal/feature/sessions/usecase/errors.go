package usecase

import (
	"fmt"

	"drive_backend/internal/shared/apperr"
)

var (
	// ErrSessionNotFound is returned when a session does not exist or does not belong to the caller.
	ErrSessionNotFound = fmt.Errorf("%w: driving session not found", apperr.ErrNotFound)

	// ErrSessionEnded is returned when a finished session is ended again or receives speed samples.
	ErrSessionEnded = fmt.Errorf("%w: driving session already ended", apperr.ErrConflict)

	// ErrInstructorNotLinked is returned when a session names an instructor the student is not actively linked to.
	ErrInstructorNotLinked = fmt.Errorf("%w: instructor is not linked to this student", apperr.ErrValidation)
)
