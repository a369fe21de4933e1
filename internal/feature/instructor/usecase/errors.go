package usecase

import (
	"fmt"

	"drive_backend/internal/shared/apperr"
)

var (
	// ErrStudentNotFound is returned when no student holds the given social ID.
	ErrStudentNotFound = fmt.Errorf("%w: student not found", apperr.ErrNotFound)

	// ErrStudentAlreadyLinked is returned when the instructor already has this student.
	ErrStudentAlreadyLinked = fmt.Errorf("%w: student already added", apperr.ErrConflict)

	// ErrLinkNotFound is returned when the instructor has no link to the student.
	ErrLinkNotFound = fmt.Errorf("%w: student is not linked to this instructor", apperr.ErrNotFound)
)
