package usecase

import (
	"fmt"

	"drive_backend/internal/shared/apperr"
)

// ErrQuestionNotFound is returned when the answered question does not exist.
var ErrQuestionNotFound = fmt.Errorf("%w: quiz question not found", apperr.ErrNotFound)
