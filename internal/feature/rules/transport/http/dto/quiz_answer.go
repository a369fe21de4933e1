package dto

import (
	"time"

	"drive_backend/internal/feature/rules/usecase"
)

// AnswerReq is the body of POST /rules/quiz/:questionId/answer.
// SelectedOption is a zero-based index into the question's options.
type AnswerReq struct {
	SelectedOption *int `json:"selectedOption" binding:"required,gte=0"`
}

// AnswerResponse reports whether the answer was correct.
type AnswerResponse struct {
	ID             string            `json:"id"`
	QuestionID     string            `json:"questionId"`
	SelectedOption int               `json:"selectedOption"`
	IsCorrect      bool              `json:"isCorrect"`
	CorrectOption  int               `json:"correctOption"`
	Explanations   map[string]string `json:"explanations"`
	CompletedAt    time.Time         `json:"completedAt"`
}

// NewAnswerResponse converts an answer result to its response form.
func NewAnswerResponse(r *usecase.AnswerResult) AnswerResponse {
	return AnswerResponse{
		ID:             r.Result.ID,
		QuestionID:     r.Result.QuestionID,
		SelectedOption: r.Result.SelectedOption,
		IsCorrect:      r.Result.IsCorrect,
		CorrectOption:  r.CorrectOption,
		Explanations:   r.Explanations,
		CompletedAt:    r.Result.CompletedAt,
	}
}
