// Package dto defines the request and response bodies of the instructor API.
package dto

import (
	"time"

	"drive_backend/internal/feature/instructor/domain/entity"
)

// AddStudentReq is the body of POST /instructor/students.
type AddStudentReq struct {
	SocialID string `json:"socialId" binding:"required"`
}

// StatusReq is the body of PATCH /instructor/students/:studentId.
type StatusReq struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE INACTIVE"`
}

// ProgressResponse is a student's practice summary.
type ProgressResponse struct {
	PracticeHours     float64 `json:"practiceHours"`
	CompletedSessions int     `json:"completedSessions"`
	AverageRating     float64 `json:"averageRating"`
	QuizzesPassed     int     `json:"quizzesPassed"`
}

// StudentResponse is a linked student as seen by an instructor.
type StudentResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	SocialID  string           `json:"socialId"`
	StartDate time.Time        `json:"startDate"`
	Status    string           `json:"status"`
	Progress  ProgressResponse `json:"progress"`
}

// NewStudentResponse converts a linked student to its response form.
func NewStudentResponse(s *entity.LinkedStudent) StudentResponse {
	return StudentResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		SocialID:  s.SocialID,
		StartDate: s.StartDate,
		Status:    string(s.Status),
		Progress: ProgressResponse{
			PracticeHours:     s.Progress.PracticeHours,
			CompletedSessions: s.Progress.CompletedSessions,
			AverageRating:     s.Progress.AverageRating,
			QuizzesPassed:     s.Progress.QuizzesPassed,
		},
	}
}

// NewStudentResponses converts linked students to their response form. The result is never nil.
func NewStudentResponses(list []entity.LinkedStudent) []StudentResponse {
	out := make([]StudentResponse, 0, len(list))
	for i := range list {
		out = append(out, NewStudentResponse(&list[i]))
	}
	return out
}
