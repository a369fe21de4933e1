// Package dto defines the request and response bodies of the achievements API.
package dto

import (
	"time"

	"drive_backend/internal/feature/achievements/domain/entity"
)

// CheckReq is the body of POST /achievements/check.
type CheckReq struct {
	Type  string   `json:"type" binding:"required"`
	Value *float64 `json:"value" binding:"required,gte=0"`
}

// AchievementResponse is the public view of an achievement.
type AchievementResponse struct {
	ID          string               `json:"id"`
	UserID      string               `json:"userId"`
	Type        string               `json:"type"`
	Title       entity.LocalizedText `json:"title"`
	Description entity.LocalizedText `json:"description"`
	Progress    *int                 `json:"progress,omitempty"`
	MaxProgress *int                 `json:"maxProgress,omitempty"`
	EarnedAt    time.Time            `json:"earnedAt"`
}

// NewAchievementResponses converts entities to their response form. The result is never nil.
func NewAchievementResponses(list []entity.Achievement) []AchievementResponse {
	out := make([]AchievementResponse, 0, len(list))
	for _, a := range list {
		out = append(out, AchievementResponse{
			ID:          a.ID,
			UserID:      a.UserID,
			Type:        string(a.Type),
			Title:       a.Title.Data(),
			Description: a.Description.Data(),
			Progress:    a.Progress,
			MaxProgress: a.MaxProgress,
			EarnedAt:    a.EarnedAt,
		})
	}
	return out
}
