// Package handler はachievementsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"drive_backend/internal/feature/achievements/domain/entity"
	"drive_backend/internal/feature/achievements/transport/http/dto"
	"drive_backend/internal/platform/http/respond"
	jwtmw "drive_backend/internal/platform/jwt"
)

// AchievementUsecase は実績操作のユースケースを定義します。
type AchievementUsecase interface {
	CheckAchievements(ctx context.Context, userID string, typ entity.Type, value float64) ([]entity.Achievement, error)
	ListAchievements(ctx context.Context, userID string) ([]entity.Achievement, error)
}

// AchievementHandler は実績APIのHTTPリクエストを処理します。
type AchievementHandler struct {
	uc AchievementUsecase
}

// NewAchievementHandler はAchievementHandlerの新しいインスタンスを生成します。
func NewAchievementHandler(uc AchievementUsecase) *AchievementHandler {
	return &AchievementHandler{uc: uc}
}

// List は認証済みユーザーの実績を新しい順に返します。
func (h *AchievementHandler) List(c *gin.Context) {
	userID, _ := jwtmw.UserID(c)
	list, err := h.uc.ListAchievements(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, "list achievements", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAchievementResponses(list))
}

// Check は累積値から新たに獲得した実績を評価し、獲得分のみを返します。
// 未知の種類は空配列を返します。
func (h *AchievementHandler) Check(c *gin.Context) {
	var req dto.CheckReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "check achievements", err)
		return
	}
	userID, _ := jwtmw.UserID(c)
	earned, err := h.uc.CheckAchievements(c.Request.Context(), userID, entity.Type(req.Type), *req.Value)
	if err != nil {
		respond.Error(c, "check achievements", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAchievementResponses(earned))
}
