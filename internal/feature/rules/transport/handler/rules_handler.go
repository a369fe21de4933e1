// Package handler はrulesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"drive_backend/internal/feature/rules/domain/entity"
	"drive_backend/internal/feature/rules/transport/http/dto"
	"drive_backend/internal/feature/rules/usecase"
	"drive_backend/internal/platform/http/respond"
	jwtmw "drive_backend/internal/platform/jwt"
)

// RulesUsecase はカタログ参照とクイズ回答のユースケースを定義します。
type RulesUsecase interface {
	ListCategories(ctx context.Context) ([]entity.RuleCategory, error)
	ListRulesByCategory(ctx context.Context, categoryID string) ([]entity.RoadRule, error)
	ListQuizQuestions(ctx context.Context, ruleID string) ([]entity.QuizQuestion, error)
	SubmitQuizAnswer(ctx context.Context, userID, questionID string, selectedOption int) (*usecase.AnswerResult, error)
}

// RulesHandler は交通規則APIのHTTPリクエストを処理します。
type RulesHandler struct {
	uc  RulesUsecase
	now func() time.Time
}

// NewRulesHandler はRulesHandlerの新しいインスタンスを生成します。
func NewRulesHandler(uc RulesUsecase) *RulesHandler {
	return &RulesHandler{uc: uc, now: time.Now}
}

// ListCategories はカテゴリ一覧を表示順に返します。
func (h *RulesHandler) ListCategories(c *gin.Context) {
	list, err := h.uc.ListCategories(c.Request.Context())
	if err != nil {
		respond.Error(c, "list categories", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCategoryResponses(list))
}

// ListRulesByCategory はカテゴリに属する規則を返します。存在しないカテゴリは空配列です。
func (h *RulesHandler) ListRulesByCategory(c *gin.Context) {
	list, err := h.uc.ListRulesByCategory(c.Request.Context(), c.Param("categoryId"))
	if err != nil {
		respond.Error(c, "list rules", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRuleResponses(list, h.now()))
}

// ListQuizQuestions は規則のクイズ問題をランダムな順序で返します。
func (h *RulesHandler) ListQuizQuestions(c *gin.Context) {
	list, err := h.uc.ListQuizQuestions(c.Request.Context(), c.Param("ruleId"))
	if err != nil {
		respond.Error(c, "list quiz questions", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuizQuestionResponses(list))
}

// SubmitAnswer は認証済みユーザーの回答を判定・記録します。
func (h *RulesHandler) SubmitAnswer(c *gin.Context) {
	var req dto.AnswerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "submit quiz answer", err)
		return
	}
	userID, _ := jwtmw.UserID(c)
	res, err := h.uc.SubmitQuizAnswer(c.Request.Context(), userID, c.Param("questionId"), *req.SelectedOption)
	if err != nil {
		respond.Error(c, "submit quiz answer", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAnswerResponse(res))
}
