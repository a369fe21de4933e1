package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"drive_backend/internal/feature/rules/domain/entity"
	"drive_backend/internal/feature/rules/transport/http/dto"
	"drive_backend/internal/feature/rules/usecase"
	jwtmw "drive_backend/internal/platform/jwt"
	"drive_backend/internal/shared/apperr"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type mockRulesUsecase struct {
	ListCategoriesFunc      func(ctx context.Context) ([]entity.RuleCategory, error)
	ListRulesByCategoryFunc func(ctx context.Context, categoryID string) ([]entity.RoadRule, error)
	ListQuizQuestionsFunc   func(ctx context.Context, ruleID string) ([]entity.QuizQuestion, error)
	SubmitQuizAnswerFunc    func(ctx context.Context, userID, questionID string, selectedOption int) (*usecase.AnswerResult, error)
}

func (m *mockRulesUsecase) ListCategories(ctx context.Context) ([]entity.RuleCategory, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx)
	}
	return nil, nil
}

func (m *mockRulesUsecase) ListRulesByCategory(ctx context.Context, categoryID string) ([]entity.RoadRule, error) {
	if m.ListRulesByCategoryFunc != nil {
		return m.ListRulesByCategoryFunc(ctx, categoryID)
	}
	return nil, nil
}

func (m *mockRulesUsecase) ListQuizQuestions(ctx context.Context, ruleID string) ([]entity.QuizQuestion, error) {
	if m.ListQuizQuestionsFunc != nil {
		return m.ListQuizQuestionsFunc(ctx, ruleID)
	}
	return nil, nil
}

func (m *mockRulesUsecase) SubmitQuizAnswer(ctx context.Context, userID, questionID string, selectedOption int) (*usecase.AnswerResult, error) {
	if m.SubmitQuizAnswerFunc != nil {
		return m.SubmitQuizAnswerFunc(ctx, userID, questionID, selectedOption)
	}
	return nil, errors.New("not implemented")
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newRouter(uc RulesUsecase) *gin.Engine {
	h := NewRulesHandler(uc)
	h.now = func() time.Time { return fixedNow }

	r := gin.New()
	auth := func(c *gin.Context) {
		c.Set(jwtmw.ContextUserID, "u-1")
		c.Next()
	}
	r.GET("/rules/categories", h.ListCategories)
	r.GET("/rules/category/:categoryId", h.ListRulesByCategory)
	r.GET("/rules/rule/:ruleId/quiz", h.ListQuizQuestions)
	r.POST("/rules/quiz/:questionId/answer", auth, h.SubmitAnswer)
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRulesHandler_ListCategories(t *testing.T) {
	t.Parallel()

	t.Run("translations keyed by language", func(t *testing.T) {
		t.Parallel()

		uc := &mockRulesUsecase{
			ListCategoriesFunc: func(ctx context.Context) ([]entity.RuleCategory, error) {
				return []entity.RuleCategory{{
					ID: "c-1", Icon: "book", OrderIndex: 1,
					Translations: []entity.CategoryTranslation{
						{Language: "en", Name: "General Rules", Description: "Basics"},
						{Language: "fr", Name: "Règles générales", Description: "Bases"},
					},
				}}, nil
			},
		}

		w := serve(newRouter(uc), http.MethodGet, "/rules/categories", "")
		require.Equal(t, http.StatusOK, w.Code)

		var got []dto.CategoryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "book", got[0].Icon)
		assert.Equal(t, "Règles générales", got[0].Translations["fr"].Name)
	})

	t.Run("empty catalogue is an empty array", func(t *testing.T) {
		t.Parallel()

		w := serve(newRouter(&mockRulesUsecase{}), http.MethodGet, "/rules/categories", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("storage error", func(t *testing.T) {
		t.Parallel()

		uc := &mockRulesUsecase{
			ListCategoriesFunc: func(ctx context.Context) ([]entity.RuleCategory, error) {
				return nil, apperr.Storage("list categories", errors.New("db down"))
			},
		}
		w := serve(newRouter(uc), http.MethodGet, "/rules/categories", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	})
}

func TestRulesHandler_ListRulesByCategory(t *testing.T) {
	t.Parallel()

	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var gotCategory string
	uc := &mockRulesUsecase{
		ListRulesByCategoryFunc: func(ctx context.Context, categoryID string) ([]entity.RoadRule, error) {
			gotCategory = categoryID
			return []entity.RoadRule{
				{ID: "r-1", CategoryID: categoryID, OrderIndex: 1, ValidFrom: &from,
					Translations: []entity.RuleTranslation{{Language: "nl", Title: "Snelheid", Content: "..."}}},
				{ID: "r-2", CategoryID: categoryID, OrderIndex: 2, ValidFrom: &from, ValidUntil: &until},
			}, nil
		},
	}

	w := serve(newRouter(uc), http.MethodGet, "/rules/category/c-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []dto.RuleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "c-1", gotCategory)
	assert.True(t, got[0].Active)
	assert.False(t, got[1].Active, "expired rule must be inactive")
	assert.Equal(t, "Snelheid", got[0].Translations["nl"].Title)
	assert.Empty(t, got[1].Translations)
}

func TestRulesHandler_ListQuizQuestions(t *testing.T) {
	t.Parallel()

	uc := &mockRulesUsecase{
		ListQuizQuestionsFunc: func(ctx context.Context, ruleID string) ([]entity.QuizQuestion, error) {
			return []entity.QuizQuestion{{
				ID: "q-1", RuleID: ruleID, CorrectOption: 1,
				Translations: []entity.QuizTranslation{{
					Language: "de", Question: "Vorfahrt?", Options: datatypes.JSONSlice[string]{"Ja", "Nein"}, Explanation: "Weil",
				}},
			}}, nil
		},
	}

	w := serve(newRouter(uc), http.MethodGet, "/rules/rule/r-1/quiz", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []dto.QuizQuestionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "r-1", got[0].RuleID)
	assert.Equal(t, 1, got[0].CorrectOption)
	assert.Equal(t, []string{"Ja", "Nein"}, got[0].Translations["de"].Options)
}

func TestRulesHandler_SubmitAnswer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		submitFunc     func(ctx context.Context, userID, questionID string, selectedOption int) (*usecase.AnswerResult, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: correct answer",
			body: `{"selectedOption":1}`,
			submitFunc: func(ctx context.Context, userID, questionID string, selectedOption int) (*usecase.AnswerResult, error) {
				return &usecase.AnswerResult{
					Result: entity.QuizResult{
						ID: "res-1", UserID: userID, QuestionID: questionID,
						SelectedOption: selectedOption, IsCorrect: true, CompletedAt: fixedNow,
					},
					CorrectOption: 1,
					Explanations:  map[string]string{"en": "Because"},
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"id":"res-1","questionId":"q-1","selectedOption":1,"isCorrect":true,"correctOption":1,
				"explanations":{"en":"Because"},"completedAt":"2025-06-01T12:00:00Z"}`,
		},
		{
			name:           "error: missing option",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request"}`,
		},
		{
			name:           "error: negative option",
			body:           `{"selectedOption":-1}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request"}`,
		},
		{
			name: "error: option out of range",
			body: `{"selectedOption":7}`,
			submitFunc: func(ctx context.Context, userID, questionID string, selectedOption int) (*usecase.AnswerResult, error) {
				return nil, apperr.Validation("selected option must be between 0 and 2")
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"validation failed: selected option must be between 0 and 2"}`,
		},
		{
			name: "error: unknown question",
			body: `{"selectedOption":0}`,
			submitFunc: func(ctx context.Context, userID, questionID string, selectedOption int) (*usecase.AnswerResult, error) {
				return nil, usecase.ErrQuestionNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := &mockRulesUsecase{SubmitQuizAnswerFunc: tt.submitFunc}
			w := serve(newRouter(uc), http.MethodPost, "/rules/quiz/q-1/answer", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}
