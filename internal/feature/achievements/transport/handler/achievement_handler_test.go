package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"drive_backend/internal/feature/achievements/domain/entity"
	jwtmw "drive_backend/internal/platform/jwt"
	"drive_backend/internal/shared/apperr"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type mockAchievementUsecase struct {
	CheckFunc func(ctx context.Context, userID string, typ entity.Type, value float64) ([]entity.Achievement, error)
	ListFunc  func(ctx context.Context, userID string) ([]entity.Achievement, error)
}

func (m *mockAchievementUsecase) CheckAchievements(ctx context.Context, userID string, typ entity.Type, value float64) ([]entity.Achievement, error) {
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx, userID, typ, value)
	}
	return []entity.Achievement{}, nil
}

func (m *mockAchievementUsecase) ListAchievements(ctx context.Context, userID string) ([]entity.Achievement, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return nil, nil
}

func newRouter(h *AchievementHandler) *gin.Engine {
	r := gin.New()
	auth := func(c *gin.Context) {
		c.Set(jwtmw.ContextUserID, "u-1")
		c.Next()
	}
	r.GET("/achievements", auth, h.List)
	r.POST("/achievements/check", auth, h.Check)
	return r
}

func sample(progress int) entity.Achievement {
	return entity.Achievement{
		ID: "a-1", UserID: "u-1", Type: entity.TypePracticeHours,
		Title:       datatypes.NewJSONType(entity.LocalizedText{"en": "10 Hours on the Road"}),
		Description: datatypes.NewJSONType(entity.LocalizedText{"en": "Completed 10 hours of driving practice"}),
		Progress:    &progress, MaxProgress: &progress,
		EarnedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestAchievementHandler_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		checkFunc      func(ctx context.Context, userID string, typ entity.Type, value float64) ([]entity.Achievement, error)
		expectedStatus int
		expectedLen    int
	}{
		{
			name: "success: newly earned",
			body: `{"type":"practice_hours","value":12.5}`,
			checkFunc: func(_ context.Context, userID string, typ entity.Type, value float64) ([]entity.Achievement, error) {
				if userID != "u-1" || typ != entity.TypePracticeHours || value != 12.5 {
					return nil, errors.New("unexpected arguments")
				}
				return []entity.Achievement{sample(10)}, nil
			},
			expectedStatus: http.StatusOK,
			expectedLen:    1,
		},
		{
			name:           "success: unknown type yields empty array",
			body:           `{"type":"night_driver","value":3}`,
			expectedStatus: http.StatusOK,
			expectedLen:    0,
		},
		{
			name:           "failure: missing value",
			body:           `{"type":"practice_hours"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "failure: negative value",
			body:           `{"type":"practice_hours","value":-1}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "failure: storage error",
			body: `{"type":"practice_hours","value":10}`,
			checkFunc: func(context.Context, string, entity.Type, float64) ([]entity.Achievement, error) {
				return nil, apperr.Storage("insert achievement", errors.New("disk full"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newRouter(NewAchievementHandler(&mockAchievementUsecase{CheckFunc: tt.checkFunc}))
			req := httptest.NewRequest(http.MethodPost, "/achievements/check", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var resp []map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Len(t, resp, tt.expectedLen)
			assert.NotEqual(t, "null", w.Body.String())
		})
	}
}

func TestAchievementHandler_List(t *testing.T) {
	t.Parallel()

	router := newRouter(NewAchievementHandler(&mockAchievementUsecase{
		ListFunc: func(context.Context, string) ([]entity.Achievement, error) {
			return []entity.Achievement{sample(20)}, nil
		},
	}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/achievements", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "practice_hours", resp[0]["type"])
	assert.Equal(t, float64(20), resp[0]["progress"])
	title, ok := resp[0]["title"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "10 Hours on the Road", title["en"])
}

func TestAchievementHandler_ListEmpty(t *testing.T) {
	t.Parallel()

	router := newRouter(NewAchievementHandler(&mockAchievementUsecase{}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/achievements", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
