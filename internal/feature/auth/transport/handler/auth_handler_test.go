package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drive_backend/internal/feature/auth/domain/entity"
	"drive_backend/internal/feature/auth/usecase"
	jwtmw "drive_backend/internal/platform/jwt"
	"drive_backend/internal/shared/apperr"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockAuthUsecase is a mock implementation of the AuthUsecase interface.
type mockAuthUsecase struct {
	RegisterFunc func(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error)
	LoginFunc    func(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	MeFunc       func(ctx context.Context, userID string) (*entity.User, error)
}

func (m *mockAuthUsecase) Register(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	return nil, errors.New("register not configured")
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, usecase.ErrInvalidCredentials
}

func (m *mockAuthUsecase) Me(ctx context.Context, userID string) (*entity.User, error) {
	if m.MeFunc != nil {
		return m.MeFunc(ctx, userID)
	}
	return nil, usecase.ErrUserNotFound
}

func strPtr(s string) *string { return &s }

func studentResult() *usecase.AuthResult {
	return &usecase.AuthResult{
		User: &entity.User{
			ID: "u-1", Email: "jan@example.be", Name: "Jan", Role: entity.RoleStudent,
			ProfileType: strPtr("BEGINNER"), SocialID: strPtr("#jan1234"),
		},
		Token: "signed-token",
	}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, gin.H) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp gin.H
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		requestBody    gin.H
		registerFunc   func(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error)
		expectedStatus int
		expectedError  string
	}{
		{
			name:        "success: student registration",
			requestBody: gin.H{"email": "jan@example.be", "password": "secret1", "name": "Jan", "role": "STUDENT", "profileType": "BEGINNER"},
			registerFunc: func(_ context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error) {
				if in.ProfileType == nil || *in.ProfileType != "BEGINNER" {
					return nil, errors.New("profile type not forwarded")
				}
				return studentResult(), nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "failure: missing name",
			requestBody:    gin.H{"email": "jan@example.be", "password": "secret1", "role": "STUDENT"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request",
		},
		{
			name:           "failure: unknown role",
			requestBody:    gin.H{"email": "jan@example.be", "password": "secret1", "name": "Jan", "role": "ADMIN"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request",
		},
		{
			name:        "failure: usecase validation error is surfaced",
			requestBody: gin.H{"email": "jan@example.be", "password": "123", "name": "Jan", "role": "INSTRUCTOR"},
			registerFunc: func(context.Context, usecase.RegisterInput) (*usecase.AuthResult, error) {
				return nil, apperr.Validation("password must be at least 6 characters long")
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "validation failed: password must be at least 6 characters long",
		},
		{
			name:        "failure: password longer than 72 bytes",
			requestBody: gin.H{"email": "jan@example.be", "password": strings.Repeat("x", 80), "name": "Jan", "role": "INSTRUCTOR"},
			registerFunc: func(context.Context, usecase.RegisterInput) (*usecase.AuthResult, error) {
				return nil, apperr.Validation("password must be at most 72 bytes long")
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "validation failed: password must be at most 72 bytes long",
		},
		{
			name:        "failure: duplicate email",
			requestBody: gin.H{"email": "jan@example.be", "password": "secret1", "name": "Jan", "role": "INSTRUCTOR"},
			registerFunc: func(context.Context, usecase.RegisterInput) (*usecase.AuthResult, error) {
				return nil, usecase.ErrEmailAlreadyExists
			},
			expectedStatus: http.StatusConflict,
			expectedError:  usecase.ErrEmailAlreadyExists.Error(),
		},
		{
			name:        "failure: storage error is hidden",
			requestBody: gin.H{"email": "jan@example.be", "password": "secret1", "name": "Jan", "role": "INSTRUCTOR"},
			registerFunc: func(context.Context, usecase.RegisterInput) (*usecase.AuthResult, error) {
				return nil, apperr.Storage("create user", errors.New("database is locked"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewAuthHandler(&mockAuthUsecase{RegisterFunc: tt.registerFunc})
			router := gin.New()
			router.POST("/register", h.Register)

			w, resp := doJSON(t, router, http.MethodPost, "/register", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, resp["error"])
				return
			}
			assert.Equal(t, "signed-token", resp["token"])
			user, ok := resp["user"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "#jan1234", user["socialId"])
			assert.NotContains(t, user, "password")
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		requestBody    gin.H
		loginFunc      func(ctx context.Context, email, password string) (*usecase.AuthResult, error)
		expectedStatus int
		expectedError  string
	}{
		{
			name:        "success: user login",
			requestBody: gin.H{"email": "jan@example.be", "password": "secret1"},
			loginFunc: func(context.Context, string, string) (*usecase.AuthResult, error) {
				return studentResult(), nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "failure: missing password",
			requestBody:    gin.H{"email": "jan@example.be"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request",
		},
		{
			name:        "failure: invalid credentials",
			requestBody: gin.H{"email": "jan@example.be", "password": "wrong"},
			loginFunc: func(context.Context, string, string) (*usecase.AuthResult, error) {
				return nil, usecase.ErrInvalidCredentials
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "invalid credentials",
		},
		{
			name:        "failure: storage error is hidden",
			requestBody: gin.H{"email": "jan@example.be", "password": "secret1"},
			loginFunc: func(context.Context, string, string) (*usecase.AuthResult, error) {
				return nil, apperr.Storage("find user by email", errors.New("no such table: users"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewAuthHandler(&mockAuthUsecase{LoginFunc: tt.loginFunc})
			router := gin.New()
			router.POST("/login", h.Login)

			w, resp := doJSON(t, router, http.MethodPost, "/login", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, resp["error"])
				return
			}
			assert.Equal(t, "signed-token", resp["token"])
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(&mockAuthUsecase{
		MeFunc: func(_ context.Context, userID string) (*entity.User, error) {
			if userID == "u-1" {
				return studentResult().User, nil
			}
			return nil, usecase.ErrUserNotFound
		},
	})

	newRouter := func(userID string) *gin.Engine {
		r := gin.New()
		r.GET("/me", func(c *gin.Context) {
			if userID != "" {
				c.Set(jwtmw.ContextUserID, userID)
			}
			c.Next()
		}, h.Me)
		return r
	}

	t.Run("authenticated user", func(t *testing.T) {
		t.Parallel()
		w, resp := doJSON(t, newRouter("u-1"), http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "jan@example.be", resp["email"])
	})

	t.Run("user no longer exists", func(t *testing.T) {
		t.Parallel()
		w, _ := doJSON(t, newRouter("gone"), http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("no user in context", func(t *testing.T) {
		t.Parallel()
		w, resp := doJSON(t, newRouter(""), http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "authentication required", resp["error"])
	})
}
