// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"drive_backend/internal/feature/auth/domain/entity"
	"drive_backend/internal/feature/auth/transport/http/dto"
	"drive_backend/internal/feature/auth/usecase"
	"drive_backend/internal/platform/http/respond"
	jwtmw "drive_backend/internal/platform/jwt"
	"drive_backend/internal/shared/apperr"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録し、ユーザーとトークンを返します。
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error)
	// Login はユーザーを認証し、成功時にユーザーとトークンを返します。
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	// Me は認証済みユーザー自身の情報を返します。
	Me(ctx context.Context, userID string) (*entity.User, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - リクエストJSONのバインド失敗時は400を返却
// - 入力検証エラーは400、メール重複は409を返却
// - 成功時はユーザーとトークン付きで201を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "register", err)
		return
	}
	res, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		Role:        req.Role,
		ProfileType: req.ProfileType,
	})
	if err != nil {
		respond.Error(c, "register", err)
		return
	}
	slog.Info("user registration successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.AuthResponse{User: dto.NewUserResponse(res.User), Token: res.Token})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 認証失敗の理由（ユーザー不在・パスワード不一致）はレスポンスに含めません。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "login", err)
		return
	}
	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if apperr.HTTPStatus(err) == http.StatusUnauthorized {
			slog.Warn("login failed", "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, respond.ErrorResponse{Error: "invalid credentials"})
			return
		}
		respond.Error(c, "login", err)
		return
	}
	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.AuthResponse{User: dto.NewUserResponse(res.User), Token: res.Token})
}

// Me は認証済みユーザーの情報を返します。AuthRequiredミドルウェアの後段で使用します。
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, respond.ErrorResponse{Error: "authentication required"})
		return
	}
	user, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, "me", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}
