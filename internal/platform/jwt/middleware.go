package jwtmw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// ContextUserID はgin.Contextに保存される認証済みユーザーIDのキーです。
	ContextUserID = "userID"
	// ContextRole はgin.Contextに保存される認証済みユーザーのロールのキーです。
	ContextRole = "role"
)

// Verifier はトークン検証のインターフェースです。
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// AuthRequired はBearerトークンを検証し、認証済みユーザーのみアクセスを許可するGinミドルウェアを返します。
// 検証失敗の理由（署名不一致・期限切れ・不正形式）はレスポンスに含めません。
func AuthRequired(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorizationヘッダーを取得
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		// 2. 署名と有効期限を検証
		claims, err := v.Verify(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// 3. クレームをコンテキストに保存
		c.Set(ContextUserID, claims.UserID())
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireRole は指定されたロールのいずれかを持つユーザーのみ通過させます。
// AuthRequiredの後に適用してください。
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}

// UserID はAuthRequiredが保存したユーザーIDを返します。
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextUserID)
	return id, id != ""
}
