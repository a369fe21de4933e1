// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// pingTimeout はヘルスチェック時のDB疎通確認の上限時間です。
const pingTimeout = 2 * time.Second

// Pinger はデータベースの疎通確認を抽象化します。*sql.DB が満たします。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health は /api/health エンドポイントのハンドラーを返します。
// db が nil の場合は疎通確認を行いません。
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				slog.Error("health check failed", "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database connection failed"})
				return
			}
		}

		if c.Request.Method == http.MethodHead {
			c.Status(http.StatusOK)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
