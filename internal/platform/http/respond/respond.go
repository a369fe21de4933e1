// Package respond はハンドラー共通のエラーレスポンス処理を提供します。
package respond

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"drive_backend/internal/shared/apperr"
)

// ErrorResponse はすべてのエラーレスポンスの本文です。
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error はerrをapperrの分類に従ってHTTPステータスに変換して返します。
// ストレージ起因などの500系エラーはログにのみ詳細を残し、クライアントには汎用メッセージを返します。
func Error(c *gin.Context, op string, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error(op+" failed", "error", err, "path", c.FullPath())
	} else {
		slog.Warn(op+" rejected", "error", err, "status", status, "remote_addr", c.ClientIP())
	}
	c.JSON(status, ErrorResponse{Error: apperr.PublicMessage(err)})
}

// BadRequest はリクエストボディのバインド失敗を400で返します。
func BadRequest(c *gin.Context, op string, err error) {
	slog.Warn(op+" validation failed", "error", err, "remote_addr", c.ClientIP())
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
}
