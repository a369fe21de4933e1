// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// LoginReq は/loginエンドポイントのリクエストボディを表します。
// 形式の検証はユースケース側で行うため、ここでは必須チェックのみ行います。
type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
