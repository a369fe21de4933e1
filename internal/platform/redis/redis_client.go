// Package redis はルールカタログキャッシュ用のRedisクライアントを生成します。
package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"drive_backend/internal/platform/config"
)

// pingTimeout は起動時の接続確認の上限時間です。
const pingTimeout = 3 * time.Second

// NewRedisClient は設定からRedisクライアントを生成し、接続を確認します。
// Addr が空の場合はキャッシュ無効として (nil, nil) を返します。
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		slog.Info("REDIS_ADDR not set; rules cache disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 接続確認
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", cfg.Addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", cfg.Addr, "db", cfg.DB)
	return rdb, nil
}
