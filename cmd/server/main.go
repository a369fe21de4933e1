package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"drive_backend/internal/app/di"
	"drive_backend/internal/app/router"
	rulesadapters "drive_backend/internal/feature/rules/adapters"
	"drive_backend/internal/platform/config"
	"drive_backend/internal/platform/db"
	"drive_backend/internal/platform/logging"
	infraredis "drive_backend/internal/platform/redis"
)

// shutdownTimeout は実行中リクエストの完了を待つ上限時間です。
const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 設定（JWT_SECRET未設定の場合は起動しない）
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	slog.SetDefault(logging.New(cfg.LogLevel, os.Stdout))
	gin.SetMode(cfg.GinMode)

	// db
	gdb, err := db.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()
	if err := db.Migrate(gdb, di.Models()...); err != nil {
		return err
	}

	// Redis（未設定・接続失敗時はキャッシュなしで動作）
	rdb, err := infraredis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		rdb = nil
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	app, err := di.NewApp(cfg, gdb, rdb)
	if err != nil {
		return err
	}

	// カタログ初期データ
	if cfg.DB.Seed {
		seeded, err := rulesadapters.SeedCatalogue(ctx, db.NewTransactor(gdb), gdb)
		if err != nil {
			return fmt.Errorf("seed catalogue: %w", err)
		}
		if seeded {
			if err := app.Catalogue.Invalidate(ctx); err != nil {
				slog.Warn("failed to invalidate rules cache", "error", err)
			}
		}
	}

	// ルータ生成
	r := router.NewRouter(app.Handlers, app.Tokens, router.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		AuthRateLimit:  cfg.AuthRateLimit,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		slog.Info("shutdown signal received")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}
	slog.Info("server stopped")
	return nil
}
