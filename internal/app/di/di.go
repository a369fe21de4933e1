package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"drive_backend/internal/app/router"
	achievemententity "drive_backend/internal/feature/achievements/domain/entity"
	authentity "drive_backend/internal/feature/auth/domain/entity"
	instructorentity "drive_backend/internal/feature/instructor/domain/entity"
	rulesadapters "drive_backend/internal/feature/rules/adapters"
	sessionsadapters "drive_backend/internal/feature/sessions/adapters"
	"drive_backend/internal/platform/cache"
	"drive_backend/internal/platform/config"
	"drive_backend/internal/platform/db"
	healthhandler "drive_backend/internal/platform/http/handler"
	jwtmw "drive_backend/internal/platform/jwt"
)

// Models はマイグレーション対象の全モデルです。
func Models() []any {
	models := []any{&authentity.User{}, &achievemententity.Achievement{}}
	models = append(models, rulesadapters.Models()...)
	models = append(models, sessionsadapters.Models()...)
	return append(models, &instructorentity.Link{})
}

// App はサーバーの依存関係一式です。
type App struct {
	Handlers  router.Handlers
	Tokens    *jwtmw.TokenService
	// Catalogue はシード投入後のキャッシュ無効化に使います。
	Catalogue *cache.CachingRulesRepository
}

// NewApp は設定・DB・Redisから全ハンドラーを組み立てます。rdb は nil でも構いません。
func NewApp(cfg *config.Config, gdb *gorm.DB, rdb *redis.Client) (*App, error) {
	tokens, err := jwtmw.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	tx := db.NewTransactor(gdb)

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}

	catalogue := NewRulesCatalogue(gdb, rdb, cfg.Redis.CacheTTL)
	return &App{
		Handlers: router.Handlers{
			Auth:         NewAuthHandler(gdb, tx, tokens),
			Achievements: NewAchievementHandler(gdb, tx),
			Rules:        NewRulesHandler(gdb, catalogue),
			Sessions:     NewSessionHandler(gdb, tx),
			Instructor:   NewInstructorHandler(gdb, tx),
			Health:       healthhandler.Health(sqlDB),
		},
		Tokens:    tokens,
		Catalogue: catalogue,
	}, nil
}
