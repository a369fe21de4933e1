package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	rulesadapters "drive_backend/internal/feature/rules/adapters"
	ruleshandler "drive_backend/internal/feature/rules/transport/handler"
	rulesusecase "drive_backend/internal/feature/rules/usecase"
	"drive_backend/internal/platform/cache"
)

// NewRulesCatalogue はGORMのカタログ参照をRedisキャッシュでラップします。
// rdb が nil の場合、キャッシュは素通しになります。
func NewRulesCatalogue(gdb *gorm.DB, rdb *redis.Client, ttl time.Duration) *cache.CachingRulesRepository {
	return cache.NewCachingRulesRepository(rdb, ttl, rulesadapters.NewRulesGorm(gdb), "rules")
}

// NewRulesHandler はキャッシュ済みカタログとGORMのクイズ結果ストアを使うRulesHandlerを生成します。
func NewRulesHandler(gdb *gorm.DB, catalogue rulesusecase.CatalogueRepository) *ruleshandler.RulesHandler {
	uc := rulesusecase.NewRulesUsecase(catalogue, rulesadapters.NewRulesGorm(gdb))
	return ruleshandler.NewRulesHandler(uc)
}
