// Package di はアプリケーションコンポーネントを組み立てるファクトリー関数を提供します。
package di

import (
	"gorm.io/gorm"

	achievementsadapters "drive_backend/internal/feature/achievements/adapters"
	achievementshandler "drive_backend/internal/feature/achievements/transport/handler"
	achievementsusecase "drive_backend/internal/feature/achievements/usecase"
	authadapters "drive_backend/internal/feature/auth/adapters"
	authhandler "drive_backend/internal/feature/auth/transport/handler"
	authusecase "drive_backend/internal/feature/auth/usecase"
	"drive_backend/internal/platform/db"
	jwtmw "drive_backend/internal/platform/jwt"
	"drive_backend/internal/platform/password"
	"drive_backend/internal/platform/socialid"
)

// NewAuthHandler はbcrypt・JWT・ソーシャルID生成器を使うAuthHandlerを生成します。
func NewAuthHandler(gdb *gorm.DB, tx *db.Transactor, tokens *jwtmw.TokenService) *authhandler.AuthHandler {
	uc := authusecase.NewAuthUsecase(
		authadapters.NewUserGorm(gdb),
		password.NewBcryptHasher(password.DefaultCost),
		tokens,
		socialid.NewGenerator(),
		tx,
	)
	return authhandler.NewAuthHandler(uc)
}

// NewAchievementHandler はAchievementHandlerを生成します。
func NewAchievementHandler(gdb *gorm.DB, tx *db.Transactor) *achievementshandler.AchievementHandler {
	uc := achievementsusecase.NewAchievementUsecase(achievementsadapters.NewAchievementGorm(gdb), tx)
	return achievementshandler.NewAchievementHandler(uc)
}
