// Package adapters はachievementsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"drive_backend/internal/feature/achievements/domain/entity"
	"drive_backend/internal/feature/achievements/usecase"
	"drive_backend/internal/platform/db"
)

// achievementGorm はAchievementRepositoryインターフェースのGORM実装です。
type achievementGorm struct {
	db *gorm.DB
}

var _ usecase.AchievementRepository = (*achievementGorm)(nil)

// NewAchievementGorm はachievementGormの新しいインスタンスを生成します。
func NewAchievementGorm(gdb *gorm.DB) *achievementGorm {
	return &achievementGorm{db: gdb}
}

// ListByUser はユーザーの実績を獲得日時の降順で返します。
func (r *achievementGorm) ListByUser(ctx context.Context, userID string) ([]entity.Achievement, error) {
	var list []entity.Achievement
	err := db.Conn(ctx, r.db).
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Order("max_progress DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ExistsByTypeAndMinProgress はprogress >= minProgressの実績が存在するかを返します。
func (r *achievementGorm) ExistsByTypeAndMinProgress(ctx context.Context, userID string, typ entity.Type, minProgress *int) (bool, error) {
	q := db.Conn(ctx, r.db).Model(&entity.Achievement{}).
		Where("user_id = ? AND type = ?", userID, typ)
	if minProgress != nil {
		q = q.Where("progress >= ?", *minProgress)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert は実績を1件追加します。
// (user_id, type, threshold) が既に存在する場合はON CONFLICT DO NOTHINGで何もせずfalseを返します。
// PostgreSQLでは競合するトランザクションのコミットを待ってから判定されます。
func (r *achievementGorm) Insert(ctx context.Context, a *entity.Achievement) (bool, error) {
	res := db.Conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "type"}, {Name: "threshold"}},
			DoNothing: true,
		}).
		Create(a)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
