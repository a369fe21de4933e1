// Package usecase はachievementsフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"drive_backend/internal/feature/achievements/domain/entity"
	"drive_backend/internal/platform/metrics"
	"drive_backend/internal/shared/apperr"
)

// AchievementRepository は実績の永続化層を抽象化します。
type AchievementRepository interface {
	// ListByUser はユーザーの実績を獲得日時の新しい順に返します。
	ListByUser(ctx context.Context, userID string) ([]entity.Achievement, error)

	// ExistsByTypeAndMinProgress は指定種類の実績が存在するかを返します。
	// minProgressがnilの場合は進捗に関わらず種類のみで判定します。
	ExistsByTypeAndMinProgress(ctx context.Context, userID string, typ entity.Type, minProgress *int) (bool, error)

	// Insert は実績を1件追加します。同じマイルストーンが既に保存されている場合は
	// 何もせずfalseを返します（並行する評価との競合を含む）。
	Insert(ctx context.Context, a *entity.Achievement) (bool, error)
}

// Transactor は1つの論理操作を1トランザクションで実行します。
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// achievementUsecase は実績評価のビジネスロジックを実装します。
type achievementUsecase struct {
	repo    AchievementRepository
	tx      Transactor
	catalog map[entity.Type]entity.MilestoneRule
	now     func() time.Time
}

// NewAchievementUsecase はachievementUsecaseの新しいインスタンスを生成します。
// マイルストーンはentity.MilestoneCatalogから読み込みます。
func NewAchievementUsecase(repo AchievementRepository, tx Transactor) *achievementUsecase {
	return &achievementUsecase{
		repo:    repo,
		tx:      tx,
		catalog: entity.MilestoneCatalog,
		now:     time.Now,
	}
}

// CheckAchievements はtypの累積値valueから新たに獲得した実績を判定して保存し、昇順で返します。
// 既に獲得済みのマイルストーンは再作成しないため、同じ値で何度呼んでも重複しません。
// カタログにない種類（予約済みを含む）は何もせず空のリストを返します。
func (u *achievementUsecase) CheckAchievements(ctx context.Context, userID string, typ entity.Type, value float64) ([]entity.Achievement, error) {
	if userID == "" {
		return nil, apperr.Validation("user id is required")
	}

	earned := []entity.Achievement{}
	rule, ok := u.catalog[typ]
	if !ok {
		return earned, nil
	}

	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, m := range rule.Milestones {
			if value < float64(m.Threshold) {
				break
			}

			var minProgress *int
			if !rule.Once {
				t := m.Threshold
				minProgress = &t
			}
			exists, err := u.repo.ExistsByTypeAndMinProgress(ctx, userID, typ, minProgress)
			if err != nil {
				return apperr.Storage("check achievement", err)
			}
			if exists {
				if rule.Once {
					return nil
				}
				continue
			}

			a := u.newAchievement(userID, typ, rule, m)
			inserted, err := u.repo.Insert(ctx, &a)
			if err != nil {
				return apperr.Storage("insert achievement", err)
			}
			if inserted {
				earned = append(earned, a)
			}

			if rule.Once {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, a := range earned {
		metrics.AchievementsEarnedTotal.WithLabelValues(string(a.Type)).Inc()
		slog.Info("achievement earned", "user_id", userID, "type", a.Type, "progress", a.Progress)
	}
	return earned, nil
}

func (u *achievementUsecase) newAchievement(userID string, typ entity.Type, rule entity.MilestoneRule, m entity.Milestone) entity.Achievement {
	a := entity.Achievement{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        typ,
		Title:       datatypes.NewJSONType(m.Title),
		Description: datatypes.NewJSONType(m.Description),
		Threshold:   m.Threshold,
		EarnedAt:    u.now().UTC(),
	}
	if rule.TrackProgress {
		progress, maxProgress := m.Threshold, m.Threshold
		a.Progress = &progress
		a.MaxProgress = &maxProgress
	}
	return a
}

// ListAchievements はユーザーの獲得済み実績を新しい順に返します。
func (u *achievementUsecase) ListAchievements(ctx context.Context, userID string) ([]entity.Achievement, error) {
	list, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Storage("list achievements", err)
	}
	return list, nil
}
