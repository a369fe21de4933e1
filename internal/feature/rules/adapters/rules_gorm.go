// Package adapters はrulesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"drive_backend/internal/feature/rules/domain/entity"
	"drive_backend/internal/feature/rules/usecase"
	"drive_backend/internal/platform/db"
)

// rulesGorm はカタログ参照とクイズ結果のGORM実装です。
type rulesGorm struct {
	db *gorm.DB
}

var (
	_ usecase.CatalogueRepository = (*rulesGorm)(nil)
	_ usecase.QuizRepository      = (*rulesGorm)(nil)
)

// NewRulesGorm はrulesGormの新しいインスタンスを生成します。
func NewRulesGorm(gdb *gorm.DB) *rulesGorm {
	return &rulesGorm{db: gdb}
}

// byLanguage は翻訳を言語コード順に並べます。
func byLanguage(db *gorm.DB) *gorm.DB {
	return db.Order("language ASC")
}

// ListCategories はカテゴリを表示順に翻訳付きで返します。
func (r *rulesGorm) ListCategories(ctx context.Context) ([]entity.RuleCategory, error) {
	var list []entity.RuleCategory
	err := db.Conn(ctx, r.db).
		Preload("Translations", byLanguage).
		Order("order_index ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListRulesByCategory はカテゴリに属する規則を表示順に翻訳付きで返します。
func (r *rulesGorm) ListRulesByCategory(ctx context.Context, categoryID string) ([]entity.RoadRule, error) {
	var list []entity.RoadRule
	err := db.Conn(ctx, r.db).
		Preload("Translations", byLanguage).
		Where("category_id = ?", categoryID).
		Order("order_index ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListQuizQuestions は規則に紐づくクイズ問題を翻訳付きで返します。
func (r *rulesGorm) ListQuizQuestions(ctx context.Context, ruleID string) ([]entity.QuizQuestion, error) {
	var list []entity.QuizQuestion
	err := db.Conn(ctx, r.db).
		Preload("Translations", byLanguage).
		Where("rule_id = ?", ruleID).
		Order("id ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// FindQuestion は問題を翻訳付きで取得します。
func (r *rulesGorm) FindQuestion(ctx context.Context, id string) (*entity.QuizQuestion, error) {
	var q entity.QuizQuestion
	err := db.Conn(ctx, r.db).
		Preload("Translations", byLanguage).
		Where("id = ?", id).
		First(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrQuestionNotFound
		}
		return nil, err
	}
	return &q, nil
}

// InsertResult は回答結果を1件追加します。
func (r *rulesGorm) InsertResult(ctx context.Context, res *entity.QuizResult) error {
	return db.Conn(ctx, r.db).Create(res).Error
}

// Models はrulesフィーチャーが所有するテーブルのモデル一覧です。
func Models() []any {
	return []any{
		&entity.RuleCategory{}, &entity.CategoryTranslation{},
		&entity.RoadRule{}, &entity.RuleTranslation{},
		&entity.QuizQuestion{}, &entity.QuizTranslation{},
		&entity.QuizResult{},
	}
}
