// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"drive_backend/internal/feature/auth/domain/entity"
	"drive_backend/internal/feature/auth/usecase"
	"drive_backend/internal/platform/db"
)

// userGorm はUserRepositoryインターフェースのGORM実装です。
// SQLite・PostgreSQLの両方で動作し、一意制約違反はgorm.ErrDuplicatedKeyとして検出します。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
func NewUserGorm(gdb *gorm.DB) *userGorm {
	return &userGorm{db: gdb}
}

// Create はユーザーをデータベースに追加します。
// メールアドレスまたはソーシャルIDの一意制約に違反した場合、usecase.ErrDuplicateUserを返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if err := db.Conn(ctx, r.db).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return usecase.ErrDuplicateUser
		}
		return err
	}
	return nil
}

// FindByEmail はメールアドレスでユーザーを取得します。比較は大文字小文字を区別します。
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

// FindByID はIDでユーザーを取得します。
func (r *userGorm) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

// FindBySocialID はソーシャルIDでユーザーを取得します。
func (r *userGorm) FindBySocialID(ctx context.Context, socialID string) (*entity.User, error) {
	return r.first(ctx, "social_id = ?", socialID)
}

// first は条件に一致する最初のユーザーを取得し、未検出をusecase.ErrUserNotFoundに変換します。
func (r *userGorm) first(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	if err := db.Conn(ctx, r.db).Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
