// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"drive_backend/internal/feature/auth/domain/entity"
	"drive_backend/internal/platform/metrics"
	"drive_backend/internal/shared/apperr"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 6
	// maxPasswordBytes はbcryptが扱える入力の上限バイト数です。
	maxPasswordBytes = 72
	// minNameLength は表示名の最低文字数を定義します。
	minNameLength = 2
	// maxSocialIDAttempts はソーシャルIDの衝突時に再生成する最大回数です。
	maxSocialIDAttempts = 5
	// dummyHash はユーザーが存在しない場合にもbcrypt比較を行うためのハッシュです。
	dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// メールアドレスまたはソーシャルIDが重複する場合、ErrDuplicateUserを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail はメールアドレスが完全一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID はIDに一致するユーザーを取得します。
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// FindBySocialID はソーシャルIDに一致するユーザーを取得します。
	FindBySocialID(ctx context.Context, socialID string) (*entity.User, error)
}

// PasswordHasher はパスワードのハッシュ化と検証を抽象化します。
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hashed string) bool
}

// TokenIssuer は認証トークンの発行を抽象化します。
type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}

// SocialIDGenerator は表示名からソーシャルIDの候補を生成します。
type SocialIDGenerator interface {
	Generate(displayName string) string
}

// Transactor は1つの論理操作を1トランザクションで実行します。
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RegisterInput は新規登録の入力値です。
type RegisterInput struct {
	Email       string
	Password    string
	Name        string
	Role        string
	ProfileType *string
}

// AuthResult は登録・ログイン成功時の結果です。Userはパスワードハッシュを含みません。
type AuthResult struct {
	User  *entity.User
	Token string
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users    UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	socialID SocialIDGenerator
	tx       Transactor
	validate *validator.Validate
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, hasher PasswordHasher, tokens TokenIssuer, socialID SocialIDGenerator, tx Transactor) *authUsecase {
	return &authUsecase{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		socialID: socialID,
		tx:       tx,
		validate: validator.New(),
	}
}

// validateRegister はストレージに触れる前に入力値を検証し、ロールに応じたプロフィールを返します。
func (u *authUsecase) validateRegister(in RegisterInput) (entity.Profile, error) {
	if err := u.validate.Var(in.Email, "required,email"); err != nil {
		return nil, apperr.Validation("email must be a valid address")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLength {
		return nil, apperr.Validation(fmt.Sprintf("password must be at least %d characters long", minPasswordLength))
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, apperr.Validation(fmt.Sprintf("password must be at most %d bytes long", maxPasswordBytes))
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) < minNameLength {
		return nil, apperr.Validation(fmt.Sprintf("name must be at least %d characters long", minNameLength))
	}
	return entity.NewProfile(in.Role, in.ProfileType)
}

// Register は新規ユーザーを登録し、ユーザーとトークンを返します。
// 存在確認・ソーシャルID採番・挿入・トークン発行は1トランザクションで行い、途中で失敗した場合は何も書き込みません。
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	profile, err := u.validateRegister(in)
	if err != nil {
		return nil, err
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:       uuid.NewString(),
		Email:    in.Email,
		Password: hashed,
		Name:     strings.TrimSpace(in.Name),
		Role:     profile.Role(),
	}
	if s, ok := profile.(entity.Student); ok {
		pt := s.ProfileType
		user.ProfileType = &pt
	}

	var token string
	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := u.users.FindByEmail(ctx, in.Email)
		switch {
		case err == nil:
			return ErrEmailAlreadyExists
		case !errors.Is(err, ErrUserNotFound):
			return apperr.Storage("find user by email", err)
		}

		if user.IsStudent() {
			sid, err := u.allocateSocialID(ctx, user.Name)
			if err != nil {
				return err
			}
			user.SocialID = &sid
		}

		if err := u.users.Create(ctx, user); err != nil {
			if errors.Is(err, apperr.ErrConflict) {
				return err
			}
			return apperr.Storage("create user", err)
		}

		token, err = u.tokens.Issue(user.ID, string(user.Role))
		if err != nil {
			return fmt.Errorf("failed to issue token: %w", err)
		}
		return nil
	})
	if err != nil {
		slog.Warn("registration failed", "error", err, "role", in.Role)
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(user.Role)).Inc()
	slog.Info("user registered", "user_id", user.ID, "role", user.Role)
	return &AuthResult{User: user.WithoutPassword(), Token: token}, nil
}

// allocateSocialID は未使用のソーシャルIDが見つかるまで最大maxSocialIDAttempts回生成します。
func (u *authUsecase) allocateSocialID(ctx context.Context, name string) (string, error) {
	for attempt := 1; attempt <= maxSocialIDAttempts; attempt++ {
		candidate := u.socialID.Generate(name)
		_, err := u.users.FindBySocialID(ctx, candidate)
		if errors.Is(err, ErrUserNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", apperr.Storage("find user by social id", err)
		}
		slog.Debug("social id collision", "candidate", candidate, "attempt", attempt)
	}
	return "", ErrSocialIDUnavailable
}

// Login はユーザーを認証し、成功時にユーザーと新しいトークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
// ユーザー未検出とパスワード不一致は区別せず、ErrInvalidCredentialsを返します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, apperr.Storage("find user by email", err)
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.Password
	}
	ok := u.hasher.Verify(password, passwordHash)

	if err != nil || !ok {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	token, err := u.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return &AuthResult{User: user.WithoutPassword(), Token: token}, nil
}

// Me は認証済みユーザー自身の情報を返します。
func (u *authUsecase) Me(ctx context.Context, userID string) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, apperr.Storage("find user by id", err)
	}
	return user.WithoutPassword(), nil
}
