// Package usecase は交通規則カタログとクイズのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"drive_backend/internal/feature/rules/domain/entity"
	"drive_backend/internal/shared/apperr"
)

// CatalogueRepository は読み取り専用のカタログ参照を抽象化します。
// キャッシュデコレーターはこのインターフェースを実装します。
type CatalogueRepository interface {
	// ListCategories はカテゴリを表示順に翻訳付きで返します。
	ListCategories(ctx context.Context) ([]entity.RuleCategory, error)
	// ListRulesByCategory はカテゴリに属する規則を表示順に翻訳付きで返します。
	ListRulesByCategory(ctx context.Context, categoryID string) ([]entity.RoadRule, error)
	// ListQuizQuestions は規則に紐づくクイズ問題を翻訳付きで返します。
	ListQuizQuestions(ctx context.Context, ruleID string) ([]entity.QuizQuestion, error)
}

// QuizRepository はクイズ回答の永続化を抽象化します。
type QuizRepository interface {
	// FindQuestion は問題を翻訳付きで取得します。存在しない場合はErrQuestionNotFoundを返します。
	FindQuestion(ctx context.Context, id string) (*entity.QuizQuestion, error)
	// InsertResult は回答結果を1件追加します。
	InsertResult(ctx context.Context, r *entity.QuizResult) error
}

// AnswerResult はクイズ回答の判定結果です。
type AnswerResult struct {
	Result        entity.QuizResult
	CorrectOption int
	// Explanations は言語ごとの解説です。
	Explanations map[string]string
}

// rulesUsecase はカタログ参照とクイズ回答を実装します。
type rulesUsecase struct {
	catalogue CatalogueRepository
	quiz      QuizRepository
	now       func() time.Time
	shuffle   func(n int, swap func(i, j int))
}

// NewRulesUsecase はrulesUsecaseの新しいインスタンスを生成します。
func NewRulesUsecase(catalogue CatalogueRepository, quiz QuizRepository) *rulesUsecase {
	return &rulesUsecase{
		catalogue: catalogue,
		quiz:      quiz,
		now:       time.Now,
		shuffle:   rand.Shuffle,
	}
}

// ListCategories はすべてのカテゴリを返します。
func (u *rulesUsecase) ListCategories(ctx context.Context) ([]entity.RuleCategory, error) {
	list, err := u.catalogue.ListCategories(ctx)
	if err != nil {
		return nil, apperr.Storage("list categories", err)
	}
	return list, nil
}

// ListRulesByCategory はカテゴリに属する規則を返します。カテゴリが空の場合は空のリストを返します。
func (u *rulesUsecase) ListRulesByCategory(ctx context.Context, categoryID string) ([]entity.RoadRule, error) {
	if categoryID == "" {
		return nil, apperr.Validation("category id is required")
	}
	list, err := u.catalogue.ListRulesByCategory(ctx, categoryID)
	if err != nil {
		return nil, apperr.Storage("list rules", err)
	}
	return list, nil
}

// ListQuizQuestions は規則のクイズ問題をランダムな順序で返します。
// キャッシュされた順序を共有しないよう、並び替えは取得後にコピーに対して行います。
func (u *rulesUsecase) ListQuizQuestions(ctx context.Context, ruleID string) ([]entity.QuizQuestion, error) {
	if ruleID == "" {
		return nil, apperr.Validation("rule id is required")
	}
	list, err := u.catalogue.ListQuizQuestions(ctx, ruleID)
	if err != nil {
		return nil, apperr.Storage("list quiz questions", err)
	}
	out := append([]entity.QuizQuestion(nil), list...)
	u.shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if out == nil {
		out = []entity.QuizQuestion{}
	}
	return out, nil
}

// SubmitQuizAnswer は回答を判定して結果を記録します。
func (u *rulesUsecase) SubmitQuizAnswer(ctx context.Context, userID, questionID string, selectedOption int) (*AnswerResult, error) {
	q, err := u.quiz.FindQuestion(ctx, questionID)
	if err != nil {
		if errors.Is(err, ErrQuestionNotFound) {
			return nil, err
		}
		return nil, apperr.Storage("find quiz question", err)
	}
	if n := q.OptionCount(); selectedOption < 0 || selectedOption >= n {
		return nil, apperr.Validation(fmt.Sprintf("selected option must be between 0 and %d", n-1))
	}

	res := entity.QuizResult{
		ID:             uuid.NewString(),
		UserID:         userID,
		QuestionID:     q.ID,
		SelectedOption: selectedOption,
		IsCorrect:      selectedOption == q.CorrectOption,
		CompletedAt:    u.now().UTC(),
	}
	if err := u.quiz.InsertResult(ctx, &res); err != nil {
		return nil, apperr.Storage("insert quiz result", err)
	}

	explanations := make(map[string]string, len(q.Translations))
	for _, tr := range q.Translations {
		explanations[tr.Language] = tr.Explanation
	}
	return &AnswerResult{Result: res, CorrectOption: q.CorrectOption, Explanations: explanations}, nil
}
