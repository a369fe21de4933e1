// Package usecase は指導員による生徒管理のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"drive_backend/internal/feature/instructor/domain/entity"
	"drive_backend/internal/shared/apperr"
)

// InstructorRepository は指導員と生徒の紐付けおよび進捗集計の永続化層を抽象化します。
type InstructorRepository interface {
	// FindStudentBySocialID はロールがSTUDENTのユーザーをソーシャルIDで取得します。
	// 存在しない場合はErrStudentNotFoundを返します。
	FindStudentBySocialID(ctx context.Context, socialID string) (*entity.Student, error)

	// LinkExists は指導員と生徒の紐付けが状態に関わらず存在するかを返します。
	LinkExists(ctx context.Context, instructorID, studentID string) (bool, error)

	// CreateLink は紐付けを追加します。重複時はErrStudentAlreadyLinkedを返します。
	CreateLink(ctx context.Context, l *entity.Link) error

	// UpdateLinkStatus は紐付けの状態を更新します。紐付けがない場合はErrLinkNotFoundを返します。
	UpdateLinkStatus(ctx context.Context, instructorID, studentID string, status entity.LinkStatus) error

	// ListLinkedStudents は指導員に紐付いた生徒を開始日順に返します。Progressは設定されません。
	ListLinkedStudents(ctx context.Context, instructorID string) ([]entity.LinkedStudent, error)

	// ListEndedSessions は指導員が同乗した終了済みセッションを返します。
	ListEndedSessions(ctx context.Context, instructorID string, studentIDs []string) ([]entity.SessionSummary, error)

	// CountQuizzesPassed は生徒ごとに正答したクイズ問題の異なり数を返します。
	CountQuizzesPassed(ctx context.Context, studentIDs []string) (map[string]int, error)
}

// Transactor は1つの論理操作を1トランザクションで実行します。
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// instructorUsecase は指導員による生徒管理を実装します。
type instructorUsecase struct {
	repo InstructorRepository
	tx   Transactor
	now  func() time.Time
}

// NewInstructorUsecase はinstructorUsecaseの新しいインスタンスを生成します。
func NewInstructorUsecase(repo InstructorRepository, tx Transactor) *instructorUsecase {
	return &instructorUsecase{repo: repo, tx: tx, now: time.Now}
}

// AddStudent はソーシャルIDで生徒を検索し、有効な紐付けを作成します。
func (u *instructorUsecase) AddStudent(ctx context.Context, instructorID, socialID string) (*entity.LinkedStudent, error) {
	socialID = strings.TrimSpace(socialID)
	if socialID == "" {
		return nil, apperr.Validation("social id is required")
	}

	var added entity.LinkedStudent
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		student, err := u.repo.FindStudentBySocialID(ctx, socialID)
		if err != nil {
			if errors.Is(err, ErrStudentNotFound) {
				return err
			}
			return apperr.Storage("find student", err)
		}

		exists, err := u.repo.LinkExists(ctx, instructorID, student.ID)
		if err != nil {
			return apperr.Storage("check link", err)
		}
		if exists {
			return ErrStudentAlreadyLinked
		}

		link := &entity.Link{
			ID:           uuid.NewString(),
			InstructorID: instructorID,
			StudentID:    student.ID,
			Status:       entity.LinkActive,
			StartDate:    u.now().UTC(),
		}
		if err := u.repo.CreateLink(ctx, link); err != nil {
			if errors.Is(err, ErrStudentAlreadyLinked) {
				return err
			}
			return apperr.Storage("create link", err)
		}

		added = entity.LinkedStudent{Student: *student, StartDate: link.StartDate, Status: link.Status}
		progress, err := u.progress(ctx, instructorID, []string{student.ID})
		if err != nil {
			return err
		}
		added.Progress = progress[student.ID]
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("student linked", "instructor_id", instructorID, "student_id", added.ID)
	return &added, nil
}

// ListStudents は指導員に紐付いた生徒を進捗付きで返します。
func (u *instructorUsecase) ListStudents(ctx context.Context, instructorID string) ([]entity.LinkedStudent, error) {
	students, err := u.repo.ListLinkedStudents(ctx, instructorID)
	if err != nil {
		return nil, apperr.Storage("list students", err)
	}
	if len(students) == 0 {
		return []entity.LinkedStudent{}, nil
	}

	ids := make([]string, len(students))
	for i, s := range students {
		ids[i] = s.ID
	}
	progress, err := u.progress(ctx, instructorID, ids)
	if err != nil {
		return nil, err
	}
	for i := range students {
		students[i].Progress = progress[students[i].ID]
	}
	return students, nil
}

// SetStudentStatus は紐付けを有効化または無効化します。
func (u *instructorUsecase) SetStudentStatus(ctx context.Context, instructorID, studentID string, status entity.LinkStatus) error {
	if !status.Valid() {
		return apperr.Validation("status must be ACTIVE or INACTIVE")
	}
	if err := u.repo.UpdateLinkStatus(ctx, instructorID, studentID, status); err != nil {
		if errors.Is(err, ErrLinkNotFound) {
			return err
		}
		return apperr.Storage("update link status", err)
	}
	slog.Info("student link status changed", "instructor_id", instructorID, "student_id", studentID, "status", status)
	return nil
}

// progress は生徒ごとの進捗を2回のクエリでまとめて集計します。
func (u *instructorUsecase) progress(ctx context.Context, instructorID string, studentIDs []string) (map[string]entity.Progress, error) {
	sessions, err := u.repo.ListEndedSessions(ctx, instructorID, studentIDs)
	if err != nil {
		return nil, apperr.Storage("list ended sessions", err)
	}
	passed, err := u.repo.CountQuizzesPassed(ctx, studentIDs)
	if err != nil {
		return nil, apperr.Storage("count quizzes passed", err)
	}

	byStudent := make(map[string][]entity.SessionSummary, len(studentIDs))
	for _, s := range sessions {
		byStudent[s.StudentID] = append(byStudent[s.StudentID], s)
	}
	out := make(map[string]entity.Progress, len(studentIDs))
	for _, id := range studentIDs {
		out[id] = entity.ComputeProgress(byStudent[id], passed[id])
	}
	return out, nil
}
