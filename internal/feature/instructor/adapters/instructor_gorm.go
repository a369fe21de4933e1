// Package adapters はinstructorフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	authentity "drive_backend/internal/feature/auth/domain/entity"
	"drive_backend/internal/feature/instructor/domain/entity"
	"drive_backend/internal/feature/instructor/usecase"
	rulesentity "drive_backend/internal/feature/rules/domain/entity"
	sessionentity "drive_backend/internal/feature/sessions/domain/entity"
	sessionusecase "drive_backend/internal/feature/sessions/usecase"
	"drive_backend/internal/platform/db"
)

// instructorGorm はInstructorRepositoryインターフェースのGORM実装です。
// 生徒・セッション・クイズ結果は各フィーチャーのテーブルを読み取り専用で参照します。
type instructorGorm struct {
	db *gorm.DB
}

var (
	_ usecase.InstructorRepository = (*instructorGorm)(nil)
	_ sessionusecase.LinkChecker   = (*instructorGorm)(nil)
)

// NewInstructorGorm はinstructorGormの新しいインスタンスを生成します。
func NewInstructorGorm(gdb *gorm.DB) *instructorGorm {
	return &instructorGorm{db: gdb}
}

// FindStudentBySocialID はロールがSTUDENTのユーザーをソーシャルIDで取得します。
func (r *instructorGorm) FindStudentBySocialID(ctx context.Context, socialID string) (*entity.Student, error) {
	var u authentity.User
	err := db.Conn(ctx, r.db).
		Where("social_id = ? AND role = ?", socialID, authentity.RoleStudent).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrStudentNotFound
		}
		return nil, err
	}
	s := &entity.Student{ID: u.ID, Name: u.Name, Email: u.Email}
	if u.SocialID != nil {
		s.SocialID = *u.SocialID
	}
	return s, nil
}

// LinkExists は紐付けが状態に関わらず存在するかを返します。
func (r *instructorGorm) LinkExists(ctx context.Context, instructorID, studentID string) (bool, error) {
	var count int64
	err := db.Conn(ctx, r.db).Model(&entity.Link{}).
		Where("instructor_id = ? AND student_id = ?", instructorID, studentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsActiveLink は有効な紐付けが存在するかを返します。
func (r *instructorGorm) IsActiveLink(ctx context.Context, instructorID, studentID string) (bool, error) {
	var count int64
	err := db.Conn(ctx, r.db).Model(&entity.Link{}).
		Where("instructor_id = ? AND student_id = ? AND status = ?", instructorID, studentID, entity.LinkActive).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateLink は紐付けを追加します。一意制約違反はErrStudentAlreadyLinkedに変換します。
func (r *instructorGorm) CreateLink(ctx context.Context, l *entity.Link) error {
	if err := db.Conn(ctx, r.db).Create(l).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return usecase.ErrStudentAlreadyLinked
		}
		return err
	}
	return nil
}

// UpdateLinkStatus は紐付けの状態を更新します。
func (r *instructorGorm) UpdateLinkStatus(ctx context.Context, instructorID, studentID string, status entity.LinkStatus) error {
	res := db.Conn(ctx, r.db).Model(&entity.Link{}).
		Where("instructor_id = ? AND student_id = ?", instructorID, studentID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrLinkNotFound
	}
	return nil
}

// linkedStudentRow はusersとinstructor_studentsの結合結果です。
type linkedStudentRow struct {
	ID        string
	Name      string
	Email     string
	SocialID  *string
	StartDate time.Time
	Status    string
}

// ListLinkedStudents は指導員に紐付いた生徒を開始日順に返します。
func (r *instructorGorm) ListLinkedStudents(ctx context.Context, instructorID string) ([]entity.LinkedStudent, error) {
	var rows []linkedStudentRow
	err := db.Conn(ctx, r.db).
		Table("instructor_students AS l").
		Select("u.id, u.name, u.email, u.social_id, l.start_date, l.status").
		Joins("JOIN users AS u ON u.id = l.student_id").
		Where("l.instructor_id = ? AND u.role = ?", instructorID, authentity.RoleStudent).
		Order("l.start_date ASC").
		Order("u.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]entity.LinkedStudent, 0, len(rows))
	for _, row := range rows {
		s := entity.LinkedStudent{
			Student:   entity.Student{ID: row.ID, Name: row.Name, Email: row.Email},
			StartDate: row.StartDate,
			Status:    entity.LinkStatus(row.Status),
		}
		if row.SocialID != nil {
			s.SocialID = *row.SocialID
		}
		out = append(out, s)
	}
	return out, nil
}

// ListEndedSessions は指導員が同乗した生徒の終了済みセッションを返します。
func (r *instructorGorm) ListEndedSessions(ctx context.Context, instructorID string, studentIDs []string) ([]entity.SessionSummary, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	var out []entity.SessionSummary
	err := db.Conn(ctx, r.db).Model(&sessionentity.DrivingSession{}).
		Select("student_id, start_time, end_time, rating").
		Where("instructor_id = ? AND student_id IN ? AND end_time IS NOT NULL", instructorID, studentIDs).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

type quizCountRow struct {
	UserID string
	Passed int
}

// CountQuizzesPassed は生徒ごとに正答したクイズ問題の異なり数を返します。
func (r *instructorGorm) CountQuizzesPassed(ctx context.Context, studentIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(studentIDs))
	if len(studentIDs) == 0 {
		return out, nil
	}
	var rows []quizCountRow
	err := db.Conn(ctx, r.db).Model(&rulesentity.QuizResult{}).
		Select("user_id, COUNT(DISTINCT question_id) AS passed").
		Where("user_id IN ? AND is_correct = ?", studentIDs, true).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.UserID] = row.Passed
	}
	return out, nil
}
