// Package adapters はsessionsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"drive_backend/internal/feature/sessions/domain/entity"
	"drive_backend/internal/feature/sessions/usecase"
	"drive_backend/internal/platform/db"
)

// sessionGorm はSessionRepositoryインターフェースのGORM実装です。
type sessionGorm struct {
	db *gorm.DB
}

var _ usecase.SessionRepository = (*sessionGorm)(nil)

// NewSessionGorm はsessionGormの新しいインスタンスを生成します。
func NewSessionGorm(gdb *gorm.DB) *sessionGorm {
	return &sessionGorm{db: gdb}
}

// Models はsessionsフィーチャーのマイグレーション対象を返します。
func Models() []any {
	return []any{&entity.DrivingSession{}, &entity.Route{}, &entity.SpeedEvent{}, &entity.SessionNote{}}
}

// Create はセッションを追加します。Routeが設定されていれば同時に追加されます。
func (r *sessionGorm) Create(ctx context.Context, s *entity.DrivingSession) error {
	return db.Conn(ctx, r.db).Create(s).Error
}

// FindByID はセッションをルート付きで取得します。
func (r *sessionGorm) FindByID(ctx context.Context, id string) (*entity.DrivingSession, error) {
	var s entity.DrivingSession
	err := db.Conn(ctx, r.db).Preload("Route").Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// SaveEnd は終了時に変化する列とルートの終点のみを更新します。
// ルートがまだ保存されていない場合は新規に作成します。
func (r *sessionGorm) SaveEnd(ctx context.Context, s *entity.DrivingSession) error {
	conn := db.Conn(ctx, r.db)
	res := conn.Model(&entity.DrivingSession{}).
		Where("id = ?", s.ID).
		Updates(map[string]any{
			"end_time": s.EndTime,
			"distance": s.Distance,
			"rating":   s.Rating,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrSessionNotFound
	}
	if s.Route == nil {
		return nil
	}
	res = conn.Model(&entity.Route{}).
		Where("session_id = ?", s.ID).
		Updates(map[string]any{
			"end_location": s.Route.EndLocation,
			"waypoints":    s.Route.Waypoints,
		})
	if res.Error != nil {
		return res.Error
	}
	// 開始時にルートがなかったセッションはここで作成する
	if res.RowsAffected == 0 {
		return conn.Create(s.Route).Error
	}
	return nil
}

// ListByParticipant は生徒または指導員として参加したセッションを開始時刻の新しい順に返します。
func (r *sessionGorm) ListByParticipant(ctx context.Context, userID string) ([]entity.DrivingSession, error) {
	var list []entity.DrivingSession
	err := db.Conn(ctx, r.db).
		Preload("Route").
		Where("student_id = ? OR instructor_id = ?", userID, userID).
		Order("start_time DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// InsertSpeedEvent は速度イベントを1件追加します。
func (r *sessionGorm) InsertSpeedEvent(ctx context.Context, e *entity.SpeedEvent) error {
	return db.Conn(ctx, r.db).Create(e).Error
}

// ListSpeedEvents はセッションの速度イベントを時刻順に返します。
func (r *sessionGorm) ListSpeedEvents(ctx context.Context, sessionID string) ([]entity.SpeedEvent, error) {
	var list []entity.SpeedEvent
	if err := db.Conn(ctx, r.db).Where("session_id = ?", sessionID).Order("recorded_at ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// InsertNote はメモを1件追加します。
func (r *sessionGorm) InsertNote(ctx context.Context, n *entity.SessionNote) error {
	return db.Conn(ctx, r.db).Create(n).Error
}

// ListNotes はセッションのメモを時刻順に返します。
func (r *sessionGorm) ListNotes(ctx context.Context, sessionID string) ([]entity.SessionNote, error) {
	var list []entity.SessionNote
	if err := db.Conn(ctx, r.db).Where("session_id = ?", sessionID).Order("created_at ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
