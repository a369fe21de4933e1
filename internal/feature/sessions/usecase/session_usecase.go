// Package usecase は運転セッションのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"drive_backend/internal/feature/sessions/domain/entity"
	"drive_backend/internal/platform/metrics"
	"drive_backend/internal/shared/apperr"
)

const (
	// maxWeatherLength は天候の説明の最大文字数です。
	maxWeatherLength = 64
	// maxNoteLength はメモ本文の最大文字数です。
	maxNoteLength = 2000
)

// SessionRepository は運転セッションの永続化層を抽象化します。
type SessionRepository interface {
	// Create はセッションをルート付きで追加します。
	Create(ctx context.Context, s *entity.DrivingSession) error

	// FindByID はセッションをルート付きで取得します。存在しない場合はErrSessionNotFoundを返します。
	FindByID(ctx context.Context, id string) (*entity.DrivingSession, error)

	// SaveEnd は終了時刻・距離・評価とルートの終点を保存します。
	SaveEnd(ctx context.Context, s *entity.DrivingSession) error

	// ListByParticipant は生徒または指導員として参加したセッションを開始時刻の新しい順に返します。
	ListByParticipant(ctx context.Context, userID string) ([]entity.DrivingSession, error)

	InsertSpeedEvent(ctx context.Context, e *entity.SpeedEvent) error
	ListSpeedEvents(ctx context.Context, sessionID string) ([]entity.SpeedEvent, error)

	InsertNote(ctx context.Context, n *entity.SessionNote) error
	ListNotes(ctx context.Context, sessionID string) ([]entity.SessionNote, error)
}

// LinkChecker は指導員と生徒の有効な紐付けを確認します。
type LinkChecker interface {
	IsActiveLink(ctx context.Context, instructorID, studentID string) (bool, error)
}

// Transactor は1つの論理操作を1トランザクションで実行します。
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// StartInput はセッション開始の入力値です。
type StartInput struct {
	StartLocation entity.Location
	StartTime     time.Time
	Weather       string
	// InstructorID は同乗する指導員です。指定する場合は有効な紐付けが必要です。
	InstructorID *string
}

// EndInput はセッション終了の入力値です。
type EndInput struct {
	EndLocation entity.Location
	// Distance は走行距離（km）です。nilの場合は変更しません。
	Distance *float64
	// Rating は0〜5の評価です。
	Rating *int
}

// SpeedEventInput は速度イベント記録の入力値です。
type SpeedEventInput struct {
	SessionID  string
	Speed      float64
	SpeedLimit float64
	Location   entity.Location
}

// SessionDetail はセッションと付随する記録です。
type SessionDetail struct {
	Session     entity.DrivingSession
	SpeedEvents []entity.SpeedEvent
	Notes       []entity.SessionNote
}

// sessionUsecase は運転セッションのビジネスロジックを実装します。
type sessionUsecase struct {
	repo  SessionRepository
	links LinkChecker
	tx    Transactor
	now   func() time.Time
}

// NewSessionUsecase はsessionUsecaseの新しいインスタンスを生成します。
func NewSessionUsecase(repo SessionRepository, links LinkChecker, tx Transactor) *sessionUsecase {
	return &sessionUsecase{repo: repo, links: links, tx: tx, now: time.Now}
}

// StartSession は生徒のセッションを開始し、開始地点から始まるルートを同じトランザクションで作成します。
func (u *sessionUsecase) StartSession(ctx context.Context, studentID string, in StartInput) (*entity.DrivingSession, error) {
	weather := strings.TrimSpace(in.Weather)
	if weather == "" {
		return nil, apperr.Validation("weather is required")
	}
	if utf8.RuneCountInString(weather) > maxWeatherLength {
		return nil, apperr.Validation("weather is too long")
	}
	if in.StartTime.IsZero() {
		return nil, apperr.Validation("start time is required")
	}
	if err := in.StartLocation.Validate(); err != nil {
		return nil, err
	}

	if in.InstructorID != nil {
		ok, err := u.links.IsActiveLink(ctx, *in.InstructorID, studentID)
		if err != nil {
			return nil, apperr.Storage("check instructor link", err)
		}
		if !ok {
			return nil, ErrInstructorNotLinked
		}
	}

	s := &entity.DrivingSession{
		ID:           uuid.NewString(),
		StudentID:    studentID,
		InstructorID: in.InstructorID,
		StartTime:    in.StartTime.UTC(),
		Weather:      weather,
	}
	s.Route = entity.NewRoute(uuid.NewString(), s.ID, in.StartLocation)

	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return u.repo.Create(ctx, s)
	})
	if err != nil {
		return nil, apperr.Storage("create session", err)
	}

	metrics.SessionsTotal.WithLabelValues("started").Inc()
	slog.Info("driving session started", "session_id", s.ID, "student_id", studentID)
	return s, nil
}

// EndSession は呼び出し元の生徒のセッションを終了します。
// 他人のセッションは存在しないものとして扱い、ErrSessionNotFoundを返します。
func (u *sessionUsecase) EndSession(ctx context.Context, studentID, sessionID string, in EndInput) (*entity.DrivingSession, error) {
	if err := in.EndLocation.Validate(); err != nil {
		return nil, err
	}
	if in.Distance != nil && *in.Distance < 0 {
		return nil, apperr.Validation("distance must not be negative")
	}
	if in.Rating != nil && (*in.Rating < 0 || *in.Rating > entity.MaxRating) {
		return nil, apperr.Validation("rating must be between 0 and " + strconv.Itoa(entity.MaxRating))
	}

	var s *entity.DrivingSession
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		s, err = u.ownedSession(ctx, studentID, sessionID)
		if err != nil {
			return err
		}
		if s.Ended() {
			return ErrSessionEnded
		}

		end := u.now().UTC()
		s.EndTime = &end
		if in.Distance != nil {
			s.Distance = *in.Distance
		}
		if in.Rating != nil {
			r := *in.Rating
			s.Rating = &r
		}
		if s.Route == nil {
			s.Route = entity.NewRoute(uuid.NewString(), s.ID, in.EndLocation)
		}
		s.Route.Finish(in.EndLocation)

		if err := u.repo.SaveEnd(ctx, s); err != nil {
			return apperr.Storage("end session", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.SessionsTotal.WithLabelValues("ended").Inc()
	slog.Info("driving session ended", "session_id", s.ID, "student_id", studentID, "duration", s.Duration().String())
	return s, nil
}

// RecordSpeedEvent は呼び出し元の進行中セッションに速度サンプルを記録します。
func (u *sessionUsecase) RecordSpeedEvent(ctx context.Context, studentID string, in SpeedEventInput) (*entity.SpeedEvent, error) {
	if in.SessionID == "" {
		return nil, apperr.Validation("session id is required")
	}
	if in.Speed < 0 {
		return nil, apperr.Validation("speed must not be negative")
	}
	if in.SpeedLimit <= 0 {
		return nil, apperr.Validation("speed limit must be positive")
	}
	if err := in.Location.Validate(); err != nil {
		return nil, err
	}

	s, err := u.ownedSession(ctx, studentID, in.SessionID)
	if err != nil {
		return nil, err
	}
	if s.Ended() {
		return nil, ErrSessionEnded
	}

	e := &entity.SpeedEvent{
		ID:         uuid.NewString(),
		SessionID:  s.ID,
		Speed:      in.Speed,
		SpeedLimit: in.SpeedLimit,
		Location:   datatypes.NewJSONType(in.Location),
		RecordedAt: u.now().UTC(),
	}
	if err := u.repo.InsertSpeedEvent(ctx, e); err != nil {
		return nil, apperr.Storage("insert speed event", err)
	}
	metrics.SpeedEventsTotal.WithLabelValues(strconv.FormatBool(e.Speeding())).Inc()
	return e, nil
}

// AddNote はセッションにメモを追加します。生徒本人または同乗した指導員のみ追加できます。
func (u *sessionUsecase) AddNote(ctx context.Context, userID, sessionID, content string) (*entity.SessionNote, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("content is required")
	}
	if utf8.RuneCountInString(content) > maxNoteLength {
		return nil, apperr.Validation("content is too long")
	}

	if _, err := u.visibleSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	n := &entity.SessionNote{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		AuthorID:  userID,
		Content:   content,
		CreatedAt: u.now().UTC(),
	}
	if err := u.repo.InsertNote(ctx, n); err != nil {
		return nil, apperr.Storage("insert note", err)
	}
	return n, nil
}

// ListSessions は呼び出し元が参加したセッションを新しい順に返します。
func (u *sessionUsecase) ListSessions(ctx context.Context, userID string) ([]entity.DrivingSession, error) {
	list, err := u.repo.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, apperr.Storage("list sessions", err)
	}
	if list == nil {
		list = []entity.DrivingSession{}
	}
	return list, nil
}

// GetSession はセッションを速度イベントとメモ付きで返します。
func (u *sessionUsecase) GetSession(ctx context.Context, userID, sessionID string) (*SessionDetail, error) {
	s, err := u.visibleSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	events, err := u.repo.ListSpeedEvents(ctx, s.ID)
	if err != nil {
		return nil, apperr.Storage("list speed events", err)
	}
	notes, err := u.repo.ListNotes(ctx, s.ID)
	if err != nil {
		return nil, apperr.Storage("list notes", err)
	}
	return &SessionDetail{Session: *s, SpeedEvents: events, Notes: notes}, nil
}

// ownedSession は生徒本人のセッションのみを返します。
func (u *sessionUsecase) ownedSession(ctx context.Context, studentID, sessionID string) (*entity.DrivingSession, error) {
	s, err := u.find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.StudentID != studentID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// visibleSession は生徒本人または同乗した指導員に見えるセッションのみを返します。
func (u *sessionUsecase) visibleSession(ctx context.Context, userID, sessionID string) (*entity.DrivingSession, error) {
	s, err := u.find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.VisibleTo(userID) {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (u *sessionUsecase) find(ctx context.Context, sessionID string) (*entity.DrivingSession, error) {
	s, err := u.repo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, apperr.Storage("find session", err)
	}
	return s, nil
}
