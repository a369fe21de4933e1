// Package handler はsessionsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"drive_backend/internal/feature/sessions/domain/entity"
	"drive_backend/internal/feature/sessions/transport/http/dto"
	"drive_backend/internal/feature/sessions/usecase"
	"drive_backend/internal/platform/http/respond"
	jwtmw "drive_backend/internal/platform/jwt"
)

// SessionUsecase は運転セッション操作のユースケースを定義します。
type SessionUsecase interface {
	StartSession(ctx context.Context, studentID string, in usecase.StartInput) (*entity.DrivingSession, error)
	EndSession(ctx context.Context, studentID, sessionID string, in usecase.EndInput) (*entity.DrivingSession, error)
	RecordSpeedEvent(ctx context.Context, studentID string, in usecase.SpeedEventInput) (*entity.SpeedEvent, error)
	AddNote(ctx context.Context, userID, sessionID, content string) (*entity.SessionNote, error)
	ListSessions(ctx context.Context, userID string) ([]entity.DrivingSession, error)
	GetSession(ctx context.Context, userID, sessionID string) (*usecase.SessionDetail, error)
}

// SessionHandler は運転セッションAPIのHTTPリクエストを処理します。
type SessionHandler struct {
	uc SessionUsecase
}

// NewSessionHandler はSessionHandlerの新しいインスタンスを生成します。
func NewSessionHandler(uc SessionUsecase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

// List は認証済みユーザーのセッションを新しい順に返します。
func (h *SessionHandler) List(c *gin.Context) {
	userID, _ := jwtmw.UserID(c)
	list, err := h.uc.ListSessions(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, "list sessions", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSessionResponses(list))
}

// Get はセッションを速度イベントとメモ付きで返します。
func (h *SessionHandler) Get(c *gin.Context) {
	userID, _ := jwtmw.UserID(c)
	d, err := h.uc.GetSession(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respond.Error(c, "get session", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSessionDetailResponse(d))
}

// Start は新しいセッションを開始し、201を返します。
func (h *SessionHandler) Start(c *gin.Context) {
	var req dto.StartSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "start session", err)
		return
	}
	userID, _ := jwtmw.UserID(c)
	s, err := h.uc.StartSession(c.Request.Context(), userID, usecase.StartInput{
		StartLocation: req.StartLocation.Location(),
		StartTime:     req.StartTime,
		Weather:       req.Weather,
		InstructorID:  req.InstructorID,
	})
	if err != nil {
		respond.Error(c, "start session", err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSessionResponse(s))
}

// End は呼び出し元のセッションを終了します。他人のセッションは404です。
func (h *SessionHandler) End(c *gin.Context) {
	var req dto.EndSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "end session", err)
		return
	}
	userID, _ := jwtmw.UserID(c)
	s, err := h.uc.EndSession(c.Request.Context(), userID, c.Param("id"), usecase.EndInput{
		EndLocation: req.EndLocation.Location(),
		Distance:    req.Distance,
		Rating:      req.Rating,
	})
	if err != nil {
		respond.Error(c, "end session", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSessionResponse(s))
}

// RecordSpeedEvent は進行中のセッションに速度サンプルを記録します。
func (h *SessionHandler) RecordSpeedEvent(c *gin.Context) {
	var req dto.SpeedEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "record speed event", err)
		return
	}
	userID, _ := jwtmw.UserID(c)
	e, err := h.uc.RecordSpeedEvent(c.Request.Context(), userID, usecase.SpeedEventInput{
		SessionID:  req.SessionID,
		Speed:      *req.Speed,
		SpeedLimit: req.SpeedLimit,
		Location:   req.Location.Location(),
	})
	if err != nil {
		respond.Error(c, "record speed event", err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSpeedEventResponse(e))
}

// AddNote はセッションにメモを追加します。
func (h *SessionHandler) AddNote(c *gin.Context) {
	var req dto.NoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "add note", err)
		return
	}
	userID, _ := jwtmw.UserID(c)
	n, err := h.uc.AddNote(c.Request.Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		respond.Error(c, "add note", err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewNoteResponse(n))
}
