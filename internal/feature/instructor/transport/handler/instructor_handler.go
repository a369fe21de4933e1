// Package handler はinstructorフィーチャーのHTTPハンドラーを提供します。
// すべてのエンドポイントはAuthRequiredとRequireRole(INSTRUCTOR)の後段で使用します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"drive_backend/internal/feature/instructor/domain/entity"
	"drive_backend/internal/feature/instructor/transport/http/dto"
	"drive_backend/internal/platform/http/respond"
	jwtmw "drive_backend/internal/platform/jwt"
)

// InstructorUsecase は指導員による生徒管理のユースケースを定義します。
type InstructorUsecase interface {
	AddStudent(ctx context.Context, instructorID, socialID string) (*entity.LinkedStudent, error)
	ListStudents(ctx context.Context, instructorID string) ([]entity.LinkedStudent, error)
	SetStudentStatus(ctx context.Context, instructorID, studentID string, status entity.LinkStatus) error
}

// InstructorHandler は指導員APIのHTTPリクエストを処理します。
type InstructorHandler struct {
	uc InstructorUsecase
}

// NewInstructorHandler はInstructorHandlerの新しいインスタンスを生成します。
func NewInstructorHandler(uc InstructorUsecase) *InstructorHandler {
	return &InstructorHandler{uc: uc}
}

// AddStudent はソーシャルIDで生徒を追加し、201を返します。
// 生徒が存在しない場合は404、既に追加済みの場合は409を返します。
func (h *InstructorHandler) AddStudent(c *gin.Context) {
	var req dto.AddStudentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "add student", err)
		return
	}
	instructorID, _ := jwtmw.UserID(c)
	s, err := h.uc.AddStudent(c.Request.Context(), instructorID, req.SocialID)
	if err != nil {
		respond.Error(c, "add student", err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewStudentResponse(s))
}

// ListStudents は紐付いた生徒を進捗付きで返します。
func (h *InstructorHandler) ListStudents(c *gin.Context) {
	instructorID, _ := jwtmw.UserID(c)
	list, err := h.uc.ListStudents(c.Request.Context(), instructorID)
	if err != nil {
		respond.Error(c, "list students", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStudentResponses(list))
}

// SetStatus は生徒との紐付けの状態を変更し、204を返します。
func (h *InstructorHandler) SetStatus(c *gin.Context) {
	var req dto.StatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "set student status", err)
		return
	}
	instructorID, _ := jwtmw.UserID(c)
	if err := h.uc.SetStudentStatus(c.Request.Context(), instructorID, c.Param("studentId"), entity.LinkStatus(req.Status)); err != nil {
		respond.Error(c, "set student status", err)
		return
	}
	c.Status(http.StatusNoContent)
}
