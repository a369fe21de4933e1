package di

import (
	"gorm.io/gorm"

	instructoradapters "drive_backend/internal/feature/instructor/adapters"
	instructorhandler "drive_backend/internal/feature/instructor/transport/handler"
	instructorusecase "drive_backend/internal/feature/instructor/usecase"
	sessionsadapters "drive_backend/internal/feature/sessions/adapters"
	sessionshandler "drive_backend/internal/feature/sessions/transport/handler"
	sessionsusecase "drive_backend/internal/feature/sessions/usecase"
	"drive_backend/internal/platform/db"
)

// NewSessionHandler はSessionHandlerを生成します。
// 指導員との紐付け確認にはinstructorフィーチャーのリポジトリを使います。
func NewSessionHandler(gdb *gorm.DB, tx *db.Transactor) *sessionshandler.SessionHandler {
	uc := sessionsusecase.NewSessionUsecase(
		sessionsadapters.NewSessionGorm(gdb),
		instructoradapters.NewInstructorGorm(gdb),
		tx,
	)
	return sessionshandler.NewSessionHandler(uc)
}

// NewInstructorHandler はInstructorHandlerを生成します。
func NewInstructorHandler(gdb *gorm.DB, tx *db.Transactor) *instructorhandler.InstructorHandler {
	uc := instructorusecase.NewInstructorUsecase(instructoradapters.NewInstructorGorm(gdb), tx)
	return instructorhandler.NewInstructorHandler(uc)
}
