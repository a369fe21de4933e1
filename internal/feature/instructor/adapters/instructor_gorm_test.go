package adapters

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	authentity "drive_backend/internal/feature/auth/domain/entity"
	"drive_backend/internal/feature/instructor/domain/entity"
	"drive_backend/internal/feature/instructor/usecase"
	rulesentity "drive_backend/internal/feature/rules/domain/entity"
	sessionentity "drive_backend/internal/feature/sessions/domain/entity"
	"drive_backend/internal/platform/config"
	"drive_backend/internal/platform/db"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(config.DBConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "instructor.db")})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb,
		&authentity.User{}, &entity.Link{},
		&sessionentity.DrivingSession{}, &sessionentity.Route{},
		&rulesentity.QuizResult{},
	))
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

var base = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func createUser(t *testing.T, gdb *gorm.DB, name string, role authentity.Role, socialID *string) string {
	t.Helper()
	u := &authentity.User{
		ID: uuid.NewString(), Email: uuid.NewString() + "@example.be", Password: "hash",
		Name: name, Role: role, SocialID: socialID,
	}
	if role == authentity.RoleStudent {
		u.ProfileType = strPtr("BEGINNER")
	}
	require.NoError(t, gdb.Create(u).Error)
	return u.ID
}

func createSession(t *testing.T, gdb *gorm.DB, studentID string, instructorID *string, minutes int, rating *int) {
	t.Helper()
	s := &sessionentity.DrivingSession{
		ID: uuid.NewString(), StudentID: studentID, InstructorID: instructorID,
		StartTime: base, Weather: "dry", Rating: rating,
	}
	if minutes > 0 {
		end := base.Add(time.Duration(minutes) * time.Minute)
		s.EndTime = &end
	}
	require.NoError(t, gdb.Create(s).Error)
}

func answer(t *testing.T, gdb *gorm.DB, userID, questionID string, correct bool) {
	t.Helper()
	require.NoError(t, gdb.Create(&rulesentity.QuizResult{
		ID: uuid.NewString(), UserID: userID, QuestionID: questionID, IsCorrect: correct, CompletedAt: base,
	}).Error)
}

func TestInstructorGorm_FindStudentBySocialID(t *testing.T) {
	t.Parallel()

	gdb := setupTestDB(t)
	repo := NewInstructorGorm(gdb)
	ctx := context.Background()

	id := createUser(t, gdb, "Lotte Peeters", authentity.RoleStudent, strPtr("#lotte-peeters1234"))
	createUser(t, gdb, "Marc Dubois", authentity.RoleInstructor, nil)

	s, err := repo.FindStudentBySocialID(ctx, "#lotte-peeters1234")
	require.NoError(t, err)
	assert.Equal(t, id, s.ID)
	assert.Equal(t, "Lotte Peeters", s.Name)
	assert.Equal(t, "#lotte-peeters1234", s.SocialID)

	_, err = repo.FindStudentBySocialID(ctx, "#unknown0000")
	assert.ErrorIs(t, err, usecase.ErrStudentNotFound)
}

func TestInstructorGorm_Links(t *testing.T) {
	t.Parallel()

	gdb := setupTestDB(t)
	repo := NewInstructorGorm(gdb)
	ctx := context.Background()

	link := &entity.Link{ID: uuid.NewString(), InstructorID: "i-1", StudentID: "s-1", Status: entity.LinkActive, StartDate: base}
	require.NoError(t, repo.CreateLink(ctx, link))

	dup := *link
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, repo.CreateLink(ctx, &dup), usecase.ErrStudentAlreadyLinked)

	exists, err := repo.LinkExists(ctx, "i-1", "s-1")
	require.NoError(t, err)
	assert.True(t, exists)

	active, err := repo.IsActiveLink(ctx, "i-1", "s-1")
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, repo.UpdateLinkStatus(ctx, "i-1", "s-1", entity.LinkInactive))
	active, err = repo.IsActiveLink(ctx, "i-1", "s-1")
	require.NoError(t, err)
	assert.False(t, active)

	exists, err = repo.LinkExists(ctx, "i-1", "s-1")
	require.NoError(t, err)
	assert.True(t, exists, "inactive links still exist")

	assert.ErrorIs(t, repo.UpdateLinkStatus(ctx, "i-1", "s-9", entity.LinkActive), usecase.ErrLinkNotFound)
}

func TestInstructorGorm_ListStudentsWithProgress(t *testing.T) {
	t.Parallel()

	gdb := setupTestDB(t)
	repo := NewInstructorGorm(gdb)
	uc := usecase.NewInstructorUsecase(repo, db.NewTransactor(gdb))
	ctx := context.Background()

	instructor := createUser(t, gdb, "Marc Dubois", authentity.RoleInstructor, nil)
	other := createUser(t, gdb, "Anne Claes", authentity.RoleInstructor, nil)
	lotte := createUser(t, gdb, "Lotte Peeters", authentity.RoleStudent, strPtr("#lotte-peeters1234"))
	jonas := createUser(t, gdb, "Jonas Maes", authentity.RoleStudent, strPtr("#jonas-maes5678"))

	for _, sid := range []string{"#lotte-peeters1234", "#jonas-maes5678"} {
		_, err := uc.AddStudent(ctx, instructor, sid)
		require.NoError(t, err)
	}

	four, five := 4, 5
	createSession(t, gdb, lotte, &instructor, 60, &four)
	createSession(t, gdb, lotte, &instructor, 30, &five)
	createSession(t, gdb, lotte, &instructor, 0, nil) // still running
	createSession(t, gdb, lotte, &other, 120, &five)  // other instructor
	createSession(t, gdb, lotte, nil, 240, nil)       // unsupervised

	answer(t, gdb, lotte, "q-1", true)
	answer(t, gdb, lotte, "q-1", true)
	answer(t, gdb, lotte, "q-2", true)
	answer(t, gdb, lotte, "q-3", false)
	answer(t, gdb, jonas, "q-3", false)

	list, err := uc.ListStudents(ctx, instructor)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byID := map[string]entity.LinkedStudent{}
	for _, s := range list {
		byID[s.ID] = s
	}
	assert.Equal(t, entity.Progress{PracticeHours: 1.5, CompletedSessions: 2, AverageRating: 4.5, QuizzesPassed: 2}, byID[lotte].Progress)
	assert.Equal(t, entity.Progress{}, byID[jonas].Progress)
	assert.Equal(t, entity.LinkActive, byID[jonas].Status)
	assert.Equal(t, "#jonas-maes5678", byID[jonas].SocialID)

	none, err := uc.ListStudents(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = uc.AddStudent(ctx, instructor, "#lotte-peeters1234")
	assert.ErrorIs(t, err, usecase.ErrStudentAlreadyLinked)
}
