// Package entity defines the instructor/student relationship and progress entities.
package entity

import (
	"math"
	"time"
)

// LinkStatus is the state of an instructor/student relationship.
type LinkStatus string

const (
	LinkActive   LinkStatus = "ACTIVE"
	LinkInactive LinkStatus = "INACTIVE"
)

// Valid reports whether s is a known status.
func (s LinkStatus) Valid() bool {
	return s == LinkActive || s == LinkInactive
}

// Link connects an instructor to a student. A pair is linked at most once.
type Link struct {
	ID           string     `gorm:"primaryKey;size:36"`
	InstructorID string     `gorm:"size:36;not null;uniqueIndex:idx_instructor_student"`
	StudentID    string     `gorm:"size:36;not null;uniqueIndex:idx_instructor_student;index"`
	Status       LinkStatus `gorm:"size:16;not null"`
	StartDate    time.Time  `gorm:"not null"`
}

// TableName keeps the relationship table name independent of the Go type name.
func (Link) TableName() string { return "instructor_students" }

// Student is the public identity of a student as seen by an instructor.
type Student struct {
	ID       string
	Name     string
	Email    string
	SocialID string
}

// Progress summarises a student's practice under one instructor.
type Progress struct {
	PracticeHours     float64
	CompletedSessions int
	AverageRating     float64
	QuizzesPassed     int
}

// LinkedStudent is a student together with the link and progress.
type LinkedStudent struct {
	Student
	StartDate time.Time
	Status    LinkStatus
	Progress  Progress
}

// SessionSummary is the part of an ended driving session progress is computed from.
type SessionSummary struct {
	StudentID string
	StartTime time.Time
	EndTime   time.Time
	Rating    *int
}

// ComputeProgress aggregates ended sessions. Hours and the average rating are rounded to one decimal.
// Sessions without a rating do not count towards the average.
func ComputeProgress(sessions []SessionSummary, quizzesPassed int) Progress {
	var (
		hours   float64
		ratings int
		rated   int
	)
	for _, s := range sessions {
		if d := s.EndTime.Sub(s.StartTime); d > 0 {
			hours += d.Hours()
		}
		if s.Rating != nil {
			ratings += *s.Rating
			rated++
		}
	}

	p := Progress{
		PracticeHours:     round1(hours),
		CompletedSessions: len(sessions),
		QuizzesPassed:     quizzesPassed,
	}
	if rated > 0 {
		p.AverageRating = round1(float64(ratings) / float64(rated))
	}
	return p
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
