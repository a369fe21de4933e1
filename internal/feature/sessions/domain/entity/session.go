// Package entity defines the driving session entities.
package entity

import (
	"time"

	"gorm.io/datatypes"

	"drive_backend/internal/shared/apperr"
)

// MaxRating is the highest rating an instructor can give a session.
const MaxRating = 5

// Location is a WGS84 coordinate.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate rejects coordinates outside the valid latitude/longitude range.
func (l Location) Validate() error {
	if l.Lat < -90 || l.Lat > 90 {
		return apperr.Validation("latitude must be between -90 and 90")
	}
	if l.Lng < -180 || l.Lng > 180 {
		return apperr.Validation("longitude must be between -180 and 180")
	}
	return nil
}

// DrivingSession is one practice drive of a student, optionally supervised by an instructor.
type DrivingSession struct {
	ID           string    `gorm:"primaryKey;size:36"`
	StudentID    string    `gorm:"size:36;not null;index"`
	InstructorID *string   `gorm:"size:36;index"`
	StartTime    time.Time `gorm:"not null;index"`
	EndTime      *time.Time
	Distance     float64 `gorm:"not null;default:0"`
	Weather      string  `gorm:"size:64;not null"`
	Rating       *int
	Route        *Route `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Ended reports whether the session has been closed.
func (s *DrivingSession) Ended() bool {
	return s.EndTime != nil
}

// Duration returns the driving time of an ended session, or zero while it is still running.
func (s *DrivingSession) Duration() time.Duration {
	if s.EndTime == nil || s.EndTime.Before(s.StartTime) {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// VisibleTo reports whether userID is the student or the supervising instructor.
func (s *DrivingSession) VisibleTo(userID string) bool {
	return s.StudentID == userID || (s.InstructorID != nil && *s.InstructorID == userID)
}

// Route is the path driven during a session.
// Waypoints always starts with the start location.
type Route struct {
	ID            string                        `gorm:"primaryKey;size:36"`
	SessionID     string                        `gorm:"size:36;not null;uniqueIndex"`
	StartLocation datatypes.JSONType[Location]  `gorm:"not null"`
	EndLocation   datatypes.JSONType[Location]  `gorm:"not null"`
	Waypoints     datatypes.JSONSlice[Location] `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewRoute starts a route at loc. The end location equals the start until the session ends.
func NewRoute(id, sessionID string, loc Location) *Route {
	return &Route{
		ID:            id,
		SessionID:     sessionID,
		StartLocation: datatypes.NewJSONType(loc),
		EndLocation:   datatypes.NewJSONType(loc),
		Waypoints:     datatypes.JSONSlice[Location]{loc},
	}
}

// Finish sets the end location and appends it to the waypoints.
func (r *Route) Finish(loc Location) {
	r.EndLocation = datatypes.NewJSONType(loc)
	r.Waypoints = append(r.Waypoints, loc)
}

// SpeedEvent is a speed sample taken during a session.
type SpeedEvent struct {
	ID         string                       `gorm:"primaryKey;size:36"`
	SessionID  string                       `gorm:"size:36;not null;index"`
	Speed      float64                      `gorm:"not null"`
	SpeedLimit float64                      `gorm:"not null"`
	Location   datatypes.JSONType[Location] `gorm:"not null"`
	RecordedAt time.Time                    `gorm:"not null"`
}

// Speeding reports whether the sample exceeded the speed limit.
func (e *SpeedEvent) Speeding() bool {
	return e.Speed > e.SpeedLimit
}

// SessionNote is a free-text remark attached to a session.
type SessionNote struct {
	ID        string    `gorm:"primaryKey;size:36"`
	SessionID string    `gorm:"size:36;not null;index"`
	AuthorID  string    `gorm:"size:36;not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
