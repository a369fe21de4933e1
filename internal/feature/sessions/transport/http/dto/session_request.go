// Package dto defines the request and response bodies of the sessions API.
package dto

import (
	"time"

	"drive_backend/internal/feature/sessions/domain/entity"
)

// LocationReq is a coordinate in a request body. Zero is a valid coordinate, so both fields are pointers.
type LocationReq struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

// Location converts the request coordinate to its entity form.
func (l *LocationReq) Location() entity.Location {
	return entity.Location{Lat: *l.Lat, Lng: *l.Lng}
}

// StartSessionReq is the body of POST /sessions.
type StartSessionReq struct {
	StartLocation *LocationReq `json:"startLocation" binding:"required"`
	StartTime     time.Time    `json:"startTime" binding:"required"`
	Weather       string       `json:"weather" binding:"required"`
	InstructorID  *string      `json:"instructorId"`
}

// EndSessionReq is the body of POST /sessions/:id/end.
type EndSessionReq struct {
	EndLocation *LocationReq `json:"endLocation" binding:"required"`
	Distance    *float64     `json:"distance" binding:"omitempty,gte=0"`
	Rating      *int         `json:"rating" binding:"omitempty,gte=0,lte=5"`
}

// SpeedEventReq is the body of POST /sessions/speed-event.
type SpeedEventReq struct {
	SessionID  string       `json:"sessionId" binding:"required"`
	Speed      *float64     `json:"speed" binding:"required,gte=0"`
	SpeedLimit float64      `json:"speedLimit" binding:"required,gt=0"`
	Location   *LocationReq `json:"location" binding:"required"`
}

// NoteReq is the body of POST /sessions/:id/notes.
type NoteReq struct {
	Content string `json:"content" binding:"required"`
}
