package dto

import (
	"time"

	"drive_backend/internal/feature/sessions/domain/entity"
	"drive_backend/internal/feature/sessions/usecase"
)

// RouteResponse is the public view of a route.
type RouteResponse struct {
	StartLocation entity.Location   `json:"startLocation"`
	EndLocation   entity.Location   `json:"endLocation"`
	Waypoints     []entity.Location `json:"waypoints"`
}

// SessionResponse is the public view of a driving session.
type SessionResponse struct {
	ID              string         `json:"id"`
	StudentID       string         `json:"studentId"`
	InstructorID    *string        `json:"instructorId"`
	StartTime       time.Time      `json:"startTime"`
	EndTime         *time.Time     `json:"endTime"`
	DurationMinutes float64        `json:"durationMinutes"`
	Distance        float64        `json:"distance"`
	Weather         string         `json:"weather"`
	Rating          *int           `json:"rating"`
	Route           *RouteResponse `json:"route,omitempty"`
}

// SpeedEventResponse is the public view of a speed sample.
type SpeedEventResponse struct {
	ID         string          `json:"id"`
	SessionID  string          `json:"sessionId"`
	Speed      float64         `json:"speed"`
	SpeedLimit float64         `json:"speedLimit"`
	Speeding   bool            `json:"speeding"`
	Location   entity.Location `json:"location"`
	Timestamp  time.Time       `json:"timestamp"`
}

// NoteResponse is the public view of a session note.
type NoteResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionDetailResponse is a session with its speed samples and notes.
type SessionDetailResponse struct {
	SessionResponse
	SpeedEvents []SpeedEventResponse `json:"speedEvents"`
	Notes       []NoteResponse       `json:"notes"`
}

// NewSessionResponse converts a session to its response form.
func NewSessionResponse(s *entity.DrivingSession) SessionResponse {
	res := SessionResponse{
		ID:              s.ID,
		StudentID:       s.StudentID,
		InstructorID:    s.InstructorID,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		DurationMinutes: s.Duration().Minutes(),
		Distance:        s.Distance,
		Weather:         s.Weather,
		Rating:          s.Rating,
	}
	if s.Route != nil {
		waypoints := []entity.Location(s.Route.Waypoints)
		if waypoints == nil {
			waypoints = []entity.Location{}
		}
		res.Route = &RouteResponse{
			StartLocation: s.Route.StartLocation.Data(),
			EndLocation:   s.Route.EndLocation.Data(),
			Waypoints:     waypoints,
		}
	}
	return res
}

// NewSessionResponses converts sessions to their response form. The result is never nil.
func NewSessionResponses(list []entity.DrivingSession) []SessionResponse {
	out := make([]SessionResponse, 0, len(list))
	for i := range list {
		out = append(out, NewSessionResponse(&list[i]))
	}
	return out
}

// NewSpeedEventResponse converts a speed sample to its response form.
func NewSpeedEventResponse(e *entity.SpeedEvent) SpeedEventResponse {
	return SpeedEventResponse{
		ID:         e.ID,
		SessionID:  e.SessionID,
		Speed:      e.Speed,
		SpeedLimit: e.SpeedLimit,
		Speeding:   e.Speeding(),
		Location:   e.Location.Data(),
		Timestamp:  e.RecordedAt,
	}
}

// NewNoteResponse converts a note to its response form.
func NewNoteResponse(n *entity.SessionNote) NoteResponse {
	return NoteResponse{ID: n.ID, SessionID: n.SessionID, AuthorID: n.AuthorID, Content: n.Content, Timestamp: n.CreatedAt}
}

// NewSessionDetailResponse converts a session detail to its response form.
func NewSessionDetailResponse(d *usecase.SessionDetail) SessionDetailResponse {
	res := SessionDetailResponse{
		SessionResponse: NewSessionResponse(&d.Session),
		SpeedEvents:     make([]SpeedEventResponse, 0, len(d.SpeedEvents)),
		Notes:           make([]NoteResponse, 0, len(d.Notes)),
	}
	for i := range d.SpeedEvents {
		res.SpeedEvents = append(res.SpeedEvents, NewSpeedEventResponse(&d.SpeedEvents[i]))
	}
	for i := range d.Notes {
		res.Notes = append(res.Notes, NewNoteResponse(&d.Notes[i]))
	}
	return res
}
