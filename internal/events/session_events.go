package events

import (
	"time"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
)

// EventType represents the session lifecycle and proctoring events the
// engine broadcasts.
type EventType string

const (
	// Session lifecycle events
	EventSessionStarted   EventType = "session.started"
	EventSessionResumed   EventType = "session.resumed"
	EventSessionSubmitted EventType = "session.submitted"
	EventSessionExpired   EventType = "session.expired"

	// Proctoring / lockdown events
	EventProctorFullscreenExit EventType = "proctor.fullscreen_exit"
	EventProctorBackNavigation EventType = "proctor.back_navigation"
	EventProctorUnload         EventType = "proctor.unload"
	EventProctorEscapeResolved EventType = "proctor.escape_resolved"
)

// SessionEvent is the base envelope for all published events.
type SessionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type SessionStartedEvent struct {
	SessionID string    `json:"session_id"`
	TestID    uint      `json:"test_id"`
	TestTitle string    `json:"test_title"`
	StudentID string    `json:"student_id"`
	StartedAt time.Time `json:"started_at"`
	Duration  int       `json:"duration"` // minutes
}

type SessionSubmittedEvent struct {
	SessionID   string           `json:"session_id"`
	TestID      uint             `json:"test_id"`
	StudentID   string           `json:"student_id"`
	ResultID    uint             `json:"result_id"`
	SubmittedAt time.Time        `json:"submitted_at"`
	EndReason   models.EndReason `json:"end_reason"`
	Answered    int              `json:"answered"`
	Total       int              `json:"total"`
}

type ProctoringAlertEvent struct {
	SessionID  string                     `json:"session_id"`
	TestID     uint                       `json:"test_id"`
	StudentID  string                     `json:"student_id"`
	EscapeType models.ProctoringEventType `json:"escape_type"`
	Severity   int                        `json:"severity"`
	TimeOffset int                        `json:"time_offset"`
}

// ProctorEventType maps a persisted proctoring event to the wire event
// type it is broadcast under.
func ProctorEventType(t models.ProctoringEventType) EventType {
	switch t {
	case models.EventFullscreenExit:
		return EventProctorFullscreenExit
	case models.EventBackNavigation:
		return EventProctorBackNavigation
	case models.EventUnload:
		return EventProctorUnload
	default:
		return EventProctorEscapeResolved
	}
}
