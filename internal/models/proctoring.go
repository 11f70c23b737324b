package models

import (
	"time"

	"gorm.io/datatypes"
)

type ProctoringEventType string

const (
	EventFullscreenExit ProctoringEventType = "fullscreen_exit"
	EventBackNavigation ProctoringEventType = "back_navigation"
	EventUnload         ProctoringEventType = "unload"
	EventEscapeResolved ProctoringEventType = "escape_resolved"
)

// ProctoringEvent records one lockdown escape attempt (or its resolution)
// against a live session.
type ProctoringEvent struct {
	ID        uint                `json:"id" gorm:"primaryKey"`
	SessionID string              `json:"session_id" gorm:"not null;size:36;index"`
	TestID    uint                `json:"test_id" gorm:"not null;index"`
	StudentID string              `json:"student_id" gorm:"not null;size:255;index"`
	Type      ProctoringEventType `json:"type" gorm:"not null;index"`

	Data     datatypes.JSON `json:"data" gorm:"type:jsonb"`
	Severity int            `json:"severity" gorm:"default:1"` // 1-5 (low to critical)

	// Context
	TimeOffset int    `json:"time_offset"` // seconds from session start
	UserAgent  string `json:"user_agent" gorm:"type:text"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`

	CreatedAt time.Time `json:"created_at"`
}

func (ProctoringEvent) TableName() string {
	return "proctoring_events"
}
