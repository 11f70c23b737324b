package services

import (
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/session"
)

// ===== REQUESTS =====

type StartSessionRequest struct {
	TestID    uint   `json:"test_id" validate:"required"`
	StudentID string `json:"student_id" validate:"required,max=255"`
}

type SelectOptionRequest struct {
	OptionID string `json:"option_id" validate:"required"`
}

type ToggleOptionRequest struct {
	OptionID string `json:"option_id" validate:"required"`
}

type BlankTextRequest struct {
	Value      string `json:"value"`
	BlankIndex int    `json:"blank_index" validate:"min=0,max=15"`
}

type NavigateRequest struct {
	// Index jumps directly; Direction moves relatively ("next"/"prev").
	Index     *int   `json:"index" validate:"omitempty,min=0"`
	Direction string `json:"direction" validate:"omitempty,oneof=next prev"`
}

type EscapeRequest struct {
	Vector    string `json:"vector" validate:"required,escape_vector"`
	UserAgent string `json:"user_agent"`
}

type ResolveEscapeRequest struct {
	Confirmed bool `json:"confirmed"`
}

// ===== VIEWS =====

// OptionView is one renderable option. Verdict is populated only in
// review mode.
type OptionView struct {
	ID       string                `json:"id"`
	Text     string                `json:"text"`
	ImageURL *string               `json:"image_url,omitempty"`
	Verdict  session.OptionVerdict `json:"verdict,omitempty"`
}

// QuestionView is the uniform render payload shared by live and review
// screens; mode decides which fields carry data.
type QuestionView struct {
	ID           uint                `json:"id"`
	Subject      string              `json:"subject"`
	Type         models.QuestionType `json:"type"`
	QuestionText string              `json:"question_text"`
	ImageURL     *string             `json:"image_url,omitempty"`
	Marks        float64             `json:"marks"`
	Unsupported  bool                `json:"unsupported,omitempty"`

	// Matching questions render the parsed instruction/headers plus the
	// static pair table.
	Matching      *models.MatchingContent `json:"matching,omitempty"`
	MatchingPairs []models.MatchingPair   `json:"matching_pairs,omitempty"`

	Options  []OptionView `json:"options"`
	Selected []string     `json:"selected,omitempty"`

	Status          session.QuestionStatus `json:"status"`
	MarkedForReview bool                   `json:"marked_for_review"`

	// Review-mode fields
	Answered  bool    `json:"answered,omitempty"`
	IsCorrect bool    `json:"is_correct,omitempty"`
	Solution  *string `json:"solution,omitempty"`
}

type SessionView struct {
	SessionID          string       `json:"session_id"`
	TestID             uint         `json:"test_id"`
	Title              string       `json:"title"`
	Mode               session.Mode `json:"mode"`
	CurrentIndex       int          `json:"current_index"`
	TimeRemaining      int          `json:"time_remaining"`
	Clock              string       `json:"clock"`
	Submitted          bool         `json:"submitted"`
	ResultID           uint         `json:"result_id,omitempty"`
	FullscreenRequired bool         `json:"fullscreen_required"`

	Questions []QuestionView         `json:"questions"`
	Groups    []session.SubjectGroup `json:"groups"`
	Cells     []session.PanelCell    `json:"cells"`
	Counts    session.LiveCounts     `json:"counts"`
}

type ReviewView struct {
	ResultID  uint                   `json:"result_id"`
	TestID    uint                   `json:"test_id"`
	Title     string                 `json:"title"`
	Duration  int                    `json:"duration"` // minutes spent
	EndReason models.EndReason       `json:"end_reason"`
	Questions []QuestionView         `json:"questions"`
	Groups    []session.SubjectGroup `json:"groups"`
	Cells     []session.PanelCell    `json:"cells"`
	Counts    session.ReviewCounts   `json:"counts"`
}

type TimeView struct {
	TimeRemaining int    `json:"time_remaining"`
	Clock         string `json:"clock"`
	Active        bool   `json:"active"`
}

type SubmitResponse struct {
	ResultID uint `json:"result_id"`
}
