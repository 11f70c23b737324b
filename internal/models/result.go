package models

import (
	"strings"
	"time"
)

// AnswerDelimiter joins multi-valued selections into the wire-level
// selected_answer string and splits them back apart on review.
const AnswerDelimiter = ","

type EndReason string

const (
	EndReasonSubmitted  EndReason = "submitted"
	EndReasonTimeout    EndReason = "timeout"
	EndReasonForcedExit EndReason = "forced_exit"
)

// TestResult is the graded outcome of one submitted session. It is written
// exactly once by the submission reconciler and read back for review.
type TestResult struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TestID    uint      `json:"test_id" gorm:"not null;index"`
	StudentID string    `json:"student_id" gorm:"not null;size:255;index"`
	Duration  int       `json:"duration"` // minutes actually spent
	EndReason EndReason `json:"end_reason" gorm:"size:30"`

	SubmittedAt time.Time `json:"submitted_at"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Test      Test           `json:"test" gorm:"foreignKey:TestID"`
	Responses []TestResponse `json:"responses" gorm:"foreignKey:ResultID"`
}

// TestResponse is one answered question inside a result. Questions the
// student never answered have no row.
type TestResponse struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	ResultID   uint   `json:"result_id" gorm:"not null;index"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	// Multi-valued answers are joined with AnswerDelimiter.
	SelectedAnswer string `json:"selected_answer" gorm:"not null;type:text"`
	IsCorrect      bool   `json:"is_correct" gorm:"default:false"`
}

func (TestResult) TableName() string {
	return "test_results"
}

func (TestResponse) TableName() string {
	return "test_responses"
}

// SelectedValues splits the wire string back into the session-level answer
// shape for the given question type. Multi-select answers and multi-blank
// fill-in answers are the two multi-valued shapes.
func (r *TestResponse) SelectedValues(t QuestionType) []string {
	if r.SelectedAnswer == "" {
		return nil
	}
	if t == MultiSelect || t == FillBlank {
		return strings.Split(r.SelectedAnswer, AnswerDelimiter)
	}
	return []string{r.SelectedAnswer}
}
