package session

import (
	"encoding/json"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
)

// Normalize adapts one question, plus an optional prior response, into the
// uniform QuestionState the store and the renderers share. All five
// question types pass through here; type-specific answer shapes are
// documented on QuestionState.Selected.
func Normalize(q *models.Question, prior *models.TestResponse, mode Mode) *QuestionState {
	qs := &QuestionState{
		Question: q,
		Status:   StatusUnattempted,
	}
	if mode == ModeReview {
		qs.Status = StatusReviewed
	}

	if q.Type.RequiresOptions() && len(q.Options) == 0 {
		// Malformed record. Render degrades instead of failing the session.
		qs.Unsupported = true
	}

	if q.Type == models.Matching {
		qs.Matching = ParseMatchingContent(q.QuestionText)
	}

	if prior != nil {
		qs.Selected = prior.SelectedValues(q.Type)
		qs.Answered = len(qs.Selected) > 0
		qs.IsCorrect = prior.IsCorrect
		if mode == ModeLive && qs.HasSelection() {
			qs.Status = StatusAttempted
		}
	}

	return qs
}

// ParseMatchingContent decodes the matching question's header document. On
// any parse failure the raw text becomes the instruction and the headers
// stay empty.
func ParseMatchingContent(raw string) models.MatchingContent {
	var content models.MatchingContent
	if err := json.Unmarshal([]byte(raw), &content); err != nil || content.Instruction == "" && content.Headers == (models.MatchingHeaders{}) {
		return models.MatchingContent{Instruction: raw}
	}
	return content
}

// OptionVerdict is the per-option review outcome. Multi-select questions
// never collapse into a single pass/fail boolean; every option gets its
// own verdict.
type OptionVerdict string

const (
	// VerdictCorrect: selected and correct.
	VerdictCorrect OptionVerdict = "correct"
	// VerdictIncorrect: selected but wrong.
	VerdictIncorrect OptionVerdict = "incorrect"
	// VerdictMissed: correct but left unselected on an answered question.
	VerdictMissed OptionVerdict = "correct_unselected"
	// VerdictRevealed: correct answer shown neutrally on an unattempted
	// question.
	VerdictRevealed OptionVerdict = "revealed"
	// VerdictNone: not selected, not correct.
	VerdictNone OptionVerdict = "none"
)

// VerdictFor evaluates one option of a reviewed question.
func VerdictFor(qs *QuestionState, opt *models.QuestionOption) OptionVerdict {
	selected := false
	for _, id := range qs.Selected {
		if id == opt.ID {
			selected = true
			break
		}
	}

	correct := opt.IsCorrect
	if !correct {
		for _, id := range qs.Question.CorrectOptionIDs() {
			if id == opt.ID {
				correct = true
				break
			}
		}
	}

	switch {
	case selected && correct:
		return VerdictCorrect
	case selected:
		return VerdictIncorrect
	case correct && qs.Answered:
		return VerdictMissed
	case correct:
		return VerdictRevealed
	default:
		return VerdictNone
	}
}
