package services

import (
	"strings"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
)

// gradeResponse computes the correctness flag stored on a persisted
// response. It is the external grading collaborator of the session engine:
// the engine never grades live answers.
//
// single_choice / assertion_reason / matching: the selected id must equal
// the single correct option id. multi_select: exact set match against the
// correct ids (per-option partial verdicts are a review-rendering concern,
// not a scoring one). fill_blank: exact string compare, no case or
// whitespace normalization.
func gradeResponse(q *models.Question, selectedAnswer string) bool {
	if selectedAnswer == "" {
		return false
	}

	switch q.Type {
	case models.MultiSelect:
		return sameIDSet(
			strings.Split(selectedAnswer, models.AnswerDelimiter),
			q.CorrectOptionIDs(),
		)
	case models.FillBlank:
		if q.CorrectAnswer == nil {
			return false
		}
		return selectedAnswer == *q.CorrectAnswer
	default:
		correct := q.CorrectOptionIDs()
		return len(correct) == 1 && selectedAnswer == correct[0]
	}
}

func sameIDSet(a, b []string) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	if len(set) != len(b) {
		return false
	}
	for _, id := range b {
		if !set[id] {
			return false
		}
	}
	return true
}
