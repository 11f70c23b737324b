package session

import (
	"fmt"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
)

// ProjectReview rehydrates a graded result into the same uniform question
// model the live session uses. The original question order wins, not the
// response order: responses are joined by question id, and questions the
// student never answered come back unanswered with IsCorrect false.
func ProjectReview(result *models.TestResult, questions []*models.Question) []*QuestionState {
	byQuestion := make(map[uint]*models.TestResponse, len(result.Responses))
	for i := range result.Responses {
		byQuestion[result.Responses[i].QuestionID] = &result.Responses[i]
	}

	states := make([]*QuestionState, 0, len(questions))
	for _, q := range questions {
		states = append(states, Normalize(q, byQuestion[q.ID], ModeReview))
	}
	return states
}

// NewReviewSession wraps a projected result in a read-only session. The
// first question is current; every mutator refuses review sessions, so
// the shared rendering contract gets inert handlers for free. The timer
// never runs in review mode.
func NewReviewSession(result *models.TestResult, questions []*models.Question) *Session {
	return &Session{
		ID:              fmt.Sprintf("review-%d", result.ID),
		TestID:          result.TestID,
		TestTitle:       result.Test.Title,
		StudentID:       result.StudentID,
		Mode:            ModeReview,
		DurationMinutes: result.Test.Duration,
		Questions:       ProjectReview(result, questionsOf(result, questions)),
		CurrentIndex:    0,
		Submitted:       true,
		SubmittedAt:     result.SubmittedAt,
		ResultID:        result.ID,
		EndReason:       result.EndReason,
	}
}

// questionsOf prefers the explicit question list but falls back to the
// questions preloaded on the result's test.
func questionsOf(result *models.TestResult, questions []*models.Question) []*models.Question {
	if len(questions) > 0 {
		return questions
	}
	return result.Test.OrderedQuestions()
}
