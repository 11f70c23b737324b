package session

import (
	"context"
	"testing"
	"time"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
	"github.com/stretchr/testify/assert"
)

func fixtureResult() *models.TestResult {
	return &models.TestResult{
		ID:          9,
		TestID:      7,
		StudentID:   "student-1",
		Duration:    142,
		EndReason:   models.EndReasonSubmitted,
		SubmittedAt: time.Date(2026, 1, 12, 14, 30, 0, 0, time.UTC),
		Test:        *fixtureTest(),
		Responses: []models.TestResponse{
			// Stored out of question order on purpose.
			{ResultID: 9, QuestionID: 4, SelectedAnswer: "42", IsCorrect: true},
			{ResultID: 9, QuestionID: 1, SelectedAnswer: "q1-opt1", IsCorrect: false},
			{ResultID: 9, QuestionID: 2, SelectedAnswer: "q2-opt1,q2-opt3", IsCorrect: true},
		},
	}
}

func TestProjectReviewFollowsQuestionOrder(t *testing.T) {
	result := fixtureResult()
	states := ProjectReview(result, result.Test.OrderedQuestions())

	assert.Len(t, states, 5)
	for i, wantID := range []uint{1, 2, 3, 4, 5} {
		assert.Equal(t, wantID, states[i].Question.ID)
		assert.Equal(t, StatusReviewed, states[i].Status)
	}

	// Answered questions carry their response back.
	assert.Equal(t, []string{"q1-opt1"}, states[0].Selected)
	assert.True(t, states[0].Answered)
	assert.False(t, states[0].IsCorrect)

	assert.Equal(t, []string{"q2-opt1", "q2-opt3"}, states[1].Selected)
	assert.True(t, states[1].IsCorrect)

	assert.Equal(t, []string{"42"}, states[3].Selected)
	assert.True(t, states[3].IsCorrect)

	// Questions without a response row come back unanswered, not wrong.
	assert.False(t, states[2].Answered)
	assert.False(t, states[2].IsCorrect)
	assert.Nil(t, states[2].Selected)
	assert.False(t, states[4].Answered)
}

func TestProjectReviewDropsStaleResponses(t *testing.T) {
	result := fixtureResult()
	result.Responses = append(result.Responses, models.TestResponse{
		ResultID: 9, QuestionID: 999, SelectedAnswer: "gone", IsCorrect: true,
	})

	states := ProjectReview(result, result.Test.OrderedQuestions())
	assert.Len(t, states, 5, "responses for questions no longer on the test are dropped")
}

func TestNewReviewSession(t *testing.T) {
	result := fixtureResult()
	sess := NewReviewSession(result, nil)

	assert.Equal(t, "review-9", sess.ID)
	assert.Equal(t, uint(7), sess.TestID)
	assert.Equal(t, "Full Syllabus Mock 1", sess.TestTitle)
	assert.Equal(t, ModeReview, sess.Mode)
	assert.True(t, sess.Submitted)
	assert.Equal(t, uint(9), sess.ResultID)
	assert.Equal(t, result.SubmittedAt, sess.SubmittedAt)
	assert.Equal(t, models.EndReasonSubmitted, sess.EndReason)
	assert.Equal(t, 0, sess.Index())
	assert.Equal(t, 5, sess.Len())

	// Review sessions never run a clock.
	assert.Nil(t, sess.Timer())
	assert.Equal(t, 0, sess.TimeRemaining())
}

func TestReviewRoundTrip(t *testing.T) {
	// Live answers, submitted through the reconciler, must replay
	// identically in review.
	sess := answeredFixture()

	var captured *Submission
	rec := NewReconciler(captureSubmitter{&captured}, nil, testLogger())
	_, err := rec.Submit(context.Background(), sess, models.EndReasonSubmitted)
	assert.NoError(t, err)

	result := &models.TestResult{
		ID:        11,
		TestID:    captured.TestID,
		StudentID: captured.StudentID,
		Test:      *fixtureTest(),
	}
	for _, r := range captured.Responses {
		result.Responses = append(result.Responses, models.TestResponse{
			ResultID:       11,
			QuestionID:     r.QuestionID,
			SelectedAnswer: r.SelectedAnswer,
		})
	}

	review := NewReviewSession(result, nil)
	assert.Equal(t, []string{"q1-opt3"}, review.Questions[0].Selected)
	assert.Equal(t, []string{"q2-opt1", "q2-opt3"}, review.Questions[1].Selected)
	assert.Equal(t, []string{"42"}, review.Questions[3].Selected)
	assert.False(t, review.Questions[2].Answered)
	assert.False(t, review.Questions[4].Answered)
}

type captureSubmitter struct {
	dst **Submission
}

func (c captureSubmitter) SubmitTest(ctx context.Context, sub *Submission) (uint, error) {
	*c.dst = sub
	return 11, nil
}
