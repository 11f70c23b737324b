package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPanelGroups(t *testing.T) {
	sess := fixtureSession()
	groups := sess.PanelGroups()

	if assert.Len(t, groups, 3) {
		assert.Equal(t, "Physics", groups[0].Subject)
		assert.Equal(t, 1, groups[0].Start)
		assert.Equal(t, 2, groups[0].End)
		assert.Equal(t, []int{0, 1}, groups[0].Indexes)

		assert.Equal(t, "Chemistry", groups[1].Subject)
		assert.Equal(t, 3, groups[1].Start)
		assert.Equal(t, 4, groups[1].End)

		assert.Equal(t, "Maths", groups[2].Subject)
		assert.Equal(t, 5, groups[2].Start)
		assert.Equal(t, 5, groups[2].End)
		assert.Equal(t, []int{4}, groups[2].Indexes)
	}
}

func TestPanelCells(t *testing.T) {
	sess := fixtureSession()
	_ = sess.SelectOption("q1-opt3")
	_ = sess.ToggleReview()
	_ = sess.GoToQuestion(2)
	_ = sess.ToggleReview()

	cells := sess.PanelCells()
	assert.Len(t, cells, 5)

	assert.Equal(t, 1, cells[0].Number)
	assert.Equal(t, StatusAttempted, cells[0].Status)
	assert.True(t, cells[0].MarkedForReview)
	assert.False(t, cells[0].Current)
	assert.True(t, cells[0].Answered)

	// The current question keeps its review mark; the two tags are
	// independent.
	assert.True(t, cells[2].Current)
	assert.True(t, cells[2].MarkedForReview)
	assert.Equal(t, StatusUnattempted, cells[2].Status)
	assert.False(t, cells[2].Answered)
}

func TestCountLive(t *testing.T) {
	sess := fixtureSession()
	_ = sess.SelectOption("q1-opt3")
	_ = sess.ToggleReview()
	_ = sess.GoToQuestion(3)
	_ = sess.SetBlankText("42", 0)
	_ = sess.GoToQuestion(4)
	_ = sess.ToggleReview()

	counts := sess.CountLive()
	assert.Equal(t, 2, counts.Attempted)
	assert.Equal(t, 2, counts.MarkedForReview)
	assert.Equal(t, 3, counts.Unattempted)
}

func TestCountLiveMarkedDoesNotLeaveAttempted(t *testing.T) {
	sess := fixtureSession()
	_ = sess.SelectOption("q1-opt3")
	_ = sess.ToggleReview()

	// A question is counted attempted and marked at once.
	counts := sess.CountLive()
	assert.Equal(t, 1, counts.Attempted)
	assert.Equal(t, 1, counts.MarkedForReview)
	assert.Equal(t, 4, counts.Unattempted)
}

func TestCountReview(t *testing.T) {
	result := fixtureResult()
	sess := NewReviewSession(result, nil)

	counts := sess.CountReview()
	assert.Equal(t, 2, counts.Correct)
	assert.Equal(t, 1, counts.Incorrect)
	// q3 and q5 were never answered: unattempted, not wrong.
	assert.Equal(t, 2, counts.Unattempted)
}
