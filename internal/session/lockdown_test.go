package session

import (
	"context"
	"testing"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const (
	desktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	mobileUA  = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 Mobile Safari/537.36"
)

type MockEscapeRecorder struct {
	mock.Mock
}

func (m *MockEscapeRecorder) RecordEscape(ctx context.Context, event *models.ProctoringEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func lockdownFixture(submitter Submitter) (*Lockdown, *MockEscapeRecorder) {
	recorder := &MockEscapeRecorder{}
	recorder.On("RecordEscape", mock.Anything, mock.Anything).Return(nil).Maybe()
	if submitter == nil {
		submitter = &MockSubmitter{}
	}
	return NewLockdown(NewReconciler(submitter, nil, testLogger()), recorder, testLogger()), recorder
}

func TestHandleEscapeFullscreenRaisesDialog(t *testing.T) {
	sess := answeredFixture()
	ld, recorder := lockdownFixture(nil)

	outcome, err := ld.HandleEscape(context.Background(), sess, VectorFullscreenExit, desktopUA)
	assert.NoError(t, err)
	assert.Equal(t, DecisionConfirm, outcome.Decision)
	assert.True(t, outcome.ReenterFullscreen, "fullscreen is re-requested regardless of the dialog outcome")
	assert.False(t, sess.IsSubmitted())

	recorder.AssertCalled(t, "RecordEscape", mock.Anything, mock.MatchedBy(func(e *models.ProctoringEvent) bool {
		return e.Type == models.EventFullscreenExit && e.SessionID == "sess-1" && e.Severity == 3
	}))
}

func TestHandleEscapeBackNavigationRaisesDialog(t *testing.T) {
	sess := answeredFixture()
	ld, _ := lockdownFixture(nil)

	outcome, err := ld.HandleEscape(context.Background(), sess, VectorBackNavigation, desktopUA)
	assert.NoError(t, err)
	assert.Equal(t, DecisionConfirm, outcome.Decision)
	assert.False(t, outcome.ReenterFullscreen)
	// The back button alone never ends a test.
	assert.False(t, sess.IsSubmitted())
}

func TestHandleEscapeFullscreenExemptions(t *testing.T) {
	ld, recorder := lockdownFixture(nil)

	// Mobile takers cannot hold fullscreen; the vector is ignored.
	sess := answeredFixture()
	outcome, err := ld.HandleEscape(context.Background(), sess, VectorFullscreenExit, mobileUA)
	assert.NoError(t, err)
	assert.Equal(t, DecisionIgnored, outcome.Decision)
	recorder.AssertNotCalled(t, "RecordEscape", mock.Anything, mock.Anything)

	// Same when the test never asked for fullscreen.
	sess = answeredFixture()
	sess.FullscreenRequired = false
	outcome, err = ld.HandleEscape(context.Background(), sess, VectorFullscreenExit, desktopUA)
	assert.NoError(t, err)
	assert.Equal(t, DecisionIgnored, outcome.Decision)

	// Back navigation is not exempt on mobile.
	sess = answeredFixture()
	outcome, err = ld.HandleEscape(context.Background(), sess, VectorBackNavigation, mobileUA)
	assert.NoError(t, err)
	assert.Equal(t, DecisionConfirm, outcome.Decision)
}

func TestHandleEscapeIgnoredWhenLocked(t *testing.T) {
	sess := answeredFixture()
	sess.Submitted = true
	ld, recorder := lockdownFixture(nil)

	outcome, err := ld.HandleEscape(context.Background(), sess, VectorBackNavigation, desktopUA)
	assert.NoError(t, err)
	assert.Equal(t, DecisionIgnored, outcome.Decision)
	recorder.AssertNotCalled(t, "RecordEscape", mock.Anything, mock.Anything)
}

func TestHandleEscapeUnloadSubmitsImmediately(t *testing.T) {
	sess := answeredFixture()

	submitter := &MockSubmitter{}
	submitter.On("SubmitTest", mock.Anything, mock.MatchedBy(func(sub *Submission) bool {
		return sub.EndReason == models.EndReasonForcedExit
	})).Return(uint(77), nil).Once()

	ld, recorder := lockdownFixture(submitter)
	outcome, err := ld.HandleEscape(context.Background(), sess, VectorUnload, desktopUA)

	assert.NoError(t, err)
	assert.Equal(t, DecisionSubmitted, outcome.Decision)
	assert.Equal(t, uint(77), outcome.ResultID)
	assert.True(t, sess.IsSubmitted())
	recorder.AssertCalled(t, "RecordEscape", mock.Anything, mock.MatchedBy(func(e *models.ProctoringEvent) bool {
		return e.Type == models.EventUnload && e.Severity == 4
	}))
	submitter.AssertExpectations(t)
}

func TestResolveConfirmedSubmits(t *testing.T) {
	sess := answeredFixture()

	submitter := &MockSubmitter{}
	submitter.On("SubmitTest", mock.Anything, mock.MatchedBy(func(sub *Submission) bool {
		return sub.EndReason == models.EndReasonForcedExit
	})).Return(uint(78), nil).Once()

	ld, _ := lockdownFixture(submitter)
	_, err := ld.HandleEscape(context.Background(), sess, VectorBackNavigation, desktopUA)
	assert.NoError(t, err)

	outcome, err := ld.Resolve(context.Background(), sess, true)
	assert.NoError(t, err)
	assert.Equal(t, DecisionSubmitted, outcome.Decision)
	assert.Equal(t, uint(78), outcome.ResultID)
	assert.True(t, sess.IsSubmitted())
	submitter.AssertExpectations(t)
}

func TestResolveCancelRestoresWithoutMutation(t *testing.T) {
	sess := answeredFixture()
	before := append([]string(nil), sess.Questions[0].Selected...)
	indexBefore := sess.Index()

	ld, _ := lockdownFixture(nil)
	_, err := ld.HandleEscape(context.Background(), sess, VectorFullscreenExit, desktopUA)
	assert.NoError(t, err)

	outcome, err := ld.Resolve(context.Background(), sess, false)
	assert.NoError(t, err)
	assert.Equal(t, DecisionContinue, outcome.Decision)
	assert.True(t, outcome.ReenterFullscreen)

	// Cancel touches nothing: answers, position and clock are as before.
	assert.False(t, sess.IsSubmitted())
	assert.Equal(t, before, sess.Questions[0].Selected)
	assert.Equal(t, indexBefore, sess.Index())

	// The pending escape is consumed; a second resolve has nothing to
	// settle.
	_, err = ld.Resolve(context.Background(), sess, false)
	assert.ErrorIs(t, err, ErrNoPendingEscape)
}

func TestResolveCancelSkipsFullscreenWhenNotRequired(t *testing.T) {
	sess := answeredFixture()
	sess.FullscreenRequired = false

	ld, _ := lockdownFixture(nil)
	_, err := ld.HandleEscape(context.Background(), sess, VectorBackNavigation, desktopUA)
	assert.NoError(t, err)

	outcome, err := ld.Resolve(context.Background(), sess, false)
	assert.NoError(t, err)
	assert.Equal(t, DecisionContinue, outcome.Decision)
	assert.False(t, outcome.ReenterFullscreen)
}

func TestResolveWithoutPendingEscape(t *testing.T) {
	sess := answeredFixture()
	ld, _ := lockdownFixture(nil)

	_, err := ld.Resolve(context.Background(), sess, true)
	assert.ErrorIs(t, err, ErrNoPendingEscape)
}

func TestIsMobileUserAgent(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want bool
	}{
		{"android phone", mobileUA, true},
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", true},
		{"ipad", "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X)", true},
		{"windows desktop", desktopUA, false},
		{"mac desktop", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)", false},
		{"case insensitive", "SOMETHING ANDROID SOMETHING", true},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMobileUserAgent(tt.ua))
		})
	}
}
