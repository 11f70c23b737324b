package session

import (
	"context"
	"testing"
	"time"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func managerFixture(submitter Submitter) (*Manager, *memoryCheckpointStore) {
	if submitter == nil {
		submitter = &MockSubmitter{}
	}
	store := newMemoryCheckpointStore()
	m := NewManager(NewReconciler(submitter, store, testLogger()), store, testLogger())
	return m, store
}

func TestManagerAddGetRemove(t *testing.T) {
	m, store := managerFixture(nil)
	sess := fixtureSession()

	m.Add(sess)
	got, ok := m.Get("sess-1")
	assert.True(t, ok)
	assert.Same(t, sess, got)

	// Removing also drops the checkpoint.
	assert.NoError(t, store.Save(context.Background(), sess.Snapshot(), time.Minute))
	m.Remove("sess-1")
	_, ok = m.Get("sess-1")
	assert.False(t, ok)
	_, err := store.Load(context.Background(), "sess-1")
	assert.Error(t, err)
}

func TestManagerFindByStudent(t *testing.T) {
	m, _ := managerFixture(nil)
	sess := fixtureSession()
	m.Add(sess)

	found, ok := m.FindByStudent(7, "student-1")
	assert.True(t, ok)
	assert.Same(t, sess, found)

	_, ok = m.FindByStudent(7, "student-2")
	assert.False(t, ok)
	_, ok = m.FindByStudent(8, "student-1")
	assert.False(t, ok)

	// A submitted session is not resumable.
	sess.Submitted = true
	_, ok = m.FindByStudent(7, "student-1")
	assert.False(t, ok)
}

func TestManagerSweepSubmitsExpiredSessions(t *testing.T) {
	submitter := &MockSubmitter{}
	submitter.On("SubmitTest", mock.Anything, mock.MatchedBy(func(sub *Submission) bool {
		return sub.EndReason == models.EndReasonTimeout
	})).Return(uint(61), nil).Once()

	m, _ := managerFixture(submitter)

	// A timer that ran to zero with no client attached to fire Submit.
	sess := answeredFixture()
	timer := NewTimer(1, nil)
	timer.remaining = 0
	sess.AttachTimer(timer)
	m.Add(sess)

	m.sweep()

	assert.True(t, sess.IsSubmitted())
	assert.Equal(t, uint(61), sess.ResultID)
	submitter.AssertExpectations(t)

	// A second sweep finds it submitted and does nothing.
	m.sweep()
	submitter.AssertExpectations(t)
}

func TestManagerSweepEvictsStaleSubmitted(t *testing.T) {
	m, _ := managerFixture(nil)

	fresh := fixtureSession()
	fresh.Submitted = true
	fresh.SubmittedAt = time.Now()
	m.Add(fresh)

	stale := NewLiveSession("sess-2", fixtureTest(), "student-2")
	stale.Submitted = true
	stale.SubmittedAt = time.Now().Add(-time.Hour)
	m.Add(stale)

	m.sweep()

	_, ok := m.Get("sess-1")
	assert.True(t, ok, "recently submitted sessions linger for the result redirect")
	_, ok = m.Get("sess-2")
	assert.False(t, ok)
}

func TestManagerCheckpointAll(t *testing.T) {
	m, store := managerFixture(nil)

	live := answeredFixture()
	m.Add(live)

	submitted := NewLiveSession("sess-2", fixtureTest(), "student-2")
	submitted.Submitted = true
	m.Add(submitted)

	m.checkpointAll()

	snap, err := store.Load(context.Background(), "sess-1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"q1-opt3"}, snap.Questions[0].Selected)

	// Submitted sessions are not checkpointed.
	_, err = store.Load(context.Background(), "sess-2")
	assert.Error(t, err)
}

func TestManagerCheckpointTTLUsesGrace(t *testing.T) {
	m, store := managerFixture(nil)
	m.Add(answeredFixture())

	m.checkpointAll()
	assert.Equal(t, 180*time.Minute+defaultCheckpointGrace, store.LastTTL())

	m.SetCheckpointGrace(5 * time.Minute)
	m.checkpointAll()
	assert.Equal(t, 185*time.Minute, store.LastTTL())

	// A non-positive override keeps the previous grace.
	m.SetCheckpointGrace(0)
	m.checkpointAll()
	assert.Equal(t, 185*time.Minute, store.LastTTL())
}

func TestManagerStartStop(t *testing.T) {
	m, store := managerFixture(nil)
	m.Add(answeredFixture())

	assert.NoError(t, m.Start())
	m.Stop()

	// Stop runs a final checkpoint pass.
	_, err := store.Load(context.Background(), "sess-1")
	assert.NoError(t, err)
}
