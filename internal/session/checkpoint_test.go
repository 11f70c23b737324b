package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errSnapshotMissing = errors.New("snapshot not found")

// memoryCheckpointStore is the in-process CheckpointStore used across the
// package tests.
type memoryCheckpointStore struct {
	mu      sync.Mutex
	snaps   map[string]*Snapshot
	lastTTL time.Duration
}

func newMemoryCheckpointStore() *memoryCheckpointStore {
	return &memoryCheckpointStore{snaps: make(map[string]*Snapshot)}
}

func (s *memoryCheckpointStore) Save(ctx context.Context, snap *Snapshot, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[snap.SessionID] = snap
	s.lastTTL = ttl
	return nil
}

func (s *memoryCheckpointStore) Load(ctx context.Context, sessionID string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[sessionID]
	if !ok {
		return nil, errSnapshotMissing
	}
	return snap, nil
}

func (s *memoryCheckpointStore) LastTTL() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTTL
}

func (s *memoryCheckpointStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, sessionID)
	return nil
}

func TestSnapshotCapturesAnswers(t *testing.T) {
	sess := answeredFixture()
	_ = sess.GoToQuestion(1)
	_ = sess.ToggleReview()
	sess.AttachTimer(NewTimer(150*60, nil))

	snap := sess.Snapshot()

	assert.Equal(t, "sess-1", snap.SessionID)
	assert.Equal(t, uint(7), snap.TestID)
	assert.Equal(t, "student-1", snap.StudentID)
	assert.Equal(t, 1, snap.CurrentIndex)
	assert.Equal(t, 150*60, snap.RemainingSeconds)
	assert.False(t, snap.Submitted)
	assert.False(t, snap.TakenAt.IsZero())

	assert.Len(t, snap.Questions, 5)
	assert.Equal(t, []string{"q1-opt3"}, snap.Questions[0].Selected)
	assert.Equal(t, StatusAttempted, snap.Questions[0].Status)
	assert.True(t, snap.Questions[1].MarkedForReview)
	assert.Equal(t, StatusUnattempted, snap.Questions[2].Status)
}

func TestRestoreRoundTrip(t *testing.T) {
	original := answeredFixture()
	_ = original.GoToQuestion(1)
	_ = original.ToggleReview()
	original.AttachTimer(NewTimer(150*60, nil))
	snap := original.Snapshot()

	restored := NewLiveSession("sess-1", fixtureTest(), "student-1")
	restored.AttachTimer(NewTimer(original.DurationMinutes*60, nil))
	restored.Restore(snap)

	assert.Equal(t, 1, restored.Index())
	assert.Equal(t, 150*60, restored.TimeRemaining())
	assert.Equal(t, original.StartedAt.Unix(), restored.StartedAt.Unix())

	assert.Equal(t, []string{"q1-opt3"}, restored.Questions[0].Selected)
	assert.Equal(t, StatusAttempted, restored.Questions[0].Status)
	assert.True(t, restored.Questions[1].MarkedForReview)
	assert.Equal(t, []string{"q2-opt1", "q2-opt3"}, restored.Questions[1].Selected)
	assert.Equal(t, []string{"42"}, restored.Questions[3].Selected)
	assert.Nil(t, restored.Questions[2].Selected)
}

func TestRestoreDropsRowsForRemovedQuestions(t *testing.T) {
	original := answeredFixture()
	snap := original.Snapshot()
	snap.Questions = append(snap.Questions, QuestionSnapshot{
		QuestionID: 999,
		Status:     StatusAttempted,
		Selected:   []string{"gone"},
	})

	restored := NewLiveSession("sess-1", fixtureTest(), "student-1")
	restored.Restore(snap)

	assert.Equal(t, 5, restored.Len())
	assert.Equal(t, []string{"q1-opt3"}, restored.Questions[0].Selected)
}

func TestRestoreClampsStaleIndex(t *testing.T) {
	sess := fixtureSession()
	snap := sess.Snapshot()
	snap.CurrentIndex = 42

	restored := NewLiveSession("sess-1", fixtureTest(), "student-1")
	restored.Restore(snap)
	assert.Equal(t, 0, restored.Index())
}
