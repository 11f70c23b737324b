package session

import (
	"context"
	"time"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
)

// Snapshot is the serializable image of a live session, autosaved on a
// cadence so that a closed tab or a crashed process replays instead of
// racing an unload handler.
type Snapshot struct {
	SessionID        string             `json:"session_id"`
	TestID           uint               `json:"test_id"`
	StudentID        string             `json:"student_id"`
	CurrentIndex     int                `json:"current_index"`
	RemainingSeconds int                `json:"remaining_seconds"`
	StartedAt        time.Time          `json:"started_at"`
	Submitted        bool               `json:"submitted"`
	ResultID         uint               `json:"result_id"`
	Questions        []QuestionSnapshot `json:"questions"`
	TakenAt          time.Time          `json:"taken_at"`
}

type QuestionSnapshot struct {
	QuestionID      uint           `json:"question_id"`
	Status          QuestionStatus `json:"status"`
	MarkedForReview bool           `json:"marked_for_review"`
	Selected        []string       `json:"selected,omitempty"`
}

// CheckpointStore persists snapshots between autosaves. The Redis
// implementation lives in internal/cache.
type CheckpointStore interface {
	Save(ctx context.Context, snap *Snapshot, ttl time.Duration) error
	Load(ctx context.Context, sessionID string) (*Snapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

// Snapshot captures the session under its mutex.
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{
		SessionID:    s.ID,
		TestID:       s.TestID,
		StudentID:    s.StudentID,
		CurrentIndex: s.CurrentIndex,
		StartedAt:    s.StartedAt,
		Submitted:    s.Submitted,
		ResultID:     s.ResultID,
		TakenAt:      time.Now(),
	}
	if s.timer != nil {
		snap.RemainingSeconds = s.timer.Remaining()
	}
	snap.Questions = make([]QuestionSnapshot, len(s.Questions))
	for i, qs := range s.Questions {
		selected := make([]string, len(qs.Selected))
		copy(selected, qs.Selected)
		snap.Questions[i] = QuestionSnapshot{
			QuestionID:      qs.Question.ID,
			Status:          qs.Status,
			MarkedForReview: qs.MarkedForReview,
			Selected:        selected,
		}
	}
	return snap
}

// Restore overlays a snapshot onto a freshly built live session. Snapshot
// rows are joined by question id; rows for questions no longer on the test
// are dropped.
func (s *Session) Restore(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[uint]QuestionSnapshot, len(snap.Questions))
	for _, q := range snap.Questions {
		byID[q.QuestionID] = q
	}
	for _, qs := range s.Questions {
		saved, ok := byID[qs.Question.ID]
		if !ok {
			continue
		}
		qs.Status = saved.Status
		qs.MarkedForReview = saved.MarkedForReview
		if len(saved.Selected) > 0 {
			qs.Selected = append([]string(nil), saved.Selected...)
		}
	}
	if snap.CurrentIndex >= 0 && snap.CurrentIndex < len(s.Questions) {
		s.CurrentIndex = snap.CurrentIndex
	}
	s.StartedAt = snap.StartedAt
	if s.timer != nil {
		s.timer.mu.Lock()
		s.timer.remaining = snap.RemainingSeconds
		s.timer.mu.Unlock()
	}
}

// NewLiveSession builds a session from a loaded test. The caller attaches
// the timer once the expiry callback (which needs the session itself) can
// be formed.
func NewLiveSession(id string, test *models.Test, studentID string) *Session {
	questions := test.OrderedQuestions()
	states := make([]*QuestionState, 0, len(questions))
	for _, q := range questions {
		states = append(states, Normalize(q, nil, ModeLive))
	}
	return &Session{
		ID:                 id,
		TestID:             test.ID,
		TestTitle:          test.Title,
		StudentID:          studentID,
		Mode:               ModeLive,
		DurationMinutes:    test.Duration,
		FullscreenRequired: test.RequireFullScreen,
		Questions:          states,
		CurrentIndex:       0,
		StartedAt:          time.Now(),
	}
}

// AttachTimer wires the countdown clock. Must happen before Start.
func (s *Session) AttachTimer(t *Timer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer = t
}
