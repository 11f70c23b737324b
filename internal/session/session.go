package session

import (
	"sync"
	"time"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
)

type Mode string

const (
	ModeLive   Mode = "live"
	ModeReview Mode = "review"
)

type QuestionStatus string

const (
	StatusUnattempted QuestionStatus = "unattempted"
	StatusAttempted   QuestionStatus = "attempted"
	// StatusReviewed marks a question in a review session: already graded,
	// not pending. Distinct from the live-mode unattempted.
	StatusReviewed QuestionStatus = "reviewed"
)

// QuestionState wraps one question with its session-scoped answer state.
// "Current" is not a status: it derives from Session.CurrentIndex, and
// marked-for-review is an orthogonal flag, so a question can be current and
// marked at the same time without special cases.
type QuestionState struct {
	Question        *models.Question
	Status          QuestionStatus
	MarkedForReview bool

	// Selected holds option ids for option questions, or blank texts for
	// fill_blank (index = blank index). Nil until the student acts.
	Selected []string

	// Review-mode fields, populated by the projector.
	Answered  bool
	IsCorrect bool

	// Unsupported flags a malformed record (an option question with no
	// options). Rendered degraded, never a hard failure.
	Unsupported bool

	// Matching holds the parsed instruction/headers for matching questions.
	Matching models.MatchingContent
}

// HasSelection reports whether the student has a live answer on this
// question. For fill_blank only the primary blank drives the check; a
// whitespace-only blank still counts, only emptiness is checked.
func (qs *QuestionState) HasSelection() bool {
	if len(qs.Selected) == 0 {
		return false
	}
	if qs.Question.Type == models.FillBlank {
		return qs.Selected[0] != ""
	}
	return true
}

// Session is the in-memory state of one student's attempt at one test. All
// mutation goes through the named transition methods, which serialize on
// the session mutex; the exactly-once submission guard lives behind the
// same mutex.
type Session struct {
	mu sync.Mutex

	ID        string
	TestID    uint
	TestTitle string
	StudentID string
	Mode      Mode

	DurationMinutes    int
	FullscreenRequired bool

	Questions    []*QuestionState
	CurrentIndex int

	StartedAt   time.Time
	Submitted   bool
	SubmittedAt time.Time
	ResultID    uint
	EndReason   models.EndReason

	pendingEscape  EscapeVector
	submitInFlight bool

	timer *Timer
}

// locked reports whether mutation is forbidden. Callers must hold mu.
func (s *Session) locked() bool {
	return s.Submitted || s.Mode == ModeReview
}

func (s *Session) IsSubmitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Submitted
}

// Timer returns the countdown clock, nil for review sessions.
func (s *Session) Timer() *Timer {
	return s.timer
}

// TimeRemaining returns the countdown in whole seconds, 0 for review
// sessions.
func (s *Session) TimeRemaining() int {
	if s.timer == nil {
		return 0
	}
	return s.timer.Remaining()
}

// Current returns the current question state.
func (s *Session) Current() *QuestionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return nil
	}
	return s.Questions[s.CurrentIndex]
}

// Index returns the current question index.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.CurrentIndex
}

// Len returns the number of questions in the session.
func (s *Session) Len() int {
	return len(s.Questions)
}

// StateSnapshot copies every question state under the mutex so renderers
// never race a concurrent mutator. Selected slices are copied; the
// Question models are immutable after load and stay shared.
func (s *Session) StateSnapshot() ([]QuestionState, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	states := make([]QuestionState, len(s.Questions))
	for i, qs := range s.Questions {
		states[i] = *qs
		states[i].Selected = append([]string(nil), qs.Selected...)
	}
	return states, s.CurrentIndex
}

// SubmissionState returns the submitted flag and the retained result id
// under one lock acquisition.
func (s *Session) SubmissionState() (bool, uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Submitted, s.ResultID
}
