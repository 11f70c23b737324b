package session

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
)

// EscapeVector identifies how the student tried to leave a locked-down
// test. All three vectors funnel into the same confirmation-or-submit
// decision point.
type EscapeVector string

const (
	VectorUnload         EscapeVector = "unload"
	VectorBackNavigation EscapeVector = "back_navigation"
	VectorFullscreenExit EscapeVector = "fullscreen_exit"
)

type Decision string

const (
	// DecisionIgnored: lockdown does not apply (submitted session, review
	// mode, or fullscreen vector on a mobile user agent).
	DecisionIgnored Decision = "ignored"
	// DecisionConfirm: the client must raise the confirmation dialog.
	DecisionConfirm Decision = "confirm"
	// DecisionSubmitted: the escape ended the session.
	DecisionSubmitted Decision = "submitted"
	// DecisionContinue: the student canceled; restore the pre-escape state.
	DecisionContinue Decision = "continue"
)

// EscapeOutcome tells the client what to do after an escape attempt or its
// resolution. ReenterFullscreen asks for a fullscreen re-request after a
// short delay regardless of the dialog outcome, so canceling restores the
// locked viewing mode.
type EscapeOutcome struct {
	Decision          Decision `json:"decision"`
	ReenterFullscreen bool     `json:"reenter_fullscreen"`
	ResultID          uint     `json:"result_id,omitempty"`
}

// EscapeRecorder persists and broadcasts proctoring events. The engine
// never blocks on it; recording failures are logged and swallowed.
type EscapeRecorder interface {
	RecordEscape(ctx context.Context, event *models.ProctoringEvent) error
}

// Lockdown funnels the three escape vectors into one decision point. Only
// an explicit confirmation submits: the back button alone never silently
// ends a test, and canceling leaves session state untouched.
type Lockdown struct {
	reconciler *Reconciler
	recorder   EscapeRecorder
	logger     *slog.Logger
}

func NewLockdown(reconciler *Reconciler, recorder EscapeRecorder, logger *slog.Logger) *Lockdown {
	return &Lockdown{
		reconciler: reconciler,
		recorder:   recorder,
		logger:     logger,
	}
}

// HandleEscape processes one escape attempt. The unload vector submits
// immediately (the browser is already leaving; the periodic checkpoint
// makes this a replay rather than a race); the other two raise the
// confirmation dialog.
func (l *Lockdown) HandleEscape(ctx context.Context, sess *Session, vector EscapeVector, userAgent string) (*EscapeOutcome, error) {
	sess.mu.Lock()
	if sess.locked() {
		sess.mu.Unlock()
		return &EscapeOutcome{Decision: DecisionIgnored}, nil
	}
	if vector == VectorFullscreenExit && (!sess.FullscreenRequired || IsMobileUserAgent(userAgent)) {
		sess.mu.Unlock()
		return &EscapeOutcome{Decision: DecisionIgnored}, nil
	}

	if vector != VectorUnload {
		sess.pendingEscape = vector
	}
	sess.mu.Unlock()

	l.record(ctx, sess, vector, userAgent)

	if vector == VectorUnload {
		resultID, err := l.reconciler.Submit(ctx, sess, models.EndReasonForcedExit)
		if err != nil && err != ErrAlreadySubmitted {
			// Best effort: the tab is gone either way. The checkpointed
			// snapshot keeps the answers recoverable.
			l.logger.Warn("unload submission failed",
				"session_id", sess.ID, "error", err)
			return &EscapeOutcome{Decision: DecisionIgnored}, err
		}
		return &EscapeOutcome{Decision: DecisionSubmitted, ResultID: resultID}, nil
	}

	return &EscapeOutcome{
		Decision:          DecisionConfirm,
		ReenterFullscreen: vector == VectorFullscreenExit,
	}, nil
}

// Resolve settles the confirmation dialog raised by HandleEscape. Confirm
// submits exactly once through the reconciler; cancel clears the pending
// escape and restores lockdown with no side effects on session state.
func (l *Lockdown) Resolve(ctx context.Context, sess *Session, confirmed bool) (*EscapeOutcome, error) {
	sess.mu.Lock()
	if sess.locked() {
		sess.mu.Unlock()
		return &EscapeOutcome{Decision: DecisionIgnored}, nil
	}
	if sess.pendingEscape == "" {
		sess.mu.Unlock()
		return nil, ErrNoPendingEscape
	}
	vector := sess.pendingEscape
	sess.pendingEscape = ""
	reenter := sess.FullscreenRequired
	sess.mu.Unlock()

	l.record(ctx, sess, EscapeVector(models.EventEscapeResolved), "")

	if confirmed {
		resultID, err := l.reconciler.Submit(ctx, sess, models.EndReasonForcedExit)
		if err != nil && err != ErrAlreadySubmitted {
			return nil, err
		}
		return &EscapeOutcome{Decision: DecisionSubmitted, ResultID: resultID}, nil
	}

	l.logger.Info("escape canceled, continuing test",
		"session_id", sess.ID, "vector", vector)
	return &EscapeOutcome{
		Decision:          DecisionContinue,
		ReenterFullscreen: reenter,
	}, nil
}

func (l *Lockdown) record(ctx context.Context, sess *Session, vector EscapeVector, userAgent string) {
	if l.recorder == nil {
		return
	}
	event := &models.ProctoringEvent{
		SessionID:  sess.ID,
		TestID:     sess.TestID,
		StudentID:  sess.StudentID,
		Type:       models.ProctoringEventType(vector),
		Severity:   severityFor(vector),
		TimeOffset: int(time.Since(sess.StartedAt).Seconds()),
		UserAgent:  userAgent,
	}
	if err := l.recorder.RecordEscape(ctx, event); err != nil {
		l.logger.Warn("failed to record proctoring event",
			"session_id", sess.ID, "type", vector, "error", err)
	}
}

func severityFor(vector EscapeVector) int {
	switch vector {
	case VectorUnload:
		return 4
	case VectorFullscreenExit:
		return 3
	case VectorBackNavigation:
		return 2
	default:
		return 1
	}
}

var mobileMarkers = []string{
	"android", "iphone", "ipad", "ipod", "blackberry",
	"windows phone", "opera mini", "mobile",
}

// IsMobileUserAgent is the stateless sniff that gates the fullscreen
// vector: mobile user agents are exempt from fullscreen lockdown.
func IsMobileUserAgent(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, marker := range mobileMarkers {
		if strings.Contains(ua, marker) {
			return true
		}
	}
	return false
}
