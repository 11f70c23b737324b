package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
)

// Submission is the wire payload the reconciler hands to the external
// persistence collaborator. Questions without a selection are omitted,
// never sent as nulls.
type Submission struct {
	SessionID string           `json:"session_id"`
	TestID    uint             `json:"test_id"`
	StudentID string           `json:"student_id"`
	Duration  int              `json:"duration"` // minutes spent
	EndReason models.EndReason `json:"end_reason"`
	Responses []ResponseInput  `json:"responses"`
}

type ResponseInput struct {
	QuestionID     uint   `json:"question_id"`
	SelectedAnswer string `json:"selected_answer"`
}

// Submitter is the single write collaborator. It persists the submission
// and returns the new result id used to route to the review screen.
type Submitter interface {
	SubmitTest(ctx context.Context, sub *Submission) (uint, error)
}

// Reconciler projects a session into a Submission and sends it exactly
// once. Three triggers funnel through here: the explicit submit click, the
// timer reaching zero, and a confirmed lockdown escape. The in-flight flag
// under the session mutex is what keeps the guarantee when two triggers
// race; without it both could observe Submitted == false and both submit.
type Reconciler struct {
	submitter   Submitter
	checkpoints CheckpointStore
	logger      *slog.Logger
}

func NewReconciler(submitter Submitter, checkpoints CheckpointStore, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		submitter:   submitter,
		checkpoints: checkpoints,
		logger:      logger,
	}
}

// Submit drives the one-shot submission. On failure the session stays
// mutable (the timer stays frozen, elapsed time is not lost) so the
// student can retry.
func (r *Reconciler) Submit(ctx context.Context, sess *Session, reason models.EndReason) (uint, error) {
	sess.mu.Lock()
	if sess.Mode == ModeReview {
		sess.mu.Unlock()
		return 0, ErrSessionLocked
	}
	if sess.Submitted {
		id := sess.ResultID
		sess.mu.Unlock()
		return id, ErrAlreadySubmitted
	}
	if sess.submitInFlight {
		sess.mu.Unlock()
		return 0, ErrSubmissionInFlight
	}
	sess.submitInFlight = true

	if sess.timer != nil {
		sess.timer.Stop()
	}
	remaining := 0
	if sess.timer != nil {
		remaining = sess.timer.Remaining()
	}

	sub := &Submission{
		SessionID: sess.ID,
		TestID:    sess.TestID,
		StudentID: sess.StudentID,
		Duration:  ElapsedMinutes(sess.DurationMinutes, remaining),
		EndReason: reason,
		Responses: projectResponses(sess.Questions),
	}
	sess.mu.Unlock()

	r.logger.Info("submitting session",
		"session_id", sub.SessionID,
		"test_id", sub.TestID,
		"student_id", sub.StudentID,
		"end_reason", reason,
		"responses_count", len(sub.Responses))

	resultID, err := r.submitter.SubmitTest(ctx, sub)

	sess.mu.Lock()
	if err != nil {
		// Leave the session retryable. The timer stays stopped so a retry
		// does not lose elapsed time.
		sess.submitInFlight = false
		sess.mu.Unlock()
		r.logger.Error("session submission failed",
			"session_id", sub.SessionID, "error", err)
		return 0, fmt.Errorf("failed to submit session: %w", err)
	}

	sess.Submitted = true
	sess.SubmittedAt = time.Now()
	sess.ResultID = resultID
	sess.EndReason = reason
	sess.pendingEscape = ""
	sess.mu.Unlock()

	r.finalizeCheckpoint(ctx, sess)

	r.logger.Info("session submitted",
		"session_id", sub.SessionID, "result_id", resultID)
	return resultID, nil
}

// finalizeCheckpoint overwrites the autosaved snapshot with a submitted
// one. The periodic autosave always predates the submission, so without
// this a restart would revive the session live and a second submit would
// write a second result.
func (r *Reconciler) finalizeCheckpoint(ctx context.Context, sess *Session) {
	if r.checkpoints == nil {
		return
	}
	if err := r.checkpoints.Save(ctx, sess.Snapshot(), submittedRetention); err != nil {
		r.logger.Warn("failed to finalize checkpoint",
			"session_id", sess.ID, "error", err)
	}
}

// ElapsedMinutes converts the remaining clock into minutes spent. A timer
// that ran to zero reports the full declared duration rather than a
// rounding artifact.
func ElapsedMinutes(declared, remainingSeconds int) int {
	if remainingSeconds <= 0 {
		return declared
	}
	left := remainingSeconds / 60
	if remainingSeconds%60 != 0 {
		left++
	}
	elapsed := declared - left
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// projectResponses is the pure projection of answered questions into wire
// responses. Callers must hold the session mutex.
func projectResponses(questions []*QuestionState) []ResponseInput {
	var responses []ResponseInput
	for _, qs := range questions {
		if !qs.HasSelection() {
			continue
		}
		selected := qs.Selected
		if qs.Question.Type == models.FillBlank {
			// A touched-then-cleared trailing blank must not leave a
			// dangling delimiter on the wire.
			selected = trimTrailingBlanks(selected)
		}
		responses = append(responses, ResponseInput{
			QuestionID:     qs.Question.ID,
			SelectedAnswer: strings.Join(selected, models.AnswerDelimiter),
		})
	}
	return responses
}

func trimTrailingBlanks(values []string) []string {
	end := len(values)
	for end > 0 && values[end-1] == "" {
		end--
	}
	return values[:end]
}
