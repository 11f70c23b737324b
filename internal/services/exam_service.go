package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/events"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/repositories"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/session"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/utils"
	"github.com/google/uuid"
)

// ExamService hosts live test-taking sessions and replays graded results.
// Every session mutation funnels through here into the engine's named
// transitions; nothing else touches session state.
type ExamService interface {
	StartSession(ctx context.Context, req *StartSessionRequest) (*SessionView, error)
	GetSession(ctx context.Context, sessionID, studentID string) (*SessionView, error)

	SelectOption(ctx context.Context, sessionID, studentID string, req *SelectOptionRequest) (*SessionView, error)
	ToggleOption(ctx context.Context, sessionID, studentID string, req *ToggleOptionRequest) (*SessionView, error)
	SetBlankText(ctx context.Context, sessionID, studentID string, req *BlankTextRequest) (*SessionView, error)
	ToggleReview(ctx context.Context, sessionID, studentID string) (*SessionView, error)
	Navigate(ctx context.Context, sessionID, studentID string, req *NavigateRequest) (*SessionView, error)

	Escape(ctx context.Context, sessionID, studentID string, req *EscapeRequest) (*session.EscapeOutcome, error)
	ResolveEscape(ctx context.Context, sessionID, studentID string, req *ResolveEscapeRequest) (*session.EscapeOutcome, error)

	Submit(ctx context.Context, sessionID, studentID string) (*SubmitResponse, error)
	TimeRemaining(ctx context.Context, sessionID, studentID string) (*TimeView, error)

	GetReview(ctx context.Context, resultID uint, studentID string) (*ReviewView, error)
}

type examService struct {
	repo       repositories.Repository
	manager    *session.Manager
	reconciler *session.Reconciler
	lockdown   *session.Lockdown
	publisher  events.EventPublisher
	validator  *utils.Validator
	logger     *slog.Logger
}

func NewExamService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	checkpoints session.CheckpointStore,
	validator *utils.Validator,
	logger *slog.Logger,
) (ExamService, *session.Manager) {
	reconciler := session.NewReconciler(newResultSubmitter(repo, publisher, logger), checkpoints, logger)
	manager := session.NewManager(reconciler, checkpoints, logger)
	lockdown := session.NewLockdown(reconciler, newProctorRecorder(repo, publisher, logger), logger)

	return &examService{
		repo:       repo,
		manager:    manager,
		reconciler: reconciler,
		lockdown:   lockdown,
		publisher:  publisher,
		validator:  validator,
		logger:     logger,
	}, manager
}

// ===== SESSION LIFECYCLE =====

func (s *examService) StartSession(ctx context.Context, req *StartSessionRequest) (*SessionView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	// Starting a test twice resumes the live session instead of forking.
	if existing, ok := s.manager.FindByStudent(req.TestID, req.StudentID); ok {
		s.logger.Info("resuming existing session",
			"session_id", existing.ID, "student_id", req.StudentID)
		return buildSessionView(existing), nil
	}

	test, err := s.repo.Test().GetByIDWithQuestions(ctx, req.TestID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to load test: %w", err)
	}
	if test.Status != models.TestActive {
		return nil, ErrTestNotActive
	}
	if len(test.OrderedQuestions()) == 0 {
		return nil, ErrTestEmpty
	}

	sess := session.NewLiveSession(uuid.NewString(), test, req.StudentID)
	s.armTimer(sess, test.Duration*60)
	s.manager.Add(sess)

	s.publishLifecycle(ctx, events.EventSessionStarted, sess)
	s.logger.Info("session started",
		"session_id", sess.ID,
		"test_id", test.ID,
		"student_id", req.StudentID,
		"questions", sess.Len(),
		"duration_minutes", test.Duration)

	return buildSessionView(sess), nil
}

func (s *examService) GetSession(ctx context.Context, sessionID, studentID string) (*SessionView, error) {
	sess, err := s.ownedSession(ctx, sessionID, studentID)
	if err != nil {
		return nil, err
	}
	return buildSessionView(sess), nil
}

// ===== ANSWER / NAVIGATION EVENTS =====

func (s *examService) SelectOption(ctx context.Context, sessionID, studentID string, req *SelectOptionRequest) (*SessionView, error) {
	return s.mutate(ctx, sessionID, studentID, req, func(sess *session.Session) error {
		return sess.SelectOption(req.OptionID)
	})
}

func (s *examService) ToggleOption(ctx context.Context, sessionID, studentID string, req *ToggleOptionRequest) (*SessionView, error) {
	return s.mutate(ctx, sessionID, studentID, req, func(sess *session.Session) error {
		return sess.ToggleOption(req.OptionID)
	})
}

func (s *examService) SetBlankText(ctx context.Context, sessionID, studentID string, req *BlankTextRequest) (*SessionView, error) {
	return s.mutate(ctx, sessionID, studentID, req, func(sess *session.Session) error {
		return sess.SetBlankText(req.Value, req.BlankIndex)
	})
}

func (s *examService) ToggleReview(ctx context.Context, sessionID, studentID string) (*SessionView, error) {
	return s.mutate(ctx, sessionID, studentID, nil, func(sess *session.Session) error {
		return sess.ToggleReview()
	})
}

func (s *examService) Navigate(ctx context.Context, sessionID, studentID string, req *NavigateRequest) (*SessionView, error) {
	return s.mutate(ctx, sessionID, studentID, req, func(sess *session.Session) error {
		if req.Index != nil {
			return sess.GoToQuestion(*req.Index)
		}
		switch req.Direction {
		case "next":
			return sess.Next()
		case "prev":
			return sess.Prev()
		default:
			return fmt.Errorf("%w: index or direction required", ErrBadRequest)
		}
	})
}

// ===== LOCKDOWN =====

func (s *examService) Escape(ctx context.Context, sessionID, studentID string, req *EscapeRequest) (*session.EscapeOutcome, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	sess, err := s.ownedSession(ctx, sessionID, studentID)
	if err != nil {
		return nil, err
	}
	return s.lockdown.HandleEscape(ctx, sess, session.EscapeVector(req.Vector), req.UserAgent)
}

func (s *examService) ResolveEscape(ctx context.Context, sessionID, studentID string, req *ResolveEscapeRequest) (*session.EscapeOutcome, error) {
	sess, err := s.ownedSession(ctx, sessionID, studentID)
	if err != nil {
		return nil, err
	}
	return s.lockdown.Resolve(ctx, sess, req.Confirmed)
}

// ===== SUBMISSION =====

func (s *examService) Submit(ctx context.Context, sessionID, studentID string) (*SubmitResponse, error) {
	sess, err := s.ownedSession(ctx, sessionID, studentID)
	if err != nil {
		return nil, err
	}

	resultID, err := s.reconciler.Submit(ctx, sess, models.EndReasonSubmitted)
	if err != nil {
		return nil, err
	}
	return &SubmitResponse{ResultID: resultID}, nil
}

func (s *examService) TimeRemaining(ctx context.Context, sessionID, studentID string) (*TimeView, error) {
	sess, err := s.ownedSession(ctx, sessionID, studentID)
	if err != nil {
		return nil, err
	}
	timer := sess.Timer()
	view := &TimeView{
		TimeRemaining: sess.TimeRemaining(),
		Clock:         session.FormatClock(sess.TimeRemaining()),
	}
	if timer != nil {
		view.Active = timer.Active()
	}
	return view, nil
}

// ===== REVIEW =====

func (s *examService) GetReview(ctx context.Context, resultID uint, studentID string) (*ReviewView, error) {
	result, err := s.repo.Result().GetByIDWithQuestions(ctx, resultID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to load result: %w", err)
	}
	if result.StudentID != studentID {
		return nil, NewPermissionError(studentID, "result", "review", "not owned by student")
	}

	reviewSess := session.NewReviewSession(result, nil)
	return buildReviewView(result, reviewSess), nil
}

// ===== HELPERS =====

// mutate runs one engine transition and returns the refreshed view.
func (s *examService) mutate(ctx context.Context, sessionID, studentID string, req interface{}, fn func(*session.Session) error) (*SessionView, error) {
	if req != nil {
		if err := s.validator.Validate(req); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
	}
	sess, err := s.ownedSession(ctx, sessionID, studentID)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	return buildSessionView(sess), nil
}

// ownedSession resolves a live session, falling back to a checkpoint
// restore after a process restart, and enforces ownership.
func (s *examService) ownedSession(ctx context.Context, sessionID, studentID string) (*session.Session, error) {
	sess, ok := s.manager.Get(sessionID)
	if !ok {
		restored, err := s.restoreFromCheckpoint(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		sess = restored
	}
	if sess.StudentID != studentID {
		return nil, NewPermissionError(studentID, "session", "access", "not owned by student")
	}
	return sess, nil
}

func (s *examService) restoreFromCheckpoint(ctx context.Context, sessionID string) (*session.Session, error) {
	checkpoints := s.manager.Checkpoints()
	if checkpoints == nil {
		return nil, ErrSessionNotFound
	}
	snap, err := checkpoints.Load(ctx, sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if snap.Submitted {
		return nil, ErrSessionNotResumable
	}
	if s.attemptAlreadyGraded(ctx, snap) {
		return nil, ErrSessionNotResumable
	}

	test, err := s.repo.Test().GetByIDWithQuestions(ctx, snap.TestID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to load test: %w", err)
	}

	sess := session.NewLiveSession(snap.SessionID, test, snap.StudentID)
	s.armTimer(sess, snap.RemainingSeconds)
	sess.Restore(snap)
	s.manager.Add(sess)

	s.publishLifecycle(ctx, events.EventSessionResumed, sess)
	s.logger.Info("session restored from checkpoint",
		"session_id", sess.ID, "remaining_seconds", snap.RemainingSeconds)
	return sess, nil
}

// attemptAlreadyGraded cross-checks the result store before reviving a
// checkpointed session. The autosaved snapshot can lag the submission, so
// a result written after this attempt started means the session must not
// come back live.
func (s *examService) attemptAlreadyGraded(ctx context.Context, snap *session.Snapshot) bool {
	results, _, err := s.repo.Result().GetByStudent(ctx, snap.StudentID,
		repositories.ResultFilters{TestID: &snap.TestID})
	if err != nil {
		s.logger.Warn("result cross-check failed during restore",
			"session_id", snap.SessionID, "error", err)
		return false
	}
	for _, result := range results {
		if !result.SubmittedAt.Before(snap.StartedAt) {
			return true
		}
	}
	return false
}

// armTimer wires the countdown clock so expiry funnels into the same
// reconciler the explicit submit path uses.
func (s *examService) armTimer(sess *session.Session, seconds int) {
	timer := session.NewTimer(seconds, func() {
		if _, err := s.reconciler.Submit(context.Background(), sess, models.EndReasonTimeout); err != nil &&
			err != session.ErrAlreadySubmitted && err != session.ErrSubmissionInFlight {
			s.logger.Error("timeout submission failed",
				"session_id", sess.ID, "error", err)
		}
	})
	sess.AttachTimer(timer)
	timer.Start()
}

func (s *examService) publishLifecycle(ctx context.Context, eventType events.EventType, sess *session.Session) {
	err := s.publisher.PublishSessionEvent(ctx, &events.SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "exam-engine",
		Version:   "1.0",
		Data: events.SessionStartedEvent{
			SessionID: sess.ID,
			TestID:    sess.TestID,
			TestTitle: sess.TestTitle,
			StudentID: sess.StudentID,
			StartedAt: sess.StartedAt,
			Duration:  sess.DurationMinutes,
		},
	})
	if err != nil {
		s.logger.Warn("failed to publish lifecycle event",
			"session_id", sess.ID, "type", eventType, "error", err)
	}
}
