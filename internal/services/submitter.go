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
	"github.com/google/uuid"
)

// resultSubmitter is the persistence collaborator behind the reconciler:
// it grades each response, writes the result in one create, and announces
// the submission. It is the only component that writes results.
type resultSubmitter struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
}

func newResultSubmitter(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) session.Submitter {
	return &resultSubmitter{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *resultSubmitter) SubmitTest(ctx context.Context, sub *session.Submission) (uint, error) {
	test, err := s.repo.Test().GetByIDWithQuestions(ctx, sub.TestID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return 0, ErrTestNotFound
		}
		return 0, fmt.Errorf("failed to load test for grading: %w", err)
	}

	byID := make(map[uint]*models.Question)
	for _, q := range test.OrderedQuestions() {
		byID[q.ID] = q
	}

	result := &models.TestResult{
		TestID:      sub.TestID,
		StudentID:   sub.StudentID,
		Duration:    sub.Duration,
		EndReason:   sub.EndReason,
		SubmittedAt: time.Now(),
	}
	for _, resp := range sub.Responses {
		q, ok := byID[resp.QuestionID]
		if !ok {
			// Stale question reference; the answer has nothing to score
			// against, so it is dropped rather than failing the submit.
			s.logger.Warn("response references unknown question",
				"test_id", sub.TestID, "question_id", resp.QuestionID)
			continue
		}
		result.Responses = append(result.Responses, models.TestResponse{
			QuestionID:     resp.QuestionID,
			SelectedAnswer: resp.SelectedAnswer,
			IsCorrect:      gradeResponse(q, resp.SelectedAnswer),
		})
	}

	if err := s.repo.Result().Create(ctx, result); err != nil {
		return 0, fmt.Errorf("failed to persist result: %w", err)
	}

	s.publish(ctx, sub, result, len(byID))
	return result.ID, nil
}

func (s *resultSubmitter) publish(ctx context.Context, sub *session.Submission, result *models.TestResult, total int) {
	eventType := events.EventSessionSubmitted
	if sub.EndReason == models.EndReasonTimeout {
		eventType = events.EventSessionExpired
	}
	err := s.publisher.PublishSessionEvent(ctx, &events.SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "exam-engine",
		Version:   "1.0",
		Data: events.SessionSubmittedEvent{
			SessionID:   sub.SessionID,
			TestID:      sub.TestID,
			StudentID:   sub.StudentID,
			ResultID:    result.ID,
			SubmittedAt: result.SubmittedAt,
			EndReason:   sub.EndReason,
			Answered:    len(result.Responses),
			Total:       total,
		},
	})
	if err != nil {
		s.logger.Warn("failed to publish submission event",
			"session_id", sub.SessionID, "error", err)
	}
}

// proctorRecorder persists lockdown escapes and mirrors them onto the
// event bus for live proctor dashboards.
type proctorRecorder struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
}

func newProctorRecorder(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) session.EscapeRecorder {
	return &proctorRecorder{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (r *proctorRecorder) RecordEscape(ctx context.Context, event *models.ProctoringEvent) error {
	if err := r.repo.Proctoring().Create(ctx, event); err != nil {
		return fmt.Errorf("failed to persist proctoring event: %w", err)
	}

	err := r.publisher.PublishSessionEvent(ctx, &events.SessionEvent{
		ID:        uuid.NewString(),
		Type:      events.ProctorEventType(event.Type),
		Timestamp: time.Now(),
		Source:    "exam-engine",
		Version:   "1.0",
		Data: events.ProctoringAlertEvent{
			SessionID:  event.SessionID,
			TestID:     event.TestID,
			StudentID:  event.StudentID,
			EscapeType: event.Type,
			Severity:   event.Severity,
			TimeOffset: event.TimeOffset,
		},
	})
	if err != nil {
		r.logger.Warn("failed to publish proctoring event",
			"session_id", event.SessionID, "error", err)
	}
	return nil
}
