package services

import (
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/session"
)

// View builders: pure projections of a session into the render DTOs. Live
// views never leak correctness; review views never expose mutators, so
// the one rendering contract serves both modes. Question state is copied
// out under the session mutex before any rendering happens.

func buildSessionView(sess *session.Session) *SessionView {
	remaining := sess.TimeRemaining()
	submitted, resultID := sess.SubmissionState()
	states, currentIndex := sess.StateSnapshot()

	view := &SessionView{
		SessionID:          sess.ID,
		TestID:             sess.TestID,
		Title:              sess.TestTitle,
		Mode:               sess.Mode,
		TimeRemaining:      remaining,
		Clock:              session.FormatClock(remaining),
		Submitted:          submitted,
		ResultID:           resultID,
		FullscreenRequired: sess.FullscreenRequired,
		CurrentIndex:       currentIndex,
		Groups:             sess.PanelGroups(),
		Cells:              sess.PanelCells(),
		Counts:             sess.CountLive(),
	}

	view.Questions = make([]QuestionView, 0, len(states))
	for i := range states {
		view.Questions = append(view.Questions, buildQuestionView(&states[i], session.ModeLive))
	}
	return view
}

func buildReviewView(result *models.TestResult, sess *session.Session) *ReviewView {
	states, _ := sess.StateSnapshot()

	view := &ReviewView{
		ResultID:  result.ID,
		TestID:    result.TestID,
		Title:     result.Test.Title,
		Duration:  result.Duration,
		EndReason: result.EndReason,
		Groups:    sess.PanelGroups(),
		Cells:     sess.PanelCells(),
		Counts:    sess.CountReview(),
	}

	view.Questions = make([]QuestionView, 0, len(states))
	for i := range states {
		view.Questions = append(view.Questions, buildQuestionView(&states[i], session.ModeReview))
	}
	return view
}

func buildQuestionView(qs *session.QuestionState, mode session.Mode) QuestionView {
	q := qs.Question
	view := QuestionView{
		ID:              q.ID,
		Subject:         q.Subject,
		Type:            q.Type,
		QuestionText:    q.QuestionText,
		ImageURL:        q.ImageURL,
		Marks:           q.Marks,
		Unsupported:     qs.Unsupported,
		Selected:        qs.Selected,
		Status:          qs.Status,
		MarkedForReview: qs.MarkedForReview,
	}

	if q.Type == models.Matching {
		matching := qs.Matching
		view.Matching = &matching
		view.MatchingPairs = q.MatchingPairs
		// The parsed instruction replaces the raw JSON document.
		view.QuestionText = matching.Instruction
	}

	view.Options = make([]OptionView, 0, len(q.Options))
	for i := range q.Options {
		opt := &q.Options[i]
		optView := OptionView{
			ID:       opt.ID,
			Text:     opt.Text,
			ImageURL: opt.ImageURL,
		}
		if mode == session.ModeReview {
			optView.Verdict = session.VerdictFor(qs, opt)
		}
		view.Options = append(view.Options, optView)
	}

	if mode == session.ModeReview {
		view.Answered = qs.Answered
		view.IsCorrect = qs.IsCorrect
		view.Solution = q.Solution
	}
	return view
}
