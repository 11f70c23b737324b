package session

import "github.com/Prithwi32/vidyastraa-exam-engine/internal/models"

// Transition methods for the live session state machine. Every mutator is
// a no-op (error) once the session is submitted or in review mode, and all
// of them act on the current question only; navigation is the only way to
// change which question that is.

// SelectOption records the answer for a single-valued question type
// (single_choice, assertion_reason, matching). Re-selecting is idempotent.
func (s *Session) SelectOption(optionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	qs, err := s.current()
	if err != nil {
		return err
	}
	if qs.Unsupported {
		return ErrUnsupportedQuestion
	}
	switch qs.Question.Type {
	case models.SingleChoice, models.AssertionReason, models.Matching:
	default:
		return ErrWrongQuestionType
	}
	if !s.hasOption(qs, optionID) {
		return ErrOptionNotFound
	}

	qs.Selected = []string{optionID}
	qs.Status = StatusAttempted
	return nil
}

// ToggleOption adds or removes one option from a multi_select answer.
// Removing the last option returns the question to unattempted.
func (s *Session) ToggleOption(optionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	qs, err := s.current()
	if err != nil {
		return err
	}
	if qs.Unsupported {
		return ErrUnsupportedQuestion
	}
	if qs.Question.Type != models.MultiSelect {
		return ErrWrongQuestionType
	}
	if !s.hasOption(qs, optionID) {
		return ErrOptionNotFound
	}

	for i, id := range qs.Selected {
		if id == optionID {
			qs.Selected = append(qs.Selected[:i], qs.Selected[i+1:]...)
			if len(qs.Selected) == 0 {
				qs.Selected = nil
				qs.Status = StatusUnattempted
			}
			return nil
		}
	}
	qs.Selected = append(qs.Selected, optionID)
	qs.Status = StatusAttempted
	return nil
}

// SetBlankText is the sole mutator for fill_blank questions. The question
// is attempted iff the primary blank is non-empty; only emptiness is
// checked, so whitespace counts as an answer.
func (s *Session) SetBlankText(value string, blankIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	qs, err := s.current()
	if err != nil {
		return err
	}
	if qs.Question.Type != models.FillBlank {
		return ErrWrongQuestionType
	}
	if blankIndex < 0 {
		return ErrIndexOutOfRange
	}

	for len(qs.Selected) <= blankIndex {
		qs.Selected = append(qs.Selected, "")
	}
	qs.Selected[blankIndex] = value

	if qs.Selected[0] != "" {
		qs.Status = StatusAttempted
	} else {
		qs.Status = StatusUnattempted
	}
	return nil
}

// ToggleReview flips the marked-for-review flag on the current question.
// The flag is orthogonal to answer status: clearing it never touches the
// selection, and a current question can stay marked.
func (s *Session) ToggleReview() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	qs, err := s.current()
	if err != nil {
		return err
	}
	qs.MarkedForReview = !qs.MarkedForReview
	return nil
}

// GoToQuestion moves the current pointer. Leaving a question fabricates
// nothing: status already reflects whether a selection exists.
func (s *Session) GoToQuestion(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked() {
		return ErrSessionLocked
	}
	if index < 0 || index >= len(s.Questions) {
		return ErrIndexOutOfRange
	}
	s.CurrentIndex = index
	return nil
}

// Next advances to the following question, clamping at the end.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked() {
		return ErrSessionLocked
	}
	if s.CurrentIndex+1 < len(s.Questions) {
		s.CurrentIndex++
	}
	return nil
}

// Prev moves to the preceding question, clamping at the start.
func (s *Session) Prev() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked() {
		return ErrSessionLocked
	}
	if s.CurrentIndex > 0 {
		s.CurrentIndex--
	}
	return nil
}

// current fetches the current question after the mutation guards. Callers
// must hold mu.
func (s *Session) current() (*QuestionState, error) {
	if s.locked() {
		return nil, ErrSessionLocked
	}
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return nil, ErrIndexOutOfRange
	}
	return s.Questions[s.CurrentIndex], nil
}

func (s *Session) hasOption(qs *QuestionState, optionID string) bool {
	for _, opt := range qs.Question.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}
