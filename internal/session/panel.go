package session

// The navigation panel is a pure read-model over the session: subject
// groups with 1-based display ranges plus aggregate counters. Its only
// write path is Session.GoToQuestion.

// SubjectGroup collects the global indexes of one subject's questions,
// preserving original question order.
type SubjectGroup struct {
	Subject string `json:"subject"`
	Start   int    `json:"start"` // 1-based display number of the first question
	End     int    `json:"end"`   // 1-based display number of the last question
	Indexes []int  `json:"indexes"`
}

// PanelCell is one navigator cell.
type PanelCell struct {
	Index           int            `json:"index"`
	Number          int            `json:"number"` // 1-based display number
	Status          QuestionStatus `json:"status"`
	MarkedForReview bool           `json:"marked_for_review"`
	Current         bool           `json:"current"`
	Answered        bool           `json:"answered"`
	IsCorrect       bool           `json:"is_correct"`
}

type LiveCounts struct {
	Attempted       int `json:"attempted"`
	MarkedForReview int `json:"marked_for_review"`
	Unattempted     int `json:"unattempted"`
}

type ReviewCounts struct {
	Correct     int `json:"correct"`
	Incorrect   int `json:"incorrect"`
	Unattempted int `json:"unattempted"`
}

// PanelGroups groups questions by subject in first-appearance order.
func (s *Session) PanelGroups() []SubjectGroup {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := make(map[string]int)
	var groups []SubjectGroup
	for i, qs := range s.Questions {
		subject := qs.Question.Subject
		gi, ok := index[subject]
		if !ok {
			index[subject] = len(groups)
			groups = append(groups, SubjectGroup{
				Subject: subject,
				Start:   i + 1,
				End:     i + 1,
				Indexes: []int{i},
			})
			continue
		}
		groups[gi].End = i + 1
		groups[gi].Indexes = append(groups[gi].Indexes, i)
	}
	return groups
}

// PanelCells renders every question as a navigator cell. A cell can be
// both current and marked for review at once; the two are independent
// tags, not states of one enum.
func (s *Session) PanelCells() []PanelCell {
	s.mu.Lock()
	defer s.mu.Unlock()

	cells := make([]PanelCell, len(s.Questions))
	for i, qs := range s.Questions {
		cells[i] = PanelCell{
			Index:           i,
			Number:          i + 1,
			Status:          qs.Status,
			MarkedForReview: qs.MarkedForReview,
			Current:         i == s.CurrentIndex,
			Answered:        qs.HasSelection() || qs.Answered,
			IsCorrect:       qs.IsCorrect,
		}
	}
	return cells
}

// CountLive computes the live-mode aggregate counters.
func (s *Session) CountLive() LiveCounts {
	s.mu.Lock()
	defer s.mu.Unlock()

	var counts LiveCounts
	for _, qs := range s.Questions {
		if qs.MarkedForReview {
			counts.MarkedForReview++
		}
		if qs.Status == StatusAttempted || qs.HasSelection() {
			counts.Attempted++
		} else {
			counts.Unattempted++
		}
	}
	return counts
}

// CountReview computes the review-mode aggregate counters. Incorrect means
// answered and wrong; unanswered questions count as unattempted, never as
// wrong.
func (s *Session) CountReview() ReviewCounts {
	s.mu.Lock()
	defer s.mu.Unlock()

	var counts ReviewCounts
	for _, qs := range s.Questions {
		switch {
		case qs.IsCorrect:
			counts.Correct++
		case qs.Answered:
			counts.Incorrect++
		default:
			counts.Unattempted++
		}
	}
	return counts
}
