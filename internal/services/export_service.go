package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/repositories"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/session"
	"github.com/xuri/excelize/v2"
)

// ExportService renders a graded review as a spreadsheet: one row per
// question with the student's answer, the expected answer, and the
// per-question outcome, plus a summary block of the review counters.
type ExportService interface {
	ExportReview(ctx context.Context, resultID uint, studentID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

const exportSheet = "Review"

func (s *exportService) ExportReview(ctx context.Context, resultID uint, studentID string) (*bytes.Buffer, string, error) {
	result, err := s.repo.Result().GetByIDWithQuestions(ctx, resultID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrResultNotFound
		}
		return nil, "", fmt.Errorf("failed to load result: %w", err)
	}
	if result.StudentID != studentID {
		return nil, "", NewPermissionError(studentID, "result", "export", "not owned by student")
	}

	reviewSess := session.NewReviewSession(result, nil)
	counts := reviewSess.CountReview()
	states, _ := reviewSess.StateSnapshot()

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"#", "Subject", "Type", "Question", "Your Answer", "Correct Answer", "Outcome", "Marks"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, h)
	}

	row := 2
	for i := range states {
		qs := &states[i]
		q := qs.Question

		outcome := "unattempted"
		if qs.Answered {
			if qs.IsCorrect {
				outcome = "correct"
			} else {
				outcome = "incorrect"
			}
		}

		values := []interface{}{
			i + 1,
			q.Subject,
			string(q.Type),
			questionTextFor(qs),
			answerLabel(q, qs.Selected),
			answerLabel(q, q.CorrectOptionIDs()),
			outcome,
			q.Marks,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(exportSheet, cell, v)
		}
		row++
	}

	// Summary block
	row++
	f.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), "Correct")
	f.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), counts.Correct)
	row++
	f.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), "Incorrect")
	f.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), counts.Incorrect)
	row++
	f.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), "Unattempted")
	f.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), counts.Unattempted)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	filename := fmt.Sprintf("review-%d.xlsx", result.ID)
	s.logger.Info("review exported",
		"result_id", result.ID, "student_id", studentID, "rows", reviewSess.Len())
	return buf, filename, nil
}

func questionTextFor(qs *session.QuestionState) string {
	if qs.Question.Type == models.Matching {
		return qs.Matching.Instruction
	}
	return qs.Question.QuestionText
}

// answerLabel maps option ids back to option text where possible; free
// text answers pass through unchanged.
func answerLabel(q *models.Question, selected []string) string {
	if len(selected) == 0 {
		return ""
	}
	if q.Type == models.FillBlank {
		return selected[0]
	}

	byID := make(map[string]string, len(q.Options))
	for _, opt := range q.Options {
		byID[opt.ID] = opt.Text
	}
	label := ""
	for i, id := range selected {
		if i > 0 {
			label += "; "
		}
		if text, ok := byID[id]; ok {
			label += text
		} else {
			label += id
		}
	}
	return label
}
