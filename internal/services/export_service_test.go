package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func TestExportReview(t *testing.T) {
	repo := newMockRepository()
	result := &models.TestResult{
		ID:        9,
		TestID:    7,
		StudentID: "student-1",
		Duration:  142,
		EndReason: models.EndReasonSubmitted,
		Test:      *activeTest(),
		Responses: []models.TestResponse{
			{ResultID: 9, QuestionID: 1, SelectedAnswer: "q1-b", IsCorrect: true},
			{ResultID: 9, QuestionID: 2, SelectedAnswer: "q2-a,q2-b", IsCorrect: false},
		},
	}
	repo.resultRepo.On("GetByIDWithQuestions", mock.Anything, uint(9)).Return(result, nil)

	svc := NewExportService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	buf, filename, err := svc.ExportReview(context.Background(), 9, "student-1")

	assert.NoError(t, err)
	assert.Equal(t, "review-9.xlsx", filename)
	assert.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(buf)
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Review")
	assert.NoError(t, err)

	// Header, three question rows, a spacer, three summary rows.
	assert.GreaterOrEqual(t, len(rows), 7)
	assert.Equal(t, []string{"#", "Subject", "Type", "Question", "Your Answer", "Correct Answer", "Outcome", "Marks"}, rows[0])

	assert.Equal(t, "Physics", rows[1][1])
	assert.Equal(t, "single_choice", rows[1][2])
	assert.Equal(t, "b", rows[1][4], "answer rendered as option text, not id")
	assert.Equal(t, "correct", rows[1][6])

	assert.Equal(t, "a; b", rows[2][4])
	assert.Equal(t, "a; c", rows[2][5])
	assert.Equal(t, "incorrect", rows[2][6])

	// The skipped question exports as unattempted with no answer.
	assert.Equal(t, "unattempted", rows[3][6])

	var correctRow []string
	for _, row := range rows {
		if len(row) >= 2 && row[0] == "Correct" {
			correctRow = row
		}
	}
	if assert.NotNil(t, correctRow, "summary block present") {
		assert.Equal(t, "1", correctRow[1])
	}
}

func TestExportReviewErrors(t *testing.T) {
	repo := newMockRepository()
	repo.resultRepo.On("GetByIDWithQuestions", mock.Anything, uint(404)).
		Return(nil, gorm.ErrRecordNotFound)

	result := &models.TestResult{ID: 9, TestID: 7, StudentID: "student-1", Test: *activeTest()}
	repo.resultRepo.On("GetByIDWithQuestions", mock.Anything, uint(9)).Return(result, nil)

	svc := NewExportService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, _, err := svc.ExportReview(context.Background(), 404, "student-1")
	assert.ErrorIs(t, err, ErrResultNotFound)

	_, _, err = svc.ExportReview(context.Background(), 9, "intruder")
	assert.True(t, IsPermission(err))
}
