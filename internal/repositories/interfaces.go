package repositories

import (
	"context"
	"errors"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
	"gorm.io/gorm"
)

// TestRepository loads assembled test papers with their question lists in
// position order.
type TestRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Test, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Test, error)
	List(ctx context.Context, filters TestFilters) ([]*models.Test, int64, error)
}

// ResultRepository owns the single write of the submission reconciler and
// the read path of the review projector.
type ResultRepository interface {
	Create(ctx context.Context, result *models.TestResult) error
	GetByID(ctx context.Context, id uint) (*models.TestResult, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.TestResult, error)
	GetByStudent(ctx context.Context, studentID string, filters ResultFilters) ([]*models.TestResult, int64, error)
}

// ProctoringRepository persists lockdown escape events.
type ProctoringRepository interface {
	Create(ctx context.Context, event *models.ProctoringEvent) error
	GetBySession(ctx context.Context, sessionID string) ([]*models.ProctoringEvent, error)
}

type Repository interface {
	Test() TestRepository
	Result() ResultRepository
	Proctoring() ProctoringRepository
}

type TestFilters struct {
	Status    *models.TestStatus
	CreatedBy *string
	Search    *string
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

type ResultFilters struct {
	TestID *uint
	Limit  int
	Offset int
}

// IsNotFoundError checks whether an error is a record-not-found from the
// underlying store.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
