package postgres

import (
	"context"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/repositories"
	"gorm.io/gorm"
)

type ProctoringPostgreSQL struct {
	db *gorm.DB
}

func NewProctoringPostgreSQL(db *gorm.DB) repositories.ProctoringRepository {
	return &ProctoringPostgreSQL{db: db}
}

func (p ProctoringPostgreSQL) Create(ctx context.Context, event *models.ProctoringEvent) error {
	return p.db.WithContext(ctx).Create(event).Error
}

func (p ProctoringPostgreSQL) GetBySession(ctx context.Context, sessionID string) ([]*models.ProctoringEvent, error) {
	var events []*models.ProctoringEvent
	if err := p.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// repository bundles the three stores behind the aggregate interface.
type repository struct {
	test       repositories.TestRepository
	result     repositories.ResultRepository
	proctoring repositories.ProctoringRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		test:       NewTestPostgreSQL(db),
		result:     NewResultPostgreSQL(db),
		proctoring: NewProctoringPostgreSQL(db),
	}
}

func (r *repository) Test() repositories.TestRepository {
	return r.test
}

func (r *repository) Result() repositories.ResultRepository {
	return r.result
}

func (r *repository) Proctoring() repositories.ProctoringRepository {
	return r.proctoring
}
