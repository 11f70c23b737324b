package postgres

import (
	"context"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/repositories"
	"gorm.io/gorm"
)

type ResultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{db: db}
}

func (r ResultPostgreSQL) Create(ctx context.Context, result *models.TestResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r ResultPostgreSQL) GetByID(ctx context.Context, id uint) (*models.TestResult, error) {
	var result models.TestResult
	if err := r.db.WithContext(ctx).
		Preload("Responses").
		First(&result, id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// GetByIDWithQuestions loads the result plus the original test with its
// full question list, which is what the review projector joins against.
func (r ResultPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.TestResult, error) {
	var result models.TestResult
	if err := r.db.WithContext(ctx).
		Preload("Responses").
		Preload("Test").
		Preload("Test.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("test_questions.position ASC")
		}).
		Preload("Test.Questions.Question").
		Preload("Test.Questions.Question.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.\"order\" ASC")
		}).
		Preload("Test.Questions.Question.MatchingPairs", func(db *gorm.DB) *gorm.DB {
			return db.Order("matching_pairs.\"order\" ASC")
		}).
		First(&result, id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r ResultPostgreSQL) GetByStudent(ctx context.Context, studentID string, filters repositories.ResultFilters) ([]*models.TestResult, int64, error) {
	var results []*models.TestResult
	var total int64

	query := r.db.WithContext(ctx).Model(&models.TestResult{}).
		Where("student_id = ?", studentID)
	if filters.TestID != nil {
		query = query.Where("test_id = ?", *filters.TestID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("submitted_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Preload("Test").Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}
