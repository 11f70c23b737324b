package pkg

import (
	"fmt"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/config"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Test{},
		&models.Question{},
		&models.QuestionOption{},
		&models.MatchingPair{},
		&models.TestQuestion{},
		&models.TestResult{},
		&models.TestResponse{},
		&models.ProctoringEvent{},
	)
}
