package services

import (
	"log/slog"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/events"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/repositories"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/session"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/utils"
)

// ServiceManager bundles the services the HTTP layer consumes.
type ServiceManager interface {
	Exam() ExamService
	Export() ExportService
	// Sessions exposes the session registry for lifecycle control
	// (background jobs start/stop with the process).
	Sessions() *session.Manager
}

type serviceManager struct {
	exam     ExamService
	export   ExportService
	sessions *session.Manager
}

func NewServiceManager(
	repo repositories.Repository,
	publisher events.EventPublisher,
	checkpoints session.CheckpointStore,
	validator *utils.Validator,
	logger *slog.Logger,
) ServiceManager {
	exam, sessions := NewExamService(repo, publisher, checkpoints, validator, logger)
	return &serviceManager{
		exam:     exam,
		export:   NewExportService(repo, logger),
		sessions: sessions,
	}
}

func (m *serviceManager) Exam() ExamService {
	return m.exam
}

func (m *serviceManager) Export() ExportService {
	return m.export
}

func (m *serviceManager) Sessions() *session.Manager {
	return m.sessions
}
