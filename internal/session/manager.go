package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/models"
	"github.com/robfig/cron/v3"
)

const (
	// Submitted sessions linger briefly so late reads (the result redirect)
	// still resolve, then the sweeper evicts them.
	submittedRetention = 10 * time.Minute
	// Default checkpoint TTL padding beyond the test duration; overridable
	// through SetCheckpointGrace.
	defaultCheckpointGrace = 30 * time.Minute
)

// Manager is the registry of live sessions. It owns the two background
// jobs: a sweep that auto-submits sessions whose clock ran out while no
// client was attached, and the periodic Redis checkpoint that replaces
// best-effort unload submission.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	reconciler  *Reconciler
	checkpoints CheckpointStore
	grace       time.Duration
	logger      *slog.Logger
	cron        *cron.Cron
}

func NewManager(reconciler *Reconciler, checkpoints CheckpointStore, logger *slog.Logger) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		reconciler:  reconciler,
		checkpoints: checkpoints,
		grace:       defaultCheckpointGrace,
		logger:      logger,
	}
}

// SetCheckpointGrace overrides the checkpoint TTL padding. Call before
// Start.
func (m *Manager) SetCheckpointGrace(grace time.Duration) {
	if grace <= 0 {
		return
	}
	m.mu.Lock()
	m.grace = grace
	m.mu.Unlock()
}

// Start launches the background schedules: checkpoints every 15 seconds,
// expiry sweep every minute.
func (m *Manager) Start() error {
	m.cron = cron.New(cron.WithSeconds())
	if _, err := m.cron.AddFunc("*/15 * * * * *", m.checkpointAll); err != nil {
		return err
	}
	if _, err := m.cron.AddFunc("0 * * * * *", m.sweep); err != nil {
		return err
	}
	m.cron.Start()
	m.logger.Info("session manager started")
	return nil
}

func (m *Manager) Stop() {
	if m.cron != nil {
		m.cron.Stop()
	}
	// Final checkpoint so a clean shutdown loses nothing.
	m.checkpointAll()
	m.logger.Info("session manager stopped")
}

func (m *Manager) Add(sess *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// FindByStudent returns the student's live session for a test, if any.
// Starting a test twice resumes instead of forking a second session.
func (m *Manager) FindByStudent(testID uint, studentID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sess := range m.sessions {
		if sess.TestID == testID && sess.StudentID == studentID && !sess.IsSubmitted() {
			return sess, true
		}
	}
	return nil, false
}

func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	if m.checkpoints != nil {
		if err := m.checkpoints.Delete(context.Background(), id); err != nil {
			m.logger.Warn("failed to delete checkpoint", "session_id", id, "error", err)
		}
	}
}

func (m *Manager) snapshot() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess)
	}
	return sessions
}

// sweep auto-submits sessions whose timer ran out and evicts submitted
// sessions past retention. The reconciler's guard makes a race with a
// live expiry callback or a student click harmless.
func (m *Manager) sweep() {
	ctx := context.Background()
	now := time.Now()

	for _, sess := range m.snapshot() {
		timer := sess.Timer()
		if !sess.IsSubmitted() && timer != nil && !timer.Active() && timer.Remaining() == 0 {
			if _, err := m.reconciler.Submit(ctx, sess, models.EndReasonTimeout); err != nil &&
				err != ErrAlreadySubmitted && err != ErrSubmissionInFlight {
				m.logger.Error("sweep submission failed",
					"session_id", sess.ID, "error", err)
			}
			continue
		}

		sess.mu.Lock()
		expired := sess.Submitted && now.Sub(sess.SubmittedAt) > submittedRetention
		sess.mu.Unlock()
		if expired {
			m.Remove(sess.ID)
		}
	}
}

func (m *Manager) checkpointAll() {
	if m.checkpoints == nil {
		return
	}
	ctx := context.Background()
	m.mu.RLock()
	grace := m.grace
	m.mu.RUnlock()
	for _, sess := range m.snapshot() {
		if sess.IsSubmitted() {
			continue
		}
		ttl := time.Duration(sess.DurationMinutes)*time.Minute + grace
		if err := m.checkpoints.Save(ctx, sess.Snapshot(), ttl); err != nil {
			m.logger.Warn("checkpoint save failed",
				"session_id", sess.ID, "error", err)
		}
	}
}

// Checkpoints exposes the store for resume-on-miss in the service layer.
func (m *Manager) Checkpoints() CheckpointStore {
	return m.checkpoints
}
