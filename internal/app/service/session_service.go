package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/variant-editor/internal/app/model"
	"github.com/ikkim/variant-editor/internal/app/repository"
	"github.com/ikkim/variant-editor/internal/app/variant"
	"github.com/ikkim/variant-editor/internal/metrics"
	"github.com/ikkim/variant-editor/pkg/logger"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

// SnapshotPublisher receives the snapshot produced by every applied operation.
type SnapshotPublisher interface {
	Publish(sessionID string, snap variant.Snapshot)
	CloseSession(sessionID string)
	// SubscribedSessions lists sessions with at least one live subscriber.
	SubscribedSessions() []string
}

type SessionService interface {
	CreateSession() (*model.Session, variant.Snapshot, error)
	GetSnapshot(id string) (variant.Snapshot, error)
	// Apply runs fn against the session's editor under the session lock and
	// returns the resulting snapshot.
	Apply(id, operation string, fn func(*variant.Editor)) (variant.Snapshot, error)
	// View runs fn against the session's editor without counting as an edit.
	// Like GetSnapshot it still counts as access for idle expiry.
	View(id string, fn func(*variant.Editor) error) error
	DeleteSession(id string) error
	ExpireIdle(ttl time.Duration) (int, error)
	ActiveSessions() int
}

type sessionService struct {
	sessionRepo repository.SessionRepository
	editorCfg   variant.Config
	publisher   SnapshotPublisher
	now         func() time.Time
}

func NewSessionService(
	sessionRepo repository.SessionRepository,
	editorCfg variant.Config,
	publisher ...SnapshotPublisher,
) SessionService {
	var pub SnapshotPublisher
	if len(publisher) > 0 {
		pub = publisher[0]
	}
	return &sessionService{
		sessionRepo: sessionRepo,
		editorCfg:   editorCfg,
		publisher:   pub,
		now:         time.Now,
	}
}

func (s *sessionService) CreateSession() (*model.Session, variant.Snapshot, error) {
	now := s.now()
	record := &repository.SessionRecord{
		Session: model.Session{
			ID:             uuid.NewString(),
			CreatedAt:      now,
			LastAccessedAt: now,
		},
		Editor: variant.NewEditor(s.editorCfg),
	}

	if err := s.sessionRepo.Create(record); err != nil {
		logger.Error("Failed to create session", err)
		return nil, variant.Snapshot{}, err
	}
	metrics.ActiveSessions.Set(float64(s.sessionRepo.Count()))

	logger.Info("Session created", map[string]interface{}{
		"session_id": record.Session.ID,
	})

	session := record.Session
	return &session, record.Editor.Snapshot(), nil
}

func (s *sessionService) GetSnapshot(id string) (variant.Snapshot, error) {
	record, err := s.find(id)
	if err != nil {
		return variant.Snapshot{}, err
	}

	record.Lock()
	defer record.Unlock()
	s.touch(id)
	return record.Editor.Snapshot(), nil
}

func (s *sessionService) Apply(id, operation string, fn func(*variant.Editor)) (variant.Snapshot, error) {
	record, err := s.find(id)
	if err != nil {
		return variant.Snapshot{}, err
	}

	record.Lock()
	defer record.Unlock()

	fn(record.Editor)
	snap := record.Editor.Snapshot()

	metrics.EditorOperations.WithLabelValues(operation).Inc()
	metrics.GeneratedVariants.Observe(float64(len(snap.Variants)))

	// Published under the record lock so subscribers see snapshots in
	// operation order.
	if s.publisher != nil {
		s.publisher.Publish(id, snap)
	}

	s.touch(id)

	logger.Debug("Editor operation applied", map[string]interface{}{
		"session_id": id,
		"operation":  operation,
		"variants":   len(snap.Variants),
	})
	return snap, nil
}

func (s *sessionService) View(id string, fn func(*variant.Editor) error) error {
	record, err := s.find(id)
	if err != nil {
		return err
	}

	record.Lock()
	defer record.Unlock()
	s.touch(id)
	return fn(record.Editor)
}

func (s *sessionService) DeleteSession(id string) error {
	if err := s.sessionRepo.Delete(id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		logger.Error("Failed to delete session", err, map[string]interface{}{
			"session_id": id,
		})
		return err
	}
	metrics.ActiveSessions.Set(float64(s.sessionRepo.Count()))

	if s.publisher != nil {
		s.publisher.CloseSession(id)
	}

	logger.Info("Session deleted", map[string]interface{}{
		"session_id": id,
	})
	return nil
}

// ExpireIdle drops every session not accessed within ttl. Sessions with a
// live subscriber count as accessed.
func (s *sessionService) ExpireIdle(ttl time.Duration) (int, error) {
	if s.publisher != nil {
		for _, id := range s.publisher.SubscribedSessions() {
			s.touch(id)
		}
	}

	removed, err := s.sessionRepo.DeleteIdleSince(s.now().Add(-ttl))
	if err != nil {
		logger.Error("Failed to expire idle sessions", err)
		return 0, err
	}

	for _, id := range removed {
		if s.publisher != nil {
			s.publisher.CloseSession(id)
		}
	}
	metrics.ExpiredSessions.Add(float64(len(removed)))
	metrics.ActiveSessions.Set(float64(s.sessionRepo.Count()))

	if len(removed) > 0 {
		logger.Info("Idle sessions expired", map[string]interface{}{
			"expired": len(removed),
			"ttl":     ttl.String(),
		})
	}
	return len(removed), nil
}

func (s *sessionService) ActiveSessions() int {
	return s.sessionRepo.Count()
}

func (s *sessionService) touch(id string) {
	if err := s.sessionRepo.Touch(id, s.now()); err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		logger.Warn("Failed to touch session", map[string]interface{}{
			"session_id": id,
			"error":      err.Error(),
		})
	}
}

func (s *sessionService) find(id string) (*repository.SessionRecord, error) {
	record, err := s.sessionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			logger.Warn("Session not found", map[string]interface{}{
				"session_id": id,
			})
			return nil, ErrSessionNotFound
		}
		logger.Error("Failed to fetch session", err, map[string]interface{}{
			"session_id": id,
		})
		return nil, err
	}
	return record, nil
}
