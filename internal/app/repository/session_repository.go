package repository

import (
	"errors"
	"sync"
	"time"

	"github.com/ikkim/variant-editor/internal/app/model"
	"github.com/ikkim/variant-editor/internal/app/variant"
	"github.com/ikkim/variant-editor/pkg/logger"
)

var ErrRecordNotFound = errors.New("record not found")

// SessionRecord pairs the session metadata with the editor it owns. Callers
// must hold the record lock while touching the editor.
type SessionRecord struct {
	Session model.Session
	Editor  *variant.Editor

	mu sync.Mutex
}

func (r *SessionRecord) Lock()   { r.mu.Lock() }
func (r *SessionRecord) Unlock() { r.mu.Unlock() }

type SessionRepository interface {
	Create(record *SessionRecord) error
	FindByID(id string) (*SessionRecord, error)
	Delete(id string) error
	Touch(id string, at time.Time) error
	DeleteIdleSince(cutoff time.Time) ([]string, error)
	Count() int
}

type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*SessionRecord
}

// NewSessionRepository returns a process-local session store.
func NewSessionRepository() SessionRepository {
	return &sessionRepository{sessions: make(map[string]*SessionRecord)}
}

func (r *sessionRepository) Create(record *SessionRecord) error {
	if record == nil || record.Session.ID == "" {
		return errors.New("session record requires an ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[record.Session.ID]; exists {
		return errors.New("session already exists")
	}
	r.sessions[record.Session.ID] = record

	logger.Debug("Session stored", map[string]interface{}{
		"session_id": record.Session.ID,
		"count":      len(r.sessions),
	})
	return nil
}

func (r *sessionRepository) FindByID(id string) (*SessionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.sessions[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return record, nil
}

func (r *sessionRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrRecordNotFound
	}
	delete(r.sessions, id)

	logger.Debug("Session removed", map[string]interface{}{
		"session_id": id,
		"count":      len(r.sessions),
	})
	return nil
}

func (r *sessionRepository) Touch(id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.sessions[id]
	if !ok {
		return ErrRecordNotFound
	}
	if at.After(record.Session.LastAccessedAt) {
		record.Session.LastAccessedAt = at
	}
	return nil
}

// DeleteIdleSince removes every session last accessed before cutoff and
// returns their IDs.
func (r *sessionRepository) DeleteIdleSince(cutoff time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []string
	for id, record := range r.sessions {
		if record.Session.LastAccessedAt.Before(cutoff) {
			delete(r.sessions, id)
			removed = append(removed, id)
		}
	}

	if len(removed) > 0 {
		logger.Debug("Idle sessions removed", map[string]interface{}{
			"removed":   len(removed),
			"remaining": len(r.sessions),
		})
	}
	return removed, nil
}

func (r *sessionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
