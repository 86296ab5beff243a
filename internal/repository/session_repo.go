package repository

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"academic-integrity-simulator/internal/model"
	"academic-integrity-simulator/internal/utils"
)

type sessionEntry struct {
	conv     *model.Conversation
	lastSeen time.Time
}

// SessionRepository keeps one in-memory conversation per interactive
// session. Nothing is written to disk; a session's turns live until it is
// deleted or swept for inactivity.
type SessionRepository struct {
	mu             sync.RWMutex
	sessions       map[string]*sessionEntry
	integrityCheck bool
	now            func() time.Time
	logger         *zap.Logger
}

func NewSessionRepository(integrityCheckDefault bool, logger *zap.Logger) *SessionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionRepository{
		sessions:       make(map[string]*sessionEntry),
		integrityCheck: integrityCheckDefault,
		now:            time.Now,
		logger:         logger,
	}
}

func (r *SessionRepository) Create() *model.Conversation {
	conv := model.NewConversation(utils.NewSessionID(), r.integrityCheck)

	r.mu.Lock()
	r.sessions[conv.ID] = &sessionEntry{conv: conv, lastSeen: r.now()}
	count := len(r.sessions)
	r.mu.Unlock()

	r.logger.Info("session created", zap.String("session_id", conv.ID), zap.Int("sessions", count))
	return conv
}

// Get returns the conversation for id and marks the session as active.
func (r *SessionRepository) Get(id string) (*model.Conversation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, found := r.sessions[id]
	if !found {
		return nil, false
	}
	entry.lastSeen = r.now()
	return entry.conv, true
}

func (r *SessionRepository) Delete(id string) bool {
	r.mu.Lock()
	_, found := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if found {
		r.logger.Info("session ended", zap.String("session_id", id))
	}
	return found
}

func (r *SessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions that have not been touched for longer than ttl and
// returns how many were removed.
func (r *SessionRepository) Sweep(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	removed := 0
	for id, entry := range r.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	r.mu.Unlock()

	if removed > 0 {
		r.logger.Info("swept idle sessions", zap.Int("removed", removed), zap.Duration("ttl", ttl))
	}
	return removed
}
