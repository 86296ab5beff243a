package model

import "sync"

// Conversation is the append-only turn log of one interactive session plus
// the session-scoped integrity check toggle.
//
// Callers that run a pipeline turn hold Lock for the whole turn so that one
// utterance is processed to completion before the next one is accepted.
type Conversation struct {
	ID string

	turnMu sync.Mutex

	mu             sync.RWMutex
	turns          []Turn
	integrityCheck bool
}

func NewConversation(id string, integrityCheck bool) *Conversation {
	return &Conversation{ID: id, integrityCheck: integrityCheck}
}

// Lock serializes pipeline turns on this conversation.
func (c *Conversation) Lock()   { c.turnMu.Lock() }
func (c *Conversation) Unlock() { c.turnMu.Unlock() }

func (c *Conversation) Append(t Turn) {
	if t.Role != RoleAssistant {
		t.Analysis = nil
	}
	if t.Analysis != nil {
		a := *t.Analysis
		t.Analysis = &a
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, t)
}

// Turns returns a snapshot of the log.
func (c *Conversation) Turns() []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}

func (c *Conversation) IntegrityCheck() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.integrityCheck
}

func (c *Conversation) SetIntegrityCheck(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.integrityCheck = enabled
}
