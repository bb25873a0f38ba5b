package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/parley-bot/parley/internal/dialog"
)

// entry pairs a context with its own mutex so concurrent turns for the
// same session are serialized while different sessions never block each
// other.
type entry struct {
	mu         sync.Mutex
	ctx        *Context
	lastActive time.Time
}

// Store is the in-memory context table, keyed by session id. Safe for
// concurrent use. An optional Persister adds best-effort durability:
// contexts are hydrated on first sight and saved after every update;
// persistence failures are logged and never affect the turn.
type Store struct {
	mu        sync.RWMutex
	sessions  map[string]*entry
	persister Persister
	logger    *slog.Logger
	clock     func() time.Time
}

// NewStore creates an empty store. persister may be nil.
func NewStore(persister Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sessions:  make(map[string]*entry),
		persister: persister,
		logger:    logger,
		clock:     time.Now,
	}
}

// Get returns a copy of the session's context, or an empty default context
// if the session is unseen. Never fails.
func (s *Store) Get(sessionID string) Context {
	e := s.lookup(sessionID)
	if e == nil {
		if hydrated := s.hydrate(sessionID); hydrated != nil {
			e = hydrated
		} else {
			return *NewContext()
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx.Clone()
}

// Update appends a turn built from the given texts and intent to the
// session's history, creating the context on first use. The oldest turn is
// evicted once the history exceeds MaxHistory, and LastIntent is set to the
// turn's primary intent. Returns a copy of the updated context.
func (s *Store) Update(sessionID, userText, botText string, intent dialog.Intent) Context {
	e := s.getOrCreate(sessionID)

	e.mu.Lock()
	turn := Turn{
		UserText:  userText,
		BotText:   botText,
		Timestamp: s.clock().UTC(),
		Intent:    intent,
	}
	e.ctx.ConversationHistory = append(e.ctx.ConversationHistory, turn)
	if len(e.ctx.ConversationHistory) > MaxHistory {
		e.ctx.ConversationHistory = e.ctx.ConversationHistory[len(e.ctx.ConversationHistory)-MaxHistory:]
	}
	e.ctx.LastIntent = intent.Primary
	e.lastActive = s.clock()
	snapshot := e.ctx.Clone()
	e.mu.Unlock()

	if s.persister != nil {
		if err := s.persister.SaveContext(context.Background(), sessionID, &snapshot); err != nil {
			s.logger.Warn("session save failed", "session", sessionID, "error", err)
		}
	}

	return snapshot
}

// SetPreference records a user preference on the session's context.
func (s *Store) SetPreference(sessionID, key string, value any) {
	e := s.getOrCreate(sessionID)
	e.mu.Lock()
	e.ctx.UserPreferences[key] = value
	e.mu.Unlock()
}

// Delete removes the session's context from memory.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Prune removes sessions idle longer than maxIdle and returns how many
// were removed.
func (s *Store) Prune(maxIdle time.Duration) int {
	cutoff := s.clock().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for id, e := range s.sessions {
		if e.lastActive.Before(cutoff) {
			delete(s.sessions, id)
			pruned++
		}
	}
	return pruned
}

// Len returns the number of sessions held in memory.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Range calls fn for each session id with a copy of its context. If fn
// returns false, iteration stops.
func (s *Store) Range(fn func(sessionID string, sc Context) bool) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for _, id := range ids {
		e := s.lookup(id)
		if e == nil {
			continue
		}
		e.mu.Lock()
		sc := e.ctx.Clone()
		e.mu.Unlock()
		if !fn(id, sc) {
			return
		}
	}
}

func (s *Store) lookup(sessionID string) *entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[sessionID]
}

func (s *Store) getOrCreate(sessionID string) *entry {
	if e := s.lookup(sessionID); e != nil {
		return e
	}
	if e := s.hydrate(sessionID); e != nil {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[sessionID]; ok {
		return e
	}
	e := &entry{ctx: NewContext(), lastActive: s.clock()}
	s.sessions[sessionID] = e
	return e
}

// hydrate loads a persisted context into memory. Returns nil when there is
// no persister, nothing stored, or the load fails.
func (s *Store) hydrate(sessionID string) *entry {
	if s.persister == nil {
		return nil
	}

	sc, ok, err := s.persister.LoadContext(context.Background(), sessionID)
	if err != nil {
		s.logger.Warn("session load failed", "session", sessionID, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	if sc.UserPreferences == nil {
		sc.UserPreferences = make(map[string]any)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, exists := s.sessions[sessionID]; exists {
		return e
	}
	e := &entry{ctx: sc, lastActive: s.clock()}
	s.sessions[sessionID] = e
	return e
}
