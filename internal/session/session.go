// Package session provides per-session conversation context: a bounded
// ring of recent turns, last-intent tracking, and a user preference bag.
package session

import (
	"context"
	"time"

	"github.com/parley-bot/parley/internal/dialog"
)

// MaxHistory bounds the conversation history per session. The oldest turn
// is evicted first once the bound is reached.
const MaxHistory = 10

// Turn is one user/bot exchange. Immutable after creation.
type Turn struct {
	UserText  string        `json:"user_text"`
	BotText   string        `json:"bot_text"`
	Timestamp time.Time     `json:"timestamp"`
	Intent    dialog.Intent `json:"intent"`
}

// Context is the dialogue state for one session id. Created lazily on the
// first turn and mutated in place thereafter; eviction of whole sessions
// is a storage concern, not the engine's.
type Context struct {
	ConversationHistory []Turn             `json:"conversation_history"`
	CurrentTopic        string             `json:"current_topic,omitempty"`
	UserPreferences     map[string]any     `json:"user_preferences"`
	LastIntent          dialog.IntentLabel `json:"last_intent,omitempty"`
}

// NewContext returns an empty context with an initialized preference bag.
func NewContext() *Context {
	return &Context{UserPreferences: make(map[string]any)}
}

// Clone returns a deep copy, so callers can read state without holding the
// store's locks.
func (c *Context) Clone() Context {
	cp := Context{
		CurrentTopic:    c.CurrentTopic,
		LastIntent:      c.LastIntent,
		UserPreferences: make(map[string]any, len(c.UserPreferences)),
	}
	cp.ConversationHistory = append([]Turn(nil), c.ConversationHistory...)
	for k, v := range c.UserPreferences {
		cp.UserPreferences[k] = v
	}
	return cp
}

// Persister stores serialized contexts for durability across restarts.
// Implementations serialize the Context mapping (conversation_history with
// RFC 3339 timestamps, current_topic, user_preferences, last_intent);
// round-tripping must reproduce an equivalent context.
type Persister interface {
	// LoadContext returns the stored context for the session, or false if
	// none exists.
	LoadContext(ctx context.Context, sessionID string) (*Context, bool, error)

	// SaveContext stores the context for the session, replacing any
	// previous value.
	SaveContext(ctx context.Context, sessionID string, sc *Context) error
}
