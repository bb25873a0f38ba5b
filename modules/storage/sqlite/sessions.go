package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/parley-bot/parley/internal/session"
)

// contextStore implements session.Persister over the session_contexts
// table. Contexts are stored as the JSON serialization of
// session.Context (RFC 3339 timestamps per encoding/json's time.Time).
type contextStore struct {
	db *sql.DB
}

// LoadContext returns the stored context for the session, or false if
// none exists.
func (s *contextStore) LoadContext(ctx context.Context, sessionID string) (*session.Context, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT context FROM session_contexts WHERE session_id = ?",
		sessionID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: load context: %w", err)
	}

	var sc session.Context
	if err := json.Unmarshal([]byte(raw), &sc); err != nil {
		return nil, false, fmt.Errorf("sqlite: decode context %s: %w", sessionID, err)
	}
	return &sc, true, nil
}

// SaveContext stores the context, replacing any previous value.
func (s *contextStore) SaveContext(ctx context.Context, sessionID string, sc *session.Context) error {
	raw, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("sqlite: encode context %s: %w", sessionID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session_contexts (session_id, context, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		ON CONFLICT(session_id) DO UPDATE SET
			context = excluded.context,
			updated_at = excluded.updated_at`,
		sessionID, string(raw),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save context: %w", err)
	}
	return nil
}
