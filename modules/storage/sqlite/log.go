package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// conversationLog implements engine.Recorder over the conversations table.
// Append-only; failures are reported to the caller, which logs and moves
// on — they never fail a turn.
type conversationLog struct {
	db *sql.DB
}

// Record appends one exchange to the conversation log.
func (l *conversationLog) Record(ctx context.Context, sessionID, userText, botText string, confidence float64) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO conversations (session_id, user_text, bot_text, confidence)
		VALUES (?, ?, ?, ?)`,
		sessionID, userText, botText, confidence,
	)
	if err != nil {
		return fmt.Errorf("sqlite: record conversation: %w", err)
	}
	return nil
}
