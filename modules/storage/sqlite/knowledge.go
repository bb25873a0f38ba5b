package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/parley-bot/parley/internal/knowledge"
)

// knowledgeSource implements knowledge.Source over the knowledge table.
type knowledgeSource struct {
	db *sql.DB
}

// Load returns all knowledge entries in insertion order.
func (s *knowledgeSource) Load(ctx context.Context) ([]knowledge.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, question, answer, keywords
		FROM knowledge
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load knowledge: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []knowledge.Entry
	for rows.Next() {
		var e knowledge.Entry
		if err := rows.Scan(&e.Category, &e.Question, &e.Answer, &e.Keywords); err != nil {
			return nil, fmt.Errorf("sqlite: scan knowledge entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: load knowledge rows: %w", err)
	}
	return entries, nil
}

// starterCorpus is inserted on first run so a fresh install can answer
// something out of the box.
var starterCorpus = []knowledge.Entry{
	{
		Category: "account",
		Question: "How do I reset my password?",
		Answer:   "You can reset your password from the login page: click \"Forgot password\" and follow the email instructions.",
		Keywords: "password,reset,forgot,login",
	},
	{
		Category: "account",
		Question: "How do I change my email address?",
		Answer:   "Open your profile settings and edit the email field. A confirmation link is sent to the new address.",
		Keywords: "email,change,update,profile",
	},
	{
		Category: "billing",
		Question: "What payment methods do you accept?",
		Answer:   "We accept major credit cards, PayPal, and bank transfer for annual plans.",
		Keywords: "payment,credit card,paypal,billing",
	},
	{
		Category: "billing",
		Question: "How do I cancel my subscription?",
		Answer:   "Go to billing settings and choose \"Cancel subscription\". Your plan stays active until the end of the paid period.",
		Keywords: "cancel,subscription,refund,billing",
	},
	{
		Category: "product",
		Question: "What are your business hours?",
		Answer:   "Our support team is available Monday through Friday, 9am to 6pm UTC.",
		Keywords: "hours,support,availability,contact",
	},
	{
		Category: "product",
		Question: "Where can I download the mobile app?",
		Answer:   "The mobile app is available on the App Store and Google Play; search for our product name.",
		Keywords: "mobile,app,download,android,ios",
	},
	{
		Category: "technical",
		Question: "Why is the application running slowly?",
		Answer:   "Slow performance is usually caused by an outdated client or a congested network. Update to the latest version and retry.",
		Keywords: "slow,performance,lag,speed",
	},
	{
		Category: "technical",
		Question: "The application crashes on startup, what should I do?",
		Answer:   "Clear the local cache and restart. If the crash persists, send us the log file from the diagnostics page.",
		Keywords: "crash,startup,error,broken",
	},
}

// seedKnowledge inserts the starter corpus when the table is empty.
func seedKnowledge(db *sql.DB) error {
	ctx := context.TODO()

	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM knowledge").Scan(&n); err != nil {
		return fmt.Errorf("sqlite: count knowledge: %w", err)
	}
	if n > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: seed begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range starterCorpus {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO knowledge (category, question, answer, keywords)
			VALUES (?, ?, ?, ?)`,
			e.Category, e.Question, e.Answer, e.Keywords,
		); err != nil {
			return fmt.Errorf("sqlite: seed insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: seed commit: %w", err)
	}
	return nil
}
