// Package knowledge defines the knowledge base model and sources the
// engine builds its similarity index from.
package knowledge

import "context"

// Entry is a single knowledge base record. Entries are immutable once
// loaded; duplicates are tolerated and independently matchable.
type Entry struct {
	Category string `yaml:"category" json:"category"`
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`

	// Keywords is a comma-separated hint string. May be empty.
	Keywords string `yaml:"keywords" json:"keywords"`
}

// Source loads knowledge entries, read once at startup and again on
// explicit reload. Implementations must return entries with non-empty
// Question and Answer fields.
type Source interface {
	Load(ctx context.Context) ([]Entry, error)
}
