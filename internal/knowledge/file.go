package knowledge

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileSource loads knowledge entries from a YAML file containing a list of
// Entry records.
type FileSource struct {
	Path string
}

// Compile-time interface check.
var _ Source = (*FileSource)(nil)

// NewFileSource creates a source reading from the given YAML file.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load reads and parses the knowledge file. Entries with an empty question
// or answer are rejected with an error naming the offending index.
func (s *FileSource) Load(_ context.Context) ([]Entry, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("knowledge: reading %s: %w", s.Path, err)
	}

	var entries []Entry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("knowledge: parsing %s: %w", s.Path, err)
	}

	for i, e := range entries {
		if e.Question == "" {
			return nil, fmt.Errorf("knowledge: %s: entry %d has an empty question", s.Path, i)
		}
		if e.Answer == "" {
			return nil, fmt.Errorf("knowledge: %s: entry %d has an empty answer", s.Path, i)
		}
	}

	return entries, nil
}
