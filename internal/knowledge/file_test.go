package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeKnowledge(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "knowledge.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing knowledge file: %v", err)
	}
	return path
}

func TestFileSource_Load(t *testing.T) {
	t.Parallel()

	path := writeKnowledge(t, `
- category: account
  question: "How do I reset my password?"
  answer: "Use the forgot-password link."
  keywords: "password, reset"
- category: billing
  question: "How do refunds work?"
  answer: "Refunds take 5 business days."
`)

	entries, err := NewFileSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Keywords != "password, reset" {
		t.Errorf("keywords = %q", entries[0].Keywords)
	}
	if entries[1].Keywords != "" {
		t.Errorf("missing keywords should stay empty, got %q", entries[1].Keywords)
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewFileSource(filepath.Join(t.TempDir(), "absent.yaml")).Load(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFileSource_RejectsEmptyFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name: "empty question",
			content: `
- question: ""
  answer: "something"
`,
			wantMsg: "empty question",
		},
		{
			name: "empty answer",
			content: `
- question: "valid?"
  answer: ""
`,
			wantMsg: "empty answer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeKnowledge(t, tt.content)
			_, err := NewFileSource(path).Load(context.Background())
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantMsg)
			}
		})
	}
}

func TestFileSource_InvalidYAML(t *testing.T) {
	t.Parallel()

	path := writeKnowledge(t, "not: [valid: yaml")
	if _, err := NewFileSource(path).Load(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}
