package engine

import (
	"testing"

	"github.com/parley-bot/parley/internal/knowledge"
)

var testEntries = []knowledge.Entry{
	{
		Category: "account",
		Question: "How do I reset my password?",
		Answer:   "Use the forgot-password link on the sign-in page.",
		Keywords: "password, reset, login",
	},
	{
		Category: "billing",
		Question: "How can I get a refund?",
		Answer:   "Refunds are issued within 5 business days of a request.",
		Keywords: "refund, money back, billing",
	},
	{
		Category: "product",
		Question: "What platforms do you support?",
		Answer:   "We support Linux, macOS, and Windows.",
		Keywords: "platform, linux, macos, windows",
	},
}

func newTestIndex(t *testing.T, entries []knowledge.Entry) *Index {
	t.Helper()
	ix := NewIndex(newTestNormalizer(t))
	ix.Build(entries)
	return ix
}

func TestIndex_SelfMatch(t *testing.T) {
	t.Parallel()

	ix := newTestIndex(t, testEntries)

	for _, e := range testEntries {
		got := ix.Query(e.Question, DefaultThreshold)
		if got.Entry == nil {
			t.Fatalf("Query(%q) missed, score %.3f", e.Question, got.Score)
		}
		if got.Entry.Answer != e.Answer {
			t.Errorf("Query(%q) matched %q, want %q", e.Question, got.Entry.Question, e.Question)
		}
		if got.Score < DefaultThreshold {
			t.Errorf("self-match score %.3f below threshold", got.Score)
		}
	}
}

func TestIndex_ScoreRange(t *testing.T) {
	t.Parallel()

	ix := newTestIndex(t, testEntries)

	queries := []string{
		"How do I reset my password?",
		"password",
		"refund money",
		"completely unrelated gibberish zebra",
		"",
	}
	for _, q := range queries {
		got := ix.Query(q, 0)
		if got.Score < 0 || got.Score > 1 {
			t.Errorf("Query(%q) score %.6f outside [0,1]", q, got.Score)
		}
	}
}

func TestIndex_KeywordsMatch(t *testing.T) {
	t.Parallel()

	ix := newTestIndex(t, testEntries)

	got := ix.Query("linux platform", DefaultThreshold)
	if got.Entry == nil {
		t.Fatalf("keyword query missed, score %.3f", got.Score)
	}
	if got.Entry.Category != "product" {
		t.Errorf("matched category %s, want product", got.Entry.Category)
	}
}

func TestIndex_OutOfVocabulary(t *testing.T) {
	t.Parallel()

	ix := newTestIndex(t, testEntries)

	got := ix.Query("xylophone quasar nebula", DefaultThreshold)
	if got.Entry != nil {
		t.Errorf("OOV query matched %q", got.Entry.Question)
	}
	if got.Score != 0 {
		t.Errorf("OOV score = %.3f, want 0", got.Score)
	}
}

func TestIndex_EmptyAndUnbuilt(t *testing.T) {
	t.Parallel()

	unbuilt := NewIndex(newTestNormalizer(t))
	if got := unbuilt.Query("password", DefaultThreshold); got.Entry != nil || got.Score != 0 {
		t.Errorf("unbuilt index returned %+v", got)
	}
	if unbuilt.Size() != 0 {
		t.Errorf("unbuilt Size = %d, want 0", unbuilt.Size())
	}

	empty := newTestIndex(t, nil)
	if got := empty.Query("password", DefaultThreshold); got.Entry != nil || got.Score != 0 {
		t.Errorf("empty index returned %+v", got)
	}
}

func TestIndex_BelowThresholdReportsScore(t *testing.T) {
	t.Parallel()

	ix := newTestIndex(t, testEntries)

	// "password" overlaps the reset entry but an impossible threshold
	// forces a miss; the near-miss score must still be reported.
	got := ix.Query("password", 1.01)
	if got.Entry != nil {
		t.Fatal("expected a miss at threshold > 1")
	}
	if got.Score <= 0 {
		t.Errorf("near-miss score = %.3f, want > 0", got.Score)
	}
}

func TestIndex_TieBreaksToFirstEntry(t *testing.T) {
	t.Parallel()

	dupes := []knowledge.Entry{
		{Question: "shipping cost", Answer: "first"},
		{Question: "shipping cost", Answer: "second"},
	}
	ix := newTestIndex(t, dupes)

	got := ix.Query("shipping cost", DefaultThreshold)
	if got.Entry == nil {
		t.Fatal("duplicate query missed")
	}
	if got.Entry.Answer != "first" {
		t.Errorf("tie resolved to %q, want first entry", got.Entry.Answer)
	}
}

func TestIndex_RebuildReplacesEntries(t *testing.T) {
	t.Parallel()

	ix := newTestIndex(t, testEntries)
	if ix.Size() != len(testEntries) {
		t.Fatalf("Size = %d, want %d", ix.Size(), len(testEntries))
	}

	replacement := []knowledge.Entry{
		{Question: "warranty length", Answer: "Two years.", Keywords: "warranty"},
	}
	ix.Build(replacement)

	if ix.Size() != 1 {
		t.Fatalf("Size after rebuild = %d, want 1", ix.Size())
	}
	if got := ix.Query("How do I reset my password?", DefaultThreshold); got.Entry != nil {
		t.Errorf("old entry still matchable after rebuild: %q", got.Entry.Question)
	}
	if got := ix.Query("warranty length", DefaultThreshold); got.Entry == nil {
		t.Error("new entry not matchable after rebuild")
	}
}

func TestBuildVocabulary_Deterministic(t *testing.T) {
	t.Parallel()

	counts := map[string]int{"beta": 2, "alpha": 2, "gamma": 5}
	v1 := buildVocabulary(counts)
	v2 := buildVocabulary(counts)

	if len(v1) != 3 {
		t.Fatalf("vocab size = %d, want 3", len(v1))
	}
	// gamma has the highest count; alpha beats beta lexicographically.
	if v1["gamma"] != 0 || v1["alpha"] != 1 || v1["beta"] != 2 {
		t.Errorf("unexpected column order: %v", v1)
	}
	for term, col := range v1 {
		if v2[term] != col {
			t.Errorf("vocab not deterministic for %q: %d vs %d", term, col, v2[term])
		}
	}
}
