package engine

import (
	"math"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/parley-bot/parley/internal/knowledge"
)

const (
	// DefaultThreshold is the minimum cosine similarity for a match.
	DefaultThreshold = 0.3

	// maxVocabulary caps the term space at the most frequent corpus terms.
	maxVocabulary = 1000
)

// MatchResult is the outcome of a similarity query. Entry is nil when no
// indexed entry clears the threshold; Score still carries the best raw
// score so callers can inspect how close the nearest entry was.
type MatchResult struct {
	Entry *knowledge.Entry
	Score float64
}

// Index answers nearest-neighbour queries over a TF-IDF vector space built
// from the knowledge base. The space is an immutable snapshot swapped
// atomically on rebuild, so concurrent queries never observe a half-built
// index.
type Index struct {
	norm *Normalizer
	snap atomic.Pointer[indexSnapshot]
}

// indexSnapshot is one fully-built vector space. Vectors are L2-normalized
// and aligned with entries; scores are only comparable within a snapshot.
type indexSnapshot struct {
	entries []knowledge.Entry
	vocab   map[string]int
	idf     []float64
	vectors [][]float64
}

// NewIndex creates an empty index. Queries before the first Build return
// a zero-score miss rather than failing.
func NewIndex(norm *Normalizer) *Index {
	return &Index{norm: norm}
}

// Build constructs a new vector space from entries and publishes it,
// replacing any previous space. Each entry is indexed over the normalized
// concatenation of its question and keywords.
func (ix *Index) Build(entries []knowledge.Entry) {
	docs := make([][]string, len(entries))
	termTotal := make(map[string]int)
	docFreq := make(map[string]int)

	for i, e := range entries {
		text := e.Question + " " + strings.ReplaceAll(e.Keywords, ",", " ")
		tokens := ix.norm.Tokens(text)

		seen := make(map[string]bool, len(tokens))
		kept := tokens[:0]
		for _, t := range tokens {
			if stopwords[t] {
				continue
			}
			kept = append(kept, t)
			termTotal[t]++
			if !seen[t] {
				seen[t] = true
				docFreq[t]++
			}
		}
		docs[i] = kept
	}

	vocab := buildVocabulary(termTotal)

	// Smoothed IDF; +1 keeps terms present in every document from
	// vanishing entirely.
	n := len(entries)
	idf := make([]float64, len(vocab))
	for term, col := range vocab {
		idf[col] = math.Log(float64(1+n)/float64(1+docFreq[term])) + 1
	}

	snap := &indexSnapshot{
		entries: append([]knowledge.Entry(nil), entries...),
		vocab:   vocab,
		idf:     idf,
		vectors: make([][]float64, len(entries)),
	}
	for i, tokens := range docs {
		snap.vectors[i] = project(tokens, vocab, idf)
	}

	ix.snap.Store(snap)
}

// Size returns the number of indexed entries, 0 before the first build.
func (ix *Index) Size() int {
	snap := ix.snap.Load()
	if snap == nil {
		return 0
	}
	return len(snap.entries)
}

// Query normalizes the utterance, projects it into the current vocabulary
// (out-of-vocabulary terms contribute zero weight), and returns the single
// highest-scoring entry if its cosine similarity is at least threshold.
// Ties resolve to the first entry in load order. An empty or never-built
// index yields {nil, 0}.
func (ix *Index) Query(utterance string, threshold float64) MatchResult {
	snap := ix.snap.Load()
	if snap == nil || len(snap.entries) == 0 {
		return MatchResult{}
	}

	qv := project(ix.norm.Tokens(utterance), snap.vocab, snap.idf)
	if qv == nil {
		return MatchResult{}
	}

	best := -1
	bestScore := 0.0
	for i, dv := range snap.vectors {
		score := dot(qv, dv)
		if score > bestScore {
			bestScore = score
			best = i
		}
	}

	// Guard against float drift outside [0,1].
	bestScore = math.Max(0, math.Min(1, bestScore))

	if best < 0 || bestScore < threshold {
		return MatchResult{Score: bestScore}
	}
	return MatchResult{Entry: &snap.entries[best], Score: bestScore}
}

// buildVocabulary selects up to maxVocabulary terms, ranked by corpus
// frequency with lexicographic tie-break so index builds are deterministic.
func buildVocabulary(termTotal map[string]int) map[string]int {
	terms := make([]string, 0, len(termTotal))
	for t := range termTotal {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termTotal[terms[i]] != termTotal[terms[j]] {
			return termTotal[terms[i]] > termTotal[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxVocabulary {
		terms = terms[:maxVocabulary]
	}

	vocab := make(map[string]int, len(terms))
	for col, t := range terms {
		vocab[t] = col
	}
	return vocab
}

// project maps tokens to an L2-normalized TF-IDF vector over vocab.
// Returns nil when no token is in vocabulary.
func project(tokens []string, vocab map[string]int, idf []float64) []float64 {
	if len(vocab) == 0 {
		return nil
	}

	vec := make([]float64, len(vocab))
	hit := false
	for _, t := range tokens {
		if col, ok := vocab[t]; ok {
			vec[col] += idf[col]
			hit = true
		}
	}
	if !hit {
		return nil
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// dot assumes both vectors are unit length, so the product is the cosine.
func dot(a, b []float64) float64 {
	if b == nil {
		return 0
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
