package engine

import (
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// minTokenLen drops tokens of this length or shorter after normalization.
const minTokenLen = 2

// Normalizer canonicalizes free text for indexing and querying: lowercase,
// punctuation stripping, stop-word and short-token removal, and
// lemmatization to dictionary base forms. It is stateless after
// construction and safe for concurrent use.
type Normalizer struct {
	lemmatizer *golem.Lemmatizer
}

// NewNormalizer creates a normalizer with the English lemmatizer dictionary.
func NewNormalizer() (*Normalizer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, err
	}
	return &Normalizer{lemmatizer: lem}, nil
}

// Normalize returns the canonical form of text: surviving lemmas joined by
// single spaces. The result may be empty (input was only stop-words or
// punctuation); callers must tolerate that.
func (n *Normalizer) Normalize(text string) string {
	return strings.Join(n.Tokens(text), " ")
}

// Tokens returns the normalized token sequence for text.
func (n *Normalizer) Tokens(text string) []string {
	cleaned := stripPunctuation(strings.ToLower(text))

	fields := strings.FieldsFunc(cleaned, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len(tok) <= minTokenLen || stopwords[tok] {
			continue
		}
		tokens = append(tokens, n.lemmatizer.Lemma(tok))
	}
	return tokens
}

// stripPunctuation removes characters outside letters, digits, whitespace,
// and the sentence terminators . ? !
func stripPunctuation(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			b.WriteRune(r)
		case r == '.' || r == '?' || r == '!':
			b.WriteRune(r)
		}
	}
	return b.String()
}
