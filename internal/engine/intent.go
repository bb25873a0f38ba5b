package engine

import (
	"strings"

	"github.com/jdkato/prose/v2"

	"github.com/parley-bot/parley/internal/dialog"
)

// intentRule pairs an intent label with its trigger phrases. Triggers are
// matched as case-insensitive substrings of the raw utterance, not the
// normalized text — "?" itself is a question trigger.
type intentRule struct {
	label    dialog.IntentLabel
	triggers []string
}

// intentRules is evaluated in declaration order; the first detected intent
// becomes the primary intent. Loaded once, immutable thereafter.
var intentRules = []intentRule{
	{dialog.IntentGreeting, []string{
		"hello", "hi ", "hi!", "hi,", "hey", "good morning",
		"good afternoon", "good evening", "greetings",
	}},
	{dialog.IntentQuestion, []string{
		"what", "how", "why", "when", "where", "which", "who", "?",
	}},
	{dialog.IntentProblem, []string{
		"problem", "issue", "error", "not working", "broken", "fail",
		"trouble", "bug", "crash", "wrong",
	}},
	{dialog.IntentRequest, []string{
		"please", "can you", "could you", "i need", "i want", "help me",
		"would you",
	}},
	{dialog.IntentGoodbye, []string{
		"bye", "goodbye", "see you", "farewell", "see ya", "take care",
	}},
}

// nounTags are the Penn Treebank tags reported as entities.
var nounTags = map[string]bool{
	"NN": true, "NNS": true, "NNP": true, "NNPS": true,
}

// Classifier assigns coarse intents from a fixed trigger-phrase table and
// extracts noun entities with a part-of-speech tagger. Pure and
// deterministic; it never fails — degenerate input yields IntentUnknown
// with no entities.
type Classifier struct{}

// NewClassifier creates a classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify evaluates every rule against the lowercased utterance. An intent
// is detected when any of its triggers is a substring; the primary intent
// is the first detected in table order, or IntentUnknown when none match.
func (c *Classifier) Classify(text string) dialog.Intent {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return dialog.Intent{Primary: dialog.IntentUnknown}
	}

	lowered := strings.ToLower(trimmed)

	var detected []dialog.IntentLabel
	for _, rule := range intentRules {
		for _, trigger := range rule.triggers {
			// Padded triggers like "hi " also match a bare utterance.
			if strings.Contains(lowered, trigger) || lowered == strings.TrimSpace(trigger) {
				detected = append(detected, rule.label)
				break
			}
		}
	}

	primary := dialog.IntentUnknown
	if len(detected) > 0 {
		primary = detected[0]
	}

	return dialog.Intent{
		Primary:  primary,
		All:      detected,
		Entities: nounEntities(trimmed),
	}
}

// nounEntities tags the utterance and returns common, proper, and plural
// nouns in order of appearance. Tagger failures degrade to no entities.
func nounEntities(text string) []dialog.Entity {
	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil
	}

	var entities []dialog.Entity
	for _, tok := range doc.Tokens() {
		if nounTags[tok.Tag] {
			entities = append(entities, dialog.Entity{
				Word: tok.Text,
				Type: "NOUN",
				Tag:  tok.Tag,
			})
		}
	}
	return entities
}
