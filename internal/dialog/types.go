// Package dialog defines the dialogue types shared between the engine and
// the session store: intent labels, classified intents, and entities.
package dialog

// IntentLabel identifies a coarse conversational intent.
type IntentLabel string

// Intent labels, in classifier declaration order. Unknown is produced when
// no trigger matches; Error marks a degraded response after an internal
// failure and is never produced by classification itself.
const (
	IntentGreeting IntentLabel = "greeting"
	IntentQuestion IntentLabel = "question"
	IntentProblem  IntentLabel = "problem"
	IntentRequest  IntentLabel = "request"
	IntentGoodbye  IntentLabel = "goodbye"
	IntentUnknown  IntentLabel = "unknown"
	IntentError    IntentLabel = "error"
)

// Entity is a noun token extracted from an utterance. Type is always
// "NOUN"; Tag carries the tagger's raw part-of-speech tag (NN, NNS, NNP,
// NNPS).
type Entity struct {
	Word string `json:"word"`
	Type string `json:"type"`
	Tag  string `json:"tag"`
}

// Intent is the result of classifying one utterance. Computed fresh per
// turn; stored beyond the turn only inside a conversation turn record.
type Intent struct {
	Primary  IntentLabel   `json:"primary_intent"`
	All      []IntentLabel `json:"all_intents"`
	Entities []Entity      `json:"entities"`
}

// Has reports whether the given label was among the detected intents.
func (in Intent) Has(label IntentLabel) bool {
	for _, l := range in.All {
		if l == label {
			return true
		}
	}
	return false
}
