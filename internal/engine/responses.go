package engine

// Canned response texts. Fixed at compile time; the decision policy in
// Respond selects between them.
const (
	greetingResponse = "Hello! How can I help you today?"

	farewellResponse = "Goodbye! Feel free to come back if you have more questions."

	// Appended to a matched answer when the previous turn raised a problem
	// and the current turn asks a question.
	supportFollowUp = " If this doesn't resolve your issue, I can connect you with our support team."

	problemFallback = "I'm sorry you're running into trouble. Could you describe the problem in a bit more detail so I can find the right answer?"

	degradedResponse = "Something went wrong on my end while handling that. Please try again."
)

// genericFallbacks is the ordered list of fallback replies used when no
// knowledge entry clears the threshold; the first entry is always used.
var genericFallbacks = []string{
	"I'm not sure I have an answer for that. Could you rephrase your question?",
	"I don't have information on that topic yet. Try asking about something else.",
	"That's outside what I know right now. Could you ask in a different way?",
}

// fallbackConfidence is reported whenever no entry clears the threshold,
// regardless of the raw near-miss score.
const fallbackConfidence = 0.2

// cannedConfidence is reported for fixed greeting and farewell replies.
const cannedConfidence = 0.9
