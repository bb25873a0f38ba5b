// Package engine implements the retrieval-and-dialogue-state core: text
// normalization, intent classification, TF-IDF similarity matching, and
// the decision policy turning a (message, context) pair into a response.
package engine

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/parley-bot/parley/internal/dialog"
	"github.com/parley-bot/parley/internal/knowledge"
	"github.com/parley-bot/parley/internal/session"
)

// Recorder is the conversation log sink. Record is fire-and-forget: a
// failure to log never fails the turn.
type Recorder interface {
	Record(ctx context.Context, sessionID, userText, botText string, confidence float64) error
}

// Result is the well-formed outcome of one turn. Respond always returns
// one, even for empty input or after an internal failure (then with
// IntentError and zero confidence).
type Result struct {
	Response   string        `json:"response"`
	Confidence float64       `json:"confidence"`
	Intent     dialog.Intent `json:"intent"`
	SessionID  string        `json:"session_id"`
}

// Options configures a new Engine.
type Options struct {
	// Logger receives internal fault reports. Defaults to slog.Default().
	Logger *slog.Logger

	// Contexts is the per-session dialogue state table. Required.
	Contexts *session.Store

	// Recorder is the optional conversation log sink.
	Recorder Recorder

	// Threshold overrides the default similarity threshold.
	Threshold float64
}

// Engine composes the classifier, similarity index, and context store.
// Construct once at process start and share by reference; Respond is safe
// for concurrent use.
type Engine struct {
	logger     *slog.Logger
	norm       *Normalizer
	classifier *Classifier
	index      *Index
	contexts   *session.Store
	recorder   Recorder
	threshold  float64
	tracer     trace.Tracer
}

// New creates an engine with an empty index; call Build before serving
// traffic, or accept fallback-only answers until the first build.
func New(opts Options) (*Engine, error) {
	norm, err := NewNormalizer()
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	contexts := opts.Contexts
	if contexts == nil {
		contexts = session.NewStore(nil, logger)
	}

	return &Engine{
		logger:     logger,
		norm:       norm,
		classifier: NewClassifier(),
		index:      NewIndex(norm),
		contexts:   contexts,
		recorder:   opts.Recorder,
		threshold:  threshold,
		tracer:     otel.Tracer("parley/engine"),
	}, nil
}

// Build indexes the given knowledge entries, atomically replacing any
// previous index.
func (e *Engine) Build(entries []knowledge.Entry) {
	e.index.Build(entries)
	e.logger.Info("knowledge index built", "entries", len(entries))
}

// IndexSize returns the number of indexed knowledge entries.
func (e *Engine) IndexSize() int {
	return e.index.Size()
}

// Contexts exposes the session context store for admin surfaces and
// scheduled cleanup.
func (e *Engine) Contexts() *session.Store {
	return e.contexts
}

// Respond handles one turn. It never fails for any string input: internal
// faults are caught, reported to the logger, and mapped to a fixed
// degraded result with IntentError and zero confidence.
func (e *Engine) Respond(ctx context.Context, message, sessionID string) (res Result) {
	ctx, span := e.tracer.Start(ctx, "engine.respond")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("respond failed", "session", sessionID, "panic", r)
			res = Result{
				Response:   degradedResponse,
				Confidence: 0,
				Intent:     dialog.Intent{Primary: dialog.IntentError},
				SessionID:  sessionID,
			}
		}
		span.SetAttributes(
			attribute.String("chat.intent", string(res.Intent.Primary)),
			attribute.Float64("chat.confidence", res.Confidence),
		)
	}()

	prior := e.contexts.Get(sessionID)
	intent := e.classifier.Classify(message)

	response, confidence := e.decide(message, intent, prior)

	e.contexts.Update(sessionID, message, response, intent)

	if e.recorder != nil {
		if err := e.recorder.Record(ctx, sessionID, message, response, confidence); err != nil {
			e.logger.Warn("conversation log failed", "session", sessionID, "error", err)
		}
	}

	return Result{
		Response:   response,
		Confidence: confidence,
		Intent:     intent,
		SessionID:  sessionID,
	}
}

// decide applies the response policy: canned greeting/farewell, then best
// knowledge match with optional cross-turn follow-up, then fallback.
func (e *Engine) decide(message string, intent dialog.Intent, prior session.Context) (string, float64) {
	switch intent.Primary {
	case dialog.IntentGreeting:
		return greetingResponse, cannedConfidence
	case dialog.IntentGoodbye:
		return farewellResponse, cannedConfidence
	}

	match := e.index.Query(message, e.threshold)
	if match.Entry != nil {
		response := match.Entry.Answer
		// The one cross-turn effect: a question right after a reported
		// problem gets pointed at support.
		if prior.LastIntent == dialog.IntentProblem && intent.Primary == dialog.IntentQuestion {
			response += supportFollowUp
		}
		return response, match.Score
	}

	if intent.Primary == dialog.IntentProblem {
		return problemFallback, fallbackConfidence
	}
	return genericFallbacks[0], fallbackConfidence
}
