package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parley-bot/parley/internal/dialog"
	"github.com/parley-bot/parley/internal/session"
)

// sessionSummary is one row of the GET /api/sessions listing.
type sessionSummary struct {
	SessionID  string             `json:"session_id"`
	Turns      int                `json:"turns"`
	LastIntent dialog.IntentLabel `json:"last_intent,omitempty"`
	Topic      string             `json:"current_topic,omitempty"`
}

func (g *Gateway) handleListSessions() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		summaries := make([]sessionSummary, 0)
		g.engine.Contexts().Range(func(id string, sc session.Context) bool {
			summaries = append(summaries, sessionSummary{
				SessionID:  id,
				Turns:      len(sc.ConversationHistory),
				LastIntent: sc.LastIntent,
				Topic:      sc.CurrentTopic,
			})
			return true
		})

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(summaries)
	}
}

func (g *Gateway) handleDeleteSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "missing session id", http.StatusBadRequest)
			return
		}
		g.engine.Contexts().Delete(id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (g *Gateway) handleReloadKnowledge() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if g.reloader == nil {
			http.Error(w, "knowledge reload not available", http.StatusServiceUnavailable)
			return
		}
		if err := g.reloader.ReloadKnowledge(r.Context()); err != nil {
			g.logger.Error("knowledge reload failed", "error", err)
			http.Error(w, "reload failed: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "reloaded",
			"entries": g.engine.IndexSize(),
		})
	}
}
