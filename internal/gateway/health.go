package gateway

import (
	"encoding/json"
	"net/http"
)

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status   string `json:"status"` // "ok" or "degraded"
	Sessions int    `json:"sessions"`
	Entries  int    `json:"knowledge_entries"`
}

// handleHealth returns an http.HandlerFunc for GET /health.
// Returns 200 when the index has entries, 503 when it is empty (the engine
// can only produce fallbacks).
func (g *Gateway) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := HealthResponse{
			Status:   "ok",
			Sessions: g.engine.Contexts().Len(),
			Entries:  g.engine.IndexSize(),
		}
		if resp.Entries == 0 {
			resp.Status = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.Status == "degraded" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
