package gateway

import (
	"encoding/json"
	"net/http"
	"time"
)

// StatusResponse is the JSON response for GET /status (auth required).
type StatusResponse struct {
	Uptime   string `json:"uptime"`
	Sessions int    `json:"sessions"`
	Entries  int    `json:"knowledge_entries"`
}

func (g *Gateway) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := StatusResponse{
			Uptime:   time.Since(g.startedAt).Round(time.Second).String(),
			Sessions: g.engine.Contexts().Len(),
			Entries:  g.engine.IndexSize(),
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
