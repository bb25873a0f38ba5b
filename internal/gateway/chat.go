package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/parley-bot/parley/internal/dialog"
	"github.com/parley-bot/parley/internal/engine"
)

// chatRequest is the inbound payload for POST /api/chat and /ws/chat.
type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// handleChat serves one turn per request. Empty messages are rejected here,
// before the engine, per the transport contract; a missing session id gets
// a generated one the client can reuse.
func (g *Gateway) handleChat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			http.Error(w, "message must not be empty", http.StatusBadRequest)
			return
		}
		if req.SessionID == "" {
			req.SessionID = uuid.NewString()
		}

		result := g.engine.Respond(r.Context(), req.Message, req.SessionID)
		g.observe(result)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

// handleChatSocket upgrades to WebSocket and exchanges chatRequest/Result
// JSON frames until the client goes away. All frames share one session.
func (g *Gateway) handleChatSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			g.logger.Warn("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		sessionID := r.URL.Query().Get("session_id")
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		ctx := r.Context()
		for {
			var req chatRequest
			if err := wsjson.Read(ctx, conn, &req); err != nil {
				var closeErr websocket.CloseError
				if !errors.As(err, &closeErr) {
					g.logger.Debug("websocket read ended", "error", err)
				}
				return
			}
			if strings.TrimSpace(req.Message) == "" {
				continue
			}
			if req.SessionID != "" {
				sessionID = req.SessionID
			}

			result := g.engine.Respond(ctx, req.Message, sessionID)
			g.observe(result)

			if err := wsjson.Write(ctx, conn, result); err != nil {
				g.logger.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}

func (g *Gateway) observe(result engine.Result) {
	errored := result.Intent.Primary == dialog.IntentError
	fallback := !errored && result.Confidence <= 0.2
	g.metrics.Observe(string(result.Intent.Primary), result.Confidence, fallback, errored)
}
