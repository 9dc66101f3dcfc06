// Package network - history.go
// JSON export of the office event history, read from the in-memory log.
package network

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/chillmcp/server/internal/events"
	"github.com/chillmcp/server/internal/platform/logger"
)

// HistoryHandler serves the event history API.
type HistoryHandler struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewHistoryHandler creates a new history export handler.
func NewHistoryHandler(el *events.EventLog, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{eventLog: el, logger: log}
}

// HistoryEvent is an event shaped for public viewing.
type HistoryEvent struct {
	ID        string      `json:"id"`
	Timestamp string      `json:"timestamp"`
	Type      string      `json:"type"`
	Actor     string      `json:"actor"`
	Payload   interface{} `json:"payload,omitempty"`
}

// RegisterRoutes mounts the history endpoint on the mux.
func (h *HistoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/history", h.handleHistory)
}

// handleHistory serves GET /api/history?limit=N&type=BREAK_TAKEN.
// Events are returned oldest first; limit keeps only the newest N.
func (h *HistoryHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	typeFilter := r.URL.Query().Get("type")
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	all := h.eventLog.Replay()
	filtered := make([]HistoryEvent, 0, len(all))
	for _, e := range all {
		if typeFilter != "" && string(e.Type) != typeFilter {
			continue
		}
		filtered = append(filtered, HistoryEvent{
			ID:        e.ID,
			Timestamp: e.Timestamp.Format(time.RFC3339),
			Type:      string(e.Type),
			Actor:     e.Actor,
			Payload:   e.Payload,
		})
	}
	if len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"count":  len(filtered),
		"events": filtered,
	})
}
