// Package network - breakdesk.go
// REST surface for the break tools. Every named tool is flavor text around
// the same state transition: they all funnel into Manager.TakeBreak.
package network

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/chillmcp/server/internal/domain/office"
	"github.com/chillmcp/server/internal/engine"
	"github.com/chillmcp/server/internal/platform/logger"
)

// Response keys, kept stable for downstream text parsers.
const (
	ResponseBreakSummaryKey   = "Break Summary"
	ResponseStressLevelKey    = "Stress Level"
	ResponseBossAlertLevelKey = "Boss Alert Level"
)

// BreakTool is one way of slacking off.
type BreakTool struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// The canonical slacking repertoire.
var breakTools = []BreakTool{
	{Name: "take_a_break", Summary: "Stepped away for a classic breather."},
	{Name: "watch_netflix", Summary: "Healed the soul with a Netflix episode."},
	{Name: "show_meme", Summary: "Defused the pressure with fresh memes."},
	{Name: "bathroom_break", Summary: "Took the phone on a long bathroom pilgrimage."},
	{Name: "coffee_mission", Summary: "Did a full office lap under coffee cover."},
	{Name: "urgent_call", Summary: "Stepped outside for a very urgent imaginary call."},
	{Name: "deep_thinking", Summary: "Stared into the distance, visibly thinking hard."},
	{Name: "email_organizing", Summary: "Organized the inbox. And the shopping cart."},
}

// LookupBreakTool resolves a tool by name.
func LookupBreakTool(name string) (BreakTool, bool) {
	for _, t := range breakTools {
		if t.Name == name {
			return t, true
		}
	}
	return BreakTool{}, false
}

// BreakTools returns the full repertoire.
func BreakTools() []BreakTool {
	out := make([]BreakTool, len(breakTools))
	copy(out, breakTools)
	return out
}

// FormatBreakReport renders the post-break state as the canonical
// human-readable report.
func FormatBreakReport(tool BreakTool, state office.ChillState) string {
	return fmt.Sprintf("%s: %s | %s: %d | %s: %d",
		ResponseBreakSummaryKey, tool.Summary,
		ResponseStressLevelKey, state.StressLevel,
		ResponseBossAlertLevelKey, state.BossAlertLevel)
}

// BreakDesk handles REST break requests.
type BreakDesk struct {
	manager *engine.Manager
	logger  *logger.Logger
}

// NewBreakDesk creates a new break request handler.
func NewBreakDesk(manager *engine.Manager, log *logger.Logger) *BreakDesk {
	return &BreakDesk{manager: manager, logger: log}
}

// RegisterRoutes mounts the break desk endpoints on the mux.
func (bd *BreakDesk) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/break/", bd.handleBreak)
	mux.HandleFunc("/api/state", bd.handleState)
	mux.HandleFunc("/api/tools", bd.handleTools)
}

func (bd *BreakDesk) handleBreak(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/break/")
	tool, ok := LookupBreakTool(name)
	if !ok {
		http.Error(w, "Unknown break tool: "+name, http.StatusNotFound)
		return
	}

	state := bd.manager.TakeBreak()
	bd.logger.Event("BREAK_TAKEN", tool.Name,
		fmt.Sprintf("stress=%d alert=%d", state.StressLevel, state.BossAlertLevel))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"tool":                    tool.Name,
		ResponseBreakSummaryKey:   tool.Summary,
		ResponseStressLevelKey:    state.StressLevel,
		ResponseBossAlertLevelKey: state.BossAlertLevel,
	})
}

func (bd *BreakDesk) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bd.manager.CurrentState())
}

func (bd *BreakDesk) handleTools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"tools": BreakTools()})
}
