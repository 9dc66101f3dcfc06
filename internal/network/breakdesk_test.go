package network

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chillmcp/server/internal/engine"
	"github.com/chillmcp/server/internal/events"
	"github.com/chillmcp/server/internal/platform/logger"
)

func newTestDesk(t *testing.T) (*BreakDesk, *engine.Manager) {
	t.Helper()
	m := engine.NewManager(engine.Options{
		BossAlertness:         0,
		BossAlertnessCooldown: time.Hour,
		StressInterval:        time.Hour,
	}, events.NewEventLog(nil), logger.NewLogger())
	t.Cleanup(m.Shutdown)
	return NewBreakDesk(m, logger.NewLogger()), m
}

func TestBreakEndpointReturnsReport(t *testing.T) {
	desk, _ := newTestDesk(t)
	mux := http.NewServeMux()
	desk.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodPost, "/api/break/watch_netflix", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}

	if body["tool"] != "watch_netflix" {
		t.Errorf("Expected tool watch_netflix, got %v", body["tool"])
	}
	for _, key := range []string{ResponseBreakSummaryKey, ResponseStressLevelKey, ResponseBossAlertLevelKey} {
		if _, ok := body[key]; !ok {
			t.Errorf("Response missing key %q", key)
		}
	}

	stress, ok := body[ResponseStressLevelKey].(float64)
	if !ok || stress < 0 || stress > 100 {
		t.Errorf("Stress level out of bounds or wrong type: %v", body[ResponseStressLevelKey])
	}
}

func TestEveryToolFunnelsIntoTakeBreak(t *testing.T) {
	desk, manager := newTestDesk(t)
	mux := http.NewServeMux()
	desk.RegisterRoutes(mux)

	before := manager.CurrentState().StressLevel
	for _, tool := range BreakTools() {
		req := httptest.NewRequest(http.MethodPost, "/api/break/"+tool.Name, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("Tool %s: expected 200, got %d", tool.Name, rec.Code)
		}
	}

	// Eight breaks of at least one point each must have moved the counter
	// unless it was already pinned at the floor.
	after := manager.CurrentState().StressLevel
	if before > 0 && after >= before {
		t.Errorf("Expected stress below %d after all tools, got %d", before, after)
	}
}

func TestUnknownToolRejected(t *testing.T) {
	desk, _ := newTestDesk(t)
	mux := http.NewServeMux()
	desk.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodPost, "/api/break/quiet_quitting", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown tool, got %d", rec.Code)
	}
}

func TestBreakRequiresPost(t *testing.T) {
	desk, _ := newTestDesk(t)
	mux := http.NewServeMux()
	desk.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/break/take_a_break", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET break, got %d", rec.Code)
	}
}

func TestStateEndpoint(t *testing.T) {
	desk, manager := newTestDesk(t)
	mux := http.NewServeMux()
	desk.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var state struct {
		StressLevel    int `json:"stress_level"`
		BossAlertLevel int `json:"boss_alert_level"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}

	want := manager.CurrentState()
	if state.StressLevel != want.StressLevel || state.BossAlertLevel != want.BossAlertLevel {
		t.Errorf("State endpoint returned %+v, manager has %+v", state, want)
	}
}

func TestToolsEndpointListsRepertoire(t *testing.T) {
	desk, _ := newTestDesk(t)
	mux := http.NewServeMux()
	desk.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/tools", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var body struct {
		Tools []BreakTool `json:"tools"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if len(body.Tools) != len(BreakTools()) {
		t.Errorf("Expected %d tools, got %d", len(BreakTools()), len(body.Tools))
	}
}

func TestFormatBreakReport(t *testing.T) {
	tool, _ := LookupBreakTool("coffee_mission")
	_, manager := newTestDesk(t)

	report := FormatBreakReport(tool, manager.CurrentState())
	want := "Break Summary: Did a full office lap under coffee cover. | Stress Level: 50 | Boss Alert Level: 0"
	if report != want {
		t.Errorf("Report mismatch:\n got: %s\nwant: %s", report, want)
	}
}
