// Package metrics provides observability for the office server.
// Counters are cheap atomics so the state manager's hot path stays hot.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers runtime metrics.
type Collector struct {
	// Break metrics
	BreaksTaken     int64
	BreaksDelayed   int64
	BreakLatencySum int64 // nanoseconds
	BreakLatencyMax int64

	// Ticker metrics
	StressTicks int64
	AlertDecays int64

	// Event persistence metrics
	EventsWritten    int64
	EventWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// System
	StartTime     time.Time
	LastBreakTime time.Time
	mu            sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordBreak records a completed break, including any max-alert stall.
func (c *Collector) RecordBreak(latency time.Duration, delayed bool) {
	atomic.AddInt64(&c.BreaksTaken, 1)
	atomic.AddInt64(&c.BreakLatencySum, int64(latency))
	if delayed {
		atomic.AddInt64(&c.BreaksDelayed, 1)
	}

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.BreakLatencyMax) {
		atomic.StoreInt64(&c.BreakLatencyMax, int64(latency))
	}

	c.mu.Lock()
	c.LastBreakTime = time.Now()
	c.mu.Unlock()
}

// RecordStressTick records one firing of the stress ticker that moved the counter.
func (c *Collector) RecordStressTick() {
	atomic.AddInt64(&c.StressTicks, 1)
}

// RecordAlertDecay records one firing of the alert decay ticker that moved the counter.
func (c *Collector) RecordAlertDecay() {
	atomic.AddInt64(&c.AlertDecays, 1)
}

// RecordEventWrite records an event write to the database.
func (c *Collector) RecordEventWrite(err error) {
	atomic.AddInt64(&c.EventsWritten, 1)
	if err != nil {
		atomic.AddInt64(&c.EventWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	breaks := atomic.LoadInt64(&c.BreaksTaken)

	var breakAvg float64
	if breaks > 0 {
		breakAvg = float64(atomic.LoadInt64(&c.BreakLatencySum)) / float64(breaks) / 1e6 // ms
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"breaks": map[string]interface{}{
			"taken":          breaks,
			"delayed":        atomic.LoadInt64(&c.BreaksDelayed),
			"avg_latency_ms": breakAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.BreakLatencyMax)) / 1e6,
			"last_break":     c.LastBreakTime.Format(time.RFC3339),
		},

		"tickers": map[string]interface{}{
			"stress_ticks": atomic.LoadInt64(&c.StressTicks),
			"alert_decays": atomic.LoadInt64(&c.AlertDecays),
		},

		"events": map[string]interface{}{
			"written": atomic.LoadInt64(&c.EventsWritten),
			"errors":  atomic.LoadInt64(&c.EventWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		fmt.Fprintf(w, "# HELP chillmcp_breaks_taken Total breaks taken\n")
		fmt.Fprintf(w, "# TYPE chillmcp_breaks_taken counter\n")
		fmt.Fprintf(w, "chillmcp_breaks_taken %d\n\n", atomic.LoadInt64(&c.BreaksTaken))

		fmt.Fprintf(w, "# HELP chillmcp_breaks_delayed Breaks stalled by a fully alert boss\n")
		fmt.Fprintf(w, "# TYPE chillmcp_breaks_delayed counter\n")
		fmt.Fprintf(w, "chillmcp_breaks_delayed %d\n\n", atomic.LoadInt64(&c.BreaksDelayed))

		fmt.Fprintf(w, "# HELP chillmcp_break_latency_max_ms Maximum break latency\n")
		fmt.Fprintf(w, "# TYPE chillmcp_break_latency_max_ms gauge\n")
		fmt.Fprintf(w, "chillmcp_break_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.BreakLatencyMax))/1e6)

		fmt.Fprintf(w, "# HELP chillmcp_stress_ticks Total stress ticker firings that raised stress\n")
		fmt.Fprintf(w, "# TYPE chillmcp_stress_ticks counter\n")
		fmt.Fprintf(w, "chillmcp_stress_ticks %d\n\n", atomic.LoadInt64(&c.StressTicks))

		fmt.Fprintf(w, "# HELP chillmcp_alert_decays Total alert decay firings that lowered the alert\n")
		fmt.Fprintf(w, "# TYPE chillmcp_alert_decays counter\n")
		fmt.Fprintf(w, "chillmcp_alert_decays %d\n\n", atomic.LoadInt64(&c.AlertDecays))

		fmt.Fprintf(w, "# HELP chillmcp_events_written Total events written\n")
		fmt.Fprintf(w, "# TYPE chillmcp_events_written counter\n")
		fmt.Fprintf(w, "chillmcp_events_written %d\n\n", atomic.LoadInt64(&c.EventsWritten))

		fmt.Fprintf(w, "# HELP chillmcp_event_write_errors Total event write errors\n")
		fmt.Fprintf(w, "# TYPE chillmcp_event_write_errors counter\n")
		fmt.Fprintf(w, "chillmcp_event_write_errors %d\n\n", atomic.LoadInt64(&c.EventWriteErrors))

		fmt.Fprintf(w, "# HELP chillmcp_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE chillmcp_ws_connections gauge\n")
		fmt.Fprintf(w, "chillmcp_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP chillmcp_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE chillmcp_ws_messages_total counter\n")
		fmt.Fprintf(w, "chillmcp_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "chillmcp_ws_messages_total{direction=\"out\"} %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
