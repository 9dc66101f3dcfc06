// Package events provides the append-only log of office happenings.
// Every counter mutation leaves a trace here so the break room dashboard
// and the history API can replay what the boss saw.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of an office event.
type EventType string

const (
	EventTypeBreakTaken    EventType = "BREAK_TAKEN"
	EventTypeStressTick    EventType = "STRESS_TICK"
	EventTypeAlertDecay    EventType = "ALERT_DECAY"
	EventTypeAlertMaxDelay EventType = "ALERT_MAX_DELAY"
)

// BreakTakenPayload records the outcome of a single break.
type BreakTakenPayload struct {
	StressRelief   int  `json:"stress_relief"`
	StressLevel    int  `json:"stress_level"`
	BossAlertLevel int  `json:"boss_alert_level"`
	BossNoticed    bool `json:"boss_noticed"`
	Delayed        bool `json:"delayed"`
}

// StressTickPayload records an automatic stress increase.
type StressTickPayload struct {
	StressLevel int `json:"stress_level"`
}

// AlertDecayPayload records an automatic boss alert cooldown step.
type AlertDecayPayload struct {
	BossAlertLevel int `json:"boss_alert_level"`
}

// AlertMaxDelayPayload records a break that was stalled by a fully alert boss.
type AlertMaxDelayPayload struct {
	DelaySeconds float64 `json:"delay_seconds"`
}

// OfficeEvent represents an immutable record of something that happened.
type OfficeEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	Actor     string      `json:"actor"` // "EMPLOYEE" or "SYSTEM_<ticker>"
	Payload   interface{} `json:"payload"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event OfficeEvent) error
}

// EventLog is the in-memory append-only log of office events.
type EventLog struct {
	mu        sync.RWMutex
	events    []OfficeEvent
	persister EventPersister
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]OfficeEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
func (el *EventLog) Append(event OfficeEvent) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.events = append(el.events, event)

	if el.persister != nil {
		// Write through to persistent storage off the hot path.
		go func(e OfficeEvent) {
			_ = el.persister.Append(e)
		}(event)
	}
}

// Len returns the number of events appended so far.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events)
}

// Since returns a copy of all events appended at or after the given offset.
// Pollers keep their own offset and advance it by the returned length.
func (el *EventLog) Since(offset int) []OfficeEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	if offset < 0 {
		offset = 0
	}
	if offset >= len(el.events) {
		return nil
	}

	out := make([]OfficeEvent, len(el.events)-offset)
	copy(out, el.events[offset:])
	return out
}

// Replay returns the full history of events.
func (el *EventLog) Replay() []OfficeEvent {
	return el.Since(0)
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
