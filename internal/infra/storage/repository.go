// Package storage provides the persistence layer for the office server.
// It holds the audit trail of office events only: the live counters are
// never reconstructed from it, every boot starts from the defaults.
package storage

import (
	"context"
	"time"
)

// OfficeEvent mirrors the domain event structure for persistence.
// The domain package should NOT import this; use interfaces instead.
type OfficeEvent struct {
	ID        string                 `json:"id" db:"id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	Actor     string                 `json:"actor" db:"actor"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
}

// EventRepository defines the interface for event persistence.
type EventRepository interface {
	// Append adds a new event to the audit trail.
	Append(ctx context.Context, event OfficeEvent) error

	// GetRecent retrieves the most recent events, newest first.
	GetRecent(ctx context.Context, limit int) ([]OfficeEvent, error)

	// GetByType retrieves the most recent events of one type, newest first.
	GetByType(ctx context.Context, eventType string, limit int) ([]OfficeEvent, error)

	// CountByType returns how many events of the given type were recorded.
	CountByType(ctx context.Context, eventType string) (int64, error)
}
