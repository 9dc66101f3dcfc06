package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event OfficeEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO office_events (id, timestamp, event_type, actor, payload)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.Timestamp, event.EventType, event.Actor, string(payloadBytes),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) GetRecent(ctx context.Context, limit int) ([]OfficeEvent, error) {
	query := `
		SELECT id, timestamp, event_type, actor, payload
		FROM office_events
		ORDER BY timestamp DESC
		LIMIT ?
	`
	return r.getMany(ctx, query, limit)
}

func (r *SQLiteEventRepository) GetByType(ctx context.Context, eventType string, limit int) ([]OfficeEvent, error) {
	query := `
		SELECT id, timestamp, event_type, actor, payload
		FROM office_events
		WHERE event_type = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`
	return r.getMany(ctx, query, eventType, limit)
}

func (r *SQLiteEventRepository) CountByType(ctx context.Context, eventType string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM office_events WHERE event_type = ?`, eventType).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]OfficeEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []OfficeEvent
	for rows.Next() {
		var e OfficeEvent
		var payloadStr string
		var ts time.Time

		if err := rows.Scan(&e.ID, &ts, &e.EventType, &e.Actor, &payloadStr); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		e.Timestamp = ts

		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			// Keep the row; an unreadable payload should not hide the event.
			e.Payload = map[string]interface{}{"raw": payloadStr}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
