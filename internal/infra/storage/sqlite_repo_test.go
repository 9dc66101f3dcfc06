package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestRepo(t *testing.T) *SQLiteEventRepository {
	t.Helper()
	db, err := InitSQLite(filepath.Join(t.TempDir(), "chill_test.db"))
	if err != nil {
		t.Fatalf("InitSQLite failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLiteEventRepository(db)
}

func TestAppendAndGetRecent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"a", "b", "c"} {
		err := repo.Append(ctx, OfficeEvent{
			ID:        id,
			Timestamp: base.Add(time.Duration(i) * time.Second),
			EventType: "BREAK_TAKEN",
			Actor:     "EMPLOYEE",
			Payload:   map[string]interface{}{"stress_level": 40 - i},
		})
		if err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	recent, err := repo.GetRecent(ctx, 2)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(recent))
	}
	// Newest first.
	if recent[0].ID != "c" || recent[1].ID != "b" {
		t.Errorf("Expected newest-first order [c b], got [%s %s]", recent[0].ID, recent[1].ID)
	}
}

func TestGetByTypeFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	events := []OfficeEvent{
		{ID: "1", Timestamp: time.Now().UTC(), EventType: "BREAK_TAKEN", Actor: "EMPLOYEE", Payload: map[string]interface{}{}},
		{ID: "2", Timestamp: time.Now().UTC(), EventType: "STRESS_TICK", Actor: "SYSTEM_STRESS", Payload: map[string]interface{}{}},
		{ID: "3", Timestamp: time.Now().UTC(), EventType: "BREAK_TAKEN", Actor: "EMPLOYEE", Payload: map[string]interface{}{}},
	}
	for _, e := range events {
		if err := repo.Append(ctx, e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	breaks, err := repo.GetByType(ctx, "BREAK_TAKEN", 10)
	if err != nil {
		t.Fatalf("GetByType failed: %v", err)
	}
	if len(breaks) != 2 {
		t.Errorf("Expected 2 BREAK_TAKEN events, got %d", len(breaks))
	}
	for _, e := range breaks {
		if e.EventType != "BREAK_TAKEN" {
			t.Errorf("Filter leaked event of type %s", e.EventType)
		}
	}

	count, err := repo.CountByType(ctx, "STRESS_TICK")
	if err != nil {
		t.Fatalf("CountByType failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 STRESS_TICK, got %d", count)
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.Append(ctx, OfficeEvent{
		ID:        "rt",
		Timestamp: time.Now().UTC(),
		EventType: "BREAK_TAKEN",
		Actor:     "EMPLOYEE",
		Payload: map[string]interface{}{
			"stress_relief": float64(42),
			"boss_noticed":  true,
		},
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	got, err := repo.GetRecent(ctx, 1)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(got))
	}
	if got[0].Payload["stress_relief"] != float64(42) {
		t.Errorf("Expected stress_relief 42, got %v", got[0].Payload["stress_relief"])
	}
	if got[0].Payload["boss_noticed"] != true {
		t.Errorf("Expected boss_noticed true, got %v", got[0].Payload["boss_noticed"])
	}
}
