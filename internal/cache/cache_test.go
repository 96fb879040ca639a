package cache

import (
	"path/filepath"
	"testing"

	"daily-digest/internal/clock"
	"daily-digest/internal/content"
)

func testRecord(date string) Record {
	return Record{
		Date:    date,
		Weekday: clock.Thursday,
		Payload: content.Payload{
			ContentType: content.TypeRiddle,
			Title:       "Riddle of the Day",
			Message:     "🧩 Riddle\n\nWhat has keys but no locks?",
			Items:       []map[string]any{{"riddle": "What has keys but no locks?", "answer": "A piano", "type": "text"}},
			Metadata:    map[string]any{"serp_used": true},
		},
	}
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	return s, path
}

func TestGetEmptyStoreIsMiss(t *testing.T) {
	s, _ := newTestStore(t)
	rec, err := s.Get("2025-10-30")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec != nil {
		t.Fatalf("want miss, got %+v", rec)
	}
}

func TestPutThenGetSameDate(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.Put(testRecord("2025-10-30")); err != nil {
		t.Fatalf("put: %v", err)
	}
	rec, err := s.Get("2025-10-30")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec == nil {
		t.Fatal("want hit, got miss")
	}
	if rec.Payload.Title != "Riddle of the Day" || rec.Weekday != clock.Thursday {
		t.Fatalf("payload corrupted: %+v", rec)
	}
}

func TestGetOtherDateIsMiss(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.Put(testRecord("2025-10-30")); err != nil {
		t.Fatalf("put: %v", err)
	}
	rec, err := s.Get("2025-10-31")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec != nil {
		t.Fatalf("stale record served for wrong date: %+v", rec)
	}
}

func TestSurvivesReopen(t *testing.T) {
	s, path := newTestStore(t)
	if err := s.Put(testRecord("2025-10-30")); err != nil {
		t.Fatalf("put: %v", err)
	}
	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	rec, err := reopened.Get("2025-10-30")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if rec == nil {
		t.Fatal("record lost across restart")
	}
}

func TestReset(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.Put(testRecord("2025-10-30")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	rec, err := s.Get("2025-10-30")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec != nil {
		t.Fatalf("reset did not clear record: %+v", rec)
	}
}
