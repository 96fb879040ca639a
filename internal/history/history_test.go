package history

import (
	"fmt"
	"path/filepath"
	"testing"

	"daily-digest/internal/clock"
)

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Hello, World!", "helloworld"},
		{"  hello world  ", "helloworld"},
		{"HELLO WORLD", "helloworld"},
		{"🚀 Monday Motivation!!!", "mondaymotivation"},
		{"a1 b2-C3", "a1b2c3"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStoreContainsAndAdd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	if s.Contains(clock.Monday, "Stay hungry") {
		t.Fatal("empty store reported a repeat")
	}
	if err := s.Add(clock.Monday, "Stay hungry"); err != nil {
		t.Fatalf("add: %v", err)
	}
	// Cosmetic variants count as the same content.
	if !s.Contains(clock.Monday, "stay HUNGRY!!! 🚀") {
		t.Fatal("normalized variant not detected as repeat")
	}
	// Other weekdays have independent sets.
	if s.Contains(clock.Tuesday, "Stay hungry") {
		t.Fatal("fingerprint leaked across weekdays")
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := s.Add(clock.Friday, "some movie list"); err != nil {
		t.Fatalf("add: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !reopened.Contains(clock.Friday, "some movie list") {
		t.Fatal("fingerprint lost across restart")
	}
}

func TestStoreTrimsOldEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	for i := 0; i < maxPerWeekday+10; i++ {
		if err := s.Add(clock.Monday, fmt.Sprintf("quote number %d", i)); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	if s.Contains(clock.Monday, "quote number 0") {
		t.Fatal("oldest entry should have been trimmed")
	}
	if !s.Contains(clock.Monday, fmt.Sprintf("quote number %d", maxPerWeekday+9)) {
		t.Fatal("newest entry missing")
	}
}

func TestStoreReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := s.Add(clock.Sunday, "rest day"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if s.Contains(clock.Sunday, "rest day") {
		t.Fatal("reset did not clear fingerprints")
	}
}
