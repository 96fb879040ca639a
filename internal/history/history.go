// Package history persists the per-weekday sets of normalized content
// fingerprints used for repeat detection.
package history

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"daily-digest/internal/clock"
)

// Per-weekday cap applied on save; the oldest fingerprints are dropped.
const maxPerWeekday = 200

// Normalize reduces text to its dedup form: lower-cased with every
// non-alphanumeric rune removed, so casing, emoji and punctuation
// variants still count as repeats.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Store is a JSON-file-backed map of weekday -> fingerprints. Safe for
// concurrent use.
type Store struct {
	path string
	mu   sync.Mutex
	days map[clock.Weekday][]string
}

func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	s := &Store{path: path, days: make(map[clock.Weekday][]string)}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open history: %w", err)
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(&s.days); err != nil && err != io.EOF {
		return fmt.Errorf("decode history: %w", err)
	}
	if s.days == nil {
		s.days = make(map[clock.Weekday][]string)
	}
	return nil
}

// Contains reports whether the text's fingerprint was already recorded
// for the weekday.
func (s *Store) Contains(day clock.Weekday, text string) bool {
	norm := Normalize(text)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fp := range s.days[day] {
		if fp == norm {
			return true
		}
	}
	return false
}

// Add records the text's fingerprint for the weekday and persists the
// store. Adding an already-present fingerprint is a no-op.
func (s *Store) Add(day clock.Weekday, text string) error {
	norm := Normalize(text)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fp := range s.days[day] {
		if fp == norm {
			return nil
		}
	}
	s.days[day] = append(s.days[day], norm)
	if n := len(s.days[day]); n > maxPerWeekday {
		s.days[day] = s.days[day][n-maxPerWeekday:]
	}
	return s.saveLocked()
}

// Reset drops all fingerprints for every weekday.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days = make(map[clock.Weekday][]string)
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history for write: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.days); err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return nil
}
