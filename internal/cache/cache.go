// Package cache persists the single per-day generated payload so repeat
// polls and process restarts within the same civil day never regenerate.
package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"daily-digest/internal/clock"
	"daily-digest/internal/content"
)

// Record is the one live cache entry. Keying explicitly by civil date
// avoids stale-entry ambiguity when a restart spans midnight.
type Record struct {
	Date    string          `json:"date"`
	Weekday clock.Weekday   `json:"weekday"`
	Payload content.Payload `json:"payload"`
}

// Store is a JSON-file-backed single-slot cache. Safe for concurrent
// use.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	return &Store{path: path}, nil
}

// Get returns the record for the date, or nil on a miss. A stored record
// for any other date counts as absent.
func (s *Store) Get(date string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.readLocked()
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.Date != date {
		return nil, nil
	}
	return rec, nil
}

// Put overwrites the stored record.
func (s *Store) Put(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(&rec)
}

// Reset clears the stored record unconditionally.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(nil)
}

func (s *Store) readLocked() (*Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open cache: %w", err)
	}
	defer f.Close()
	var rec Record
	if err := json.NewDecoder(f).Decode(&rec); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode cache: %w", err)
	}
	if rec.Date == "" {
		return nil, nil
	}
	return &rec, nil
}

func (s *Store) writeLocked(rec *Record) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open cache for write: %w", err)
	}
	defer f.Close()
	if rec == nil {
		return nil
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	return nil
}
