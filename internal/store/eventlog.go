package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dukerupert/ouenpt/internal/model"
)

// EventLogStore owns the append-only point log. The whole log lives in one
// JSON document (`{"log":[...]}`), rewritten atomically on every append.
// Volumes are small (thousands of rows), so whole-document rewrite is fine.
type EventLogStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// document is the on-disk shape of the log file.
type document struct {
	Log []model.Event `json:"log"`
}

func NewEventLogStore(path string) *EventLogStore {
	return &EventLogStore{path: path, now: time.Now}
}

// Append records a point grant with a server-assigned JST timestamp and
// rewrites the log file. Appends are serialized by an internal lock; write
// failures propagate so the caller never confirms an award that was dropped.
func (s *EventLogStore) Append(name string, points int) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.loadLocked()
	ev := model.Event{
		Name:      name,
		Points:    points,
		Timestamp: s.now().In(model.JST).Truncate(time.Second),
	}
	events = append(events, ev)

	if err := s.writeLocked(events); err != nil {
		return nil, fmt.Errorf("append event: %w", err)
	}
	return &ev, nil
}

// Load returns all events in append order. A missing, unreadable, or
// malformed file reads as an empty log: corrupt data must never take the
// ingestion path down.
func (s *EventLogStore) Load() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *EventLogStore) loadLocked() []model.Event {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	return doc.Log
}

// writeLocked replaces the log file via temp-file + rename so a crash
// mid-write leaves the previous document intact.
func (s *EventLogStore) writeLocked(events []model.Event) error {
	data, err := json.MarshalIndent(document{Log: events}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal log: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".points-*.json")
	if err != nil {
		return fmt.Errorf("create temp log: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp log: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace log: %w", err)
	}
	return nil
}
