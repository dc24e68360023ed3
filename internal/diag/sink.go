// Package diag provides the widget's diagnostics buffer: a bounded,
// subscribable ring of structured entries. A sink is created per widget and
// injected, so tests get a fresh buffer per run.
package diag

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// DefaultCapacity bounds a sink when no explicit capacity is given.
const DefaultCapacity = 500

type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
	LevelEvent   Level = "event"
	LevelSuccess Level = "success"
)

// Entry is one diagnostics record.
type Entry struct {
	ID        uint64         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Source    string         `json:"source"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

// Sink is a bounded diagnostics buffer. Past capacity the oldest entries are
// dropped. Subscribers are notified after every mutation.
type Sink struct {
	mu       sync.Mutex
	cap      int
	nextID   uint64
	nextSub  int
	entries  []Entry
	subs     map[int]func()
	now      func() time.Time
}

// NewSink returns a sink bounded to capacity entries; capacity <= 0 uses
// DefaultCapacity.
func NewSink(capacity int) *Sink {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Sink{
		cap:    capacity,
		nextID: 1,
		subs:   make(map[int]func()),
		now:    time.Now,
	}
}

// WithNow overrides the sink's clock. Intended for tests.
func (s *Sink) WithNow(now func() time.Time) *Sink {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
	return s
}

// Push appends an entry, evicting the oldest past capacity.
func (s *Sink) Push(level Level, source, message string, data map[string]any) {
	s.mu.Lock()
	e := Entry{
		ID:        s.nextID,
		Timestamp: s.now(),
		Level:     level,
		Source:    source,
		Message:   message,
		Data:      sanitize(data),
	}
	s.nextID++
	s.entries = append(s.entries, e)
	if len(s.entries) > s.cap {
		s.entries = append([]Entry(nil), s.entries[len(s.entries)-s.cap:]...)
	}
	subs := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Entries returns a copy of the buffered entries, oldest first.
func (s *Sink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// Len returns the number of buffered entries.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Clear drops all buffered entries.
func (s *Sink) Clear() {
	s.mu.Lock()
	s.entries = nil
	subs := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Subscribe registers a change callback and returns an unsubscribe func.
// Callbacks run outside the sink's lock and must not block.
func (s *Sink) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// sanitize keeps payloads JSON-encodable; values that do not marshal are
// replaced by their fmt representation.
func sanitize(data map[string]any) map[string]any {
	if len(data) == 0 {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		if _, err := json.Marshal(v); err != nil {
			out[k] = fmt.Sprintf("%v", v)
			continue
		}
		out[k] = v
	}
	return out
}
