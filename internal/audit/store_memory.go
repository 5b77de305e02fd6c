package audit

import (
	"context"
	"slices"
	"sync"
)

const defaultMemoryCapacity = 1000

// MemoryStore keeps the most recent events in process. Older events are
// dropped once capacity is reached.
type MemoryStore struct {
	mu       sync.RWMutex
	events   []Event
	capacity int
}

func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &MemoryStore{capacity: capacity}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if over := len(s.events) - s.capacity; over > 0 {
		s.events = slices.Delete(s.events, 0, over)
	}
	return nil
}

// ListRecent returns matching events, newest first.
func (s *MemoryStore) ListRecent(_ context.Context, q Query) ([]Event, error) {
	q = q.Normalized()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, 0, min(q.Limit, len(s.events)))
	for i := len(s.events) - 1; i >= 0 && len(out) < q.Limit; i-- {
		if q.matches(s.events[i]) {
			out = append(out, s.events[i])
		}
	}
	return out, nil
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
