package telemetry

import (
	"sync"
	"time"
)

// MemoryRepository keeps events in memory. Stats are best-effort and reset
// with the process; the task files remain the only durable state.
type MemoryRepository struct {
	mu     sync.RWMutex
	events []Event
	nextID int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		events: make([]Event, 0),
		nextID: 1,
	}
}

func (r *MemoryRepository) Record(eventType EventType, taskID, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, Event{
		ID:        r.nextID,
		Type:      eventType,
		Timestamp: time.Now(),
		TaskID:    taskID,
		Detail:    detail,
	})
	r.nextID++
}

func (r *MemoryRepository) Events(since time.Time) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Event, 0, len(r.events))
	for _, e := range r.events {
		if e.Timestamp.Before(since) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (r *MemoryRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = make([]Event, 0)
	r.nextID = 1
}
