package camera

import "sync"

// EventType identifies camera notifications.
type EventType string

const (
	EventReset                       EventType = "reset"
	EventBoundariesTransitionStarted EventType = "boundaries_transition_started"
	EventBoundariesTransitionEnded   EventType = "boundaries_transition_ended"
	EventTargetRemoved               EventType = "target_removed"
)

// Event is a camera notification payload.
type Event struct {
	Type EventType
	Data any
}

// EventQueue is a FIFO queue the host drains once per frame. Pushes may come
// from any goroutine that removes targets.
type EventQueue struct {
	mu    sync.Mutex
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, evt)
	q.mu.Unlock()
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
