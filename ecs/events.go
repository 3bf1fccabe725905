package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// DrainType removes and returns the events of one type, keeping the rest in
// order.
func (q *EventQueue) DrainType(typ string) []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	var out []Event
	kept := q.items[:0]
	for _, evt := range q.items {
		if evt.Type == typ {
			out = append(out, evt)
			continue
		}
		kept = append(kept, evt)
	}
	q.items = kept
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
