package notify

import (
	"sync"
	"time"
)

// EventType identifies what an Event is about.
type EventType string

const (
	// EventFixtureSetChanged is published whenever a fixture file is written,
	// replaced or activated.
	EventFixtureSetChanged EventType = "fixture_set_changed"
	// EventLogLine carries one line of subprocess output.
	EventLogLine EventType = "log_line"
	// EventStateChanged is published on every run state transition.
	EventStateChanged EventType = "state_changed"
	// EventRunCompleted is published once per run with its terminal state.
	EventRunCompleted EventType = "run_completed"
)

// Event is a notification published on a Bus.
type Event struct {
	Type  EventType
	RunID string
	State string
	Line  string
	File  string
	When  time.Time
}

// Publisher accepts events.
type Publisher interface {
	Publish(Event)
}

// Bus fans events out to subscribers. Delivery is synchronous, in
// registration order, and in publication order for any single publisher.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscriber
}

type subscriber struct {
	id int
	fn func(Event)
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscriber{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers e to every subscriber.
func (b *Bus) Publish(e Event) {
	if e.When.IsZero() {
		e.When = time.Now()
	}

	b.mu.RLock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn(e)
	}
}

// Discard is a Publisher that drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}
