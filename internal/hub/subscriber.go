package hub

import (
	"github.com/google/uuid"
)

// Subscriber is one live-feed consumer. The transport layer drains Events
// until the channel is closed, which happens when the subscriber is
// unsubscribed or evicted.
type Subscriber struct {
	ID     string
	hub    *Hub
	events chan Event
}

func newSubscriber(h *Hub, buffer int) *Subscriber {
	return &Subscriber{
		ID:     uuid.New().String(),
		hub:    h,
		events: make(chan Event, buffer),
	}
}

// Events returns the subscriber's delivery queue. The channel is closed
// on unsubscribe.
func (s *Subscriber) Events() <-chan Event {
	return s.events
}

// Close removes the subscriber from its hub.
func (s *Subscriber) Close() {
	s.hub.Unsubscribe(s)
}
