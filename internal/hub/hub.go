// Package hub fans events out to every connected live-feed subscriber.
// Payloads are marshalled once by the publisher; the hub only moves bytes.
package hub

import (
	"sync"

	"github.com/remiriasukaretto/tokumei/pkg/log"
)

// Event is one unit of fan-out: a kind tag plus the JSON payload bytes.
type Event struct {
	Kind string
	Data []byte
}

// Hub maintains the subscriber registry. Publish never blocks: each
// subscriber has a bounded queue, and a subscriber whose queue is full is
// evicted instead of stalling delivery to the others.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscriber
	buffer      int
}

// NewHub creates a hub whose subscribers buffer up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 256
	}
	return &Hub{
		subscribers: make(map[string]*Subscriber),
		buffer:      buffer,
	}
}

// Subscribe registers a new subscriber and returns it. Events published
// after Subscribe returns are guaranteed to reach the subscriber's queue;
// events published before it are not, so callers that need history must
// build a backlog within the same critical section as this call.
func (h *Hub) Subscribe() *Subscriber {
	sub := newSubscriber(h, h.buffer)

	h.mu.Lock()
	h.subscribers[sub.ID] = sub
	h.mu.Unlock()

	l := log.L()
	l.Debug().Str(log.FieldSubscriberID, sub.ID).Msg("subscriber registered")
	return sub
}

// Unsubscribe removes the subscriber and closes its queue. It is safe to
// call concurrently with Publish and more than once per subscriber.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if _, ok := h.subscribers[sub.ID]; ok {
		delete(h.subscribers, sub.ID)
		close(sub.events)
	}
	h.mu.Unlock()

	l := log.L()
	l.Debug().Str(log.FieldSubscriberID, sub.ID).Msg("subscriber unregistered")
}

// Publish queues the event for every current subscriber. Subscribers that
// cannot keep up are evicted; their transport notices the closed queue and
// tears the connection down.
func (h *Hub) Publish(evt Event) {
	h.mu.RLock()
	for _, sub := range h.subscribers {
		select {
		case sub.events <- evt:
		default:
			l := log.L()
			l.Warn().Str(log.FieldSubscriberID, sub.ID).Str(log.FieldEventKind, evt.Kind).Msg("subscriber queue full, evicting")
			go h.Unsubscribe(sub)
		}
	}
	h.mu.RUnlock()
}

// Count returns the number of registered subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
