// Package events fans object lifecycle events out to live subscribers.
//
// The object service publishes an event for every upload and delete made
// through the API. When enabled, a Watcher also reports files created or
// removed in the files directory by anything other than the API. Events are
// delivered best-effort: a subscriber whose buffer is full misses events
// instead of slowing the publisher down.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type names what happened to an object.
type Type string

const (
	TypeUploaded Type = "uploaded" // stored through the API
	TypeDeleted  Type = "deleted"  // deleted through the API
	TypeCreated  Type = "created"  // appeared in the files directory
	TypeRemoved  Type = "removed"  // disappeared from the files directory
)

// Source names who observed the event.
type Source string

const (
	SourceAPI Source = "api"
	SourceFS  Source = "fs"
)

// Event is one change to one object.
type Event struct {
	Type   Type      `json:"type"`
	Key    string    `json:"key"`
	Source Source    `json:"source"`
	Time   time.Time `json:"time"`
}

// Publisher is what producers need from a Hub.
type Publisher interface {
	Publish(e Event) int
}

// Hub is a broadcast point. It is safe for concurrent use.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]chan Event
	buffer int
	closed bool
}

// NewHub returns a Hub whose subscribers buffer up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{subs: make(map[string]chan Event), buffer: buffer}
}

// Subscription is one subscriber's view of a Hub. C is closed when the
// subscription or the hub is closed.
type Subscription struct {
	ID  string
	C   <-chan Event
	hub *Hub
}

// Subscribe registers a new subscriber. Subscribing to a closed hub returns
// a subscription whose channel is already closed.
func (h *Hub) Subscribe() *Subscription {
	ch := make(chan Event, h.buffer)
	id := uuid.NewString()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
	} else {
		h.subs[id] = ch
	}
	return &Subscription{ID: id, C: ch, hub: h}
}

// Close unregisters the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.hub.unsubscribe(s.ID)
}

func (h *Hub) unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Publish delivers e to every subscriber with room in its buffer and
// returns how many received it. A zero Time is set to now.
func (h *Hub) Publish(e Event) int {
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, ch := range h.subs {
		select {
		case ch <- e:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers returns the current number of subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close closes every subscription and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
