// Package monitor fans live call activity out to dashboard clients. The hub
// carries observability traffic only; no conversational state lives here, so
// losing an event or a subscriber never affects a call.
package monitor

import (
	"sync"
	"time"
)

// Event is one spoken line on a live call.
type Event struct {
	CallSID string    `json:"call_sid"`
	Caller  string    `json:"caller,omitempty"`
	Turn    int       `json:"turn"`
	Role    string    `json:"role"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

const subscriberBuffer = 32

// Hub broadcasts events to all current subscribers.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a listener. The returned cancel func must be called
// when the listener goes away; the channel is closed by cancel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber that has room. Slow
// subscribers are skipped, never waited on: the webhook path cannot block on
// a dashboard.
func (h *Hub) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// SubscriberCount reports the number of attached listeners.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
