// internal/navigation/hub.go
package navigation

import "sync"

// Hub is the location source. External navigation pushes new locations
// through Set; subscribers are notified synchronously, in registration
// order, once per change. Changes are never coalesced.
type Hub struct {
	mtx         sync.Mutex
	location    string
	nextID      int
	subscribers []hubSubscriber
}

type hubSubscriber struct {
	id int
	fn func(location string)
}

// NewHub starts at the root location.
func NewHub() *Hub {
	return &Hub{location: "/"}
}

// Current returns the current location.
func (h *Hub) Current() string {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.location
}

// Subscribe registers a callback for location changes and returns a
// cancel function. Callbacks run synchronously inside Set.
func (h *Hub) Subscribe(fn func(location string)) func() {
	h.mtx.Lock()
	id := h.nextID
	h.nextID++
	h.subscribers = append(h.subscribers, hubSubscriber{id: id, fn: fn})
	h.mtx.Unlock()

	return func() {
		h.mtx.Lock()
		defer h.mtx.Unlock()
		for i, s := range h.subscribers {
			if s.id == id {
				h.subscribers = append(h.subscribers[:i], h.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Set records a new location and delivers it to every subscriber. The
// empty location normalizes to "/", mirroring an empty address
// fragment.
func (h *Hub) Set(location string) {
	if location == "" {
		location = "/"
	}

	h.mtx.Lock()
	h.location = location
	subs := make([]hubSubscriber, len(h.subscribers))
	copy(subs, h.subscribers)
	h.mtx.Unlock()

	for _, s := range subs {
		s.fn(location)
	}
}
