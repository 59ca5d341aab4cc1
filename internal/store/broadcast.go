// internal/store/broadcast.go
package store

import "sync"

// Named change signals. Deliveries carry no payload; listeners re-read
// the entity through the store.
const (
	SignalCartChanged  = "cart.changed"
	SignalOrderChanged = "order.changed"
)

// Broadcaster is the store's change-notification registry. Listeners
// are invoked synchronously, in registration order, after the mutation
// that triggered them has been persisted.
type Broadcaster struct {
	mtx       sync.Mutex
	nextID    int
	listeners map[string][]listener
}

type listener struct {
	id int
	fn func()
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{listeners: make(map[string][]listener)}
}

// Subscribe registers fn for the named signal and returns a cancel
// function.
func (b *Broadcaster) Subscribe(signal string, fn func()) func() {
	b.mtx.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[signal] = append(b.listeners[signal], listener{id: id, fn: fn})
	b.mtx.Unlock()

	return func() {
		b.mtx.Lock()
		defer b.mtx.Unlock()
		subs := b.listeners[signal]
		for i, l := range subs {
			if l.id == id {
				b.listeners[signal] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers the signal to every current listener.
func (b *Broadcaster) Emit(signal string) {
	b.mtx.Lock()
	subs := make([]listener, len(b.listeners[signal]))
	copy(subs, b.listeners[signal])
	b.mtx.Unlock()

	for _, l := range subs {
		l.fn()
	}
}
