// internal/ai/breaker.go
package ai

import (
	"sync"
	"time"
)

// Clock abstracts time so the breaker can be tested without timers.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Breaker is the gateway's cooldown circuit breaker. A rate-limit
// class failure trips it for a fixed window; while tripped, every
// gateway operation short-circuits to its fallback without touching
// the network. The window is global, not per operation.
type Breaker struct {
	mtx      sync.Mutex
	clock    Clock
	cooldown time.Duration
	until    time.Time
}

func NewBreaker(cooldown time.Duration, clock Clock) *Breaker {
	if clock == nil {
		clock = SystemClock
	}
	return &Breaker{clock: clock, cooldown: cooldown}
}

// Allow reports whether calls may go out. The breaker re-closes by
// itself once the cooldown window has elapsed.
func (b *Breaker) Allow() bool {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return !b.clock.Now().Before(b.until)
}

// Trip arms the cooldown window. Tripping an already-open breaker does
// not extend the window, matching the source behavior.
func (b *Breaker) Trip() {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	now := b.clock.Now()
	if now.Before(b.until) {
		return
	}
	b.until = now.Add(b.cooldown)
}

// State returns whether the breaker is open and until when.
func (b *Breaker) State() (bool, time.Time) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.clock.Now().Before(b.until), b.until
}
