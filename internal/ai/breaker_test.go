// internal/ai/breaker_test.go
package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func TestBreakerStartsClosed(t *testing.T) {
	b := NewBreaker(time.Minute, &fakeClock{now: time.Unix(0, 0)})
	assert.True(t, b.Allow())
}

func TestBreakerOpensForCooldownWindow(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	b := NewBreaker(time.Minute, clock)

	b.Trip()
	assert.False(t, b.Allow())

	clock.advance(59 * time.Second)
	assert.False(t, b.Allow())

	clock.advance(time.Second)
	assert.True(t, b.Allow())
}

func TestTripWhileOpenDoesNotExtendWindow(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	b := NewBreaker(time.Minute, clock)

	b.Trip()
	clock.advance(30 * time.Second)
	b.Trip() // still open; must not push the deadline out

	clock.advance(30 * time.Second)
	assert.True(t, b.Allow())
}

func TestBreakerReopensAfterNewTrip(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	b := NewBreaker(time.Minute, clock)

	b.Trip()
	clock.advance(61 * time.Second)
	assert.True(t, b.Allow())

	b.Trip()
	assert.False(t, b.Allow())
}

func TestBreakerState(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	b := NewBreaker(time.Minute, clock)

	open, _ := b.State()
	assert.False(t, open)

	b.Trip()
	open, until := b.State()
	assert.True(t, open)
	assert.Equal(t, clock.now.Add(time.Minute), until)
}
