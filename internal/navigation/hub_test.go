// internal/navigation/hub_test.go
package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHubDeliversInRegistrationOrder(t *testing.T) {
	hub := NewHub()

	var order []string
	hub.Subscribe(func(loc string) { order = append(order, "first:"+loc) })
	hub.Subscribe(func(loc string) { order = append(order, "second:"+loc) })

	hub.Set("/cart")

	assert.Equal(t, []string{"first:/cart", "second:/cart"}, order)
	assert.Equal(t, "/cart", hub.Current())
}

func TestHubCancelStopsDelivery(t *testing.T) {
	hub := NewHub()

	var calls int
	cancel := hub.Subscribe(func(string) { calls++ })

	hub.Set("/orders")
	cancel()
	hub.Set("/legal")

	assert.Equal(t, 1, calls)
}

func TestHubEmptyLocationNormalizesToRoot(t *testing.T) {
	hub := NewHub()

	hub.Set("/cart")
	hub.Set("")

	assert.Equal(t, "/", hub.Current())
}

func TestHubStartsAtRoot(t *testing.T) {
	assert.Equal(t, "/", NewHub().Current())
}
