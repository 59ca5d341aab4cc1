// internal/store/store_test.go
package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snehalata/aura-backend/internal/models"
)

var fixedTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestStore(backend Backend) *Store {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	seq := 0
	return New(backend, Config{
		Now: func() time.Time { return fixedTime },
		NewOrderID: func() string {
			seq++
			return []string{"ORD-1001", "ORD-1002", "ORD-1003"}[seq-1]
		},
	})
}

func saree() models.Product {
	return models.Product{
		ID:       1,
		Name:     "Jamdani Saree",
		Price:    4500,
		ImageURL: "https://cdn.example/saree.jpg",
		Category: "Saree",
	}
}

func panjabi() models.Product {
	return models.Product{
		ID:       2,
		Name:     "Muslin Panjabi",
		Price:    2200,
		Category: "Panjabi",
	}
}

func TestAddToCartSnapshotsProduct(t *testing.T) {
	s := newTestStore(nil)

	cart, err := s.AddToCart("alice", saree(), 1)
	require.NoError(t, err)
	require.Len(t, cart, 1)

	item := cart[0]
	assert.Equal(t, int64(1), item.ProductID)
	assert.Equal(t, "Jamdani Saree", item.Name)
	assert.Equal(t, 4500.0, item.Price)
	assert.Equal(t, "Saree", item.Category)
	assert.Equal(t, 1, item.Quantity)
}

func TestAddToCartMergesByProductID(t *testing.T) {
	s := newTestStore(nil)

	_, err := s.AddToCart("alice", saree(), 1)
	require.NoError(t, err)
	cart, err := s.AddToCart("alice", saree(), 2)
	require.NoError(t, err)

	require.Len(t, cart, 1)
	assert.Equal(t, 3, cart[0].Quantity)
}

func TestAddToCartRejectsNonPositiveQuantity(t *testing.T) {
	s := newTestStore(nil)

	_, err := s.AddToCart("alice", saree(), 0)
	assert.ErrorIs(t, err, ErrBadQuantity)

	_, err = s.AddToCart("alice", saree(), -2)
	assert.ErrorIs(t, err, ErrBadQuantity)
}

func TestUpdateQuantityClampsAtOne(t *testing.T) {
	s := newTestStore(nil)

	_, err := s.AddToCart("alice", saree(), 2)
	require.NoError(t, err)

	cart, err := s.UpdateQuantity("alice", 1, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, cart[0].Quantity)

	// The item survives a reduce-to-zero; only RemoveFromCart deletes.
	cart, err = s.UpdateQuantity("alice", 1, -1)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)
}

func TestUpdateQuantityAbsentProductIsSilentNoop(t *testing.T) {
	s := newTestStore(nil)

	var notified int
	s.Notifier().Subscribe(SignalCartChanged, func() { notified++ })

	cart, err := s.UpdateQuantity("alice", 99, 3)
	require.NoError(t, err)
	assert.Empty(t, cart)
	assert.Zero(t, notified)
}

func TestRemoveFromCart(t *testing.T) {
	s := newTestStore(nil)

	_, err := s.AddToCart("alice", saree(), 1)
	require.NoError(t, err)
	_, err = s.AddToCart("alice", panjabi(), 1)
	require.NoError(t, err)

	cart, err := s.RemoveFromCart("alice", 1)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, int64(2), cart[0].ProductID)
}

func TestCheckoutRequiresItems(t *testing.T) {
	s := newTestStore(nil)

	_, err := s.Checkout("alice", "Alice", nil, PaymentConfirmation{Method: models.PaymentMethodBkash})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutProducesOrderAndClearsCart(t *testing.T) {
	s := newTestStore(nil)

	_, err := s.AddToCart("alice", saree(), 2)
	require.NoError(t, err)
	cart, err := s.AddToCart("alice", panjabi(), 1)
	require.NoError(t, err)

	order, err := s.Checkout("alice", "Alice Rahman", cart, PaymentConfirmation{
		Method:    models.PaymentMethodBkash,
		Reference: "AURA-TEST",
	})
	require.NoError(t, err)

	assert.Equal(t, "ORD-1001", order.ID)
	assert.Equal(t, "alice", order.CustomerID)
	assert.Equal(t, "Alice Rahman", order.CustomerName)
	// 2*4500 + 2200 + flat 120 shipping
	assert.Equal(t, 11320.0, order.TotalAmount)
	assert.Equal(t, models.OrderStatusPlaced, order.CurrentStatus)
	assert.Equal(t, "৩-৫ কার্যদিবস", order.EstimatedDelivery)
	assert.Len(t, order.Items, 2)

	assert.Empty(t, s.ReadCart("alice"))

	orders := s.ReadOrders()
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-1001", orders[0].ID)
}

func TestCheckoutTimelineShape(t *testing.T) {
	s := newTestStore(nil)

	cart, err := s.AddToCart("alice", saree(), 1)
	require.NoError(t, err)
	order, err := s.Checkout("alice", "Alice", cart, PaymentConfirmation{Method: models.PaymentMethodCard})
	require.NoError(t, err)

	require.Len(t, order.Timeline, 5)

	labels := make([]string, 0, 5)
	for _, step := range order.Timeline {
		labels = append(labels, step.Label)
	}
	assert.Equal(t, []string{
		"অর্ডার প্লেস করা হয়েছে",
		"ভেন্ডর কনফার্মেশন",
		"Aura কোয়ালিটি চেক",
		"শিপিং",
		"ডেলিভারি সম্পন্ন",
	}, labels)

	assert.True(t, order.Timeline[0].Completed)
	for _, step := range order.Timeline[1:] {
		assert.False(t, step.Completed)
		assert.Equal(t, "-", step.Timestamp)
	}
}

func TestCheckoutPersistsBeforeNotifying(t *testing.T) {
	s := newTestStore(nil)

	cart, err := s.AddToCart("alice", saree(), 1)
	require.NoError(t, err)

	// Listeners re-read through the store; state must already hold the
	// mutation when they fire.
	var sawOrders int
	var sawEmptyCart bool
	s.Notifier().Subscribe(SignalOrderChanged, func() {
		sawOrders = len(s.ReadOrders())
	})
	s.Notifier().Subscribe(SignalCartChanged, func() {
		sawEmptyCart = len(s.ReadCart("alice")) == 0
	})

	_, err = s.Checkout("alice", "Alice", cart, PaymentConfirmation{Method: models.PaymentMethodNagad})
	require.NoError(t, err)

	assert.Equal(t, 1, sawOrders)
	assert.True(t, sawEmptyCart)
}

func TestNotificationsDeliverInRegistrationOrder(t *testing.T) {
	s := newTestStore(nil)

	var order []string
	s.Notifier().Subscribe(SignalCartChanged, func() { order = append(order, "first") })
	cancel := s.Notifier().Subscribe(SignalCartChanged, func() { order = append(order, "second") })

	_, err := s.AddToCart("alice", saree(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)

	cancel()
	order = nil
	_, err = s.AddToCart("alice", saree(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, order)
}

func TestCartsAreIsolatedPerCustomer(t *testing.T) {
	s := newTestStore(nil)

	_, err := s.AddToCart("alice", saree(), 1)
	require.NoError(t, err)

	assert.Empty(t, s.ReadCart("bob"))
	assert.Len(t, s.ReadCart("alice"), 1)
}

func TestCorruptCartBlobDegradesToEmpty(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, backend.Put("cart:alice", []byte("{not json")))

	s := newTestStore(backend)

	assert.Empty(t, s.ReadCart("alice"))
	assert.Equal(t, uint64(1), s.CorruptReads())

	// A fresh write recovers the key.
	cart, err := s.AddToCart("alice", saree(), 1)
	require.NoError(t, err)
	assert.Len(t, cart, 1)
}

func TestCorruptOrderLogDegradesToEmpty(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, backend.Put("orders", []byte("[[[")))

	s := newTestStore(backend)

	assert.Empty(t, s.ReadOrders())
	assert.Equal(t, uint64(1), s.CorruptReads())
}

func TestStateSurvivesRestart(t *testing.T) {
	backend := NewMemoryBackend()

	first := newTestStore(backend)
	_, err := first.AddToCart("alice", saree(), 2)
	require.NoError(t, err)

	second := newTestStore(backend)
	cart := second.ReadCart("alice")
	require.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Quantity)
}

func TestAdvanceOrderWalksProgression(t *testing.T) {
	s := newTestStore(nil)

	cart, err := s.AddToCart("alice", saree(), 1)
	require.NoError(t, err)
	placed, err := s.Checkout("alice", "Alice", cart, PaymentConfirmation{Method: models.PaymentMethodCard})
	require.NoError(t, err)

	order, err := s.AdvanceOrder(placed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, order.CurrentStatus)
	assert.True(t, order.Timeline[1].Completed)
	assert.False(t, order.Timeline[2].Completed)

	for i := 0; i < 3; i++ {
		order, err = s.AdvanceOrder(placed.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, models.OrderStatusDelivered, order.CurrentStatus)
	for _, step := range order.Timeline {
		assert.True(t, step.Completed)
	}

	// Delivered is terminal.
	order, err = s.AdvanceOrder(placed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, order.CurrentStatus)
}

func TestCheckoutRejectsStaleCartSnapshot(t *testing.T) {
	s := newTestStore(nil)

	charged, err := s.AddToCart("alice", saree(), 1)
	require.NoError(t, err)

	// Another add lands while the payment settles; the snapshot the
	// customer was charged against no longer matches what is persisted.
	_, err = s.AddToCart("alice", panjabi(), 1)
	require.NoError(t, err)

	_, err = s.Checkout("alice", "Alice", charged, PaymentConfirmation{Method: models.PaymentMethodBkash})
	assert.ErrorIs(t, err, ErrCartChanged)
	assert.Empty(t, s.ReadOrders())

	// The cart is untouched and a checkout against the current state
	// goes through with the matching total.
	current := s.ReadCart("alice")
	require.Len(t, current, 2)
	order, err := s.Checkout("alice", "Alice", current, PaymentConfirmation{Method: models.PaymentMethodBkash})
	require.NoError(t, err)
	assert.Equal(t, current.Subtotal()+s.ShippingFee(), order.TotalAmount)
}

func TestReadOrdersForFiltersByCustomer(t *testing.T) {
	s := newTestStore(nil)

	cart, err := s.AddToCart("alice", saree(), 1)
	require.NoError(t, err)
	_, err = s.Checkout("alice", "Alice", cart, PaymentConfirmation{Method: models.PaymentMethodCard})
	require.NoError(t, err)

	cart, err = s.AddToCart("bob", panjabi(), 1)
	require.NoError(t, err)
	bobOrder, err := s.Checkout("bob", "Bob", cart, PaymentConfirmation{Method: models.PaymentMethodCard})
	require.NoError(t, err)

	aliceOrders := s.ReadOrdersFor("alice")
	require.Len(t, aliceOrders, 1)
	assert.Equal(t, "alice", aliceOrders[0].CustomerID)

	bobOrders := s.ReadOrdersFor("bob")
	require.Len(t, bobOrders, 1)
	assert.Equal(t, bobOrder.ID, bobOrders[0].ID)

	assert.Empty(t, s.ReadOrdersFor("mallory"))
	assert.Len(t, s.ReadOrders(), 2)
}

func TestAdvanceOrderUnknownID(t *testing.T) {
	s := newTestStore(nil)

	_, err := s.AdvanceOrder("ORD-9999")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestReadOrderByID(t *testing.T) {
	s := newTestStore(nil)

	cart, err := s.AddToCart("alice", saree(), 1)
	require.NoError(t, err)
	placed, err := s.Checkout("alice", "Alice", cart, PaymentConfirmation{Method: models.PaymentMethodCard})
	require.NoError(t, err)

	order, err := s.ReadOrder(placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, order.ID)

	_, err = s.ReadOrder("ORD-0000")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
