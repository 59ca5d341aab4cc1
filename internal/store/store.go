// internal/store/store.go
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/snehalata/aura-backend/internal/models"
)

const (
	cartKeyPrefix = "cart:"
	ordersKey     = "orders"

	defaultShippingFee       = 120
	defaultEstimatedDelivery = "৩-৫ কার্যদিবস"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrBadQuantity   = errors.New("quantity must be at least 1")
	ErrCartChanged   = errors.New("cart changed during checkout")
)

// PaymentConfirmation is the proof of payment Checkout requires. The
// store does not talk to payment rails itself; the payment service
// hands this over once a charge has settled.
type PaymentConfirmation struct {
	Method    models.PaymentMethod `json:"method"`
	Reference string               `json:"reference"`
}

// Config tunes the store. Zero values pick sane defaults; Now and
// NewOrderID exist so tests can pin time and identity.
type Config struct {
	ShippingFee       float64
	EstimatedDelivery string
	Now               func() time.Time
	NewOrderID        func() string
}

// Store is the single owner of the persisted cart and order log. All
// mutation flows through it: each operation is one read-modify-write
// of the full blob followed by a change broadcast, and persistence
// happens before notification so listeners always observe the new
// state.
type Store struct {
	backend   Backend
	notify    *Broadcaster
	log       *logrus.Entry
	mtx       sync.Mutex
	corrupted atomic.Uint64

	shippingFee       float64
	estimatedDelivery string
	now               func() time.Time
	newOrderID        func() string
}

func New(backend Backend, cfg Config) *Store {
	if cfg.ShippingFee == 0 {
		cfg.ShippingFee = defaultShippingFee
	}
	if cfg.EstimatedDelivery == "" {
		cfg.EstimatedDelivery = defaultEstimatedDelivery
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewOrderID == nil {
		cfg.NewOrderID = func() string {
			return fmt.Sprintf("ORD-%d", 1000+rand.Intn(9000))
		}
	}

	return &Store{
		backend:           backend,
		notify:            NewBroadcaster(),
		log:               logrus.WithField("component", "commerce_store"),
		shippingFee:       cfg.ShippingFee,
		estimatedDelivery: cfg.EstimatedDelivery,
		now:               cfg.Now,
		newOrderID:        cfg.NewOrderID,
	}
}

// Notifier exposes the change-signal registry.
func (s *Store) Notifier() *Broadcaster {
	return s.notify
}

// ShippingFee is the flat fee applied to every non-empty checkout.
func (s *Store) ShippingFee() float64 {
	return s.shippingFee
}

// CorruptReads counts blobs that failed to deserialize and were
// degraded to empty. A non-zero value means data was lost, which the
// API cannot otherwise distinguish from a legitimately empty state.
func (s *Store) CorruptReads() uint64 {
	return s.corrupted.Load()
}

// ReadCart returns the customer's cart. Absence and corruption both
// read as an empty cart; corruption is logged and counted.
func (s *Store) ReadCart(customerID string) models.Cart {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.readCart(customerID)
}

// AddToCart appends a line item snapshotting the product's fields, or
// increments the quantity when the product is already present.
func (s *Store) AddToCart(customerID string, product models.Product, quantity int) (models.Cart, error) {
	if quantity < 1 {
		return nil, ErrBadQuantity
	}

	s.mtx.Lock()
	cart := s.readCart(customerID)
	if i := cart.Find(product.ID); i >= 0 {
		cart[i].Quantity += quantity
	} else {
		cart = append(cart, models.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
			Category:  product.Category,
			Quantity:  quantity,
		})
	}

	if err := s.writeCart(customerID, cart); err != nil {
		s.mtx.Unlock()
		return nil, err
	}
	s.mtx.Unlock()

	s.notify.Emit(SignalCartChanged)
	return cart, nil
}

// UpdateQuantity adds delta to the matching line item's quantity,
// clamped to a floor of 1. Reducing to zero never removes the item;
// that is RemoveFromCart's job. Absent products are a no-op.
func (s *Store) UpdateQuantity(customerID string, productID int64, delta int) (models.Cart, error) {
	s.mtx.Lock()
	cart := s.readCart(customerID)
	i := cart.Find(productID)
	if i < 0 {
		s.mtx.Unlock()
		return cart, nil
	}

	quantity := cart[i].Quantity + delta
	if quantity < 1 {
		quantity = 1
	}
	cart[i].Quantity = quantity

	if err := s.writeCart(customerID, cart); err != nil {
		s.mtx.Unlock()
		return nil, err
	}
	s.mtx.Unlock()

	s.notify.Emit(SignalCartChanged)
	return cart, nil
}

// RemoveFromCart deletes the matching line item entirely.
func (s *Store) RemoveFromCart(customerID string, productID int64) (models.Cart, error) {
	s.mtx.Lock()
	cart := s.readCart(customerID)
	i := cart.Find(productID)
	if i < 0 {
		s.mtx.Unlock()
		return cart, nil
	}
	cart = append(cart[:i], cart[i+1:]...)

	if err := s.writeCart(customerID, cart); err != nil {
		s.mtx.Unlock()
		return nil, err
	}
	s.mtx.Unlock()

	s.notify.Emit(SignalCartChanged)
	return cart, nil
}

// Checkout is the sole transition that produces an order: it freezes
// the cart's items into a new order with a five-step timeline (only
// the first step completed), clears the cart, appends the order to the
// log, persists both, and emits cart-changed and order-changed.
//
// The caller passes the cart snapshot the payment settled against.
// Payments suspend (gateway round trips, the simulated wallet delay),
// so the persisted cart may have moved underneath them; if it no
// longer matches the snapshot the checkout is rejected with
// ErrCartChanged rather than recording an order whose total differs
// from what was charged.
func (s *Store) Checkout(customerID, customerName string, cart models.Cart, confirmation PaymentConfirmation) (*models.Order, error) {
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	s.mtx.Lock()
	if !cartsEqual(s.readCart(customerID), cart) {
		s.mtx.Unlock()
		return nil, ErrCartChanged
	}

	now := s.now()
	items := make([]models.LineItem, len(cart))
	copy(items, cart)

	order := models.Order{
		ID:                s.newOrderID(),
		CustomerID:        customerID,
		CustomerName:      customerName,
		TotalAmount:       cart.Subtotal() + s.shippingFee,
		Items:             items,
		CurrentStatus:     models.OrderStatusPlaced,
		EstimatedDelivery: s.estimatedDelivery,
		Timeline:          newTimeline(now),
		PlacedAt:          now.Format(time.RFC3339),
	}

	orders := s.readOrders()
	orders = append(orders, order)
	if err := s.writeOrders(orders); err != nil {
		s.mtx.Unlock()
		return nil, err
	}
	if err := s.writeCart(customerID, models.Cart{}); err != nil {
		s.mtx.Unlock()
		return nil, err
	}
	s.mtx.Unlock()

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"total":    order.TotalAmount,
		"method":   confirmation.Method,
	}).Info("Checkout completed")

	s.notify.Emit(SignalCartChanged)
	s.notify.Emit(SignalOrderChanged)
	return &order, nil
}

// ReadOrders returns the full order log, oldest first.
func (s *Store) ReadOrders() []models.Order {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.readOrders()
}

// ReadOrdersFor returns the customer's slice of the order log. The log
// itself stays a single append-only key; scoping happens on read.
func (s *Store) ReadOrdersFor(customerID string) []models.Order {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	var orders []models.Order
	for _, order := range s.readOrders() {
		if order.CustomerID == customerID {
			orders = append(orders, order)
		}
	}
	return orders
}

// ReadOrder looks up one order by id.
func (s *Store) ReadOrder(id string) (*models.Order, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	for _, order := range s.readOrders() {
		if order.ID == id {
			return &order, nil
		}
	}
	return nil, ErrOrderNotFound
}

// AdvanceOrder moves the order to the next status in the canonical
// progression and completes timeline steps monotonically: a step is
// completed only when every earlier step is. Already-delivered orders
// are left untouched.
func (s *Store) AdvanceOrder(id string) (*models.Order, error) {
	s.mtx.Lock()
	orders := s.readOrders()
	idx := -1
	for i := range orders {
		if orders[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mtx.Unlock()
		return nil, ErrOrderNotFound
	}

	order := &orders[idx]
	pos := statusPosition(order.CurrentStatus)
	if pos+1 < len(models.OrderStatusProgression) {
		order.CurrentStatus = models.OrderStatusProgression[pos+1]
		now := s.now().Format("2006-01-02 15:04:05")
		for i := range order.Timeline {
			if statusPosition(order.Timeline[i].Status) <= pos+1 && !order.Timeline[i].Completed {
				order.Timeline[i].Completed = true
				order.Timeline[i].Timestamp = now
			}
		}
	}

	advanced := *order
	if err := s.writeOrders(orders); err != nil {
		s.mtx.Unlock()
		return nil, err
	}
	s.mtx.Unlock()

	s.notify.Emit(SignalOrderChanged)
	return &advanced, nil
}

// internal read/write helpers; callers hold s.mtx.

func (s *Store) readCart(customerID string) models.Cart {
	raw, err := s.backend.Get(cartKeyPrefix + customerID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.WithError(err).Warn("Cart read failed, treating as empty")
		}
		return models.Cart{}
	}

	var cart models.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		s.corrupted.Add(1)
		s.log.WithError(err).WithField("customer_id", customerID).
			Warn("Cart blob corrupted, degrading to empty")
		return models.Cart{}
	}
	return cart
}

func (s *Store) writeCart(customerID string, cart models.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}
	return s.backend.Put(cartKeyPrefix+customerID, raw)
}

func (s *Store) readOrders() []models.Order {
	raw, err := s.backend.Get(ordersKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.WithError(err).Warn("Order log read failed, treating as empty")
		}
		return nil
	}

	var orders []models.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		s.corrupted.Add(1)
		s.log.WithError(err).Warn("Order log corrupted, degrading to empty")
		return nil
	}
	return orders
}

func (s *Store) writeOrders(orders []models.Order) error {
	raw, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("failed to serialize order log: %w", err)
	}
	return s.backend.Put(ordersKey, raw)
}

// cartsEqual compares carts by product id and quantity, the identity
// the persistence round-trip guarantees.
func cartsEqual(a, b models.Cart) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ProductID != b[i].ProductID || a[i].Quantity != b[i].Quantity {
			return false
		}
	}
	return true
}

func statusPosition(status models.OrderStatus) int {
	for i, st := range models.OrderStatusProgression {
		if st == status {
			return i
		}
	}
	return 0
}

func newTimeline(now time.Time) []models.TimelineStep {
	return []models.TimelineStep{
		{
			Status:      models.OrderStatusPlaced,
			Label:       "অর্ডার প্লেস করা হয়েছে",
			Timestamp:   now.Format("2006-01-02 15:04:05"),
			Completed:   true,
			Description: "পেমেন্ট সফলভাবে সম্পন্ন হয়েছে।",
		},
		{
			Status:      models.OrderStatusConfirmed,
			Label:       "ভেন্ডর কনফার্মেশন",
			Timestamp:   "-",
			Completed:   false,
			Description: "Waiting for vendor approval",
		},
		{
			Status:      models.OrderStatusQualityCheck,
			Label:       "Aura কোয়ালিটি চেক",
			Timestamp:   "-",
			Completed:   false,
			Description: "Pending AI Audit",
		},
		{
			Status:      models.OrderStatusShipped,
			Label:       "শিপিং",
			Timestamp:   "-",
			Completed:   false,
			Description: "Pending Courier",
		},
		{
			Status:      models.OrderStatusDelivered,
			Label:       "ডেলিভারি সম্পন্ন",
			Timestamp:   "-",
			Completed:   false,
			Description: "Pending Arrival",
		},
	}
}
