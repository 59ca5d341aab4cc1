// internal/models/order.go
package models

// Cart and order records live inside state blobs owned by the commerce
// store (see internal/store), so these are plain JSON structs rather
// than gorm tables. The whole blob is rewritten on every mutation.

// LineItem is one cart entry. Product fields are snapshotted at the
// time of adding; product identity is unique within a cart.
type LineItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
}

// Cart is the ordered pre-checkout collection of line items.
type Cart []LineItem

// Find returns the index of the line item for productID, or -1.
func (c Cart) Find(productID int64) int {
	for i, item := range c {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// Subtotal is the sum of price*quantity over all line items.
func (c Cart) Subtotal() float64 {
	var total float64
	for _, item := range c {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// TimelineStep is one entry of an order's status progression. A step
// may only be completed if every earlier step is completed.
type TimelineStep struct {
	Status      OrderStatus `json:"status"`
	Label       string      `json:"label"`
	Timestamp   string      `json:"timestamp"`
	Completed   bool        `json:"completed"`
	Description string      `json:"description"`
}

// Order is immutable after creation except for status/timeline
// advancement, which is performed by the store.
type Order struct {
	ID                string         `json:"id"`
	CustomerID        string         `json:"customer_id"`
	CustomerName      string         `json:"customer_name"`
	TotalAmount       float64        `json:"total_amount"`
	Items             []LineItem     `json:"items"`
	CurrentStatus     OrderStatus    `json:"current_status"`
	EstimatedDelivery string         `json:"estimated_delivery"`
	Timeline          []TimelineStep `json:"timeline"`
	PlacedAt          string         `json:"placed_at"`
}
