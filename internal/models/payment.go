// internal/models/payment.go
package models

import "time"

// Payment records one payment attempt against a checkout, whether it
// went through Stripe or the simulated local wallet rails.
type Payment struct {
	BaseModel
	OrderID     string        `json:"order_id" gorm:"size:20;index"`
	Method      PaymentMethod `json:"method" gorm:"type:varchar(10);not null"`
	Amount      float64       `json:"amount" gorm:"type:decimal(10,2);not null"`
	Status      PaymentStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Reference   string        `json:"reference,omitempty" gorm:"size:255"`
	Metadata    JSONB         `json:"metadata,omitempty" gorm:"type:jsonb"`
	ProcessedAt *time.Time    `json:"processed_at"`
}
