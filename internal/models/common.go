// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserRole string

const (
	UserRoleAdmin    UserRole = "ADMIN"
	UserRoleVendor   UserRole = "VENDOR"
	UserRoleCustomer UserRole = "CUSTOMER"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type VendorStatus string

const (
	VendorStatusPending  VendorStatus = "PENDING"
	VendorStatusApproved VendorStatus = "APPROVED"
	VendorStatusBlocked  VendorStatus = "BLOCKED"
)

type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
)

// OrderStatus values match the storefront wire format.
type OrderStatus string

const (
	OrderStatusPlaced       OrderStatus = "PLACED"
	OrderStatusConfirmed    OrderStatus = "CONFIRMED"
	OrderStatusQualityCheck OrderStatus = "QUALITY_CHECK"
	OrderStatusShipped      OrderStatus = "SHIPPED"
	OrderStatusDelivered    OrderStatus = "DELIVERED"
)

// OrderStatusProgression is the canonical status order for timelines.
var OrderStatusProgression = []OrderStatus{
	OrderStatusPlaced,
	OrderStatusConfirmed,
	OrderStatusQualityCheck,
	OrderStatusShipped,
	OrderStatusDelivered,
}

type AuditStatus string

const (
	AuditStatusPassed     AuditStatus = "PASSED"
	AuditStatusWarning    AuditStatus = "WARNING"
	AuditStatusFailed     AuditStatus = "FAILED"
	AuditStatusReAuditing AuditStatus = "RE-AUDITING"
	AuditStatusPending    AuditStatus = "PENDING"
)

type AuditType string

const (
	AuditTypeImageQuality    AuditType = "IMAGE_QUALITY"
	AuditTypePricingEthics   AuditType = "PRICING_ETHICS"
	AuditTypeAuthenticity    AuditType = "AUTHENTICITY"
	AuditTypeCopywriting     AuditType = "COPYWRITING"
	AuditTypeLegalCompliance AuditType = "LEGAL_COMPLIANCE"
	AuditTypeSustainability  AuditType = "SUSTAINABILITY"
)

type PaymentMethod string

const (
	PaymentMethodCard  PaymentMethod = "CARD"
	PaymentMethodBkash PaymentMethod = "BKASH"
	PaymentMethodNagad PaymentMethod = "NAGAD"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)
