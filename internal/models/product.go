// internal/models/product.go
package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Product struct {
	ID          int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	VendorID    int64          `json:"vendor_id" gorm:"not null;index"`
	Name        string         `json:"name" gorm:"size:255;not null"`
	Price       float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	Description string         `json:"description" gorm:"type:text"`
	ImageURL    string         `json:"image_url" gorm:"size:500"`
	ExternalURL string         `json:"external_url,omitempty" gorm:"size:500"`
	Category    string         `json:"category" gorm:"size:100;index"`
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`
	Status      ProductStatus  `json:"status" gorm:"type:varchar(20);default:'active';index"`
	ViewCount   int64          `json:"view_count" gorm:"default:0"`
	SalesCount  int64          `json:"sales_count" gorm:"default:0"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	Vendor Vendor `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
}
