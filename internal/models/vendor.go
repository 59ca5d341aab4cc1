// internal/models/vendor.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vendor struct {
	ID           int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerID      *uuid.UUID     `json:"owner_id,omitempty" gorm:"type:uuid;index"`
	Name         string         `json:"name" gorm:"size:255;not null"`
	Slug         string         `json:"slug" gorm:"size:100;uniqueIndex;not null"`
	WebsiteURL   string         `json:"website_url,omitempty" gorm:"size:500"`
	TradeLicense string         `json:"trade_license,omitempty" gorm:"size:100"`
	Status       VendorStatus   `json:"status" gorm:"type:varchar(20);default:'PENDING';index"`
	Description  string         `json:"description" gorm:"type:text"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	Owner    *User        `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Products []Product    `json:"products,omitempty" gorm:"foreignKey:VendorID"`
	Audits   []AuditEntry `json:"audits,omitempty" gorm:"foreignKey:VendorID"`
}

// AuditEntry records one automated compliance check against a vendor.
type AuditEntry struct {
	BaseModel
	VendorID int64       `json:"vendor_id" gorm:"not null;index"`
	Type     AuditType   `json:"type" gorm:"type:varchar(30);not null"`
	Status   AuditStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	Label    string      `json:"label" gorm:"size:255"`
	Details  string      `json:"details" gorm:"type:text"`

	Vendor Vendor `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
}
