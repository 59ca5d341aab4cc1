// internal/services/product_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/snehalata/aura-backend/internal/models"
)

func TestCanManageVendor(t *testing.T) {
	ownerID := uuid.New()
	strangerID := uuid.New()

	owned := &models.Vendor{ID: 1, Name: "Snehalata Sarees", OwnerID: &ownerID}
	unclaimed := &models.Vendor{ID: 2, Name: "Legacy Imports"}

	tests := []struct {
		name   string
		vendor *models.Vendor
		actor  uuid.UUID
		role   models.UserRole
		want   bool
	}{
		{"owner manages own vendor", owned, ownerID, models.UserRoleVendor, true},
		{"vendor role blocked on another vendor", owned, strangerID, models.UserRoleVendor, false},
		{"admin manages any vendor", owned, strangerID, models.UserRoleAdmin, true},
		{"vendor role blocked on unclaimed vendor", unclaimed, ownerID, models.UserRoleVendor, false},
		{"admin manages unclaimed vendor", unclaimed, strangerID, models.UserRoleAdmin, true},
		{"customer role blocked", owned, strangerID, models.UserRoleCustomer, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canManageVendor(tt.vendor, tt.actor, tt.role))
		})
	}
}
