// internal/services/stats_service.go
package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/snehalata/aura-backend/internal/ai"
	"github.com/snehalata/aura-backend/internal/models"
	"github.com/snehalata/aura-backend/internal/store"
)

// StatsService aggregates the CEO dashboard numbers from the catalog
// tables, the commerce store's order log, and the gateway counters.
type StatsService struct {
	db       *gorm.DB
	commerce *store.Store
	gateway  *ai.Gateway
}

type EcosystemStats struct {
	TotalVendors    int64   `json:"total_vendors"`
	ApprovedVendors int64   `json:"approved_vendors"`
	PendingVendors  int64   `json:"pending_vendors"`
	BlockedVendors  int64   `json:"blocked_vendors"`
	TotalProducts   int64   `json:"total_products"`
	TotalOrders     int     `json:"total_orders"`
	GrossRevenue    float64 `json:"gross_revenue"`
	AIInteractions  uint64  `json:"ai_interactions"`
	CorruptReads    uint64  `json:"corrupt_reads"`

	OrdersByStatus map[string]int      `json:"orders_by_status"`
	TopProducts    []models.Product    `json:"top_products"`
	RecentAudits   []models.AuditEntry `json:"recent_audits"`
}

func NewStatsService(db *gorm.DB, commerce *store.Store, gateway *ai.Gateway) *StatsService {
	return &StatsService{
		db:       db,
		commerce: commerce,
		gateway:  gateway,
	}
}

func (s *StatsService) Ecosystem() (*EcosystemStats, error) {
	stats := &EcosystemStats{
		OrdersByStatus: make(map[string]int),
	}

	vendorCounts := []struct {
		status models.VendorStatus
		target *int64
	}{
		{models.VendorStatusApproved, &stats.ApprovedVendors},
		{models.VendorStatusPending, &stats.PendingVendors},
		{models.VendorStatusBlocked, &stats.BlockedVendors},
	}
	if err := s.db.Model(&models.Vendor{}).Count(&stats.TotalVendors).Error; err != nil {
		return nil, fmt.Errorf("failed to count vendors: %w", err)
	}
	for _, vc := range vendorCounts {
		if err := s.db.Model(&models.Vendor{}).Where("status = ?", vc.status).Count(vc.target).Error; err != nil {
			return nil, fmt.Errorf("failed to count vendors: %w", err)
		}
	}

	if err := s.db.Model(&models.Product{}).
		Where("status = ?", models.ProductStatusActive).
		Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	orders := s.commerce.ReadOrders()
	stats.TotalOrders = len(orders)
	for _, order := range orders {
		stats.GrossRevenue += order.TotalAmount
		stats.OrdersByStatus[string(order.CurrentStatus)]++
	}

	stats.AIInteractions = s.gateway.Interactions()
	stats.CorruptReads = s.commerce.CorruptReads()

	if err := s.db.Where("status = ?", models.ProductStatusActive).
		Order("sales_count DESC, view_count DESC").
		Limit(5).
		Find(&stats.TopProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch top products: %w", err)
	}

	if err := s.db.Order("created_at DESC").Limit(10).
		Find(&stats.RecentAudits).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch audits: %w", err)
	}

	return stats, nil
}
