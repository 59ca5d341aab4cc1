// internal/services/vendor_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/snehalata/aura-backend/internal/ai"
	"github.com/snehalata/aura-backend/internal/models"
	"github.com/snehalata/aura-backend/internal/utils"
)

type VendorService struct {
	db      *gorm.DB
	gateway *ai.Gateway
}

type VendorApplication struct {
	Name         string `json:"name" validate:"required,min=2,max=255"`
	Slug         string `json:"slug" validate:"omitempty,slug"`
	WebsiteURL   string `json:"website_url" validate:"omitempty,url"`
	TradeLicense string `json:"trade_license" validate:"omitempty,max=100"`
	Description  string `json:"description" validate:"required,min=10"`
}

func NewVendorService(db *gorm.DB, gateway *ai.Gateway) *VendorService {
	return &VendorService{
		db:      db,
		gateway: gateway,
	}
}

// Apply registers a vendor application and immediately runs the
// automated compliance audit. The audit decides the initial status;
// when the collaborator is unreachable the vendor stays PENDING for a
// human to review.
func (s *VendorService) Apply(ctx context.Context, ownerID *uuid.UUID, req *VendorApplication) (*models.Vendor, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}

	var existing models.Vendor
	if err := s.db.Where("slug = ?", slug).First(&existing).Error; err == nil {
		return nil, errors.New("a vendor with this slug already exists")
	}

	vendor := &models.Vendor{
		OwnerID:      ownerID,
		Name:         req.Name,
		Slug:         slug,
		WebsiteURL:   req.WebsiteURL,
		TradeLicense: req.TradeLicense,
		Description:  req.Description,
		Status:       models.VendorStatusPending,
	}

	if err := s.db.Create(vendor).Error; err != nil {
		return nil, fmt.Errorf("failed to create vendor: %w", err)
	}

	if err := s.RunAudit(ctx, vendor); err != nil {
		logrus.WithError(err).WithField("vendor_id", vendor.ID).Warn("Vendor audit failed")
	}

	return vendor, nil
}

// RunAudit asks the gateway for a compliance verdict and applies it to
// the vendor, recording an audit trail entry either way.
func (s *VendorService) RunAudit(ctx context.Context, vendor *models.Vendor) error {
	verdict := s.gateway.AuditVendor(ctx, vendor.Name, vendor.Description, vendor.TradeLicense)

	status := models.AuditStatus(strings.ToUpper(verdict.Status))
	entry := &models.AuditEntry{
		VendorID: vendor.ID,
		Type:     models.AuditTypeAuthenticity,
		Status:   status,
		Label:    "Neural onboarding audit",
		Details:  verdict.Reason,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	switch status {
	case models.AuditStatusPassed:
		vendor.Status = models.VendorStatusApproved
	case models.AuditStatusFailed:
		vendor.Status = models.VendorStatusBlocked
	default:
		vendor.Status = models.VendorStatusPending
	}

	if err := s.db.Save(vendor).Error; err != nil {
		return fmt.Errorf("failed to update vendor status: %w", err)
	}
	return nil
}

// ReAudit reruns the compliance check on an existing vendor, typically
// after an admin flags it or the vendor updates its details.
func (s *VendorService) ReAudit(ctx context.Context, vendorID int64) (*models.Vendor, error) {
	vendor, err := s.GetByID(vendorID)
	if err != nil {
		return nil, err
	}
	if err := s.RunAudit(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *VendorService) GetByID(id int64) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := s.db.Preload("Audits").First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("vendor not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &vendor, nil
}

// GetBySlug resolves a vendor storefront page, including its active
// products.
func (s *VendorService) GetBySlug(slug string) (*models.Vendor, error) {
	var vendor models.Vendor
	err := s.db.
		Preload("Products", "status = ?", models.ProductStatusActive).
		Where("slug = ?", slug).
		First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("vendor not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &vendor, nil
}

func (s *VendorService) List(params utils.PaginationParams) ([]models.Vendor, int64, error) {
	var vendors []models.Vendor
	var total int64

	query := s.db.Model(&models.Vendor{})
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count vendors: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "name", "status"})
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&vendors).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch vendors: %w", err)
	}

	return vendors, total, nil
}

// SetStatus is the admin override for an audit verdict.
func (s *VendorService) SetStatus(vendorID int64, status models.VendorStatus) (*models.Vendor, error) {
	if status != models.VendorStatusApproved &&
		status != models.VendorStatusBlocked &&
		status != models.VendorStatusPending {
		return nil, errors.New("invalid vendor status")
	}

	vendor, err := s.GetByID(vendorID)
	if err != nil {
		return nil, err
	}

	vendor.Status = status
	if err := s.db.Save(vendor).Error; err != nil {
		return nil, fmt.Errorf("failed to update vendor: %w", err)
	}
	return vendor, nil
}

// ListApproved backs the AI ecosystem context and public directory.
func (s *VendorService) ListApproved() ([]models.Vendor, error) {
	var vendors []models.Vendor
	if err := s.db.Where("status = ?", models.VendorStatusApproved).Find(&vendors).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch vendors: %w", err)
	}
	return vendors, nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a display name, e.g.
// "Shafi's Fashion" -> "shafis-fashion".
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, "'", "")
	slug = slugStrip.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
