// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/snehalata/aura-backend/internal/ai"
	"github.com/snehalata/aura-backend/internal/models"
	"github.com/snehalata/aura-backend/internal/utils"
)

type ProductService struct {
	db      *gorm.DB
	gateway *ai.Gateway
}

// ErrNotVendorOwner rejects catalog mutations by accounts that do not
// own the vendor.
var ErrNotVendorOwner = errors.New("vendor is not owned by this account")

// canManageVendor gates catalog mutations: admins always may, everyone
// else only on a vendor linked to their own account.
func canManageVendor(vendor *models.Vendor, actorID uuid.UUID, role models.UserRole) bool {
	if role == models.UserRoleAdmin {
		return true
	}
	return vendor.OwnerID != nil && *vendor.OwnerID == actorID
}

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=255"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
	ExternalURL string   `json:"external_url" validate:"omitempty,url"`
	Category    string   `json:"category" validate:"required,max=100"`
	Tags        []string `json:"tags"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	ExternalURL *string  `json:"external_url,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Status      *string  `json:"status,omitempty"`
}

func NewProductService(db *gorm.DB, gateway *ai.Gateway) *ProductService {
	return &ProductService{
		db:      db,
		gateway: gateway,
	}
}

func (s *ProductService) Create(vendorID int64, actorID uuid.UUID, actorRole models.UserRole, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var vendor models.Vendor
	if err := s.db.First(&vendor, vendorID).Error; err != nil {
		return nil, errors.New("vendor not found")
	}
	if !canManageVendor(&vendor, actorID, actorRole) {
		return nil, ErrNotVendorOwner
	}
	if vendor.Status == models.VendorStatusBlocked {
		return nil, errors.New("blocked vendors cannot list products")
	}

	product := &models.Product{
		VendorID:    vendorID,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		ExternalURL: req.ExternalURL,
		Category:    req.Category,
		Tags:        pq.StringArray(req.Tags),
		Status:      models.ProductStatusActive,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *ProductService) Update(productID int64, actorID uuid.UUID, actorRole models.UserRole, req *UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if !canManageVendor(&product.Vendor, actorID, actorRole) {
		return nil, ErrNotVendorOwner
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, errors.New("price must be positive")
		}
		product.Price = *req.Price
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.ExternalURL != nil {
		product.ExternalURL = *req.ExternalURL
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Tags != nil {
		product.Tags = pq.StringArray(req.Tags)
	}
	if req.Status != nil {
		status := models.ProductStatus(*req.Status)
		if status != models.ProductStatusDraft &&
			status != models.ProductStatusActive &&
			status != models.ProductStatusArchived {
			return nil, errors.New("invalid product status")
		}
		product.Status = status
	}

	if err := s.db.Save(product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *ProductService) GetByID(id int64) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Vendor").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

// View returns a product and bumps its view counter for the stats
// dashboard. Counter failures never block the read.
func (s *ProductService) View(id int64) (*models.Product, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.db.Model(&models.Product{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	return product, nil
}

func (s *ProductService) List(params utils.PaginationParams) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := s.db.Model(&models.Product{}).Where("status = ?", models.ProductStatusActive)
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "price", "name", "view_count", "sales_count"})
	query = utils.ApplyPagination(query, params)
	if err := query.Preload("Vendor").Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// Search runs the neural search pipeline: the query is decomposed into
// facets by the gateway, and each extracted facet narrows the catalog
// query. When intent analysis is unavailable the raw query degrades to
// a keyword match.
func (s *ProductService) Search(ctx context.Context, query string, params utils.PaginationParams) ([]models.Product, *ai.SearchIntent, error) {
	dbQuery := s.db.Model(&models.Product{}).Where("status = ?", models.ProductStatusActive)

	intent := s.gateway.AnalyzeSearchIntent(ctx, query)
	if intent == nil {
		search := "%" + query + "%"
		dbQuery = dbQuery.Where("name ILIKE ? OR description ILIKE ?", search, search)
	} else {
		if intent.Category != "" {
			dbQuery = dbQuery.Where("category ILIKE ?", intent.Category)
		}
		if intent.MaxPrice > 0 {
			dbQuery = dbQuery.Where("price <= ?", intent.MaxPrice)
		}

		keywords := intent.SemanticKeywords
		for _, facet := range []string{intent.Material, intent.Color, intent.Style} {
			if facet != "" {
				keywords = append(keywords, facet)
			}
		}
		if len(keywords) > 0 {
			var clauses []string
			var args []interface{}
			for _, kw := range keywords {
				clauses = append(clauses, "(name ILIKE ? OR description ILIKE ? OR ? = ANY(tags))")
				like := "%" + kw + "%"
				args = append(args, like, like, strings.ToLower(kw))
			}
			dbQuery = dbQuery.Where(strings.Join(clauses, " OR "), args...)
		}
	}

	var products []models.Product
	dbQuery = utils.ApplyPagination(dbQuery, params)
	if err := dbQuery.Preload("Vendor").Find(&products).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, intent, nil
}

// Popular backs the home page rail.
func (s *ProductService) Popular(limit int) ([]models.Product, error) {
	if limit <= 0 || limit > 50 {
		limit = 8
	}
	var products []models.Product
	err := s.db.Where("status = ?", models.ProductStatusActive).
		Order("sales_count DESC, view_count DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch popular products: %w", err)
	}
	return products, nil
}

// Catalog returns the full active catalog for the AI context and
// recommendation prompts.
func (s *ProductService) Catalog() ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Where("status = ?", models.ProductStatusActive).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	return products, nil
}

// ByIDs resolves recommendation id lists back into products, preserving
// the input order.
func (s *ProductService) ByIDs(ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := s.db.Where("id IN ? AND status = ?", ids, models.ProductStatusActive).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	byID := make(map[int64]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	ordered := make([]models.Product, 0, len(products))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// RecordSales bumps sales counters after a checkout settles. Counter
// failures never unwind the order, but they are logged.
func (s *ProductService) RecordSales(items []models.LineItem) {
	for _, item := range items {
		err := s.db.Model(&models.Product{}).Where("id = ?", item.ProductID).
			UpdateColumn("sales_count", gorm.Expr("sales_count + ?", item.Quantity)).Error
		if err != nil {
			logrus.WithError(err).WithField("product_id", item.ProductID).
				Warn("Failed to record sale")
		}
	}
}
