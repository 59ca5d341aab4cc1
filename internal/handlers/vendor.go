// internal/handlers/vendor.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/snehalata/aura-backend/internal/models"
	"github.com/snehalata/aura-backend/internal/services"
	"github.com/snehalata/aura-backend/internal/utils"
)

type VendorHandler struct {
	vendorService *services.VendorService
}

func NewVendorHandler(vendorService *services.VendorService) *VendorHandler {
	return &VendorHandler{
		vendorService: vendorService,
	}
}

// POST /vendors/apply
func (h *VendorHandler) Apply(c *gin.Context) {
	var req services.VendorApplication
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	var ownerID *uuid.UUID
	if userIDStr, exists := utils.GetUserIDFromContext(c); exists {
		if parsed, err := uuid.Parse(userIDStr); err == nil {
			ownerID = &parsed
		}
	}

	vendor, err := h.vendorService.Apply(c.Request.Context(), ownerID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"vendor": vendor,
	})
}

// GET /vendors
func (h *VendorHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	vendors, total, err := h.vendorService.List(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(vendors, total, params))
}

// GET /vendors/slug/:slug
func (h *VendorHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		utils.BadRequestResponse(c, "Slug is required", nil)
		return
	}

	vendor, err := h.vendorService.GetBySlug(slug)
	if err != nil {
		utils.NotFoundResponse(c, "vendor")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"vendor": vendor,
	})
}

// GET /vendors/:id
func (h *VendorHandler) Get(c *gin.Context) {
	id, ok := utils.GetInt64Param(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid vendor id", nil)
		return
	}

	vendor, err := h.vendorService.GetByID(id)
	if err != nil {
		utils.NotFoundResponse(c, "vendor")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"vendor": vendor,
	})
}

// POST /admin/vendors/:id/re-audit
func (h *VendorHandler) ReAudit(c *gin.Context) {
	id, ok := utils.GetInt64Param(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid vendor id", nil)
		return
	}

	vendor, err := h.vendorService.ReAudit(c.Request.Context(), id)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"vendor": vendor,
	})
}

// PUT /admin/vendors/:id/status
func (h *VendorHandler) SetStatus(c *gin.Context) {
	id, ok := utils.GetInt64Param(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid vendor id", nil)
		return
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	vendor, err := h.vendorService.SetStatus(id, models.VendorStatus(req.Status))
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"vendor": vendor,
	})
}
