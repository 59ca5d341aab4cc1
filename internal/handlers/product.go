// internal/handlers/product.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/snehalata/aura-backend/internal/ai"
	"github.com/snehalata/aura-backend/internal/models"
	"github.com/snehalata/aura-backend/internal/services"
	"github.com/snehalata/aura-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	storageService *services.StorageService
	gateway        *ai.Gateway
}

func NewProductHandler(productService *services.ProductService, storageService *services.StorageService, gateway *ai.Gateway) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		storageService: storageService,
		gateway:        gateway,
	}
}

// actor resolves the authenticated account behind a catalog mutation.
func actor(c *gin.Context) (uuid.UUID, models.UserRole, bool) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return uuid.Nil, "", false
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, "", false
	}
	role, _ := utils.GetUserRoleFromContext(c)
	return id, models.UserRole(role), true
}

// GET /products
func (h *ProductHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	products, total, err := h.productService.List(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, params))
}

// GET /products/search?q=
func (h *ProductHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		utils.BadRequestResponse(c, "Search query is required", nil)
		return
	}

	params := utils.GetPaginationParams(c)
	products, intent, err := h.productService.Search(c.Request.Context(), query, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"products": products,
		"intent":   intent,
	})
}

// GET /products/popular
func (h *ProductHandler) Popular(c *gin.Context) {
	products, err := h.productService.Popular(8)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"products": products,
	})
}

// GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := utils.GetInt64Param(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid product id", nil)
		return
	}

	product, err := h.productService.View(id)
	if err != nil {
		utils.NotFoundResponse(c, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product,
	})
}

// GET /products/:id/style-suggestion
func (h *ProductHandler) StyleSuggestion(c *gin.Context) {
	id, ok := utils.GetInt64Param(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid product id", nil)
		return
	}

	product, err := h.productService.GetByID(id)
	if err != nil {
		utils.NotFoundResponse(c, "product")
		return
	}

	suggestion := h.gateway.StyleSuggestion(c.Request.Context(), product.Name, product.Category)
	utils.SuccessResponse(c, gin.H{
		"product_id": product.ID,
		"suggestion": suggestion,
	})
}

// POST /vendors/:id/products
func (h *ProductHandler) Create(c *gin.Context) {
	vendorID, ok := utils.GetInt64Param(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid vendor id", nil)
		return
	}

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	actorID, actorRole, ok := actor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	product, err := h.productService.Create(vendorID, actorID, actorRole, &req)
	if err != nil {
		if errors.Is(err, services.ErrNotVendorOwner) {
			utils.ForbiddenResponse(c, "You can only manage your own vendor's products")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"product": product,
	})
}

// PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := utils.GetInt64Param(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid product id", nil)
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	actorID, actorRole, ok := actor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	product, err := h.productService.Update(id, actorID, actorRole, &req)
	if err != nil {
		if errors.Is(err, services.ErrNotVendorOwner) {
			utils.ForbiddenResponse(c, "You can only manage your own vendor's products")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product,
	})
}

// POST /products/upload
func (h *ProductHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "File is required", err.Error())
		return
	}
	defer file.Close()

	if err := h.storageService.ValidateImage(file); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	result, err := h.storageService.UploadFile(file, header, h.storageService.GetDefaultUploadOptions("products"))
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"upload": result,
	})
}
