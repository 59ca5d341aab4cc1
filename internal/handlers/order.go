// internal/handlers/order.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/snehalata/aura-backend/internal/models"
	"github.com/snehalata/aura-backend/internal/store"
	"github.com/snehalata/aura-backend/internal/utils"
)

type OrderHandler struct {
	commerce *store.Store
}

func NewOrderHandler(commerce *store.Store) *OrderHandler {
	return &OrderHandler{
		commerce: commerce,
	}
}

// isAdmin reports whether the caller carries the admin role.
func isAdmin(c *gin.Context) bool {
	role, exists := utils.GetUserRoleFromContext(c)
	return exists && role == string(models.UserRoleAdmin)
}

// GET /orders
//
// Customers only see their own purchase history; the full log is
// reserved for admins.
func (h *OrderHandler) List(c *gin.Context) {
	var orders []models.Order
	if isAdmin(c) {
		orders = h.commerce.ReadOrders()
	} else {
		orders = h.commerce.ReadOrdersFor(customerID(c))
	}
	utils.SuccessResponse(c, gin.H{
		"orders": orders,
	})
}

// GET /orders/:orderId
func (h *OrderHandler) Get(c *gin.Context) {
	orderID := c.Param("orderId")
	if orderID == "" {
		utils.BadRequestResponse(c, "Order id is required", nil)
		return
	}

	order, err := h.commerce.ReadOrder(orderID)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			utils.NotFoundResponse(c, "order")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	if !isAdmin(c) && order.CustomerID != customerID(c) {
		utils.NotFoundResponse(c, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"order": order,
	})
}

// POST /admin/orders/:orderId/advance
func (h *OrderHandler) Advance(c *gin.Context) {
	orderID := c.Param("orderId")
	if orderID == "" {
		utils.BadRequestResponse(c, "Order id is required", nil)
		return
	}

	order, err := h.commerce.AdvanceOrder(orderID)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			utils.NotFoundResponse(c, "order")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"order": order,
	})
}
