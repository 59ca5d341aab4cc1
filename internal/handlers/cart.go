// internal/handlers/cart.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/snehalata/aura-backend/internal/ai"
	"github.com/snehalata/aura-backend/internal/models"
	"github.com/snehalata/aura-backend/internal/services"
	"github.com/snehalata/aura-backend/internal/store"
	"github.com/snehalata/aura-backend/internal/utils"
)

type CartHandler struct {
	commerce       *store.Store
	productService *services.ProductService
	paymentService *services.PaymentService
	gateway        *ai.Gateway
}

func NewCartHandler(commerce *store.Store, productService *services.ProductService, paymentService *services.PaymentService, gateway *ai.Gateway) *CartHandler {
	return &CartHandler{
		commerce:       commerce,
		productService: productService,
		paymentService: paymentService,
		gateway:        gateway,
	}
}

// customerID keys the cart. Authenticated users get their account id;
// anonymous shoppers ride a client-held session header.
func customerID(c *gin.Context) string {
	if userID, exists := utils.GetUserIDFromContext(c); exists {
		return userID
	}
	if session := c.GetHeader("X-Session-ID"); session != "" {
		return session
	}
	return "guest"
}

// GET /cart
func (h *CartHandler) Get(c *gin.Context) {
	cart := h.commerce.ReadCart(customerID(c))
	utils.SuccessResponse(c, gin.H{
		"items":    cart,
		"subtotal": cart.Subtotal(),
		"shipping": h.commerce.ShippingFee(),
	})
}

// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req struct {
		ProductID int64 `json:"product_id" validate:"required"`
		Quantity  int   `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.productService.GetByID(req.ProductID)
	if err != nil {
		utils.NotFoundResponse(c, "product")
		return
	}

	cart, err := h.commerce.AddToCart(customerID(c), *product, req.Quantity)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"items":    cart,
		"subtotal": cart.Subtotal(),
	})
}

// PATCH /cart/items/:productId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	productID, ok := utils.GetInt64Param(c, "productId")
	if !ok {
		utils.BadRequestResponse(c, "Invalid product id", nil)
		return
	}

	var req struct {
		Delta int `json:"delta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	cart, err := h.commerce.UpdateQuantity(customerID(c), productID, req.Delta)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"items":    cart,
		"subtotal": cart.Subtotal(),
	})
}

// DELETE /cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, ok := utils.GetInt64Param(c, "productId")
	if !ok {
		utils.BadRequestResponse(c, "Invalid product id", nil)
		return
	}

	cart, err := h.commerce.RemoveFromCart(customerID(c), productID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"items":    cart,
		"subtotal": cart.Subtotal(),
	})
}

// POST /cart/checkout
func (h *CartHandler) Checkout(c *gin.Context) {
	var req struct {
		CustomerName string               `json:"customer_name" validate:"required"`
		Method       models.PaymentMethod `json:"method" validate:"required"`
		CardData     map[string]string    `json:"card_data,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	cid := customerID(c)
	cart := h.commerce.ReadCart(cid)
	if len(cart) == 0 {
		utils.BadRequestResponse(c, store.ErrEmptyCart.Error(), nil)
		return
	}

	total := cart.Subtotal() + h.commerce.ShippingFee()
	confirmation, err := h.paymentService.Charge(&services.ChargeRequest{
		Method:   req.Method,
		Amount:   total,
		CardData: req.CardData,
	})
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	// Checkout settles against the exact snapshot the payment charged;
	// a cart mutated during the payment delay is rejected, never
	// silently re-read.
	order, err := h.commerce.Checkout(cid, req.CustomerName, cart, *confirmation)
	if err != nil {
		if errors.Is(err, store.ErrCartChanged) {
			logrus.WithFields(logrus.Fields{
				"customer_id": cid,
				"reference":   confirmation.Reference,
			}).Warn("Cart changed while payment settled, checkout rejected")
			utils.ConflictResponse(c, "Your cart changed during checkout. Please review it and try again.")
			return
		}
		if errors.Is(err, store.ErrEmptyCart) {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	if err := h.paymentService.AttachOrder(confirmation.Reference, order.ID); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"order_id":  order.ID,
			"reference": confirmation.Reference,
		}).Error("Failed to attach order to payment record")
	}
	h.productService.RecordSales(order.Items)

	utils.CreatedResponse(c, gin.H{
		"order": order,
	})
}

// GET /cart/recommendations
func (h *CartHandler) Recommendations(c *gin.Context) {
	cart := h.commerce.ReadCart(customerID(c))

	catalog, err := h.productService.Catalog()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	ids := h.gateway.Recommendations(c.Request.Context(), cart, catalog)
	products, err := h.productService.ByIDs(ids)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"products": products,
	})
}
