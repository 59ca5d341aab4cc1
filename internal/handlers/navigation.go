// internal/handlers/navigation.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/snehalata/aura-backend/internal/navigation"
	"github.com/snehalata/aura-backend/internal/utils"
)

// NavigationHandler resolves shared deep links against the storefront
// route table and tracks the hub's current location.
type NavigationHandler struct {
	table *navigation.Table
	hub   *navigation.Hub
}

func NewNavigationHandler(table *navigation.Table, hub *navigation.Hub) *NavigationHandler {
	return &NavigationHandler{
		table: table,
		hub:   hub,
	}
}

// GET /navigation/resolve?path=/store/shafis-fashion
func (h *NavigationHandler) Resolve(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		utils.BadRequestResponse(c, "Path is required", nil)
		return
	}

	view, params, ok := h.table.Resolve(path)
	if !ok {
		utils.SuccessResponse(c, gin.H{
			"matched": false,
			"view":    nil,
			"params":  navigation.Params{},
		})
		return
	}

	utils.SuccessResponse(c, gin.H{
		"matched": true,
		"view":    view,
		"params":  params,
	})
}

// POST /navigation/location
func (h *NavigationHandler) SetLocation(c *gin.Context) {
	var req struct {
		Location string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	h.hub.Set(req.Location)
	utils.SuccessResponse(c, gin.H{
		"location": h.hub.Current(),
	})
}

// GET /navigation/location
func (h *NavigationHandler) GetLocation(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"location": h.hub.Current(),
	})
}
