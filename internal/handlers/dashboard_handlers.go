package handlers

import (
	"net/http"

	"construction_inventory_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves inventory aggregates.
type DashboardHandler struct {
	dashboardService services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(ds services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: ds}
}

// GetSummary returns total value, low stock items and the latest transactions.
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to build dashboard.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) GetLowStock(c *gin.Context) {
	items, err := h.dashboardService.LowStockItems(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch low stock items.")
		return
	}
	c.JSON(http.StatusOK, items)
}
