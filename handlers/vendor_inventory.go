package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hanahehe/restore/models"
)

type StockRequest struct {
	InStock *bool `json:"in_stock" binding:"required"`
}

// AvailabilityRequest sets availability explicitly; an empty body toggles it
type AvailabilityRequest struct {
	Available *bool `json:"available"`
}

// GetRestockQueue lists requested products, most requested first
func (h *Handler) GetRestockQueue(c *gin.Context) {
	queue := h.Inventory.RestockQueue()
	c.JSON(http.StatusOK, gin.H{
		"count": len(queue),
		"queue": queue,
	})
}

// ListInventory is the vendor view of both catalogs
func (h *Handler) ListInventory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"products": h.Inventory.Products(),
		"menu":     h.Inventory.Menu(),
	})
}

func (h *Handler) RestockProduct(c *gin.Context) {
	p, err := h.Inventory.Restock(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product restocked", "product": p})
}

// SetProductStock is the in-stock / out-of-stock toggle
func (h *Handler) SetProductStock(c *gin.Context) {
	var req StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.Inventory.SetInStock(c.Request.Context(), c.Param("id"), *req.InStock)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock updated", "product": p})
}

func (h *Handler) SetMenuAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var (
		item models.MenuItem
		err  error
	)
	if req.Available != nil {
		item, err = h.Inventory.SetMenuAvailable(c.Request.Context(), c.Param("id"), *req.Available)
	} else {
		item, err = h.Inventory.ToggleMenuItem(c.Request.Context(), c.Param("id"))
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}
