package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListProducts returns store products filtered by name and category
func (h *Handler) ListProducts(c *gin.Context) {
	products := h.Store.FilterProducts(c.Query("q"), c.Query("category"))
	c.JSON(http.StatusOK, gin.H{
		"count":    len(products),
		"products": products,
	})
}

// RequestRestock records one more student asking for an out-of-stock product
func (h *Handler) RequestRestock(c *gin.Context) {
	p, err := h.Inventory.RequestRestock(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Restock requested",
		"product": p,
	})
}
