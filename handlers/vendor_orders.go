package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hanahehe/restore/middleware"
	"github.com/hanahehe/restore/models"
	"github.com/hanahehe/restore/orders"
)

// orderView adds a relative age to an order for the dashboard queue
type orderView struct {
	models.Order
	Placed string `json:"placed"`
}

func viewOrders(list []models.Order, now time.Time) []orderView {
	out := make([]orderView, len(list))
	for i, o := range list {
		out[i] = orderView{Order: o, Placed: orders.TimeAgo(o.CreatedAt, now)}
	}
	return out
}

// GetDashboard summarizes both vendor views. The caller's role picks the
// one opened first.
func (h *Handler) GetDashboard(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"dashboard":     user.Role.DefaultDashboard(),
		"order_summary": h.Orders.Counts(),
		"restock_queue": h.Inventory.RestockQueue(),
		"scanner": gin.H{
			"active":       h.Scanner.Active(),
			"last_scanned": h.Scanner.LastScanned(),
		},
	})
}

// GetVendorOrders lists orders newest first, optionally by status
func (h *Handler) GetVendorOrders(c *gin.Context) {
	status := models.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status: " + string(status)})
		return
	}
	list := h.Orders.List(status)
	c.JSON(http.StatusOK, gin.H{
		"order_summary": h.Orders.Counts(),
		"count":         len(list),
		"orders":        viewOrders(list, time.Now()),
	})
}

// AdvanceOrder moves an order one step along the vendor path
func (h *Handler) AdvanceOrder(c *gin.Context) {
	change, err := h.Orders.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"previous_status": change.Previous,
		"order":           change.Order,
	})
}
