package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hanahehe/restore/cart"
	"github.com/hanahehe/restore/middleware"
	"github.com/hanahehe/restore/models"
	"github.com/hanahehe/restore/verify"
)

const qrSize = 256

type CheckoutRequest struct {
	Pickup string `json:"pickup"`
}

type cartView struct {
	Items []models.CartLine `json:"items"`
	Total float64           `json:"total"`
}

func viewCart(c *cart.Cart) cartView {
	lines := c.Lines()
	if lines == nil {
		lines = []models.CartLine{}
	}
	return cartView{Items: lines, Total: c.Total()}
}

// ListMenu returns the canteen menu for one category or "All"
func (h *Handler) ListMenu(c *gin.Context) {
	items := h.Store.FilterMenu(c.Query("category"))
	c.JSON(http.StatusOK, gin.H{
		"count": len(items),
		"menu":  items,
	})
}

func (h *Handler) ListSlots(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"slots": h.Checkout.Slots()})
}

func (h *Handler) GetCart(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	var view cartView
	err := h.Carts.With(user.ID, func(ct *cart.Cart) error {
		view = viewCart(ct)
		return nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": view})
}

// AddToCart adds one of a menu item or bumps its quantity
func (h *Handler) AddToCart(c *gin.Context) {
	h.editCart(c, func(ct *cart.Cart, id string) error {
		_, err := h.Checkout.AddItem(ct, id)
		return err
	})
}

func (h *Handler) IncrementCartItem(c *gin.Context) {
	h.editCart(c, func(ct *cart.Cart, id string) error { return ct.Increment(id) })
}

// DecrementCartItem drops the line when its quantity reaches zero
func (h *Handler) DecrementCartItem(c *gin.Context) {
	h.editCart(c, func(ct *cart.Cart, id string) error { return ct.Decrement(id) })
}

func (h *Handler) editCart(c *gin.Context, fn func(ct *cart.Cart, id string) error) {
	user, _ := middleware.CurrentUser(c)
	var view cartView
	err := h.Carts.With(user.ID, func(ct *cart.Cart) error {
		if err := fn(ct, c.Param("id")); err != nil {
			return err
		}
		view = viewCart(ct)
		return nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": view})
}

// PlaceOrder checks out the caller's cart
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req CheckoutRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, _ := middleware.CurrentUser(c)
	var receipt *cart.Receipt
	err := h.Carts.With(user.ID, func(ct *cart.Cart) error {
		var err error
		receipt, err = h.Checkout.Checkout(c.Request.Context(), user, ct, req.Pickup)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   receipt.Order,
		"token":   receipt.Token,
	})
}

// GetMyOrders returns the caller's orders, newest first
func (h *Handler) GetMyOrders(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	list := h.Orders.ForUser(user.ID)
	c.JSON(http.StatusOK, gin.H{
		"count":  len(list),
		"orders": list,
	})
}

// GetOrderQR renders the verification token of an order as a PNG. Only the
// ordering student and vendors may see it.
func (h *Handler) GetOrderQR(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	order, err := h.Orders.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if order.UserID != user.ID && !user.Role.IsVendor() {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}
	token, err := verify.Encode(order.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	png, err := verify.QRCode(token, qrSize)
	if err != nil {
		h.fail(c, fmt.Errorf("render qr: %w", err))
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
