package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hanahehe/restore/models"
)

type ScanRequest struct {
	Token string `json:"token" binding:"required"`
}

// Scan fulfils the order named by a scanned verification token
func (h *Handler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	change, err := h.Scanner.Handle(c.Request.Context(), req.Token)
	if errors.Is(err, models.ErrAlreadyFulfilled) && change != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Order has already been picked up",
			"order": change.Order,
		})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "Order picked up",
		"previous_status": change.Previous,
		"order":           change.Order,
	})
}

// ConfirmPickup re-applies the last scan from the scanner screen
func (h *Handler) ConfirmPickup(c *gin.Context) {
	change, err := h.Scanner.ConfirmPickup(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Pickup confirmed",
		"order":   change.Order,
	})
}

func (h *Handler) PauseScanner(c *gin.Context) {
	h.Scanner.Pause()
	c.JSON(http.StatusOK, gin.H{"active": false})
}

func (h *Handler) ResumeScanner(c *gin.Context) {
	h.Scanner.Resume()
	c.JSON(http.StatusOK, gin.H{"active": true})
}
