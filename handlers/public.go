package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hanahehe/restore/models"
	"github.com/hanahehe/restore/statemachine"
)

// GetStateMachineInfo returns the order lifecycle for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	terminal := []models.OrderStatus{}
	for _, s := range models.AllStatuses {
		if s.Terminal() {
			terminal = append(terminal, s)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"terminal_states": terminal,
		"description":     "Canteen Order Lifecycle State Machine",
	})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Campus Store & Canteen API",
		"version": "1.0.0",
	})
}
