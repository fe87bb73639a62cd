package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hanahehe/restore/auth"
	"github.com/hanahehe/restore/middleware"
	"github.com/hanahehe/restore/models"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserView is a user without the password
type UserView struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      models.UserRole  `json:"role"`
	Avatar    string           `json:"avatar"`
	Dashboard models.Dashboard `json:"dashboard,omitempty"`
}

func viewUser(u models.User) UserView {
	avatar := u.Avatar
	if avatar == "" {
		avatar = auth.Avatar(u.Name)
	}
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Avatar:    avatar,
		Dashboard: u.Role.DefaultDashboard(),
	}
}

// Signup creates a local account and starts its session
func (h *Handler) Signup(c *gin.Context) {
	var req auth.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := h.Gate.Signup(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"token":   sess.Token,
		"user":    viewUser(sess.User),
	})
}

// Login replaces the device session
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := h.Gate.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   sess.Token,
		"user":    viewUser(sess.User),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.Gate.Logout(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetSession returns the signed-in user
func (h *Handler) GetSession(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": viewUser(user)})
}
