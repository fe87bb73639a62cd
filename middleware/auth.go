package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hanahehe/restore/models"
)

const userKey = "user"

// Authenticator resolves a bearer token to a user
type Authenticator interface {
	Authenticate(token string) (models.User, error)
}

// AuthRequired validates the session token and injects the user into context
func AuthRequired(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			c.Abort()
			return
		}
		user, err := auth.Authenticate(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			c.Abort()
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// VendorRequired lets either vendor role through
func VendorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.Role.IsVendor() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access denied. Required role(s): " + string(models.RoleStoreVendor) + ", " + string(models.RoleCanteenVendor),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser extracts the caller from context
func CurrentUser(c *gin.Context) (models.User, bool) {
	val, ok := c.Get(userKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}
