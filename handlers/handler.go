package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hanahehe/restore/auth"
	"github.com/hanahehe/restore/cart"
	"github.com/hanahehe/restore/catalog"
	"github.com/hanahehe/restore/inventory"
	"github.com/hanahehe/restore/models"
	"github.com/hanahehe/restore/orders"
)

// Handler carries the components every route needs
type Handler struct {
	Store     *catalog.Store
	Gate      *auth.Gate
	Checkout  *cart.Engine
	Carts     *cart.Registry
	Orders    *orders.Manager
	Scanner   *orders.Scanner
	Inventory *inventory.Manager
	Log       zerolog.Logger
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrInvalidToken),
		errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrItemUnavailable),
		errors.Is(err, models.ErrInStock):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAlreadyFulfilled),
		errors.Is(err, models.ErrScannerPaused):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(status, gin.H{"error": "Internal error"})
		return
	}
	body := gin.H{"error": err.Error()}
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		body["error"] = verr.Message
		body["field"] = verr.Field
	}
	c.JSON(status, body)
}

// bindOptionalJSON binds the body when one was sent. An empty body leaves
// obj untouched, whether or not the request declared a length.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
