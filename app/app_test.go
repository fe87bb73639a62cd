package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hanahehe/restore/app"
	"github.com/hanahehe/restore/auth"
	"github.com/hanahehe/restore/catalog"
	"github.com/hanahehe/restore/models"
	"github.com/hanahehe/restore/storage"
)

var baseline = &catalog.Baseline{
	Users: []models.User{
		{ID: "u1", Name: "Asha Student", Email: "student@campus.edu", Password: "student123", Role: models.RoleStudent},
		{ID: "u3", Name: "Meera Canteen", Email: "canteen@campus.edu", Password: "canteen123", Role: models.RoleCanteenVendor},
	},
	Products: []models.Product{
		{ID: "p1", Name: "Notebook", Category: "Stationery", Price: 45, Stock: 30},
		{ID: "p2", Name: "Pen", Category: "Stationery", Price: 10, Stock: 0},
	},
	Menu: []models.MenuItem{
		{ID: "m1", Name: "Dosa", Category: "Breakfast", Price: 40, Available: true},
		{ID: "m4", Name: "Roll", Category: "Snacks", Price: 50, Available: false},
	},
}

type client struct {
	t      *testing.T
	router http.Handler
}

func (c client) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func newApp(t *testing.T, st storage.Storage) (*app.App, client) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	a, err := app.New(context.Background(), app.Options{
		Source:     catalog.StaticSource{Baseline: baseline},
		Storage:    st,
		Tokens:     auth.NewTokens("test-secret", 0),
		Log:        zerolog.Nop(),
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)
	return a, client{t: t, router: a.Router}
}

func login(t *testing.T, c client, email, password string) string {
	w := c.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode(t, w)["token"].(string)
}

func TestOrderFlow(t *testing.T) {
	_, c := newApp(t, storage.NewMemory())

	student := login(t, c, "student@campus.edu", "student123")

	w := c.do(http.MethodPost, "/api/canteen/cart/items/m1", student, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = c.do(http.MethodPost, "/api/canteen/cart/items/m1/increment", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 80.0, decode(t, w)["cart"].(map[string]any)["total"])

	w = c.do(http.MethodPost, "/api/canteen/cart/items/m4", student, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPost, "/api/canteen/checkout", student, gin.H{})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	placed := decode(t, w)
	order := placed["order"].(map[string]any)
	orderID := order["id"].(string)
	token := placed["token"].(string)
	assert.Equal(t, string(models.StatusPending), order["status"])
	assert.Equal(t, 80.0, order["total"])
	assert.JSONEq(t, `{"orderId":"`+orderID+`","verify":true}`, token)

	w = c.do(http.MethodPost, "/api/canteen/checkout", student, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "cart is cleared after checkout")

	w = c.do(http.MethodGet, "/api/canteen/orders", student, nil)
	assert.Equal(t, 1.0, decode(t, w)["count"])

	w = c.do(http.MethodGet, "/api/canteen/orders/"+orderID+"/qr", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	assert.Equal(t, http.StatusForbidden, c.do(http.MethodGet, "/api/vendor/dashboard", student, nil).Code)

	vendor := login(t, c, "canteen@campus.edu", "canteen123")
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/session", student, nil).Code,
		"logging in on the device ends the previous session")

	scan := gin.H{"token": token}
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/api/vendor/scan", vendor, scan).Code)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/vendor/scanner/resume", vendor, nil).Code)

	w = c.do(http.MethodPost, "/api/vendor/scan", vendor, gin.H{"token": "not json"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPost, "/api/vendor/scan", vendor, scan)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, string(models.StatusPending), body["previous_status"])
	assert.Equal(t, string(models.StatusPickedUp), body["order"].(map[string]any)["status"])

	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/api/vendor/scan", vendor, scan).Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/vendor/scanner/confirm", vendor, nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity,
		c.do(http.MethodPut, "/api/vendor/orders/"+orderID+"/advance", vendor, nil).Code)

	w = c.do(http.MethodGet, "/api/vendor/dashboard", vendor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode(t, w)
	assert.Equal(t, string(models.DashboardCanteen), dash["dashboard"])
	assert.Equal(t, 1.0, dash["order_summary"].(map[string]any)[string(models.StatusPickedUp)])
}

func TestVendorAdvance(t *testing.T) {
	_, c := newApp(t, storage.NewMemory())

	student := login(t, c, "student@campus.edu", "student123")
	c.do(http.MethodPost, "/api/canteen/cart/items/m1", student, nil)
	w := c.do(http.MethodPost, "/api/canteen/checkout", student, gin.H{})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := decode(t, w)["order"].(map[string]any)["id"].(string)

	vendor := login(t, c, "canteen@campus.edu", "canteen123")
	for _, want := range []models.OrderStatus{models.StatusPreparing, models.StatusReady, models.StatusPickedUp} {
		w := c.do(http.MethodPut, "/api/vendor/orders/"+orderID+"/advance", vendor, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, string(want), decode(t, w)["order"].(map[string]any)["status"])
	}

	w = c.do(http.MethodGet, "/api/vendor/orders?status=Ready", vendor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, decode(t, w)["count"])
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/vendor/orders?status=Lost", vendor, nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPut, "/api/vendor/orders/ORD-NOPE00/advance", vendor, nil).Code)
}

func TestRestockFlow(t *testing.T) {
	_, c := newApp(t, storage.NewMemory())

	student := login(t, c, "student@campus.edu", "student123")
	assert.Equal(t, http.StatusBadRequest,
		c.do(http.MethodPost, "/api/store/products/p1/restock-request", student, nil).Code, "in stock")
	w := c.do(http.MethodPost, "/api/store/products/p2/restock-request", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decode(t, w)["product"].(map[string]any)["requests"])

	w = c.do(http.MethodGet, "/api/store/products?q=pen", student, nil)
	assert.Equal(t, 1.0, decode(t, w)["count"])

	vendor := login(t, c, "canteen@campus.edu", "canteen123")
	w = c.do(http.MethodGet, "/api/vendor/restock", vendor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decode(t, w)["count"])

	w = c.do(http.MethodPut, "/api/vendor/products/p2/restock", vendor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode(t, w)["product"].(map[string]any)
	assert.Equal(t, 20.0, p["stock"])
	assert.Equal(t, 0.0, p["requests"])

	w = c.do(http.MethodPut, "/api/vendor/products/p2/stock", vendor, gin.H{"in_stock": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, decode(t, w)["product"].(map[string]any)["stock"])
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPut, "/api/vendor/products/p2/stock", vendor, gin.H{}).Code)

	w = c.do(http.MethodPut, "/api/vendor/menu/m4/availability", vendor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["item"].(map[string]any)["available"])
	w = c.do(http.MethodPut, "/api/vendor/menu/m4/availability", vendor, gin.H{"available": true})
	assert.Equal(t, true, decode(t, w)["item"].(map[string]any)["available"])
}

func TestSignupAndSessionRestore(t *testing.T) {
	st := storage.NewMemory()
	_, c := newApp(t, st)

	w := c.do(http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "Kiran Rao", "email": "Kiran@Campus.edu", "password": "secret1", "role": "student",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	token := body["token"].(string)
	user := body["user"].(map[string]any)
	assert.Equal(t, "kiran@campus.edu", user["email"])
	assert.Equal(t, "KR", user["avatar"])
	assert.NotContains(t, user, "password")

	w = c.do(http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "Other", "email": "student@campus.edu", "password": "secret1", "role": "student",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email", decode(t, w)["field"])

	// same storage, fresh process
	_, c2 := newApp(t, st)
	w = c2.do(http.MethodGet, "/api/session", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Kiran Rao", decode(t, w)["user"].(map[string]any)["name"])

	require.Equal(t, http.StatusOK, c2.do(http.MethodPost, "/api/auth/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, c2.do(http.MethodGet, "/api/session", token, nil).Code)

	_, c3 := newApp(t, st)
	assert.Equal(t, http.StatusUnauthorized, c3.do(http.MethodGet, "/api/session", token, nil).Code)
	login(t, c3, "kiran@campus.edu", "secret1")
}

// chunked sends body without a declared length, as a streaming client would
func (c client) chunked(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.ContentLength = -1
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

func TestBodiesWithoutContentLength(t *testing.T) {
	_, c := newApp(t, storage.NewMemory())

	student := login(t, c, "student@campus.edu", "student123")
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/canteen/cart/items/m1", student, nil).Code)

	w := c.chunked(http.MethodPost, "/api/canteen/checkout", student, `{"pickup":"03:00 AM"}`)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "pickup", decode(t, w)["field"])

	w = c.chunked(http.MethodPost, "/api/canteen/checkout", student, `{"pickup":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	vendor := login(t, c, "canteen@campus.edu", "canteen123")
	w = c.chunked(http.MethodPut, "/api/vendor/menu/m4/availability", vendor, `{"available":false}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, false, decode(t, w)["item"].(map[string]any)["available"], "explicit value, not a toggle")

	w = c.chunked(http.MethodPut, "/api/vendor/menu/m4/availability", vendor, ``)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["item"].(map[string]any)["available"], "empty body toggles")
}

func TestGetCart(t *testing.T) {
	_, c := newApp(t, storage.NewMemory())
	student := login(t, c, "student@campus.edu", "student123")

	w := c.do(http.MethodGet, "/api/canteen/cart", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cart":{"items":[],"total":0}}`, w.Body.String())

	c.do(http.MethodPost, "/api/canteen/cart/items/m1", student, nil)
	w = c.do(http.MethodGet, "/api/canteen/cart", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 40.0, decode(t, w)["cart"].(map[string]any)["total"])
}

func TestPublicRoutes(t *testing.T) {
	_, c := newApp(t, storage.NewMemory())

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", "", nil).Code)
	w := c.do(http.MethodGet, "/api/state-machine", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{string(models.StatusPickedUp)}, decode(t, w)["terminal_states"])
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/metrics", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/canteen/menu", "", nil).Code)
}
