package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/hanahehe/restore/handlers"
	"github.com/hanahehe/restore/metrics"
	"github.com/hanahehe/restore/middleware"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	r.GET("/health", handlers.Health)
	r.GET("/metrics", metrics.Handler())

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/signup", h.Signup)
		public.POST("/auth/login", h.Login)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	authed := r.Group("/api")
	authed.Use(middleware.AuthRequired(h.Gate))
	{
		authed.GET("/session", h.GetSession)
		authed.POST("/auth/logout", h.Logout)
	}

	// ── Campus store ───────────────────────────────────────────────
	store := r.Group("/api/store")
	store.Use(middleware.AuthRequired(h.Gate))
	{
		store.GET("/products", h.ListProducts)
		store.POST("/products/:id/restock-request", h.RequestRestock)
	}

	// ── Canteen ────────────────────────────────────────────────────
	canteen := r.Group("/api/canteen")
	canteen.Use(middleware.AuthRequired(h.Gate))
	{
		canteen.GET("/menu", h.ListMenu)
		canteen.GET("/slots", h.ListSlots)
		canteen.GET("/cart", h.GetCart)
		canteen.POST("/cart/items/:id", h.AddToCart)
		canteen.POST("/cart/items/:id/increment", h.IncrementCartItem)
		canteen.POST("/cart/items/:id/decrement", h.DecrementCartItem)
		canteen.POST("/checkout", h.PlaceOrder)
		canteen.GET("/orders", h.GetMyOrders)
		canteen.GET("/orders/:id/qr", h.GetOrderQR)
	}

	// ── Vendor routes ──────────────────────────────────────────────
	vendor := r.Group("/api/vendor")
	vendor.Use(middleware.AuthRequired(h.Gate), middleware.VendorRequired())
	{
		vendor.GET("/dashboard", h.GetDashboard)
		vendor.GET("/orders", h.GetVendorOrders)
		vendor.PUT("/orders/:id/advance", h.AdvanceOrder)

		vendor.POST("/scan", h.Scan)
		vendor.POST("/scanner/pause", h.PauseScanner)
		vendor.POST("/scanner/resume", h.ResumeScanner)
		vendor.POST("/scanner/confirm", h.ConfirmPickup)

		vendor.GET("/inventory", h.ListInventory)
		vendor.GET("/restock", h.GetRestockQueue)
		vendor.PUT("/products/:id/restock", h.RestockProduct)
		vendor.PUT("/products/:id/stock", h.SetProductStock)
		vendor.PUT("/menu/:id/availability", h.SetMenuAvailability)
	}
}
