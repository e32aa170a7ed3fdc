package routes

import (
	"net/http"
	"time"

	"github.com/shoestop/backend/app/controllers"
	"github.com/shoestop/backend/config"
	"github.com/shoestop/backend/internal/database"
	"github.com/shoestop/backend/pkg/metrics"
	"github.com/shoestop/backend/pkg/middleware"
	"github.com/shoestop/backend/pkg/rbac"
	"github.com/shoestop/backend/pkg/reqid"
	"github.com/shoestop/backend/pkg/response"
	"github.com/shoestop/backend/pkg/router"
	"github.com/shoestop/backend/pkg/ws"
)

// Controllers bundles the wired HTTP handlers for route registration.
type Controllers struct {
	Auth      *controllers.AuthController
	Users     *controllers.UserController
	Products  *controllers.ProductController
	Trending  *controllers.BannerController
	MostSales *controllers.BannerController
	Features  *controllers.FeatureController
	Cart      *controllers.CartController
	Orders    *controllers.OrderController
}

// RegisterAPI mounts the full route table plus the operational endpoints
// (health, metrics, uploads, order event stream).
func RegisterAPI(r *router.Router, c Controllers, hub *ws.Hub) {
	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	api := r.Group("/api")

	// Auth.
	authGroup := api.Group("/auth")
	authGroup.Post("/register", "auth.register", c.Auth.Register)
	authGroup.Post("/login", "auth.login", c.Auth.Login)
	authGroup.Get("/verify-email", "auth.verify", c.Auth.VerifyEmail)
	authGroup.Post("/forgot-password", "auth.forgot", c.Auth.ForgotPassword)
	authGroup.Post("/reset-password", "auth.reset", c.Auth.ResetPassword)
	authGroup.Get("/me", "auth.me", c.Auth.Me, middleware.Auth)

	// User management: listing and deletion for staff, role changes admin-only.
	userGroup := api.Group("/user", middleware.Auth)
	userGroup.Get("/all", "user.list", c.Users.List, rbac.Staff)
	userGroup.Patch("/role", "user.role", c.Users.UpdateRole, rbac.Admin)
	userGroup.Delete("/{email}", "user.delete", c.Users.Delete, rbac.Staff)

	// Product catalog: public reads, admin writes.
	api.Get("/product", "product.list", c.Products.List)
	api.Get("/product/{slug}", "product.show", c.Products.Get)
	api.Post("/product", "product.create", c.Products.Create, middleware.Auth, rbac.Admin)
	api.Put("/product/{slug}", "product.update", c.Products.Update, middleware.Auth, rbac.Admin)
	api.Delete("/product/{slug}", "product.delete", c.Products.Delete, middleware.Auth, rbac.Admin)

	// Banner sections share a controller shape over two collections.
	api.Get("/trending", "trending.list", c.Trending.List)
	api.Get("/trending/{slug}", "trending.show", c.Trending.Get)
	api.Post("/trending", "trending.create", c.Trending.Create, middleware.Auth, rbac.Admin)
	api.Put("/trending/{slug}", "trending.update", c.Trending.Update, middleware.Auth, rbac.Admin)
	api.Delete("/trending/{slug}", "trending.delete", c.Trending.Delete, middleware.Auth, rbac.Admin)

	api.Get("/most-sales", "mostsales.list", c.MostSales.List)
	api.Get("/most-sales/{slug}", "mostsales.show", c.MostSales.Get)
	api.Post("/most-sales", "mostsales.create", c.MostSales.Create, middleware.Auth, rbac.Admin)
	api.Put("/most-sales/{slug}", "mostsales.update", c.MostSales.Update, middleware.Auth, rbac.Admin)
	api.Delete("/most-sales/{slug}", "mostsales.delete", c.MostSales.Delete, middleware.Auth, rbac.Admin)

	api.Get("/feature", "feature.list", c.Features.List)
	api.Get("/feature/{slug}", "feature.show", c.Features.Get)
	api.Post("/feature", "feature.create", c.Features.Create, middleware.Auth, rbac.Admin)
	api.Put("/feature/{slug}", "feature.update", c.Features.Update, middleware.Auth, rbac.Admin)
	api.Delete("/feature/{slug}", "feature.delete", c.Features.Delete, middleware.Auth, rbac.Admin)

	// Cart, one per signed-in user.
	cart := api.Group("/cart", middleware.Auth)
	cart.Get("", "cart.show", c.Cart.Get)
	cart.Post("/add", "cart.add", c.Cart.AddItem)
	cart.Patch("/item/{itemID}", "cart.item.update", c.Cart.UpdateItem)
	cart.Delete("/item/{itemID}", "cart.item.remove", c.Cart.RemoveItem)
	cart.Post("/clear", "cart.clear", c.Cart.Clear)

	// Orders.
	api.Post("/orders", "orders.place", c.Orders.Place, middleware.Auth)
	api.Get("/orders/mine", "orders.mine", c.Orders.Mine, middleware.Auth)
	api.Get("/orders/stream", "orders.stream", func(w http.ResponseWriter, r *http.Request) {
		ws.Upgrade(w, r, hub)
	}, middleware.AllowQueryToken, middleware.Auth, rbac.Admin)
	api.Get("/orders", "orders.admin.list", c.Orders.AdminList, middleware.Auth, rbac.Admin)
	api.Get("/orders/{id}", "orders.show", c.Orders.Get, middleware.Auth)
	api.Patch("/orders/{id}/status", "orders.admin.status", c.Orders.UpdateStatus, middleware.Auth, rbac.Admin)

	// Operational surface.
	api.Get("/health", "health", healthHandler)
	r.Mount("/metrics", metrics.Handler())
	if config.StorageDefault() == "local" {
		r.Static("/uploads", config.StorageLocalRoot())
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	db := "up"
	if err := database.Ping(r.Context()); err != nil {
		db = "down"
	}

	if db != "up" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"success":false,"status":"degraded","database":"down"}`)) //nolint:errcheck
		return
	}
	response.Success(w, response.M{"status": "ok", "database": db})
}
