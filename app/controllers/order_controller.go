package controllers

import (
	"net/http"

	"github.com/shoestop/backend/app/repositories"
	"github.com/shoestop/backend/app/services"
	"github.com/shoestop/backend/pkg/auth"
	"github.com/shoestop/backend/pkg/bind"
	"github.com/shoestop/backend/pkg/logger"
	"github.com/shoestop/backend/pkg/queue"
	"github.com/shoestop/backend/pkg/response"
	"github.com/shoestop/backend/pkg/router"
)

type OrderController struct {
	checkout *services.CheckoutService
	orders   *services.OrderService
	users    services.UserStore
}

func NewOrderController(checkout *services.CheckoutService, orders *services.OrderService, users services.UserStore) *OrderController {
	return &OrderController{checkout: checkout, orders: orders, users: users}
}

// Place handles POST /api/orders.
func (c *OrderController) Place(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var in services.PlaceOrderInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationErrors(w, errs)
		return
	}

	result, err := c.checkout.PlaceOrder(r.Context(), userID, in)
	if err != nil {
		response.Err(w, err)
		return
	}

	if result.Idempotent {
		response.Success(w, response.M{
			"order":      result.Order,
			"idempotent": true,
		})
		return
	}

	// Confirmation email is best-effort; the order is already committed.
	if user, uerr := c.users.FindByID(r.Context(), userID); uerr == nil {
		if qerr := queue.Dispatch(&services.OrderConfirmationEmailJob{
			Email:   user.Email,
			Name:    user.Name,
			OrderNo: result.Order.OrderNo,
			Total:   result.Order.Total,
		}); qerr != nil {
			logger.WithCtx(r.Context()).Warn("orders: confirmation email not queued", "error", qerr)
		}
	}

	response.Created(w, response.M{"order": result.Order})
}

// Mine handles GET /api/orders/mine.
func (c *OrderController) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	orders, err := c.orders.MyOrders(r.Context(), userID)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"orders": orders})
}

// Get handles GET /api/orders/{id}. Owners see their own orders; admins see
// any.
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	order, err := c.orders.GetByID(r.Context(), identity, router.Param(r, "id"))
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"order": order})
}

// AdminList handles GET /api/orders?status=&q=&page=&limit= (admin).
func (c *OrderController) AdminList(w http.ResponseWriter, r *http.Request) {
	f := repositories.OrderListFilter{
		Status: r.URL.Query().Get("status"),
		Query:  r.URL.Query().Get("q"),
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 20),
	}
	// Mirror the service clamps so the pagination block reflects what ran.
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	orders, total, err := c.orders.AdminList(r.Context(), f)
	if err != nil {
		response.Err(w, err)
		return
	}

	response.Success(w, response.M{
		"orders":     orders,
		"pagination": response.NewPagination(f.Page, f.Limit, total),
	})
}

// UpdateStatus handles PATCH /api/orders/{id}/status (admin); body: {status}.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status string `json:"status" validate:"required,in=created,confirmed,packed,shipped,delivered,canceled"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationErrors(w, errs)
		return
	}

	order, err := c.orders.UpdateStatus(r.Context(), router.Param(r, "id"), in.Status)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"order": order})
}
