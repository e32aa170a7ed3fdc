package controllers

import (
	"net/http"

	"github.com/shoestop/backend/app/services"
	"github.com/shoestop/backend/pkg/auth"
	"github.com/shoestop/backend/pkg/bind"
	"github.com/shoestop/backend/pkg/response"
	"github.com/shoestop/backend/pkg/router"
)

type CartController struct {
	service *services.CartService
}

func NewCartController(service *services.CartService) *CartController {
	return &CartController{service: service}
}

// Get handles GET /api/cart.
func (c *CartController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	cart, err := c.service.Get(r.Context(), userID)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"cart": cart})
}

// AddItem handles POST /api/cart/add.
func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var in services.AddItemInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationErrors(w, errs)
		return
	}

	cart, err := c.service.AddItem(r.Context(), userID, in)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"cart": cart})
}

// UpdateItem handles PATCH /api/cart/item/{itemID}; body: {qty}.
func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var in struct {
		Qty int `json:"qty" validate:"required,gte=1,lte=10"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationErrors(w, errs)
		return
	}

	cart, err := c.service.UpdateItemQty(r.Context(), userID, router.Param(r, "itemID"), in.Qty)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"cart": cart})
}

// RemoveItem handles DELETE /api/cart/item/{itemID}.
func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	cart, err := c.service.RemoveItem(r.Context(), userID, router.Param(r, "itemID"))
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"cart": cart})
}

// Clear handles POST /api/cart/clear.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	cart, err := c.service.Clear(r.Context(), userID)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"cart": cart})
}
