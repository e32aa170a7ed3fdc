package controllers

import (
	"net/http"

	"github.com/shoestop/backend/app/repositories"
	"github.com/shoestop/backend/app/services"
	"github.com/shoestop/backend/pkg/auth"
	"github.com/shoestop/backend/pkg/bind"
	"github.com/shoestop/backend/pkg/response"
	"github.com/shoestop/backend/pkg/router"
)

type UserController struct {
	service *services.UserService
}

func NewUserController(service *services.UserService) *UserController {
	return &UserController{service: service}
}

// List handles GET /api/user/all?q=&role=&page=&limit= (admin or moderator).
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	f := repositories.UserListFilter{
		Query: r.URL.Query().Get("q"),
		Role:  r.URL.Query().Get("role"),
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 15),
	}
	// Mirror the service clamps so the pagination block reflects what ran.
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 15
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	users, total, err := c.service.List(r.Context(), f)
	if err != nil {
		response.Err(w, err)
		return
	}

	response.Success(w, response.M{
		"users":      users,
		"pagination": response.NewPagination(f.Page, f.Limit, total),
	})
}

// UpdateRole handles PATCH /api/user/role (admin); body: {email, role}.
func (c *UserController) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email" validate:"required,email"`
		Role  string `json:"role" validate:"required,in=user,moderator,admin"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationErrors(w, errs)
		return
	}

	user, err := c.service.UpdateRole(r.Context(), in.Email, in.Role)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{
		"message": "User role updated",
		"user":    user,
	})
}

// Delete handles DELETE /api/user/{email} (admin or moderator).
func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	if err := c.service.Delete(r.Context(), identity, router.Param(r, "email")); err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"message": "User deleted"})
}
