package controllers

import (
	"net/http"

	"github.com/shoestop/backend/app/services"
	"github.com/shoestop/backend/pkg/auth"
	"github.com/shoestop/backend/pkg/bind"
	"github.com/shoestop/backend/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Register handles POST /api/auth/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationErrors(w, errs)
		return
	}

	user, err := c.service.Register(r.Context(), in)
	if err != nil {
		response.Err(w, err)
		return
	}

	response.Created(w, response.M{
		"message": "Account created. Please check your email to verify your account.",
		"user":    user,
	})
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationErrors(w, errs)
		return
	}

	result, err := c.service.Login(r.Context(), in)
	if err != nil {
		response.Err(w, err)
		return
	}

	response.Success(w, response.M{
		"user":         result.User,
		"token":        result.Token,
		"refreshToken": result.RefreshToken,
	})
}

// VerifyEmail handles GET /api/auth/verify-email?token=...
func (c *AuthController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		response.Error(w, http.StatusBadRequest, "Missing verification token")
		return
	}

	if err := c.service.VerifyEmail(r.Context(), token); err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"message": "Email verified. You can now log in."})
}

// ForgotPassword handles POST /api/auth/forgot-password. Always answers 200
// so the endpoint cannot be used to probe which emails exist.
func (c *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationErrors(w, errs)
		return
	}

	if err := c.service.ForgotPassword(r.Context(), in.Email); err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{
		"message": "If that email exists, a reset link has been sent.",
	})
}

// ResetPassword handles POST /api/auth/reset-password.
func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in services.ResetPasswordInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationErrors(w, errs)
		return
	}

	if err := c.service.ResetPassword(r.Context(), in); err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"message": "Password updated. You can now log in."})
}

// Me handles GET /api/auth/me.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	user, err := c.service.Me(r.Context(), userID)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"user": user})
}
