package controllers

import (
	"net/http"

	"github.com/fashionhub/storefront/app/services"
	"github.com/fashionhub/storefront/pkg/bind"
	"github.com/fashionhub/storefront/pkg/middleware"
	"github.com/fashionhub/storefront/pkg/response"
)

// AuthController serves the /auth routes.
type AuthController struct {
	auth *services.AuthService
}

// NewAuthController wires the controller to the auth service.
func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register handles POST /api/v1/auth/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationErrors(w, errs)
		return
	}

	result, err := c.auth.Register(r.Context(), in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, result)
}

// Login handles POST /api/v1/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationErrors(w, errs)
		return
	}

	result, err := c.auth.Login(r.Context(), in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, result)
}

// Me handles GET /api/v1/auth/me.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	user, err := c.auth.Me(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, user)
}
