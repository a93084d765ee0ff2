// Package controllers holds the HTTP handlers. Controllers bind and
// validate input, call services, and write the uniform envelope; they
// carry no business logic of their own.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/fashionhub/storefront/app/models"
	"github.com/fashionhub/storefront/app/services"
	"github.com/fashionhub/storefront/pkg/bind"
	"github.com/fashionhub/storefront/pkg/middleware"
	"github.com/fashionhub/storefront/pkg/response"

	"github.com/go-chi/chi/v5"
)

// OrderController serves the /orders routes.
type OrderController struct {
	orders *services.OrderService
}

// NewOrderController wires the controller to the order service.
func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}

// Create handles POST /api/v1/orders.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in services.CreateOrderInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationErrors(w, errs)
		return
	}

	order, err := c.orders.Create(r.Context(), userID, in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, order)
}

// Mine handles GET /api/v1/orders/my.
func (c *OrderController) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	page, limit := pageParams(r)
	orders, _, pagination, err := c.orders.ListMine(r.Context(), userID, page, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.List(w, orders, len(orders), pagination)
}

// Get handles GET /api/v1/orders/{id}.
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	role, _ := middleware.RoleFromCtx(r)

	order, err := c.orders.Get(r.Context(), chi.URLParam(r, "id"), userID, role)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, order)
}

// List handles GET /api/v1/orders (admin).
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r)
	role, _ := middleware.RoleFromCtx(r)

	page, limit := pageParams(r)
	orders, _, pagination, err := c.orders.List(r.Context(), userID, role, page, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.List(w, orders, len(orders), pagination)
}

type statusInput struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

// UpdateStatus handles PUT /api/v1/orders/{id}/status (admin).
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in statusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationErrors(w, errs)
		return
	}

	order, err := c.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), in.Status)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, order)
}

// Stats handles GET /api/v1/orders/stats/all (admin).
func (c *OrderController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.orders.Stats(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, stats)
}
