package controllers

import (
	"net/http"
	"strconv"

	"github.com/fashionhub/storefront/app/models"
	"github.com/fashionhub/storefront/app/repositories"
	"github.com/fashionhub/storefront/app/services"
	"github.com/fashionhub/storefront/pkg/bind"
	"github.com/fashionhub/storefront/pkg/response"

	"github.com/go-chi/chi/v5"
)

// ProductController serves the /products routes.
type ProductController struct {
	products *services.ProductService
}

// NewProductController wires the controller to the product service.
func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

func productFilter(r *http.Request) repositories.ProductFilter {
	q := r.URL.Query()
	f := repositories.ProductFilter{
		Category: models.Category(q.Get("category")),
		Search:   q.Get("search"),
	}
	if v := q.Get("minPrice"); v != "" {
		if min, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &min
		}
	}
	if v := q.Get("maxPrice"); v != "" {
		if max, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &max
		}
	}
	if v := q.Get("customizable"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.IsCustomizable = &b
		}
	}
	return f
}

// List handles GET /api/v1/products.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	result, err := c.products.List(r.Context(), productFilter(r), page, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.List(w, result.Products, len(result.Products), result.Pagination)
}

// Get handles GET /api/v1/products/{id}.
func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	product, err := c.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, product)
}

// Create handles POST /api/v1/products (admin).
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationErrors(w, errs)
		return
	}

	product, err := c.products.Create(r.Context(), in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, product)
}

// Update handles PUT /api/v1/products/{id} (admin).
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationErrors(w, errs)
		return
	}

	product, err := c.products.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, product)
}

// Delete handles DELETE /api/v1/products/{id} (admin).
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, nil)
}

// Stats handles GET /api/v1/products/stats/all (admin).
func (c *ProductController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.products.Stats(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, stats)
}
