// Package routes declares the HTTP route table.
package routes

import (
	"github.com/fashionhub/storefront/app/controllers"
	"github.com/fashionhub/storefront/pkg/middleware"
	"github.com/fashionhub/storefront/pkg/rbac"
	"github.com/fashionhub/storefront/pkg/router"
)

// Controllers bundles everything the route table mounts.
type Controllers struct {
	Auth     *controllers.AuthController
	Products *controllers.ProductController
	Orders   *controllers.OrderController
	Uploads  *controllers.UploadController
}

// Register mounts the /api/v1 route table.
func Register(r *router.Router, c Controllers) {
	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", "auth.register", c.Auth.Register)
	authGroup.Post("/login", "auth.login", c.Auth.Login)
	authGroup.Get("/me", "auth.me", c.Auth.Me, middleware.Auth)

	products := api.Group("/products")
	products.Get("/", "products.list", c.Products.List)
	// Registered before /{id} so "stats" is not captured as an id.
	products.Get("/stats/all", "products.stats", c.Products.Stats, middleware.Auth, rbac.HasRole("admin"))
	products.Get("/{id}", "products.get", c.Products.Get)
	products.Post("/", "products.create", c.Products.Create, middleware.Auth, rbac.HasRole("admin"))
	products.Put("/{id}", "products.update", c.Products.Update, middleware.Auth, rbac.HasRole("admin"))
	products.Delete("/{id}", "products.delete", c.Products.Delete, middleware.Auth, rbac.HasRole("admin"))

	orders := api.Group("/orders", middleware.Auth)
	orders.Post("/", "orders.create", c.Orders.Create)
	orders.Get("/my", "orders.mine", c.Orders.Mine)
	orders.Get("/stats/all", "orders.stats", c.Orders.Stats, rbac.HasRole("admin"))
	orders.Get("/{id}", "orders.get", c.Orders.Get)
	orders.Get("/", "orders.list", c.Orders.List, rbac.HasRole("admin"))
	orders.Put("/{id}/status", "orders.status", c.Orders.UpdateStatus, rbac.HasRole("admin"))

	uploads := api.Group("/uploads", middleware.Auth)
	uploads.Post("/design", "uploads.design", c.Uploads.Design)
}
