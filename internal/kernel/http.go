// Package kernel assembles the HTTP surface: global middleware, the route
// table, and the operational endpoints.
package kernel

import (
	"net/http"
	"time"

	appgraphql "github.com/fashionhub/storefront/app/graphql"
	"github.com/fashionhub/storefront/app/repositories"
	"github.com/fashionhub/storefront/app/routes"
	"github.com/fashionhub/storefront/app/services"

	"github.com/fashionhub/storefront/app/controllers"
	gql "github.com/fashionhub/storefront/pkg/graphql"
	"github.com/fashionhub/storefront/pkg/logger"
	"github.com/fashionhub/storefront/pkg/metrics"
	"github.com/fashionhub/storefront/pkg/middleware"
	"github.com/fashionhub/storefront/pkg/rbac"
	"github.com/fashionhub/storefront/pkg/reqid"
	"github.com/fashionhub/storefront/pkg/response"
	"github.com/fashionhub/storefront/pkg/router"
	"github.com/fashionhub/storefront/pkg/sse"
	"github.com/fashionhub/storefront/pkg/ws"

	"go.mongodb.org/mongo-driver/mongo"
)

// Services bundles the constructed service layer.
type Services struct {
	Auth     *services.AuthService
	Products *services.ProductService
	Orders   *services.OrderService
}

// BuildServices constructs repositories and services over the database.
func BuildServices(db *mongo.Database) Services {
	productRepo := repositories.NewProductRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	userRepo := repositories.NewUserRepository(db)

	return Services{
		Auth:     services.NewAuthService(userRepo),
		Products: services.NewProductService(productRepo),
		Orders:   services.NewOrderService(orderRepo, productRepo),
	}
}

// BuildRouter assembles the full HTTP handler. hub and events may be nil
// in tests; their routes are only mounted when provided.
func BuildRouter(svcs Services, hub *ws.Hub, events *sse.Broker) *router.Router {
	r := router.New()

	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(100, time.Minute),
	)
	r.NotFound(response.RouteNotFound)

	routes.Register(r, routes.Controllers{
		Auth:     controllers.NewAuthController(svcs.Auth),
		Products: controllers.NewProductController(svcs.Products),
		Orders:   controllers.NewOrderController(svcs.Orders),
		Uploads:  controllers.NewUploadController(),
	})

	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})

	schema, err := appgraphql.CatalogSchema(svcs.Products)
	if err != nil {
		logger.Error("kernel: cannot build graphql schema", "error", err)
	} else {
		r.Post("/graphql", "graphql", gql.Handler(schema))
	}

	if hub != nil {
		r.Get("/ws/admin/orders", "ws.orders", hub.ServeHTTP,
			middleware.Auth, rbac.HasRole("admin"))
	}
	if events != nil {
		r.Get("/events/admin/orders", "sse.orders", events.ServeHTTP,
			middleware.Auth, rbac.HasRole("admin"))
	}

	return r
}
