package controllers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fashionhub/storefront/app/controllers"
	"github.com/fashionhub/storefront/app/models"
	"github.com/fashionhub/storefront/app/repositories"
	"github.com/fashionhub/storefront/app/services"
	"github.com/fashionhub/storefront/pkg/apperrors"
	"github.com/fashionhub/storefront/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memProducts and memOrders mirror the service-level fakes so the
// controller can be exercised through a real chi router.
type memProducts struct {
	products map[primitive.ObjectID]*models.Product
}

func (f *memProducts) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperrors.NotFoundf("Product not found")
	}
	if p.Stock < qty {
		return nil, apperrors.Validationf("Insufficient stock for product %s", id.Hex())
	}
	p.Stock -= qty
	cp := *p
	return &cp, nil
}

func (f *memProducts) IncrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	if p, ok := f.products[id]; ok {
		p.Stock += qty
		return nil
	}
	return fmt.Errorf("missing product %s", id.Hex())
}

type memOrders struct {
	orders []models.Order
}

func (f *memOrders) Insert(_ context.Context, o *models.Order) error {
	o.ID = primitive.NewObjectID()
	o.CreatedAt = time.Now()
	f.orders = append(f.orders, *o)
	return nil
}

func (f *memOrders) Get(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	for i := range f.orders {
		if f.orders[i].ID == id {
			o := f.orders[i]
			return &o, nil
		}
	}
	return nil, apperrors.NotFoundf("Order not found")
}

func (f *memOrders) List(_ context.Context, userID primitive.ObjectID, page, limit int) ([]models.Order, int64, error) {
	matched := []models.Order{}
	for _, o := range f.orders {
		if userID.IsZero() || o.User == userID {
			matched = append(matched, o)
		}
	}
	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return []models.Order{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *memOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = status
			o := f.orders[i]
			return &o, nil
		}
	}
	return nil, apperrors.NotFoundf("Order not found")
}

func (f *memOrders) Stats(context.Context) (*repositories.OrderStats, error) {
	return &repositories.OrderStats{}, nil
}

type fixture struct {
	router   chi.Router
	products *memProducts
	orders   *memOrders
}

func newFixture() *fixture {
	products := &memProducts{products: map[primitive.ObjectID]*models.Product{}}
	orders := &memOrders{}
	c := controllers.NewOrderController(services.NewOrderService(orders, products))

	r := chi.NewRouter()
	r.Post("/orders", c.Create)
	r.Get("/orders/my", c.Mine)
	r.Get("/orders/{id}", c.Get)
	r.Put("/orders/{id}/status", c.UpdateStatus)
	return &fixture{router: r, products: products, orders: orders}
}

func (f *fixture) addProduct(price float64, stock int) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.products.products[id] = &models.Product{ID: id, Name: "item", Price: price, Stock: stock}
	return id
}

func (f *fixture) do(method, path, body, userID, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req = middleware.WithUser(req, userID, role)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func orderBody(pid primitive.ObjectID, qty int) string {
	return fmt.Sprintf(`{
		"items": [{"product": %q, "quantity": %d, "customization": {"size": "M", "color": "black"}}],
		"shippingAddress": {"street": "1 Main St", "city": "Springfield", "state": "IL", "zipCode": "62701", "country": "US"},
		"paymentMethod": "credit_card"
	}`, pid.Hex(), qty)
}

func TestCreateOrderEndpoint(t *testing.T) {
	f := newFixture()
	pid := f.addProduct(19.99, 3)
	user := primitive.NewObjectID().Hex()

	rec := f.do(http.MethodPost, "/orders", orderBody(pid, 2), user, "user")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := parseBody(t, rec)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.InDelta(t, 39.98, data["totalAmount"], 0.001)
	assert.Equal(t, "pending", data["status"])
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	f := newFixture()
	pid := f.addProduct(19.99, 1)

	rec := f.do(http.MethodPost, "/orders", orderBody(pid, 2), primitive.NewObjectID().Hex(), "user")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := parseBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "Insufficient stock")
}

func TestCreateOrderRejectsMalformedJSON(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodPost, "/orders", `{"items": [`, primitive.NewObjectID().Hex(), "user")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderWithoutIdentity(t *testing.T) {
	f := newFixture()
	pid := f.addProduct(10, 5)
	rec := f.do(http.MethodPost, "/orders", orderBody(pid, 1), "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetOrderOwnership(t *testing.T) {
	f := newFixture()
	pid := f.addProduct(10, 5)
	owner := primitive.NewObjectID().Hex()

	rec := f.do(http.MethodPost, "/orders", orderBody(pid, 1), owner, "user")
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := parseBody(t, rec)["data"].(map[string]interface{})["id"].(string)

	rec = f.do(http.MethodGet, "/orders/"+orderID, "", owner, "user")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/orders/"+orderID, "", primitive.NewObjectID().Hex(), "user")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodGet, "/orders/"+orderID, "", primitive.NewObjectID().Hex(), "admin")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMinePagination(t *testing.T) {
	f := newFixture()
	pid := f.addProduct(10, 100)
	user := primitive.NewObjectID().Hex()

	for i := 0; i < 25; i++ {
		rec := f.do(http.MethodPost, "/orders", orderBody(pid, 1), user, "user")
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := f.do(http.MethodGet, "/orders/my?page=2&limit=10", "", user, "user")
	require.Equal(t, http.StatusOK, rec.Code)

	body := parseBody(t, rec)
	assert.Equal(t, float64(10), body["count"])
	page := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), page["prev"].(map[string]interface{})["page"])
	assert.Equal(t, float64(3), page["next"].(map[string]interface{})["page"])
}

func TestUpdateStatusEndpoint(t *testing.T) {
	f := newFixture()
	pid := f.addProduct(10, 5)
	admin := primitive.NewObjectID().Hex()

	rec := f.do(http.MethodPost, "/orders", orderBody(pid, 1), admin, "admin")
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := parseBody(t, rec)["data"].(map[string]interface{})["id"].(string)

	rec = f.do(http.MethodPut, "/orders/"+orderID+"/status", `{"status": "shipped"}`, admin, "admin")
	require.Equal(t, http.StatusOK, rec.Code)
	data := parseBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "shipped", data["status"])

	rec = f.do(http.MethodPut, "/orders/"+orderID+"/status", `{"status": "lost"}`, admin, "admin")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
