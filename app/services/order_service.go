// Package services holds the business logic between controllers and
// repositories.
package services

import (
	"context"
	"strings"

	"github.com/fashionhub/storefront/app/models"
	"github.com/fashionhub/storefront/app/repositories"
	"github.com/fashionhub/storefront/pkg/apperrors"
	"github.com/fashionhub/storefront/pkg/event"
	"github.com/fashionhub/storefront/pkg/logger"
	"github.com/fashionhub/storefront/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventOrderCreated is fired after an order is persisted. The payload is
// the *models.Order.
const EventOrderCreated = "order.created"

// ProductStock is the slice of the product store the order flow needs.
type ProductStock interface {
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (*models.Product, error)
	IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

// OrderStore persists and queries orders.
type OrderStore interface {
	Insert(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	List(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error)
	Stats(ctx context.Context) (*repositories.OrderStats, error)
}

// OrderService implements the order placement transaction and queries.
type OrderService struct {
	orders   OrderStore
	products ProductStock
}

// NewOrderService wires the service to its stores.
func NewOrderService(orders OrderStore, products ProductStock) *OrderService {
	return &OrderService{orders: orders, products: products}
}

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID     string                `json:"product" validate:"required"`
	Quantity      int                   `json:"quantity" validate:"required,gte=1"`
	Customization *models.Customization `json:"customization"`
}

// CreateOrderInput is the checkout request body.
type CreateOrderInput struct {
	Items           []OrderItemInput       `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   models.PaymentMethod   `json:"paymentMethod" validate:"required"`
}

// decremented records one applied stock decrement for compensation.
type decremented struct {
	id  primitive.ObjectID
	qty int
}

// Create places an order. Items are processed in request order; each one
// passes through an atomic conditional stock decrement, so a product that
// exists but holds less stock than requested fails the whole request. Any
// failure after the first decrement re-increments every product already
// decremented, then returns with no order persisted.
func (s *OrderService) Create(ctx context.Context, userID string, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		metrics.OrdersRejected.WithLabelValues("empty_items").Inc()
		return nil, apperrors.Validationf("Order must contain at least one item")
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.Unauthenticated("Not authorized to access this route")
	}
	if !models.ValidPaymentMethod(in.PaymentMethod) {
		return nil, apperrors.Validationf("Invalid payment method")
	}

	var (
		applied []decremented
		total   float64
		lines   []models.OrderItem
	)

	rollback := func() {
		for _, d := range applied {
			if incErr := s.products.IncrementStock(ctx, d.id, d.qty); incErr != nil {
				// Stock now undercounts; surfaced for manual correction.
				logger.Error("orders: stock compensation failed",
					"product", d.id.Hex(), "quantity", d.qty, "error", incErr)
			}
		}
	}

	for _, item := range in.Items {
		if item.Quantity < 1 {
			rollback()
			return nil, apperrors.Validationf("Quantity must be at least 1")
		}
		pid, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			rollback()
			metrics.OrdersRejected.WithLabelValues("not_found").Inc()
			return nil, apperrors.NotFoundf("Product not found")
		}

		product, err := s.products.DecrementStock(ctx, pid, item.Quantity)
		if err != nil {
			rollback()
			s.countRejection(err)
			return nil, err
		}

		applied = append(applied, decremented{id: pid, qty: item.Quantity})
		total += product.Price * float64(item.Quantity)
		lines = append(lines, models.OrderItem{
			Product:       pid,
			Quantity:      item.Quantity,
			Price:         product.Price,
			Customization: item.Customization,
		})
	}

	order := &models.Order{
		User:            uid,
		Items:           lines,
		TotalAmount:     total,
		Status:          models.StatusPending,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   models.PaymentPending,
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		rollback()
		return nil, err
	}

	metrics.OrdersPlaced.Inc()
	event.FireAsync(ctx, EventOrderCreated, order)
	return order, nil
}

func (s *OrderService) countRejection(err error) {
	switch {
	case apperrors.IsKind(err, apperrors.NotFound):
		metrics.OrdersRejected.WithLabelValues("not_found").Inc()
	case apperrors.IsKind(err, apperrors.Validation):
		metrics.OrdersRejected.WithLabelValues("insufficient_stock").Inc()
	}
}

// List returns the caller's orders, or every order for admins, newest
// first, with the pagination descriptor.
func (s *OrderService) List(ctx context.Context, userID string, role string, page, limit int) ([]models.Order, int64, repositories.Pagination, error) {
	page, limit = repositories.NormalizePage(page, limit)

	var filterUser primitive.ObjectID
	if !strings.EqualFold(role, string(models.RoleAdmin)) {
		uid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return nil, 0, repositories.Pagination{}, apperrors.Unauthenticated("Not authorized to access this route")
		}
		filterUser = uid
	}

	orders, total, err := s.orders.List(ctx, filterUser, page, limit)
	if err != nil {
		return nil, 0, repositories.Pagination{}, err
	}
	return orders, total, repositories.NewPagination(page, limit, total), nil
}

// ListMine returns only the caller's orders regardless of role.
func (s *OrderService) ListMine(ctx context.Context, userID string, page, limit int) ([]models.Order, int64, repositories.Pagination, error) {
	page, limit = repositories.NormalizePage(page, limit)
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, 0, repositories.Pagination{}, apperrors.Unauthenticated("Not authorized to access this route")
	}
	orders, total, err := s.orders.List(ctx, uid, page, limit)
	if err != nil {
		return nil, 0, repositories.Pagination{}, err
	}
	return orders, total, repositories.NewPagination(page, limit, total), nil
}

// Get returns one order. Only the owner or an admin may read it; anyone
// else gets an authorization error answered with 401.
func (s *OrderService) Get(ctx context.Context, id string, userID string, role string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFoundf("Order not found")
	}

	order, err := s.orders.Get(ctx, oid)
	if err != nil {
		return nil, err
	}
	if order.User.Hex() != userID && !strings.EqualFold(role, string(models.RoleAdmin)) {
		return nil, apperrors.Unauthorized("Not authorized to access this order")
	}
	return order, nil
}

// UpdateStatus sets an order's status. Any of the five values may follow
// any other; there is no transition validation.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, apperrors.Validationf("Invalid order status")
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFoundf("Order not found")
	}
	return s.orders.UpdateStatus(ctx, oid, status)
}

// Stats returns the aggregate order statistics.
func (s *OrderService) Stats(ctx context.Context) (*repositories.OrderStats, error) {
	return s.orders.Stats(ctx)
}
