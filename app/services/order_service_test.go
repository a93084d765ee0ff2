package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fashionhub/storefront/app/models"
	"github.com/fashionhub/storefront/app/repositories"
	"github.com/fashionhub/storefront/app/services"
	"github.com/fashionhub/storefront/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeProducts is an in-memory ProductStock with the same conditional
// decrement semantics as the Mongo repository.
type fakeProducts struct {
	products map[primitive.ObjectID]*models.Product
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{products: map[primitive.ObjectID]*models.Product{}}
}

func (f *fakeProducts) add(price float64, stock int) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.products[id] = &models.Product{ID: id, Name: "item", Price: price, Stock: stock}
	return id
}

func (f *fakeProducts) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) (*models.Product, error) {
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

func (f *fakeProducts) IncrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	p, ok := f.products[id]
	if !ok {
		return fmt.Errorf("missing product %s", id.Hex())
	}
	p.Stock += qty
	return nil
}

// fakeOrders is an in-memory OrderStore.
type fakeOrders struct {
	orders    []models.Order
	insertErr error
}

func (f *fakeOrders) Insert(_ context.Context, o *models.Order) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	o.ID = primitive.NewObjectID()
	o.CreatedAt = time.Now()
	f.orders = append(f.orders, *o)
	return nil
}

func (f *fakeOrders) Get(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	for i := range f.orders {
		if f.orders[i].ID == id {
			o := f.orders[i]
			return &o, nil
		}
	}
	return nil, apperrors.NotFoundf("Order not found")
}

func (f *fakeOrders) List(_ context.Context, userID primitive.ObjectID, page, limit int) ([]models.Order, int64, error) {
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

func (f *fakeOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = status
			o := f.orders[i]
			return &o, nil
		}
	}
	return nil, apperrors.NotFoundf("Order not found")
}

func (f *fakeOrders) Stats(context.Context) (*repositories.OrderStats, error) {
	return &repositories.OrderStats{}, nil
}

func validInput(items ...services.OrderItemInput) services.CreateOrderInput {
	return services.CreateOrderInput{
		Items:         items,
		PaymentMethod: models.PaymentCreditCard,
		ShippingAddress: models.ShippingAddress{
			Street: "1 Main St", City: "Springfield", State: "IL",
			ZipCode: "62701", Country: "US",
		},
	}
}

func TestCreateOrderDrainsStockThenRejects(t *testing.T) {
	products := newFakeProducts()
	orders := &fakeOrders{}
	svc := services.NewOrderService(orders, products)
	userID := primitive.NewObjectID().Hex()

	pid := products.add(19.99, 3)

	order, err := svc.Create(context.Background(), userID, validInput(
		services.OrderItemInput{ProductID: pid.Hex(), Quantity: 3},
	))
	require.NoError(t, err)
	assert.Equal(t, 0, products.products[pid].Stock)
	assert.Equal(t, models.StatusPending, order.Status)

	_, err = svc.Create(context.Background(), userID, validInput(
		services.OrderItemInput{ProductID: pid.Hex(), Quantity: 1},
	))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.Validation))
}

func TestCreateOrderComputesTotalFromSnapshots(t *testing.T) {
	products := newFakeProducts()
	orders := &fakeOrders{}
	svc := services.NewOrderService(orders, products)

	a := products.add(10, 5)
	b := products.add(5, 5)

	order, err := svc.Create(context.Background(), primitive.NewObjectID().Hex(), validInput(
		services.OrderItemInput{ProductID: a.Hex(), Quantity: 2},
		services.OrderItemInput{ProductID: b.Hex(), Quantity: 1},
	))
	require.NoError(t, err)
	assert.Equal(t, 25.0, order.TotalAmount)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 10.0, order.Items[0].Price)
	assert.Equal(t, 5.0, order.Items[1].Price)
}

func TestCreateOrderEmptyItemsRejected(t *testing.T) {
	svc := services.NewOrderService(&fakeOrders{}, newFakeProducts())

	_, err := svc.Create(context.Background(), primitive.NewObjectID().Hex(), validInput())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.Validation))
}

func TestCreateOrderUnknownProductRejected(t *testing.T) {
	svc := services.NewOrderService(&fakeOrders{}, newFakeProducts())

	_, err := svc.Create(context.Background(), primitive.NewObjectID().Hex(), validInput(
		services.OrderItemInput{ProductID: primitive.NewObjectID().Hex(), Quantity: 1},
	))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.NotFound))
}

func TestCreateOrderCompensatesEarlierDecrements(t *testing.T) {
	products := newFakeProducts()
	orders := &fakeOrders{}
	svc := services.NewOrderService(orders, products)

	a := products.add(10, 5)
	b := products.add(5, 1)

	_, err := svc.Create(context.Background(), primitive.NewObjectID().Hex(), validInput(
		services.OrderItemInput{ProductID: a.Hex(), Quantity: 2},
		services.OrderItemInput{ProductID: b.Hex(), Quantity: 3}, // insufficient
	))
	require.Error(t, err)

	// The first item's decrement is rolled back, no order persisted.
	assert.Equal(t, 5, products.products[a].Stock)
	assert.Equal(t, 1, products.products[b].Stock)
	assert.Empty(t, orders.orders)
}

func TestCreateOrderCompensatesWhenPersistFails(t *testing.T) {
	products := newFakeProducts()
	orders := &fakeOrders{insertErr: errors.New("write conflict")}
	svc := services.NewOrderService(orders, products)

	a := products.add(10, 5)

	_, err := svc.Create(context.Background(), primitive.NewObjectID().Hex(), validInput(
		services.OrderItemInput{ProductID: a.Hex(), Quantity: 2},
	))
	require.Error(t, err)
	assert.Equal(t, 5, products.products[a].Stock)
}

func TestListPagination(t *testing.T) {
	products := newFakeProducts()
	orders := &fakeOrders{}
	svc := services.NewOrderService(orders, products)
	userID := primitive.NewObjectID()

	pid := products.add(10, 1000)
	for i := 0; i < 25; i++ {
		_, err := svc.Create(context.Background(), userID.Hex(), validInput(
			services.OrderItemInput{ProductID: pid.Hex(), Quantity: 1},
		))
		require.NoError(t, err)
	}

	page, _, pagination, err := svc.ListMine(context.Background(), userID.Hex(), 2, 10)
	require.NoError(t, err)
	assert.Len(t, page, 10)
	assert.Equal(t, page[0].ID, orders.orders[10].ID)
	assert.Equal(t, page[9].ID, orders.orders[19].ID)

	require.NotNil(t, pagination.Prev)
	assert.Equal(t, repositories.PageRef{Page: 1, Limit: 10}, *pagination.Prev)
	require.NotNil(t, pagination.Next)
	assert.Equal(t, repositories.PageRef{Page: 3, Limit: 10}, *pagination.Next)

	// Page 3 holds the final 5 orders and only a prev descriptor.
	page, _, pagination, err = svc.ListMine(context.Background(), userID.Hex(), 3, 10)
	require.NoError(t, err)
	assert.Len(t, page, 5)
	assert.Nil(t, pagination.Next)
	require.NotNil(t, pagination.Prev)
	assert.Equal(t, 2, pagination.Prev.Page)
}

func TestGetEnforcesOwnerOrAdmin(t *testing.T) {
	products := newFakeProducts()
	orders := &fakeOrders{}
	svc := services.NewOrderService(orders, products)

	owner := primitive.NewObjectID().Hex()
	pid := products.add(10, 10)
	order, err := svc.Create(context.Background(), owner, validInput(
		services.OrderItemInput{ProductID: pid.Hex(), Quantity: 1},
	))
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), order.ID.Hex(), owner, "user")
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), order.ID.Hex(), primitive.NewObjectID().Hex(), "admin")
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), order.ID.Hex(), primitive.NewObjectID().Hex(), "user")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.Authorization))
}

func TestUpdateStatusAcceptsAnyTransition(t *testing.T) {
	products := newFakeProducts()
	orders := &fakeOrders{}
	svc := services.NewOrderService(orders, products)

	pid := products.add(10, 10)
	order, err := svc.Create(context.Background(), primitive.NewObjectID().Hex(), validInput(
		services.OrderItemInput{ProductID: pid.Hex(), Quantity: 1},
	))
	require.NoError(t, err)

	// Transitions are deliberately unguarded, delivered back to pending
	// included.
	for _, status := range []models.OrderStatus{
		models.StatusDelivered, models.StatusPending, models.StatusCancelled,
	} {
		updated, err := svc.UpdateStatus(context.Background(), order.ID.Hex(), status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	_, err = svc.UpdateStatus(context.Background(), order.ID.Hex(), "misplaced")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.Validation))
}
