package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fashionhub/storefront/app/models"
	"github.com/fashionhub/storefront/pkg/apperrors"
	"github.com/fashionhub/storefront/pkg/crypt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// orderDoc is the persisted shape of an order. The shipping address is a
// single AES-GCM ciphertext so the PII never reaches the database in clear.
type orderDoc struct {
	models.Order    `bson:",inline"`
	ShippingAddress string `bson:"shippingAddress"`
}

// OrderRepository stores orders.
type OrderRepository struct {
	col *mongo.Collection
}

// NewOrderRepository creates a repository over the orders collection.
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection("orders")}
}

func encodeOrder(o *models.Order) (orderDoc, error) {
	enc, err := crypt.EncryptJSON(o.ShippingAddress)
	if err != nil {
		return orderDoc{}, fmt.Errorf("orders: encrypt shipping address: %w", err)
	}
	return orderDoc{Order: *o, ShippingAddress: enc}, nil
}

func decodeOrder(doc orderDoc) (models.Order, error) {
	o := doc.Order
	if doc.ShippingAddress != "" {
		if err := crypt.DecryptJSON(doc.ShippingAddress, &o.ShippingAddress); err != nil {
			return o, fmt.Errorf("orders: decrypt shipping address: %w", err)
		}
	}
	return o, nil
}

// Insert persists a new order and fills in its id.
func (r *OrderRepository) Insert(ctx context.Context, o *models.Order) error {
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	if o.Status == "" {
		o.Status = models.StatusPending
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = models.PaymentPending
	}

	doc, err := encodeOrder(o)
	if err != nil {
		return err
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("orders: insert: %w", err)
	}
	o.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Get returns a single order by id.
func (r *OrderRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var doc orderDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFoundf("Order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("orders: get %s: %w", id.Hex(), err)
	}
	o, err := decodeOrder(doc)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// List returns orders newest first, paginated. A zero userID lists every
// order; otherwise only that user's orders are returned.
func (r *OrderRepository) List(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]models.Order, int64, error) {
	query := bson.M{}
	if !userID.IsZero() {
		query["user"] = userID
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("orders: count: %w", err)
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("orders: find: %w", err)
	}
	defer cur.Close(ctx)

	orders := []models.Order{}
	for cur.Next(ctx) {
		var doc orderDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("orders: decode: %w", err)
		}
		o, err := decodeOrder(doc)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("orders: cursor: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus sets the order status and returns the updated order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDoc
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFoundf("Order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("orders: update status %s: %w", id.Hex(), err)
	}
	o, err := decodeOrder(doc)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// OrderStats is the aggregate view served to the admin dashboard.
type OrderStats struct {
	TotalOrders   int64            `json:"totalOrders"`
	TotalRevenue  float64          `json:"totalRevenue"`
	AvgOrderValue float64          `json:"avgOrderValue"`
	ByStatus      map[string]int64 `json:"byStatus"`
	Daily         []DailyStat      `json:"daily"`
}

// DailyStat is revenue and order count for one calendar day.
type DailyStat struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Count   int64   `json:"count"`
}

// Stats computes order totals, a count-by-status breakdown, and per-day
// revenue for the last 7 calendar days, newest day first.
func (r *OrderRepository) Stats(ctx context.Context) (*OrderStats, error) {
	stats := &OrderStats{ByStatus: map[string]int64{}}

	totalsPipe := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"totalOrders":   bson.M{"$sum": 1},
			"totalRevenue":  bson.M{"$sum": "$totalAmount"},
			"avgOrderValue": bson.M{"$avg": "$totalAmount"},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, totalsPipe)
	if err != nil {
		return nil, fmt.Errorf("orders: stats totals: %w", err)
	}
	var totals []struct {
		TotalOrders   int64   `bson:"totalOrders"`
		TotalRevenue  float64 `bson:"totalRevenue"`
		AvgOrderValue float64 `bson:"avgOrderValue"`
	}
	if err := cur.All(ctx, &totals); err != nil {
		return nil, fmt.Errorf("orders: stats totals decode: %w", err)
	}
	if len(totals) > 0 {
		stats.TotalOrders = totals[0].TotalOrders
		stats.TotalRevenue = totals[0].TotalRevenue
		stats.AvgOrderValue = totals[0].AvgOrderValue
	}

	statusPipe := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err = r.col.Aggregate(ctx, statusPipe)
	if err != nil {
		return nil, fmt.Errorf("orders: stats by status: %w", err)
	}
	var byStatus []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &byStatus); err != nil {
		return nil, fmt.Errorf("orders: stats by status decode: %w", err)
	}
	for _, s := range byStatus {
		stats.ByStatus[s.Status] = s.Count
	}

	since := time.Now().AddDate(0, 0, -7)
	dailyPipe := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$createdAt",
			}},
			"revenue": bson.M{"$sum": "$totalAmount"},
			"count":   bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": -1}}},
	}
	cur, err = r.col.Aggregate(ctx, dailyPipe)
	if err != nil {
		return nil, fmt.Errorf("orders: stats daily: %w", err)
	}
	var daily []struct {
		Date    string  `bson:"_id"`
		Revenue float64 `bson:"revenue"`
		Count   int64   `bson:"count"`
	}
	if err := cur.All(ctx, &daily); err != nil {
		return nil, fmt.Errorf("orders: stats daily decode: %w", err)
	}
	for _, d := range daily {
		stats.Daily = append(stats.Daily, DailyStat(d))
	}

	return stats, nil
}
