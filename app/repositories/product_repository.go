package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fashionhub/storefront/app/models"
	"github.com/fashionhub/storefront/pkg/apperrors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductFilter narrows List results.
type ProductFilter struct {
	Category       models.Category
	MinPrice       *float64
	MaxPrice       *float64
	IsCustomizable *bool
	Search         string
}

// ProductRepository stores products.
type ProductRepository struct {
	col *mongo.Collection
}

// NewProductRepository creates a repository over the products collection.
func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection("products")}
}

func (r *ProductRepository) filterQuery(f ProductFilter) bson.M {
	query := bson.M{}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		rangeQ := bson.M{}
		if f.MinPrice != nil {
			rangeQ["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			rangeQ["$lte"] = *f.MaxPrice
		}
		query["price"] = rangeQ
	}
	if f.IsCustomizable != nil {
		query["isCustomizable"] = *f.IsCustomizable
	}
	if f.Search != "" {
		query["$text"] = bson.M{"$search": f.Search}
	}
	return query
}

// List returns products matching the filter, paginated, with the total
// matching count.
func (r *ProductRepository) List(ctx context.Context, f ProductFilter, page, limit int) ([]models.Product, int64, error) {
	query := r.filterQuery(f)

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("products: count: %w", err)
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("products: find: %w", err)
	}
	defer cur.Close(ctx)

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("products: decode: %w", err)
	}
	return products, total, nil
}

// Get returns the product with the given id.
func (r *ProductRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFoundf("Product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("products: get %s: %w", id.Hex(), err)
	}
	return &p, nil
}

// Create inserts a product and fills in its id and timestamps.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("products: insert: %w", err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Update replaces the mutable fields of a product.
func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, p *models.Product) (*models.Product, error) {
	update := bson.M{"$set": bson.M{
		"name":                 p.Name,
		"description":          p.Description,
		"price":                p.Price,
		"category":             p.Category,
		"stock":                p.Stock,
		"imageUrl":             p.ImageURL,
		"isCustomizable":       p.IsCustomizable,
		"customizationOptions": p.CustomizationOptions,
		"updatedAt":            time.Now(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFoundf("Product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("products: update %s: %w", id.Hex(), err)
	}
	return &updated, nil
}

// Delete removes a product.
func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("products: delete %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFoundf("Product not found")
	}
	return nil
}

// DecrementStock atomically decrements stock by qty, but only while the
// product still holds at least qty units. A product that exists with less
// stock yields an insufficient-stock validation error; a missing product
// yields not-found. The conditional filter is what makes two concurrent
// orders for the last unit resolve correctly: only one update matches.
func (r *ProductRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (*models.Product, error) {
	filter := bson.M{"_id": id, "stock": bson.M{"$gte": qty}}
	update := bson.M{
		"$inc": bson.M{"stock": -qty},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Product
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Distinguish missing product from insufficient stock.
		exists, exErr := r.exists(ctx, id)
		if exErr != nil {
			return nil, exErr
		}
		if !exists {
			return nil, apperrors.NotFoundf("Product not found")
		}
		return nil, apperrors.Validationf("Insufficient stock for product %s", id.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("products: decrement stock %s: %w", id.Hex(), err)
	}
	return &p, nil
}

// IncrementStock returns qty units to stock. It compensates decrements
// applied earlier in an order request that later failed.
func (r *ProductRepository) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	update := bson.M{
		"$inc": bson.M{"stock": qty},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("products: increment stock %s: %w", id.Hex(), err)
	}
	return nil
}

func (r *ProductRepository) exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("products: exists %s: %w", id.Hex(), err)
	}
	return n > 0, nil
}

// Stats aggregates catalog counts grouped by category.
func (r *ProductRepository) Stats(ctx context.Context) (bson.M, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":        "$category",
			"count":      bson.M{"$sum": 1},
			"totalStock": bson.M{"$sum": "$stock"},
			"avgPrice":   bson.M{"$avg": "$price"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("products: stats: %w", err)
	}
	defer cur.Close(ctx)

	byCategory := []bson.M{}
	if err := cur.All(ctx, &byCategory); err != nil {
		return nil, fmt.Errorf("products: stats decode: %w", err)
	}

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("products: stats count: %w", err)
	}

	return bson.M{
		"totalProducts": total,
		"byCategory":    byCategory,
	}, nil
}
