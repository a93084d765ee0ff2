// Package migrations registers the storefront's schema migrations.
// Importing the package is enough; migration.Up applies them in order.
package migrations

import (
	"context"

	"github.com/fashionhub/storefront/pkg/migration"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func init() {
	migration.Register(migration.Migration{
		Version: 2025090101,
		Name:    "product_indexes",
		Up:      productIndexesUp,
		Down:    dropIndexes("products", "category_1", "price_1", "isCustomizable_1", "name_text_description_text"),
	})
	migration.Register(migration.Migration{
		Version: 2025090102,
		Name:    "order_indexes",
		Up:      orderIndexesUp,
		Down:    dropIndexes("orders", "user_1_createdAt_-1", "status_1", "paymentStatus_1"),
	})
	migration.Register(migration.Migration{
		Version: 2025090103,
		Name:    "user_email_unique",
		Up:      userIndexesUp,
		Down:    dropIndexes("users", "email_1"),
	})
}

func productIndexesUp(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("products").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "isCustomizable", Value: 1}}},
		{Keys: bson.D{
			{Key: "name", Value: "text"},
			{Key: "description", Value: "text"},
		}},
	})
	return err
}

func orderIndexesUp(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("orders").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "paymentStatus", Value: 1}}},
	})
	return err
}

func userIndexesUp(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func dropIndexes(collection string, names ...string) func(context.Context, *mongo.Database) error {
	return func(ctx context.Context, db *mongo.Database) error {
		for _, name := range names {
			if _, err := db.Collection(collection).Indexes().DropOne(ctx, name); err != nil {
				return err
			}
		}
		return nil
	}
}
