// Package repositories implements data access over MongoDB. Repositories
// return models and apperrors; they never touch the HTTP layer.
package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/fashionhub/storefront/config"
	"github.com/fashionhub/storefront/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	client *mongo.Client
	db     *mongo.Database
)

// Connect establishes the MongoDB connection used by all repositories.
func Connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(config.MongoURI()).
		SetMaxPoolSize(50)

	c, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("mongo: connect: %w", err)
	}
	if err := c.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo: ping: %w", err)
	}

	client = c
	db = c.Database(config.MongoDB())
	logger.Info("mongo: connected", "database", config.MongoDB())
	return nil
}

// DB returns the connected database. Connect must have succeeded first.
func DB() *mongo.Database { return db }

// Disconnect closes the client connection.
func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}
