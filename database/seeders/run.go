// Package seeders populates the database with a demo catalog and an
// admin account for local development.
package seeders

import (
	"context"
	"fmt"
	"time"

	"github.com/fashionhub/storefront/app/models"
	"github.com/fashionhub/storefront/pkg/auth"
	"github.com/fashionhub/storefront/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var allSizes = []models.Size{
	models.SizeXS, models.SizeS, models.SizeM, models.SizeL, models.SizeXL, models.SizeXXL,
}

var demoProducts = []models.Product{
	{
		Name:           "Classic Crew Tee",
		Description:    "Heavyweight cotton t-shirt, the base layer for custom prints.",
		Price:          19.99,
		Category:       models.CategoryTShirts,
		Stock:          120,
		IsCustomizable: true,
		CustomizationOptions: models.CustomizationOptions{
			Colors:         []string{"white", "black", "navy", "heather-grey"},
			Sizes:          allSizes,
			PrintLocations: []models.PrintLocation{models.PrintFront, models.PrintBack},
		},
	},
	{
		Name:           "Pullover Hoodie",
		Description:    "Fleece-lined hoodie with a front pouch pocket.",
		Price:          44.99,
		Category:       models.CategoryHoodies,
		Stock:          60,
		IsCustomizable: true,
		CustomizationOptions: models.CustomizationOptions{
			Colors: []string{"black", "forest", "maroon"},
			Sizes:  []models.Size{models.SizeS, models.SizeM, models.SizeL, models.SizeXL},
			PrintLocations: []models.PrintLocation{
				models.PrintFront, models.PrintBack, models.PrintLeftSleeve, models.PrintRightSleeve,
			},
		},
	},
	{
		Name:        "Denim Trucker Jacket",
		Description: "Stonewashed denim jacket with button front.",
		Price:       79.99,
		Category:    models.CategoryJackets,
		Stock:       25,
	},
	{
		Name:        "Relaxed Chinos",
		Description: "Relaxed-fit chinos in stretch twill.",
		Price:       54.99,
		Category:    models.CategoryPants,
		Stock:       80,
	},
	{
		Name:        "Canvas Tote",
		Description: "Natural canvas tote bag.",
		Price:       14.99,
		Category:    models.CategoryAccessories,
		Stock:       200,
		IsCustomizable: true,
		CustomizationOptions: models.CustomizationOptions{
			Colors:         []string{"natural", "black"},
			PrintLocations: []models.PrintLocation{models.PrintFront},
		},
	},
}

// Run seeds products and the default admin. Existing documents are left
// alone, so reseeding is safe.
func Run(ctx context.Context, db *mongo.Database) error {
	products := db.Collection("products")
	for _, p := range demoProducts {
		n, err := products.CountDocuments(ctx, bson.M{"name": p.Name})
		if err != nil {
			return fmt.Errorf("seeders: check product %q: %w", p.Name, err)
		}
		if n > 0 {
			continue
		}
		now := time.Now()
		p.CreatedAt = now
		p.UpdatedAt = now
		if _, err := products.InsertOne(ctx, p); err != nil {
			return fmt.Errorf("seeders: insert product %q: %w", p.Name, err)
		}
		logger.Info("seeders: product created", "name", p.Name)
	}

	return seedAdmin(ctx, db)
}

func seedAdmin(ctx context.Context, db *mongo.Database) error {
	users := db.Collection("users")
	const email = "admin@fashionhub.local"

	n, err := users.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return fmt.Errorf("seeders: check admin: %w", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}
	now := time.Now()
	_, err = users.InsertOne(ctx, models.User{
		Name:      "Admin",
		Email:     email,
		Password:  hash,
		Role:      models.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("seeders: insert admin: %w", err)
	}
	logger.Info("seeders: admin created", "email", email)
	return nil
}
