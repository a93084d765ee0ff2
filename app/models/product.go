// Package models defines the document schemas stored in MongoDB.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is a product category.
type Category string

const (
	CategoryTShirts     Category = "t-shirts"
	CategoryHoodies     Category = "hoodies"
	CategoryJackets     Category = "jackets"
	CategoryPants       Category = "pants"
	CategoryAccessories Category = "accessories"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryTShirts, CategoryHoodies, CategoryJackets, CategoryPants, CategoryAccessories,
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c Category) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Size is a garment size.
type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

// PrintLocation is where a custom design is printed on a garment.
type PrintLocation string

const (
	PrintFront       PrintLocation = "front"
	PrintBack        PrintLocation = "back"
	PrintLeftSleeve  PrintLocation = "left-sleeve"
	PrintRightSleeve PrintLocation = "right-sleeve"
)

// CustomizationOptions lists what a customizable product allows.
type CustomizationOptions struct {
	Colors         []string        `bson:"colors,omitempty" json:"colors,omitempty"`
	Sizes          []Size          `bson:"sizes,omitempty" json:"sizes,omitempty"`
	PrintLocations []PrintLocation `bson:"printLocations,omitempty" json:"printLocations,omitempty"`
}

// Product is a catalog entry in the products collection.
type Product struct {
	ID                   primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name                 string               `bson:"name" json:"name"`
	Description          string               `bson:"description" json:"description"`
	Price                float64              `bson:"price" json:"price"`
	Category             Category             `bson:"category" json:"category"`
	Stock                int                  `bson:"stock" json:"stock"`
	ImageURL             string               `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	IsCustomizable       bool                 `bson:"isCustomizable" json:"isCustomizable"`
	CustomizationOptions CustomizationOptions `bson:"customizationOptions,omitempty" json:"customizationOptions,omitempty"`
	CreatedAt            time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time            `bson:"updatedAt" json:"updatedAt"`
}
