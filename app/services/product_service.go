package services

import (
	"context"
	"fmt"
	"time"

	"github.com/fashionhub/storefront/app/models"
	"github.com/fashionhub/storefront/app/repositories"
	"github.com/fashionhub/storefront/pkg/apperrors"
	"github.com/fashionhub/storefront/pkg/cache"
	"github.com/fashionhub/storefront/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	productCacheTTL    = 5 * time.Minute
	productCacheVerKey = "products:version"
)

// ProductStore is the product repository surface the service uses.
type ProductStore interface {
	List(ctx context.Context, f repositories.ProductFilter, page, limit int) ([]models.Product, int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, p *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Stats(ctx context.Context) (bson.M, error)
}

// ProductService serves the catalog, with list reads cached in Redis.
// Admin writes bump a version key so stale pages stop being served
// without enumerating every cached page.
type ProductService struct {
	products ProductStore
}

// NewProductService wires the service to its store.
func NewProductService(products ProductStore) *ProductService {
	return &ProductService{products: products}
}

// ProductListResult is a cached page of catalog results.
type ProductListResult struct {
	Products   []models.Product        `json:"products"`
	Total      int64                   `json:"total"`
	Pagination repositories.Pagination `json:"pagination"`
}

func cacheVersion() int64 {
	var v int64
	cache.Get(productCacheVerKey, &v)
	return v
}

func listCacheKey(f repositories.ProductFilter, page, limit int) string {
	min, max := "", ""
	if f.MinPrice != nil {
		min = fmt.Sprintf("%g", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		max = fmt.Sprintf("%g", *f.MaxPrice)
	}
	custom := ""
	if f.IsCustomizable != nil {
		custom = fmt.Sprintf("%t", *f.IsCustomizable)
	}
	return fmt.Sprintf("products:v%d:%s:%s:%s:%s:%s:%d:%d",
		cacheVersion(), f.Category, min, max, custom, f.Search, page, limit)
}

// List returns a catalog page, served from cache when possible.
func (s *ProductService) List(ctx context.Context, f repositories.ProductFilter, page, limit int) (*ProductListResult, error) {
	page, limit = repositories.NormalizePage(page, limit)

	key := listCacheKey(f, page, limit)
	var cached ProductListResult
	if cache.Get(key, &cached) {
		return &cached, nil
	}

	products, total, err := s.products.List(ctx, f, page, limit)
	if err != nil {
		return nil, err
	}

	result := &ProductListResult{
		Products:   products,
		Total:      total,
		Pagination: repositories.NewPagination(page, limit, total),
	}
	cache.Set(key, result, productCacheTTL)
	return result, nil
}

// Get returns one product by id.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	pid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFoundf("Product not found")
	}
	return s.products.Get(ctx, pid)
}

// ProductInput is the admin create/update request body.
type ProductInput struct {
	Name                 string                      `json:"name" validate:"required,max=100"`
	Description          string                      `json:"description" validate:"required,max=1000"`
	Price                float64                     `json:"price" validate:"gte=0"`
	Category             models.Category             `json:"category" validate:"required"`
	Stock                int                         `json:"stock" validate:"gte=0"`
	ImageURL             string                      `json:"imageUrl"`
	IsCustomizable       bool                        `json:"isCustomizable"`
	CustomizationOptions models.CustomizationOptions `json:"customizationOptions"`
}

func (in ProductInput) toModel() (*models.Product, error) {
	if !models.ValidCategory(in.Category) {
		return nil, apperrors.Validationf("Invalid category")
	}
	return &models.Product{
		Name:                 in.Name,
		Description:          in.Description,
		Price:                in.Price,
		Category:             in.Category,
		Stock:                in.Stock,
		ImageURL:             in.ImageURL,
		IsCustomizable:       in.IsCustomizable,
		CustomizationOptions: in.CustomizationOptions,
	}, nil
}

// Create adds a product to the catalog.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	p, err := in.toModel()
	if err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate()
	return p, nil
}

// Update replaces a product's fields.
func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	pid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFoundf("Product not found")
	}
	p, err := in.toModel()
	if err != nil {
		return nil, err
	}
	updated, err := s.products.Update(ctx, pid, p)
	if err != nil {
		return nil, err
	}
	s.invalidate()
	return updated, nil
}

// Delete removes a product from the catalog.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	pid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NotFoundf("Product not found")
	}
	if err := s.products.Delete(ctx, pid); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Stats returns catalog aggregates for the admin dashboard.
func (s *ProductService) Stats(ctx context.Context) (bson.M, error) {
	return s.products.Stats(ctx)
}

func (s *ProductService) invalidate() {
	if _, err := cache.Incr(productCacheVerKey); err != nil {
		logger.Warn("products: cannot bump cache version", "error", err)
	}
}
