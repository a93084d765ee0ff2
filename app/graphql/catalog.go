// Package graphql exposes the read-only catalog query schema.
package graphql

import (
	"github.com/fashionhub/storefront/app/models"
	"github.com/fashionhub/storefront/app/repositories"
	"github.com/fashionhub/storefront/app/services"
	gql "github.com/fashionhub/storefront/pkg/graphql"

	"github.com/graphql-go/graphql"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if prod, ok := p.Source.(models.Product); ok {
					return prod.ID.Hex(), nil
				}
				return nil, nil
			},
		},
		"name":           &graphql.Field{Type: graphql.String},
		"description":    &graphql.Field{Type: graphql.String},
		"price":          &graphql.Field{Type: graphql.Float},
		"category":       &graphql.Field{Type: graphql.String},
		"stock":          &graphql.Field{Type: graphql.Int},
		"imageUrl":       &graphql.Field{Type: graphql.String},
		"isCustomizable": &graphql.Field{Type: graphql.Boolean},
	},
})

// CatalogSchema builds the catalog query schema over the product service,
// so GraphQL reads share the REST path's cache.
func CatalogSchema(products *services.ProductService) (graphql.Schema, error) {
	return gql.NewBuilder().
		Query("products", gql.Field{
			Type: graphql.NewList(productType),
			Args: graphql.FieldConfigArgument{
				"category": &graphql.ArgumentConfig{Type: graphql.String},
				"minPrice": &graphql.ArgumentConfig{Type: graphql.Float},
				"maxPrice": &graphql.ArgumentConfig{Type: graphql.Float},
				"page":     &graphql.ArgumentConfig{Type: graphql.Int},
				"limit":    &graphql.ArgumentConfig{Type: graphql.Int},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				var f repositories.ProductFilter
				if v, ok := p.Args["category"].(string); ok {
					f.Category = models.Category(v)
				}
				if v, ok := p.Args["minPrice"].(float64); ok {
					f.MinPrice = &v
				}
				if v, ok := p.Args["maxPrice"].(float64); ok {
					f.MaxPrice = &v
				}
				page, _ := p.Args["page"].(int)
				limit, _ := p.Args["limit"].(int)

				result, err := products.List(p.Context, f, page, limit)
				if err != nil {
					return nil, err
				}
				return result.Products, nil
			},
		}).
		Query("product", gql.Field{
			Type: productType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := p.Args["id"].(string)
				product, err := products.Get(p.Context, id)
				if err != nil {
					return nil, err
				}
				return *product, nil
			},
		}).
		Build()
}
