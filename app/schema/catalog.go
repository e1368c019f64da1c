// Package schema defines the read-only GraphQL view of the catalog.
package schema

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/catalogapi/app/dto"
	"github.com/shashiranjanraj/catalogapi/pkg/orm"
	pkggraphql "github.com/shashiranjanraj/catalogapi/pkg/graphql"
)

// Catalog is the subset of the catalog services the schema reads from.
type Catalog interface {
	GetCategoryByID(ctx context.Context, id uint) (dto.Category, error)
	GetAllCategories(ctx context.Context) ([]dto.Category, error)
	GetProductByID(ctx context.Context, id uint) (dto.Product, error)
	FilterProducts(ctx context.Context, f dto.ProductFilter, req orm.PageRequest) (orm.Page[dto.Product], error)
}

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.String},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.String},
		"price": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Float),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				switch src := p.Source.(type) {
				case dto.Product:
					return src.Price.InexactFloat64(), nil
				case *dto.Product:
					return src.Price.InexactFloat64(), nil
				}
				return nil, nil
			},
		},
		"stock":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"categoryId":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"categoryName": &graphql.Field{Type: graphql.String},
	},
})

var paginationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Pagination",
	Fields: graphql.Fields{
		"total":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"perPage":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"currentPage": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"lastPage":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var productPageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductPage",
	Fields: graphql.Fields{
		"items":      &graphql.Field{Type: graphql.NewList(productType)},
		"pagination": &graphql.Field{Type: paginationType},
	},
})

func idArg(p graphql.ResolveParams) (uint, error) {
	id, _ := p.Args["id"].(int)
	if id < 1 {
		return 0, fmt.Errorf("id must be a positive integer")
	}
	return uint(id), nil
}

// New builds the schema:
//
//	category(id: Int!): Category
//	categories: [Category]
//	product(id: Int!): Product
//	products(name, category, description: String, page, size: Int, sort: String): ProductPage
func New(c Catalog) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"category": &graphql.Field{
				Type: categoryType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idArg(p)
					if err != nil {
						return nil, err
					}
					return c.GetCategoryByID(p.Context, id)
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return c.GetAllCategories(p.Context)
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idArg(p)
					if err != nil {
						return nil, err
					}
					return c.GetProductByID(p.Context, id)
				},
			},
			"products": &graphql.Field{
				Type: productPageType,
				Args: graphql.FieldConfigArgument{
					"name":        &graphql.ArgumentConfig{Type: graphql.String},
					"category":    &graphql.ArgumentConfig{Type: graphql.String},
					"description": &graphql.ArgumentConfig{Type: graphql.String},
					"page":        &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"size":        &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: orm.DefaultPageSize},
					"sort":        &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					name, _ := p.Args["name"].(string)
					category, _ := p.Args["category"].(string)
					description, _ := p.Args["description"].(string)
					page, _ := p.Args["page"].(int)
					size, _ := p.Args["size"].(int)
					sort, _ := p.Args["sort"].(string)

					f := dto.ProductFilter{Name: name, Category: category, Description: description}
					return c.FilterProducts(p.Context, f, orm.PageRequest{Page: page, Size: size, Sort: sort})
				},
			},
		},
	})
	return pkggraphql.NewSchema(query)
}
