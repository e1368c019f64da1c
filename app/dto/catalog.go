package dto

import (
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/catalogapi/app/models"
)

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Category struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func CategoryFromModel(m models.Category) Category {
	return Category{ID: m.ID, Name: m.Name, Description: m.Description}
}

func Categories(ms []models.Category) []Category {
	out := make([]Category, 0, len(ms))
	for _, m := range ms {
		out = append(out, CategoryFromModel(m))
	}
	return out
}

type ProductInput struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	CategoryID  uint             `json:"categoryId"`
}

type Product struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	CategoryID   uint            `json:"categoryId"`
	CategoryName string          `json:"categoryName,omitempty"`
}

func ProductFromModel(m models.Product) Product {
	return Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Stock:       m.Stock,
		CategoryID:  m.CategoryID,
	}
}

func ProductFromRow(r models.ProductRow) Product {
	p := ProductFromModel(r.Product)
	p.CategoryName = r.CategoryName
	return p
}

// ProductFilter narrows a product search. Empty fields match everything;
// non-empty fields are case-insensitive substring matches combined with AND.
type ProductFilter struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// CatalogSnapshot is the document written by a catalog export.
type CatalogSnapshot struct {
	ExportedAt DateTime   `json:"exportedAt"`
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
}

type ExportResult struct {
	Path       string `json:"path"`
	URL        string `json:"url"`
	Categories int    `json:"categories"`
	Products   int    `json:"products"`
}
