package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item. Stock is decremented when orders are placed.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"size:255;not null;index"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	CategoryID  uint            `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductRow is a product joined with the name of its category.
type ProductRow struct {
	Product
	CategoryName string
}
