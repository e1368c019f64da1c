package models

import "time"

// Order is a placed order. Its line items live in order_items.
type Order struct {
	ID        uint      `gorm:"primaryKey"`
	OrderDate time.Time `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem is one line of an order: a quantity of a single product.
type OrderItem struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   uint `gorm:"not null;index"`
	ProductID uint `gorm:"not null;index"`
	Quantity  int  `gorm:"not null"`
}
