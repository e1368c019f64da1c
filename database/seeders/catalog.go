package seeders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogapi/app/models"
)

func init() {
	Register("catalog", SeedCatalog)
}

// SeedCatalog inserts three categories, four products and two sample
// orders. It does nothing when any category already exists. Sample orders
// are historical and do not reserve stock.
func SeedCatalog(ctx context.Context, tx *gorm.DB) error {
	var n int64
	if err := tx.Model(&models.Category{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	electronics := models.Category{Name: "Electronics", Description: "Devices, gadgets, and appliances."}
	clothing := models.Category{Name: "Clothing", Description: "Apparel and garments."}
	books := models.Category{Name: "Books", Description: "Fiction and non-fiction books."}
	for _, c := range []*models.Category{&electronics, &clothing, &books} {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
	}

	phone := product("Phone", "Smartphone with 5G connectivity.", "500.00", 50, electronics.ID)
	laptop := product("Laptop", "High-performance laptop for work and gaming.", "1000.00", 30, electronics.ID)
	tshirt := product("T-Shirt", "Cotton T-shirt in various sizes.", "20.00", 100, clothing.ID)
	novel := product("Novel", "Bestselling fiction novel.", "15.00", 200, books.ID)
	for _, p := range []*models.Product{&phone, &laptop, &tshirt, &novel} {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
	}

	now := time.Now().UTC().Truncate(time.Second)
	orders := []struct {
		date  time.Time
		items []models.OrderItem
	}{
		{now.AddDate(0, 0, -2), []models.OrderItem{
			{ProductID: phone.ID, Quantity: 2},
			{ProductID: novel.ID, Quantity: 1},
		}},
		{now.AddDate(0, 0, -1), []models.OrderItem{
			{ProductID: laptop.ID, Quantity: 1},
			{ProductID: tshirt.ID, Quantity: 3},
		}},
	}
	for _, o := range orders {
		order := models.Order{OrderDate: o.date}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range o.items {
			o.items[i].OrderID = order.ID
		}
		if err := tx.Create(&o.items).Error; err != nil {
			return err
		}
	}
	return nil
}

func product(name, description, price string, stock int, categoryID uint) models.Product {
	return models.Product{
		Name:        name,
		Description: description,
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
		CategoryID:  categoryID,
	}
}
