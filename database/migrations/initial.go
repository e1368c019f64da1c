package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogapi/app/models"
	"github.com/shashiranjanraj/catalogapi/pkg/migration"
)

func init() {
	migration.Register("20250101000001_create_categories_table", &CreateCategoriesTable{})
	migration.Register("20250101000002_create_products_table", &CreateProductsTable{})
	migration.Register("20250101000003_create_orders_table", &CreateOrdersTable{})
	migration.Register("20250101000004_create_users_table", &CreateUsersTable{})
}

// -------- 0001: categories --------

type CreateCategoriesTable struct{}

func (m *CreateCategoriesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{})
}

func (m *CreateCategoriesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Category{})
}

// -------- 0002: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Product{})
}

// -------- 0003: orders + order_items --------

type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.OrderItem{}, &models.Order{})
}

// -------- 0004: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.User{})
}
