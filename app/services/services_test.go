package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogapi/app/models"
	"github.com/shashiranjanraj/catalogapi/app/services"
	_ "github.com/shashiranjanraj/catalogapi/database/migrations"
	"github.com/shashiranjanraj/catalogapi/pkg/auth"
	"github.com/shashiranjanraj/catalogapi/pkg/cache"
	"github.com/shashiranjanraj/catalogapi/pkg/database"
	"github.com/shashiranjanraj/catalogapi/pkg/migration"
)

type env struct {
	db         *gorm.DB
	cache      *cache.Memory
	tokens     *auth.Issuer
	categories *services.CategoryService
	products   *services.ProductService
	orders     *services.OrderService
	auth       *services.AuthService
}

// newEnv opens a fresh in-memory database with the full schema applied.
func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, migration.New(db, nil).Run())

	store := cache.NewMemory()
	tokens := auth.NewIssuer("test-secret", time.Hour)
	return &env{
		db:         db,
		cache:      store,
		tokens:     tokens,
		categories: services.NewCategoryService(db, store, time.Minute),
		products:   services.NewProductService(db, store, time.Minute),
		orders:     services.NewOrderService(db, store),
		auth:       services.NewAuthService(db, tokens),
	}
}

func (e *env) category(t *testing.T, name string) models.Category {
	t.Helper()
	c := models.Category{Name: name}
	require.NoError(t, e.db.Create(&c).Error)
	return c
}

func (e *env) product(t *testing.T, name string, categoryID uint, price string, stock int) models.Product {
	t.Helper()
	p := models.Product{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		CategoryID: categoryID,
	}
	require.NoError(t, e.db.Create(&p).Error)
	return p
}

func (e *env) stockOf(t *testing.T, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, e.db.First(&p, id).Error)
	return p.Stock
}

func (e *env) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

var bg = context.Background()
