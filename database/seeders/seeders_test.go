package seeders_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalogapi/app/models"
	_ "github.com/shashiranjanraj/catalogapi/database/migrations"
	"github.com/shashiranjanraj/catalogapi/database/seeders"
	"github.com/shashiranjanraj/catalogapi/pkg/auth"
	"github.com/shashiranjanraj/catalogapi/pkg/database"
	"github.com/shashiranjanraj/catalogapi/pkg/migration"
)

func TestRunAllIsIdempotent(t *testing.T) {
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, migration.New(db, nil).Run())

	ctx := context.Background()
	var out bytes.Buffer
	require.NoError(t, seeders.RunAll(ctx, db, &out))
	require.NoError(t, seeders.RunAll(ctx, db, &out))
	assert.Contains(t, out.String(), "Running seeder: catalog")

	counts := map[string]int64{}
	for name, model := range map[string]interface{}{
		"categories":  &models.Category{},
		"products":    &models.Product{},
		"orders":      &models.Order{},
		"order_items": &models.OrderItem{},
		"users":       &models.User{},
	} {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		counts[name] = n
	}
	assert.Equal(t, map[string]int64{
		"categories": 3, "products": 4, "orders": 2, "order_items": 4, "users": 2,
	}, counts)

	var phone models.Product
	require.NoError(t, db.Where("name = ?", "Phone").First(&phone).Error)
	assert.Equal(t, 50, phone.Stock)
	assert.Equal(t, "500", phone.Price.String())

	var admin models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	assert.ElementsMatch(t, []string{"ROLE_ADMIN", "ROLE_USER"}, admin.Roles)
	assert.True(t, auth.CheckPassword(admin.Password, "admin123"))
}
