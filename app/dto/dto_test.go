package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateTimeAcceptsBothLayouts(t *testing.T) {
	var in CreateOrderInput

	require.NoError(t, json.Unmarshal([]byte(`{"orderDate":"2024-03-01T10:30:00"}`), &in))
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), in.OrderDate.Time)

	require.NoError(t, json.Unmarshal([]byte(`{"orderDate":"2024-03-01T10:30:00+02:00"}`), &in))
	assert.Equal(t, time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC), in.OrderDate.Time)

	assert.Error(t, json.Unmarshal([]byte(`{"orderDate":"yesterday"}`), &in))
}

func TestDateTimeMissingIsZero(t *testing.T) {
	var in CreateOrderInput
	require.NoError(t, json.Unmarshal([]byte(`{"orderItems":[]}`), &in))
	assert.True(t, in.OrderDate.IsZero())
}

func TestProductPriceIsANumber(t *testing.T) {
	b, err := json.Marshal(Product{ID: 1, Name: "Phone", Price: decimal.RequireFromString("500.00")})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"price":500`)
	assert.NotContains(t, string(b), "categoryName")
}
