package catalog

import (
	"testing"

	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func validDetails() ProductDetails {
	return ProductDetails{
		Name:         "Porcelain Grey 60x60",
		Price:        decimal.RequireFromString("1000"),
		Cost:         decimal.RequireFromString("700"),
		LengthMM:     ptr("600"),
		WidthMM:      ptr("600"),
		IsActive:     true,
		ReorderLevel: decimal.RequireFromString("20"),
	}
}

func TestNewProduct(t *testing.T) {
	t.Run("valid product", func(t *testing.T) {
		p, err := NewProduct("pg-6060", validDetails())
		require.NoError(t, err)
		assert.Equal(t, "PG-6060", p.SKU)
		assert.Equal(t, DefaultUnit, p.Unit)
		assert.True(t, decimal.RequireFromString("0.36").Equal(p.TileArea()))
		assert.True(t, p.Dimensions().HasArea())
	})

	t.Run("invalid sku", func(t *testing.T) {
		_, err := NewProduct("", validDetails())
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_SKU", domainErr.Code)

		_, err = NewProduct("PG 60", validDetails())
		require.ErrorAs(t, err, &domainErr)
	})

	t.Run("collects field problems", func(t *testing.T) {
		details := validDetails()
		details.Name = " "
		details.Price = decimal.RequireFromString("-1")
		details.WidthMM = ptr("-600")
		_, err := NewProduct("PG-1", details)
		var verrs shared.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, []string{
			"Product name cannot be empty",
			"Price cannot be negative",
			"Tile width cannot be negative",
		}, verrs.Messages())
	})

	t.Run("missing dimensions mean no area", func(t *testing.T) {
		details := validDetails()
		details.WidthMM = nil
		p, err := NewProduct("PG-2", details)
		require.NoError(t, err)
		assert.True(t, p.TileArea().IsZero())
	})
}

func TestProduct_IsLowStock(t *testing.T) {
	p, err := NewProduct("PG-3", validDetails())
	require.NoError(t, err)
	assert.True(t, p.IsLowStock(decimal.RequireFromString("20")))
	assert.True(t, p.IsLowStock(decimal.RequireFromString("-1")))
	assert.False(t, p.IsLowStock(decimal.RequireFromString("20.001")))

	p.ReorderLevel = decimal.Zero
	assert.False(t, p.IsLowStock(decimal.Zero))
}
