package persistence

import (
	"testing"

	"github.com/erp/tilestock/internal/domain/catalog"
	"github.com/erp/tilestock/internal/domain/partner"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func newTestProduct(t *testing.T, sku string, reorderLevel string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(sku, catalog.ProductDetails{
		Name:         "Porcelain " + sku,
		Price:        dec("650"),
		Cost:         dec("400"),
		Unit:         catalog.DefaultUnit,
		LengthMM:     decPtr("600"),
		WidthMM:      decPtr("600"),
		IsActive:     true,
		ReorderLevel: dec(reorderLevel),
	})
	require.NoError(t, err)
	return product
}

func newTestWarehouse(t *testing.T, code string) *partner.Warehouse {
	t.Helper()
	warehouse, err := partner.NewWarehouse(code, "Warehouse "+code, "Industrial Rd 1")
	require.NoError(t, err)
	return warehouse
}
