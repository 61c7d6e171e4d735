package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name  string
		field string
		dir   string
		want  string
	}{
		{"defaults", "", "", "created_at DESC"},
		{"whitelisted ascending", "sku", "asc", "sku ASC"},
		{"padded input", "  reorder_level ", " ASC ", "reorder_level ASC"},
		{"unknown column", "password", "asc", "created_at ASC"},
		{"unknown direction", "name", "sideways", "name DESC"},
		{"field injection", "name; DROP TABLE products;--", "asc", "created_at ASC"},
		{"direction injection", "name", "ASC; DROP TABLE products;--", "name DESC"},
		{"case sensitive field", "SKU", "", "created_at DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderClause(tt.field, tt.dir, ProductSortFields, "created_at"))
		})
	}
}

func TestSortable(t *testing.T) {
	whitelists := map[string]SortFields{
		"products":        ProductSortFields,
		"customers":       CustomerSortFields,
		"suppliers":       SupplierSortFields,
		"warehouses":      WarehouseSortFields,
		"inventory":       InventorySortFields,
		"sales orders":    SalesOrderSortFields,
		"purchase orders": PurchaseOrderSortFields,
	}
	for name, fields := range whitelists {
		t.Run(name, func(t *testing.T) {
			for _, col := range []string{"id", "created_at", "updated_at"} {
				assert.True(t, fields[col], col)
			}
		})
	}

	assert.True(t, InventorySortFields["reserved_quantity"])
	assert.False(t, InventorySortFields["price"])
	assert.True(t, PurchaseOrderSortFields["received_at"])
	assert.False(t, SalesOrderSortFields["received_at"])
}
