package inventory

import (
	"context"

	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
)

// RecordRepository persists inventory records
type RecordRepository interface {
	// FindByID finds a record by ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryRecord, error)

	// FindByProductAndWarehouse finds the record of a product in a warehouse
	FindByProductAndWarehouse(ctx context.Context, productID, warehouseID uuid.UUID) (*InventoryRecord, error)

	// FindByProductAndWarehouseForUpdate is FindByProductAndWarehouse with a row lock.
	// Must be called inside a transaction.
	FindByProductAndWarehouseForUpdate(ctx context.Context, productID, warehouseID uuid.UUID) (*InventoryRecord, error)

	// FindByIDForUpdate finds a record by ID with a row lock
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*InventoryRecord, error)

	// FindAll lists records; Filters may hold "product_id" and "warehouse_id"
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryRecord, int64, error)

	// FindLowStock lists records whose available quantity is at or below
	// the product's reorder level
	FindLowStock(ctx context.Context, filter shared.Filter) ([]InventoryRecord, int64, error)

	// Save creates or updates a record. Updates are version checked.
	Save(ctx context.Context, record *InventoryRecord) error

	// ExistsForProduct reports whether any record references the product
	ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error)

	// ExistsForWarehouse reports whether any record references the warehouse
	ExistsForWarehouse(ctx context.Context, warehouseID uuid.UUID) (bool, error)
}
