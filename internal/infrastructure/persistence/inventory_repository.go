package persistence

import (
	"context"
	"errors"

	"github.com/erp/tilestock/internal/domain/inventory"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lowStockCondition keeps records whose available quantity is at or below the
// reorder level of a product that has one configured
const lowStockCondition = `EXISTS (SELECT 1 FROM products p
	WHERE p.id = inventory.product_id
	AND p.reorder_level > 0
	AND inventory.quantity - inventory.reserved_quantity <= p.reorder_level)`

// GormInventoryRepository implements inventory.RecordRepository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// FindByID finds an inventory record by ID
func (r *GormInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryRecord, error) {
	var record inventory.InventoryRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByIDForUpdate finds an inventory record by ID and locks the row
func (r *GormInventoryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.InventoryRecord, error) {
	var record inventory.InventoryRecord
	query := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	if err := findOne(query, &record, "id = ?", id); err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByProductAndWarehouse finds the record of a product in a warehouse
func (r *GormInventoryRepository) FindByProductAndWarehouse(ctx context.Context, productID, warehouseID uuid.UUID) (*inventory.InventoryRecord, error) {
	var record inventory.InventoryRecord
	query := r.db.WithContext(ctx).Where("product_id = ? AND warehouse_id = ?", productID, warehouseID)
	if err := findOne(query, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByProductAndWarehouseForUpdate finds the record of a product in a warehouse
// and locks the row until the surrounding transaction ends
func (r *GormInventoryRepository) FindByProductAndWarehouseForUpdate(ctx context.Context, productID, warehouseID uuid.UUID) (*inventory.InventoryRecord, error) {
	var record inventory.InventoryRecord
	query := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID)
	if err := findOne(query, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// FindAll lists inventory records matching the filter
func (r *GormInventoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryRecord, int64, error) {
	return r.list(r.applyFilter(r.db.WithContext(ctx).Model(&inventory.InventoryRecord{}), filter), filter)
}

// FindLowStock lists records at or below their product's reorder level
func (r *GormInventoryRepository) FindLowStock(ctx context.Context, filter shared.Filter) ([]inventory.InventoryRecord, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.InventoryRecord{}), filter).
		Where(lowStockCondition)
	return r.list(query, filter)
}

func (r *GormInventoryRepository) list(query *gorm.DB, filter shared.Filter) ([]inventory.InventoryRecord, int64, error) {
	query, total, err := paginate(query, filter, InventorySortFields, "updated_at")
	if err != nil {
		return nil, 0, err
	}

	var records []inventory.InventoryRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// applyFilter applies the product and warehouse filters
func (r *GormInventoryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("inventory.product_id = ?", value)
		case "warehouse_id":
			query = query.Where("inventory.warehouse_id = ?", value)
		}
	}
	return query
}

// Save creates or updates an inventory record with a version check
func (r *GormInventoryRepository) Save(ctx context.Context, record *inventory.InventoryRecord) error {
	return saveVersioned(r.db.WithContext(ctx), inventory.InventoryRecord{}.TableName(), "Inventory record", record)
}

// ExistsForProduct reports whether any record references the product
func (r *GormInventoryRepository) ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx), &inventory.InventoryRecord{}, "product_id = ?", productID)
}

// ExistsForWarehouse reports whether any record references the warehouse
func (r *GormInventoryRepository) ExistsForWarehouse(ctx context.Context, warehouseID uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx), &inventory.InventoryRecord{}, "warehouse_id = ?", warehouseID)
}

var _ inventory.RecordRepository = (*GormInventoryRepository)(nil)
