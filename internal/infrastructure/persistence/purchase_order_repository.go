package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/erp/tilestock/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseOrderRepository implements trade.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order by its ID
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate finds a purchase order by its ID and locks the order row
func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	query := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items")
	if err := findOne(query, &order, "id = ?", id); err != nil {
		return nil, err
	}
	return &order, nil
}

// FindAll lists purchase orders; Filters may hold "status" and "supplier_id"
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&trade.PurchaseOrder{})
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		}
	}
	if filter.Search != "" {
		query = query.Where("LOWER(order_number) LIKE ?", likePattern(filter.Search))
	}

	query, total, err := paginate(query, filter, PurchaseOrderSortFields, "created_at")
	if err != nil {
		return nil, 0, err
	}

	var orders []trade.PurchaseOrder
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Save creates or updates a purchase order and replaces its items
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, trade.PurchaseOrder{}.TableName(), "Purchase order", order); err != nil {
			return err
		}

		itemIDs := make([]uuid.UUID, len(order.Items))
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			itemIDs[i] = order.Items[i].ID
		}
		return replaceOrderItems(tx, order.ID, itemIDs, order.Items)
	})
}

// Delete deletes a purchase order and its items
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&trade.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &trade.PurchaseOrder{}, id)
	})
}

// NextOrderNumber issues the next PO-YYYYMMDD-NNNN number for the day
func (r *GormPurchaseOrderRepository) NextOrderNumber(ctx context.Context, day time.Time) (string, error) {
	day = orderDay(day)
	last, err := lastOrderNumber(ctx, r.db, trade.PurchaseOrder{}.TableName(), trade.OrderNumberPrefix(trade.PurchaseOrderPrefix, day))
	if err != nil {
		return "", err
	}
	return trade.NextOrderNumber(trade.PurchaseOrderPrefix, day, last), nil
}

// ExistsForSupplier reports whether any purchase order references the supplier
func (r *GormPurchaseOrderRepository) ExistsForSupplier(ctx context.Context, supplierID uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx), &trade.PurchaseOrder{}, "supplier_id = ?", supplierID)
}

// ExistsForProduct reports whether any purchase order line references the product
func (r *GormPurchaseOrderRepository) ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx), &trade.PurchaseOrderItem{}, "product_id = ?", productID)
}

// ExistsForWarehouse reports whether any received purchase order references the warehouse
func (r *GormPurchaseOrderRepository) ExistsForWarehouse(ctx context.Context, warehouseID uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx), &trade.PurchaseOrder{}, "received_warehouse_id = ?", warehouseID)
}

var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
