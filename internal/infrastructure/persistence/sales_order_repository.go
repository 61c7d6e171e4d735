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

// GormSalesOrderRepository implements trade.SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID finds a sales order by its ID
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	var order trade.SalesOrder
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

// FindByIDForUpdate finds a sales order by its ID and locks the order row
func (r *GormSalesOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	var order trade.SalesOrder
	query := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items")
	if err := findOne(query, &order, "id = ?", id); err != nil {
		return nil, err
	}
	return &order, nil
}

// FindAll lists sales orders; Filters may hold "status" and "customer_id"
func (r *GormSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SalesOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&trade.SalesOrder{})
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		}
	}
	if filter.Search != "" {
		query = query.Where("LOWER(order_number) LIKE ?", likePattern(filter.Search))
	}

	query, total, err := paginate(query, filter, SalesOrderSortFields, "created_at")
	if err != nil {
		return nil, 0, err
	}

	var orders []trade.SalesOrder
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Save creates or updates a sales order and replaces its items
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *trade.SalesOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, trade.SalesOrder{}.TableName(), "Sales order", order); err != nil {
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

// Delete deletes a sales order and its items
func (r *GormSalesOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&trade.SalesOrderItem{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &trade.SalesOrder{}, id)
	})
}

// NextOrderNumber issues the next SO-YYYYMMDD-NNNN number for the day
func (r *GormSalesOrderRepository) NextOrderNumber(ctx context.Context, day time.Time) (string, error) {
	day = orderDay(day)
	last, err := lastOrderNumber(ctx, r.db, trade.SalesOrder{}.TableName(), trade.OrderNumberPrefix(trade.SalesOrderPrefix, day))
	if err != nil {
		return "", err
	}
	return trade.NextOrderNumber(trade.SalesOrderPrefix, day, last), nil
}

// ExistsForCustomer reports whether any sales order references the customer
func (r *GormSalesOrderRepository) ExistsForCustomer(ctx context.Context, customerID uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx), &trade.SalesOrder{}, "customer_id = ?", customerID)
}

// ExistsForProduct reports whether any sales order line references the product
func (r *GormSalesOrderRepository) ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx), &trade.SalesOrderItem{}, "product_id = ?", productID)
}

// ExistsForWarehouse reports whether any sales order or line references the warehouse
func (r *GormSalesOrderRepository) ExistsForWarehouse(ctx context.Context, warehouseID uuid.UUID) (bool, error) {
	found, err := exists(r.db.WithContext(ctx), &trade.SalesOrder{}, "warehouse_id = ?", warehouseID)
	if err != nil || found {
		return found, err
	}
	return exists(r.db.WithContext(ctx), &trade.SalesOrderItem{}, "warehouse_id = ?", warehouseID)
}

var _ trade.SalesOrderRepository = (*GormSalesOrderRepository)(nil)
