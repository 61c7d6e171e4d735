package trade

import (
	"context"
	"time"

	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
)

// SalesOrderRepository persists sales orders with their items
type SalesOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)
	// FindByIDForUpdate loads the order with a row lock; call inside a transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*SalesOrder, error)
	// FindAll lists orders; Filters may hold "status" and "customer_id"
	FindAll(ctx context.Context, filter shared.Filter) ([]SalesOrder, int64, error)
	// Save creates or updates an order and replaces its items. Updates are version checked.
	Save(ctx context.Context, order *SalesOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
	// NextOrderNumber issues the next SO-YYYYMMDD-NNNN number for the day
	NextOrderNumber(ctx context.Context, day time.Time) (string, error)
	ExistsForCustomer(ctx context.Context, customerID uuid.UUID) (bool, error)
	ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error)
}

// PurchaseOrderRepository persists purchase orders with their items
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	// FindByIDForUpdate loads the order with a row lock; call inside a transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	// FindAll lists orders; Filters may hold "status" and "supplier_id"
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, int64, error)
	Save(ctx context.Context, order *PurchaseOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
	// NextOrderNumber issues the next PO-YYYYMMDD-NNNN number for the day
	NextOrderNumber(ctx context.Context, day time.Time) (string, error)
	ExistsForSupplier(ctx context.Context, supplierID uuid.UUID) (bool, error)
	ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error)
}
