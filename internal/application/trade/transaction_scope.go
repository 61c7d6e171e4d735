package trade

import (
	"context"

	"github.com/erp/tilestock/internal/domain/inventory"
	"github.com/erp/tilestock/internal/domain/trade"
)

// TransactionScope runs an order change and its stock movements in one
// database transaction. If fn returns an error nothing is persisted.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to repositories bound to the
// current transaction
type TransactionalRepositories interface {
	SalesOrderRepo() trade.SalesOrderRepository
	PurchaseOrderRepo() trade.PurchaseOrderRepository
	InventoryRepo() inventory.RecordRepository
}
