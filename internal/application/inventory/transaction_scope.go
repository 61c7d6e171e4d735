package inventory

import (
	"context"

	"github.com/erp/tilestock/internal/domain/inventory"
)

// TransactionScope runs inventory changes in one database transaction.
// If fn returns an error the transaction is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to repositories bound to the
// current transaction
type TransactionalRepositories interface {
	InventoryRepo() inventory.RecordRepository
}
