package inventory

import (
	"context"
	"errors"

	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger applies balance movements to locked inventory records and saves
// them. It must be built from a transaction-scoped repository so that the
// read-modify-write of each record happens under its row lock.
type Ledger struct {
	repo   RecordRepository
	policy BalancePolicy
	events []shared.DomainEvent
}

// NewLedger creates a ledger over the given repository
func NewLedger(repo RecordRepository, policy BalancePolicy) *Ledger {
	return &Ledger{repo: repo, policy: policy}
}

// Policy returns the balance policy in force
func (l *Ledger) Policy() BalancePolicy {
	return l.policy
}

// Events returns the events raised by saved records, in order
func (l *Ledger) Events() []shared.DomainEvent {
	return l.events
}

// Reserve earmarks quantity of a product in a warehouse
func (l *Ledger) Reserve(ctx context.Context, productID, warehouseID uuid.UUID, quantity decimal.Decimal) error {
	record, err := l.repo.FindByProductAndWarehouseForUpdate(ctx, productID, warehouseID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INSUFFICIENT_STOCK", "No stock of this product in the selected warehouse")
		}
		return err
	}
	if err := record.Reserve(quantity); err != nil {
		return err
	}
	return l.save(ctx, record)
}

// Release gives back a reservation. A missing record or a smaller
// reservation than requested is not an error.
func (l *Ledger) Release(ctx context.Context, productID, warehouseID uuid.UUID, quantity decimal.Decimal) error {
	record, err := l.repo.FindByProductAndWarehouseForUpdate(ctx, productID, warehouseID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	released, err := record.Release(quantity)
	if err != nil {
		return err
	}
	if released.IsZero() {
		return nil
	}
	return l.save(ctx, record)
}

// Deduct removes shipped quantity from on-hand stock
func (l *Ledger) Deduct(ctx context.Context, productID, warehouseID uuid.UUID, quantity decimal.Decimal) error {
	record, err := l.repo.FindByProductAndWarehouseForUpdate(ctx, productID, warehouseID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			if l.policy.NegativeStock != NegativeStockAllow {
				return shared.NewDomainError("INSUFFICIENT_STOCK", "No stock of this product in the selected warehouse")
			}
			if record, err = NewInventoryRecord(productID, warehouseID); err != nil {
				return err
			}
		} else {
			return err
		}
	}
	if err := record.Deduct(quantity, l.policy); err != nil {
		return err
	}
	return l.save(ctx, record)
}

// Receive adds goods to stock, creating the record when the product has
// never been stocked in the warehouse
func (l *Ledger) Receive(ctx context.Context, productID, warehouseID uuid.UUID, quantity decimal.Decimal, sourceID uuid.UUID) (*InventoryRecord, error) {
	record, err := l.getOrCreate(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if err := record.Receive(quantity, sourceID); err != nil {
		return nil, err
	}
	if err := l.save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Adjust applies a manual adjustment to an existing record, optionally
// overwriting its reserved quantity as well
func (l *Ledger) Adjust(ctx context.Context, recordID uuid.UUID, adjType AdjustmentType, amount decimal.Decimal, reserved *decimal.Decimal) (*InventoryRecord, error) {
	record, err := l.repo.FindByIDForUpdate(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return l.adjust(ctx, record, adjType, amount, reserved)
}

// AdjustProduct is Adjust addressed by product and warehouse
func (l *Ledger) AdjustProduct(ctx context.Context, productID, warehouseID uuid.UUID, adjType AdjustmentType, amount decimal.Decimal, reserved *decimal.Decimal) (*InventoryRecord, error) {
	record, err := l.repo.FindByProductAndWarehouseForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	return l.adjust(ctx, record, adjType, amount, reserved)
}

func (l *Ledger) adjust(ctx context.Context, record *InventoryRecord, adjType AdjustmentType, amount decimal.Decimal, reserved *decimal.Decimal) (*InventoryRecord, error) {
	if reserved != nil {
		// reserved is checked against the new quantity, so apply the
		// quantity change first with reservation checks off
		relaxed := l.policy
		relaxed.EnforceReservedWithinQuantity = false
		if err := record.Adjust(adjType, amount, relaxed); err != nil {
			return nil, err
		}
		if err := record.SetReserved(*reserved, l.policy); err != nil {
			return nil, err
		}
	} else if err := record.Adjust(adjType, amount, l.policy); err != nil {
		return nil, err
	}
	if err := l.save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Transfer moves available stock between warehouses. The destination
// record is created when missing.
func (l *Ledger) Transfer(ctx context.Context, productID, fromWarehouseID, toWarehouseID uuid.UUID, quantity decimal.Decimal) (from, to *InventoryRecord, err error) {
	if fromWarehouseID == toWarehouseID {
		return nil, nil, shared.NewDomainError("SAME_WAREHOUSE", "Source and destination warehouse must differ")
	}
	if !quantity.IsPositive() {
		return nil, nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	from, err = l.repo.FindByProductAndWarehouseForUpdate(ctx, productID, fromWarehouseID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.NewDomainError("INSUFFICIENT_STOCK", "No stock of this product in the source warehouse")
		}
		return nil, nil, err
	}
	if from.Available().LessThan(quantity) {
		return nil, nil, shared.NewDomainError("INSUFFICIENT_STOCK", "Transfer exceeds available stock in the source warehouse")
	}
	to, err = l.getOrCreate(ctx, productID, toWarehouseID)
	if err != nil {
		return nil, nil, err
	}

	from.Quantity = from.Quantity.Sub(quantity)
	from.Touch()
	from.AddDomainEvent(NewStockTransferredEvent(from, toWarehouseID, quantity))
	if err := to.Receive(quantity, from.ID); err != nil {
		return nil, nil, err
	}

	if err := l.save(ctx, from); err != nil {
		return nil, nil, err
	}
	if err := l.save(ctx, to); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func (l *Ledger) getOrCreate(ctx context.Context, productID, warehouseID uuid.UUID) (*InventoryRecord, error) {
	record, err := l.repo.FindByProductAndWarehouseForUpdate(ctx, productID, warehouseID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return NewInventoryRecord(productID, warehouseID)
}

func (l *Ledger) save(ctx context.Context, record *InventoryRecord) error {
	if err := l.repo.Save(ctx, record); err != nil {
		return err
	}
	l.events = append(l.events, record.PullDomainEvents()...)
	return nil
}
