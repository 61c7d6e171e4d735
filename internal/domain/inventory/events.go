package inventory

import (
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeInventoryRecord = "InventoryRecord"

// Event type constants
const (
	EventTypeInventoryAdjusted = "InventoryAdjusted"
	EventTypeStockReceived     = "StockReceived"
	EventTypeStockReserved     = "StockReserved"
	EventTypeStockReleased     = "StockReleased"
	EventTypeStockDeducted     = "StockDeducted"
	EventTypeStockTransferred  = "StockTransferred"
)

// BalanceSnapshot is the record state after the change that raised an event
type BalanceSnapshot struct {
	ProductID        uuid.UUID       `json:"product_id"`
	WarehouseID      uuid.UUID       `json:"warehouse_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReservedQuantity decimal.Decimal `json:"reserved_quantity"`
}

// Available returns the available quantity of the snapshot
func (s BalanceSnapshot) Available() decimal.Decimal {
	return s.Quantity.Sub(s.ReservedQuantity)
}

func snapshotOf(r *InventoryRecord) BalanceSnapshot {
	return BalanceSnapshot{
		ProductID:        r.ProductID,
		WarehouseID:      r.WarehouseID,
		Quantity:         r.Quantity,
		ReservedQuantity: r.ReservedQuantity,
	}
}

// BalanceChanged is implemented by every event that moves a balance
type BalanceChanged interface {
	shared.DomainEvent
	Balance() BalanceSnapshot
}

// InventoryAdjustedEvent is raised by a manual add/subtract/set adjustment
type InventoryAdjustedEvent struct {
	shared.BaseDomainEvent
	BalanceSnapshot
	AdjustmentType   AdjustmentType  `json:"adjustment_type"`
	Amount           decimal.Decimal `json:"amount"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
}

// NewInventoryAdjustedEvent creates a new InventoryAdjustedEvent
func NewInventoryAdjustedEvent(r *InventoryRecord, adjType AdjustmentType, amount, previous decimal.Decimal) *InventoryAdjustedEvent {
	return &InventoryAdjustedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeInventoryAdjusted, AggregateTypeInventoryRecord, r.ID),
		BalanceSnapshot:  snapshotOf(r),
		AdjustmentType:   adjType,
		Amount:           amount,
		PreviousQuantity: previous,
	}
}

// Balance returns the balance after the adjustment
func (e *InventoryAdjustedEvent) Balance() BalanceSnapshot { return e.BalanceSnapshot }

// StockReceivedEvent is raised when purchased goods arrive
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	BalanceSnapshot
	Received decimal.Decimal `json:"received"`
	SourceID uuid.UUID       `json:"source_id"`
}

// NewStockReceivedEvent creates a new StockReceivedEvent
func NewStockReceivedEvent(r *InventoryRecord, quantity decimal.Decimal, sourceID uuid.UUID) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, AggregateTypeInventoryRecord, r.ID),
		BalanceSnapshot: snapshotOf(r),
		Received:        quantity,
		SourceID:        sourceID,
	}
}

// Balance returns the balance after receipt
func (e *StockReceivedEvent) Balance() BalanceSnapshot { return e.BalanceSnapshot }

// StockReservedEvent is raised when stock is earmarked for an order
type StockReservedEvent struct {
	shared.BaseDomainEvent
	BalanceSnapshot
	Reserved decimal.Decimal `json:"reserved"`
}

// NewStockReservedEvent creates a new StockReservedEvent
func NewStockReservedEvent(r *InventoryRecord, quantity decimal.Decimal) *StockReservedEvent {
	return &StockReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReserved, AggregateTypeInventoryRecord, r.ID),
		BalanceSnapshot: snapshotOf(r),
		Reserved:        quantity,
	}
}

// Balance returns the balance after the reservation
func (e *StockReservedEvent) Balance() BalanceSnapshot { return e.BalanceSnapshot }

// StockReleasedEvent is raised when a reservation is given back
type StockReleasedEvent struct {
	shared.BaseDomainEvent
	BalanceSnapshot
	Released decimal.Decimal `json:"released"`
}

// NewStockReleasedEvent creates a new StockReleasedEvent
func NewStockReleasedEvent(r *InventoryRecord, quantity decimal.Decimal) *StockReleasedEvent {
	return &StockReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReleased, AggregateTypeInventoryRecord, r.ID),
		BalanceSnapshot: snapshotOf(r),
		Released:        quantity,
	}
}

// Balance returns the balance after the release
func (e *StockReleasedEvent) Balance() BalanceSnapshot { return e.BalanceSnapshot }

// StockDeductedEvent is raised when shipped goods leave the warehouse
type StockDeductedEvent struct {
	shared.BaseDomainEvent
	BalanceSnapshot
	Deducted decimal.Decimal `json:"deducted"`
}

// NewStockDeductedEvent creates a new StockDeductedEvent
func NewStockDeductedEvent(r *InventoryRecord, quantity decimal.Decimal) *StockDeductedEvent {
	return &StockDeductedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDeducted, AggregateTypeInventoryRecord, r.ID),
		BalanceSnapshot: snapshotOf(r),
		Deducted:        quantity,
	}
}

// Balance returns the balance after the deduction
func (e *StockDeductedEvent) Balance() BalanceSnapshot { return e.BalanceSnapshot }

// StockTransferredEvent is raised on the source record of a transfer
type StockTransferredEvent struct {
	shared.BaseDomainEvent
	BalanceSnapshot
	ToWarehouseID uuid.UUID       `json:"to_warehouse_id"`
	Transferred   decimal.Decimal `json:"transferred"`
}

// NewStockTransferredEvent creates a new StockTransferredEvent
func NewStockTransferredEvent(from *InventoryRecord, toWarehouseID uuid.UUID, quantity decimal.Decimal) *StockTransferredEvent {
	return &StockTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferred, AggregateTypeInventoryRecord, from.ID),
		BalanceSnapshot: snapshotOf(from),
		ToWarehouseID:   toWarehouseID,
		Transferred:     quantity,
	}
}

// Balance returns the source balance after the transfer
func (e *StockTransferredEvent) Balance() BalanceSnapshot { return e.BalanceSnapshot }
