package inventory

import (
	"fmt"

	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryRecord is the stock balance of one product in one warehouse.
// Quantities are in m².
type InventoryRecord struct {
	shared.BaseAggregateRoot
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_product_warehouse"`
	WarehouseID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_product_warehouse"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	ReservedQuantity decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
}

// TableName returns the table name for GORM
func (InventoryRecord) TableName() string {
	return "inventory"
}

// NewInventoryRecord creates an empty balance for a product in a warehouse
func NewInventoryRecord(productID, warehouseID uuid.UUID) (*InventoryRecord, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	return &InventoryRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		WarehouseID:       warehouseID,
		Quantity:          decimal.Zero,
		ReservedQuantity:  decimal.Zero,
	}, nil
}

// Available returns quantity - reserved_quantity. It is negative when
// reservations exceed the on-hand quantity.
func (r *InventoryRecord) Available() decimal.Decimal {
	return r.Quantity.Sub(r.ReservedQuantity)
}

// Adjust applies an add, subtract or set adjustment to the on-hand quantity.
// The reserved quantity is never changed by an adjustment.
func (r *InventoryRecord) Adjust(adjType AdjustmentType, amount decimal.Decimal, policy BalancePolicy) error {
	if !adjType.IsValid() {
		return shared.NewDomainError("INVALID_ADJUSTMENT_TYPE", "Adjustment type must be add, subtract or set")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if adjType != AdjustmentSet && amount.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	before := r.Quantity
	var after decimal.Decimal
	switch adjType {
	case AdjustmentAdd:
		after = before.Add(amount)
	case AdjustmentSubtract:
		after = before.Sub(amount)
		if after.IsNegative() {
			switch policy.NegativeStock {
			case NegativeStockReject:
				return shared.NewDomainError("INSUFFICIENT_STOCK",
					fmt.Sprintf("Cannot subtract %s, only %s on hand", amount.StringFixed(3), before.StringFixed(3)))
			case NegativeStockAllow:
			default:
				after = decimal.Zero
			}
		}
	case AdjustmentSet:
		after = amount
	}

	if err := r.checkReserved(after, r.ReservedQuantity, policy); err != nil {
		return err
	}

	r.Quantity = after
	r.Touch()
	r.AddDomainEvent(NewInventoryAdjustedEvent(r, adjType, amount, before))
	return nil
}

// SetReserved overwrites the reserved quantity
func (r *InventoryRecord) SetReserved(reserved decimal.Decimal, policy BalancePolicy) error {
	if reserved.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Reserved quantity cannot be negative")
	}
	if err := r.checkReserved(r.Quantity, reserved, policy); err != nil {
		return err
	}
	r.ReservedQuantity = reserved
	r.Touch()
	return nil
}

// Reserve earmarks stock for an order. Only available stock can be reserved.
func (r *InventoryRecord) Reserve(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if r.Available().LessThan(quantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock: available %s, requested %s", r.Available().StringFixed(3), quantity.StringFixed(3)))
	}
	r.ReservedQuantity = r.ReservedQuantity.Add(quantity)
	r.Touch()
	r.AddDomainEvent(NewStockReservedEvent(r, quantity))
	return nil
}

// Release returns reserved stock to available. Releasing more than is
// reserved releases what is there; it returns the amount released.
func (r *InventoryRecord) Release(quantity decimal.Decimal) (decimal.Decimal, error) {
	if !quantity.IsPositive() {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	released := decimal.Min(quantity, r.ReservedQuantity)
	if !released.IsPositive() {
		return decimal.Zero, nil
	}
	r.ReservedQuantity = r.ReservedQuantity.Sub(released)
	r.Touch()
	r.AddDomainEvent(NewStockReleasedEvent(r, released))
	return released, nil
}

// Deduct removes shipped stock from the on-hand quantity
func (r *InventoryRecord) Deduct(quantity decimal.Decimal, policy BalancePolicy) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	after := r.Quantity.Sub(quantity)
	if after.IsNegative() && policy.NegativeStock != NegativeStockAllow {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock: on hand %s, shipping %s", r.Quantity.StringFixed(3), quantity.StringFixed(3)))
	}
	if err := r.checkReserved(after, r.ReservedQuantity, policy); err != nil {
		return err
	}
	r.Quantity = after
	r.Touch()
	r.AddDomainEvent(NewStockDeductedEvent(r, quantity))
	return nil
}

// Receive adds received goods to the on-hand quantity
func (r *InventoryRecord) Receive(quantity decimal.Decimal, sourceID uuid.UUID) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	r.Quantity = r.Quantity.Add(quantity)
	r.Touch()
	r.AddDomainEvent(NewStockReceivedEvent(r, quantity, sourceID))
	return nil
}

func (r *InventoryRecord) checkReserved(quantity, reserved decimal.Decimal, policy BalancePolicy) error {
	if policy.EnforceReservedWithinQuantity && reserved.GreaterThan(quantity) {
		return shared.NewDomainError("RESERVED_EXCEEDS_QUANTITY",
			fmt.Sprintf("Reserved quantity %s would exceed on-hand quantity %s", reserved.StringFixed(3), quantity.StringFixed(3)))
	}
	return nil
}
