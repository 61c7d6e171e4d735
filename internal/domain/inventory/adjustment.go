package inventory

import (
	"strings"

	"github.com/erp/tilestock/internal/domain/measure"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustmentType is how an adjustment amount is applied to on-hand stock
type AdjustmentType string

const (
	AdjustmentAdd      AdjustmentType = "add"
	AdjustmentSubtract AdjustmentType = "subtract"
	AdjustmentSet      AdjustmentType = "set"
)

// IsValid checks if the adjustment type is known
func (t AdjustmentType) IsValid() bool {
	switch t {
	case AdjustmentAdd, AdjustmentSubtract, AdjustmentSet:
		return true
	}
	return false
}

// ParseAdjustmentType parses an adjustment type
func ParseAdjustmentType(s string) (AdjustmentType, error) {
	t := AdjustmentType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", shared.NewDomainError("INVALID_ADJUSTMENT_TYPE", "Adjustment type must be add, subtract or set")
	}
	return t, nil
}

// DraftAdjustment is an inventory adjustment as the user entered it
type DraftAdjustment struct {
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
	Type        AdjustmentType
	Quantity    measure.DisplayQuantity
	Dimensions  measure.TileDimensions
	Reserved    *decimal.Decimal
}

// Amount returns the adjustment amount in m²
func (a DraftAdjustment) Amount() decimal.Decimal {
	return a.Quantity.Canonical(a.Dimensions).Decimal()
}

// Validate collects input problems
func (a DraftAdjustment) Validate() shared.ValidationErrors {
	var errs shared.ValidationErrors
	if a.ProductID == uuid.Nil {
		errs.Add("product_id", "Select a product")
	}
	if a.WarehouseID == uuid.Nil {
		errs.Add("warehouse_id", "Select a warehouse")
	}
	if !a.Type.IsValid() {
		errs.Add("adjustment_type", "Adjustment type must be add, subtract or set")
	}
	if a.Quantity.Value.IsNegative() {
		errs.Add("adjustment_quantity", "Quantity cannot be negative")
	} else if a.Type != AdjustmentSet && !a.Amount().IsPositive() {
		errs.Add("adjustment_quantity", "Quantity must be greater than zero")
	}
	if a.Reserved != nil && a.Reserved.IsNegative() {
		errs.Add("reserved_quantity", "Reserved quantity cannot be negative")
	}
	return errs
}
