package measure

import (
	"encoding/json"
	"strings"

	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AreaPrecision is the number of decimal places shown for m² quantities
const AreaPrecision int32 = 3

// StoragePrecision is the number of decimal places kept for canonical m² quantities
const StoragePrecision int32 = 6

// Unit is the unit a quantity is being edited in
type Unit string

const (
	UnitArea  Unit = "area"
	UnitPiece Unit = "piece"
)

// IsValid checks if the unit is known
func (u Unit) IsValid() bool {
	return u == UnitArea || u == UnitPiece
}

// String returns the string representation of Unit
func (u Unit) String() string {
	return string(u)
}

// ParseUnit accepts the canonical names and the aliases used by the order forms.
// An empty string means area.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "area", "sqm", "m2", "м²":
		return UnitArea, nil
	case "piece", "pieces", "pcs", "шт":
		return UnitPiece, nil
	}
	return "", shared.NewDomainError("INVALID_UNIT", "Unit must be 'area' or 'piece'")
}

// ParseValue parses a user-entered number. Empty or unparsable input is zero.
func ParseValue(raw string) decimal.Decimal {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// AreaQuantity is a non-negative quantity in m², the unit every stored quantity uses
type AreaQuantity struct {
	value decimal.Decimal
}

// NewAreaQuantity creates an area quantity rounded to StoragePrecision
func NewAreaQuantity(value decimal.Decimal) (AreaQuantity, error) {
	if value.IsNegative() {
		return AreaQuantity{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	return AreaQuantity{value: value.Round(StoragePrecision)}, nil
}

// ZeroArea returns an empty area quantity
func ZeroArea() AreaQuantity {
	return AreaQuantity{value: decimal.Zero}
}

// Decimal returns the underlying value
func (q AreaQuantity) Decimal() decimal.Decimal {
	return q.value
}

// IsZero reports whether the quantity is zero
func (q AreaQuantity) IsZero() bool {
	return q.value.IsZero()
}

// String formats the quantity with AreaPrecision decimals
func (q AreaQuantity) String() string {
	return q.value.StringFixed(AreaPrecision)
}

// MarshalJSON encodes the quantity as a decimal string without display rounding
func (q AreaQuantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.value.String())
}

// DisplayQuantity is what a user is editing: a value and the unit it is shown in.
// It is never persisted.
type DisplayQuantity struct {
	Value decimal.Decimal `json:"value"`
	Unit  Unit            `json:"unit"`
}

// NewDisplayQuantity creates a display quantity; negative values become zero
func NewDisplayQuantity(value decimal.Decimal, unit Unit) DisplayQuantity {
	if value.IsNegative() {
		value = decimal.Zero
	}
	return DisplayQuantity{Value: value, Unit: unit}
}

// Canonical reconciles the display quantity to m²
func (q DisplayQuantity) Canonical(dims TileDimensions) AreaQuantity {
	return ToCanonical(q.Value, q.Unit, dims)
}

// ToggleTo re-expresses the value in another unit
func (q DisplayQuantity) ToggleTo(unit Unit, dims TileDimensions) DisplayQuantity {
	return DisplayQuantity{
		Value: ConvertOnUnitToggle(q.Value, q.Unit, unit, dims),
		Unit:  unit,
	}
}

// String formats the value: three decimals for area, whole numbers for pieces
func (q DisplayQuantity) String() string {
	return FormatValue(q.Value, q.Unit)
}

// FormatValue formats a value for the given unit
func FormatValue(value decimal.Decimal, unit Unit) string {
	if unit == UnitPiece {
		return value.Round(0).String()
	}
	return value.StringFixed(AreaPrecision)
}
