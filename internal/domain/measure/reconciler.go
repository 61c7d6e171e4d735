package measure

import (
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StepDirection is the direction of a stepper button
type StepDirection int

const (
	StepDown StepDirection = -1
	StepUp   StepDirection = 1
)

// ErrStepUnavailable is returned when stepping by tile area without a tile footprint
var ErrStepUnavailable = shared.NewDomainError("STEP_UNAVAILABLE", "Product has no tile dimensions, area cannot be stepped by tile")

// ToCanonical converts a display value to m².
// Pieces are multiplied by the tile area. Without a tile area the value is
// already treated as m².
func ToCanonical(value decimal.Decimal, unit Unit, dims TileDimensions) AreaQuantity {
	if value.IsNegative() {
		value = decimal.Zero
	}
	if unit == UnitPiece {
		if area := dims.Area(); area.IsPositive() {
			value = value.Mul(area)
		}
	}
	return AreaQuantity{value: value.Round(StoragePrecision)}
}

// ConvertOnUnitToggle re-expresses the value being edited when the user switches units.
// Pieces always come out whole; areas come out with three decimals.
func ConvertOnUnitToggle(current decimal.Decimal, from, to Unit, dims TileDimensions) decimal.Decimal {
	if from == to {
		return current
	}
	perUnit := dims.PerUnitArea()
	if perUnit.IsZero() {
		return current
	}
	if to == UnitArea {
		return current.Mul(dims.Area()).Round(AreaPrecision)
	}
	return current.Mul(perUnit).Round(0)
}

// SnapToTileMultiple rounds an area to the nearest whole number of tiles.
// Zero, negative input and products without a tile area are returned unchanged.
func SnapToTileMultiple(area decimal.Decimal, dims TileDimensions) decimal.Decimal {
	tile := dims.Area()
	if tile.IsZero() || !area.IsPositive() {
		return area
	}
	return area.Div(tile).Round(0).Mul(tile).Round(AreaPrecision)
}

// Step moves the value by one unit: one tile's area in area mode, one piece in piece mode.
// The result is never negative.
func Step(current decimal.Decimal, unit Unit, dims TileDimensions, dir StepDirection) (decimal.Decimal, error) {
	delta := decimal.NewFromInt(int64(dir))

	if unit == UnitPiece {
		next := current.Round(0).Add(delta)
		if next.IsNegative() {
			return decimal.Zero, nil
		}
		return next, nil
	}

	tile := dims.Area()
	if tile.IsZero() {
		return current, ErrStepUnavailable
	}
	next := current.Add(tile.Mul(delta))
	if next.IsNegative() {
		return decimal.Zero, nil
	}
	return SnapToTileMultiple(next, dims), nil
}
