// Package measure converts product quantities between square metres and
// whole tiles.
//
// Square metres are the canonical unit: every stored or transmitted
// quantity is an area. Pieces only exist at the editing boundary and are
// derived from the product's tile footprint.
package measure

import "github.com/shopspring/decimal"

var (
	squareMillimetresPerSquareMetre = decimal.NewFromInt(1_000_000)
	one                             = decimal.NewFromInt(1)
)

// TileDimensions is the footprint of one piece of a product in millimetres.
// Either side may be unknown.
type TileDimensions struct {
	LengthMM *decimal.Decimal
	WidthMM  *decimal.Decimal
}

// NewTileDimensions creates tile dimensions from optional sides
func NewTileDimensions(lengthMM, widthMM *decimal.Decimal) TileDimensions {
	return TileDimensions{LengthMM: lengthMM, WidthMM: widthMM}
}

// Area returns the area of one tile in m², or zero when the footprint is unknown
func (d TileDimensions) Area() decimal.Decimal {
	if d.LengthMM == nil || d.WidthMM == nil {
		return decimal.Zero
	}
	return TileArea(*d.LengthMM, *d.WidthMM)
}

// PerUnitArea returns how many tiles cover one m², or zero when the footprint is unknown
func (d TileDimensions) PerUnitArea() decimal.Decimal {
	if d.LengthMM == nil || d.WidthMM == nil {
		return decimal.Zero
	}
	return TilesPerUnitArea(*d.LengthMM, *d.WidthMM)
}

// HasArea reports whether piece conversion is available
func (d TileDimensions) HasArea() bool {
	return d.Area().IsPositive()
}

// TileArea returns (length_mm * width_mm) / 1e6 when both sides are positive, else zero
func TileArea(lengthMM, widthMM decimal.Decimal) decimal.Decimal {
	if !lengthMM.IsPositive() || !widthMM.IsPositive() {
		return decimal.Zero
	}
	return lengthMM.Mul(widthMM).Div(squareMillimetresPerSquareMetre)
}

// TilesPerUnitArea returns 1 / TileArea, or zero when there is no tile area.
// Zero is a sentinel: callers must check it before dividing by the result.
func TilesPerUnitArea(lengthMM, widthMM decimal.Decimal) decimal.Decimal {
	area := TileArea(lengthMM, widthMM)
	if area.IsZero() {
		return decimal.Zero
	}
	return one.Div(area)
}
