package calculator

import (
	"github.com/erp/tilestock/internal/domain/measure"
	"github.com/erp/tilestock/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tile identifies the tile size a calculation uses: a catalogue product or
// explicit side lengths in millimetres. ProductID wins when both are given.
type Tile struct {
	ProductID *uuid.UUID       `json:"product_id"`
	LengthMM  *decimal.Decimal `json:"length_mm"`
	WidthMM   *decimal.Decimal `json:"width_mm"`
}

// ConvertRequest re-expresses a value when the user toggles the unit
type ConvertRequest struct {
	Tile
	Value decimal.Decimal `json:"value"`
	From  string          `json:"from" binding:"required"`
	To    string          `json:"to" binding:"required"`
}

// SnapRequest rounds an area to a whole number of tiles
type SnapRequest struct {
	Tile
	Area decimal.Decimal `json:"area"`
}

// StepRequest moves a value one stepper click up or down
type StepRequest struct {
	Tile
	Value     decimal.Decimal `json:"value"`
	Unit      string          `json:"unit"`
	Direction string          `json:"direction" binding:"required,oneof=up down"`
}

// QuantityResponse is a display value with its canonical m² equivalent
type QuantityResponse struct {
	Value     decimal.Decimal `json:"value"`
	Unit      measure.Unit    `json:"unit"`
	Formatted string          `json:"formatted"`
	Area      decimal.Decimal `json:"area"`
	TileArea  decimal.Decimal `json:"tile_area"`
}

// QuoteRequest is an order draft to be totalled
type QuoteRequest struct {
	Kind     string          `json:"kind" binding:"omitempty,oneof=sales purchase"`
	Items    []QuoteItem     `json:"items"`
	Discount decimal.Decimal `json:"discount"`
}

// QuoteItem is one draft line
type QuoteItem struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	QuantityUnit string          `json:"quantity_unit"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Discount     decimal.Decimal `json:"discount"`
}

// QuoteLine is a reconciled draft line with its total
type QuoteLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

// QuoteResponse holds the totals of a draft, raw and formatted for display
type QuoteResponse struct {
	Lines     []QuoteLine       `json:"lines"`
	TaxRate   decimal.Decimal   `json:"tax_rate"`
	Totals    pricing.Totals    `json:"totals"`
	Formatted map[string]string `json:"formatted"`
}
