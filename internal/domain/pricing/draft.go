package pricing

import (
	"fmt"

	"github.com/erp/tilestock/internal/domain/measure"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DraftKind tells a draft which partner and rules apply
type DraftKind string

const (
	DraftSales    DraftKind = "sales"
	DraftPurchase DraftKind = "purchase"
)

// DraftLine is an order line as the user entered it
type DraftLine struct {
	ProductID   uuid.UUID               `json:"product_id"`
	WarehouseID uuid.UUID               `json:"warehouse_id"`
	Quantity    measure.DisplayQuantity `json:"quantity"`
	Dimensions  measure.TileDimensions  `json:"-"`
	UnitPrice   decimal.Decimal         `json:"unit_price"`
	Discount    decimal.Decimal         `json:"discount"`
}

// Canonical returns the line quantity in m²
func (l DraftLine) Canonical() measure.AreaQuantity {
	return l.Quantity.Canonical(l.Dimensions)
}

// DraftOrder is an order being edited. It holds no hidden state: reconciling
// or totalling it returns new values and leaves the draft untouched.
type DraftOrder struct {
	Kind        DraftKind       `json:"kind"`
	PartnerID   uuid.UUID       `json:"partner_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Lines       []DraftLine     `json:"lines"`
	Discount    decimal.Decimal `json:"discount"`
}

// Validate collects every input problem before any calculation runs
func (o DraftOrder) Validate() shared.ValidationErrors {
	var errs shared.ValidationErrors

	if o.PartnerID == uuid.Nil {
		if o.Kind == DraftPurchase {
			errs.Add("supplier_id", "Select a supplier")
		} else {
			errs.Add("customer_id", "Select a customer")
		}
	}
	if o.Kind != DraftPurchase && o.WarehouseID == uuid.Nil {
		errs.Add("warehouse_id", "Select a warehouse")
	}
	if len(o.Lines) == 0 {
		errs.Add("items", "Add at least one item")
	}
	if o.Discount.IsNegative() {
		errs.Add("discount", "Discount cannot be negative")
	}

	for i, line := range o.Lines {
		n := i + 1
		if line.ProductID == uuid.Nil {
			errs.Add(fmt.Sprintf("items[%d].product_id", i), fmt.Sprintf("Item %d: select a product", n))
		}
		if !line.Canonical().Decimal().IsPositive() {
			errs.Add(fmt.Sprintf("items[%d].quantity", i), fmt.Sprintf("Item %d: quantity must be greater than zero", n))
		}
		if !line.UnitPrice.IsPositive() {
			errs.Add(fmt.Sprintf("items[%d].unit_price", i), fmt.Sprintf("Item %d: price must be greater than zero", n))
		}
		if line.Discount.IsNegative() {
			errs.Add(fmt.Sprintf("items[%d].discount", i), fmt.Sprintf("Item %d: discount cannot be negative", n))
		}
	}

	return errs
}

// SalesLines reconciles the draft into sales lines.
// A line without its own warehouse ships from the order warehouse.
func (o DraftOrder) SalesLines() []SalesLine {
	lines := make([]SalesLine, len(o.Lines))
	for i, l := range o.Lines {
		warehouseID := l.WarehouseID
		if warehouseID == uuid.Nil {
			warehouseID = o.WarehouseID
		}
		lines[i] = SalesLine{
			ProductID:   l.ProductID,
			WarehouseID: warehouseID,
			Quantity:    l.Canonical().Decimal(),
			UnitPrice:   l.UnitPrice,
			Discount:    l.Discount,
		}
	}
	return lines
}

// PurchaseLines reconciles the draft into purchase lines
func (o DraftOrder) PurchaseLines() []PurchaseLine {
	lines := make([]PurchaseLine, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = PurchaseLine{
			ProductID: l.ProductID,
			Quantity:  l.Canonical().Decimal(),
			UnitPrice: l.UnitPrice,
		}
	}
	return lines
}

// Quote totals the draft; taxRate applies to sales drafts only
func (o DraftOrder) Quote(taxRate decimal.Decimal) Totals {
	if o.Kind == DraftPurchase {
		return QuotePurchaseOrder(o.PurchaseLines())
	}
	return QuoteSalesOrder(o.SalesLines(), o.Discount, taxRate)
}
