// Package pricing computes line and order totals from canonical (m²) quantities.
// All arithmetic is decimal; rounding to cents happens only when formatting.
package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderTaxRate is the fixed VAT-style rate applied to purchase orders
var PurchaseOrderTaxRate = decimal.RequireFromString("0.12")

// SalesLine is a reconciled sales order line
type SalesLine struct {
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
	Quantity    decimal.Decimal // m²
	UnitPrice   decimal.Decimal // per m²
	Discount    decimal.Decimal
}

// Total returns quantity * unit_price - discount.
// A discount larger than the line amount yields a negative total; it is not clamped.
func (l SalesLine) Total() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice).Sub(l.Discount)
}

// PurchaseLine is a reconciled purchase order line
type PurchaseLine struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal // m²
	UnitPrice decimal.Decimal // per m²
}

// Total returns quantity * unit_price
func (l PurchaseLine) Total() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Line is anything with a line total
type Line interface {
	Total() decimal.Decimal
}

// LineTotal returns the total of a single line
func LineTotal(line Line) decimal.Decimal {
	return line.Total()
}

// OrderSubtotal sums the line totals
func OrderSubtotal[L Line](lines []L) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Total())
	}
	return subtotal
}

// OrderTotal returns subtotal - discount + tax
func OrderTotal(subtotal, discount, tax decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Add(tax)
}

// SalesTax returns subtotal * rate
func SalesTax(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate)
}

// PurchaseOrderTax returns subtotal * 0.12
func PurchaseOrderTax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(PurchaseOrderTaxRate)
}

// PurchaseOrderTotal returns subtotal + PurchaseOrderTax(subtotal)
func PurchaseOrderTotal(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Add(PurchaseOrderTax(subtotal))
}

// Totals is the monetary summary of an order
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// QuoteSalesOrder computes the totals of a sales order
func QuoteSalesOrder(lines []SalesLine, discount, taxRate decimal.Decimal) Totals {
	subtotal := OrderSubtotal(lines)
	tax := SalesTax(subtotal, taxRate)
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    OrderTotal(subtotal, discount, tax),
	}
}

// QuotePurchaseOrder computes the totals of a purchase order
func QuotePurchaseOrder(lines []PurchaseLine) Totals {
	subtotal := OrderSubtotal(lines)
	tax := PurchaseOrderTax(subtotal)
	return Totals{
		Subtotal: subtotal,
		Discount: decimal.Zero,
		Tax:      tax,
		Total:    OrderTotal(subtotal, decimal.Zero, tax),
	}
}
