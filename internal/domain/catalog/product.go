package catalog

import (
	"strings"

	"github.com/erp/tilestock/internal/domain/measure"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultUnit is the sales unit of tile products
const DefaultUnit = "m²"

// Product is a tile SKU. Tile sides are in millimetres; both must be set
// for piece quantities to convert to m².
type Product struct {
	shared.BaseAggregateRoot
	SKU             string           `gorm:"column:sku;type:varchar(50);not null;uniqueIndex"`
	Name            string           `gorm:"type:varchar(200);not null"`
	Description     string           `gorm:"type:text"`
	Price           decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	Cost            decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	Unit            string           `gorm:"type:varchar(20);not null"`
	LengthMM        *decimal.Decimal `gorm:"column:length_mm;type:decimal(10,2)"`
	WidthMM         *decimal.Decimal `gorm:"column:width_mm;type:decimal(10,2)"`
	ImageURL        string           `gorm:"type:varchar(500)"`
	IsActive        bool             `gorm:"not null"`
	ReorderLevel    decimal.Decimal  `gorm:"type:decimal(18,6);not null;default:0"`
	ReorderQuantity decimal.Decimal  `gorm:"type:decimal(18,6);not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductDetails holds the editable attributes of a product
type ProductDetails struct {
	Name            string
	Description     string
	Price           decimal.Decimal
	Cost            decimal.Decimal
	Unit            string
	LengthMM        *decimal.Decimal
	WidthMM         *decimal.Decimal
	IsActive        bool
	ReorderLevel    decimal.Decimal
	ReorderQuantity decimal.Decimal
}

// NewProduct creates a new product
func NewProduct(sku string, details ProductDetails) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(strings.TrimSpace(sku)),
	}
	if err := product.Update(details); err != nil {
		return nil, err
	}
	return product, nil
}

// Update replaces the editable attributes
func (p *Product) Update(details ProductDetails) error {
	var errs shared.ValidationErrors
	name := strings.TrimSpace(details.Name)
	if name == "" {
		errs.Add("name", "Product name cannot be empty")
	} else if len(name) > 200 {
		errs.Add("name", "Product name cannot exceed 200 characters")
	}
	if details.Price.IsNegative() {
		errs.Add("price", "Price cannot be negative")
	}
	if details.Cost.IsNegative() {
		errs.Add("cost", "Cost cannot be negative")
	}
	if len(details.Unit) > 20 {
		errs.Add("unit", "Unit cannot exceed 20 characters")
	}
	if details.LengthMM != nil && details.LengthMM.IsNegative() {
		errs.Add("length_mm", "Tile length cannot be negative")
	}
	if details.WidthMM != nil && details.WidthMM.IsNegative() {
		errs.Add("width_mm", "Tile width cannot be negative")
	}
	if details.ReorderLevel.IsNegative() {
		errs.Add("reorder_level", "Reorder level cannot be negative")
	}
	if details.ReorderQuantity.IsNegative() {
		errs.Add("reorder_quantity", "Reorder quantity cannot be negative")
	}
	if err := errs.OrNil(); err != nil {
		return err
	}

	unit := strings.TrimSpace(details.Unit)
	if unit == "" {
		unit = DefaultUnit
	}
	p.Name = name
	p.Description = details.Description
	p.Price = details.Price
	p.Cost = details.Cost
	p.Unit = unit
	p.LengthMM = details.LengthMM
	p.WidthMM = details.WidthMM
	p.IsActive = details.IsActive
	p.ReorderLevel = details.ReorderLevel
	p.ReorderQuantity = details.ReorderQuantity
	p.Touch()
	return nil
}

// SetImageURL records where the product image is stored
func (p *Product) SetImageURL(url string) {
	p.ImageURL = url
	p.Touch()
}

// Dimensions returns the tile dimensions of the product
func (p *Product) Dimensions() measure.TileDimensions {
	return measure.NewTileDimensions(p.LengthMM, p.WidthMM)
}

// TileArea returns the area of one tile in m², zero when unknown
func (p *Product) TileArea() decimal.Decimal {
	return p.Dimensions().Area()
}

// IsLowStock reports whether available stock has fallen to the reorder level
func (p *Product) IsLowStock(available decimal.Decimal) bool {
	return p.ReorderLevel.IsPositive() && available.LessThanOrEqual(p.ReorderLevel)
}

func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.') {
			return shared.NewDomainError("INVALID_SKU", "SKU can only contain letters, numbers, dots, underscores, and hyphens")
		}
	}
	return nil
}
