package catalog

import (
	"time"

	"github.com/erp/tilestock/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	SKU             string           `json:"sku" binding:"required,max=50"`
	Name            string           `json:"name" binding:"required,max=200"`
	Description     string           `json:"description"`
	Price           decimal.Decimal  `json:"price"`
	Cost            decimal.Decimal  `json:"cost"`
	Unit            string           `json:"unit" binding:"max=20"`
	LengthMM        *decimal.Decimal `json:"length_mm"`
	WidthMM         *decimal.Decimal `json:"width_mm"`
	IsActive        *bool            `json:"is_active"`
	ReorderLevel    decimal.Decimal  `json:"reorder_level"`
	ReorderQuantity decimal.Decimal  `json:"reorder_quantity"`
}

// UpdateProductRequest represents a request to update a product.
// Omitted fields keep their current value.
type UpdateProductRequest struct {
	Name            *string          `json:"name" binding:"omitempty,max=200"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	Cost            *decimal.Decimal `json:"cost"`
	Unit            *string          `json:"unit" binding:"omitempty,max=20"`
	LengthMM        *decimal.Decimal `json:"length_mm"`
	WidthMM         *decimal.Decimal `json:"width_mm"`
	IsActive        *bool            `json:"is_active"`
	ReorderLevel    *decimal.Decimal `json:"reorder_level"`
	ReorderQuantity *decimal.Decimal `json:"reorder_quantity"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID              uuid.UUID        `json:"id"`
	SKU             string           `json:"sku"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           decimal.Decimal  `json:"price"`
	Cost            decimal.Decimal  `json:"cost"`
	Unit            string           `json:"unit"`
	LengthMM        *decimal.Decimal `json:"length_mm"`
	WidthMM         *decimal.Decimal `json:"width_mm"`
	TileArea        decimal.Decimal  `json:"tile_area"`
	ImageURL        string           `json:"image_url,omitempty"`
	IsActive        bool             `json:"is_active"`
	ReorderLevel    decimal.Decimal  `json:"reorder_level"`
	ReorderQuantity decimal.Decimal  `json:"reorder_quantity"`
	Version         int              `json:"version"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		Cost:            p.Cost,
		Unit:            p.Unit,
		LengthMM:        p.LengthMM,
		WidthMM:         p.WidthMM,
		TileArea:        p.TileArea(),
		ImageURL:        p.ImageURL,
		IsActive:        p.IsActive,
		ReorderLevel:    p.ReorderLevel,
		ReorderQuantity: p.ReorderQuantity,
		Version:         p.Version,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (r CreateProductRequest) details() catalog.ProductDetails {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return catalog.ProductDetails{
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		Cost:            r.Cost,
		Unit:            r.Unit,
		LengthMM:        r.LengthMM,
		WidthMM:         r.WidthMM,
		IsActive:        active,
		ReorderLevel:    r.ReorderLevel,
		ReorderQuantity: r.ReorderQuantity,
	}
}

// apply overlays the request on the product's current details
func (r UpdateProductRequest) apply(p *catalog.Product) catalog.ProductDetails {
	d := catalog.ProductDetails{
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		Cost:            p.Cost,
		Unit:            p.Unit,
		LengthMM:        p.LengthMM,
		WidthMM:         p.WidthMM,
		IsActive:        p.IsActive,
		ReorderLevel:    p.ReorderLevel,
		ReorderQuantity: p.ReorderQuantity,
	}
	if r.Name != nil {
		d.Name = *r.Name
	}
	if r.Description != nil {
		d.Description = *r.Description
	}
	if r.Price != nil {
		d.Price = *r.Price
	}
	if r.Cost != nil {
		d.Cost = *r.Cost
	}
	if r.Unit != nil {
		d.Unit = *r.Unit
	}
	if r.LengthMM != nil {
		d.LengthMM = r.LengthMM
	}
	if r.WidthMM != nil {
		d.WidthMM = r.WidthMM
	}
	if r.IsActive != nil {
		d.IsActive = *r.IsActive
	}
	if r.ReorderLevel != nil {
		d.ReorderLevel = *r.ReorderLevel
	}
	if r.ReorderQuantity != nil {
		d.ReorderQuantity = *r.ReorderQuantity
	}
	return d
}
