package calculator

import (
	"context"
	"fmt"

	"github.com/erp/tilestock/internal/domain/catalog"
	"github.com/erp/tilestock/internal/domain/measure"
	"github.com/erp/tilestock/internal/domain/pricing"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CalculatorService serves the quantity and total calculations the order
// and inventory forms run while the user types. Nothing is persisted.
type CalculatorService struct {
	productRepo  catalog.ProductRepository
	salesTaxRate decimal.Decimal
	logger       *zap.Logger
}

// NewCalculatorService creates a new CalculatorService
func NewCalculatorService(productRepo catalog.ProductRepository, salesTaxRate decimal.Decimal, logger *zap.Logger) *CalculatorService {
	return &CalculatorService{
		productRepo:  productRepo,
		salesTaxRate: salesTaxRate,
		logger:       logger,
	}
}

// Convert re-expresses a value in another unit
func (s *CalculatorService) Convert(ctx context.Context, req ConvertRequest) (*QuantityResponse, error) {
	from, err := measure.ParseUnit(req.From)
	if err != nil {
		return nil, err
	}
	to, err := measure.ParseUnit(req.To)
	if err != nil {
		return nil, err
	}
	dims, err := s.dimensions(ctx, req.Tile)
	if err != nil {
		return nil, err
	}
	value := measure.NewDisplayQuantity(req.Value, from).ToggleTo(to, dims)
	return quantityResponse(value, dims), nil
}

// Snap rounds an area to the nearest whole number of tiles
func (s *CalculatorService) Snap(ctx context.Context, req SnapRequest) (*QuantityResponse, error) {
	dims, err := s.dimensions(ctx, req.Tile)
	if err != nil {
		return nil, err
	}
	area := measure.SnapToTileMultiple(req.Area, dims)
	return quantityResponse(measure.NewDisplayQuantity(area, measure.UnitArea), dims), nil
}

// Step moves a value by one tile in area mode or one piece in piece mode
func (s *CalculatorService) Step(ctx context.Context, req StepRequest) (*QuantityResponse, error) {
	unit, err := measure.ParseUnit(req.Unit)
	if err != nil {
		return nil, err
	}
	dims, err := s.dimensions(ctx, req.Tile)
	if err != nil {
		return nil, err
	}
	dir := measure.StepUp
	if req.Direction == "down" {
		dir = measure.StepDown
	}
	next, err := measure.Step(req.Value, unit, dims, dir)
	if err != nil {
		return nil, err
	}
	return quantityResponse(measure.NewDisplayQuantity(next, unit), dims), nil
}

// Quote reconciles a draft order and computes its totals. Every input
// problem is returned at once as ValidationErrors.
func (s *CalculatorService) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	kind := pricing.DraftSales
	if req.Kind == string(pricing.DraftPurchase) {
		kind = pricing.DraftPurchase
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		if item.ProductID != uuid.Nil {
			ids = append(ids, item.ProductID)
		}
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var errs shared.ValidationErrors
	draft := pricing.DraftOrder{Kind: kind, Discount: req.Discount, Lines: make([]pricing.DraftLine, len(req.Items))}
	for i, item := range req.Items {
		unit, err := measure.ParseUnit(item.QuantityUnit)
		if err != nil {
			errs.Add(fmt.Sprintf("items[%d].quantity_unit", i), fmt.Sprintf("Item %d: unit must be 'area' or 'piece'", i+1))
			unit = measure.UnitArea
		}
		line := pricing.DraftLine{
			ProductID: item.ProductID,
			Quantity:  measure.NewDisplayQuantity(item.Quantity, unit),
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
		}
		if product, ok := products[item.ProductID]; ok {
			line.Dimensions = product.Dimensions()
		} else if item.ProductID != uuid.Nil {
			errs.Add(fmt.Sprintf("items[%d].product_id", i), fmt.Sprintf("Item %d: product not found", i+1))
		}
		draft.Lines[i] = line
	}

	// a quote has no partner or warehouse yet; only line problems count
	for _, e := range draft.Validate() {
		if e.Field == "customer_id" || e.Field == "supplier_id" || e.Field == "warehouse_id" {
			continue
		}
		errs = append(errs, e)
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	resp := &QuoteResponse{Lines: make([]QuoteLine, len(draft.Lines))}
	if kind == pricing.DraftPurchase {
		resp.TaxRate = pricing.PurchaseOrderTaxRate
		for i, line := range draft.PurchaseLines() {
			resp.Lines[i] = QuoteLine{ProductID: line.ProductID, Quantity: line.Quantity, Total: line.Total()}
		}
	} else {
		resp.TaxRate = s.salesTaxRate
		for i, line := range draft.SalesLines() {
			resp.Lines[i] = QuoteLine{ProductID: line.ProductID, Quantity: line.Quantity, Total: line.Total()}
		}
	}
	resp.Totals = draft.Quote(s.salesTaxRate)
	resp.Formatted = pricing.FormatTotals(resp.Totals)

	s.logger.Debug("draft quoted",
		zap.String("kind", string(kind)),
		zap.Int("lines", len(draft.Lines)),
		zap.String("total", resp.Totals.Total.String()),
	)
	return resp, nil
}

func (s *CalculatorService) dimensions(ctx context.Context, tile Tile) (measure.TileDimensions, error) {
	if tile.ProductID != nil && *tile.ProductID != uuid.Nil {
		product, err := s.productRepo.FindByID(ctx, *tile.ProductID)
		if err != nil {
			return measure.TileDimensions{}, err
		}
		return product.Dimensions(), nil
	}
	return measure.NewTileDimensions(tile.LengthMM, tile.WidthMM), nil
}

func quantityResponse(q measure.DisplayQuantity, dims measure.TileDimensions) *QuantityResponse {
	return &QuantityResponse{
		Value:     q.Value,
		Unit:      q.Unit,
		Formatted: q.String(),
		Area:      q.Canonical(dims).Decimal(),
		TileArea:  dims.Area(),
	}
}
