package inventory

import (
	"context"

	"github.com/erp/tilestock/internal/domain/catalog"
	"github.com/erp/tilestock/internal/domain/inventory"
	"github.com/erp/tilestock/internal/domain/measure"
	"github.com/erp/tilestock/internal/domain/partner"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InventoryService handles stock balance operations
type InventoryService struct {
	inventoryRepo  inventory.RecordRepository
	productRepo    catalog.ProductRepository
	warehouseRepo  partner.WarehouseRepository
	txScope        TransactionScope
	policy         inventory.BalancePolicy
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	inventoryRepo inventory.RecordRepository,
	productRepo catalog.ProductRepository,
	warehouseRepo partner.WarehouseRepository,
	txScope TransactionScope,
	policy inventory.BalancePolicy,
	logger *zap.Logger,
) *InventoryService {
	if policy.NegativeStock == "" {
		policy = inventory.DefaultBalancePolicy()
	}
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		txScope:       txScope,
		policy:        policy,
		logger:        logger,
	}
}

// SetEventPublisher sets the publisher that receives events after commit
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List lists inventory records
func (s *InventoryService) List(ctx context.Context, f ListFilter) (shared.Paginated[InventoryResponse], error) {
	filter, err := f.toFilter()
	if err != nil {
		return shared.Paginated[InventoryResponse]{}, err
	}
	records, total, err := s.inventoryRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[InventoryResponse]{}, err
	}
	items := make([]InventoryResponse, len(records))
	for i := range records {
		items[i] = ToInventoryResponse(&records[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// GetByID returns an inventory record
func (s *InventoryService) GetByID(ctx context.Context, id uuid.UUID) (*InventoryResponse, error) {
	record, err := s.inventoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToInventoryResponse(record)
	return &resp, nil
}

// ListLowStock lists records whose available stock is at or below the product reorder level
func (s *InventoryService) ListLowStock(ctx context.Context, f ListFilter) (shared.Paginated[LowStockResponse], error) {
	filter, err := f.toFilter()
	if err != nil {
		return shared.Paginated[LowStockResponse]{}, err
	}
	records, total, err := s.inventoryRepo.FindLowStock(ctx, filter)
	if err != nil {
		return shared.Paginated[LowStockResponse]{}, err
	}
	ids := make([]uuid.UUID, len(records))
	for i := range records {
		ids[i] = records[i].ProductID
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return shared.Paginated[LowStockResponse]{}, err
	}
	items := make([]LowStockResponse, len(records))
	for i := range records {
		items[i] = toLowStockResponse(&records[i], products[records[i].ProductID])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Adjust applies an add/subtract/set adjustment to the record of a product
// in a warehouse. Piece quantities are converted to m² with the product's tile size.
func (s *InventoryService) Adjust(ctx context.Context, req AdjustRequest) (*InventoryResponse, error) {
	adjType, err := inventory.ParseAdjustmentType(req.AdjustmentType)
	if err != nil {
		return nil, err
	}
	unit, err := measure.ParseUnit(req.QuantityUnit)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	draft := inventory.DraftAdjustment{
		ProductID:   req.ProductID,
		WarehouseID: req.WarehouseID,
		Type:        adjType,
		Quantity:    measure.NewDisplayQuantity(req.AdjustmentQuantity, unit),
		Dimensions:  product.Dimensions(),
		Reserved:    req.ReservedQuantity,
	}
	if req.AdjustmentQuantity.IsNegative() {
		draft.Quantity.Value = req.AdjustmentQuantity
	}
	if err := draft.Validate().OrNil(); err != nil {
		return nil, err
	}

	var record *inventory.InventoryRecord
	var events []shared.DomainEvent
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ledger := inventory.NewLedger(repos.InventoryRepo(), s.policy)
		var err error
		record, err = ledger.AdjustProduct(ctx, draft.ProductID, draft.WarehouseID, draft.Type, draft.Amount(), draft.Reserved)
		events = ledger.Events()
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("inventory adjusted",
		zap.String("inventory_id", record.ID.String()),
		zap.String("adjustment_type", string(adjType)),
		zap.String("amount", draft.Amount().String()),
		zap.String("quantity", record.Quantity.String()),
	)
	s.publish(ctx, events)
	resp := ToInventoryResponse(record)
	return &resp, nil
}

// Update overwrites the quantity, and optionally the reservation, of a record
func (s *InventoryService) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*InventoryResponse, error) {
	unit, err := measure.ParseUnit(req.QuantityUnit)
	if err != nil {
		return nil, err
	}
	var errs shared.ValidationErrors
	if req.Quantity.IsNegative() {
		errs.Add("quantity", "Quantity cannot be negative")
	}
	if req.ReservedQuantity != nil && req.ReservedQuantity.IsNegative() {
		errs.Add("reserved_quantity", "Reserved quantity cannot be negative")
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	quantity := req.Quantity
	if unit == measure.UnitPiece {
		current, err := s.inventoryRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		product, err := s.productRepo.FindByID(ctx, current.ProductID)
		if err != nil {
			return nil, err
		}
		quantity = measure.ToCanonical(quantity, unit, product.Dimensions()).Decimal()
	}
	return s.setBalance(ctx, id, quantity, req.ReservedQuantity, "inventory updated")
}

// Delete zeroes the on-hand quantity of a record. The record itself is kept.
func (s *InventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.setBalance(ctx, id, decimal.Zero, nil, "inventory cleared")
	return err
}

func (s *InventoryService) setBalance(ctx context.Context, id uuid.UUID, quantity decimal.Decimal, reserved *decimal.Decimal, msg string) (*InventoryResponse, error) {
	var record *inventory.InventoryRecord
	var events []shared.DomainEvent
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ledger := inventory.NewLedger(repos.InventoryRepo(), s.policy)
		var err error
		record, err = ledger.Adjust(ctx, id, inventory.AdjustmentSet, quantity, reserved)
		events = ledger.Events()
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(msg, zap.String("inventory_id", id.String()), zap.String("quantity", record.Quantity.String()))
	s.publish(ctx, events)
	resp := ToInventoryResponse(record)
	return &resp, nil
}

// Transfer moves available stock of a product from one warehouse to another
func (s *InventoryService) Transfer(ctx context.Context, req TransferRequest) (*TransferResponse, error) {
	unit, err := measure.ParseUnit(req.QuantityUnit)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	to, err := s.warehouseRepo.FindByID(ctx, req.ToWarehouseID)
	if err != nil {
		return nil, err
	}
	if err := to.EnsureActive(); err != nil {
		return nil, err
	}
	if !req.Quantity.IsPositive() {
		return nil, shared.ValidationErrors{{Field: "quantity", Message: "Quantity must be greater than zero"}}
	}
	quantity := measure.ToCanonical(req.Quantity, unit, product.Dimensions()).Decimal()

	var from, dest *inventory.InventoryRecord
	var events []shared.DomainEvent
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ledger := inventory.NewLedger(repos.InventoryRepo(), s.policy)
		var err error
		from, dest, err = ledger.Transfer(ctx, req.ProductID, req.FromWarehouseID, req.ToWarehouseID, quantity)
		events = ledger.Events()
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock transferred",
		zap.String("product_id", req.ProductID.String()),
		zap.String("from_warehouse_id", req.FromWarehouseID.String()),
		zap.String("to_warehouse_id", req.ToWarehouseID.String()),
		zap.String("quantity", quantity.String()),
	)
	s.publish(ctx, events)
	return &TransferResponse{From: ToInventoryResponse(from), To: ToInventoryResponse(dest)}, nil
}

func (s *InventoryService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish inventory events", zap.Error(err))
	}
}
