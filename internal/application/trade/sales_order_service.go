package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/tilestock/internal/domain/catalog"
	"github.com/erp/tilestock/internal/domain/inventory"
	"github.com/erp/tilestock/internal/domain/measure"
	"github.com/erp/tilestock/internal/domain/partner"
	"github.com/erp/tilestock/internal/domain/pricing"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/erp/tilestock/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SalesOrderConfig holds the tunables of the sales order service.
// TaxRate is applied as given; zero means untaxed orders.
type SalesOrderConfig struct {
	TaxRate        decimal.Decimal
	Policy         inventory.BalancePolicy
	IdempotencyTTL time.Duration
}

// SalesOrderService handles sales order business operations
type SalesOrderService struct {
	orderRepo      trade.SalesOrderRepository
	productRepo    catalog.ProductRepository
	customerRepo   partner.CustomerRepository
	warehouseRepo  partner.WarehouseRepository
	txScope        TransactionScope
	cfg            SalesOrderConfig
	idempotency    idempotencyGuard
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(
	orderRepo trade.SalesOrderRepository,
	productRepo catalog.ProductRepository,
	customerRepo partner.CustomerRepository,
	warehouseRepo partner.WarehouseRepository,
	txScope TransactionScope,
	cfg SalesOrderConfig,
	logger *zap.Logger,
) *SalesOrderService {
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = DefaultIdempotencyTTL
	}
	if cfg.Policy.NegativeStock == "" {
		cfg.Policy = inventory.DefaultBalancePolicy()
	}
	return &SalesOrderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		customerRepo:  customerRepo,
		warehouseRepo: warehouseRepo,
		txScope:       txScope,
		cfg:           cfg,
		idempotency:   idempotencyGuard{ttl: cfg.IdempotencyTTL, logger: logger},
		logger:        logger,
		now:           time.Now,
	}
}

// SetEventPublisher sets the publisher that receives events after commit
func (s *SalesOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables Idempotency-Key handling for status changes
func (s *SalesOrderService) SetIdempotencyStore(store shared.IdempotencyStore) {
	s.idempotency.store = store
}

// List lists sales orders
func (s *SalesOrderService) List(ctx context.Context, f ListFilter) (shared.Paginated[SalesOrderResponse], error) {
	filter, err := f.toFilter()
	if err != nil {
		return shared.Paginated[SalesOrderResponse]{}, err
	}
	orders, total, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[SalesOrderResponse]{}, err
	}
	items := make([]SalesOrderResponse, len(orders))
	for i := range orders {
		items[i] = ToSalesOrderResponse(&orders[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// GetByID returns a sales order with its items
func (s *SalesOrderService) GetByID(ctx context.Context, id uuid.UUID) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

// Create reconciles the request quantities to m², validates the order, and
// saves it together with a reservation of every line in one transaction.
func (s *SalesOrderService) Create(ctx context.Context, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	products, err := s.loadProducts(ctx, productIDs(req.Items))
	if err != nil {
		return nil, err
	}

	draft := pricing.DraftOrder{
		Kind:        pricing.DraftSales,
		PartnerID:   req.CustomerID,
		WarehouseID: req.WarehouseID,
		Discount:    req.DiscountAmount,
		Lines:       make([]pricing.DraftLine, len(req.Items)),
	}
	var errs shared.ValidationErrors
	for i, item := range req.Items {
		line, lineErr := draftLine(i, item.ProductID, item.Quantity, item.QuantityUnit, item.UnitPrice, products)
		if lineErr != nil {
			errs = append(errs, *lineErr)
		}
		line.Discount = item.Discount
		if item.WarehouseID != nil {
			line.WarehouseID = *item.WarehouseID
		}
		draft.Lines[i] = line
	}
	errs = append(errs, draft.Validate()...)
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
		return nil, notFoundAs(err, "customer_id", "Customer not found")
	}
	lines := draft.SalesLines()
	if err := s.ensureWarehousesActive(ctx, req.WarehouseID, lines); err != nil {
		return nil, err
	}

	number, err := s.orderRepo.NextOrderNumber(ctx, s.now())
	if err != nil {
		return nil, err
	}
	order, err := trade.NewSalesOrder(number, req.CustomerID, req.WarehouseID, lines, draft.Discount, s.cfg.TaxRate, req.Notes)
	if err != nil {
		return nil, err
	}

	var events []shared.DomainEvent
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ledger := inventory.NewLedger(repos.InventoryRepo(), s.cfg.Policy)
		if err := reserveItems(ctx, ledger, order, products); err != nil {
			return err
		}
		if err := repos.SalesOrderRepo().Save(ctx, order); err != nil {
			return err
		}
		events = collectEvents(order, ledger)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sales order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.Total.String()),
	)
	s.publish(ctx, events)
	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

// UpdateStatus moves an order to another status and applies the stock
// movement the move calls for in the same transaction. A non-empty
// idempotencyKey makes a retried request fail with DUPLICATE_REQUEST.
func (s *SalesOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest, idempotencyKey string) (*SalesOrderResponse, error) {
	target, err := trade.ParseSalesOrderStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if target.RequiresWarehouse() && req.WarehouseID != nil && *req.WarehouseID != uuid.Nil {
		if err := s.ensureWarehouseActive(ctx, *req.WarehouseID); err != nil {
			return nil, err
		}
	}

	var order *trade.SalesOrder
	var from trade.SalesOrderStatus
	var effect trade.StockEffect
	var events []shared.DomainEvent
	key := ""
	if idempotencyKey != "" {
		key = fmt.Sprintf("sales-order:%s:%s", id, idempotencyKey)
	}
	err = s.idempotency.run(ctx, key, func() error {
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			order, err = repos.SalesOrderRepo().FindByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			from = order.Status
			effect, err = order.Transition(target, req.WarehouseID)
			if err != nil {
				return err
			}
			ledger := inventory.NewLedger(repos.InventoryRepo(), s.cfg.Policy)
			if err := applySalesEffect(ctx, ledger, order, effect); err != nil {
				return err
			}
			if err := repos.SalesOrderRepo().Save(ctx, order); err != nil {
				return err
			}
			events = collectEvents(order, ledger)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sales order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(order.Status)),
		zap.String("stock_effect", effect.String()),
	)
	s.publish(ctx, events)
	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

// Transitions lists the statuses the order can move to next
func (s *SalesOrderService) Transitions(ctx context.Context, id uuid.UUID) (*TransitionsResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := order.AvailableTransitions()
	resp := &TransitionsResponse{
		Current:   StatusOption{Value: string(order.Status), Label: order.Status.Label()},
		Available: make([]StatusOption, len(next)),
	}
	for i, st := range next {
		resp.Available[i] = StatusOption{Value: string(st), Label: st.Label()}
	}
	return resp, nil
}

// Delete removes a pending or cancelled order. Reservations still held by
// the order are released first.
func (s *SalesOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	var events []shared.DomainEvent
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.SalesOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := order.CanDelete(); err != nil {
			return err
		}
		ledger := inventory.NewLedger(repos.InventoryRepo(), s.cfg.Policy)
		if order.HoldsReservations() {
			if err := releaseReservations(ctx, ledger, order); err != nil {
				return err
			}
		}
		if err := repos.SalesOrderRepo().Delete(ctx, id); err != nil {
			return err
		}
		events = ledger.Events()
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("sales order deleted", zap.String("order_id", id.String()))
	s.publish(ctx, events)
	return nil
}

func (s *SalesOrderService) loadProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	return s.productRepo.FindByIDs(ctx, ids)
}

// ensureWarehousesActive checks the order warehouse and every line warehouse
func (s *SalesOrderService) ensureWarehousesActive(ctx context.Context, orderWarehouseID uuid.UUID, lines []pricing.SalesLine) error {
	seen := map[uuid.UUID]bool{}
	ids := []uuid.UUID{orderWarehouseID}
	for _, line := range lines {
		ids = append(ids, line.WarehouseID)
	}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := s.ensureWarehouseActive(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *SalesOrderService) ensureWarehouseActive(ctx context.Context, id uuid.UUID) error {
	return ensureWarehouseActive(ctx, s.warehouseRepo, id)
}

func (s *SalesOrderService) publish(ctx context.Context, events []shared.DomainEvent) {
	publish(ctx, s.eventPublisher, s.logger, events)
}

func productIDs(items []CreateSalesOrderItem) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.ProductID != uuid.Nil {
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}

// draftLine builds the draft of one request line. Unknown products and units
// are reported as field errors; the line is still returned so the remaining
// checks can run.
func draftLine(index int, productID uuid.UUID, quantity decimal.Decimal, rawUnit string, unitPrice decimal.Decimal, products map[uuid.UUID]*catalog.Product) (pricing.DraftLine, *shared.FieldError) {
	field := fmt.Sprintf("items[%d]", index)
	line := pricing.DraftLine{ProductID: productID, UnitPrice: unitPrice}

	unit, unitErr := measure.ParseUnit(rawUnit)
	if unitErr != nil {
		unit = measure.UnitArea
	}
	line.Quantity = measure.NewDisplayQuantity(quantity, unit)

	if product, ok := products[productID]; ok {
		line.Dimensions = product.Dimensions()
	} else if productID != uuid.Nil {
		return line, &shared.FieldError{Field: field + ".product_id", Message: fmt.Sprintf("Item %d: product not found", index+1)}
	}
	if unitErr != nil {
		return line, &shared.FieldError{Field: field + ".quantity_unit", Message: fmt.Sprintf("Item %d: unit must be 'area' or 'piece'", index+1)}
	}
	return line, nil
}

// notFoundAs turns a missing reference into a field error
func notFoundAs(err error, field, message string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.ValidationErrors{{Field: field, Message: message}}
	}
	return err
}

func ensureWarehouseActive(ctx context.Context, repo partner.WarehouseRepository, id uuid.UUID) error {
	warehouse, err := repo.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, "warehouse_id", "Warehouse not found")
	}
	return warehouse.EnsureActive()
}

func publish(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, events []shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("failed to publish order events", zap.Error(err))
	}
}
