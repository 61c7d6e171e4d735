package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/tilestock/internal/domain/catalog"
	"github.com/erp/tilestock/internal/domain/inventory"
	"github.com/erp/tilestock/internal/domain/partner"
	"github.com/erp/tilestock/internal/domain/pricing"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/erp/tilestock/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseOrderConfig holds the tunables of the purchase order service
type PurchaseOrderConfig struct {
	Policy         inventory.BalancePolicy
	IdempotencyTTL time.Duration
}

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo      trade.PurchaseOrderRepository
	productRepo    catalog.ProductRepository
	supplierRepo   partner.SupplierRepository
	warehouseRepo  partner.WarehouseRepository
	txScope        TransactionScope
	cfg            PurchaseOrderConfig
	idempotency    idempotencyGuard
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo trade.PurchaseOrderRepository,
	productRepo catalog.ProductRepository,
	supplierRepo partner.SupplierRepository,
	warehouseRepo partner.WarehouseRepository,
	txScope TransactionScope,
	cfg PurchaseOrderConfig,
	logger *zap.Logger,
) *PurchaseOrderService {
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = DefaultIdempotencyTTL
	}
	if cfg.Policy.NegativeStock == "" {
		cfg.Policy = inventory.DefaultBalancePolicy()
	}
	return &PurchaseOrderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		supplierRepo:  supplierRepo,
		warehouseRepo: warehouseRepo,
		txScope:       txScope,
		cfg:           cfg,
		idempotency:   idempotencyGuard{ttl: cfg.IdempotencyTTL, logger: logger},
		logger:        logger,
		now:           time.Now,
	}
}

// SetEventPublisher sets the publisher that receives events after commit
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables Idempotency-Key handling for status changes and receipts
func (s *PurchaseOrderService) SetIdempotencyStore(store shared.IdempotencyStore) {
	s.idempotency.store = store
}

// List lists purchase orders
func (s *PurchaseOrderService) List(ctx context.Context, f ListFilter) (shared.Paginated[PurchaseOrderResponse], error) {
	filter, err := f.toFilter()
	if err != nil {
		return shared.Paginated[PurchaseOrderResponse]{}, err
	}
	orders, total, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[PurchaseOrderResponse]{}, err
	}
	items := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		items[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// GetByID returns a purchase order with its items
func (s *PurchaseOrderService) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// Create reconciles the request quantities to m² and saves a pending order.
// Purchase orders touch no stock until they are received.
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
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

	draft := pricing.DraftOrder{
		Kind:      pricing.DraftPurchase,
		PartnerID: req.SupplierID,
		Lines:     make([]pricing.DraftLine, len(req.Items)),
	}
	var errs shared.ValidationErrors
	for i, item := range req.Items {
		line, lineErr := draftLine(i, item.ProductID, item.Quantity, item.QuantityUnit, item.UnitPrice, products)
		if lineErr != nil {
			errs = append(errs, *lineErr)
		}
		draft.Lines[i] = line
	}
	errs = append(errs, draft.Validate()...)
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.supplierRepo.FindByID(ctx, req.SupplierID); err != nil {
		return nil, notFoundAs(err, "supplier_id", "Supplier not found")
	}

	number, err := s.orderRepo.NextOrderNumber(ctx, s.now())
	if err != nil {
		return nil, err
	}
	order, err := trade.NewPurchaseOrder(number, req.SupplierID, draft.PurchaseLines(), req.ExpectedDate, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.Total.String()),
	)
	s.publish(ctx, order.PullDomainEvents())
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// UpdateStatus moves an order to another status. Moving to received adds
// every line to the given warehouse in the same transaction.
func (s *PurchaseOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest, idempotencyKey string) (*PurchaseOrderResponse, error) {
	target, err := trade.ParsePurchaseOrderStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if target == trade.PurchaseOrderStatusReceived && req.WarehouseID != nil && *req.WarehouseID != uuid.Nil {
		if err := ensureWarehouseActive(ctx, s.warehouseRepo, *req.WarehouseID); err != nil {
			return nil, err
		}
	}
	return s.apply(ctx, id, idempotencyKey, func(order *trade.PurchaseOrder) (trade.StockEffect, error) {
		return order.Transition(target, req.WarehouseID)
	})
}

// Receive records the delivered quantities and receives the order into a
// warehouse. Lines without an override are received in full.
func (s *PurchaseOrderService) Receive(ctx context.Context, id uuid.UUID, req ReceiveRequest, idempotencyKey string) (*PurchaseOrderResponse, error) {
	if req.WarehouseID != uuid.Nil {
		if err := ensureWarehouseActive(ctx, s.warehouseRepo, req.WarehouseID); err != nil {
			return nil, err
		}
	}
	return s.apply(ctx, id, idempotencyKey, func(order *trade.PurchaseOrder) (trade.StockEffect, error) {
		for _, item := range req.Items {
			if err := order.SetReceivedQuantity(item.ItemID, item.ReceivedQuantity); err != nil {
				return trade.StockEffectNone, err
			}
		}
		return order.Receive(req.WarehouseID)
	})
}

// apply runs one state change of an order and its stock effect in a transaction
func (s *PurchaseOrderService) apply(ctx context.Context, id uuid.UUID, idempotencyKey string, change func(*trade.PurchaseOrder) (trade.StockEffect, error)) (*PurchaseOrderResponse, error) {
	var order *trade.PurchaseOrder
	var from trade.PurchaseOrderStatus
	var effect trade.StockEffect
	var events []shared.DomainEvent
	key := ""
	if idempotencyKey != "" {
		key = fmt.Sprintf("purchase-order:%s:%s", id, idempotencyKey)
	}

	err := s.idempotency.run(ctx, key, func() error {
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			order, err = repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			from = order.Status
			effect, err = change(order)
			if err != nil {
				return err
			}
			ledger := inventory.NewLedger(repos.InventoryRepo(), s.cfg.Policy)
			if err := applyPurchaseEffect(ctx, ledger, order, effect); err != nil {
				return err
			}
			if err := repos.PurchaseOrderRepo().Save(ctx, order); err != nil {
				return err
			}
			events = collectEvents(order, ledger)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(order.Status)),
		zap.String("stock_effect", effect.String()),
	)
	s.publish(ctx, events)
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// Transitions lists the statuses the order can move to next
func (s *PurchaseOrderService) Transitions(ctx context.Context, id uuid.UUID) (*TransitionsResponse, error) {
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

// Delete removes an order that has not been received
func (s *PurchaseOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := order.CanDelete(); err != nil {
		return err
	}
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("purchase order deleted", zap.String("order_id", id.String()))
	return nil
}

func (s *PurchaseOrderService) publish(ctx context.Context, events []shared.DomainEvent) {
	publish(ctx, s.eventPublisher, s.logger, events)
}
