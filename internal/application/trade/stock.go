package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/tilestock/internal/domain/catalog"
	"github.com/erp/tilestock/internal/domain/inventory"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/erp/tilestock/internal/domain/trade"
	"github.com/google/uuid"
)

// applySalesEffect executes the stock movement a sales order transition planned
func applySalesEffect(ctx context.Context, ledger *inventory.Ledger, order *trade.SalesOrder, effect trade.StockEffect) error {
	switch effect {
	case trade.StockEffectRelease:
		return releaseReservations(ctx, ledger, order)
	case trade.StockEffectDeduct:
		if err := releaseReservations(ctx, ledger, order); err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := ledger.Deduct(ctx, item.ProductID, *order.FulfillmentWarehouseID, item.Quantity); err != nil {
				return err
			}
		}
	}
	return nil
}

func releaseReservations(ctx context.Context, ledger *inventory.Ledger, order *trade.SalesOrder) error {
	for _, item := range order.Items {
		if err := ledger.Release(ctx, item.ProductID, item.WarehouseID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// reserveItems reserves every line of a new order in its own warehouse
func reserveItems(ctx context.Context, ledger *inventory.Ledger, order *trade.SalesOrder, products map[uuid.UUID]*catalog.Product) error {
	for i, item := range order.Items {
		if err := ledger.Reserve(ctx, item.ProductID, item.WarehouseID, item.Quantity); err != nil {
			return describeLine(err, i, products[item.ProductID])
		}
	}
	return nil
}

// applyPurchaseEffect receives every line of a purchase order into its receiving warehouse
func applyPurchaseEffect(ctx context.Context, ledger *inventory.Ledger, order *trade.PurchaseOrder, effect trade.StockEffect) error {
	if effect != trade.StockEffectReceive {
		return nil
	}
	for _, item := range order.Items {
		if _, err := ledger.Receive(ctx, item.ProductID, *order.ReceivedWarehouseID, item.ReceiptQuantity(), order.ID); err != nil {
			return err
		}
	}
	return nil
}

// describeLine prefixes a stock error with the line it happened on
func describeLine(err error, index int, product *catalog.Product) error {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		return err
	}
	label := fmt.Sprintf("Item %d", index+1)
	if product != nil {
		label = fmt.Sprintf("Item %d (%s)", index+1, product.SKU)
	}
	return shared.NewDomainError(domainErr.Code, label+": "+domainErr.Message)
}

// collectEvents drains the events raised by the order and the ledger
func collectEvents(agg shared.AggregateRoot, ledger *inventory.Ledger) []shared.DomainEvent {
	events := agg.PullDomainEvents()
	if ledger != nil {
		events = append(events, ledger.Events()...)
	}
	return events
}
