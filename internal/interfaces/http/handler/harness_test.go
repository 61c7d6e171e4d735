package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	calculatorapp "github.com/erp/tilestock/internal/application/calculator"
	catalogapp "github.com/erp/tilestock/internal/application/catalog"
	crmapp "github.com/erp/tilestock/internal/application/crm"
	inventoryapp "github.com/erp/tilestock/internal/application/inventory"
	partnerapp "github.com/erp/tilestock/internal/application/partner"
	tradeapp "github.com/erp/tilestock/internal/application/trade"
	"github.com/erp/tilestock/internal/domain/catalog"
	"github.com/erp/tilestock/internal/domain/inventory"
	"github.com/erp/tilestock/internal/domain/partner"
	"github.com/erp/tilestock/internal/infrastructure/cache"
	"github.com/erp/tilestock/internal/infrastructure/persistence"
	"github.com/erp/tilestock/internal/infrastructure/persistence/sqlitetest"
	"github.com/erp/tilestock/internal/infrastructure/storage"
	"github.com/erp/tilestock/internal/interfaces/http/dto"
	"github.com/erp/tilestock/internal/interfaces/http/handler"
	"github.com/erp/tilestock/internal/interfaces/http/middleware"
	"github.com/erp/tilestock/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// envelope mirrors dto.Response with the payload left raw
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

// api is the full HTTP stack over an in-memory database seeded with one
// 600x600 tile, two warehouses, a customer and a supplier
type api struct {
	engine    *gin.Engine
	product   *catalog.Product
	main      *partner.Warehouse
	annex     *partner.Warehouse
	customer  *partner.Customer
	supplier  *partner.Supplier
	images    *storage.MemoryImageStorage
	inventory *persistence.GormInventoryRepository
}

func newAPI(t *testing.T) *api {
	t.Helper()
	ctx := context.Background()
	db := sqlitetest.Open(t)
	log := zap.NewNop()

	productRepo := persistence.NewGormProductRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	supplierRepo := persistence.NewGormSupplierRepository(db)
	warehouseRepo := persistence.NewGormWarehouseRepository(db)
	inventoryRepo := persistence.NewGormInventoryRepository(db)
	salesRepo := persistence.NewGormSalesOrderRepository(db)
	purchaseRepo := persistence.NewGormPurchaseOrderRepository(db)

	product, err := catalog.NewProduct("POR-600", catalog.ProductDetails{
		Name:         "Porcelain 600x600",
		Price:        dec("650"),
		Cost:         dec("400"),
		Unit:         catalog.DefaultUnit,
		LengthMM:     decPtr("600"),
		WidthMM:      decPtr("600"),
		IsActive:     true,
		ReorderLevel: dec("20"),
	})
	require.NoError(t, err)
	require.NoError(t, productRepo.Save(ctx, product))

	main, err := partner.NewWarehouse("MAIN", "Main", "Industrial Rd 1")
	require.NoError(t, err)
	annex, err := partner.NewWarehouse("ANNEX", "Annex", "Industrial Rd 2")
	require.NoError(t, err)
	require.NoError(t, warehouseRepo.Save(ctx, main))
	require.NoError(t, warehouseRepo.Save(ctx, annex))

	customer, err := partner.NewCustomer(partner.ContactInfo{Name: "Stone & Co", Email: "buy@stone.example"})
	require.NoError(t, err)
	require.NoError(t, customerRepo.Save(ctx, customer))
	supplier, err := partner.NewSupplier(partner.ContactInfo{Name: "Ceramica"}, "Luca")
	require.NoError(t, err)
	require.NoError(t, supplierRepo.Save(ctx, supplier))

	policy := inventory.DefaultBalancePolicy()
	idempotency := cache.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = idempotency.Close() })
	images := storage.NewMemoryImageStorage("http://cdn.test/images")

	productService := catalogapp.NewProductService(productRepo, log, inventoryRepo, salesRepo, purchaseRepo)
	productService.SetImageStorage(images, 1<<10)

	tradeScope := persistence.NewGormTradeTransactionScope(db)
	salesService := tradeapp.NewSalesOrderService(salesRepo, productRepo, customerRepo, warehouseRepo, tradeScope,
		tradeapp.SalesOrderConfig{TaxRate: dec("0.10"), Policy: policy}, log)
	salesService.SetIdempotencyStore(idempotency)
	purchaseService := tradeapp.NewPurchaseOrderService(purchaseRepo, productRepo, supplierRepo, warehouseRepo, tradeScope,
		tradeapp.PurchaseOrderConfig{Policy: policy}, log)
	purchaseService.SetIdempotencyStore(idempotency)

	leadRepo := persistence.NewGormLeadRepository(db)
	customerService := partnerapp.NewCustomerService(customerRepo, salesRepo, log)
	customerService.SetLeadChecker(leadRepo)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	r := router.NewRouter(engine)
	router.RegisterAPI(r, router.Handlers{
		Products:   handler.NewProductHandler(productService),
		Customers:  handler.NewCustomerHandler(customerService),
		Suppliers:  handler.NewSupplierHandler(partnerapp.NewSupplierService(supplierRepo, purchaseRepo, log)),
		Warehouses: handler.NewWarehouseHandler(partnerapp.NewWarehouseService(warehouseRepo, log, inventoryRepo, salesRepo, purchaseRepo)),
		Inventory: handler.NewInventoryHandler(inventoryapp.NewInventoryService(
			inventoryRepo, productRepo, warehouseRepo, persistence.NewGormInventoryTransactionScope(db), policy, log,
		)),
		SalesOrders:    handler.NewSalesOrderHandler(salesService),
		PurchaseOrders: handler.NewPurchaseOrderHandler(purchaseService),
		Calculator:     handler.NewCalculatorHandler(calculatorapp.NewCalculatorService(productRepo, dec("0.10"), log)),
		Leads:          handler.NewLeadHandler(crmapp.NewLeadService(leadRepo, customerRepo, log)),
	}).Setup()

	return &api{
		engine:    engine,
		product:   product,
		main:      main,
		annex:     annex,
		customer:  customer,
		supplier:  supplier,
		images:    images,
		inventory: inventoryRepo,
	}
}

// stock seeds a balance for the tile in a warehouse
func (a *api) stock(t *testing.T, warehouse *partner.Warehouse, quantity, reserved string) *inventory.InventoryRecord {
	t.Helper()
	record, err := inventory.NewInventoryRecord(a.product.ID, warehouse.ID)
	require.NoError(t, err)
	record.Quantity = dec(quantity)
	record.ReservedQuantity = dec(reserved)
	require.NoError(t, a.inventory.Save(context.Background(), record))
	return record
}

func (a *api) balance(t *testing.T, warehouse *partner.Warehouse) *inventory.InventoryRecord {
	t.Helper()
	record, err := a.inventory.FindByProductAndWarehouse(context.Background(), a.product.ID, warehouse.ID)
	require.NoError(t, err)
	return record
}

// do sends a request; body may be nil, a string, or a value to encode as JSON
func (a *api) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// data decodes a successful response's payload into out
func data(t *testing.T, w *httptest.ResponseRecorder, status int, out any) envelope {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	env := decode(t, w)
	require.True(t, env.Success)
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

// failure asserts an error response and returns its error info
func failure(t *testing.T, w *httptest.ResponseRecorder, status int, code string) *dto.ErrorInfo {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	env := decode(t, w)
	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	require.Equal(t, code, env.Error.Code, env.Error.Message)
	require.NotEmpty(t, env.Error.RequestID)
	return env.Error
}

func detailFields(info *dto.ErrorInfo) map[string]string {
	fields := make(map[string]string, len(info.Details))
	for _, d := range info.Details {
		fields[d.Field] = d.Message
	}
	return fields
}
