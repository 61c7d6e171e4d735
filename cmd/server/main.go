package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	calculatorapp "github.com/erp/tilestock/internal/application/calculator"
	catalogapp "github.com/erp/tilestock/internal/application/catalog"
	crmapp "github.com/erp/tilestock/internal/application/crm"
	inventoryapp "github.com/erp/tilestock/internal/application/inventory"
	partnerapp "github.com/erp/tilestock/internal/application/partner"
	tradeapp "github.com/erp/tilestock/internal/application/trade"
	"github.com/erp/tilestock/internal/domain/inventory"
	"github.com/erp/tilestock/internal/infrastructure/cache"
	"github.com/erp/tilestock/internal/infrastructure/config"
	"github.com/erp/tilestock/internal/infrastructure/event"
	"github.com/erp/tilestock/internal/infrastructure/logger"
	"github.com/erp/tilestock/internal/infrastructure/persistence"
	"github.com/erp/tilestock/internal/infrastructure/storage"
	"github.com/erp/tilestock/internal/interfaces/http/handler"
	"github.com/erp/tilestock/internal/interfaces/http/middleware"
	"github.com/erp/tilestock/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
		Service:    cfg.App.Name,
		Env:        cfg.App.Env,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting tilestock",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	policy, err := balancePolicy(cfg.Inventory)
	if err != nil {
		log.Fatal("Invalid inventory policy", zap.Error(err))
	}

	// GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.GormLogLevel),
		logger.WithSlowThreshold(cfg.Log.SlowQuery),
	)

	db, err := persistence.Open(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	leadRepo := persistence.NewGormLeadRepository(db.DB)

	// Event bus; handlers run after the publishing transaction commits
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(inventoryapp.NewLowStockHandler(productRepo, log))
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Services
	productService := catalogapp.NewProductService(productRepo, log, inventoryRepo, salesOrderRepo, purchaseOrderRepo)
	if cfg.Storage.Enabled {
		images, err := storage.NewS3ImageStorage(cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize image storage", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := images.EnsureBucket(ctx); err != nil {
			log.Warn("Image bucket check failed", zap.String("bucket", images.Bucket()), zap.Error(err))
		}
		cancel()
		productService.SetImageStorage(images, cfg.Storage.MaxImageSize)
	} else {
		log.Info("Image storage disabled, product image upload is unavailable")
	}

	customerService := partnerapp.NewCustomerService(customerRepo, salesOrderRepo, log)
	customerService.SetLeadChecker(leadRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo, purchaseOrderRepo, log)
	warehouseService := partnerapp.NewWarehouseService(warehouseRepo, log, inventoryRepo, salesOrderRepo, purchaseOrderRepo)

	inventoryService := inventoryapp.NewInventoryService(
		inventoryRepo, productRepo, warehouseRepo,
		persistence.NewGormInventoryTransactionScope(db.DB), policy, log,
	)
	inventoryService.SetEventPublisher(eventBus)

	tradeScope := persistence.NewGormTradeTransactionScope(db.DB)
	salesOrderService := tradeapp.NewSalesOrderService(
		salesOrderRepo, productRepo, customerRepo, warehouseRepo, tradeScope,
		tradeapp.SalesOrderConfig{
			TaxRate:        cfg.Trade.SalesTaxRate,
			Policy:         policy,
			IdempotencyTTL: cfg.Trade.IdempotencyTTL,
		},
		log,
	)
	salesOrderService.SetEventPublisher(eventBus)
	salesOrderService.SetIdempotencyStore(idempotencyStore)

	purchaseOrderService := tradeapp.NewPurchaseOrderService(
		purchaseOrderRepo, productRepo, supplierRepo, warehouseRepo, tradeScope,
		tradeapp.PurchaseOrderConfig{
			Policy:         policy,
			IdempotencyTTL: cfg.Trade.IdempotencyTTL,
		},
		log,
	)
	purchaseOrderService.SetEventPublisher(eventBus)
	purchaseOrderService.SetIdempotencyStore(idempotencyStore)

	calculatorService := calculatorapp.NewCalculatorService(productRepo, cfg.Trade.SalesTaxRate, log)

	leadService := crmapp.NewLeadService(leadRepo, customerRepo, log)
	leadService.SetEventPublisher(eventBus)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request id, recovery, access log, security
	// headers, CORS, body limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", handler.NewHealthHandler(db).Check)

	router.RegisterAPI(router.NewRouter(engine, router.WithAPIVersion("v1")), router.Handlers{
		Products:       handler.NewProductHandler(productService),
		Customers:      handler.NewCustomerHandler(customerService),
		Suppliers:      handler.NewSupplierHandler(supplierService),
		Warehouses:     handler.NewWarehouseHandler(warehouseService),
		Inventory:      handler.NewInventoryHandler(inventoryService),
		SalesOrders:    handler.NewSalesOrderHandler(salesOrderService),
		PurchaseOrders: handler.NewPurchaseOrderHandler(purchaseOrderService),
		Calculator:     handler.NewCalculatorHandler(calculatorService),
		Leads:          handler.NewLeadHandler(leadService),
	}).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

func balancePolicy(cfg config.InventoryConfig) (inventory.BalancePolicy, error) {
	mode, err := inventory.ParseNegativeStockMode(cfg.NegativeStock)
	if err != nil {
		return inventory.BalancePolicy{}, err
	}
	return inventory.BalancePolicy{
		NegativeStock:                 mode,
		EnforceReservedWithinQuantity: cfg.EnforceReservedWithinQuantity,
	}, nil
}
