package router

import (
	"github.com/erp/tilestock/internal/interfaces/http/handler"
)

// Handlers are the resource handlers served under the versioned API
type Handlers struct {
	Products       *handler.ProductHandler
	Customers      *handler.CustomerHandler
	Suppliers      *handler.SupplierHandler
	Warehouses     *handler.WarehouseHandler
	Inventory      *handler.InventoryHandler
	SalesOrders    *handler.SalesOrderHandler
	PurchaseOrders *handler.PurchaseOrderHandler
	Calculator     *handler.CalculatorHandler
	Leads          *handler.LeadHandler
}

// RegisterAPI registers every resource group on the router
func RegisterAPI(r *Router, h Handlers) *Router {
	products := NewDomainGroup("catalog", "/products").
		GET("", h.Products.List).
		POST("", h.Products.Create).
		GET("/:id", h.Products.GetByID).
		PUT("/:id", h.Products.Update).
		DELETE("/:id", h.Products.Delete).
		POST("/:id/image", h.Products.UploadImage)

	customers := NewDomainGroup("customers", "/customers").
		GET("", h.Customers.List).
		POST("", h.Customers.Create).
		GET("/:id", h.Customers.GetByID).
		PUT("/:id", h.Customers.Update).
		DELETE("/:id", h.Customers.Delete)

	suppliers := NewDomainGroup("suppliers", "/suppliers").
		GET("", h.Suppliers.List).
		POST("", h.Suppliers.Create).
		GET("/:id", h.Suppliers.GetByID).
		PUT("/:id", h.Suppliers.Update).
		DELETE("/:id", h.Suppliers.Delete)

	warehouses := NewDomainGroup("warehouses", "/warehouses").
		GET("", h.Warehouses.List).
		POST("", h.Warehouses.Create).
		GET("/:id", h.Warehouses.GetByID).
		PUT("/:id", h.Warehouses.Update).
		DELETE("/:id", h.Warehouses.Delete)

	// Static segments are registered next to /:id; gin resolves them first
	inventory := NewDomainGroup("inventory", "/inventory").
		GET("", h.Inventory.List).
		GET("/low-stock", h.Inventory.ListLowStock).
		POST("/adjust", h.Inventory.Adjust).
		POST("/transfer", h.Inventory.Transfer).
		GET("/:id", h.Inventory.GetByID).
		PUT("/:id", h.Inventory.Update).
		DELETE("/:id", h.Inventory.Delete)

	orders := NewDomainGroup("sales", "/orders").
		GET("", h.SalesOrders.List).
		POST("", h.SalesOrders.Create).
		GET("/:id", h.SalesOrders.GetByID).
		DELETE("/:id", h.SalesOrders.Delete).
		PATCH("/:id/status", h.SalesOrders.UpdateStatus).
		GET("/:id/transitions", h.SalesOrders.Transitions)

	purchaseOrders := NewDomainGroup("purchasing", "/purchase-orders").
		GET("", h.PurchaseOrders.List).
		POST("", h.PurchaseOrders.Create).
		GET("/:id", h.PurchaseOrders.GetByID).
		DELETE("/:id", h.PurchaseOrders.Delete).
		PATCH("/:id/status", h.PurchaseOrders.UpdateStatus).
		POST("/:id/receive", h.PurchaseOrders.Receive).
		GET("/:id/transitions", h.PurchaseOrders.Transitions)

	calculator := NewDomainGroup("calculator", "/calculator").
		POST("/convert", h.Calculator.Convert).
		POST("/snap", h.Calculator.Snap).
		POST("/step", h.Calculator.Step).
		POST("/quote", h.Calculator.Quote)

	leads := NewDomainGroup("crm", "/leads").
		GET("", h.Leads.List).
		POST("", h.Leads.Create).
		GET("/:id", h.Leads.GetByID).
		PUT("/:id", h.Leads.Update).
		DELETE("/:id", h.Leads.Delete).
		PUT("/:id/convert", h.Leads.Convert)

	return r.Register(products).
		Register(customers).
		Register(suppliers).
		Register(warehouses).
		Register(inventory).
		Register(orders).
		Register(purchaseOrders).
		Register(calculator).
		Register(leads)
}
