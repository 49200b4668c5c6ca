package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storeflow-api/internal/application/auth"
	"github.com/jhoicas/storeflow-api/internal/application/catalog"
	"github.com/jhoicas/storeflow-api/internal/application/sales"
	"github.com/jhoicas/storeflow-api/internal/application/stock"
	"github.com/jhoicas/storeflow-api/internal/application/storeorder"
	"github.com/jhoicas/storeflow-api/internal/application/tasks"
	"github.com/jhoicas/storeflow-api/internal/application/transfer"
	"github.com/jhoicas/storeflow-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CatalogUC    *catalog.UseCase
	StockUC      *stock.UseCase
	BulkImporter *stock.BulkImporter
	SalesUC      *sales.UseCase
	TransferUC   *transfer.UseCase
	StoreOrderUC *storeorder.UseCase
	TaskRunner   *tasks.Runner
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	central := RequireRole(entity.RoleCentral)
	tienda := RequireRole(entity.RoleTienda)
	anyRole := RequireRole(entity.RoleCentral, entity.RoleTienda)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Marcas: el alta es pública (bootstrap de un tenant nuevo); el resto
	// requiere token.
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	api.Post("/brands", catalogHandler.CreateBrand)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Get("/brands/me", anyRole, catalogHandler.GetBrand)

	// Tiendas: crear y aprobar es de casa matriz.
	stores := protected.Group("/stores")
	stores.Post("/", central, catalogHandler.CreateStore)
	stores.Get("/", anyRole, catalogHandler.ListStores)
	stores.Get("/:id", anyRole, catalogHandler.GetStore)
	stores.Post("/:id/approve", central, catalogHandler.ApproveStore)

	// Productos y variantes: el catálogo lo administra casa matriz; la
	// consulta es de cualquier rol (la caja busca por código de barras).
	products := protected.Group("/products")
	products.Post("/", central, catalogHandler.CreateProduct)
	products.Get("/", anyRole, catalogHandler.SearchProducts)
	products.Get("/:id", anyRole, catalogHandler.GetProduct)
	products.Post("/:id/variants", central, catalogHandler.AddVariant)
	protected.Get("/variants/barcode/:barcode", anyRole, catalogHandler.FindVariantByBarcode)

	// Stock: ajustes manuales y carga masiva son de casa matriz; los conteos
	// físicos los hace la tienda.
	stockHandler := NewStockHandler(deps.StockUC, deps.BulkImporter, deps.TaskRunner)
	stockGroup := protected.Group("/stock")
	stockGroup.Post("/manual-update", central, stockHandler.ManualUpdate)
	stockGroup.Post("/actual-count", anyRole, stockHandler.SetActualCount)
	stockGroup.Post("/apply-count", anyRole, stockHandler.ApplyCountAdjust)
	stockGroup.Post("/bulk-import", central, stockHandler.BulkImport)
	stockGroup.Get("/:storeID", anyRole, stockHandler.ListStoreStock)
	stockGroup.Get("/:storeID/:variantID", anyRole, stockHandler.GetStock)
	stockGroup.Get("/:storeID/:variantID/ledger", anyRole, stockHandler.ListLedger)

	// Tareas asíncronas
	taskHandler := NewTaskHandler(deps.TaskRunner)
	protected.Get("/tasks/:id", anyRole, taskHandler.GetTask)

	// Ventas: operación de tienda. Consulta y PDF para cualquier rol.
	saleHandler := NewSaleHandler(deps.SalesUC)
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/", tienda, saleHandler.CreateSale)
	salesGroup.Get("/", anyRole, saleHandler.ListSales)
	salesGroup.Get("/:id", anyRole, saleHandler.GetSale)
	salesGroup.Get("/:id/receipt.pdf", anyRole, saleHandler.ReceiptPDF)
	salesGroup.Post("/:id/refund", tienda, saleHandler.RefundFull)
	salesGroup.Post("/:id/refund-partial", tienda, saleHandler.RefundPartial)

	// Traslados: las tiendas solicitan, despachan y reciben; casa matriz
	// instruye.
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers := protected.Group("/transfers")
	transfers.Post("/request", tienda, transferHandler.Request)
	transfers.Post("/instruct", central, transferHandler.Instruct)
	transfers.Get("/", anyRole, transferHandler.ListTransfers)
	transfers.Get("/:id", anyRole, transferHandler.GetTransfer)
	transfers.Post("/:id/ship", tienda, transferHandler.Ship)
	transfers.Post("/:id/receive", tienda, transferHandler.Receive)
	transfers.Post("/:id/reject", tienda, transferHandler.Reject)
	transfers.Post("/:id/cancel", tienda, transferHandler.Cancel)

	// Pedidos y devoluciones a casa matriz: la tienda crea, central decide.
	orderHandler := NewStoreOrderHandler(deps.StoreOrderUC)
	orders := protected.Group("/store-orders")
	orders.Post("/", tienda, orderHandler.CreateOrder)
	orders.Get("/", central, orderHandler.ListBrandOrders)
	orders.Get("/mine", anyRole, orderHandler.ListStoreOrders)
	orders.Get("/:id", anyRole, orderHandler.GetOrder)
	orders.Post("/:id/decide", central, orderHandler.DecideOrder)

	returns := protected.Group("/store-returns")
	returns.Post("/", tienda, orderHandler.CreateReturn)
	returns.Post("/:id/decide", central, orderHandler.DecideReturn)
}
