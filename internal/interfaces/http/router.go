package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dquispe/tienda-pos/internal/application/auth"
	"github.com/dquispe/tienda-pos/internal/application/billing"
	"github.com/dquispe/tienda-pos/internal/application/cashbox"
	"github.com/dquispe/tienda-pos/internal/application/credit"
	"github.com/dquispe/tienda-pos/internal/application/inventory"
	"github.com/dquispe/tienda-pos/internal/application/usecase"
	"github.com/dquispe/tienda-pos/internal/domain/entity"
)

// RouterDeps agrupa todo lo que el router necesita para montar las rutas.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	StoreUC     *usecase.StoreUseCase
	ProductUC   *usecase.ProductUseCase
	SupplierUC  *usecase.SupplierUseCase
	InventoryUC *inventory.UseCase
	IssueUC     *billing.IssueUseCase
	VoidUC      *billing.VoidUseCase
	CustomerUC  *billing.CustomerUseCase
	CashboxUC   *cashbox.UseCase
	CreditUC    *credit.UseCase
	JWTSecret   string
}

// Router monta todas las rutas de la API sobre la app Fiber.
func Router(app *fiber.App, deps RouterDeps) {
	authH := NewAuthHandler(deps.AuthUC)
	storeH := NewStoreHandler(deps.StoreUC)
	productH := NewProductHandler(deps.ProductUC)
	supplierH := NewSupplierHandler(deps.SupplierUC)
	inventoryH := NewInventoryHandler(deps.InventoryUC)
	comprobanteH := NewComprobanteHandler(deps.IssueUC, deps.VoidUC)
	customerH := NewCustomerHandler(deps.CustomerUC, deps.CreditUC)
	cashboxH := NewCashboxHandler(deps.CashboxUC)

	api := app.Group("/api")

	// Rutas públicas: alta de tienda y autenticación.
	api.Post("/stores", storeH.Create)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authH.Register)
	authGroup.Post("/login", authH.Login)

	// Todo lo demás exige un token válido.
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))

	protected.Get("/stores/:id", storeH.GetByID)

	products := protected.Group("/products")
	products.Post("/", productH.Create)
	products.Get("/", productH.List)
	products.Get("/barcode/:codigo", productH.GetByBarcode)
	products.Get("/:id", productH.GetByID)
	products.Put("/:id", productH.Update)

	suppliers := protected.Group("/suppliers")
	suppliers.Post("/", supplierH.Create)
	suppliers.Get("/", supplierH.List)
	suppliers.Get("/:id", supplierH.GetByID)

	inv := protected.Group("/inventory")
	inv.Post("/purchases", inventoryH.RegisterPurchase)
	inv.Post("/adjustments", RequireRole(entity.RoleAdmin), inventoryH.RegisterAdjustment)
	inv.Get("/kardex/:productID", inventoryH.Kardex)
	inv.Get("/consistency/:productID", inventoryH.CheckConsistency)

	comprobantes := protected.Group("/comprobantes")
	comprobantes.Post("/", comprobanteH.Emitir)
	comprobantes.Get("/", comprobanteH.List)
	comprobantes.Get("/:id", comprobanteH.GetByID)
	comprobantes.Post("/:id/anular", RequireRole(entity.RoleAdmin), comprobanteH.Anular)

	customers := protected.Group("/customers")
	customers.Post("/", customerH.Create)
	customers.Get("/", customerH.List)
	customers.Get("/:id", customerH.GetByID)
	customers.Post("/:id/pagos", customerH.PayCredit)

	caja := protected.Group("/caja")
	caja.Post("/apertura", cashboxH.Open)
	caja.Post("/movimientos", cashboxH.RecordMovement)
	caja.Post("/cierre", cashboxH.Close)
	caja.Get("/actual", cashboxH.Current)
	caja.Get("/sesiones", cashboxH.ListSessions)
	caja.Get("/sesiones/:id/movimientos", cashboxH.ListMovements)
}
