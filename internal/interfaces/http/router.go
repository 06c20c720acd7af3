package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Comanda-api/internal/application/inventory"
	"github.com/jhoicas/Comanda-api/internal/application/ordering"
	"github.com/jhoicas/Comanda-api/internal/application/usecase"
	"github.com/jhoicas/Comanda-api/internal/domain/entity"
	"github.com/jhoicas/Comanda-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	StockPolicy *inventory.StockPolicy
	CreateOrder *ordering.CreateOrderUseCase
	OrderUC     *ordering.OrderUseCase
	JWTSecret   string
	Logger      *logger.Logger
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token; el tenant sale del token.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	staff := RequireRole(entity.RoleAdmin, entity.RoleBartender, entity.RoleMesero)
	stockRoles := RequireRole(entity.RoleAdmin, entity.RoleBartender)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Products (catálogo; escritura solo admin)
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, log)
	products.Get("/", staff, productHandler.List)
	products.Get("/:id", staff, productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Inventory (ledger)
	inv := api.Group("/inventory", stockRoles)
	inventoryHandler := NewInventoryHandler(deps.StockPolicy, log)
	inv.Get("/low-stock", inventoryHandler.GetLowStock)
	inv.Post("/products/:id/adjust", inventoryHandler.AdjustStock)
	inv.Put("/products/:id/level", inventoryHandler.SetStockLevel)
	inv.Get("/products/:id/movements", inventoryHandler.ListMovements)

	// Orders
	orders := api.Group("/orders", staff)
	orderHandler := NewOrderHandler(deps.CreateOrder, deps.OrderUC, log)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/status", orderHandler.GetStatus)
	orders.Patch("/:id/status", orderHandler.UpdateStatus)
}
