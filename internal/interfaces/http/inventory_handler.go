package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Comanda-api/internal/application/dto"
	"github.com/jhoicas/Comanda-api/internal/application/inventory"
	"github.com/jhoicas/Comanda-api/pkg/logger"
)

// InventoryHandler maneja ajustes de stock, conteos y consultas del ledger (protegido).
type InventoryHandler struct {
	policy *inventory.StockPolicy
	log    *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(policy *inventory.StockPolicy, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{policy: policy, log: log}
}

func stockChangeResponse(res *inventory.StockResult) dto.StockChangeResponse {
	return dto.StockChangeResponse{
		Product:  dto.NewProductResponse(res.Product),
		Movement: dto.NewStockMovementResponse(res.Movement),
	}
}

// AdjustStock godoc
// @Summary      Ajuste relativo de stock
// @Description  Suma delta al stock (negativo para descontar). type por defecto ADJUSTMENT.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del producto"
// @Param        body  body  dto.AdjustStockRequest  true  "delta, type, note"
// @Success      201   {object}  dto.StockChangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Router       /api/inventory/products/{id}/adjust [post]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.policy.AdjustStockFromRequest(c.Context(), tenantID, GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(stockChangeResponse(res))
}

// SetStockLevel godoc
// @Summary      Fijar stock (conteo físico)
// @Description  Registra un INVENTORY_COUNT con delta = quantity - stock actual.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.SetStockLevelRequest  true  "quantity, note"
// @Success      200   {object}  dto.StockChangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/level [put]
func (h *InventoryHandler) SetStockLevel(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	var in dto.SetStockLevelRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.policy.SetStockLevelFromRequest(c.Context(), tenantID, GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(stockChangeResponse(res))
}

// GetLowStock godoc
// @Summary      Productos con stock bajo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) GetLowStock(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	list, err := h.policy.GetLowStockProducts(c.Context(), tenantID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.NewProductResponses(list))
}

// ListMovements godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}   dto.StockMovementResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	page := pageFromQuery(c)
	list, err := h.policy.ListMovements(c.Context(), tenantID, c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.NewStockMovementResponses(list))
}
