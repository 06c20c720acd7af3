package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Comanda-api/internal/application/dto"
	"github.com/jhoicas/Comanda-api/internal/application/ordering"
	"github.com/jhoicas/Comanda-api/pkg/logger"
)

// HeaderIdempotencyKey header opcional para reintentos seguros de POST /api/orders.
const HeaderIdempotencyKey = "Idempotency-Key"

// OrderHandler maneja creación, consulta y flujo de estados de pedidos (protegido).
type OrderHandler struct {
	create *ordering.CreateOrderUseCase
	orders *ordering.OrderUseCase
	log    *logger.Logger
}

// NewOrderHandler construye el handler.
func NewOrderHandler(create *ordering.CreateOrderUseCase, orders *ordering.OrderUseCase, log *logger.Logger) *OrderHandler {
	return &OrderHandler{create: create, orders: orders, log: log}
}

// Create godoc
// @Summary      Crear pedido
// @Description  Valida stock, congela precios y descuenta stock en una sola transacción.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                  false  "Clave de idempotencia"
// @Param        body             body    dto.CreateOrderRequest  true   "table_id, items"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	lines := make([]ordering.OrderLine, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, ordering.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	order, err := h.create.CreateOrder(c.Context(), ordering.CreateOrderInput{
		TenantID:        tenantID,
		UserID:          GetUserID(c),
		TableID:         in.TableID,
		PaymentIntentID: in.PaymentIntentID,
		IdempotencyKey:  c.Get(HeaderIdempotencyKey),
		Items:           lines,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewOrderResponse(order))
}

// GetByID godoc
// @Summary      Obtener pedido con sus líneas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	order, err := h.orders.GetOrder(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.NewOrderResponse(order))
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.OrderListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	page := pageFromQuery(c)
	list, err := h.orders.ListOrders(c.Context(), tenantID, c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, o := range list {
		out.Items = append(out.Items, dto.NewOrderResponse(o))
	}
	return c.JSON(out)
}

// GetStatus godoc
// @Summary      Estado del pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [get]
func (h *OrderHandler) GetStatus(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	id := c.Params("id")
	status, err := h.orders.GetStatus(c.Context(), tenantID, id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"id": id, "status": status})
}

// UpdateStatus godoc
// @Summary      Avanzar estado del pedido
// @Description  PENDING_PAYMENT -> PAID -> PREPARING -> READY -> DELIVERED; CANCELLED antes de READY.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "status"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	order, err := h.orders.UpdateStatus(c.Context(), tenantID, c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.NewOrderResponse(order))
}
