package ordering

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Comanda-api/internal/application/inventory"
	"github.com/jhoicas/Comanda-api/internal/application/ports"
	"github.com/jhoicas/Comanda-api/internal/domain"
	"github.com/jhoicas/Comanda-api/internal/domain/entity"
	"github.com/jhoicas/Comanda-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// NoteCustomerOrder nota de los movimientos SALE generados por un pedido.
const NoteCustomerOrder = "customer order"

// OrderLine producto y cantidad pedidos.
type OrderLine struct {
	ProductID string
	Quantity  int
}

// CreateOrderInput entrada para crear un pedido de mesa.
// IdempotencyKey es opcional: con la misma clave se devuelve el pedido ya creado.
type CreateOrderInput struct {
	TenantID        string
	UserID          string
	TableID         string
	PaymentIntentID string
	IdempotencyKey  string
	Items           []OrderLine
}

// CreateOrderUseCase valida stock, congela precios, reserva stock y persiste el pedido en una sola transacción.
type CreateOrderUseCase struct {
	txRunner    OrderTxRunner
	stock       StockReserver
	productRepo repository.ProductRepository
	orders      *OrderUseCase
	publisher   ports.EventPublisher
	cache       ports.OrderCache
	now         func() time.Time
}

// NewCreateOrderUseCase construye el orquestador de pedidos. publisher/cache nil = no-op.
func NewCreateOrderUseCase(
	txRunner OrderTxRunner,
	stock StockReserver,
	productRepo repository.ProductRepository,
	orders *OrderUseCase,
	publisher ports.EventPublisher,
	cache ports.OrderCache,
) *CreateOrderUseCase {
	if publisher == nil {
		publisher = ports.NoopPublisher{}
	}
	if cache == nil {
		cache = ports.NoopOrderCache{}
	}
	return &CreateOrderUseCase{
		txRunner:    txRunner,
		stock:       stock,
		productRepo: productRepo,
		orders:      orders,
		publisher:   publisher,
		cache:       cache,
		now:         time.Now,
	}
}

// CreateOrder crea el pedido en PENDING_PAYMENT.
//
//  1. Chequeo previo de stock de todos los productos en una sola consulta (informativo, no bloquea).
//  2. En una transacción, por cada línea: bloquea el producto, congela el precio, acumula el total y
//     descuenta stock vía StockManager (SALE). Ese descuento es la validación real bajo concurrencia.
//  3. Inserta cabecera y líneas. Cualquier error revierte todos los descuentos anteriores.
//
// Con IdempotencyKey la clave se guarda en la cabecera (única por tenant). Si dos requests con la
// misma clave corren a la vez, el segundo choca al insertar, su tx se revierte y recibe el pedido
// del primero. Redis es solo el atajo de lectura delante de esa restricción.
func (uc *CreateOrderUseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.Order, error) {
	if err := validateOrderInput(in); err != nil {
		return nil, err
	}

	if in.IdempotencyKey != "" {
		existing, err := uc.findByKey(ctx, in.TenantID, in.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	order, movements, err := uc.place(ctx, in)
	if err != nil {
		if in.IdempotencyKey == "" {
			return nil, err
		}
		// Otro request con la misma clave pudo confirmar primero: su pedido es la respuesta.
		existing, findErr := uc.findByKey(ctx, in.TenantID, in.IdempotencyKey)
		if findErr != nil || existing == nil {
			return nil, err
		}
		return existing, nil
	}

	// Post-commit: cache y eventos no afectan el resultado
	uc.cache.SetStatus(ctx, order.TenantID, order.ID, order.Status)
	if in.IdempotencyKey != "" {
		uc.cache.RememberIdempotency(ctx, order.TenantID, in.IdempotencyKey, order.ID)
	}
	for _, m := range movements {
		uc.publisher.StockMoved(ctx, m)
	}
	uc.publisher.OrderCreated(ctx, order)
	return order, nil
}

func (uc *CreateOrderUseCase) place(ctx context.Context, in CreateOrderInput) (*entity.Order, []*entity.StockMovement, error) {
	// 1) Chequeo previo: cantidades acumuladas por producto (una línea repetida suma)
	requested := make(map[string]int, len(in.Items))
	ids := make([]string, 0, len(in.Items))
	for _, line := range in.Items {
		if _, seen := requested[line.ProductID]; !seen {
			ids = append(ids, line.ProductID)
		}
		requested[line.ProductID] += line.Quantity
		if requested[line.ProductID] > entity.MaxStockQuantity {
			return nil, nil, domain.ErrInvalidInput
		}
	}
	levels, err := uc.productRepo.GetStockLevels(ctx, in.TenantID, ids)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range ids {
		available, ok := levels[id]
		if !ok {
			return nil, nil, domain.ErrNotFound
		}
		if available < requested[id] {
			return nil, nil, domain.NewInsufficientStock(id, available, requested[id])
		}
	}

	now := uc.now()
	order := &entity.Order{
		ID:              uuid.New().String(),
		TenantID:        in.TenantID,
		TableID:         in.TableID,
		Status:          entity.OrderPendingPayment,
		PaymentIntentID: in.PaymentIntentID,
		IdempotencyKey:  in.IdempotencyKey,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	var movements []*entity.StockMovement

	err = uc.txRunner.RunOrder(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		orderRepo repository.OrderRepository,
	) error {
		movements = movements[:0]
		total := decimal.Zero
		items := make([]*entity.OrderItem, 0, len(in.Items))

		// 2) Precio congelado + reserva de stock por línea
		for _, line := range in.Items {
			product, err := productRepo.GetForUpdate(ctx, in.TenantID, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			item := &entity.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
				CreatedAt: now,
			}
			total = total.Add(item.LineTotal())

			res, err := uc.stock.ApplyStockDeltaInTx(ctx, productRepo, movRepo,
				in.TenantID, line.ProductID, -line.Quantity,
				inventory.StockChange{Type: entity.MovementSale, Note: NoteCustomerOrder, ActorID: in.UserID},
			)
			if err != nil {
				return err
			}
			movements = append(movements, res.Movement)
			items = append(items, item)
		}

		// 3) Cabecera + líneas
		order.TotalAmount = total
		order.Items = items
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}
		return orderRepo.CreateItems(ctx, items)
	})
	if err != nil {
		return nil, nil, err
	}
	return order, movements, nil
}

// findByKey busca el pedido creado con la clave: primero en el cache, después en la base.
func (uc *CreateOrderUseCase) findByKey(ctx context.Context, tenantID, key string) (*entity.Order, error) {
	if orderID, err := uc.cache.LookupIdempotency(ctx, tenantID, key); err == nil && orderID != "" {
		if existing, err := uc.orders.GetOrder(ctx, tenantID, orderID); err == nil {
			return existing, nil
		}
	}
	existing, err := uc.orders.orderRepo.GetByIdempotencyKey(ctx, tenantID, key)
	if err != nil || existing == nil {
		return nil, err
	}
	items, err := uc.orders.orderRepo.ListItems(ctx, existing.ID)
	if err != nil {
		return nil, err
	}
	existing.Items = items
	uc.cache.RememberIdempotency(ctx, tenantID, key, existing.ID)
	return existing, nil
}

func validateOrderInput(in CreateOrderInput) error {
	if in.TenantID == "" || strings.TrimSpace(in.TableID) == "" || len(in.Items) == 0 {
		return domain.ErrInvalidInput
	}
	for _, line := range in.Items {
		if line.ProductID == "" || line.Quantity <= 0 || line.Quantity > entity.MaxStockQuantity {
			return domain.ErrInvalidInput
		}
	}
	return nil
}
