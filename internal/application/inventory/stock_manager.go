package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Comanda-api/internal/application/ports"
	"github.com/jhoicas/Comanda-api/internal/domain"
	"github.com/jhoicas/Comanda-api/internal/domain/entity"
	"github.com/jhoicas/Comanda-api/internal/domain/repository"
)

// StockChange metadatos del movimiento a registrar en el ledger.
type StockChange struct {
	Type    entity.MovementType
	Note    string
	ActorID string
}

// StockResult producto ya actualizado y el movimiento que lo explica.
type StockResult struct {
	Product  *entity.Product
	Movement *entity.StockMovement
}

// StockManager es el único camino para modificar stock_quantity: bloquea la fila del producto
// (SELECT FOR UPDATE), valida que el stock no quede negativo, actualiza stock + disponibilidad
// y registra el movimiento en la misma transacción.
type StockManager struct {
	txRunner  TxRunner
	publisher ports.EventPublisher
	now       func() time.Time
}

// NewStockManager construye el gestor de stock. publisher nil = sin eventos.
func NewStockManager(txRunner TxRunner, publisher ports.EventPublisher) *StockManager {
	if publisher == nil {
		publisher = ports.NoopPublisher{}
	}
	return &StockManager{txRunner: txRunner, publisher: publisher, now: time.Now}
}

// ApplyStockDelta aplica delta al stock del producto en su propia transacción.
// Errores: ErrInvalidInput, ErrNotFound, *domain.InsufficientStockError.
func (m *StockManager) ApplyStockDelta(ctx context.Context, tenantID, productID string, delta int, change StockChange) (*StockResult, error) {
	if tenantID == "" || productID == "" || !change.Type.Valid() {
		return nil, domain.ErrInvalidInput
	}
	var res *StockResult
	err := m.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		r, err := m.ApplyStockDeltaInTx(ctx, productRepo, movRepo, tenantID, productID, delta, change)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.publisher.StockMoved(ctx, res.Movement)
	return res, nil
}

// ApplyStockDeltaInTx aplica el delta usando los repositorios de la transacción del caller.
// No publica eventos: el caller lo hace después del commit.
func (m *StockManager) ApplyStockDeltaInTx(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	tenantID, productID string,
	delta int,
	change StockChange,
) (*StockResult, error) {
	if !change.Type.Valid() || !entity.DeltaInRange(delta) {
		return nil, domain.ErrInvalidInput
	}
	// Bloquea la fila del producto hasta el commit para evitar updates perdidos
	product, err := productRepo.GetForUpdate(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	previous := product.StockQuantity
	sum := int64(previous) + int64(delta)
	if sum < 0 {
		return nil, domain.NewInsufficientStock(productID, previous, -delta)
	}
	if sum > entity.MaxStockQuantity {
		return nil, fmt.Errorf("%w: el stock superaría %d", domain.ErrInvalidInput, entity.MaxStockQuantity)
	}
	newStock := int(sum)

	now := m.now()
	isAvailable := newStock > 0
	if err := productRepo.UpdateStock(ctx, tenantID, productID, newStock, isAvailable, now); err != nil {
		return nil, err
	}
	mov := entity.NewStockMovement(
		uuid.New().String(), tenantID, productID, change.Type,
		previous, delta, change.Note, change.ActorID, now,
	)
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}

	product.StockQuantity = newStock
	product.IsAvailable = isAvailable
	product.UpdatedAt = now
	return &StockResult{Product: product, Movement: mov}, nil
}
