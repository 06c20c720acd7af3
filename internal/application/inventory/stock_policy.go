package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/Comanda-api/internal/application/ports"
	"github.com/jhoicas/Comanda-api/internal/domain"
	"github.com/jhoicas/Comanda-api/internal/domain/entity"
	"github.com/jhoicas/Comanda-api/internal/domain/repository"
)

// NoteInventoryCount nota por defecto de un conteo físico.
const NoteInventoryCount = "conteo de inventario"

// StockPolicy operaciones de inventario sobre StockManager: ajuste relativo, conteo absoluto y stock bajo.
type StockPolicy struct {
	manager      *StockManager
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	publisher    ports.EventPublisher
}

// NewStockPolicy construye las operaciones de inventario.
func NewStockPolicy(
	manager *StockManager,
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) *StockPolicy {
	return &StockPolicy{
		manager:      manager,
		txRunner:     txRunner,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		publisher:    manager.publisher,
	}
}

// AdjustStockInput entrada para un ajuste relativo. Type vacío = ADJUSTMENT.
type AdjustStockInput struct {
	TenantID  string
	UserID    string
	ProductID string
	Delta     int
	Type      string
	Note      string
}

// AdjustStock suma (o resta) Delta al stock. Delta 0 es ErrInvalidInput.
func (p *StockPolicy) AdjustStock(ctx context.Context, in AdjustStockInput) (*StockResult, error) {
	if in.Delta == 0 || !entity.DeltaInRange(in.Delta) || in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	movType := entity.MovementAdjustment
	if t := strings.TrimSpace(in.Type); t != "" {
		parsed, err := entity.ParseMovementType(strings.ToUpper(t))
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		movType = parsed
	}
	return p.manager.ApplyStockDelta(ctx, in.TenantID, in.ProductID, in.Delta, StockChange{
		Type:    movType,
		Note:    in.Note,
		ActorID: in.UserID,
	})
}

// SetStockLevelInput entrada para fijar el stock a un valor absoluto (conteo físico).
type SetStockLevelInput struct {
	TenantID  string
	UserID    string
	ProductID string
	Quantity  int
	Note      string
}

// SetStockLevel fija el stock en Quantity registrando un INVENTORY_COUNT con delta = Quantity - actual.
// La lectura del stock actual y la escritura van en la misma transacción. Un delta 0 también se registra:
// confirmar el conteo es un evento auditable.
func (p *StockPolicy) SetStockLevel(ctx context.Context, in SetStockLevelInput) (*StockResult, error) {
	if in.Quantity < 0 || in.Quantity > entity.MaxStockQuantity || in.ProductID == "" || in.TenantID == "" {
		return nil, domain.ErrInvalidInput
	}
	note := in.Note
	if note == "" {
		note = NoteInventoryCount
	}
	var res *StockResult
	err := p.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		current, err := productRepo.GetForUpdate(ctx, in.TenantID, in.ProductID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		r, err := p.manager.ApplyStockDeltaInTx(ctx, productRepo, movRepo,
			in.TenantID, in.ProductID, in.Quantity-current.StockQuantity,
			StockChange{Type: entity.MovementInventoryCount, Note: note, ActorID: in.UserID},
		)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.publisher.StockMoved(ctx, res.Movement)
	return res, nil
}

// GetLowStockProducts productos del tenant con stock <= umbral, ascendente por stock.
func (p *StockPolicy) GetLowStockProducts(ctx context.Context, tenantID string) ([]*entity.Product, error) {
	if tenantID == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := p.productRepo.ListLowStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.Product{}
	}
	return list, nil
}

// ListMovements historial del ledger de un producto (más recientes primero).
func (p *StockPolicy) ListMovements(ctx context.Context, tenantID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	product, err := p.productRepo.GetByID(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	list, err := p.movementRepo.ListByProduct(ctx, tenantID, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.StockMovement{}
	}
	return list, nil
}
