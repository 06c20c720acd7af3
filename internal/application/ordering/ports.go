package ordering

import (
	"context"

	"github.com/jhoicas/Comanda-api/internal/application/inventory"
	"github.com/jhoicas/Comanda-api/internal/domain/repository"
)

// OrderTxRunner ejecuta una función dentro de una transacción que incluye repos de inventario y pedidos.
type OrderTxRunner interface {
	RunOrder(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		orderRepo repository.OrderRepository,
	) error) error
}

// StockReserver descuenta stock dentro de la transacción del pedido.
// Lo implementa *inventory.StockManager.
type StockReserver interface {
	ApplyStockDeltaInTx(
		ctx context.Context,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		tenantID, productID string,
		delta int,
		change inventory.StockChange,
	) (*inventory.StockResult, error)
}

var _ StockReserver = (*inventory.StockManager)(nil)
