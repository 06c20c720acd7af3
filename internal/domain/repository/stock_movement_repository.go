package repository

import (
	"context"

	"github.com/jhoicas/Comanda-api/internal/domain/entity"
)

// StockMovementRepository puerto del ledger de stock. Solo inserción y lectura: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListByProduct movimientos de un producto, más recientes primero.
	ListByProduct(ctx context.Context, tenantID, productID string, limit, offset int) ([]*entity.StockMovement, error)
}
