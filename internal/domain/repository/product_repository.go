package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Comanda-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Todas las consultas filtran por tenantID: un producto de otro local se trata como inexistente.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve (nil, nil) si no existe para ese tenant.
	GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error)
	// GetForUpdate igual que GetByID pero bloquea la fila (SELECT FOR UPDATE); solo dentro de una tx.
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Product, error)
	// GetStockLevels stock actual por productID; los IDs inexistentes no aparecen en el mapa.
	GetStockLevels(ctx context.Context, tenantID string, ids []string) (map[string]int, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, error)
	// ListLowStock productos con stock_quantity <= low_stock_threshold, ascendente por stock.
	ListLowStock(ctx context.Context, tenantID string) ([]*entity.Product, error)
	// Update modifica campos de catálogo. Nunca escribe stock_quantity ni is_available.
	Update(ctx context.Context, product *entity.Product) error
	// SetAvailability fuerza is_available (desactivación o reactivación manual).
	SetAvailability(ctx context.Context, tenantID, id string, available bool, at time.Time) error
	// UpdateStock escribe stock e is_available; reservado para inventory.StockManager.
	UpdateStock(ctx context.Context, tenantID, id string, quantity int, isAvailable bool, at time.Time) error
	Delete(ctx context.Context, tenantID, id string) error
}
