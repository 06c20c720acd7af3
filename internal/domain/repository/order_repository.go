package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Comanda-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para pedidos y sus líneas.
type OrderRepository interface {
	// Create devuelve domain.ErrDuplicate si ya existe un pedido del tenant con el mismo IdempotencyKey.
	Create(ctx context.Context, order *entity.Order) error
	// CreateItems inserta todas las líneas en lote.
	CreateItems(ctx context.Context, items []*entity.OrderItem) error
	// GetByID devuelve (nil, nil) si no existe para ese tenant. No carga Items.
	GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error)
	// GetByIdempotencyKey devuelve (nil, nil) si ningún pedido del tenant usó esa clave. No carga Items.
	GetByIdempotencyKey(ctx context.Context, tenantID, key string) (*entity.Order, error)
	ListItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	// ListByTenant pedidos del local, más recientes primero; status nil = todos.
	ListByTenant(ctx context.Context, tenantID string, status *entity.OrderStatus, limit, offset int) ([]*entity.Order, error)
	// UpdateStatus cambia el estado solo si el actual es from; devuelve false si otro request lo cambió antes.
	UpdateStatus(ctx context.Context, tenantID, id string, from, to entity.OrderStatus, at time.Time) (bool, error)
}
