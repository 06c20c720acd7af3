package ports

import (
	"context"

	"github.com/jhoicas/Comanda-api/internal/domain/entity"
)

// EventPublisher puerto de salida para notificar cambios ya confirmados (post-commit).
// Las implementaciones no deben bloquear ni devolver error: un evento perdido no deshace la operación.
type EventPublisher interface {
	StockMoved(ctx context.Context, movement *entity.StockMovement)
	OrderCreated(ctx context.Context, order *entity.Order)
	OrderStatusChanged(ctx context.Context, order *entity.Order, from entity.OrderStatus)
}

// NoopPublisher descarta los eventos (sin Kafka configurado y en tests).
type NoopPublisher struct{}

func (NoopPublisher) StockMoved(context.Context, *entity.StockMovement) {}
func (NoopPublisher) OrderCreated(context.Context, *entity.Order) {}
func (NoopPublisher) OrderStatusChanged(context.Context, *entity.Order, entity.OrderStatus) {}
