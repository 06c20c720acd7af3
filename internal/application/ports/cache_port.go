package ports

import (
	"context"

	"github.com/jhoicas/Comanda-api/internal/domain/entity"
)

// OrderCache atajos de lectura para pedidos. La base de datos sigue siendo la fuente de verdad:
// un error o un miss del cache nunca cambia el resultado, solo el camino.
//
// Las escrituras no devuelven error: como EventPublisher, son best-effort y la implementación
// loguea sus propias fallas antes de descartarlas.
type OrderCache interface {
	// LookupIdempotency devuelve el orderID asociado a la clave, "" si no hay.
	LookupIdempotency(ctx context.Context, tenantID, key string) (string, error)
	RememberIdempotency(ctx context.Context, tenantID, key, orderID string)
	GetStatus(ctx context.Context, tenantID, orderID string) (entity.OrderStatus, error)
	SetStatus(ctx context.Context, tenantID, orderID string, status entity.OrderStatus)
}

// NoopOrderCache no guarda nada (sin Redis configurado).
type NoopOrderCache struct{}

func (NoopOrderCache) LookupIdempotency(context.Context, string, string) (string, error) {
	return "", nil
}
func (NoopOrderCache) RememberIdempotency(context.Context, string, string, string) {}
func (NoopOrderCache) GetStatus(context.Context, string, string) (entity.OrderStatus, error) {
	return "", nil
}
func (NoopOrderCache) SetStatus(context.Context, string, string, entity.OrderStatus) {}
