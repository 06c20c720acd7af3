package ordering

import (
	"context"
	"time"

	"github.com/jhoicas/Comanda-api/internal/application/ports"
	"github.com/jhoicas/Comanda-api/internal/domain"
	"github.com/jhoicas/Comanda-api/internal/domain/entity"
	"github.com/jhoicas/Comanda-api/internal/domain/repository"
)

// OrderUseCase lectura de pedidos y flujo de estados. Nunca toca stock.
type OrderUseCase struct {
	orderRepo repository.OrderRepository
	publisher ports.EventPublisher
	cache     ports.OrderCache
	now       func() time.Time
}

// NewOrderUseCase construye el caso de uso. publisher/cache nil = no-op.
func NewOrderUseCase(orderRepo repository.OrderRepository, publisher ports.EventPublisher, cache ports.OrderCache) *OrderUseCase {
	if publisher == nil {
		publisher = ports.NoopPublisher{}
	}
	if cache == nil {
		cache = ports.NoopOrderCache{}
	}
	return &OrderUseCase{orderRepo: orderRepo, publisher: publisher, cache: cache, now: time.Now}
}

// GetOrder obtiene un pedido del tenant con sus líneas.
func (uc *OrderUseCase) GetOrder(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.orderRepo.ListItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// GetStatus estado actual del pedido; intenta primero el cache.
func (uc *OrderUseCase) GetStatus(ctx context.Context, tenantID, id string) (entity.OrderStatus, error) {
	if st, err := uc.cache.GetStatus(ctx, tenantID, id); err == nil && st.Valid() {
		return st, nil
	}
	order, err := uc.orderRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return "", err
	}
	if order == nil {
		return "", domain.ErrNotFound
	}
	uc.cache.SetStatus(ctx, tenantID, id, order.Status)
	return order.Status, nil
}

// ListOrders pedidos del tenant (sin líneas), opcionalmente filtrados por estado.
func (uc *OrderUseCase) ListOrders(ctx context.Context, tenantID, status string, limit, offset int) ([]*entity.Order, error) {
	var filter *entity.OrderStatus
	if status != "" {
		st, err := entity.ParseOrderStatus(status)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter = &st
	}
	list, err := uc.orderRepo.ListByTenant(ctx, tenantID, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.Order{}
	}
	return list, nil
}

// UpdateStatus avanza el pedido al estado indicado si la transición es válida.
// Transición no permitida o carrera con otro cambio = ErrConflict.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, tenantID, id, status string) (*entity.Order, error) {
	next, err := entity.ParseOrderStatus(status)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.GetOrder(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if !from.CanTransitionTo(next) {
		return nil, domain.ErrConflict
	}
	now := uc.now()
	ok, err := uc.orderRepo.UpdateStatus(ctx, tenantID, id, from, next, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrConflict
	}
	order.Status = next
	order.UpdatedAt = now

	uc.cache.SetStatus(ctx, tenantID, id, next)
	uc.publisher.OrderStatusChanged(ctx, order, from)
	return order, nil
}
