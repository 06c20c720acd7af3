package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Comanda-api/internal/domain"
	"github.com/jhoicas/Comanda-api/internal/domain/entity"
	"github.com/jhoicas/Comanda-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos y líneas en memoria.
type OrderRepo struct {
	s  *Store
	tx bool
}

func (r *OrderRepo) Create(_ context.Context, order *entity.Order) error {
	return r.s.with(r.tx, func(st *state) error {
		if _, ok := st.orders[order.ID]; ok {
			return domain.ErrDuplicate
		}
		if order.IdempotencyKey != "" && st.orderByKey(order.TenantID, order.IdempotencyKey) != nil {
			return domain.ErrDuplicate
		}
		o := *order
		o.Items = nil
		st.orders[order.ID] = orderRow{seq: st.next(), o: o}
		return nil
	})
}

func (r *OrderRepo) CreateItems(_ context.Context, items []*entity.OrderItem) error {
	return r.s.with(r.tx, func(st *state) error {
		for _, it := range items {
			if _, ok := st.orders[it.OrderID]; !ok {
				return domain.ErrNotFound
			}
			st.items = append(st.items, itemRow{seq: st.next(), item: *it})
		}
		return nil
	})
}

func (r *OrderRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.s.with(r.tx, func(st *state) error {
		if row, ok := st.orders[id]; ok && row.o.TenantID == tenantID {
			o := row.o
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *OrderRepo) GetByIdempotencyKey(_ context.Context, tenantID, key string) (*entity.Order, error) {
	var out *entity.Order
	err := r.s.with(r.tx, func(st *state) error {
		if row := st.orderByKey(tenantID, key); row != nil {
			o := row.o
			out = &o
		}
		return nil
	})
	return out, err
}

func (st *state) orderByKey(tenantID, key string) *orderRow {
	for _, row := range st.orders {
		if row.o.TenantID == tenantID && row.o.IdempotencyKey == key {
			return &row
		}
	}
	return nil
}

func (r *OrderRepo) ListItems(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	err := r.s.with(r.tx, func(st *state) error {
		for _, row := range st.items {
			if row.item.OrderID == orderID {
				it := row.item
				out = append(out, &it)
			}
		}
		return nil
	})
	return out, err
}

func (r *OrderRepo) ListByTenant(_ context.Context, tenantID string, status *entity.OrderStatus, limit, offset int) ([]*entity.Order, error) {
	var rows []orderRow
	_ = r.s.with(r.tx, func(st *state) error {
		for _, row := range st.orders {
			if row.o.TenantID != tenantID {
				continue
			}
			if status != nil && row.o.Status != *status {
				continue
			}
			rows = append(rows, row)
		}
		return nil
	})
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].o.CreatedAt.Equal(rows[j].o.CreatedAt) {
			return rows[i].o.CreatedAt.After(rows[j].o.CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	rows = paginate(rows, limit, offset)
	out := make([]*entity.Order, 0, len(rows))
	for _, row := range rows {
		o := row.o
		out = append(out, &o)
	}
	return out, nil
}

func (r *OrderRepo) UpdateStatus(_ context.Context, tenantID, id string, from, to entity.OrderStatus, at time.Time) (bool, error) {
	var updated bool
	err := r.s.with(r.tx, func(st *state) error {
		row, ok := st.orders[id]
		if !ok || row.o.TenantID != tenantID || row.o.Status != from {
			return nil
		}
		row.o.Status = to
		row.o.UpdatedAt = at
		st.orders[id] = row
		updated = true
		return nil
	})
	return updated, err
}
