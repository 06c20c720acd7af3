package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Comanda-api/internal/domain"
	"github.com/jhoicas/Comanda-api/internal/domain/entity"
	"github.com/jhoicas/Comanda-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria. tx=true cuando lo entrega Store.Run/RunOrder.
type ProductRepo struct {
	s  *Store
	tx bool
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.s.with(r.tx, func(st *state) error {
		if _, ok := st.products[product.ID]; ok {
			return domain.ErrDuplicate
		}
		st.products[product.ID] = productRow{seq: st.next(), p: *product}
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.with(r.tx, func(st *state) error {
		if row, ok := st.products[id]; ok && row.p.TenantID == tenantID {
			p := row.p
			out = &p
		}
		return nil
	})
	return out, err
}

// GetForUpdate el lock ya lo tiene la transacción (mutex del Store).
func (r *ProductRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r *ProductRepo) GetStockLevels(_ context.Context, tenantID string, ids []string) (map[string]int, error) {
	levels := make(map[string]int, len(ids))
	err := r.s.with(r.tx, func(st *state) error {
		for _, id := range ids {
			if row, ok := st.products[id]; ok && row.p.TenantID == tenantID {
				levels[id] = row.p.StockQuantity
			}
		}
		return nil
	})
	return levels, err
}

func (r *ProductRepo) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]*entity.Product, error) {
	rows := r.filter(tenantID, func(entity.Product) bool { return true })
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].p.CreatedAt.Equal(rows[j].p.CreatedAt) {
			return rows[i].p.CreatedAt.After(rows[j].p.CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	return toProducts(paginate(rows, limit, offset)), nil
}

func (r *ProductRepo) ListLowStock(_ context.Context, tenantID string) ([]*entity.Product, error) {
	rows := r.filter(tenantID, func(p entity.Product) bool { return p.IsLowStock() })
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].p, rows[j].p
		if a.StockQuantity != b.StockQuantity {
			return a.StockQuantity < b.StockQuantity
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return rows[i].seq < rows[j].seq
	})
	return toProducts(rows), nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.s.with(r.tx, func(st *state) error {
		row, ok := st.products[product.ID]
		if !ok || row.p.TenantID != product.TenantID {
			return domain.ErrNotFound
		}
		upd := *product
		upd.StockQuantity = row.p.StockQuantity
		upd.IsAvailable = row.p.IsAvailable
		upd.CreatedAt = row.p.CreatedAt
		row.p = upd
		st.products[product.ID] = row
		return nil
	})
}

func (r *ProductRepo) SetAvailability(_ context.Context, tenantID, id string, available bool, at time.Time) error {
	return r.s.with(r.tx, func(st *state) error {
		row, ok := st.products[id]
		if !ok || row.p.TenantID != tenantID {
			return domain.ErrNotFound
		}
		row.p.IsAvailable = available
		row.p.UpdatedAt = at
		st.products[id] = row
		return nil
	})
}

func (r *ProductRepo) UpdateStock(_ context.Context, tenantID, id string, quantity int, isAvailable bool, at time.Time) error {
	return r.s.with(r.tx, func(st *state) error {
		row, ok := st.products[id]
		if !ok || row.p.TenantID != tenantID {
			return domain.ErrNotFound
		}
		if quantity < 0 {
			return domain.ErrInsufficientStock
		}
		row.p.StockQuantity = quantity
		row.p.IsAvailable = isAvailable
		row.p.UpdatedAt = at
		st.products[id] = row
		return nil
	})
}

func (r *ProductRepo) Delete(_ context.Context, tenantID, id string) error {
	return r.s.with(r.tx, func(st *state) error {
		row, ok := st.products[id]
		if !ok || row.p.TenantID != tenantID {
			return domain.ErrNotFound
		}
		delete(st.products, id)
		return nil
	})
}

func (r *ProductRepo) filter(tenantID string, keep func(entity.Product) bool) []productRow {
	var rows []productRow
	_ = r.s.with(r.tx, func(st *state) error {
		for _, row := range st.products {
			if row.p.TenantID == tenantID && keep(row.p) {
				rows = append(rows, row)
			}
		}
		return nil
	})
	return rows
}

func toProducts(rows []productRow) []*entity.Product {
	out := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		p := row.p
		out = append(out, &p)
	}
	return out
}

// paginate aplica LIMIT/OFFSET; limit <= 0 = sin límite.
func paginate[T any](rows []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
