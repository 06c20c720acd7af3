package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Comanda-api/internal/domain"
	"github.com/jhoicas/Comanda-api/internal/domain/entity"
	"github.com/jhoicas/Comanda-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo ledger en memoria (solo append).
type StockMovementRepo struct {
	s  *Store
	tx bool
}

func (r *StockMovementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	if movement.NewStock != movement.PreviousStock+movement.Delta {
		return domain.ErrInvalidInput
	}
	return r.s.with(r.tx, func(st *state) error {
		st.movements = append(st.movements, movementRow{seq: st.next(), m: *movement})
		return nil
	})
}

func (r *StockMovementRepo) ListByProduct(_ context.Context, tenantID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var rows []movementRow
	_ = r.s.with(r.tx, func(st *state) error {
		for _, row := range st.movements {
			if row.m.TenantID == tenantID && row.m.ProductID == productID {
				rows = append(rows, row)
			}
		}
		return nil
	})
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].m.CreatedAt.Equal(rows[j].m.CreatedAt) {
			return rows[i].m.CreatedAt.After(rows[j].m.CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	rows = paginate(rows, limit, offset)
	out := make([]*entity.StockMovement, 0, len(rows))
	for _, row := range rows {
		m := row.m
		out = append(out, &m)
	}
	return out, nil
}
