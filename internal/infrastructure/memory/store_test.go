package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/Comanda-api/internal/domain"
	"github.com/jhoicas/Comanda-api/internal/domain/entity"
	"github.com/jhoicas/Comanda-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, tenant string, stock, threshold int, created time.Time) *entity.Product {
	return &entity.Product{
		ID: id, TenantID: tenant, Name: id, Price: decimal.NewFromInt(10),
		StockQuantity: stock, IsAvailable: stock > 0, LowStockThreshold: threshold,
		CreatedAt: created, UpdatedAt: created,
	}
}

// =============================================================================
// Transacciones
// =============================================================================

func TestStore_Run_RollbackRestauraEstado(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.ProductRepository().Create(ctx, product("p1", "t1", 10, 5, time.Now())))

	boom := errors.New("boom")
	err := s.Run(ctx, func(pr repository.ProductRepository, mr repository.StockMovementRepository) error {
		require.NoError(t, pr.UpdateStock(ctx, "t1", "p1", 3, true, time.Now()))
		require.NoError(t, mr.Create(ctx, entity.NewStockMovement("m1", "t1", "p1", entity.MovementSale, 10, -7, "", "", time.Now())))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := s.ProductRepository().GetByID(ctx, "t1", "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.StockQuantity)
	movs, err := s.StockMovementRepository().ListByProduct(ctx, "t1", "p1", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestStore_RunOrder_Commit(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	err := s.RunOrder(ctx, func(_ repository.ProductRepository, _ repository.StockMovementRepository, or repository.OrderRepository) error {
		if err := or.Create(ctx, &entity.Order{ID: "o1", TenantID: "t1", Status: entity.OrderPendingPayment}); err != nil {
			return err
		}
		return or.CreateItems(ctx, []*entity.OrderItem{{ID: "i1", OrderID: "o1", ProductID: "p1", Quantity: 2}})
	})
	require.NoError(t, err)

	o, err := s.OrderRepository().GetByID(ctx, "t1", "o1")
	require.NoError(t, err)
	require.NotNil(t, o)
	items, err := s.OrderRepository().ListItems(ctx, "o1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

// =============================================================================
// Productos
// =============================================================================

func TestProductRepo_AisladoPorTenant(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.ProductRepository()
	require.NoError(t, repo.Create(ctx, product("p1", "t1", 10, 5, time.Now())))

	p, err := repo.GetByID(ctx, "t2", "p1")
	require.NoError(t, err)
	assert.Nil(t, p)

	levels, err := repo.GetStockLevels(ctx, "t2", []string{"p1"})
	require.NoError(t, err)
	assert.Empty(t, levels)

	assert.ErrorIs(t, repo.Delete(ctx, "t2", "p1"), domain.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateStock(ctx, "t2", "p1", 1, true, time.Now()), domain.ErrNotFound)
}

func TestProductRepo_UpdateNoTocaStock(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.ProductRepository()
	require.NoError(t, repo.Create(ctx, product("p1", "t1", 10, 5, time.Now())))

	upd := product("p1", "t1", 999, 5, time.Now())
	upd.Name = "Cerveza"
	upd.IsAvailable = false
	require.NoError(t, repo.Update(ctx, upd))

	p, err := repo.GetByID(ctx, "t1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "Cerveza", p.Name)
	assert.Equal(t, 10, p.StockQuantity)
	assert.True(t, p.IsAvailable, "la disponibilidad solo cambia con SetAvailability o un movimiento")

	require.NoError(t, repo.SetAvailability(ctx, "t1", "p1", false, time.Now()))
	p, err = repo.GetByID(ctx, "t1", "p1")
	require.NoError(t, err)
	assert.False(t, p.IsAvailable)
	assert.ErrorIs(t, repo.SetAvailability(ctx, "t2", "p1", true, time.Now()), domain.ErrNotFound)
}

func TestProductRepo_ListLowStock_OrdenEstable(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.ProductRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, product("b", "t1", 2, 5, base.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, product("a", "t1", 2, 5, base)))
	require.NoError(t, repo.Create(ctx, product("c", "t1", 0, 5, base.Add(2*time.Minute))))
	require.NoError(t, repo.Create(ctx, product("d", "t1", 6, 5, base)))
	require.NoError(t, repo.Create(ctx, product("e", "t2", 0, 5, base)))

	list, err := repo.ListLowStock(ctx, "t1")
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestProductRepo_UpdateStockNegativo(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.ProductRepository()
	require.NoError(t, repo.Create(ctx, product("p1", "t1", 1, 5, time.Now())))
	assert.ErrorIs(t, repo.UpdateStock(ctx, "t1", "p1", -1, false, time.Now()), domain.ErrInsufficientStock)
}

// =============================================================================
// Ledger y pedidos
// =============================================================================

func TestStockMovementRepo_RechazaMovimientoInconsistente(t *testing.T) {
	s := NewStore()
	m := entity.NewStockMovement("m1", "t1", "p1", entity.MovementAdjustment, 5, 2, "", "", time.Now())
	m.NewStock = 9
	assert.ErrorIs(t, s.StockMovementRepository().Create(context.Background(), m), domain.ErrInvalidInput)
}

func TestStockMovementRepo_ListByProduct_MasRecientesPrimero(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.StockMovementRepository()
	at := time.Now()
	require.NoError(t, repo.Create(ctx, entity.NewStockMovement("m1", "t1", "p1", entity.MovementRestock, 0, 5, "", "", at)))
	require.NoError(t, repo.Create(ctx, entity.NewStockMovement("m2", "t1", "p1", entity.MovementSale, 5, -1, "", "", at)))
	require.NoError(t, repo.Create(ctx, entity.NewStockMovement("m3", "t1", "p2", entity.MovementSale, 5, -1, "", "", at)))

	list, err := repo.ListByProduct(ctx, "t1", "p1", 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "m2", list[0].ID)
	assert.Equal(t, "m1", list[1].ID)

	list, err = repo.ListByProduct(ctx, "t1", "p1", 1, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "m1", list[0].ID)
}

func TestOrderRepo_UpdateStatus_CompareAndSet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.OrderRepository()
	require.NoError(t, repo.Create(ctx, &entity.Order{ID: "o1", TenantID: "t1", Status: entity.OrderPendingPayment}))

	ok, err := repo.UpdateStatus(ctx, "t1", "o1", entity.OrderPendingPayment, entity.OrderPaid, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateStatus(ctx, "t1", "o1", entity.OrderPendingPayment, entity.OrderCancelled, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	paid := entity.OrderPaid
	list, err := repo.ListByTenant(ctx, "t1", &paid, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestOrderRepo_ClaveIdempotenciaUnicaPorTenant(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.OrderRepository()
	require.NoError(t, repo.Create(ctx, &entity.Order{ID: "o1", TenantID: "t1", IdempotencyKey: "k", Status: entity.OrderPendingPayment}))

	err := repo.Create(ctx, &entity.Order{ID: "o2", TenantID: "t1", IdempotencyKey: "k", Status: entity.OrderPendingPayment})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	require.NoError(t, repo.Create(ctx, &entity.Order{ID: "o3", TenantID: "t2", IdempotencyKey: "k", Status: entity.OrderPendingPayment}))
	require.NoError(t, repo.Create(ctx, &entity.Order{ID: "o4", TenantID: "t1", Status: entity.OrderPendingPayment}))
	require.NoError(t, repo.Create(ctx, &entity.Order{ID: "o5", TenantID: "t1", Status: entity.OrderPendingPayment}), "sin clave no hay choque")

	o, err := repo.GetByIdempotencyKey(ctx, "t1", "k")
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, "o1", o.ID)

	o, err = repo.GetByIdempotencyKey(ctx, "t1", "otra")
	require.NoError(t, err)
	assert.Nil(t, o)
}
