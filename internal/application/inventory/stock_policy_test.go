package inventory_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comanda-api/internal/application/dto"
	"github.com/jhoicas/Comanda-api/internal/application/inventory"
	"github.com/jhoicas/Comanda-api/internal/domain"
	"github.com/jhoicas/Comanda-api/internal/domain/entity"
	"github.com/jhoicas/Comanda-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	tenantID = "tenant-1"
	userID   = "user-1"
)

type recordingPublisher struct {
	mu    sync.Mutex
	moved []*entity.StockMovement
}

func (r *recordingPublisher) StockMoved(_ context.Context, m *entity.StockMovement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moved = append(r.moved, m)
}
func (r *recordingPublisher) OrderCreated(context.Context, *entity.Order) {}
func (r *recordingPublisher) OrderStatusChanged(context.Context, *entity.Order, entity.OrderStatus) {}

type fixture struct {
	store  *memory.Store
	policy *inventory.StockPolicy
	events *recordingPublisher
}

func newFixture() *fixture {
	store := memory.NewStore()
	events := &recordingPublisher{}
	manager := inventory.NewStockManager(store, events)
	return &fixture{
		store:  store,
		policy: inventory.NewStockPolicy(manager, store, store.ProductRepository(), store.StockMovementRepository()),
		events: events,
	}
}

func (f *fixture) seed(t *testing.T, id string, stock, threshold int) {
	t.Helper()
	now := time.Now()
	require.NoError(t, f.store.ProductRepository().Create(context.Background(), &entity.Product{
		ID: id, TenantID: tenantID, Name: id, Price: decimal.NewFromInt(500),
		StockQuantity: stock, IsAvailable: stock > 0, LowStockThreshold: threshold,
		CreatedAt: now, UpdatedAt: now,
	}))
}

func (f *fixture) product(t *testing.T, id string) *entity.Product {
	t.Helper()
	p, err := f.store.ProductRepository().GetByID(context.Background(), tenantID, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func (f *fixture) movements(t *testing.T, id string) []*entity.StockMovement {
	t.Helper()
	list, err := f.policy.ListMovements(context.Background(), tenantID, id, 100, 0)
	require.NoError(t, err)
	return list
}

func sale(delta int) inventory.AdjustStockInput {
	return inventory.AdjustStockInput{TenantID: tenantID, UserID: userID, ProductID: "P", Delta: delta, Type: "SALE"}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de ajuste y conteo
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustStock_VentaDejaStockBajo(t *testing.T) {
	f := newFixture()
	f.seed(t, "P", 10, 5)
	ctx := context.Background()

	res, err := f.policy.AdjustStock(ctx, sale(-7))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Product.StockQuantity)
	assert.True(t, res.Product.IsAvailable)
	assert.Equal(t, 10, res.Movement.PreviousStock)
	assert.Equal(t, -7, res.Movement.Delta)
	assert.Equal(t, 3, res.Movement.NewStock)
	assert.Equal(t, entity.MovementSale, res.Movement.Type)
	assert.Equal(t, userID, res.Movement.CreatedByID)

	low, err := f.policy.GetLowStockProducts(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "P", low[0].ID)
	assert.Len(t, f.events.moved, 1)
}

func TestAdjustStock_LlegarACeroDesactiva(t *testing.T) {
	f := newFixture()
	f.seed(t, "P", 3, 5)

	res, err := f.policy.AdjustStock(context.Background(), sale(-3))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Product.StockQuantity)
	assert.False(t, res.Product.IsAvailable)
	assert.False(t, f.product(t, "P").IsAvailable)
	assert.Len(t, f.movements(t, "P"), 1)
}

func TestAdjustStock_SinStock_NoCambiaNada(t *testing.T) {
	f := newFixture()
	f.seed(t, "P", 0, 5)

	_, err := f.policy.AdjustStock(context.Background(), sale(-1))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var detail *domain.InsufficientStockError
	require.ErrorAs(t, err, &detail)
	assert.Equal(t, "P", detail.ProductID)
	assert.Equal(t, 0, detail.Available)
	assert.Equal(t, 1, detail.Requested)

	assert.Equal(t, 0, f.product(t, "P").StockQuantity)
	assert.Empty(t, f.movements(t, "P"))
	assert.Empty(t, f.events.moved)
}

func TestSetStockLevel_DesdeCero(t *testing.T) {
	f := newFixture()
	f.seed(t, "P", 0, 5)

	res, err := f.policy.SetStockLevel(context.Background(), inventory.SetStockLevelInput{
		TenantID: tenantID, UserID: userID, ProductID: "P", Quantity: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, res.Movement.Delta)
	assert.Equal(t, 20, res.Movement.NewStock)
	assert.Equal(t, entity.MovementInventoryCount, res.Movement.Type)
	assert.Equal(t, inventory.NoteInventoryCount, res.Movement.Note)
	assert.True(t, res.Product.IsAvailable)
}

func TestSetStockLevel_Idempotente(t *testing.T) {
	f := newFixture()
	f.seed(t, "P", 4, 5)
	ctx := context.Background()
	in := inventory.SetStockLevelInput{TenantID: tenantID, UserID: userID, ProductID: "P", Quantity: 12}

	_, err := f.policy.SetStockLevel(ctx, in)
	require.NoError(t, err)
	second, err := f.policy.SetStockLevel(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, 0, second.Movement.Delta)
	assert.Equal(t, 12, second.Movement.PreviousStock)
	assert.Equal(t, 12, f.product(t, "P").StockQuantity)
	assert.Len(t, f.movements(t, "P"), 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustStock_EntradasInvalidas(t *testing.T) {
	f := newFixture()
	f.seed(t, "P", 10, 5)
	ctx := context.Background()

	_, err := f.policy.AdjustStock(ctx, sale(0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad := sale(1)
	bad.Type = "TRANSFER"
	_, err = f.policy.AdjustStock(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing := sale(1)
	missing.ProductID = "no-existe"
	_, err = f.policy.AdjustStock(ctx, missing)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	otherTenant := sale(1)
	otherTenant.TenantID = "tenant-2"
	_, err = f.policy.AdjustStock(ctx, otherTenant)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.policy.SetStockLevel(ctx, inventory.SetStockLevelInput{TenantID: tenantID, ProductID: "P", Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.policy.ListMovements(ctx, tenantID, "no-existe", 10, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjustStock_CantidadesFueraDeRango(t *testing.T) {
	f := newFixture()
	f.seed(t, "P", 10, 5)
	ctx := context.Background()

	for _, delta := range []int{math.MaxInt, math.MinInt, entity.MaxStockQuantity + 1, -entity.MaxStockQuantity - 1, 3_000_000_000} {
		in := sale(delta)
		in.Type = "ADJUSTMENT"
		_, err := f.policy.AdjustStock(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "delta %d", delta)
	}

	// delta válido pero el resultado no cabe en la columna de stock
	in := sale(entity.MaxStockQuantity)
	in.Type = "RESTOCK"
	_, err := f.policy.AdjustStock(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.policy.SetStockLevel(ctx, inventory.SetStockLevelInput{
		TenantID: tenantID, UserID: userID, ProductID: "P", Quantity: entity.MaxStockQuantity + 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, 10, f.product(t, "P").StockQuantity)
	assert.Empty(t, f.movements(t, "P"))

	res, err := f.policy.SetStockLevel(ctx, inventory.SetStockLevelInput{
		TenantID: tenantID, UserID: userID, ProductID: "P", Quantity: entity.MaxStockQuantity,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MaxStockQuantity, res.Product.StockQuantity)
}

func TestAdjustStock_TipoPorDefectoYMinusculas(t *testing.T) {
	f := newFixture()
	f.seed(t, "P", 10, 5)
	ctx := context.Background()

	res, err := f.policy.AdjustStock(ctx, inventory.AdjustStockInput{TenantID: tenantID, ProductID: "P", Delta: 2})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementAdjustment, res.Movement.Type)

	res, err = f.policy.AdjustStock(ctx, inventory.AdjustStockInput{TenantID: tenantID, ProductID: "P", Delta: -1, Type: "spoilage"})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementSpoilage, res.Movement.Type)
}

func TestFromRequest_CamposAusentes(t *testing.T) {
	f := newFixture()
	f.seed(t, "P", 10, 5)
	ctx := context.Background()

	_, err := f.policy.AdjustStockFromRequest(ctx, tenantID, userID, "P", dto.AdjustStockRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.policy.SetStockLevelFromRequest(ctx, tenantID, userID, "P", dto.SetStockLevelRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	q := 7
	res, err := f.policy.SetStockLevelFromRequest(ctx, tenantID, userID, "P", dto.SetStockLevelRequest{Quantity: &q})
	require.NoError(t, err)
	assert.Equal(t, 7, res.Product.StockQuantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades del ledger
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_ReplayReproduceStockYNuncaNegativo(t *testing.T) {
	f := newFixture()
	f.seed(t, "P", 0, 5)
	ctx := context.Background()

	deltas := []int{5, -2, -4, 8, -20, -7, 3, -1}
	for _, d := range deltas {
		res, err := f.policy.AdjustStock(ctx, inventory.AdjustStockInput{TenantID: tenantID, ProductID: "P", Delta: d})
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			continue
		}
		assert.GreaterOrEqual(t, res.Product.StockQuantity, 0)
		assert.Equal(t, res.Product.StockQuantity > 0, res.Product.IsAvailable)
	}

	movs := f.movements(t, "P")
	replayed := 0
	for i := len(movs) - 1; i >= 0; i-- {
		m := movs[i]
		assert.Equal(t, m.PreviousStock+m.Delta, m.NewStock)
		assert.Equal(t, replayed, m.PreviousStock)
		replayed += m.Delta
	}
	assert.Equal(t, f.product(t, "P").StockQuantity, replayed)
}

func TestApplyStockDelta_ConcurrenteSinSobreventa(t *testing.T) {
	f := newFixture()
	f.seed(t, "P", 10, 5)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.policy.AdjustStock(ctx, sale(-1)); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 0, f.product(t, "P").StockQuantity)
	assert.Len(t, f.movements(t, "P"), 10)
}
