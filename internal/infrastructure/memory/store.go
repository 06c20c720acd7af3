// Package memory implementa los puertos de persistencia en memoria (STORAGE=memory y tests).
// Las transacciones se serializan con un mutex y se revierten restaurando una copia del estado.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Comanda-api/internal/domain/entity"
	"github.com/jhoicas/Comanda-api/internal/domain/repository"
)

type productRow struct {
	seq int64
	p   entity.Product
}

type movementRow struct {
	seq int64
	m   entity.StockMovement
}

type orderRow struct {
	seq int64
	o   entity.Order
}

type itemRow struct {
	seq  int64
	item entity.OrderItem
}

type state struct {
	seq       int64
	products  map[string]productRow
	movements []movementRow
	orders    map[string]orderRow
	items     []itemRow
}

func newState() *state {
	return &state{products: map[string]productRow{}, orders: map[string]orderRow{}}
}

func (s *state) next() int64 {
	s.seq++
	return s.seq
}

// clone copia el estado para poder restaurarlo en un rollback. Las filas se guardan por valor.
func (s *state) clone() *state {
	c := &state{
		seq:       s.seq,
		products:  make(map[string]productRow, len(s.products)),
		movements: append([]movementRow(nil), s.movements...),
		orders:    make(map[string]orderRow, len(s.orders)),
		items:     append([]itemRow(nil), s.items...),
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	return c
}

// Store base de datos en memoria. Segura para uso concurrente.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// ProductRepository repo de productos fuera de transacción.
func (s *Store) ProductRepository() repository.ProductRepository {
	return &ProductRepo{s: s}
}

// StockMovementRepository repo del ledger fuera de transacción.
func (s *Store) StockMovementRepository() repository.StockMovementRepository {
	return &StockMovementRepo{s: s}
}

// OrderRepository repo de pedidos fuera de transacción.
func (s *Store) OrderRepository() repository.OrderRepository {
	return &OrderRepo{s: s}
}

// Run ejecuta fn con repos atados a la transacción.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return s.inTx(ctx, func() error {
		return fn(&ProductRepo{s: s, tx: true}, &StockMovementRepo{s: s, tx: true})
	})
}

// RunOrder como Run, incluyendo el repo de pedidos.
func (s *Store) RunOrder(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	orderRepo repository.OrderRepository,
) error) error {
	return s.inTx(ctx, func() error {
		return fn(&ProductRepo{s: s, tx: true}, &StockMovementRepo{s: s, tx: true}, &OrderRepo{s: s, tx: true})
	})
}

func (s *Store) inTx(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.st.clone()
	if err := fn(); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// with ejecuta fn sobre el estado; fuera de tx toma el lock (dentro ya lo tiene inTx).
func (s *Store) with(tx bool, fn func(st *state) error) error {
	if !tx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.st)
}
