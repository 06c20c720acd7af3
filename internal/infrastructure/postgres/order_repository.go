package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Comanda-api/internal/domain"
	"github.com/jhoicas/Comanda-api/internal/domain/entity"
	"github.com/jhoicas/Comanda-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, tenant_id, table_id, status, total_amount, payment_intent_id, idempotency_key, created_at, updated_at`

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var status string
	var paymentIntent, idemKey *string
	if err := row.Scan(&o.ID, &o.TenantID, &o.TableID, &status, &o.TotalAmount,
		&paymentIntent, &idemKey, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	o.PaymentIntentID = derefString(paymentIntent)
	o.IdempotencyKey = derefString(idemKey)
	return &o, nil
}

// Create persiste la cabecera del pedido. La clave de idempotencia repetida choca con
// orders_tenant_idempotency_key; dentro de una tx eso aborta la transacción completa.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	query := `INSERT INTO orders (` + orderColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.TenantID, order.TableID, string(order.Status), order.TotalAmount,
		nullIfEmpty(order.PaymentIntentID), nullIfEmpty(order.IdempotencyKey), order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert order: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItems inserta las líneas con COPY (un solo round-trip).
func (r *OrderRepo) CreateItems(ctx context.Context, items []*entity.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	_, err := r.q.CopyFrom(ctx,
		pgx.Identifier{"order_items"},
		[]string{"id", "order_id", "product_id", "quantity", "unit_price", "created_at"},
		pgx.CopyFromSlice(len(items), func(i int) ([]any, error) {
			it := items[i]
			return []any{it.ID, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice, it.CreatedAt}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de un pedido del tenant.
func (r *OrderRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND tenant_id = $2`
	o, err := scanOrder(r.q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// GetByIdempotencyKey pedido del tenant creado con esa clave.
func (r *OrderRepo) GetByIdempotencyKey(ctx context.Context, tenantID, key string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1 AND idempotency_key = $2`
	o, err := scanOrder(r.q.QueryRow(ctx, query, tenantID, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order by idempotency key: %w", err)
	}
	return o, nil
}

// ListItems líneas de un pedido en orden de inserción.
func (r *OrderRepo) ListItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price, created_at
		FROM order_items WHERE order_id = $1 ORDER BY seq`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ListByTenant pedidos del tenant, más recientes primero.
func (r *OrderRepo) ListByTenant(ctx context.Context, tenantID string, status *entity.OrderStatus, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1`
	args := []any{tenantID}
	pos := 2
	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, string(*status))
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// UpdateStatus UPDATE condicional sobre el estado actual (compare-and-set).
func (r *OrderRepo) UpdateStatus(ctx context.Context, tenantID, id string, from, to entity.OrderStatus, at time.Time) (bool, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE orders SET status = $4, updated_at = $5 WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, tenantID, string(from), string(to), at,
	)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}
