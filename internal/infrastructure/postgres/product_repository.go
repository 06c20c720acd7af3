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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, tenant_id, name, price, stock_quantity, is_available, low_stock_threshold,
		unit_of_measure, category, image_url, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// scanProduct mapea una fila (en el orden de productColumns) a la entidad.
func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var unit, category, image *string
	if err := row.Scan(
		&p.ID, &p.TenantID, &p.Name, &p.Price, &p.StockQuantity, &p.IsAvailable, &p.LowStockThreshold,
		&unit, &category, &image, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.UnitOfMeasure = derefString(unit)
	p.Category = derefString(category)
	p.ImageURL = derefString(image)
	return &p, nil
}

// Create persiste un nuevo producto (stock_quantity tal como viene; el caso de uso lo crea en 0).
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.TenantID, product.Name, product.Price, product.StockQuantity, product.IsAvailable,
		product.LowStockThreshold, nullIfEmpty(product.UnitOfMeasure), nullIfEmpty(product.Category),
		nullIfEmpty(product.ImageURL), product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID y tenant.
func (r *ProductRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND tenant_id = $2`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene el producto y bloquea la fila para update (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND tenant_id = $2 FOR UPDATE`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return p, nil
}

// GetStockLevels stock actual de varios productos en una sola consulta.
func (r *ProductRepo) GetStockLevels(ctx context.Context, tenantID string, ids []string) (map[string]int, error) {
	levels := make(map[string]int, len(ids))
	if len(ids) == 0 {
		return levels, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT id, stock_quantity FROM products WHERE tenant_id = $1 AND id = ANY($2)`,
		tenantID, ids,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock levels: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var qty int
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		levels[id] = qty
	}
	return levels, rows.Err()
}

// ListByTenant lista productos del tenant con paginación.
func (r *ProductRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	return r.list(ctx, "list products", query, tenantID, limit, offset)
}

// ListLowStock productos con stock en o bajo su umbral, ascendente por stock.
func (r *ProductRepo) ListLowStock(ctx context.Context, tenantID string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE tenant_id = $1 AND stock_quantity <= low_stock_threshold
		ORDER BY stock_quantity ASC, created_at ASC, id`
	return r.list(ctx, "list low stock", query, tenantID)
}

func (r *ProductRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update actualiza campos de catálogo. No modifica stock_quantity (se maneja vía movimientos).
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $3, price = $4, low_stock_threshold = $5,
			unit_of_measure = $6, category = $7, image_url = $8, updated_at = $9
		WHERE id = $1 AND tenant_id = $2`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.TenantID, product.Name, product.Price, product.LowStockThreshold,
		nullIfEmpty(product.UnitOfMeasure), nullIfEmpty(product.Category), nullIfEmpty(product.ImageURL),
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetAvailability escribe solo is_available.
func (r *ProductRepo) SetAvailability(ctx context.Context, tenantID, id string, available bool, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET is_available = $3, updated_at = $4 WHERE id = $1 AND tenant_id = $2`,
		id, tenantID, available, at,
	)
	if err != nil {
		return fmt.Errorf("set product availability: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock escribe stock y disponibilidad (usado solo por el StockManager con la fila ya bloqueada).
func (r *ProductRepo) UpdateStock(ctx context.Context, tenantID, id string, quantity int, isAvailable bool, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET stock_quantity = $3, is_available = $4, updated_at = $5 WHERE id = $1 AND tenant_id = $2`,
		id, tenantID, quantity, isAvailable, at,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("update product stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto del tenant.
func (r *ProductRepo) Delete(ctx context.Context, tenantID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
