package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold umbral de stock bajo cuando el producto no define uno.
const DefaultLowStockThreshold = 5

// MaxStockQuantity tope para stock, deltas y cantidades pedidas: stock_quantity es INTEGER.
const MaxStockQuantity = math.MaxInt32

// DeltaInRange indica si |delta| cabe en la columna de stock.
func DeltaInRange(delta int) bool {
	return delta >= -MaxStockQuantity && delta <= MaxStockQuantity
}

// Product representa un producto del catálogo de un local (tenant).
// StockQuantity solo cambia vía inventory.StockManager, que registra el movimiento en el ledger.
type Product struct {
	ID                string
	TenantID          string
	Name              string
	Price             decimal.Decimal // precio unitario de venta (>= 0)
	StockQuantity     int
	IsAvailable       bool // derivado de StockQuantity > 0, editable a mano (desactivación manual)
	LowStockThreshold int
	UnitOfMeasure     string
	Category          string
	ImageURL          string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock indica si el stock está en o por debajo del umbral.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.LowStockThreshold
}
