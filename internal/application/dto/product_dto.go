package dto

import (
	"time"

	"github.com/jhoicas/Comanda-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// InitialStock se registra como un movimiento RESTOCK, no como escritura directa.
type CreateProductRequest struct {
	Name              string          `json:"name" validate:"required,min=1,max=200"`
	Price             decimal.Decimal `json:"price"`
	InitialStock      int             `json:"initial_stock"`
	LowStockThreshold *int            `json:"low_stock_threshold"`
	UnitOfMeasure     string          `json:"unit_of_measure"`
	Category          string          `json:"category"`
	ImageURL          string          `json:"image_url"`
}

// UpdateProductRequest entrada para actualizar un producto.
// No incluye stock: el stock solo cambia vía /api/inventory (ledger).
type UpdateProductRequest struct {
	Name              *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Price             *decimal.Decimal `json:"price"`
	IsAvailable       *bool            `json:"is_available"`
	LowStockThreshold *int             `json:"low_stock_threshold"`
	UnitOfMeasure     *string          `json:"unit_of_measure"`
	Category          *string          `json:"category"`
	ImageURL          *string          `json:"image_url"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                string          `json:"id"`
	TenantID          string          `json:"tenant_id"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	StockQuantity     int             `json:"stock_quantity"`
	IsAvailable       bool            `json:"is_available"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	UnitOfMeasure     string          `json:"unit_of_measure"`
	Category          string          `json:"category"`
	ImageURL          string          `json:"image_url"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// NewProductResponse mapea la entidad a la salida HTTP.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		TenantID:          p.TenantID,
		Name:              p.Name,
		Price:             p.Price,
		StockQuantity:     p.StockQuantity,
		IsAvailable:       p.IsAvailable,
		LowStockThreshold: p.LowStockThreshold,
		UnitOfMeasure:     p.UnitOfMeasure,
		Category:          p.Category,
		ImageURL:          p.ImageURL,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// NewProductResponses mapea una lista; nunca devuelve nil.
func NewProductResponses(list []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, NewProductResponse(p))
	}
	return out
}
