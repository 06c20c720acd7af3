package dto

import (
	"time"

	"github.com/jhoicas/Comanda-api/internal/domain/entity"
)

// AdjustStockRequest body para POST /api/inventory/products/:id/adjust.
// Delta es puntero para distinguir "ausente" de 0 (ambos inválidos).
type AdjustStockRequest struct {
	Delta *int   `json:"delta"`
	Type  string `json:"type,omitempty"` // RESTOCK, SALE, ADJUSTMENT, SPOILAGE, RETURN, INVENTORY_COUNT
	Note  string `json:"note,omitempty"`
}

// SetStockLevelRequest body para PUT /api/inventory/products/:id/level.
type SetStockLevelRequest struct {
	Quantity *int   `json:"quantity"`
	Note     string `json:"note,omitempty"`
}

// StockMovementResponse salida de un movimiento del ledger.
type StockMovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	Type          string    `json:"type"`
	Delta         int       `json:"delta"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	Note          string    `json:"note,omitempty"`
	CreatedByID   string    `json:"created_by_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// StockChangeResponse resultado de un ajuste: producto actualizado + movimiento.
type StockChangeResponse struct {
	Product  ProductResponse       `json:"product"`
	Movement StockMovementResponse `json:"movement"`
}

// NewStockMovementResponse mapea un movimiento del ledger.
func NewStockMovementResponse(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          string(m.Type),
		Delta:         m.Delta,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Note:          m.Note,
		CreatedByID:   m.CreatedByID,
		CreatedAt:     m.CreatedAt,
	}
}

// NewStockMovementResponses mapea una lista; nunca devuelve nil.
func NewStockMovementResponses(list []*entity.StockMovement) []StockMovementResponse {
	out := make([]StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, NewStockMovementResponse(m))
	}
	return out
}
