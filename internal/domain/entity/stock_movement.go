package entity

import (
	"fmt"
	"time"
)

// MovementType tipo de movimiento del ledger de stock.
type MovementType string

const (
	MovementRestock        MovementType = "RESTOCK"
	MovementSale           MovementType = "SALE"
	MovementAdjustment     MovementType = "ADJUSTMENT"
	MovementSpoilage       MovementType = "SPOILAGE"
	MovementReturn         MovementType = "RETURN"
	MovementInventoryCount MovementType = "INVENTORY_COUNT"
)

// Valid reporta si t es uno de los tipos conocidos.
func (t MovementType) Valid() bool {
	switch t {
	case MovementRestock, MovementSale, MovementAdjustment,
		MovementSpoilage, MovementReturn, MovementInventoryCount:
		return true
	}
	return false
}

// ParseMovementType convierte el string recibido por API; vacío no es válido.
func ParseMovementType(s string) (MovementType, error) {
	t := MovementType(s)
	if !t.Valid() {
		return "", fmt.Errorf("tipo de movimiento desconocido: %q", s)
	}
	return t, nil
}

// StockMovement es una entrada inmutable del ledger de stock.
// Invariante: NewStock == PreviousStock + Delta.
type StockMovement struct {
	ID            string
	TenantID      string
	ProductID     string
	Type          MovementType
	Delta         int
	PreviousStock int
	NewStock      int
	Note          string
	CreatedByID   string // vacío si no hay actor (ej. procesos internos)
	CreatedAt     time.Time
}

// NewStockMovement arma el movimiento calculando NewStock a partir de previous + delta.
func NewStockMovement(id, tenantID, productID string, t MovementType, previous, delta int, note, actorID string, at time.Time) *StockMovement {
	return &StockMovement{
		ID:            id,
		TenantID:      tenantID,
		ProductID:     productID,
		Type:          t,
		Delta:         delta,
		PreviousStock: previous,
		NewStock:      previous + delta,
		Note:          note,
		CreatedByID:   actorID,
		CreatedAt:     at,
	}
}
