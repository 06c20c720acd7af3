package kafka

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento publicados.
const (
	EventStockMoved         = "StockMoved"
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

// Envelope sobre común de todos los eventos (versión 1).
type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	TenantID     string          `json:"tenant_id"`
	Payload      json.RawMessage `json:"payload"`
}

// StockMovedPayload copia del movimiento del ledger.
type StockMovedPayload struct {
	MovementID    string `json:"movement_id"`
	ProductID     string `json:"product_id"`
	Type          string `json:"type"`
	Delta         int    `json:"delta"`
	PreviousStock int    `json:"previous_stock"`
	NewStock      int    `json:"new_stock"`
	Note          string `json:"note,omitempty"`
	CreatedByID   string `json:"created_by_id,omitempty"`
}

// OrderLinePayload línea con precio congelado.
type OrderLinePayload struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderCreatedPayload pedido recién creado (PENDING_PAYMENT).
type OrderCreatedPayload struct {
	OrderID         string             `json:"order_id"`
	TableID         string             `json:"table_id"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	PaymentIntentID string             `json:"payment_intent_id,omitempty"`
	Items           []OrderLinePayload `json:"items"`
}

// OrderStatusChangedPayload transición de estado de un pedido.
type OrderStatusChangedPayload struct {
	OrderID string `json:"order_id"`
	TableID string `json:"table_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}
