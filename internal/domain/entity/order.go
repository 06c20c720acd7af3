package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado de un pedido de mesa.
type OrderStatus string

const (
	OrderPendingPayment OrderStatus = "PENDING_PAYMENT"
	OrderPaid           OrderStatus = "PAID"
	OrderPreparing      OrderStatus = "PREPARING"
	OrderReady          OrderStatus = "READY"
	OrderDelivered      OrderStatus = "DELIVERED"
	OrderCancelled      OrderStatus = "CANCELLED"
)

// Transiciones permitidas: avance monótono; CANCELLED solo antes de READY.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPendingPayment: {OrderPaid, OrderCancelled},
	OrderPaid:           {OrderPreparing, OrderCancelled},
	OrderPreparing:      {OrderReady, OrderCancelled},
	OrderReady:          {OrderDelivered},
	OrderDelivered:      {},
	OrderCancelled:      {},
}

// Valid reporta si s es un estado conocido.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// IsTerminal true para DELIVERED y CANCELLED.
func (s OrderStatus) IsTerminal() bool {
	return s.Valid() && len(orderTransitions[s]) == 0
}

// CanTransitionTo indica si el pedido puede pasar de s a next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseOrderStatus convierte el string recibido por API.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("estado de pedido desconocido: %q", s)
	}
	return st, nil
}

// Order pedido de una mesa. TotalAmount se congela al crear el pedido.
type Order struct {
	ID              string
	TenantID        string
	TableID         string
	Status          OrderStatus
	TotalAmount     decimal.Decimal
	PaymentIntentID string // opaco, lo maneja la pasarela externa
	IdempotencyKey  string // único por tenant cuando no está vacío
	Items           []*OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem línea de un pedido; UnitPrice es el precio del producto al momento del pedido.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	CreatedAt time.Time
}

// LineTotal UnitPrice * Quantity.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
