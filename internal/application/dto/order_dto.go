package dto

import (
	"time"

	"github.com/jhoicas/Comanda-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// OrderItemRequest línea pedida: producto y cantidad.
type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest body para POST /api/orders (pedido de mesa vía QR o mesero).
type CreateOrderRequest struct {
	TableID         string             `json:"table_id"`
	PaymentIntentID string             `json:"payment_intent_id,omitempty"`
	Items           []OrderItemRequest `json:"items"`
}

// UpdateOrderStatusRequest body para PATCH /api/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderItemResponse línea de pedido con precio congelado.
type OrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID              string              `json:"id"`
	TenantID        string              `json:"tenant_id"`
	TableID         string              `json:"table_id"`
	Status          string              `json:"status"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	PaymentIntentID string              `json:"payment_intent_id,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderListResponse lista paginada de pedidos (sin líneas).
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// NewOrderResponse mapea el pedido y sus líneas cargadas.
func NewOrderResponse(o *entity.Order) OrderResponse {
	resp := OrderResponse{
		ID:              o.ID,
		TenantID:        o.TenantID,
		TableID:         o.TableID,
		Status:          string(o.Status),
		TotalAmount:     o.TotalAmount,
		PaymentIntentID: o.PaymentIntentID,
		Items:           make([]OrderItemResponse, 0, len(o.Items)),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal(),
		})
	}
	return resp
}
