package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Comanda-api/internal/application/ports"
	"github.com/jhoicas/Comanda-api/internal/domain/entity"
	"github.com/jhoicas/Comanda-api/pkg/config"
	"github.com/jhoicas/Comanda-api/pkg/logger"
	kafkago "github.com/segmentio/kafka-go"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// messageWriter lo que usa el Publisher de *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type outbound struct {
	w   messageWriter
	msg kafkago.Message
}

// Publisher publica eventos de forma asíncrona: los use cases encolan y una goroutine escribe a Kafka.
// Si la cola está llena el evento se descarta con un warning (nunca bloquea un request).
type Publisher struct {
	orders   messageWriter
	stock    messageWriter
	producer string
	log      *logger.Logger

	inbox     chan outbound
	done      chan struct{}
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewPublisher construye el publisher con un writer por tópico (key hash -> misma partición por pedido/producto).
func NewPublisher(cfg config.KafkaConfig, producer string, log *logger.Logger) *Publisher {
	newWriter := func(topic string) *kafkago.Writer {
		return &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.Brokers...),
			Topic:        topic,
			Balancer:     &kafkago.Hash{},
			RequiredAcks: kafkago.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
		}
	}
	return newPublisher(newWriter(cfg.TopicOrders), newWriter(cfg.TopicStock), producer, log, 1024)
}

func newPublisher(orders, stock messageWriter, producer string, log *logger.Logger, buf int) *Publisher {
	return &Publisher{
		orders:   orders,
		stock:    stock,
		producer: producer,
		log:      log.Named("kafka"),
		inbox:    make(chan outbound, buf),
		done:     make(chan struct{}),
	}
}

// Start lanza la goroutine de escritura. Termina cuando se llama Close (drena lo pendiente).
func (p *Publisher) Start() {
	go func() {
		defer close(p.done)
		for out := range p.inbox {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := out.w.WriteMessages(ctx, out.msg); err != nil {
				p.log.Error().Err(err).Str("key", string(out.msg.Key)).Msg("publicar evento")
			}
			cancel()
		}
	}()
}

// Close deja de aceptar eventos, espera a que se escriban los encolados y cierra los writers.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.inbox)
		p.mu.Unlock()
		<-p.done
		_ = p.orders.Close()
		_ = p.stock.Close()
	})
}

// StockMoved publica el movimiento en el tópico de stock (key = product_id).
func (p *Publisher) StockMoved(_ context.Context, m *entity.StockMovement) {
	p.enqueue(p.stock, m.ProductID, EventStockMoved, m.TenantID, StockMovedPayload{
		MovementID:    m.ID,
		ProductID:     m.ProductID,
		Type:          string(m.Type),
		Delta:         m.Delta,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Note:          m.Note,
		CreatedByID:   m.CreatedByID,
	})
}

// OrderCreated publica el pedido nuevo en el tópico de pedidos (key = order_id).
func (p *Publisher) OrderCreated(_ context.Context, o *entity.Order) {
	lines := make([]OrderLinePayload, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, OrderLinePayload{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	p.enqueue(p.orders, o.ID, EventOrderCreated, o.TenantID, OrderCreatedPayload{
		OrderID:         o.ID,
		TableID:         o.TableID,
		TotalAmount:     o.TotalAmount,
		PaymentIntentID: o.PaymentIntentID,
		Items:           lines,
	})
}

// OrderStatusChanged publica la transición en el tópico de pedidos (key = order_id).
func (p *Publisher) OrderStatusChanged(_ context.Context, o *entity.Order, from entity.OrderStatus) {
	p.enqueue(p.orders, o.ID, EventOrderStatusChanged, o.TenantID, OrderStatusChangedPayload{
		OrderID: o.ID,
		TableID: o.TableID,
		From:    string(from),
		To:      string(o.Status),
	})
}

func (p *Publisher) enqueue(w messageWriter, key, eventType, tenantID string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		p.log.Error().Err(err).Str("event", eventType).Msg("serializar payload")
		return
	}
	value, err := json.Marshal(Envelope{
		EventID:      uuid.New().String(),
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     p.producer,
		TenantID:     tenantID,
		Payload:      raw,
	})
	if err != nil {
		p.log.Error().Err(err).Str("event", eventType).Msg("serializar envelope")
		return
	}
	msg := kafkago.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
		Headers: []kafkago.Header{
			{Key: "x-event-type", Value: []byte(eventType)},
			{Key: "x-event-version", Value: []byte("1")},
		},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.log.Warn().Str("event", eventType).Msg("publisher cerrado, evento descartado")
		return
	}
	select {
	case p.inbox <- outbound{w: w, msg: msg}:
	default:
		p.log.Warn().Str("event", eventType).Str("key", key).Msg("cola de eventos llena, evento descartado")
	}
}
