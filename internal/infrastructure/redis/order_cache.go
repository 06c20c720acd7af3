package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Comanda-api/internal/application/ports"
	"github.com/jhoicas/Comanda-api/internal/domain/entity"
	"github.com/jhoicas/Comanda-api/pkg/config"
	"github.com/jhoicas/Comanda-api/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

var _ ports.OrderCache = (*OrderCache)(nil)

// NewClient cliente Redis con timeouts cortos: el cache nunca debe frenar un request.
func NewClient(cfg config.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// OrderCache idempotencia de creación y cache de estado de pedidos sobre Redis.
// Claves con prefijo de tenant. Las lecturas loguean y devuelven el error; las escrituras solo loguean.
type OrderCache struct {
	rdb goredis.Cmdable
	log *logger.Logger
}

// NewOrderCache construye el cache sobre un cliente ya creado.
func NewOrderCache(rdb goredis.Cmdable, log *logger.Logger) *OrderCache {
	return &OrderCache{rdb: rdb, log: log.Named("redis")}
}

// LookupIdempotency devuelve el pedido asociado a la clave o "" si no existe.
func (c *OrderCache) LookupIdempotency(ctx context.Context, tenantID, key string) (string, error) {
	orderID, err := c.rdb.Get(ctx, idemKey(tenantID, key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		c.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("lookup idempotencia")
		return "", fmt.Errorf("redis get idempotency: %w", err)
	}
	return orderID, nil
}

// RememberIdempotency guarda clave -> pedido. SETNX: la primera escritura gana.
func (c *OrderCache) RememberIdempotency(ctx context.Context, tenantID, key, orderID string) {
	if err := c.rdb.SetNX(ctx, idemKey(tenantID, key), orderID, TTLIdempotency).Err(); err != nil {
		c.log.Warn().Err(err).Str("tenant_id", tenantID).Str("order_id", orderID).Msg("guardar idempotencia")
	}
}

// GetStatus estado cacheado; "" sin error si no está.
func (c *OrderCache) GetStatus(ctx context.Context, tenantID, orderID string) (entity.OrderStatus, error) {
	v, err := c.rdb.Get(ctx, statusKey(tenantID, orderID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		c.log.Warn().Err(err).Str("order_id", orderID).Msg("leer estado cacheado")
		return "", fmt.Errorf("redis get status: %w", err)
	}
	return entity.OrderStatus(v), nil
}

// SetStatus cachea el estado con TTL corto.
func (c *OrderCache) SetStatus(ctx context.Context, tenantID, orderID string, status entity.OrderStatus) {
	if err := c.rdb.Set(ctx, statusKey(tenantID, orderID), string(status), TTLStatusCache).Err(); err != nil {
		c.log.Warn().Err(err).Str("order_id", orderID).Msg("cachear estado")
	}
}
