package redis

import (
	"fmt"
	"time"
)

const (
	// idem:order:create:{tenant}:{key} -> order_id
	keyIdemOrderCreate = "idem:order:create:%s:%s"
	// order_status:{tenant}:{order_id} -> status
	keyOrderStatus = "order_status:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLStatusCache = 5 * time.Minute
)

func idemKey(tenantID, key string) string {
	return fmt.Sprintf(keyIdemOrderCreate, tenantID, key)
}

func statusKey(tenantID, orderID string) string {
	return fmt.Sprintf(keyOrderStatus, tenantID, orderID)
}
