package memory

import (
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/location"
)

// ETACache keeps the last computed ETA per order.
type ETACache struct {
	mu   sync.RWMutex
	etas map[kernel.UUID]location.ETA
}

func NewETACache() *ETACache {
	return &ETACache{etas: make(map[kernel.UUID]location.ETA)}
}

func (c *ETACache) Put(eta location.ETA) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.etas[eta.OrderID] = eta
}

func (c *ETACache) Get(orderID kernel.UUID) (location.ETA, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	eta, ok := c.etas[orderID]
	return eta, ok
}

func (c *ETACache) Delete(orderID kernel.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.etas, orderID)
}
