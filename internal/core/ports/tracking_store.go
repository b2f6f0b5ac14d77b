package ports

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/location"
)

// LocationStore keeps the latest sample per partner.
type LocationStore interface {
	// Put stores sample unless a newer one is stored; it reports whether it did.
	Put(sample location.Sample) bool
	Latest(partnerID kernel.UUID) (location.Sample, bool)
}

// ETACache keeps the last computed ETA per order so reads never wait on the network.
type ETACache interface {
	Put(eta location.ETA)
	Get(orderID kernel.UUID) (location.ETA, bool)
	Delete(orderID kernel.UUID)
}
