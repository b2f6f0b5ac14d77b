// Package memory holds the in-process tracking stores. Location samples and
// ETAs are ephemeral, so they live in memory and are lost on restart.
package memory

import (
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/location"
)

// LocationStore keeps the latest sample per partner. A sample older than the
// stored one is ignored, so out-of-order delivery from devices cannot move a
// partner backwards.
type LocationStore struct {
	mu      sync.RWMutex
	samples map[kernel.UUID]location.Sample
}

func NewLocationStore() *LocationStore {
	return &LocationStore{samples: make(map[kernel.UUID]location.Sample)}
}

func (s *LocationStore) Put(sample location.Sample) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.samples[sample.PartnerID()]; ok && !sample.IsNewerThan(current) {
		return false
	}
	s.samples[sample.PartnerID()] = sample
	return true
}

func (s *LocationStore) Latest(partnerID kernel.UUID) (location.Sample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sample, ok := s.samples[partnerID]
	return sample, ok
}
