package services

import (
	"errors"
	"math"
	"sort"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/partner"
)

// ErrNoEligiblePartners is returned when no partner may receive a claimable order.
var ErrNoEligiblePartners = errors.New("no eligible partners")

// RecipientSelector decides which partners are told about a claimable order.
//
// Business rules:
//   - only online, KYC-approved partners are eligible
//   - partners closest to the destination come first; partners that never
//     reported a location, or orders without a resolved destination, keep input order
//   - limit > 0 caps the fan-out; 0 means everyone eligible
//
// Selection does not reserve anything. Every recipient still has to win the
// claim, so showing the order to many partners is safe.
//
// Example usage:
//
//	selector := services.NewRecipientSelector(50)
//	recipients, err := selector.Select(o.Destination(), onlinePartners)
//	if errors.Is(err, services.ErrNoEligiblePartners) {
//	    // nobody to notify, the broadcast job will retry
//	}
type RecipientSelector struct {
	limit int
}

// NewRecipientSelector creates a selector; limit <= 0 disables the cap.
func NewRecipientSelector(limit int) RecipientSelector {
	if limit < 0 {
		limit = 0
	}
	return RecipientSelector{limit: limit}
}

type candidate struct {
	profile  *partner.Profile
	distance float64
}

// Select filters and ranks partners for an order whose destination may still be unresolved.
func (s RecipientSelector) Select(destination *kernel.GeoPoint, partners []*partner.Profile) ([]*partner.Profile, error) {
	candidates := make([]candidate, 0, len(partners))

	for _, p := range partners {
		if err := p.Validate(); err != nil {
			return nil, err
		}

		if !p.IsOnline() || !p.KYCStatus().IsApproved() {
			continue
		}

		distance := math.MaxFloat64
		if destination != nil {
			d, ok, err := p.DistanceKm(*destination)
			if err != nil {
				return nil, err
			}
			if ok {
				distance = d
			}
		}

		candidates = append(candidates, candidate{profile: p, distance: distance})
	}

	if len(candidates) == 0 {
		return nil, ErrNoEligiblePartners
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if s.limit > 0 && len(candidates) > s.limit {
		candidates = candidates[:s.limit]
	}

	recipients := make([]*partner.Profile, 0, len(candidates))
	for _, c := range candidates {
		recipients = append(recipients, c.profile)
	}
	return recipients, nil
}
