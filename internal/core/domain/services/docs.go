// Package services holds the stateless domain services of the dispatch engine.
//
//   - SLATimer: elapsed, remaining and overdue for an order at a given instant
//   - CommissionPolicy: the partner's earning for a delivered order
//   - RecipientSelector: which partners hear about a claimable order, nearest first
//   - StraightLineEstimator: fallback distance and ETA when routing is unavailable
//
// None of them perform I/O or keep mutable state.
package services
