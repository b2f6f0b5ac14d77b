// Package order holds the Order aggregate and the delivery lifecycle state machine.
//
// The package includes:
//   - Order: identity, delivery address, total, assigned partner and lifecycle timestamps
//   - Status: the seven lifecycle states and the transition table
//   - StatusEvent: one append-only history entry per status change
//   - the lifecycle error taxonomy (ErrInvalidTransition, ErrStaleTransition, ...)
//
// Key business rules:
//   - pending -> confirmed -> ready_for_pickup -> dispatched -> out_for_delivery -> delivered
//   - dispatched is entered only by a claim, from ready_for_pickup or confirmed
//   - dispatched -> ready_for_pickup is the only backward edge, taken by a reject
//   - any non-terminal order may be cancelled while inside the cancellation window
//   - a partner is assigned exactly while dispatched, out_for_delivery or delivered
//
// Concurrency is not handled here: the aggregate validates an edge against the
// status it was read with, and the repository applies it with a compare-and-set
// on that status.
package order
