// Package earning holds the earnings ledger: one Record per delivered order and
// the Withdrawal requests that draw the balance down.
//
// Key business rules:
//   - an order is credited at most once; a duplicate is reported as ErrDuplicate
//   - available balance = earned - completed withdrawals - pending withdrawals
//   - a withdrawal must be at least the configured minimum and at most the available balance
//   - a withdrawal is resolved once, from pending to completed or rejected
package earning
