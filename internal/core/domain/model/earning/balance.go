package earning

import "dispatch/internal/core/domain/model/kernel"

// Balance summarizes a partner's ledger. Pending withdrawals are reserved,
// so they reduce the available amount before they are paid out.
type Balance struct {
	Earned    kernel.Money
	Withdrawn kernel.Money
	Pending   kernel.Money
}

// Available returns Earned - Withdrawn - Pending.
func (b Balance) Available() kernel.Money {
	return b.Earned - b.Withdrawn - b.Pending
}
