package earning

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Withdrawal errors.
var (
	// ErrBelowMinimumWithdrawal is returned when the requested amount is under the configured minimum.
	ErrBelowMinimumWithdrawal = errors.New("withdrawal amount below minimum")
	// ErrInsufficientBalance is returned when the amount exceeds the available balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrWithdrawalAlreadyResolved is returned when resolving a withdrawal that is no longer pending.
	ErrWithdrawalAlreadyResolved = errors.New("withdrawal already resolved")
)

// WithdrawalStatus is the payout state of a withdrawal request.
type WithdrawalStatus int

const (
	WithdrawalUnknown WithdrawalStatus = iota
	WithdrawalPending
	WithdrawalCompleted
	WithdrawalRejected
)

func getWithdrawalStatusStrings() map[WithdrawalStatus]string {
	return map[WithdrawalStatus]string{
		WithdrawalUnknown:   "unknown",
		WithdrawalPending:   "pending",
		WithdrawalCompleted: "completed",
		WithdrawalRejected:  "rejected",
	}
}

// ParseWithdrawalStatus converts the persisted name back into a WithdrawalStatus.
func ParseWithdrawalStatus(s string) (WithdrawalStatus, error) {
	for status, name := range getWithdrawalStatusStrings() {
		if status != WithdrawalUnknown && name == s {
			return status, nil
		}
	}
	return WithdrawalUnknown, errs.NewValueIsInvalidErrorWithCause(
		"withdrawal status is invalid", fmt.Errorf("%q is not a valid withdrawal status", s))
}

func (s WithdrawalStatus) Validate() error {
	if s <= WithdrawalUnknown || s > WithdrawalRejected {
		return errs.NewValueIsInvalidErrorWithCause(
			"withdrawal status is invalid", fmt.Errorf("%d is not a valid withdrawal status", s))
	}
	return nil
}

func (s WithdrawalStatus) String() string {
	if str, ok := getWithdrawalStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Withdrawal is a partner's request to pay out part of the available balance.
// It is pending until an operator completes or rejects it.
type Withdrawal struct {
	id         kernel.UUID
	partnerID  kernel.UUID
	amount     kernel.Money
	status     WithdrawalStatus
	createdAt  time.Time
	resolvedAt *time.Time
}

// NewWithdrawal validates a request against the minimum and the available
// balance, which the caller reads while holding the partner lock.
func NewWithdrawal(partnerID kernel.UUID, amount, minimum kernel.Money, balance Balance, now time.Time) (Withdrawal, error) {
	if err := partnerID.Validate(); err != nil {
		return Withdrawal{}, err
	}
	if amount < minimum {
		return Withdrawal{}, fmt.Errorf("%w: requested %s, minimum is %s", ErrBelowMinimumWithdrawal, amount, minimum)
	}
	if amount > balance.Available() {
		return Withdrawal{}, fmt.Errorf("%w: requested %s, available %s", ErrInsufficientBalance, amount, balance.Available())
	}

	return Withdrawal{
		id:        kernel.NewUUID(),
		partnerID: partnerID,
		amount:    amount,
		status:    WithdrawalPending,
		createdAt: now,
	}, nil
}

// RestoreWithdrawal rebuilds a stored withdrawal.
func RestoreWithdrawal(
	id, partnerID kernel.UUID,
	amount kernel.Money,
	status WithdrawalStatus,
	createdAt time.Time,
	resolvedAt *time.Time,
) (Withdrawal, error) {
	var amountErr error
	if amount <= 0 {
		amountErr = errs.NewValueIsInvalidErrorWithCause("amount is invalid", fmt.Errorf("%s is not greater than 0", amount))
	}

	if err := errors.Join(id.Validate(), partnerID.Validate(), amountErr, status.Validate()); err != nil {
		return Withdrawal{}, err
	}

	return Withdrawal{
		id:         id,
		partnerID:  partnerID,
		amount:     amount,
		status:     status,
		createdAt:  createdAt,
		resolvedAt: resolvedAt,
	}, nil
}

// Resolve moves a pending withdrawal to completed or rejected.
func (w *Withdrawal) Resolve(outcome WithdrawalStatus, now time.Time) error {
	if outcome != WithdrawalCompleted && outcome != WithdrawalRejected {
		return errs.NewValueIsInvalidErrorWithCause(
			"withdrawal outcome is invalid", fmt.Errorf("%s is not completed or rejected", outcome))
	}
	if w.status != WithdrawalPending {
		return fmt.Errorf("%w: withdrawal is %s", ErrWithdrawalAlreadyResolved, w.status)
	}

	w.status = outcome
	w.resolvedAt = &now
	return nil
}

func (w Withdrawal) ID() kernel.UUID {
	return w.id
}

func (w Withdrawal) PartnerID() kernel.UUID {
	return w.partnerID
}

func (w Withdrawal) Amount() kernel.Money {
	return w.amount
}

func (w Withdrawal) Status() WithdrawalStatus {
	return w.status
}

func (w Withdrawal) CreatedAt() time.Time {
	return w.createdAt
}

// ResolvedAt is nil while the withdrawal is pending.
func (w Withdrawal) ResolvedAt() *time.Time {
	return w.resolvedAt
}
