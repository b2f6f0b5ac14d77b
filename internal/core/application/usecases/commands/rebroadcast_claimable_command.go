package commands

import (
	"errors"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const DefaultRebroadcastLimit = 100

var ErrRebroadcastClaimableCommandIsNotConstructed = errors.New(
	"RebroadcastClaimableCommand must be created via NewRebroadcastClaimableCommand constructor",
)

// RebroadcastClaimableCommand announces again, to the partners online now,
// orders that are still waiting for a claim.
type RebroadcastClaimableCommand struct {
	limit int

	guard guard.ConstructorGuard
}

func NewRebroadcastClaimableCommand(limit int) (RebroadcastClaimableCommand, error) {
	if limit <= 0 {
		return RebroadcastClaimableCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	return RebroadcastClaimableCommand{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (c RebroadcastClaimableCommand) Validate() error {
	return c.guard.Validate(ErrRebroadcastClaimableCommandIsNotConstructed)
}

func (c RebroadcastClaimableCommand) Limit() int {
	return c.limit
}
