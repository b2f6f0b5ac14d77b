// Package commands holds the write side of the dispatch engine: order
// transitions, claims, cancellations, partner onboarding and the earnings ledger.
// Each command is validated on construction and its handler runs inside one
// unit of work; events go out only after commit.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of work views consumed by the handlers. Repositories obtained from a
// unit of work share its transaction.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// PartnerRepoFactory provides access to partner repository within a transaction.
	PartnerRepoFactory interface {
		PartnerRepository() ports.PartnerRepository
	}

	// EarningRepoFactory provides access to the earnings ledger within a transaction.
	EarningRepoFactory interface {
		EarningRepository() ports.EarningRepository
	}

	// PartnerUoW manages transactions for partner-only operations
	// such as registration, KYC changes and availability.
	PartnerUoW interface {
		TxManager
		PartnerRepoFactory
	}

	// PartnerUoWFactory creates new partner unit of work instances.
	PartnerUoWFactory interface {
		Create() PartnerUoW
	}

	// UoW manages transactions across orders, partners and the ledger.
	// A delivered transition writes all three in one transaction.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   earningRepo := uow.EarningRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		PartnerRepoFactory
		EarningRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
