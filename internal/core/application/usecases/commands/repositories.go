// Package commands contains the write operations of the dispatch service.
// Every command is validated on construction and executed by a handler that owns the
// transaction boundary: validate, begin, load, mutate aggregates, conditional write, commit.
// Live registry and messaging side effects happen only after commit and are best-effort.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces narrowed to what each handler needs.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	WalletRepoFactory interface {
		WalletRepository() ports.WalletRepository
	}

	// OrderUoW is used by commands that touch only orders.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// DriverUoW is used by commands that touch only drivers.
	DriverUoW interface {
		TxManager
		DriverRepoFactory
	}

	DriverUoWFactory interface {
		Create() DriverUoW
	}

	// UoW spans orders, drivers and wallets. Assignment, delivery, cancellation,
	// capture and settlement all run through it.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orders := uow.OrderRepository()
	//   drivers := uow.DriverRepository()
	//   // ... conditional writes
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		DriverRepoFactory
		WalletRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
