package http

import (
	"context"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
)

// Use case interfaces the server depends on. The command and query handlers satisfy them.
type (
	OrderCapturer interface {
		Handle(ctx context.Context, cmd commands.CaptureOrderCommand) error
	}

	OrderPicker interface {
		Handle(ctx context.Context, cmd commands.PickUpOrderCommand) error
	}

	DeliveryCompleter interface {
		Handle(ctx context.Context, cmd commands.CompleteDeliveryCommand) error
	}

	OrderCanceller interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) error
	}

	DriverRegistrar interface {
		Handle(ctx context.Context, cmd commands.RegisterDriverCommand) error
	}

	DriverShifts interface {
		HandleCheckIn(ctx context.Context, cmd commands.CheckInDriverCommand) error
		HandleCheckOut(ctx context.Context, cmd commands.CheckOutDriverCommand) error
	}

	LocationReporter interface {
		Handle(ctx context.Context, cmd commands.UpdateDriverLocationCommand) error
	}

	Dispatcher interface {
		Handle(ctx context.Context, cmd commands.MatchOrdersCommand) ([]ports.AssignmentResult, error)
	}

	Reconciler interface {
		Handle(ctx context.Context, cmd commands.ReconcileSettlementsCommand) (commands.SweepReport, error)
	}

	RegistryRebuilder interface {
		Handle(ctx context.Context, cmd commands.RebuildRegistryCommand) (commands.RebuildReport, error)
	}

	PendingOrdersReader interface {
		Handle(ctx context.Context, query queries.GetPendingOrdersQuery) ([]queries.PendingOrderResponse, error)
	}

	WalletBalanceReader interface {
		Handle(ctx context.Context, query queries.GetWalletBalanceQuery) (queries.WalletBalanceResponse, error)
	}

	WalletTransactionsReader interface {
		Handle(ctx context.Context, query queries.GetWalletTransactionsQuery) ([]queries.WalletTransactionResponse, error)
	}

	ReconciliationReportReader interface {
		Handle(ctx context.Context, query queries.GetReconciliationReportQuery) (queries.ReconciliationReport, error)
	}
)

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	CaptureOrder     OrderCapturer
	PickUpOrder      OrderPicker
	CompleteDelivery DeliveryCompleter
	CancelOrder      OrderCanceller
	SettleOrder      commands.OrderSettler

	RegisterDriver DriverRegistrar
	DriverShifts   DriverShifts
	UpdateLocation LocationReporter

	MatchOrders     Dispatcher
	Reconcile       Reconciler
	RebuildRegistry RegistryRebuilder

	PendingOrders        PendingOrdersReader
	WalletBalance        WalletBalanceReader
	WalletTransactions   WalletTransactionsReader
	ReconciliationReport ReconciliationReportReader
}
