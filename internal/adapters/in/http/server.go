package http

import (
	"log/slog"
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/generated/servers"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// SweepSettings bounds sweeps started from the operator endpoint.
type SweepSettings struct {
	BatchSize   int
	Concurrency int
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	h      Handlers
	sweep  SweepSettings
	logger *slog.Logger
}

var _ servers.ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, sweep SweepSettings, logger *slog.Logger) *Server {
	return &Server{
		h:      handlers,
		sweep:  sweep,
		logger: logger.With("component", "http_server"),
	}
}

// CaptureOrder handles POST /api/v1/orders.
func (s *Server) CaptureOrder(ctx echo.Context) error {
	var body servers.CaptureOrderJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCaptureOrderCommand(commands.CaptureOrderParams{
		OrderID:              kernelID(body.OrderId),
		RestaurantID:         kernelID(body.RestaurantId),
		CustomerID:           kernelID(body.CustomerId),
		RestaurantLat:        body.RestaurantLocation.Lat,
		RestaurantLng:        body.RestaurantLocation.Lng,
		DeliveryLat:          body.DeliveryLocation.Lat,
		DeliveryLng:          body.DeliveryLocation.Lng,
		Subtotal:             body.Subtotal,
		DeliveryFee:          valueOr(body.DeliveryFee, 0),
		Tip:                  valueOr(body.Tip, 0),
		DoorFee:              valueOr(body.DoorFee, 0),
		PlatformFeeRate:      body.PlatformFeeRate,
		DriverCommissionRate: body.DriverCommissionRate,
	})
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.h.CaptureOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusCreated)
}

// GetPendingOrders handles GET /api/v1/orders/pending.
func (s *Server) GetPendingOrders(ctx echo.Context) error {
	orders, err := s.h.PendingOrders.Handle(ctx.Request().Context(), queries.NewGetPendingOrdersQuery())
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]servers.PendingOrder, len(orders))
	for i, o := range orders {
		response[i] = servers.PendingOrder{
			Id:             o.ID.Bytes(),
			RestaurantId:   o.RestaurantID.Bytes(),
			CustomerId:     o.CustomerID.Bytes(),
			FinalTotal:     o.FinalTotal.Int64(),
			IntegrityError: optionalString(o.IntegrityError),
			CreatedAt:      o.CreatedAt,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// PickUpOrder handles POST /api/v1/orders/{orderId}/pickup.
func (s *Server) PickUpOrder(ctx echo.Context, orderId servers.OrderId) error {
	cmd, err := commands.NewPickUpOrderCommand(kernelID(orderId))
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.h.PickUpOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// DeliverOrder handles POST /api/v1/orders/{orderId}/deliver.
func (s *Server) DeliverOrder(ctx echo.Context, orderId servers.OrderId) error {
	cmd, err := commands.NewCompleteDeliveryCommand(kernelID(orderId))
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.h.CompleteDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel.
func (s *Server) CancelOrder(ctx echo.Context, orderId servers.OrderId) error {
	cmd, err := commands.NewCancelOrderCommand(kernelID(orderId))
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.h.CancelOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// SettleOrder handles POST /api/v1/orders/{orderId}/settle.
func (s *Server) SettleOrder(ctx echo.Context, orderId servers.OrderId) error {
	cmd, err := commands.NewSettleOrderCommand(kernelID(orderId))
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.h.SettleOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	applied := make([]string, len(result.Applied))
	for i, leg := range result.Applied {
		applied[i] = string(leg)
	}
	return ctx.JSON(http.StatusOK, servers.Settlement{
		OrderId:           result.OrderID.Bytes(),
		Status:            servers.SettlementStatus(result.Status),
		Applied:           applied,
		PlatformFee:       result.Split.PlatformFee.Int64(),
		DriverCommission:  result.Split.DriverCommission.Int64(),
		RestaurantRevenue: result.Split.RestaurantRevenue.Int64(),
		DriverPayment:     result.Split.DriverPayment.Int64(),
	})
}

// RegisterDriver handles POST /api/v1/drivers.
func (s *Server) RegisterDriver(ctx echo.Context) error {
	var body servers.RegisterDriverJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	driverID := kernel.NewUUID()
	if body.DriverId != nil {
		driverID = kernelID(*body.DriverId)
	}

	cmd, err := commands.NewRegisterDriverCommand(driverID, kernelID(body.UserId), body.Rating, valueOr(body.MaxConcurrentOrders, 0))
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.h.RegisterDriver.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, servers.DriverRef{Id: driverID.Bytes()})
}

// CheckInDriver handles POST /api/v1/drivers/{driverId}/checkin.
func (s *Server) CheckInDriver(ctx echo.Context, driverId servers.DriverId) error {
	cmd, err := commands.NewCheckInDriverCommand(kernelID(driverId))
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.h.DriverShifts.HandleCheckIn(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CheckOutDriver handles POST /api/v1/drivers/{driverId}/checkout.
func (s *Server) CheckOutDriver(ctx echo.Context, driverId servers.DriverId) error {
	cmd, err := commands.NewCheckOutDriverCommand(kernelID(driverId))
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.h.DriverShifts.HandleCheckOut(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// UpdateDriverLocation handles PUT /api/v1/drivers/{driverId}/location.
// Positions without a timestamp are stamped with the receive time.
func (s *Server) UpdateDriverLocation(ctx echo.Context, driverId servers.DriverId) error {
	var body servers.UpdateDriverLocationJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	at := time.Now().UTC()
	if body.At != nil {
		at = *body.At
	}

	cmd, err := commands.NewUpdateDriverLocationCommand(kernelID(driverId), body.Lat, body.Lng, at)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.h.UpdateLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusAccepted)
}

// GetWalletBalance handles GET /api/v1/wallets/{ownerType}/{ownerId}.
func (s *Server) GetWalletBalance(ctx echo.Context, ownerType servers.OwnerType, ownerId servers.OwnerId) error {
	query, err := queries.NewGetWalletBalanceQuery(string(ownerType), ownerId)
	if err != nil {
		return s.fail(ctx, err)
	}

	w, err := s.h.WalletBalance.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.WalletBalance{
		WalletId:       w.WalletID.Bytes(),
		OwnerType:      w.OwnerType,
		OwnerId:        optionalID(w.OwnerID),
		IsSystemWallet: w.IsSystemWallet,
		Balance:        w.Balance.Int64(),
		PendingBalance: w.PendingBalance.Int64(),
		EscrowBalance:  w.EscrowBalance.Int64(),
		UpdatedAt:      w.UpdatedAt,
	})
}

// GetWalletTransactions handles GET /api/v1/wallets/{ownerType}/{ownerId}/transactions.
func (s *Server) GetWalletTransactions(
	ctx echo.Context,
	ownerType servers.OwnerType,
	ownerId servers.OwnerId,
	params servers.GetWalletTransactionsParams,
) error {
	query, err := queries.NewGetWalletTransactionsQuery(string(ownerType), ownerId, valueOr(params.Limit, 0))
	if err != nil {
		return s.fail(ctx, err)
	}

	txs, err := s.h.WalletTransactions.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]servers.WalletTransaction, len(txs))
	for i, tx := range txs {
		response[i] = servers.WalletTransaction{
			Id:          tx.ID.Bytes(),
			Type:        tx.Type,
			Amount:      tx.Amount.Int64(),
			Status:      tx.Status,
			OrderId:     optionalID(tx.OrderID),
			Description: tx.Description,
			CreatedAt:   tx.CreatedAt,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// RunDispatch handles POST /api/v1/operator/dispatch.
func (s *Server) RunDispatch(ctx echo.Context) error {
	results, err := s.h.MatchOrders.Handle(ctx.Request().Context(), commands.NewMatchOrdersCommand())
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]servers.Assignment, len(results))
	for i, r := range results {
		response[i] = servers.Assignment{
			OrderId:    r.OrderID.Bytes(),
			DriverId:   r.DriverID.Bytes(),
			DistanceKm: r.DistanceKm,
			Score:      r.Score,
			AssignedAt: r.AssignedAt,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// RunReconciliation handles POST /api/v1/operator/reconcile.
func (s *Server) RunReconciliation(ctx echo.Context) error {
	cmd, err := commands.NewReconcileSettlementsCommand(s.sweep.BatchSize, s.sweep.Concurrency)
	if err != nil {
		return s.fail(ctx, err)
	}

	report, err := s.h.Reconcile.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	failed := make([]servers.SweepFailure, len(report.Failed))
	for i, f := range report.Failed {
		failed[i] = servers.SweepFailure{OrderId: f.OrderID.Bytes(), Error: f.Error}
	}
	return ctx.JSON(http.StatusOK, servers.SweepReport{
		Scanned:    report.Scanned,
		Settled:    report.Settled,
		Skipped:    report.Skipped,
		Failed:     failed,
		DurationMs: report.Duration.Milliseconds(),
	})
}

// GetReconciliationReport handles GET /api/v1/operator/reconciliation-report.
func (s *Server) GetReconciliationReport(ctx echo.Context, params servers.GetReconciliationReportParams) error {
	report, err := s.reconciliationReport(ctx, params.Limit)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toReportResponse(report))
}

// ExportReconciliationReport handles GET /api/v1/operator/reconciliation-report.xlsx.
func (s *Server) ExportReconciliationReport(ctx echo.Context, params servers.ExportReconciliationReportParams) error {
	report, err := s.reconciliationReport(ctx, params.Limit)
	if err != nil {
		return s.fail(ctx, err)
	}

	workbook, err := reconciliationWorkbook(report)
	if err != nil {
		return s.fail(ctx, err)
	}

	filename := "reconciliation_" + report.GeneratedAt.Format("20060102_150405") + ".xlsx"
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Blob(http.StatusOK, xlsxContentType, workbook)
}

// RebuildRegistry handles POST /api/v1/operator/registry/rebuild.
func (s *Server) RebuildRegistry(ctx echo.Context) error {
	report, err := s.h.RebuildRegistry.Handle(ctx.Request().Context(), commands.NewRebuildRegistryCommand())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, servers.RebuildReport{
		Enqueued:        report.Enqueued,
		Available:       report.Available,
		MadeUnavailable: report.MadeUnavailable,
	})
}

func (s *Server) reconciliationReport(ctx echo.Context, limit *int) (queries.ReconciliationReport, error) {
	query, err := queries.NewGetReconciliationReportQuery(valueOr(limit, 0))
	if err != nil {
		return queries.ReconciliationReport{}, err
	}
	return s.h.ReconciliationReport.Handle(ctx.Request().Context(), query)
}

func toReportResponse(r queries.ReconciliationReport) servers.ReconciliationReport {
	orders := func(in []queries.ReportOrder) []servers.ReportOrder {
		out := make([]servers.ReportOrder, len(in))
		for i, o := range in {
			out[i] = servers.ReportOrder{
				OrderId:        o.OrderID.Bytes(),
				Status:         o.Status,
				DriverId:       optionalID(o.DriverID),
				FinalTotal:     o.FinalTotal.Int64(),
				CompletedLegs:  o.CompletedLegs,
				IntegrityError: optionalString(o.IntegrityError),
				NeedsReview:    o.NeedsReview,
				DeliveredAt:    o.DeliveredAt,
				CreatedAt:      o.CreatedAt,
			}
		}
		return out
	}

	imbalances := make([]servers.LedgerImbalance, len(r.LedgerImbalances))
	for i, im := range r.LedgerImbalances {
		imbalances[i] = servers.LedgerImbalance{
			OrderId:   im.OrderID.Bytes(),
			Status:    im.Status,
			EscrowNet: im.EscrowNet.Int64(),
		}
	}

	return servers.ReconciliationReport{
		GeneratedAt:      r.GeneratedAt,
		Unsettled:        orders(r.Unsettled),
		NeedsReview:      orders(r.NeedsReview),
		IntegrityErrors:  orders(r.IntegrityErrors),
		LedgerImbalances: imbalances,
	}
}

// kernelID converts a bound uuid. The nil uuid becomes the zero kernel.UUID, which
// command constructors reject as a missing value.
func kernelID(id openapi_types.UUID) kernel.UUID {
	converted, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return kernel.UUID{}
	}
	return converted
}

func optionalID(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func valueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
