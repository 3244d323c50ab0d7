// Package servers binds api/openapi.yaml to echo: request and response models,
// ServerInterface and the route wrapper that decodes path and query parameters.
//
// The layout follows oapi-codegen's echo-server output but the file is maintained by hand.
// Change it together with openapi.yaml; contract_test.go fails when the two drift apart.
package servers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

const (
	BearerAuthScopes = "bearerAuth.Scopes"
)

// Defines values for OwnerType.
const (
	OwnerTypeAdmin      OwnerType = "admin"
	OwnerTypeDriver     OwnerType = "driver"
	OwnerTypeRestaurant OwnerType = "restaurant"
)

// Defines values for SettlementStatus.
const (
	SettlementStatusSettled SettlementStatus = "settled"
	SettlementStatusSkipped SettlementStatus = "skipped"
)

// Assignment defines model for Assignment.
type Assignment struct {
	AssignedAt time.Time          `json:"assignedAt"`
	DistanceKm float64            `json:"distanceKm"`
	DriverId   openapi_types.UUID `json:"driverId"`
	OrderId    openapi_types.UUID `json:"orderId"`
	Score      float64            `json:"score"`
}

// DriverRef defines model for DriverRef.
type DriverRef struct {
	Id openapi_types.UUID `json:"id"`
}

// Error defines model for Error.
type Error struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

// GeoPoint defines model for GeoPoint.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LedgerImbalance defines model for LedgerImbalance.
type LedgerImbalance struct {
	EscrowNet int64              `json:"escrowNet"`
	OrderId   openapi_types.UUID `json:"orderId"`
	Status    string             `json:"status"`
}

// LocationUpdate defines model for LocationUpdate.
type LocationUpdate struct {
	At  *time.Time `json:"at,omitempty"`
	Lat float64    `json:"lat"`
	Lng float64    `json:"lng"`
}

// NewDriver defines model for NewDriver.
type NewDriver struct {
	DriverId            *openapi_types.UUID `json:"driverId,omitempty"`
	MaxConcurrentOrders *int                `json:"maxConcurrentOrders,omitempty"`
	Rating              float64             `json:"rating"`
	UserId              openapi_types.UUID  `json:"userId"`
}

// NewOrder defines model for NewOrder.
type NewOrder struct {
	CustomerId       openapi_types.UUID `json:"customerId"`
	DeliveryFee      *int64             `json:"deliveryFee,omitempty"`
	DeliveryLocation GeoPoint           `json:"deliveryLocation"`
	DoorFee          *int64             `json:"doorFee,omitempty"`

	// DriverCommissionRate Percent of the delivery fee kept by the platform.
	DriverCommissionRate *float64           `json:"driverCommissionRate,omitempty"`
	OrderId              openapi_types.UUID `json:"orderId"`

	// PlatformFeeRate Percent of the subtotal kept by the platform.
	PlatformFeeRate    *float64           `json:"platformFeeRate,omitempty"`
	RestaurantId       openapi_types.UUID `json:"restaurantId"`
	RestaurantLocation GeoPoint           `json:"restaurantLocation"`
	Subtotal           int64              `json:"subtotal"`
	Tip                *int64             `json:"tip,omitempty"`
}

// PendingOrder defines model for PendingOrder.
type PendingOrder struct {
	CreatedAt      time.Time          `json:"createdAt"`
	CustomerId     openapi_types.UUID `json:"customerId"`
	FinalTotal     int64              `json:"finalTotal"`
	Id             openapi_types.UUID `json:"id"`
	IntegrityError *string            `json:"integrityError,omitempty"`
	RestaurantId   openapi_types.UUID `json:"restaurantId"`
}

// RebuildReport defines model for RebuildReport.
type RebuildReport struct {
	Available       int `json:"available"`
	Enqueued        int `json:"enqueued"`
	MadeUnavailable int `json:"madeUnavailable"`
}

// ReconciliationReport defines model for ReconciliationReport.
type ReconciliationReport struct {
	GeneratedAt      time.Time         `json:"generatedAt"`
	IntegrityErrors  []ReportOrder     `json:"integrityErrors"`
	LedgerImbalances []LedgerImbalance `json:"ledgerImbalances"`
	NeedsReview      []ReportOrder     `json:"needsReview"`
	Unsettled        []ReportOrder     `json:"unsettled"`
}

// ReportOrder defines model for ReportOrder.
type ReportOrder struct {
	CompletedLegs  int                 `json:"completedLegs"`
	CreatedAt      time.Time           `json:"createdAt"`
	DeliveredAt    *time.Time          `json:"deliveredAt,omitempty"`
	DriverId       *openapi_types.UUID `json:"driverId,omitempty"`
	FinalTotal     int64               `json:"finalTotal"`
	IntegrityError *string             `json:"integrityError,omitempty"`
	NeedsReview    bool                `json:"needsReview"`
	OrderId        openapi_types.UUID  `json:"orderId"`
	Status         string              `json:"status"`
}

// Settlement defines model for Settlement.
type Settlement struct {
	Applied           []string           `json:"applied"`
	DriverCommission  int64              `json:"driverCommission"`
	DriverPayment     int64              `json:"driverPayment"`
	OrderId           openapi_types.UUID `json:"orderId"`
	PlatformFee       int64              `json:"platformFee"`
	RestaurantRevenue int64              `json:"restaurantRevenue"`
	Status            SettlementStatus   `json:"status"`
}

// SettlementStatus defines model for Settlement.Status.
type SettlementStatus string

// SweepFailure defines model for SweepFailure.
type SweepFailure struct {
	Error   string             `json:"error"`
	OrderId openapi_types.UUID `json:"orderId"`
}

// SweepReport defines model for SweepReport.
type SweepReport struct {
	DurationMs int64          `json:"durationMs"`
	Failed     []SweepFailure `json:"failed"`
	Scanned    int            `json:"scanned"`
	Settled    int            `json:"settled"`
	Skipped    int            `json:"skipped"`
}

// WalletBalance defines model for WalletBalance.
type WalletBalance struct {
	Balance        int64               `json:"balance"`
	EscrowBalance  int64               `json:"escrowBalance"`
	IsSystemWallet bool                `json:"isSystemWallet"`
	OwnerId        *openapi_types.UUID `json:"ownerId,omitempty"`
	OwnerType      string              `json:"ownerType"`
	PendingBalance int64               `json:"pendingBalance"`
	UpdatedAt      time.Time           `json:"updatedAt"`
	WalletId       openapi_types.UUID  `json:"walletId"`
}

// WalletTransaction defines model for WalletTransaction.
type WalletTransaction struct {
	Amount      int64               `json:"amount"`
	CreatedAt   time.Time           `json:"createdAt"`
	Description string              `json:"description"`
	Id          openapi_types.UUID  `json:"id"`
	OrderId     *openapi_types.UUID `json:"orderId,omitempty"`
	Status      string              `json:"status"`
	Type        string              `json:"type"`
}

// DriverId defines model for DriverId.
type DriverId = openapi_types.UUID

// Limit defines model for Limit.
type Limit = int

// OrderId defines model for OrderId.
type OrderId = openapi_types.UUID

// OwnerId defines model for OwnerId.
type OwnerId = string

// OwnerType defines model for OwnerType.
type OwnerType string

// GetReconciliationReportParams defines parameters for GetReconciliationReport.
type GetReconciliationReportParams struct {
	Limit *Limit `form:"limit,omitempty" json:"limit,omitempty"`
}

// ExportReconciliationReportParams defines parameters for ExportReconciliationReport.
type ExportReconciliationReportParams struct {
	Limit *Limit `form:"limit,omitempty" json:"limit,omitempty"`
}

// GetWalletTransactionsParams defines parameters for GetWalletTransactions.
type GetWalletTransactionsParams struct {
	Limit *Limit `form:"limit,omitempty" json:"limit,omitempty"`
}

// RegisterDriverJSONRequestBody defines body for RegisterDriver for application/json ContentType.
type RegisterDriverJSONRequestBody = NewDriver

// UpdateDriverLocationJSONRequestBody defines body for UpdateDriverLocation for application/json ContentType.
type UpdateDriverLocationJSONRequestBody = LocationUpdate

// CaptureOrderJSONRequestBody defines body for CaptureOrder for application/json ContentType.
type CaptureOrderJSONRequestBody = NewOrder

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Register a driver
	// (POST /api/v1/drivers)
	RegisterDriver(ctx echo.Context) error
	// Start a shift
	// (POST /api/v1/drivers/{driverId}/checkin)
	CheckInDriver(ctx echo.Context, driverId DriverId) error
	// End a shift
	// (POST /api/v1/drivers/{driverId}/checkout)
	CheckOutDriver(ctx echo.Context, driverId DriverId) error
	// Report the driver's position
	// (PUT /api/v1/drivers/{driverId}/location)
	UpdateDriverLocation(ctx echo.Context, driverId DriverId) error
	// Run a matching pass now
	// (POST /api/v1/operator/dispatch)
	RunDispatch(ctx echo.Context) error
	// Run a reconciliation sweep now
	// (POST /api/v1/operator/reconcile)
	RunReconciliation(ctx echo.Context) error
	// Orders and ledgers needing attention
	// (GET /api/v1/operator/reconciliation-report)
	GetReconciliationReport(ctx echo.Context, params GetReconciliationReportParams) error
	// Reconciliation report as a spreadsheet
	// (GET /api/v1/operator/reconciliation-report.xlsx)
	ExportReconciliationReport(ctx echo.Context, params ExportReconciliationReportParams) error
	// Rebuild the live registry from durable state
	// (POST /api/v1/operator/registry/rebuild)
	RebuildRegistry(ctx echo.Context) error
	// Accept a captured order
	// (POST /api/v1/orders)
	CaptureOrder(ctx echo.Context) error
	// List orders waiting for a driver
	// (GET /api/v1/orders/pending)
	GetPendingOrders(ctx echo.Context) error
	// Cancel an order and refund its escrow
	// (POST /api/v1/orders/{orderId}/cancel)
	CancelOrder(ctx echo.Context, orderId OrderId) error
	// Order handed to the customer
	// (POST /api/v1/orders/{orderId}/deliver)
	DeliverOrder(ctx echo.Context, orderId OrderId) error
	// Driver picked the order up
	// (POST /api/v1/orders/{orderId}/pickup)
	PickUpOrder(ctx echo.Context, orderId OrderId) error
	// Settle a delivered order
	// (POST /api/v1/orders/{orderId}/settle)
	SettleOrder(ctx echo.Context, orderId OrderId) error
	// Wallet balances
	// (GET /api/v1/wallets/{ownerType}/{ownerId})
	GetWalletBalance(ctx echo.Context, ownerType OwnerType, ownerId OwnerId) error
	// Latest wallet transactions
	// (GET /api/v1/wallets/{ownerType}/{ownerId}/transactions)
	GetWalletTransactions(ctx echo.Context, ownerType OwnerType, ownerId OwnerId, params GetWalletTransactionsParams) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// RegisterDriver converts echo context to params.
func (w *ServerInterfaceWrapper) RegisterDriver(ctx echo.Context) error {
	var err error

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.RegisterDriver(ctx)
	return err
}

// CheckInDriver converts echo context to params.
func (w *ServerInterfaceWrapper) CheckInDriver(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "driverId" -------------
	var driverId DriverId

	err = runtime.BindStyledParameterWithOptions("simple", "driverId", ctx.Param("driverId"), &driverId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter driverId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.CheckInDriver(ctx, driverId)
	return err
}

// CheckOutDriver converts echo context to params.
func (w *ServerInterfaceWrapper) CheckOutDriver(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "driverId" -------------
	var driverId DriverId

	err = runtime.BindStyledParameterWithOptions("simple", "driverId", ctx.Param("driverId"), &driverId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter driverId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.CheckOutDriver(ctx, driverId)
	return err
}

// UpdateDriverLocation converts echo context to params.
func (w *ServerInterfaceWrapper) UpdateDriverLocation(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "driverId" -------------
	var driverId DriverId

	err = runtime.BindStyledParameterWithOptions("simple", "driverId", ctx.Param("driverId"), &driverId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter driverId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.UpdateDriverLocation(ctx, driverId)
	return err
}

// RunDispatch converts echo context to params.
func (w *ServerInterfaceWrapper) RunDispatch(ctx echo.Context) error {
	var err error

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.RunDispatch(ctx)
	return err
}

// RunReconciliation converts echo context to params.
func (w *ServerInterfaceWrapper) RunReconciliation(ctx echo.Context) error {
	var err error

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.RunReconciliation(ctx)
	return err
}

// GetReconciliationReport converts echo context to params.
func (w *ServerInterfaceWrapper) GetReconciliationReport(ctx echo.Context) error {
	var err error

	ctx.Set(BearerAuthScopes, []string{})

	// Parameter object where we will unmarshal all parameters from the context
	var params GetReconciliationReportParams
	// ------------- Optional query parameter "limit" -------------

	err = runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.GetReconciliationReport(ctx, params)
	return err
}

// ExportReconciliationReport converts echo context to params.
func (w *ServerInterfaceWrapper) ExportReconciliationReport(ctx echo.Context) error {
	var err error

	ctx.Set(BearerAuthScopes, []string{})

	// Parameter object where we will unmarshal all parameters from the context
	var params ExportReconciliationReportParams
	// ------------- Optional query parameter "limit" -------------

	err = runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.ExportReconciliationReport(ctx, params)
	return err
}

// RebuildRegistry converts echo context to params.
func (w *ServerInterfaceWrapper) RebuildRegistry(ctx echo.Context) error {
	var err error

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.RebuildRegistry(ctx)
	return err
}

// CaptureOrder converts echo context to params.
func (w *ServerInterfaceWrapper) CaptureOrder(ctx echo.Context) error {
	var err error

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.CaptureOrder(ctx)
	return err
}

// GetPendingOrders converts echo context to params.
func (w *ServerInterfaceWrapper) GetPendingOrders(ctx echo.Context) error {
	var err error

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.GetPendingOrders(ctx)
	return err
}

// CancelOrder converts echo context to params.
func (w *ServerInterfaceWrapper) CancelOrder(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "orderId" -------------
	var orderId OrderId

	err = runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.CancelOrder(ctx, orderId)
	return err
}

// DeliverOrder converts echo context to params.
func (w *ServerInterfaceWrapper) DeliverOrder(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "orderId" -------------
	var orderId OrderId

	err = runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.DeliverOrder(ctx, orderId)
	return err
}

// PickUpOrder converts echo context to params.
func (w *ServerInterfaceWrapper) PickUpOrder(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "orderId" -------------
	var orderId OrderId

	err = runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.PickUpOrder(ctx, orderId)
	return err
}

// SettleOrder converts echo context to params.
func (w *ServerInterfaceWrapper) SettleOrder(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "orderId" -------------
	var orderId OrderId

	err = runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.SettleOrder(ctx, orderId)
	return err
}

// GetWalletBalance converts echo context to params.
func (w *ServerInterfaceWrapper) GetWalletBalance(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "ownerType" -------------
	var ownerType OwnerType

	err = runtime.BindStyledParameterWithOptions("simple", "ownerType", ctx.Param("ownerType"), &ownerType, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter ownerType: %s", err))
	}

	// ------------- Path parameter "ownerId" -------------
	var ownerId OwnerId

	err = runtime.BindStyledParameterWithOptions("simple", "ownerId", ctx.Param("ownerId"), &ownerId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter ownerId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.GetWalletBalance(ctx, ownerType, ownerId)
	return err
}

// GetWalletTransactions converts echo context to params.
func (w *ServerInterfaceWrapper) GetWalletTransactions(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "ownerType" -------------
	var ownerType OwnerType

	err = runtime.BindStyledParameterWithOptions("simple", "ownerType", ctx.Param("ownerType"), &ownerType, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter ownerType: %s", err))
	}

	// ------------- Path parameter "ownerId" -------------
	var ownerId OwnerId

	err = runtime.BindStyledParameterWithOptions("simple", "ownerId", ctx.Param("ownerId"), &ownerId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter ownerId: %s", err))
	}

	// Parameter object where we will unmarshal all parameters from the context
	var params GetWalletTransactionsParams
	// ------------- Optional query parameter "limit" -------------

	err = runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.GetWalletTransactions(ctx, ownerType, ownerId, params)
	return err
}

// This is a simple interface which specifies echo.Route addition functions which
// are present on both echo.Echo and echo.Group, since we want to allow using
// either of them for path registration
type EchoRouter interface {
	CONNECT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	HEAD(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	OPTIONS(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	TRACE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// Registers handlers, and prepends BaseURL to the paths, so that the paths
// can be served under a prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {

	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.POST(baseURL+"/api/v1/drivers", wrapper.RegisterDriver)
	router.POST(baseURL+"/api/v1/drivers/:driverId/checkin", wrapper.CheckInDriver)
	router.POST(baseURL+"/api/v1/drivers/:driverId/checkout", wrapper.CheckOutDriver)
	router.PUT(baseURL+"/api/v1/drivers/:driverId/location", wrapper.UpdateDriverLocation)
	router.POST(baseURL+"/api/v1/operator/dispatch", wrapper.RunDispatch)
	router.POST(baseURL+"/api/v1/operator/reconcile", wrapper.RunReconciliation)
	router.GET(baseURL+"/api/v1/operator/reconciliation-report", wrapper.GetReconciliationReport)
	router.GET(baseURL+"/api/v1/operator/reconciliation-report.xlsx", wrapper.ExportReconciliationReport)
	router.POST(baseURL+"/api/v1/operator/registry/rebuild", wrapper.RebuildRegistry)
	router.POST(baseURL+"/api/v1/orders", wrapper.CaptureOrder)
	router.GET(baseURL+"/api/v1/orders/pending", wrapper.GetPendingOrders)
	router.POST(baseURL+"/api/v1/orders/:orderId/cancel", wrapper.CancelOrder)
	router.POST(baseURL+"/api/v1/orders/:orderId/deliver", wrapper.DeliverOrder)
	router.POST(baseURL+"/api/v1/orders/:orderId/pickup", wrapper.PickUpOrder)
	router.POST(baseURL+"/api/v1/orders/:orderId/settle", wrapper.SettleOrder)
	router.GET(baseURL+"/api/v1/wallets/:ownerType/:ownerId", wrapper.GetWalletBalance)
	router.GET(baseURL+"/api/v1/wallets/:ownerType/:ownerId/transactions", wrapper.GetWalletTransactions)

}
