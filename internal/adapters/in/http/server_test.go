package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dispatch/api"
	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/wallet"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/generated/servers"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testSecret = []byte("test-secret")

type mockCapturer struct{ mock.Mock }

func (m *mockCapturer) Handle(ctx context.Context, cmd commands.CaptureOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type mockPicker struct{ mock.Mock }

func (m *mockPicker) Handle(ctx context.Context, cmd commands.PickUpOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type mockSettler struct{ mock.Mock }

func (m *mockSettler) Handle(ctx context.Context, cmd commands.SettleOrderCommand) (commands.SettlementResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.SettlementResult), args.Error(1)
}

type mockDispatcher struct{ mock.Mock }

func (m *mockDispatcher) Handle(ctx context.Context, cmd commands.MatchOrdersCommand) ([]ports.AssignmentResult, error) {
	args := m.Called(ctx, cmd)
	results, _ := args.Get(0).([]ports.AssignmentResult)
	return results, args.Error(1)
}

type mockBalance struct{ mock.Mock }

func (m *mockBalance) Handle(ctx context.Context, query queries.GetWalletBalanceQuery) (queries.WalletBalanceResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.WalletBalanceResponse), args.Error(1)
}

type mockReport struct{ mock.Mock }

func (m *mockReport) Handle(ctx context.Context, query queries.GetReconciliationReportQuery) (queries.ReconciliationReport, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.ReconciliationReport), args.Error(1)
}

func newTestRouter(t *testing.T, h httpin.Handlers) *echo.Echo {
	t.Helper()

	doc, err := api.Load()
	require.NoError(t, err)

	server := httpin.NewServer(h, httpin.SweepSettings{}, logger.NewNop())
	e, err := httpin.NewRouter(server, httpin.RouterConfig{Doc: doc, JWTSecret: testSecret, Logger: logger.NewNop()})
	require.NoError(t, err)
	return e
}

func serve(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := httpin.NewOperatorToken(testSecret, "operator-1", httpin.RoleAdmin, time.Minute)
	require.NoError(t, err)
	return token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) servers.Error {
	t.Helper()
	var body servers.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	e := newTestRouter(t, httpin.Handlers{})

	rec := serve(e, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestCaptureOrder(t *testing.T) {
	capturer := new(mockCapturer)
	e := newTestRouter(t, httpin.Handlers{CaptureOrder: capturer})

	orderID := kernel.NewUUID()
	capturer.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CaptureOrderCommand) bool {
		return cmd.OrderID().IsEqual(orderID)
	})).Return(nil).Once()

	body := `{
		"orderId": "` + orderID.String() + `",
		"restaurantId": "` + kernel.NewUUID().String() + `",
		"customerId": "` + kernel.NewUUID().String() + `",
		"restaurantLocation": {"lat": 41.31, "lng": 69.28},
		"deliveryLocation": {"lat": 41.33, "lng": 69.25},
		"subtotal": 50000,
		"deliveryFee": 15000,
		"platformFeeRate": 10
	}`
	rec := serve(e, http.MethodPost, "/api/v1/orders", body, "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	capturer.AssertExpectations(t)
}

func TestCaptureOrder_RejectedByContract(t *testing.T) {
	capturer := new(mockCapturer)
	e := newTestRouter(t, httpin.Handlers{CaptureOrder: capturer})

	body := `{"orderId": "` + kernel.NewUUID().String() + `", "subtotal": 100}`
	rec := serve(e, http.MethodPost, "/api/v1/orders", body, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, int32(http.StatusBadRequest), decodeError(t, rec).Code)
	capturer.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestPickUpOrder_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", errs.NewObjectNotFoundError("orderId", "x"), http.StatusNotFound},
		{"invalid transition", errs.NewInvalidTransition("order", "pending", "pick up"), http.StatusConflict},
		{"lost race", errs.NewConcurrencyConflict("order changed"), http.StatusConflict},
		{"integrity", errs.NewDataIntegrityError("order", "x", "broken"), http.StatusUnprocessableEntity},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			picker := new(mockPicker)
			picker.On("Handle", mock.Anything, mock.Anything).Return(tt.err).Once()
			e := newTestRouter(t, httpin.Handlers{PickUpOrder: picker})

			rec := serve(e, http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/pickup", "", "")

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, int32(tt.code), decodeError(t, rec).Code)
		})
	}
}

func TestPickUpOrder_InvalidPathParameter(t *testing.T) {
	picker := new(mockPicker)
	e := newTestRouter(t, httpin.Handlers{PickUpOrder: picker})

	rec := serve(e, http.MethodPost, "/api/v1/orders/not-a-uuid/pickup", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	picker.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestSettleOrder(t *testing.T) {
	settler := new(mockSettler)
	e := newTestRouter(t, httpin.Handlers{SettleOrder: settler})

	orderID := kernel.NewUUID()
	settler.On("Handle", mock.Anything, mock.Anything).Return(commands.SettlementResult{
		OrderID: orderID,
		Status:  commands.SettlementApplied,
		Split: services.Split{
			PlatformFee:       5000,
			DriverCommission:  4500,
			RestaurantRevenue: 45000,
			DriverPayment:     10500,
		},
		Applied: wallet.SettlementTypes,
	}, nil).Once()

	rec := serve(e, http.MethodPost, "/api/v1/orders/"+orderID.String()+"/settle", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body servers.Settlement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, servers.SettlementStatusSettled, body.Status)
	assert.Equal(t, orderID.String(), body.OrderId.String())
	assert.Equal(t, int64(45000), body.RestaurantRevenue)
	assert.Equal(t, int64(10500), body.DriverPayment)
	assert.Len(t, body.Applied, 4)
}

func TestGetWalletBalance_SystemWallet(t *testing.T) {
	balances := new(mockBalance)
	e := newTestRouter(t, httpin.Handlers{WalletBalance: balances})

	balances.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetWalletBalanceQuery) bool {
		return q.Owner().IsSystem()
	})).Return(queries.WalletBalanceResponse{
		WalletID:       kernel.NewUUID(),
		OwnerType:      string(wallet.OwnerAdmin),
		IsSystemWallet: true,
		EscrowBalance:  65000,
		UpdatedAt:      time.Now(),
	}, nil).Once()

	rec := serve(e, http.MethodGet, "/api/v1/wallets/admin/system", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body servers.WalletBalance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.IsSystemWallet)
	assert.Nil(t, body.OwnerId)
	assert.Equal(t, int64(65000), body.EscrowBalance)
}

func TestGetWalletBalance_UnknownOwnerType(t *testing.T) {
	balances := new(mockBalance)
	e := newTestRouter(t, httpin.Handlers{WalletBalance: balances})

	rec := serve(e, http.MethodGet, "/api/v1/wallets/customer/"+kernel.NewUUID().String(), "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	balances.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestOperatorEndpoints_RequireAdminToken(t *testing.T) {
	dispatcher := new(mockDispatcher)
	e := newTestRouter(t, httpin.Handlers{MatchOrders: dispatcher})

	rec := serve(e, http.MethodPost, "/api/v1/operator/dispatch", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(e, http.MethodPost, "/api/v1/operator/dispatch", "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	driverToken, err := httpin.NewOperatorToken(testSecret, "driver-1", "DRIVER", time.Minute)
	require.NoError(t, err)
	rec = serve(e, http.MethodPost, "/api/v1/operator/dispatch", "", driverToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	foreign, err := httpin.NewOperatorToken([]byte("other-secret"), "operator-1", httpin.RoleAdmin, time.Minute)
	require.NoError(t, err)
	rec = serve(e, http.MethodPost, "/api/v1/operator/dispatch", "", foreign)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	dispatcher.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestRunDispatch(t *testing.T) {
	dispatcher := new(mockDispatcher)
	e := newTestRouter(t, httpin.Handlers{MatchOrders: dispatcher})

	result := ports.AssignmentResult{
		OrderID:    kernel.NewUUID(),
		DriverID:   kernel.NewUUID(),
		DistanceKm: 1.2,
		Score:      0.8,
		AssignedAt: time.Now().UTC(),
	}
	dispatcher.On("Handle", mock.Anything, mock.Anything).Return([]ports.AssignmentResult{result}, nil).Once()

	rec := serve(e, http.MethodPost, "/api/v1/operator/dispatch", "", adminToken(t))

	require.Equal(t, http.StatusOK, rec.Code)
	var body []servers.Assignment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, result.DriverID.String(), body[0].DriverId.String())
}

func TestExportReconciliationReport(t *testing.T) {
	reports := new(mockReport)
	e := newTestRouter(t, httpin.Handlers{ReconciliationReport: reports})

	unsettled := kernel.NewUUID()
	reports.On("Handle", mock.Anything, mock.Anything).Return(queries.ReconciliationReport{
		GeneratedAt: time.Now().UTC(),
		Unsettled: []queries.ReportOrder{{
			OrderID:    unsettled,
			Status:     "delivered",
			FinalTotal: 65000,
			CreatedAt:  time.Now().UTC(),
		}},
		LedgerImbalances: []queries.LedgerImbalance{{OrderID: kernel.NewUUID(), Status: "cancelled", EscrowNet: 100}},
	}, nil).Once()

	rec := serve(e, http.MethodGet, "/api/v1/operator/reconciliation-report.xlsx?limit=10", "", adminToken(t))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Unsettled", "Needs review", "Integrity errors", "Ledger imbalances"}, f.GetSheetList())
	rows, err := f.GetRows("Unsettled")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Order", rows[0][0])
	assert.Equal(t, unsettled.String(), rows[1][0])
}

func TestGetReconciliationReport_LimitOutOfContract(t *testing.T) {
	reports := new(mockReport)
	e := newTestRouter(t, httpin.Handlers{ReconciliationReport: reports})

	rec := serve(e, http.MethodGet, "/api/v1/operator/reconciliation-report?limit=0", "", adminToken(t))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	reports.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestSwaggerDocument(t *testing.T) {
	e := newTestRouter(t, httpin.Handlers{})

	rec := serve(e, http.MethodGet, "/swagger/doc.json", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/orders")
}
