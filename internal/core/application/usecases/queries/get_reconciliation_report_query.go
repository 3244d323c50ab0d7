package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const DefaultReportSectionLimit = 1000

var ErrGetReconciliationReportQueryIsNotConstructed = errors.New(
	"GetReconciliationReportQuery must be created via NewGetReconciliationReportQuery constructor",
)

// GetReconciliationReportQuery collects everything an operator must look at after a sweep:
// delivered orders still missing settlement legs, orders flagged for review, quarantined
// orders and finished orders whose escrow movements do not net to zero.
//
// Each section holds at most limit rows; 0 selects DefaultReportSectionLimit.
type GetReconciliationReportQuery struct {
	limit int
	guard guard.ConstructorGuard
}

func NewGetReconciliationReportQuery(limit int) (GetReconciliationReportQuery, error) {
	if limit == 0 {
		limit = DefaultReportSectionLimit
	}
	if limit < 0 {
		return GetReconciliationReportQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	return GetReconciliationReportQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetReconciliationReportQuery) Validate() error {
	return q.guard.Validate(ErrGetReconciliationReportQueryIsNotConstructed)
}

func (q GetReconciliationReportQuery) Limit() int {
	return q.limit
}

// ReportOrder is one order row of the reconciliation report.
type ReportOrder struct {
	OrderID        kernel.UUID  `json:"orderId"`
	Status         string       `json:"status"`
	DriverID       *kernel.UUID `json:"driverId,omitempty"`
	FinalTotal     kernel.Money `json:"finalTotal"`
	CompletedLegs  int          `json:"completedLegs"`
	IntegrityError string       `json:"integrityError,omitempty"`
	NeedsReview    bool         `json:"needsReview"`
	DeliveredAt    *time.Time   `json:"deliveredAt,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// LedgerImbalance is a finished order whose escrow movements leave money behind
// (positive) or took out more than was captured (negative).
type LedgerImbalance struct {
	OrderID   kernel.UUID  `json:"orderId"`
	Status    string       `json:"status"`
	EscrowNet kernel.Money `json:"escrowNet"`
}

type ReconciliationReport struct {
	GeneratedAt      time.Time         `json:"generatedAt"`
	Unsettled        []ReportOrder     `json:"unsettled"`
	NeedsReview      []ReportOrder     `json:"needsReview"`
	IntegrityErrors  []ReportOrder     `json:"integrityErrors"`
	LedgerImbalances []LedgerImbalance `json:"ledgerImbalances"`
}
