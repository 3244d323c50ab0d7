package http

import (
	"fmt"
	"time"

	"dispatch/internal/core/application/usecases/queries"

	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// defaultSheet is created by excelize.NewFile and renamed to the first section.
	defaultSheet = "Sheet1"
)

var reportOrderHeaders = []any{
	"Order", "Status", "Driver", "Final total", "Completed legs",
	"Integrity error", "Needs review", "Delivered at", "Created at",
}

// reconciliationWorkbook renders the report with one sheet per section.
func reconciliationWorkbook(report queries.ReconciliationReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sections := []struct {
		name   string
		orders []queries.ReportOrder
	}{
		{"Unsettled", report.Unsettled},
		{"Needs review", report.NeedsReview},
		{"Integrity errors", report.IntegrityErrors},
	}

	for n, section := range sections {
		var err error
		if n == 0 {
			err = f.SetSheetName(defaultSheet, section.name)
		} else {
			_, err = f.NewSheet(section.name)
		}
		if err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", section.name, err)
		}
		if err = writeRow(f, section.name, 1, reportOrderHeaders); err != nil {
			return nil, err
		}
		for i, o := range section.orders {
			if err = writeRow(f, section.name, i+2, reportOrderRow(o)); err != nil {
				return nil, err
			}
		}
	}

	const imbalanceSheet = "Ledger imbalances"
	if _, err := f.NewSheet(imbalanceSheet); err != nil {
		return nil, fmt.Errorf("create sheet %q: %w", imbalanceSheet, err)
	}
	if err := writeRow(f, imbalanceSheet, 1, []any{"Order", "Status", "Escrow net"}); err != nil {
		return nil, err
	}
	for i, im := range report.LedgerImbalances {
		if err := writeRow(f, imbalanceSheet, i+2, []any{im.OrderID.String(), im.Status, im.EscrowNet.Int64()}); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err = f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func reportOrderRow(o queries.ReportOrder) []any {
	driverID := ""
	if o.DriverID != nil {
		driverID = o.DriverID.String()
	}
	deliveredAt := ""
	if o.DeliveredAt != nil {
		deliveredAt = o.DeliveredAt.UTC().Format(time.RFC3339)
	}
	return []any{
		o.OrderID.String(),
		o.Status,
		driverID,
		o.FinalTotal.Int64(),
		o.CompletedLegs,
		o.IntegrityError,
		o.NeedsReview,
		deliveredAt,
		o.CreatedAt.UTC().Format(time.RFC3339),
	}
}
