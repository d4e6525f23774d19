package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// ledgerHeader is the column order of the CSV export.
var ledgerHeader = []string{
	"Date", "Description", "Total Amount", "Paid By", "Split Type",
	"Participant", "Share Amount", "Share Percentage",
}

// WriteLedgerCSV writes the full ledger as CSV, one row per split, newest
// expense first. Rows without a percentage carry an explicit N/A marker.
func (s *ExpenseService) WriteLedgerCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.ExportLedger(ctx)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(ledgerHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		percentage := "N/A"
		if row.SharePercentage.Valid {
			percentage = row.SharePercentage.Decimal.String()
		}
		record := []string{
			time.Unix(row.Date, 0).UTC().Format("2006-01-02 15:04"),
			row.Description,
			row.TotalAmount.String(),
			row.PaidBy,
			string(row.SplitType),
			row.Participant,
			row.ShareAmount.String(),
			percentage,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
