package bill

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"Bill Date",
	"Provider",
	"Type",
	"Amount (EUR)",
	"Due Date",
	"Invoice Number",
	"Reference",
	"Account",
}

// FormatEuros renders an integer cent amount as a decimal euro string.
func FormatEuros(cents int) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// FilterByMonth keeps bills whose bill date falls in the YYYY-MM month.
// An empty month returns the input unchanged.
func FilterByMonth(bills []*Bill, month string) []*Bill {
	if month == "" {
		return bills
	}
	out := make([]*Bill, 0, len(bills))
	for _, b := range bills {
		if strings.HasPrefix(b.BillDate, month) {
			out = append(out, b)
		}
	}
	return out
}

// ExportCSV renders bills as a CSV document for the history view's export.
func ExportCSV(bills []*Bill) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, b := range bills {
		row := []string{
			b.BillDate,
			b.Provider,
			string(b.Type),
			FormatEuros(b.AmountCents),
			b.DueDate,
			b.InvoiceNumber,
			b.Reference,
			b.Account,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportXLSX renders bills as an XLSX workbook.
func ExportXLSX(bills []*Bill) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Bills"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for row, b := range bills {
		values := []any{
			b.BillDate,
			b.Provider,
			string(b.Type),
			FormatEuros(b.AmountCents),
			b.DueDate,
			b.InvoiceNumber,
			b.Reference,
			b.Account,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("writing cell: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
