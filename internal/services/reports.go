package services

import (
	"fmt"
	"io"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/models"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the merged invoice workbook.
const (
	SheetInvoices     = "Invoices"
	SheetDownPayments = "Down Payments"
)

var mergedInvoiceHeader = []string{
	"No. Invoice", "Job Order", "Customer", "Tanggal", "Jatuh Tempo",
	"Reimbursement", "Invoice", "Total", "DP", "Sisa", "Status",
}

// WriteMergedInvoicesXLSX writes the merged invoice view as a workbook with
// one row per invoice number and one row per down payment.
func WriteMergedInvoicesXLSX(w io.Writer, entries []MergedInvoice) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetInvoices); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetDownPayments); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return err
	}

	if err := writeRow(f, SheetInvoices, 1, toAny(mergedInvoiceHeader)); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetInvoices, 1, 1, bold); err != nil {
		return err
	}
	for i, e := range entries {
		row := []any{
			e.InvoiceNumber, e.JobOrderNumber, e.CustomerName,
			models.FormatDate(e.InvoiceDate), models.FormatDate(e.DueDate),
			e.ReimbursementTotal.InexactFloat64(), e.InvoiceTotal.InexactFloat64(),
			e.CombinedTotal.InexactFloat64(), e.DownPaymentTotal.InexactFloat64(),
			e.RemainingAmount.InexactFloat64(), e.Status,
		}
		if err := writeRow(f, SheetInvoices, i+2, row); err != nil {
			return err
		}
	}
	if len(entries) > 0 {
		if err := f.SetCellStyle(SheetInvoices, "F2", fmt.Sprintf("J%d", len(entries)+1), money); err != nil {
			return err
		}
	}

	if err := writeRow(f, SheetDownPayments, 1, []any{"No. Invoice", "Keterangan", "Tanggal", "Jumlah"}); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetDownPayments, 1, 1, bold); err != nil {
		return err
	}
	r := 2
	for _, e := range entries {
		for _, dp := range e.DPItems {
			if err := writeRow(f, SheetDownPayments, r, []any{e.InvoiceNumber, dp.Label, dp.Date, dp.Amount.InexactFloat64()}); err != nil {
				return err
			}
			r++
		}
	}
	if r > 2 {
		if err := f.SetCellStyle(SheetDownPayments, "D2", fmt.Sprintf("D%d", r-1), money); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
