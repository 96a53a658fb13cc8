// Package documents builds the printable invoice and quotation documents as
// PDF (maroto) and HTML (view templates).
package documents

import (
	"io"
	"strings"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/models"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/services"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/view"
	"github.com/shopspring/decimal"
)

// Document titles. The title also prefixes the invoice PDF filename.
const (
	TitleInvoice       = "INVOICE"
	TitleReimbursement = "INVOICE REIMBURSEMENT"
	TitleFinal         = "FINAL INVOICE"
)

// Company is the letterhead.
type Company struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// Line is one priced row of a document.
type Line struct {
	Description string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// Invoice is the input of InvoicePDF and InvoiceHTML.
type Invoice struct {
	Company         Company
	Title           string
	Number          string
	JobOrderNumber  string
	CustomerName    string
	CustomerAddress string
	CustomerCity    string
	BLNumber        string
	ContainerNumber string
	VesselName      string
	InvoiceDate     string
	DueDate         string
	Items           []Line
	Subtotal        decimal.Decimal
	Total           decimal.Decimal
	DownPayments    []models.DPEntry
	Remaining       decimal.Decimal
	Notes           string
}

// AmountDue is what the customer still owes: the remaining amount when down
// payments exist, the total otherwise.
func (d *Invoice) AmountDue() decimal.Decimal {
	if len(d.DownPayments) > 0 {
		return d.Remaining
	}
	return d.Total
}

// Quotation is the input of QuotationPDF and QuotationHTML.
type Quotation struct {
	Company      Company
	Number       string
	CustomerName string
	Attention    string
	Origin       string
	Destination  string
	Date         string
	ValidUntil   string
	Items        []Line
	Subtotal     decimal.Decimal
	Terms        string
	Notes        string
}

func lineFrom(it models.LineItem) Line {
	return Line{
		Description: it.Description,
		Quantity:    it.Quantity,
		Unit:        it.Unit,
		UnitPrice:   it.UnitPrice,
		Amount:      it.Amount,
	}
}

// FromInvoiceFields builds a document from any of the invoice tables.
func FromInvoiceFields(co Company, title string, f *models.InvoiceFields, items []models.LineItem) *Invoice {
	dp := f.DownPayments()
	doc := &Invoice{
		Company:         co,
		Title:           title,
		Number:          f.InvoiceNumber,
		JobOrderNumber:  f.JobOrderNumber,
		CustomerName:    f.CustomerName,
		CustomerAddress: f.CustomerAddress,
		CustomerCity:    f.CustomerCity,
		BLNumber:        f.BLNumber,
		ContainerNumber: f.ContainerNumber,
		VesselName:      f.VesselName,
		InvoiceDate:     models.FormatDate(f.InvoiceDate),
		DueDate:         models.FormatDate(f.DueDate),
		Subtotal:        f.Subtotal,
		Total:           f.TotalAmount,
		DownPayments:    dp.Entries(),
		Remaining:       f.TotalAmount.Sub(dp.Total()),
		Notes:           f.Notes,
	}
	for _, it := range items {
		doc.Items = append(doc.Items, lineFrom(it))
	}
	return doc
}

func ForInvoice(co Company, inv *models.Invoice) *Invoice {
	items := make([]models.LineItem, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = it.LineItem
	}
	return FromInvoiceFields(co, TitleInvoice, &inv.InvoiceFields, items)
}

func ForReimbursement(co Company, inv *models.ReimbursementInvoice) *Invoice {
	items := make([]models.LineItem, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = it.LineItem
	}
	return FromInvoiceFields(co, TitleReimbursement, &inv.InvoiceFields, items)
}

func ForFinal(co Company, inv *models.FinalInvoice) *Invoice {
	items := make([]models.LineItem, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = it.LineItem
	}
	return FromInvoiceFields(co, TitleFinal, &inv.InvoiceFields, items)
}

// ForMerged builds the combined invoice of one invoice number. The subtotal
// and total are both the combined total of the two sides.
func ForMerged(co Company, e *services.MergedInvoice, items []services.DetailedItem) *Invoice {
	doc := &Invoice{
		Company:         co,
		Title:           TitleInvoice,
		Number:          e.InvoiceNumber,
		JobOrderNumber:  e.JobOrderNumber,
		CustomerName:    e.CustomerName,
		CustomerAddress: e.CustomerAddress,
		CustomerCity:    e.CustomerCity,
		BLNumber:        e.BLNumber,
		ContainerNumber: e.ContainerNumber,
		VesselName:      e.VesselName,
		InvoiceDate:     models.FormatDate(e.InvoiceDate),
		DueDate:         models.FormatDate(e.DueDate),
		Subtotal:        e.CombinedTotal,
		Total:           e.CombinedTotal,
		DownPayments:    e.DPItems,
		Remaining:       e.RemainingAmount,
	}
	for _, it := range items {
		doc.Items = append(doc.Items, Line{
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		})
	}
	return doc
}

func ForQuotation(co Company, q *models.Quotation) *Quotation {
	doc := &Quotation{
		Company:      co,
		Number:       q.QuotationNumber,
		CustomerName: q.CustomerName,
		Attention:    q.Attention,
		Origin:       q.Origin,
		Destination:  q.Destination,
		Date:         models.FormatDate(q.QuotationDate),
		ValidUntil:   models.FormatDate(q.ValidUntil),
		Subtotal:     q.Subtotal,
		Terms:        q.Terms,
		Notes:        q.Notes,
	}
	for _, it := range q.Items {
		doc.Items = append(doc.Items, lineFrom(it.LineItem))
	}
	return doc
}

// InvoiceFilename returns {TITLE}_{jobOrderNumber}.pdf with spaces turned
// into underscores. A missing job order number is left out.
func InvoiceFilename(title, jobOrderNumber string) string {
	return joinFilename(title, jobOrderNumber)
}

// QuotationFilename returns Penawaran_{number}_{customer}.pdf, leaving out
// whichever part is empty.
func QuotationFilename(number, customerName string) string {
	return joinFilename("Penawaran", number, customerName)
}

func joinFilename(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = filenamePart(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "_") + ".pdf"
}

var unsafeFilename = strings.NewReplacer("/", "-", "\\", "-", "\"", "", "\n", "", "\r", "")

func filenamePart(s string) string {
	return strings.Join(strings.Fields(unsafeFilename.Replace(s)), "_")
}

// InvoiceHTML renders the printable HTML preview of doc.
func InvoiceHTML(w io.Writer, lang string, doc *Invoice) error {
	return view.Render(w, lang, "invoice.html", doc)
}

// QuotationHTML renders the printable HTML preview of doc.
func QuotationHTML(w io.Writer, lang string, doc *Quotation) error {
	return view.Render(w, lang, "quotation.html", doc)
}
