package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/documents"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/models"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/services"
	"github.com/shopspring/decimal"
)

func seedInvoices(t *testing.T, reg *services.Registry) *models.Invoice {
	t.Helper()
	ctx := context.Background()
	inv := &models.Invoice{
		InvoiceFields: models.InvoiceFields{
			InvoiceNumber:  "INV/2025/001",
			JobOrderNumber: "JO202501-1234",
			CustomerName:   "PT Sinar Samudra",
			InvoiceDate:    models.NewDate(2025, time.January, 10),
			DownPayment:    decimal.NewFromInt(200000),
		},
		Items: []models.InvoiceItem{{LineItem: models.LineItem{
			Description: "Trucking Priok - Cikarang",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromInt(1000000),
		}}},
	}
	if err := reg.Invoices.Create(ctx, inv); err != nil {
		t.Fatal(err)
	}
	r := &models.ReimbursementInvoice{InvoiceFields: models.InvoiceFields{
		InvoiceNumber: "INV/2025/001",
		TotalAmount:   decimal.NewFromInt(300000),
	}}
	if err := reg.Reimbursements.Create(ctx, r); err != nil {
		t.Fatal(err)
	}
	return inv
}

func invoiceMux(reg *services.Registry) http.Handler {
	h := NewMergedInvoiceHandler(reg.MergedInvoices)
	d := NewDocumentHandler(reg, documents.Company{Name: "PT Mulia Kasih Logistik"})
	mux := http.NewServeMux()
	mux.HandleFunc("GET /merged", h.List)
	mux.HandleFunc("GET /merged/{number}", h.Get)
	mux.HandleFunc("GET /merged/{number}/items", h.Items)
	mux.HandleFunc("GET /merged.xlsx", h.ExportXLSX)
	mux.HandleFunc("GET /merged/{number}/pdf", d.Merged(FormatPDF))
	mux.HandleFunc("GET /invoices/{id}/pdf", d.Invoice(FormatPDF))
	mux.HandleFunc("GET /invoices/{id}/html", d.Invoice(FormatHTML))
	return mux
}

func TestMergedInvoiceEndpoints(t *testing.T) {
	reg, _ := setupRegistry(t)
	seedInvoices(t, reg)
	mux := invoiceMux(reg)
	number := "INV%2F2025%2F001"

	var list []struct {
		InvoiceNumber string          `json:"invoice_number"`
		CombinedTotal decimal.Decimal `json:"combined_total"`
	}
	decodeBody(t, do(mux, http.MethodGet, "/merged?q=sinar", nil), &list)
	if len(list) != 1 || !list[0].CombinedTotal.Equal(decimal.NewFromInt(1100000)) {
		t.Fatalf("list = %+v", list)
	}
	decodeBody(t, do(mux, http.MethodGet, "/merged?q=nothing", nil), &list)
	if len(list) != 0 {
		t.Fatalf("filtered list = %+v", list)
	}

	if rec := do(mux, http.MethodGet, "/merged/"+number, nil); rec.Code != http.StatusOK {
		t.Fatalf("get: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(mux, http.MethodGet, "/merged/NOPE", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing: %d", rec.Code)
	}

	var items []services.DetailedItem
	decodeBody(t, do(mux, http.MethodGet, "/merged/"+number+"/items", nil), &items)
	if len(items) != 2 {
		t.Fatalf("items = %+v", items)
	}

	rec := do(mux, http.MethodGet, "/merged.xlsx", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Header().Get("Content-Disposition"), ".xlsx") {
		t.Fatalf("xlsx: %d %v", rec.Code, rec.Header())
	}
}

func TestInvoiceDocuments(t *testing.T) {
	reg, _ := setupRegistry(t)
	inv := seedInvoices(t, reg)
	mux := invoiceMux(reg)

	rec := do(mux, http.MethodGet, "/invoices/"+inv.ID.String()+"/pdf", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("pdf: %d %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "INVOICE_JO202501-1234.pdf") {
		t.Errorf("content disposition = %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("body is not a pdf")
	}

	rec = do(mux, http.MethodGet, "/invoices/"+inv.ID.String()+"/html", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Trucking Priok - Cikarang") {
		t.Fatalf("html: %d", rec.Code)
	}

	if rec = do(mux, http.MethodGet, "/merged/INV%2F2025%2F001/pdf", nil); rec.Code != http.StatusOK {
		t.Fatalf("merged pdf: %d %s", rec.Code, rec.Body.String())
	}
}
