package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/documents"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/services"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/view"
	"github.com/google/uuid"
)

// Document output formats.
const (
	FormatPDF  = "pdf"
	FormatHTML = "html"
)

// DocumentHandler renders invoices and quotations as PDF or HTML.
type DocumentHandler struct {
	reg     *services.Registry
	company documents.Company
}

func NewDocumentHandler(reg *services.Registry, company documents.Company) *DocumentHandler {
	return &DocumentHandler{reg: reg, company: company}
}

type invoiceLoader func(ctx context.Context, r *http.Request) (*documents.Invoice, error)

func (h *DocumentHandler) byID(load func(ctx context.Context, id uuid.UUID) (*documents.Invoice, error)) invoiceLoader {
	return func(ctx context.Context, r *http.Request) (*documents.Invoice, error) {
		id, err := pathID(r)
		if err != nil {
			return nil, err
		}
		return load(ctx, id)
	}
}

// Invoice serves a primary invoice.
func (h *DocumentHandler) Invoice(format string) http.HandlerFunc {
	return h.serveInvoice(format, h.byID(func(ctx context.Context, id uuid.UUID) (*documents.Invoice, error) {
		inv, err := h.reg.Invoices.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return documents.ForInvoice(h.company, inv), nil
	}))
}

func (h *DocumentHandler) Reimbursement(format string) http.HandlerFunc {
	return h.serveInvoice(format, h.byID(func(ctx context.Context, id uuid.UUID) (*documents.Invoice, error) {
		inv, err := h.reg.Reimbursements.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return documents.ForReimbursement(h.company, inv), nil
	}))
}

func (h *DocumentHandler) Final(format string) http.HandlerFunc {
	return h.serveInvoice(format, h.byID(func(ctx context.Context, id uuid.UUID) (*documents.Invoice, error) {
		inv, err := h.reg.FinalInvoices.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return documents.ForFinal(h.company, inv), nil
	}))
}

// Merged serves the combined invoice of the {number} path value.
func (h *DocumentHandler) Merged(format string) http.HandlerFunc {
	return h.serveInvoice(format, func(ctx context.Context, r *http.Request) (*documents.Invoice, error) {
		e, err := h.reg.MergedInvoices.Get(ctx, r.PathValue("number"))
		if err != nil {
			return nil, err
		}
		items, err := h.reg.MergedInvoices.DetailedItems(ctx, e)
		if err != nil {
			return nil, err
		}
		return documents.ForMerged(h.company, e, items), nil
	})
}

func (h *DocumentHandler) serveInvoice(format string, load invoiceLoader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := load(r.Context(), r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if format == FormatHTML {
			if err := view.RenderHTTP(w, r, "invoice.html", doc); err != nil {
				writeError(w, r, err)
			}
			return
		}
		pdf, err := documents.InvoicePDF(doc)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writePDF(w, documents.InvoiceFilename(doc.Title, doc.JobOrderNumber), pdf)
	}
}

// Quotation serves a quotation (penawaran).
func (h *DocumentHandler) Quotation(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		q, err := h.reg.Quotations.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		doc := documents.ForQuotation(h.company, q)
		if format == FormatHTML {
			if err := view.RenderHTTP(w, r, "quotation.html", doc); err != nil {
				writeError(w, r, err)
			}
			return
		}
		pdf, err := documents.QuotationPDF(doc)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writePDF(w, documents.QuotationFilename(doc.Number, doc.CustomerName), pdf)
	}
}

func writePDF(w http.ResponseWriter, filename string, pdf []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
