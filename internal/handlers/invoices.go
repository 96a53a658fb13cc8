package handlers

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/httpx"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/services"
)

// MergedInvoiceHandler serves the per-number view across the primary and
// reimbursement invoice tables.
type MergedInvoiceHandler struct {
	merged *services.MergedInvoices
}

func NewMergedInvoiceHandler(merged *services.MergedInvoices) *MergedInvoiceHandler {
	return &MergedInvoiceHandler{merged: merged}
}

// List accepts an optional q filter on number, customer and job order.
func (h *MergedInvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.merged.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	if q == "" {
		httpx.JSON(w, http.StatusOK, all)
		return
	}
	out := make([]services.MergedInvoice, 0)
	for _, e := range all {
		hay := strings.ToLower(e.InvoiceNumber + " " + e.CustomerName + " " + e.JobOrderNumber)
		if strings.Contains(hay, q) {
			out = append(out, e)
		}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *MergedInvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.merged.Get(r.Context(), r.PathValue("number"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

func (h *MergedInvoiceHandler) Items(w http.ResponseWriter, r *http.Request) {
	e, err := h.merged.Get(r.Context(), r.PathValue("number"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.merged.DetailedItems(r.Context(), e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

// ExportXLSX downloads the merged invoice workbook.
func (h *MergedInvoiceHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	all, err := h.merged.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := services.WriteMergedInvoicesXLSX(&buf, all); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="merged-invoices-`+time.Now().Format("20060102")+`.xlsx"`)
	_, _ = buf.WriteTo(w)
}
