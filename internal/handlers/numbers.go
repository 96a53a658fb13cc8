package handlers

import (
	"net/http"
	"time"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/httpx"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/i18n"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/services"
	"gorm.io/gorm"
)

// NumberHandler previews the number a new document would get. Random
// numbers are not reserved; creating the record draws a fresh one.
type NumberHandler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewNumberHandler(db *gorm.DB) *NumberHandler {
	return &NumberHandler{db: db, now: time.Now}
}

// Next serves GET /api/numbers/{kind} for job-order, invoice-dp and quotation.
func (h *NumberHandler) Next(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	var n string
	switch r.PathValue("kind") {
	case "job-order":
		n = services.JobOrderNumber(now)
	case "invoice-dp":
		n = services.InvoiceDPNumber(now)
	case "quotation":
		var err error
		if n, err = services.QuotationNumber(r.Context(), h.db, now); err != nil {
			writeError(w, r, err)
			return
		}
	default:
		httpx.JSONError(w, http.StatusNotFound, i18n.T(lang(r), "err_not_found"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"number": n})
}
