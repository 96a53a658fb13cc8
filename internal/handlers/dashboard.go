package handlers

import (
	"net/http"
	"time"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/httpx"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/services"
)

type DashboardHandler struct {
	dash *services.Dashboard
	now  func() time.Time
}

func NewDashboardHandler(dash *services.Dashboard) *DashboardHandler {
	return &DashboardHandler{dash: dash, now: time.Now}
}

// Monthly returns the chart buckets of ?year=, defaulting to this year.
func (h *DashboardHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	year := queryInt(r, "year", h.now().Year())
	buckets, err := h.dash.Monthly(r.Context(), year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"year": year, "months": buckets})
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.dash.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}
