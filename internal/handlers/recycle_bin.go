package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/httpx"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/i18n"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/services"
)

type RecycleBinHandler struct {
	bin *services.RecycleBin
}

func NewRecycleBinHandler(bin *services.RecycleBin) *RecycleBinHandler {
	return &RecycleBinHandler{bin: bin}
}

func (h *RecycleBinHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.bin.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entries)
}

func (h *RecycleBinHandler) Tables(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.bin.Tables())
}

func (h *RecycleBinHandler) target(w http.ResponseWriter, r *http.Request) (services.BinTarget, bool) {
	var t services.BinTarget
	if err := httpx.DecodeJSON(r, &t); err != nil {
		decodeError(w, r, err)
		return t, false
	}
	return t, true
}

// Restore body: {"id": "...", "table_name": "..."}.
func (h *RecycleBinHandler) Restore(w http.ResponseWriter, r *http.Request) {
	t, ok := h.target(w, r)
	if !ok {
		return
	}
	if err := h.bin.Restore(r.Context(), t.ID, t.TableName); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Purge permanently deletes one soft-deleted row.
func (h *RecycleBinHandler) Purge(w http.ResponseWriter, r *http.Request) {
	t, ok := h.target(w, r)
	if !ok {
		return
	}
	if err := h.bin.PermanentDelete(r.Context(), t.ID, t.TableName); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

type emptyRequest struct {
	Items []services.BinTarget `json:"items"`
}

type emptyResponse struct {
	Purged int    `json:"purged"`
	Error  string `json:"error,omitempty"`
}

// Empty purges the given items, or everything in the bin when the body is
// empty. It stops at the first failure and reports how many rows were
// purged before it.
func (h *RecycleBinHandler) Empty(w http.ResponseWriter, r *http.Request) {
	var req emptyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		decodeError(w, r, err)
		return
	}
	if len(req.Items) == 0 {
		entries, err := h.bin.List(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		for _, e := range entries {
			req.Items = append(req.Items, services.BinTarget{ID: e.ID, TableName: e.TableName})
		}
	}
	n, err := h.bin.EmptyAll(r.Context(), req.Items)
	if err != nil {
		log.Printf("empty recycle bin: %v", err)
		httpx.JSON(w, http.StatusInternalServerError, emptyResponse{Purged: n, Error: i18n.T(lang(r), "empty_bin_failed")})
		return
	}
	httpx.JSON(w, http.StatusOK, emptyResponse{Purged: n})
}
