package handlers

import (
	"net/http"
	"strings"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/httpx"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/models"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/services"
	"github.com/google/uuid"
)

// ResourceHandler serves list/get/create/update/delete for one accessor.
type ResourceHandler[T any, PT interface {
	*T
	models.Record
}] struct {
	acc *services.Accessor[T, PT]
}

func NewResourceHandler[T any, PT interface {
	*T
	models.Record
}](acc *services.Accessor[T, PT]) *ResourceHandler[T, PT] {
	return &ResourceHandler[T, PT]{acc: acc}
}

// List accepts q, limit, offset and job_order_id.
func (h *ResourceHandler[T, PT]) List(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	p := services.ListParams{
		Query:  qs.Get("q"),
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
	}
	if s := strings.TrimSpace(qs.Get("job_order_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			writeError(w, r, errInvalidID)
			return
		}
		p.JobOrderID = &id
	}
	rows, err := h.acc.List(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *ResourceHandler[T, PT]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := h.acc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

// Create ignores any id, timestamps or deleted_at sent by the client.
func (h *ResourceHandler[T, PT]) Create(w http.ResponseWriter, r *http.Request) {
	rec := PT(new(T))
	if err := httpx.DecodeJSON(r, rec); err != nil {
		decodeError(w, r, err)
		return
	}
	*rec.BaseFields() = models.Base{}
	if err := h.acc.Create(r.Context(), rec); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rec)
}

func (h *ResourceHandler[T, PT]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec := PT(new(T))
	if err := httpx.DecodeJSON(r, rec); err != nil {
		decodeError(w, r, err)
		return
	}
	if err := h.acc.Update(r.Context(), id, rec); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

// Delete soft-deletes; the row moves to the recycle bin.
func (h *ResourceHandler[T, PT]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.acc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
