package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/httpx"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/models"
	"github.com/google/uuid"
)

func vendorMux(t *testing.T) http.Handler {
	reg, _ := setupRegistry(t)
	h := NewResourceHandler(reg.Vendors)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /vendors", h.List)
	mux.HandleFunc("POST /vendors", h.Create)
	mux.HandleFunc("GET /vendors/{id}", h.Get)
	mux.HandleFunc("PUT /vendors/{id}", h.Update)
	mux.HandleFunc("DELETE /vendors/{id}", h.Delete)
	return mux
}

func TestResourceCRUD(t *testing.T) {
	mux := vendorMux(t)

	rec := do(mux, http.MethodPost, "/vendors", strings.NewReader(`{"id":"`+uuid.NewString()+`","name":"Depo Cakung","service_type":"depo"}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	var created models.Vendor
	decodeBody(t, rec, &created)
	if created.ID == uuid.Nil || created.Name != "Depo Cakung" {
		t.Fatalf("created = %+v", created)
	}

	rec = do(mux, http.MethodPut, "/vendors/"+created.ID.String(), strings.NewReader(`{"name":"Depo Cakung Baru","service_type":"depo"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(mux, http.MethodGet, "/vendors?q=baru", nil)
	var list []models.Vendor
	decodeBody(t, rec, &list)
	if len(list) != 1 || list[0].Name != "Depo Cakung Baru" {
		t.Fatalf("list = %+v", list)
	}

	if rec = do(mux, http.MethodDelete, "/vendors/"+created.ID.String(), nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rec.Code)
	}
	if rec = do(mux, http.MethodGet, "/vendors/"+created.ID.String(), nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted: %d", rec.Code)
	}
}

func TestResourceErrors(t *testing.T) {
	mux := vendorMux(t)

	rec := do(mux, http.MethodPost, "/vendors", strings.NewReader(`{"name":""}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid create: %d", rec.Code)
	}
	var body httpx.ErrorResponse
	decodeBody(t, rec, &body)
	details, ok := body.Details.(map[string]any)
	if !ok || details["name"] == nil {
		t.Fatalf("expected per-field details, got %+v", body)
	}

	if rec = do(mux, http.MethodPost, "/vendors", strings.NewReader(`{`)); rec.Code != http.StatusBadRequest {
		t.Errorf("bad json: %d", rec.Code)
	}
	if rec = do(mux, http.MethodGet, "/vendors/not-a-uuid", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: %d", rec.Code)
	}
	if rec = do(mux, http.MethodGet, "/vendors?job_order_id=nope", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad job_order_id: %d", rec.Code)
	}
	if rec = do(mux, http.MethodGet, "/vendors/"+uuid.NewString(), nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing: %d", rec.Code)
	}
}
