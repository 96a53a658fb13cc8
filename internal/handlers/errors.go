// Package handlers exposes the services over JSON HTTP.
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/httpx"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/i18n"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/errmap"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/services"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/storage"
	"github.com/google/uuid"
)

// errInvalidID is returned for a malformed {id} path value.
var errInvalidID = errors.New("invalid id")

// badRequests maps caller errors to their message codes.
var badRequests = []struct {
	err  error
	code string
}{
	{httpx.ErrEmptyBody, "invalid_request"},
	{errInvalidID, "invalid_request"},
	{services.ErrAdminExists, "admin_already_exists"},
	{services.ErrInvalidTransition, "invalid_transition"},
	{services.ErrCannotRemoveOwnAdmin, "cannot_remove_own_admin"},
	{services.ErrCannotRejectAdmin, "cannot_reject_admin"},
	{services.ErrInvalidRole, "invalid_request"},
	{services.ErrInvalidMenuKey, "unknown_value"},
	{services.ErrMissingUserID, "invalid_request"},
	{services.ErrUnknownTable, "unknown_table"},
	{storage.ErrInvalidCategory, "invalid_category"},
	{storage.ErrInvalidKey, "invalid_request"},
	{storage.ErrTooLarge, "file_too_large"},
	{storage.ErrEmptyFile, "file_missing"},
	{storage.ErrNotImage, "not_an_image"},
}

func lang(r *http.Request) string { return i18n.LangFromContext(r.Context()) }

// writeError sends the JSON error for err. Unclassified errors are logged
// with full detail and answered with the reduced message only.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	l := lang(r)
	if ve, ok := services.IsValidation(err); ok {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(l, "invalid_request"), ve.Violations.Localize(l))
		return
	}
	for _, br := range badRequests {
		if errors.Is(err, br.err) {
			httpx.JSONError(w, http.StatusBadRequest, i18n.T(l, br.code), nil)
			return
		}
	}
	if errors.Is(err, storage.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, i18n.T(l, "err_not_found"), nil)
		return
	}
	if errors.Is(err, storage.ErrInvalidSignature) {
		httpx.JSONError(w, http.StatusForbidden, i18n.T(l, "invalid_signature"), nil)
		return
	}
	status := errmap.Status(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	httpx.JSONError(w, status, errmap.MessageFor(l, err), nil)
}

// decodeError answers a body that is not valid JSON.
func decodeError(w http.ResponseWriter, r *http.Request, err error) {
	httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_request"), err.Error())
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, errInvalidID
	}
	return id, nil
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
