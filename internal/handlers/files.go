package handlers

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/httpx"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/models"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/services"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/storage"
)

// SignedDownloadPath is the public route that serves signed file tokens.
const SignedDownloadPath = "/files/signed"

// FileHandler manages job order attachments.
type FileHandler struct {
	files     *storage.Attachments
	jobs      *services.Accessor[models.JobOrder, *models.JobOrder]
	maxBytes  int64
	signedTTL time.Duration
}

func NewFileHandler(files *storage.Attachments, jobs *services.Accessor[models.JobOrder, *models.JobOrder], maxBytes int64, signedTTL time.Duration) *FileHandler {
	return &FileHandler{files: files, jobs: jobs, maxBytes: maxBytes, signedTTL: signedTTL}
}

func (h *FileHandler) Categories(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, storage.Categories)
}

// List serves the files of one category; without ?category the legacy
// root files are listed.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	objs, err := h.files.List(r.Context(), id.String(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, objs)
}

// Upload takes a multipart form with "category" and "file".
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.jobs.Get(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, r, storage.ErrTooLarge)
			return
		}
		writeError(w, r, storage.ErrEmptyFile)
		return
	}
	defer file.Close()

	obj, err := h.files.Upload(r.Context(), id.String(), r.FormValue("category"), header.Filename, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, obj)
}

func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.files.Delete(r.Context(), r.URL.Query().Get("key")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Download streams ?key to an authenticated caller.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, r.URL.Query().Get("key"))
}

// SignURL returns a time-limited public link for ?key.
func (h *FileHandler) SignURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	tok, err := h.files.SignedURL(key, h.signedTTL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"url":        SignedDownloadPath + "?token=" + url.QueryEscape(tok),
		"expires_at": time.Now().Add(h.signedTTL).UTC(),
	})
}

// Signed serves a file to whoever holds a valid token.
func (h *FileHandler) Signed(w http.ResponseWriter, r *http.Request) {
	key, err := h.files.VerifySignedURL(r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.stream(w, r, key)
}

// Thumbnail serves a JPEG preview of an image attachment.
func (h *FileHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	width := queryInt(r, "width", storage.DefaultThumbWidth)
	// render first so a failure can still become a JSON error
	var buf bytes.Buffer
	if err := h.files.Thumbnail(r.Context(), key, width, &buf); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=300")
	_, _ = buf.WriteTo(w)
}

func (h *FileHandler) stream(w http.ResponseWriter, r *http.Request, key string) {
	rc, err := h.files.Open(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer rc.Close()
	ct := mime.TypeByExtension(path.Ext(key))
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": storage.DisplayName(key)}))
	_, _ = io.Copy(w, rc)
}
