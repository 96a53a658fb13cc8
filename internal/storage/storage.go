// Package storage keeps job order attachments. Keys follow
// {jobOrderId}/{category}/{epochMillis}_{filename}; older uploads live
// directly under {jobOrderId}/{filename}.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidKey      = errors.New("invalid object key")
	ErrNotFound        = errors.New("object not found")
	ErrTooLarge        = errors.New("file too large")
	ErrEmptyFile       = errors.New("empty file")
)

// Category is an attachment folder of a job order.
type Category struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Categories lists the attachment folders in display order.
var Categories = []Category{
	{"penumpukan", "Penumpukan"},
	{"do", "DO"},
	{"penumpukan-spjm", "Penumpukan SPJM"},
	{"repair", "Repair"},
	{"perpanjangan-do", "Perpanjangan DO"},
	{"perpanjangan-tila", "Perpanjangan TILA"},
	{"gerakan", "Gerakan"},
	{"lain-lain", "Lain-lain"},
}

func IsCategory(key string) bool {
	for _, c := range Categories {
		if c.Key == key {
			return true
		}
	}
	return false
}

// Object describes one stored file.
type Object struct {
	Key        string    `json:"key"`
	Name       string    `json:"name"`
	Category   string    `json:"category,omitempty"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
	Legacy     bool      `json:"legacy"`
}

// Store is the raw object backend.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// List returns the files directly under prefix, not descending further.
	List(ctx context.Context, prefix string) ([]Object, error)
	Delete(ctx context.Context, key string) error
}

var timestampPrefix = regexp.MustCompile(`^\d+_`)

// DisplayName strips the upload timestamp from a stored file name.
func DisplayName(name string) string {
	return timestampPrefix.ReplaceAllString(path.Base(name), "")
}

// ObjectKey builds the key of a new upload.
func ObjectKey(jobOrderID, category, filename string, at time.Time) string {
	return fmt.Sprintf("%s/%s/%d_%s", jobOrderID, category, at.UnixMilli(), cleanFilename(filename))
}

func cleanFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Join(strings.Fields(name), "_")
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return name
}

// ValidateKey rejects absolute keys and keys escaping the store root.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}

// FS stores objects as files below a root directory.
type FS struct {
	root string
}

func NewFS(root string) (*FS, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &FS{root: root}, nil
}

func (s *FS) path(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

// Put writes through a temp file so readers never see a partial object.
func (s *FS) Put(_ context.Context, key string, r io.Reader) (int64, error) {
	p, err := s.path(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), p)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return 0, err
	}
	return n, nil
}

func (s *FS) Open(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

func (s *FS) List(_ context.Context, prefix string) ([]Object, error) {
	p, err := s.path(prefix)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(p)
	if errors.Is(err, fs.ErrNotExist) {
		return []Object{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]Object, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		out = append(out, Object{
			Key:        prefix + "/" + e.Name(),
			Name:       e.Name(),
			Size:       info.Size(),
			UploadedAt: info.ModTime().UTC(),
		})
	}
	return out, nil
}

func (s *FS) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Attachments is the job order file service on top of a Store.
type Attachments struct {
	store    Store
	signer   *Signer
	maxBytes int64
	now      func() time.Time
}

// NewAttachments wires the service. maxBytes <= 0 disables the size limit.
func NewAttachments(store Store, signer *Signer, maxBytes int64) *Attachments {
	return &Attachments{store: store, signer: signer, maxBytes: maxBytes, now: time.Now}
}

// Upload stores r under a fresh key of the job order's category folder.
func (a *Attachments) Upload(ctx context.Context, jobOrderID, category, filename string, r io.Reader) (*Object, error) {
	if !IsCategory(category) {
		return nil, ErrInvalidCategory
	}
	at := a.now()
	key := ObjectKey(jobOrderID, category, filename, at)
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	src := r
	if a.maxBytes > 0 {
		src = io.LimitReader(r, a.maxBytes+1)
	}
	n, err := a.store.Put(ctx, key, src)
	if err != nil {
		return nil, err
	}
	if n == 0 || (a.maxBytes > 0 && n > a.maxBytes) {
		_ = a.store.Delete(ctx, key)
		if n == 0 {
			return nil, ErrEmptyFile
		}
		return nil, ErrTooLarge
	}
	return &Object{
		Key:        key,
		Name:       DisplayName(key),
		Category:   category,
		Size:       n,
		UploadedAt: at.UTC(),
	}, nil
}

// List returns the files of one category folder, newest first. An empty
// category lists the legacy files stored at the job order root.
func (a *Attachments) List(ctx context.Context, jobOrderID, category string) ([]Object, error) {
	prefix := jobOrderID
	if category != "" {
		if !IsCategory(category) {
			return nil, ErrInvalidCategory
		}
		prefix += "/" + category
	}
	objs, err := a.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	for i := range objs {
		objs[i].Category = category
		objs[i].Legacy = category == ""
		if !objs[i].Legacy {
			objs[i].Name = DisplayName(objs[i].Name)
		}
	}
	sort.SliceStable(objs, func(i, j int) bool { return objs[i].Key > objs[j].Key })
	return objs, nil
}

func (a *Attachments) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return a.store.Open(ctx, key)
}

func (a *Attachments) Delete(ctx context.Context, key string) error {
	return a.store.Delete(ctx, key)
}

// SignedURL returns a token granting read access to key for ttl.
func (a *Attachments) SignedURL(key string, ttl time.Duration) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return a.signer.Sign(key, ttl)
}

// VerifySignedURL returns the key a token grants access to.
func (a *Attachments) VerifySignedURL(token string) (string, error) {
	return a.signer.Verify(token)
}
