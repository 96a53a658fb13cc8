package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newAttachments(t *testing.T, maxBytes int64) (*Attachments, string) {
	t.Helper()
	root := t.TempDir()
	fs, err := NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return NewAttachments(fs, NewSigner([]byte("test-secret")), maxBytes), root
}

func TestObjectKeyAndDisplayName(t *testing.T) {
	at := time.UnixMilli(1735689600000)
	key := ObjectKey("jo-1", "do", "surat jalan.pdf", at)
	if key != "jo-1/do/1735689600000_surat_jalan.pdf" {
		t.Fatalf("key = %q", key)
	}
	if got := DisplayName(key); got != "surat_jalan.pdf" {
		t.Errorf("display name = %q", got)
	}
	if got := DisplayName("jo-1/legacy_name.pdf"); got != "legacy_name.pdf" {
		t.Errorf("legacy name should be kept, got %q", got)
	}
	if got := ObjectKey("jo-1", "do", "../../etc/passwd", at); got != "jo-1/do/1735689600000_passwd" {
		t.Errorf("traversal not stripped: %q", got)
	}
}

func TestValidateKey(t *testing.T) {
	for _, k := range []string{"", "/abs", "a/../b", "a//b", `a\b`, "a/./b"} {
		if ValidateKey(k) == nil {
			t.Errorf("%q should be rejected", k)
		}
	}
	if err := ValidateKey("jo/do/1_x.pdf"); err != nil {
		t.Errorf("valid key rejected: %v", err)
	}
}

func TestUploadListOpenDelete(t *testing.T) {
	a, root := newAttachments(t, 0)
	ctx := context.Background()
	a.now = func() time.Time { return time.UnixMilli(1000) }

	obj, err := a.Upload(ctx, "jo-1", "repair", "foto.jpg", strings.NewReader("abc"))
	if err != nil {
		t.Fatal(err)
	}
	if obj.Key != "jo-1/repair/1000_foto.jpg" || obj.Name != "foto.jpg" || obj.Size != 3 {
		t.Fatalf("object = %+v", obj)
	}
	a.now = func() time.Time { return time.UnixMilli(2000) }
	if _, err := a.Upload(ctx, "jo-1", "repair", "nota.pdf", strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Upload(ctx, "jo-1", "unknown", "x.pdf", strings.NewReader("x")); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("unknown category: %v", err)
	}

	// legacy file at the job order root
	if err := os.WriteFile(filepath.Join(root, "jo-1", "old.pdf"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	list, err := a.List(ctx, "jo-1", "repair")
	if err != nil || len(list) != 2 {
		t.Fatalf("list: %v %d", err, len(list))
	}
	if list[0].Name != "nota.pdf" || list[1].Name != "foto.jpg" {
		t.Errorf("newest first expected: %+v", list)
	}
	legacy, err := a.List(ctx, "jo-1", "")
	if err != nil || len(legacy) != 1 || !legacy[0].Legacy || legacy[0].Key != "jo-1/old.pdf" {
		t.Fatalf("legacy list: %v %+v", err, legacy)
	}
	empty, err := a.List(ctx, "jo-2", "do")
	if err != nil || len(empty) != 0 {
		t.Fatalf("missing folder: %v %+v", err, empty)
	}

	rc, err := a.Open(ctx, obj.Key)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != "abc" {
		t.Errorf("content = %q", b)
	}

	if err := a.Delete(ctx, obj.Key); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Open(ctx, obj.Key); !errors.Is(err, ErrNotFound) {
		t.Errorf("open after delete: %v", err)
	}
	if err := a.Delete(ctx, obj.Key); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: %v", err)
	}
}

func TestUploadLimits(t *testing.T) {
	a, _ := newAttachments(t, 4)
	ctx := context.Background()
	if _, err := a.Upload(ctx, "jo-1", "do", "big.bin", strings.NewReader("12345")); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if _, err := a.Upload(ctx, "jo-1", "do", "empty.bin", strings.NewReader("")); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
	list, _ := a.List(ctx, "jo-1", "do")
	if len(list) != 0 {
		t.Errorf("rejected uploads must not remain: %+v", list)
	}
	if _, err := a.Upload(ctx, "jo-1", "do", "ok.bin", strings.NewReader("1234")); err != nil {
		t.Errorf("upload at the limit: %v", err)
	}
}

func TestSignedURL(t *testing.T) {
	a, _ := newAttachments(t, 0)
	tok, err := a.SignedURL("jo-1/do/1_x.pdf", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	key, err := a.VerifySignedURL(tok)
	if err != nil || key != "jo-1/do/1_x.pdf" {
		t.Fatalf("verify: %v %q", err, key)
	}

	a.signer.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	expired, _ := a.SignedURL("jo-1/do/1_x.pdf", time.Minute)
	a.signer.now = time.Now
	if _, err := a.VerifySignedURL(expired); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expired token: %v", err)
	}

	other := NewSigner([]byte("other"))
	forged, _ := other.Sign("jo-1/do/1_x.pdf", time.Minute)
	if _, err := a.VerifySignedURL(forged); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("forged token: %v", err)
	}
	if _, err := a.SignedURL("../x", time.Minute); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("invalid key: %v", err)
	}
}

func TestThumbnail(t *testing.T) {
	a, _ := newAttachments(t, 0)
	ctx := context.Background()

	img := image.NewNRGBA(image.Rect(0, 0, 400, 200))
	for x := 0; x < 400; x++ {
		img.Set(x, 100, color.NRGBA{R: 255, A: 255})
	}
	var src bytes.Buffer
	if err := png.Encode(&src, img); err != nil {
		t.Fatal(err)
	}
	obj, err := a.Upload(ctx, "jo-1", "gerakan", "foto.png", &src)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := a.Thumbnail(ctx, obj.Key, 100, &out); err != nil {
		t.Fatal(err)
	}
	thumb, format, err := image.Decode(&out)
	if err != nil || format != "jpeg" {
		t.Fatalf("decode thumbnail: %v %s", err, format)
	}
	if b := thumb.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("thumbnail size = %v", b)
	}

	txt, _ := a.Upload(ctx, "jo-1", "gerakan", "nota.txt", strings.NewReader("not an image"))
	if err := a.Thumbnail(ctx, txt.Key, 100, &bytes.Buffer{}); !errors.Is(err, ErrNotImage) {
		t.Errorf("text file: %v", err)
	}
}
