package storage

import (
	"context"
	"errors"
	"io"

	"github.com/disintegration/imaging"
)

var ErrNotImage = errors.New("not an image")

// Thumbnail width bounds in pixels.
const (
	DefaultThumbWidth = 200
	MaxThumbWidth     = 1024
)

// Thumbnail writes a JPEG of the image at key scaled to width, keeping the
// aspect ratio. Out-of-range widths fall back to the default.
func (a *Attachments) Thumbnail(ctx context.Context, key string, width int, w io.Writer) error {
	if width <= 0 || width > MaxThumbWidth {
		width = DefaultThumbWidth
	}
	rc, err := a.store.Open(ctx, key)
	if err != nil {
		return err
	}
	defer rc.Close()
	img, err := imaging.Decode(rc, imaging.AutoOrientation(true))
	if err != nil {
		return ErrNotImage
	}
	if img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(80))
}
