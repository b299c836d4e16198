// Package cardimage normalises uploaded card photos before they are sent to
// the model: any decodable format in, a bounded JPEG out.
package cardimage

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"

	"ygo-duel-bot/internal/domain"
)

const (
	// MaxEdge is the longest side, in pixels, of a prepared image.
	MaxEdge     = 1024
	jpegQuality = 85
	maxRawBytes = 10 << 20
)

// Prepare decodes raw image bytes, applies EXIF orientation, shrinks the
// image to fit within MaxEdge x MaxEdge and re-encodes it as JPEG.
func Prepare(raw []byte) (domain.Image, error) {
	if len(raw) == 0 {
		return domain.Image{}, errors.New("cardimage: empty image")
	}
	if len(raw) > maxRawBytes {
		return domain.Image{}, fmt.Errorf("cardimage: image too large (%d bytes)", len(raw))
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return domain.Image{}, fmt.Errorf("cardimage: decode: %w", err)
	}
	b := img.Bounds()
	if b.Dx() > MaxEdge || b.Dy() > MaxEdge {
		img = imaging.Fit(img, MaxEdge, MaxEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return domain.Image{}, fmt.Errorf("cardimage: encode: %w", err)
	}
	return domain.Image{MIMEType: "image/jpeg", Data: buf.Bytes()}, nil
}
