// Package codec moves pictures in and out of encoded files. All byte-level
// work is delegated to image libraries; this package only bridges their
// image.Image values to picture.Picture.
package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
)

// DefaultQuality is used when an encoder is handed a quality outside 1-100.
const DefaultQuality = 82

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the output format name (e.g. "webp", "jpeg", "png").
	Format() string

	// Encode converts the image to bytes at the given quality (1-100).
	// Lossless encoders ignore quality.
	Encode(img image.Image, quality int) ([]byte, error)

	// Available returns true if the encoder is ready to use.
	Available() bool

	// Extension returns the file extension without dot.
	Extension() string
}

// imagingEncoder covers every format disintegration/imaging can write.
type imagingEncoder struct {
	format imaging.Format
	name   string
	ext    string
	// sizeHint pre-grows the output buffer.
	sizeHint int
}

func (e *imagingEncoder) Format() string    { return e.name }
func (e *imagingEncoder) Extension() string { return e.ext }
func (e *imagingEncoder) Available() bool   { return true }

func (e *imagingEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	var buf bytes.Buffer
	buf.Grow(e.sizeHint)
	err := imaging.Encode(&buf, img, e.format,
		imaging.JPEGQuality(quality),
		imaging.PNGCompressionLevel(png.BestCompression),
	)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.name, err)
	}
	return buf.Bytes(), nil
}

// WebPEncoder writes lossless WebP in pure Go.
type WebPEncoder struct{}

func (e *WebPEncoder) Format() string    { return "webp" }
func (e *WebPEncoder) Extension() string { return "webp" }
func (e *WebPEncoder) Available() bool   { return true }

func (e *WebPEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(256 * 1024)
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

func builtinEncoders() []Encoder {
	return []Encoder{
		&WebPEncoder{},
		&imagingEncoder{format: imaging.JPEG, name: "jpeg", ext: "jpeg", sizeHint: 256 * 1024},
		&imagingEncoder{format: imaging.PNG, name: "png", ext: "png", sizeHint: 512 * 1024},
		&imagingEncoder{format: imaging.GIF, name: "gif", ext: "gif", sizeHint: 64 * 1024},
		&imagingEncoder{format: imaging.TIFF, name: "tiff", ext: "tiff", sizeHint: 512 * 1024},
		&imagingEncoder{format: imaging.BMP, name: "bmp", ext: "bmp", sizeHint: 512 * 1024},
	}
}
