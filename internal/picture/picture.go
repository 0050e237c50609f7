// Package picture implements the in-memory RGBA raster shared by every
// stage of the engine.
//
// A Picture owns a stride-padded slice of Pixel values. Rows are addressed
// through Row, which returns a width-length, bounds-checked view, so callers
// never compute flat offsets themselves. A Picture is owned by whichever
// stage holds it: operations that produce a new Picture hand it to the caller.
package picture

import (
	"errors"
	"fmt"
	"image"
)

// MaxDimension is the largest width or height a Picture may have.
const MaxDimension = 1<<15 - 1

// rowAlign pads the stride (in pixels) to a multiple of this value.
const rowAlign = 4

var (
	// ErrInvalidDimension is returned when a width or height is
	// non-positive or exceeds MaxDimension.
	ErrInvalidDimension = errors.New("picture: invalid dimension")

	// ErrAllocation is returned when the pixel storage cannot be obtained.
	ErrAllocation = errors.New("picture: allocation failed")
)

// Pixel is one RGBA8 sample.
type Pixel struct {
	R, G, B, A uint8
}

// Uint32 packs the pixel as 0xRRGGBBAA.
func (p Pixel) Uint32() uint32 {
	return uint32(p.R)<<24 | uint32(p.G)<<16 | uint32(p.B)<<8 | uint32(p.A)
}

// IsZero reports whether every channel is zero.
func (p Pixel) IsZero() bool { return p == Pixel{} }

// Flags classify the contents of a Picture.
type Flags uint8

const (
	// FlagColor is set when some pixel has R != G or G != B.
	FlagColor Flags = 1 << iota
	// FlagBlend is set when some alpha lies strictly between 0 and 255.
	FlagBlend
	// FlagMask is set when alpha is binary with both fully transparent and
	// fully opaque pixels present.
	FlagMask
	// FlagAssociated is set when R, G, B are premultiplied by A.
	FlagAssociated
	// FlagDirty is set by every mutator so downstream caches can refresh.
	FlagDirty
	// FlagClear is set when some pixel is fully transparent.
	FlagClear
)

// Picture is a stride-padded RGBA8 raster.
type Picture struct {
	pix    []Pixel
	width  int
	height int
	stride int
	flags  Flags
}

// New allocates a transparent w×h picture.
func New(w, h int) (*Picture, error) {
	pix, stride, err := allocate(w, h)
	if err != nil {
		return nil, err
	}
	return &Picture{
		pix:    pix,
		width:  w,
		height: h,
		stride: stride,
		flags:  FlagDirty,
	}, nil
}

// MustNew is New for dimensions known to be valid. It panics otherwise.
func MustNew(w, h int) *Picture {
	p, err := New(w, h)
	if err != nil {
		panic(err)
	}
	return p
}

func checkDimensions(w, h int) error {
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimension, w, h)
	}
	return nil
}

// allocate returns zeroed storage for a w×h picture. A size the runtime
// refuses to make (a panic from make) is returned as ErrAllocation so the
// caller's state stays intact. Running out of memory is fatal in Go and is
// not caught here.
func allocate(w, h int) (pix []Pixel, stride int, err error) {
	if err := checkDimensions(w, h); err != nil {
		return nil, 0, err
	}
	stride = (w + rowAlign - 1) &^ (rowAlign - 1)
	defer func() {
		if r := recover(); r != nil {
			pix, stride, err = nil, 0, fmt.Errorf("%w: %dx%d: %v", ErrAllocation, w, h, r)
		}
	}()
	return make([]Pixel, stride*h), stride, nil
}

// Width returns the width in pixels.
func (p *Picture) Width() int { return p.width }

// Height returns the height in pixels.
func (p *Picture) Height() int { return p.height }

// Stride returns the distance, in pixels, between the starts of two rows.
func (p *Picture) Stride() int { return p.stride }

// Bounds returns the picture rectangle anchored at the origin.
func (p *Picture) Bounds() image.Rectangle { return image.Rect(0, 0, p.width, p.height) }

// Row returns the pixels of row y. The slice aliases the picture storage.
func (p *Picture) Row(y int) []Pixel {
	off := y * p.stride
	return p.pix[off : off+p.width : off+p.width]
}

// PixelAt returns the pixel at (x, y). It panics when out of range.
func (p *Picture) PixelAt(x, y int) Pixel {
	return p.Row(y)[x]
}

// SetPixel stores c at (x, y) and marks the picture dirty.
func (p *Picture) SetPixel(x, y int, c Pixel) {
	p.Row(y)[x] = c
	p.flags |= FlagDirty
}

// Flags returns the current flag set.
func (p *Picture) Flags() Flags { return p.flags }

// SetFlags adds f to the flag set.
func (p *Picture) SetFlags(f Flags) { p.flags |= f }

// ClearFlags removes f from the flag set.
func (p *Picture) ClearFlags(f Flags) { p.flags &^= f }

// HasColor reports whether the last classification found a non-grey pixel.
func (p *Picture) HasColor() bool { return p.flags&FlagColor != 0 }

// IsBlended reports whether some alpha is partially transparent.
func (p *Picture) IsBlended() bool { return p.flags&FlagBlend != 0 }

// IsMasked reports whether alpha is a binary mask.
func (p *Picture) IsMasked() bool { return p.flags&FlagMask != 0 }

// IsOpaque reports whether every pixel is fully opaque.
func (p *Picture) IsOpaque() bool { return p.flags&(FlagBlend|FlagMask|FlagClear) == 0 }

// IsAssociated reports whether colors are premultiplied by alpha.
func (p *Picture) IsAssociated() bool { return p.flags&FlagAssociated != 0 }

// IsDirty reports whether the picture changed since the flag was cleared.
func (p *Picture) IsDirty() bool { return p.flags&FlagDirty != 0 }

// Resize reallocates the picture to w×h. Contents are discarded. On error
// the picture is left exactly as it was.
func (p *Picture) Resize(w, h int) error {
	pix, stride, err := allocate(w, h)
	if err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	p.pix, p.width, p.height, p.stride = pix, w, h, stride
	p.flags = FlagDirty
	return nil
}

// Adjust reallocates the picture to w×h, keeping the region the old and
// new sizes have in common. On error the picture is left untouched.
func (p *Picture) Adjust(w, h int) error {
	pix, stride, err := allocate(w, h)
	if err != nil {
		return fmt.Errorf("adjust: %w", err)
	}
	cw, ch := min(w, p.width), min(h, p.height)
	for y := 0; y < ch; y++ {
		copy(pix[y*stride:y*stride+cw], p.Row(y)[:cw])
	}
	p.pix, p.width, p.height, p.stride = pix, w, h, stride
	p.flags |= FlagDirty
	return nil
}

// Clone returns an independent deep copy.
func (p *Picture) Clone() *Picture {
	pix := make([]Pixel, len(p.pix))
	copy(pix, p.pix)
	return &Picture{
		pix:    pix,
		width:  p.width,
		height: p.height,
		stride: p.stride,
		flags:  p.flags,
	}
}

// Free releases the pixel storage. The picture becomes empty.
func (p *Picture) Free() {
	p.pix = nil
	p.width, p.height, p.stride = 0, 0, 0
	p.flags = 0
}

// Classify scans every pixel once and refreshes the color, blend and
// mask flags.
func (p *Picture) Classify() {
	var color, partial, transparent, opaque bool
	for y := 0; y < p.height; y++ {
		for _, c := range p.Row(y) {
			if c.R != c.G || c.G != c.B {
				color = true
			}
			switch c.A {
			case 0x00:
				transparent = true
			case 0xFF:
				opaque = true
			default:
				partial = true
			}
		}
	}
	p.flags &^= FlagColor | FlagBlend | FlagMask | FlagClear
	if color {
		p.flags |= FlagColor
	}
	if transparent {
		p.flags |= FlagClear
	}
	if partial {
		p.flags |= FlagBlend
	} else if transparent && opaque {
		p.flags |= FlagMask
	}
}

// Blank fills every pixel with c.
func (p *Picture) Blank(c Pixel) {
	if p.height > 0 {
		row := p.Row(0)
		for x := range row {
			row[x] = c
		}
		for y := 1; y < p.height; y++ {
			copy(p.Row(y), row)
		}
	}
	p.flags &^= FlagColor | FlagBlend | FlagMask | FlagClear | FlagAssociated
	if c.R != c.G || c.G != c.B {
		p.flags |= FlagColor
	}
	// A uniform picture is never a mask: that needs both alpha extremes.
	switch c.A {
	case 0x00:
		p.flags |= FlagClear
	case 0xFF:
	default:
		p.flags |= FlagBlend
	}
	p.flags |= FlagDirty
}

// Equal reports whether a and b have the same size and pixels. Padding and
// flags are ignored.
func Equal(a, b *Picture) bool {
	if a.width != b.width || a.height != b.height {
		return false
	}
	for y := 0; y < a.height; y++ {
		ra, rb := a.Row(y), b.Row(y)
		for x := range ra {
			if ra[x] != rb[x] {
				return false
			}
		}
	}
	return true
}
