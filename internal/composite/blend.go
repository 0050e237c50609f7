package composite

import (
	"fmt"
	"image"
	"strings"

	"github.com/AnyUserName/tkpic/internal/picture"
)

// BlendMode selects the color mixing term of Blend.
type BlendMode uint8

const (
	Normal BlendMode = iota
	Multiply
	Screen
	Darken
	Lighten
	Difference
	HardLight
	SoftLight
	ColorDodge
	ColorBurn
	Overlay
)

var blendNames = [...]string{
	"normal", "multiply", "screen", "darken", "lighten", "difference",
	"hard-light", "soft-light", "color-dodge", "color-burn", "overlay",
}

func (m BlendMode) String() string {
	if int(m) < len(blendNames) {
		return blendNames[m]
	}
	return fmt.Sprintf("BlendMode(%d)", m)
}

// ParseBlendMode returns the mode with the given name. Underscores are
// accepted in place of dashes.
func ParseBlendMode(name string) (BlendMode, error) {
	key := strings.ReplaceAll(strings.ToLower(name), "_", "-")
	for i, n := range blendNames {
		if n == key {
			return BlendMode(i), nil
		}
	}
	return 0, fmt.Errorf("composite: unknown blend mode %q", name)
}

// mixFunc mixes a straight source channel f over a straight backdrop
// channel b.
type mixFunc func(f, b uint32) uint32

func (m BlendMode) mix() mixFunc {
	switch m {
	case Multiply:
		return imul8x8
	case Screen:
		return screen
	case Darken:
		return func(f, b uint32) uint32 { return min(f, b) }
	case Lighten:
		return func(f, b uint32) uint32 { return max(f, b) }
	case Difference:
		return func(f, b uint32) uint32 { return max(f, b) - min(f, b) }
	case HardLight:
		return hardLight
	case SoftLight:
		return softLight
	case ColorDodge:
		return colorDodge
	case ColorBurn:
		return colorBurn
	case Overlay:
		return func(f, b uint32) uint32 { return hardLight(b, f) }
	default:
		return func(f, _ uint32) uint32 { return f }
	}
}

func screen(f, b uint32) uint32 { return f + b - imul8x8(f, b) }

func hardLight(f, b uint32) uint32 {
	if f < 128 {
		return imul8x8(2*f, b)
	}
	return screen(2*f-255, b)
}

func softLight(f, b uint32) uint32 {
	return min(imul8x8(b, b)+2*imul8x8(f, imul8x8(b, 255-b)), 255)
}

func colorDodge(f, b uint32) uint32 {
	if f == 255 {
		return 255
	}
	return min(b*255/(255-f), 255)
}

func colorBurn(f, b uint32) uint32 {
	if f == 0 {
		return 0
	}
	return 255 - min((255-b)*255/f, 255)
}

// Blend composites the sr region of src over dst at dp:
//
//	C = (1-Fa)B + (1-Ba)F + Fa*Ba*mode(f, b)
//
// where F and B are associated and f and b are straight colors. dst is
// associated in place if it is not already and stays associated. src is
// only read.
func Blend(dst, src *picture.Picture, sr image.Rectangle, dp image.Point, mode BlendMode) {
	sr, dp = picture.ClipArea(dst, src, sr, dp)
	if sr.Empty() {
		return
	}
	Associate(dst)
	mix := mode.mix()
	srcAssociated := src.IsAssociated()

	for y := 0; y < sr.Dy(); y++ {
		srow := src.Row(sr.Min.Y + y)[sr.Min.X:sr.Max.X]
		drow := dst.Row(dp.Y + y)[dp.X : dp.X+sr.Dx()]
		for x, s := range srow {
			if s.A == 0 {
				continue
			}
			fs, fa := s, s
			if s.A != 0xFF {
				if srcAssociated {
					fs = unassociate(s)
				} else {
					fa = associate(s)
				}
			}
			drow[x] = blendPixel(fa, fs, drow[x], mix)
		}
	}
	dst.Classify()
	dst.SetFlags(picture.FlagDirty)
}

// blendPixel mixes the associated source fa (straight form fs) over the
// associated backdrop b.
func blendPixel(fa, fs, b picture.Pixel, mix mixFunc) picture.Pixel {
	if b.A == 0 {
		return fa
	}
	bs := b
	if b.A != 0xFF {
		bs = unassociate(b)
	}
	sa, ba := uint32(fa.A), uint32(b.A)
	both := imul8x8(sa, ba)
	alpha := ((255-sa)*ba + 255*sa + 127) / 255

	channel := func(fc, bc, f, bb uint8) uint8 {
		v := (255-sa)*uint32(bc) + (255-ba)*uint32(fc) + both*mix(uint32(f), uint32(bb))
		return uint8(min((v+127)/255, alpha))
	}
	return picture.Pixel{
		R: channel(fa.R, b.R, fs.R, bs.R),
		G: channel(fa.G, b.G, fs.G, bs.G),
		B: channel(fa.B, b.B, fs.B, bs.B),
		A: uint8(alpha),
	}
}
