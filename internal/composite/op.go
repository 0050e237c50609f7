// Package composite combines pictures pixel by pixel.
//
// Arithmetic operators work on each channel independently, alpha included,
// and never touch the alpha association of either operand. Blend modes
// composite with Porter-Duff source-over in associated alpha. Regions
// outside either picture are clipped away; a disjoint region does nothing.
package composite

import (
	"fmt"
	"image"
	"strings"

	"github.com/AnyUserName/tkpic/internal/picture"
)

// Op is a per-channel arithmetic operator. The result replaces the
// destination channel: dst = dst Op src.
type Op uint8

const (
	Add Op = iota
	Sub
	RSub
	And
	Or
	Xor
	Nand
	Nor
	Min
	Max
)

var opNames = [...]string{"add", "sub", "rsub", "and", "or", "xor", "nand", "nor", "min", "max"}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", op)
}

// ParseOp returns the operator with the given name.
func ParseOp(name string) (Op, error) {
	name = strings.ToLower(name)
	for i, n := range opNames {
		if n == name {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("composite: unknown operator %q", name)
}

// channelFunc combines one destination channel d with one source channel s.
type channelFunc func(d, s uint8) uint8

func (op Op) channel() channelFunc {
	switch op {
	case Sub:
		return func(d, s uint8) uint8 { return uint8(max(int(d)-int(s), 0)) }
	case RSub:
		return func(d, s uint8) uint8 { return uint8(max(int(s)-int(d), 0)) }
	case And:
		return func(d, s uint8) uint8 { return d & s }
	case Or:
		return func(d, s uint8) uint8 { return d | s }
	case Xor:
		return func(d, s uint8) uint8 { return d ^ s }
	case Nand:
		return func(d, s uint8) uint8 { return ^(d & s) }
	case Nor:
		return func(d, s uint8) uint8 { return ^(d | s) }
	case Min:
		return func(d, s uint8) uint8 { return min(d, s) }
	case Max:
		return func(d, s uint8) uint8 { return max(d, s) }
	default:
		return func(d, s uint8) uint8 { return uint8(min(int(d)+int(s), 255)) }
	}
}

func (f channelFunc) apply(d, s picture.Pixel) picture.Pixel {
	return picture.Pixel{R: f(d.R, s.R), G: f(d.G, s.G), B: f(d.B, s.B), A: f(d.A, s.A)}
}

// ApplyPicture combines the sr region of src into dst at dp.
func ApplyPicture(dst, src *picture.Picture, sr image.Rectangle, dp image.Point, op Op) {
	applyPicture(dst, src, nil, false, sr, dp, op)
}

// ApplyPictureMasked is ApplyPicture restricted to the destination pixels
// whose mask pixel, at the same coordinates, is non-zero. invert flips the
// test. Pixels outside the mask count as zero.
func ApplyPictureMasked(dst, src, mask *picture.Picture, sr image.Rectangle, dp image.Point, invert bool, op Op) {
	applyPicture(dst, src, mask, invert, sr, dp, op)
}

// ApplyScalar combines c into every pixel of dst.
func ApplyScalar(dst *picture.Picture, c picture.Pixel, op Op) {
	applyScalar(dst, c, nil, false, op)
}

// ApplyScalarMasked is ApplyScalar gated by mask like ApplyPictureMasked.
func ApplyScalarMasked(dst *picture.Picture, c picture.Pixel, mask *picture.Picture, invert bool, op Op) {
	applyScalar(dst, c, mask, invert, op)
}

func applyPicture(dst, src, mask *picture.Picture, invert bool, sr image.Rectangle, dp image.Point, op Op) {
	sr, dp = picture.ClipArea(dst, src, sr, dp)
	if sr.Empty() {
		return
	}
	f := op.channel()
	for y := 0; y < sr.Dy(); y++ {
		srow := src.Row(sr.Min.Y + y)[sr.Min.X:sr.Max.X]
		dy := dp.Y + y
		drow := dst.Row(dy)
		for i, s := range srow {
			dx := dp.X + i
			if mask != nil && masked(mask, dx, dy) == invert {
				continue
			}
			drow[dx] = f.apply(drow[dx], s)
		}
	}
	dst.Classify()
	dst.SetFlags(picture.FlagDirty)
}

func applyScalar(dst *picture.Picture, c picture.Pixel, mask *picture.Picture, invert bool, op Op) {
	f := op.channel()
	for y := 0; y < dst.Height(); y++ {
		row := dst.Row(y)
		for x, d := range row {
			if mask != nil && masked(mask, x, y) == invert {
				continue
			}
			row[x] = f.apply(d, c)
		}
	}
	dst.Classify()
	dst.SetFlags(picture.FlagDirty)
}

// masked reports whether the mask pixel at (x, y) is set.
func masked(mask *picture.Picture, x, y int) bool {
	if !image.Pt(x, y).In(mask.Bounds()) {
		return false
	}
	return mask.PixelAt(x, y).Uint32() != 0
}
