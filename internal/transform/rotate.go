// Package transform moves pixels around: right-angle and arbitrary
// rotation, flips, nearest-neighbor scaling and cropping.
//
// Rotation angles are in degrees, counter-clockwise as seen on screen.
// Rotate90 sends source pixel (x, y) of a W-wide picture to (y, W-1-x).
package transform

import (
	"math"

	"github.com/AnyUserName/tkpic/internal/logging"
	"github.com/AnyUserName/tkpic/internal/picture"
)

// Rotate90 returns src rotated a quarter turn counter-clockwise.
func Rotate90(src *picture.Picture) *picture.Picture {
	w, h := src.Width(), src.Height()
	dst := picture.MustNew(h, w)
	for y := 0; y < h; y++ {
		for x, c := range src.Row(y) {
			dst.Row(w - 1 - x)[y] = c
		}
	}
	inherit(dst, src)
	return dst
}

// Rotate180 returns src turned upside down.
func Rotate180(src *picture.Picture) *picture.Picture {
	w, h := src.Width(), src.Height()
	dst := picture.MustNew(w, h)
	for y := 0; y < h; y++ {
		drow := dst.Row(h - 1 - y)
		for x, c := range src.Row(y) {
			drow[w-1-x] = c
		}
	}
	inherit(dst, src)
	return dst
}

// Rotate270 returns src rotated a quarter turn clockwise.
func Rotate270(src *picture.Picture) *picture.Picture {
	w, h := src.Width(), src.Height()
	dst := picture.MustNew(h, w)
	for y := 0; y < h; y++ {
		for x, c := range src.Row(y) {
			dst.Row(x)[h-1-y] = c
		}
	}
	inherit(dst, src)
	return dst
}

func inherit(dst, src *picture.Picture) {
	dst.SetFlags(src.Flags() | picture.FlagDirty)
}

// Rotate returns src rotated by degrees. The nearest right angle is taken
// off losslessly and the remaining angle, within ±45°, is applied as three
// shears: horizontal by tan(θ/2), vertical by sin θ, horizontal by
// tan(θ/2). Exposed pixels are filled with bg, which must be associated
// when src is. A multiple of 90° is exact.
func Rotate(src *picture.Picture, degrees float64, bg picture.Pixel) *picture.Picture {
	deg := math.Mod(degrees, 360)
	if deg < 0 {
		deg += 360
	}

	var base *picture.Picture
	switch {
	case deg > 45 && deg <= 135:
		base, deg = Rotate90(src), deg-90
	case deg > 135 && deg <= 225:
		base, deg = Rotate180(src), deg-180
	case deg > 225 && deg <= 315:
		base, deg = Rotate270(src), deg-270
	default:
		if deg > 315 {
			deg -= 360
		}
		base = src
	}
	if deg == 0 {
		if base == src {
			return src.Clone()
		}
		return base
	}

	logging.L().Debug("rotate", "degrees", degrees, "residual", deg,
		"width", base.Width(), "height", base.Height())
	dst := shearRotate(base, deg*math.Pi/180, bg)
	dst.Classify()
	dst.ClearFlags(picture.FlagMask)
	dst.SetFlags(src.Flags()&picture.FlagAssociated | picture.FlagBlend | picture.FlagDirty)
	return dst
}

// shearRotate rotates src by theta radians, |theta| <= π/4.
func shearRotate(src *picture.Picture, theta float64, bg picture.Pixel) *picture.Picture {
	sw, sh := src.Width(), src.Height()
	sin, cos := math.Sincos(theta)
	tan := math.Tan(theta / 2)

	// Horizontal shear by tan(θ/2).
	w1 := sw + int(float64(sh)*math.Abs(tan))
	p1 := picture.MustNew(w1, sh)
	for y := 0; y < sh; y++ {
		var shift float64
		if tan >= 0 {
			shift = (float64(y) + 0.5) * tan
		} else {
			shift = (float64(y-sh) + 0.5) * tan
		}
		skewLine(p1.Row(y), src.Row(y), shift, bg)
	}

	// Vertical shear by sin θ.
	h2 := int(float64(sw)*math.Abs(sin)+float64(sh)*cos) + 1
	p2 := picture.MustNew(w1, h2)
	in := make([]picture.Pixel, sh)
	out := make([]picture.Pixel, h2)
	offset := -sin * float64(sw-w1)
	if sin > 0 {
		offset = float64(sw-1) * sin
	}
	for x := 0; x < w1; x, offset = x+1, offset-sin {
		for y := range in {
			in[y] = p1.Row(y)[x]
		}
		skewLine(out, in, offset, bg)
		for y, c := range out {
			p2.Row(y)[x] = c
		}
	}

	// Horizontal shear by tan(θ/2) again.
	w3 := int(float64(sh)*math.Abs(sin)+float64(sw)*cos) + 1
	p3 := picture.MustNew(w3, h2)
	offset = tan * (float64(sw-1)*-sin + float64(1-h2))
	if sin >= 0 {
		offset = float64(sw-1) * sin * -tan
	}
	for y := 0; y < h2; y, offset = y+1, offset+tan {
		skewLine(p3.Row(y), p2.Row(y), offset, bg)
	}
	return p3
}

// skewLine writes src into dst displaced by shift pixels. The fractional
// part of shift moves that share of each pixel onto its right neighbor.
// Positions of dst not covered by src get bg; pixels that land outside dst
// are dropped.
func skewLine(dst, src []picture.Pixel, shift float64, bg picture.Pixel) {
	offset := int(math.Floor(shift))
	weight := uint32(math.Round((shift - float64(offset)) * 256))

	for i := range dst {
		dst[i] = bg
	}
	prev := scale(bg, weight)
	var spill picture.Pixel
	for i, c := range src {
		spill = scale(c, weight)
		if j := i + offset; j >= 0 && j < len(dst) {
			dst[j] = picture.Pixel{
				R: mix(c.R, spill.R, prev.R),
				G: mix(c.G, spill.G, prev.G),
				B: mix(c.B, spill.B, prev.B),
				A: mix(c.A, spill.A, prev.A),
			}
		}
		prev = spill
	}
	if j := len(src) + offset; j >= 0 && j < len(dst) {
		rest := scale(bg, 256-weight)
		dst[j] = picture.Pixel{
			R: sat(uint32(spill.R) + uint32(rest.R)),
			G: sat(uint32(spill.G) + uint32(rest.G)),
			B: sat(uint32(spill.B) + uint32(rest.B)),
			A: sat(uint32(spill.A) + uint32(rest.A)),
		}
	}
}

// scale returns c·w/256 per channel.
func scale(c picture.Pixel, w uint32) picture.Pixel {
	return picture.Pixel{
		R: uint8(uint32(c.R) * w >> 8),
		G: uint8(uint32(c.G) * w >> 8),
		B: uint8(uint32(c.B) * w >> 8),
		A: uint8(uint32(c.A) * w >> 8),
	}
}

// mix is what stays of c after its spill leaves, plus the spill arriving
// from the left neighbor.
func mix(c, spill, prev uint8) uint8 {
	return sat(uint32(c-spill) + uint32(prev))
}

func sat(v uint32) uint8 { return uint8(min(v, 255)) }
