package quantize

import (
	"fmt"
	"image"
	"image/color"

	"github.com/soniakeys/quant/median"
	"golang.org/x/image/draw"

	"github.com/AnyUserName/tkpic/internal/picture"
)

// UniformPalette spreads levels evenly over 0..255 on every channel.
// levels is clamped to [2, 256].
func UniformPalette(levels int) *Palette {
	levels = min(max(levels, 2), 256)
	n := levels - 1
	var pal Palette
	for i := range pal {
		step := (i*n + 127) / 255
		v := uint8((step*255 + n/2) / n)
		pal[i] = picture.Pixel{R: v, G: v, B: v, A: 0xFF}
	}
	return &pal
}

// PaletteFromColors builds a palette whose channel levels are the channel
// values found in colors. An empty list yields the two-level palette.
func PaletteFromColors(colors []picture.Pixel) *Palette {
	if len(colors) == 0 {
		return UniformPalette(2)
	}
	var rs, gs, bs [256]bool
	for _, c := range colors {
		rs[c.R], gs[c.G], bs[c.B] = true, true, true
	}
	var pal Palette
	for i := range pal {
		pal[i] = picture.Pixel{R: nearestLevel(&rs, i), G: nearestLevel(&gs, i), B: nearestLevel(&bs, i), A: 0xFF}
	}
	return &pal
}

// nearestLevel returns the present level closest to v, the lower one on
// ties.
func nearestLevel(present *[256]bool, v int) uint8 {
	for d := 0; d < 256; d++ {
		if lo := v - d; lo >= 0 && present[lo] {
			return uint8(lo)
		}
		if hi := v + d; hi < 256 && present[hi] {
			return uint8(hi)
		}
	}
	return 0
}

// Levels returns the distinct values of one channel of pal in increasing
// order. ch is 'r', 'g' or 'b'.
func (pal *Palette) Levels(ch byte) []uint8 {
	var seen [256]bool
	var out []uint8
	for _, c := range pal {
		v := c.R
		switch ch {
		case 'g':
			v = c.G
		case 'b':
			v = c.B
		}
		seen[v] = true
	}
	for v, ok := range seen {
		if ok {
			out = append(out, uint8(v))
		}
	}
	return out
}

// MedianCut reduces src to at most k colors with Heckbert's median cut.
// It is an alternative to Quantize with a coarser palette search; alpha is
// copied from src.
func MedianCut(src *picture.Picture, k int) (*picture.Picture, []picture.Pixel, error) {
	k = min(max(k, 1), MaxColors)
	b := src.Bounds()
	if b.Empty() {
		return nil, nil, fmt.Errorf("median cut: %w: %dx%d", picture.ErrInvalidDimension, b.Dx(), b.Dy())
	}

	opaque := src.Clone()
	for y := 0; y < opaque.Height(); y++ {
		row := opaque.Row(y)
		for x := range row {
			row[x].A = 0xFF
		}
	}
	opaque.ClearFlags(picture.FlagAssociated)

	paletted := median.Quantizer(k).Paletted(opaque)
	draw.Draw(paletted, b, opaque, image.Point{}, draw.Src)

	colors := make([]picture.Pixel, len(paletted.Palette))
	for i, c := range paletted.Palette {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		colors[i] = picture.Pixel{R: n.R, G: n.G, B: n.B, A: 0xFF}
	}

	dst := picture.MustNew(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		srow, drow := src.Row(y), dst.Row(y)
		for x := range drow {
			q := colors[paletted.ColorIndexAt(x, y)]
			q.A = srow[x].A
			drow[x] = q
		}
	}
	dst.Classify()
	return dst, colors, nil
}
