package composite

import "github.com/AnyUserName/tkpic/internal/picture"

// imul8x8 returns a*b/255 rounded to nearest.
func imul8x8(a, b uint32) uint32 {
	t := a*b + 128
	return (t + (t >> 8)) >> 8
}

// Associate premultiplies the colors of p by their alpha. Pixels with alpha
// 0 or 255 are left as they are. Calling it on an associated picture does
// nothing.
func Associate(p *picture.Picture) {
	if p.IsAssociated() {
		return
	}
	for y := 0; y < p.Height(); y++ {
		row := p.Row(y)
		for x, c := range row {
			if c.A == 0 || c.A == 0xFF {
				continue
			}
			row[x] = associate(c)
		}
	}
	p.SetFlags(picture.FlagAssociated | picture.FlagDirty)
}

// Unassociate reverses Associate. Calling it on a straight picture does
// nothing.
func Unassociate(p *picture.Picture) {
	if !p.IsAssociated() {
		return
	}
	for y := 0; y < p.Height(); y++ {
		row := p.Row(y)
		for x, c := range row {
			if c.A == 0 || c.A == 0xFF {
				continue
			}
			row[x] = unassociate(c)
		}
	}
	p.ClearFlags(picture.FlagAssociated)
	p.SetFlags(picture.FlagDirty)
}

// AssociatedColor returns c premultiplied by its alpha.
func AssociatedColor(c picture.Pixel) picture.Pixel {
	if c.A == 0 || c.A == 0xFF {
		return c
	}
	return associate(c)
}

func associate(c picture.Pixel) picture.Pixel {
	a := uint32(c.A)
	return picture.Pixel{
		R: uint8(imul8x8(uint32(c.R), a)),
		G: uint8(imul8x8(uint32(c.G), a)),
		B: uint8(imul8x8(uint32(c.B), a)),
		A: c.A,
	}
}

func unassociate(c picture.Pixel) picture.Pixel {
	a := uint32(c.A)
	div := func(v uint8) uint8 {
		return uint8(min((uint32(v)*255+a/2)/a, 255))
	}
	return picture.Pixel{R: div(c.R), G: div(c.G), B: div(c.B), A: c.A}
}

// Fade lowers the alpha of every pixel by delta, stopping at zero. An
// associated picture is unassociated first.
func Fade(p *picture.Picture, delta uint8) {
	Unassociate(p)
	for y := 0; y < p.Height(); y++ {
		row := p.Row(y)
		for x := range row {
			row[x].A -= min(row[x].A, delta)
		}
	}
	p.Classify()
	p.SetFlags(picture.FlagDirty)
}
