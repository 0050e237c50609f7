package picture

import (
	"image"
	"image/color"
)

// ColorModel implements image.Image. Associated pictures report the
// premultiplied RGBA model, all others the straight NRGBA model.
func (p *Picture) ColorModel() color.Model {
	if p.IsAssociated() {
		return color.RGBAModel
	}
	return color.NRGBAModel
}

// At implements image.Image.
func (p *Picture) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(p.Bounds())) {
		return color.NRGBA{}
	}
	c := p.PixelAt(x, y)
	if p.IsAssociated() {
		return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Set implements draw.Image.
func (p *Picture) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(p.Bounds())) {
		return
	}
	var px Pixel
	if p.IsAssociated() {
		v := color.RGBAModel.Convert(c).(color.RGBA)
		px = Pixel{v.R, v.G, v.B, v.A}
	} else {
		v := color.NRGBAModel.Convert(c).(color.NRGBA)
		px = Pixel{v.R, v.G, v.B, v.A}
	}
	p.SetPixel(x, y, px)
}

// FromImage converts any image.Image into a new Picture holding straight
// (non-premultiplied) alpha, rows top to bottom. The result is classified.
func FromImage(img image.Image) (*Picture, error) {
	b := img.Bounds()
	p, err := New(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < p.height; y++ {
			row := p.Row(y)
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := range row {
				s := src.Pix[off : off+4 : off+4]
				row[x] = Pixel{s[0], s[1], s[2], s[3]}
				off += 4
			}
		}
	case *image.RGBA:
		for y := 0; y < p.height; y++ {
			row := p.Row(y)
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := range row {
				s := src.Pix[off : off+4 : off+4]
				row[x] = unpremultiply(Pixel{s[0], s[1], s[2], s[3]})
				off += 4
			}
		}
	case *Picture:
		if !src.IsAssociated() {
			CopyArea(p, src, src.Bounds(), image.Point{})
			break
		}
		for y := 0; y < p.height; y++ {
			row, srow := p.Row(y), src.Row(y)
			for x := range row {
				row[x] = unpremultiply(srow[x])
			}
		}
	default:
		for y := 0; y < p.height; y++ {
			row := p.Row(y)
			for x := range row {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				row[x] = Pixel{c.R, c.G, c.B, c.A}
			}
		}
	}
	p.Classify()
	return p, nil
}

// NRGBA copies the picture into a standard library image with straight
// alpha, unassociating colors when needed.
func (p *Picture) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(p.Bounds())
	for y := 0; y < p.height; y++ {
		off := img.PixOffset(0, y)
		for _, c := range p.Row(y) {
			if p.IsAssociated() {
				c = unpremultiply(c)
			}
			d := img.Pix[off : off+4 : off+4]
			d[0], d[1], d[2], d[3] = c.R, c.G, c.B, c.A
			off += 4
		}
	}
	return img
}

// unpremultiply divides color by alpha with a bias of alpha/2.
func unpremultiply(c Pixel) Pixel {
	if c.A == 0 || c.A == 0xFF {
		return c
	}
	a := uint32(c.A)
	bias := a / 2
	return Pixel{
		R: clampDiv(uint32(c.R)*255+bias, a),
		G: clampDiv(uint32(c.G)*255+bias, a),
		B: clampDiv(uint32(c.B)*255+bias, a),
		A: c.A,
	}
}

func clampDiv(n, d uint32) uint8 {
	v := n / d
	if v > 255 {
		return 255
	}
	return uint8(v)
}
