package picture

import "image"

// ClipArea clips the source rectangle sr, whose top-left corner lands on dp
// in dst, against the bounds of both pictures. It returns the clipped
// source rectangle and the destination point of its top-left corner. An
// empty rectangle means there is nothing to do.
func ClipArea(dst, src *Picture, sr image.Rectangle, dp image.Point) (image.Rectangle, image.Point) {
	delta := dp.Sub(sr.Min)
	sr = sr.Intersect(src.Bounds()).Intersect(dst.Bounds().Sub(delta))
	if sr.Empty() {
		return image.Rectangle{}, dp
	}
	return sr, sr.Min.Add(delta)
}

// CopyArea copies the sr region of src to dst at dp, clipped to both
// pictures. A disjoint region is a no-op.
func CopyArea(dst, src *Picture, sr image.Rectangle, dp image.Point) {
	sr, dp = ClipArea(dst, src, sr, dp)
	if sr.Empty() {
		return
	}
	for y := 0; y < sr.Dy(); y++ {
		copy(dst.Row(dp.Y + y)[dp.X:dp.X+sr.Dx()], src.Row(sr.Min.Y + y)[sr.Min.X:sr.Max.X])
	}
	dst.flags |= FlagDirty
}

// Greyscale replaces every color by its luma, keeping alpha.
func (p *Picture) Greyscale() {
	for y := 0; y < p.height; y++ {
		row := p.Row(y)
		for x, c := range row {
			v := uint8((uint32(c.R)*77 + uint32(c.G)*151 + uint32(c.B)*28) >> 8)
			row[x] = Pixel{v, v, v, c.A}
		}
	}
	p.flags &^= FlagColor
	p.flags |= FlagDirty
}

// ZeroTransparent sets the color of every fully transparent pixel to
// black. Filters weigh colors regardless of alpha, so a hidden color would
// otherwise bleed into visible neighbors.
func (p *Picture) ZeroTransparent() {
	for y := 0; y < p.height; y++ {
		row := p.Row(y)
		for x, c := range row {
			if c.A == 0 && c != (Pixel{}) {
				row[x] = Pixel{}
			}
		}
	}
	p.flags |= FlagDirty
}
