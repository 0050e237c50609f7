package transform

import (
	"fmt"
	"image"

	"github.com/AnyUserName/tkpic/internal/picture"
)

// Flip mirrors p in place: top to bottom when vertically is set, left to
// right otherwise.
func Flip(p *picture.Picture, vertically bool) {
	w, h := p.Width(), p.Height()
	if vertically {
		tmp := make([]picture.Pixel, w)
		for y := 0; y < h/2; y++ {
			a, b := p.Row(y), p.Row(h-1-y)
			copy(tmp, a)
			copy(a, b)
			copy(b, tmp)
		}
	} else {
		for y := 0; y < h; y++ {
			row := p.Row(y)
			for i, j := 0, w-1; i < j; i, j = i+1, j-1 {
				row[i], row[j] = row[j], row[i]
			}
		}
	}
	p.SetFlags(picture.FlagDirty)
}

// Scale returns the sr region of src resized to w×h by nearest-neighbor
// sampling: destination index d reads source index floor(d·scale).
func Scale(src *picture.Picture, sr image.Rectangle, w, h int) (*picture.Picture, error) {
	sr = sr.Intersect(src.Bounds())
	if sr.Empty() {
		return nil, fmt.Errorf("scale: empty source region: %w", picture.ErrInvalidDimension)
	}
	dst, err := picture.New(w, h)
	if err != nil {
		return nil, fmt.Errorf("scale: %w", err)
	}

	xs := indexMap(sr.Min.X, sr.Dx(), w)
	ys := indexMap(sr.Min.Y, sr.Dy(), h)
	for y, sy := range ys {
		drow := dst.Row(y)
		if y > 0 && sy == ys[y-1] {
			copy(drow, dst.Row(y-1))
			continue
		}
		srow := src.Row(sy)
		for x, sx := range xs {
			drow[x] = srow[sx]
		}
	}
	dst.Classify()
	dst.SetFlags(src.Flags()&picture.FlagAssociated | picture.FlagDirty)
	return dst, nil
}

// indexMap lists, for each of n destination indices, the source index in
// [start, start+length) it samples.
func indexMap(start, length, n int) []int {
	m := make([]int, n)
	for i := range m {
		m[i] = start + min(i*length/n, length-1)
	}
	return m
}

// Crop returns a copy of the r region of src, clipped to src.
func Crop(src *picture.Picture, r image.Rectangle) (*picture.Picture, error) {
	r = r.Intersect(src.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("crop: empty region: %w", picture.ErrInvalidDimension)
	}
	dst := picture.MustNew(r.Dx(), r.Dy())
	picture.CopyArea(dst, src, r, image.Point{})
	dst.Classify()
	dst.SetFlags(src.Flags()&picture.FlagAssociated | picture.FlagDirty)
	return dst, nil
}
