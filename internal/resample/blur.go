package resample

import (
	"image"

	"github.com/AnyUserName/tkpic/internal/picture"
)

// blurPasses is the number of box-car repetitions Blur applies. Three
// passes approximate a Gaussian.
const blurPasses = 3

// TentHorizontally blurs each row of src into dst with the 3-tap [1 2 1]/4
// kernel. Samples beyond the edges replicate the edge pixel. dst and src
// may be the same picture; only the overlapping size is processed.
func TentHorizontally(dst, src *picture.Picture) {
	w, h := min(dst.Width(), src.Width()), min(dst.Height(), src.Height())
	line := make([]picture.Pixel, w)
	for y := 0; y < h; y++ {
		copy(line, src.Row(y)[:w])
		drow := dst.Row(y)
		for x := range line {
			drow[x] = tent(line[max(x-1, 0)], line[x], line[min(x+1, w-1)])
		}
	}
	dst.SetFlags(picture.FlagDirty)
}

// TentVertically is TentHorizontally applied to columns.
func TentVertically(dst, src *picture.Picture) {
	w, h := min(dst.Width(), src.Width()), min(dst.Height(), src.Height())
	prev := make([]picture.Pixel, w)
	cur := make([]picture.Pixel, w)
	copy(prev, src.Row(0)[:w])
	copy(cur, prev)
	for y := 0; y < h; y++ {
		next := src.Row(min(y+1, h-1))[:w]
		drow := dst.Row(y)
		for x := range cur {
			drow[x] = tent(prev[x], cur[x], next[x])
		}
		prev, cur = cur, prev
		copy(cur, next)
	}
	dst.SetFlags(picture.FlagDirty)
}

func tent(a, b, c picture.Pixel) picture.Pixel {
	return picture.Pixel{
		R: uint8((uint32(a.R) + 2*uint32(b.R) + uint32(c.R) + 2) >> 2),
		G: uint8((uint32(a.G) + 2*uint32(b.G) + uint32(c.G) + 2) >> 2),
		B: uint8((uint32(a.B) + 2*uint32(b.B) + uint32(c.B) + 2) >> 2),
		A: uint8((uint32(a.A) + 2*uint32(b.A) + uint32(c.A) + 2) >> 2),
	}
}

// Blur writes src blurred with radius r into dst. Each pass runs a
// horizontal then a vertical box-car of width 2r+1 using running sums;
// neighbors beyond the edges replicate the edge pixel. r < 1 copies.
func Blur(dst, src *picture.Picture, r int) {
	work := src.Clone()
	if r >= 1 {
		tmp := picture.MustNew(work.Width(), work.Height())
		for range blurPasses {
			boxHorizontal(tmp, work, r)
			boxVertical(work, tmp, r)
		}
	}
	picture.CopyArea(dst, work, work.Bounds(), image.Point{})
	dst.SetFlags(picture.FlagDirty)
}

// accum is a running per-channel sum.
type accum struct{ r, g, b, a int32 }

func (s *accum) add(c picture.Pixel) {
	s.r += int32(c.R)
	s.g += int32(c.G)
	s.b += int32(c.B)
	s.a += int32(c.A)
}

func (s *accum) sub(c picture.Pixel) {
	s.r -= int32(c.R)
	s.g -= int32(c.G)
	s.b -= int32(c.B)
	s.a -= int32(c.A)
}

func (s *accum) mean(n int32) picture.Pixel {
	h := n / 2
	return picture.Pixel{
		R: uint8((s.r + h) / n),
		G: uint8((s.g + h) / n),
		B: uint8((s.b + h) / n),
		A: uint8((s.a + h) / n),
	}
}

func boxHorizontal(dst, src *picture.Picture, r int) {
	w := src.Width()
	n := int32(2*r + 1)
	parallelRows(src.Height(), w, func(lo, hi int) {
		for y := lo; y < hi; y++ {
			srow, drow := src.Row(y), dst.Row(y)
			var s accum
			for i := -r; i <= r; i++ {
				s.add(srow[min(max(i, 0), w-1)])
			}
			for x := range drow {
				drow[x] = s.mean(n)
				s.add(srow[min(x+r+1, w-1)])
				s.sub(srow[max(x-r, 0)])
			}
		}
	})
}

func boxVertical(dst, src *picture.Picture, r int) {
	w, h := src.Width(), src.Height()
	n := int32(2*r + 1)
	sums := make([]accum, w)
	for i := -r; i <= r; i++ {
		row := src.Row(min(max(i, 0), h-1))
		for x := range sums {
			sums[x].add(row[x])
		}
	}
	for y := 0; y < h; y++ {
		drow := dst.Row(y)
		in := src.Row(min(y+r+1, h-1))
		out := src.Row(max(y-r, 0))
		for x := range drow {
			drow[x] = sums[x].mean(n)
			sums[x].add(in[x])
			sums[x].sub(out[x])
		}
	}
}
