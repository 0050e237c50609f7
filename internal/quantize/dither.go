package quantize

import "github.com/AnyUserName/tkpic/internal/picture"

// Palette maps an intensity to the nearest available level, independently
// per channel: pal[v].R is the red level closest to red intensity v.
type Palette [256]picture.Pixel

// diffusion holds, for intensities 0..127, the error shares sent to the
// next pixel in scan order, the pixel below and behind, and the pixel
// below, followed by their sum. Intensities above 127 mirror the table.
var diffusion = [128][4]int32{
	{13, 0, 5, 18}, {13, 0, 5, 18}, {21, 0, 10, 31}, {7, 0, 4, 11},
	{8, 0, 5, 13}, {47, 3, 28, 78}, {23, 3, 13, 39}, {15, 3, 8, 26},
	{22, 6, 11, 39}, {43, 15, 20, 78}, {7, 3, 3, 13}, {501, 224, 211, 936},
	{249, 116, 103, 468}, {165, 80, 67, 312}, {123, 62, 49, 234}, {489, 256, 191, 936},
	{81, 44, 31, 156}, {483, 272, 181, 936}, {60, 35, 22, 117}, {53, 32, 19, 104},
	{237, 148, 83, 468}, {471, 304, 161, 936}, {3, 2, 1, 6}, {459, 304, 161, 924},
	{38, 25, 14, 77}, {453, 296, 175, 924}, {225, 146, 91, 462}, {149, 96, 63, 308},
	{111, 71, 49, 231}, {63, 40, 29, 132}, {73, 46, 35, 154}, {435, 272, 217, 924},
	{108, 67, 56, 231}, {13, 8, 7, 28}, {213, 130, 119, 462}, {423, 256, 245, 924},
	{5, 3, 3, 11}, {281, 173, 162, 616}, {141, 89, 78, 308}, {283, 183, 150, 616},
	{71, 47, 36, 154}, {285, 193, 138, 616}, {13, 9, 6, 28}, {41, 29, 18, 88},
	{36, 26, 15, 77}, {289, 213, 114, 616}, {145, 109, 54, 308}, {291, 223, 102, 616},
	{73, 57, 24, 154}, {293, 233, 90, 616}, {21, 17, 6, 44}, {295, 243, 78, 616},
	{37, 31, 9, 77}, {27, 23, 6, 56}, {149, 129, 30, 308}, {299, 263, 54, 616},
	{75, 67, 12, 154}, {43, 39, 6, 88}, {151, 139, 18, 308}, {303, 283, 30, 616},
	{38, 36, 3, 77}, {305, 293, 18, 616}, {153, 149, 6, 308}, {307, 303, 6, 616},
	{1, 1, 0, 2}, {101, 105, 2, 208}, {49, 53, 2, 104}, {95, 107, 6, 208},
	{23, 27, 2, 52}, {89, 109, 10, 208}, {43, 55, 6, 104}, {83, 111, 14, 208},
	{5, 7, 1, 13}, {172, 181, 37, 390}, {97, 76, 22, 195}, {72, 41, 17, 130},
	{119, 47, 29, 195}, {4, 1, 1, 6}, {4, 1, 1, 6}, {4, 1, 1, 6},
	{4, 1, 1, 6}, {4, 1, 1, 6}, {4, 1, 1, 6}, {4, 1, 1, 6},
	{4, 1, 1, 6}, {4, 1, 1, 6}, {65, 18, 17, 100}, {95, 29, 26, 150},
	{185, 62, 53, 300}, {30, 11, 9, 50}, {35, 14, 11, 60}, {85, 37, 28, 150},
	{55, 26, 19, 100}, {80, 41, 29, 150}, {155, 86, 59, 300}, {5, 3, 2, 10},
	{5, 3, 2, 10}, {5, 3, 2, 10}, {5, 3, 2, 10}, {5, 3, 2, 10},
	{5, 3, 2, 10}, {5, 3, 2, 10}, {5, 3, 2, 10}, {5, 3, 2, 10},
	{5, 3, 2, 10}, {5, 3, 2, 10}, {5, 3, 2, 10}, {5, 3, 2, 10},
	{305, 176, 119, 600}, {155, 86, 59, 300}, {105, 56, 39, 200}, {80, 41, 29, 150},
	{65, 32, 23, 120}, {55, 26, 19, 100}, {335, 152, 113, 600}, {85, 37, 28, 150},
	{115, 48, 37, 200}, {35, 14, 11, 60}, {355, 136, 109, 600}, {30, 11, 9, 50},
	{365, 128, 107, 600}, {185, 62, 53, 300}, {25, 8, 7, 40}, {95, 29, 26, 150},
	{385, 112, 103, 600}, {65, 18, 17, 100}, {395, 104, 101, 600}, {4, 1, 1, 6},
}

func coefficients(v int32) [4]int32 {
	if v > 127 {
		v = 255 - v
	}
	return diffusion[v]
}

// carry is the error pushed onto one pixel.
type carry struct{ r, g, b int32 }

// Dither returns src reduced to the levels of pal by serpentine error
// diffusion. Even rows run left to right and odd rows right to left. The
// diffusion weights for all three channels are chosen by the red
// intensity. Every output channel is a palette level; alpha is copied.
func Dither(src *picture.Picture, pal *Palette) *picture.Picture {
	return diffuse(src, func(r, g, b int32) picture.Pixel {
		return picture.Pixel{R: pal[r].R, G: pal[g].G, B: pal[b].B}
	})
}

// DitherColors is Dither onto a set of whole colors: each error-adjusted
// pixel becomes the nearest of colors by squared RGB distance, so every
// output pixel is one of them with its own alpha. colors must not be
// empty.
func DitherColors(src *picture.Picture, colors []picture.Pixel) *picture.Picture {
	cache := make(map[int32]picture.Pixel)
	return diffuse(src, func(r, g, b int32) picture.Pixel {
		key := r<<16 | g<<8 | b
		if c, ok := cache[key]; ok {
			return c
		}
		c := nearest(colors, r, g, b)
		cache[key] = c
		return c
	})
}

func nearest(colors []picture.Pixel, r, g, b int32) picture.Pixel {
	best, bestD := colors[0], int32(-1)
	for _, c := range colors {
		dr, dg, db := r-int32(c.R), g-int32(c.G), b-int32(c.B)
		if d := dr*dr + dg*dg + db*db; bestD < 0 || d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

// diffuse runs the serpentine scan, asking pick for the output color of
// each error-adjusted pixel. The residual goes right, down-behind and down.
func diffuse(src *picture.Picture, pick func(r, g, b int32) picture.Pixel) *picture.Picture {
	w, h := src.Width(), src.Height()
	dst := picture.MustNew(w, h)
	cur := make([]carry, w)
	next := make([]carry, w)

	for y := 0; y < h; y++ {
		srow, drow := src.Row(y), dst.Row(y)
		x, end, dir := 0, w, 1
		if y%2 == 1 {
			x, end, dir = w-1, -1, -1
		}
		for ; x != end; x += dir {
			c := srow[x]
			e := cur[x]
			vr := clampLevel(int32(c.R) + e.r)
			vg := clampLevel(int32(c.G) + e.g)
			vb := clampLevel(int32(c.B) + e.b)
			out := pick(vr, vg, vb)
			out.A = c.A
			drow[x] = out

			er := vr - int32(out.R)
			eg := vg - int32(out.G)
			eb := vb - int32(out.B)
			k := coefficients(vr)
			if f := x + dir; f >= 0 && f < w {
				cur[f].add(er, eg, eb, k[0], k[3])
			}
			if b := x - dir; b >= 0 && b < w {
				next[b].add(er, eg, eb, k[1], k[3])
			}
			next[x].add(er, eg, eb, k[2], k[3])
		}
		cur, next = next, cur
		clear(next)
	}
	dst.Classify()
	return dst
}

func (c *carry) add(er, eg, eb, num, den int32) {
	c.r += er * num / den
	c.g += eg * num / den
	c.b += eb * num / den
}

func clampLevel(v int32) int32 {
	return min(max(v, 0), 255)
}
