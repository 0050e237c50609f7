// Package quantize reduces the colors of a picture.
//
// Quantize implements Wu's variance-minimizing box cutter over a 33-level
// RGB histogram and maps every pixel through the resulting lookup table.
// Dither performs serpentine error diffusion against a per-channel palette.
package quantize

import (
	"fmt"

	"github.com/AnyUserName/tkpic/internal/logging"
	"github.com/AnyUserName/tkpic/internal/picture"
)

// MaxColors is the largest palette Quantize produces.
const MaxColors = 256

// side is the histogram resolution per channel: 32 levels plus a zero
// margin at index 0 that makes the inclusion-exclusion sums branch free.
const side = 33

const cells = side * side * side

func cell(r, g, b int) int { return (r*side+g)*side + b }

// histIndex maps an 8-bit channel to its histogram level.
func histIndex(v uint8) int { return int(v>>3) + 1 }

type axis uint8

const (
	axisR axis = iota
	axisG
	axisB
)

// moments are the cumulative histogram tables.
type moments struct {
	wt, mr, mg, mb []int64
	m2             []float64
}

func newMoments(src *picture.Picture) *moments {
	m := &moments{
		wt: make([]int64, cells),
		mr: make([]int64, cells),
		mg: make([]int64, cells),
		mb: make([]int64, cells),
		m2: make([]float64, cells),
	}
	for y := 0; y < src.Height(); y++ {
		for _, c := range src.Row(y) {
			i := cell(histIndex(c.R), histIndex(c.G), histIndex(c.B))
			r, g, b := int64(c.R), int64(c.G), int64(c.B)
			m.wt[i]++
			m.mr[i] += r
			m.mg[i] += g
			m.mb[i] += b
			m.m2[i] += float64(r*r + g*g + b*b)
		}
	}
	m.accumulate()
	return m
}

// accumulate turns the histogram into running sums so that m[r][g][b]
// holds the total over [1..r]×[1..g]×[1..b].
func (m *moments) accumulate() {
	var area [side]int64
	var areaR, areaG, areaB [side]int64
	var area2 [side]float64
	for r := 1; r < side; r++ {
		clear(area[:])
		clear(areaR[:])
		clear(areaG[:])
		clear(areaB[:])
		clear(area2[:])
		for g := 1; g < side; g++ {
			var line, lineR, lineG, lineB int64
			var line2 float64
			for b := 1; b < side; b++ {
				i := cell(r, g, b)
				line += m.wt[i]
				lineR += m.mr[i]
				lineG += m.mg[i]
				lineB += m.mb[i]
				line2 += m.m2[i]
				area[b] += line
				areaR[b] += lineR
				areaG[b] += lineG
				areaB[b] += lineB
				area2[b] += line2
				p := cell(r-1, g, b)
				m.wt[i] = m.wt[p] + area[b]
				m.mr[i] = m.mr[p] + areaR[b]
				m.mg[i] = m.mg[p] + areaG[b]
				m.mb[i] = m.mb[p] + areaB[b]
				m.m2[i] = m.m2[p] + area2[b]
			}
		}
	}
}

// box is the half-open color cuboid (r0, r1]×(g0, g1]×(b0, b1] in
// histogram levels.
type box struct {
	r0, r1, g0, g1, b0, b1 int

	// best split, refreshed whenever the box changes
	gain float64
	dir  axis
	cut  int
}

// volume sums t over the box by inclusion-exclusion of its eight corners.
func volume[T int64 | float64](bx *box, t []T) T {
	return t[cell(bx.r1, bx.g1, bx.b1)] -
		t[cell(bx.r1, bx.g1, bx.b0)] -
		t[cell(bx.r1, bx.g0, bx.b1)] +
		t[cell(bx.r1, bx.g0, bx.b0)] -
		t[cell(bx.r0, bx.g1, bx.b1)] +
		t[cell(bx.r0, bx.g1, bx.b0)] +
		t[cell(bx.r0, bx.g0, bx.b1)] -
		t[cell(bx.r0, bx.g0, bx.b0)]
}

// bottom is the part of volume that does not depend on the upper bound
// along dir.
func bottom(bx *box, dir axis, t []int64) int64 {
	switch dir {
	case axisR:
		return -t[cell(bx.r0, bx.g1, bx.b1)] +
			t[cell(bx.r0, bx.g1, bx.b0)] +
			t[cell(bx.r0, bx.g0, bx.b1)] -
			t[cell(bx.r0, bx.g0, bx.b0)]
	case axisG:
		return -t[cell(bx.r1, bx.g0, bx.b1)] +
			t[cell(bx.r1, bx.g0, bx.b0)] +
			t[cell(bx.r0, bx.g0, bx.b1)] -
			t[cell(bx.r0, bx.g0, bx.b0)]
	default:
		return -t[cell(bx.r1, bx.g1, bx.b0)] +
			t[cell(bx.r1, bx.g0, bx.b0)] +
			t[cell(bx.r0, bx.g1, bx.b0)] -
			t[cell(bx.r0, bx.g0, bx.b0)]
	}
}

// top is the remainder of volume with the upper bound along dir moved
// to pos.
func top(bx *box, dir axis, pos int, t []int64) int64 {
	switch dir {
	case axisR:
		return t[cell(pos, bx.g1, bx.b1)] -
			t[cell(pos, bx.g1, bx.b0)] -
			t[cell(pos, bx.g0, bx.b1)] +
			t[cell(pos, bx.g0, bx.b0)]
	case axisG:
		return t[cell(bx.r1, pos, bx.b1)] -
			t[cell(bx.r1, pos, bx.b0)] -
			t[cell(bx.r0, pos, bx.b1)] +
			t[cell(bx.r0, pos, bx.b0)]
	default:
		return t[cell(bx.r1, bx.g1, pos)] -
			t[cell(bx.r1, bx.g0, pos)] -
			t[cell(bx.r0, bx.g1, pos)] +
			t[cell(bx.r0, bx.g0, pos)]
	}
}

func (bx *box) bounds(dir axis) (lo, hi int) {
	switch dir {
	case axisR:
		return bx.r0, bx.r1
	case axisG:
		return bx.g0, bx.g1
	default:
		return bx.b0, bx.b1
	}
}

// evaluate finds the cut of bx that maximizes the between-group sum of
// squares and stores it with its gain over the uncut box. A box that
// cannot be split gets a gain of zero.
func (m *moments) evaluate(bx *box) {
	wholeW := volume(bx, m.wt)
	wholeR := volume(bx, m.mr)
	wholeG := volume(bx, m.mg)
	wholeB := volume(bx, m.mb)
	base := sumSq(wholeR, wholeG, wholeB) / float64(wholeW)

	bx.gain, bx.cut = 0, -1
	for _, dir := range [...]axis{axisR, axisG, axisB} {
		baseW := bottom(bx, dir, m.wt)
		baseR := bottom(bx, dir, m.mr)
		baseG := bottom(bx, dir, m.mg)
		baseB := bottom(bx, dir, m.mb)
		lo, hi := bx.bounds(dir)
		for pos := lo + 1; pos < hi; pos++ {
			halfW := baseW + top(bx, dir, pos, m.wt)
			if halfW == 0 {
				continue
			}
			if halfW == wholeW {
				break
			}
			halfR := baseR + top(bx, dir, pos, m.mr)
			halfG := baseG + top(bx, dir, pos, m.mg)
			halfB := baseB + top(bx, dir, pos, m.mb)
			score := sumSq(halfR, halfG, halfB)/float64(halfW) +
				sumSq(wholeR-halfR, wholeG-halfG, wholeB-halfB)/float64(wholeW-halfW)
			if gain := score - base; gain > bx.gain {
				bx.gain, bx.dir, bx.cut = gain, dir, pos
			}
		}
	}
}

// variance is the within-box sum of squared distances to the box mean.
func (m *moments) variance(bx *box) float64 {
	w := volume(bx, m.wt)
	if w == 0 {
		return 0
	}
	return volume(bx, m.m2) - sumSq(volume(bx, m.mr), volume(bx, m.mg), volume(bx, m.mb))/float64(w)
}

func sumSq(r, g, b int64) float64 {
	fr, fg, fb := float64(r), float64(g), float64(b)
	return fr*fr + fg*fg + fb*fb
}

// split cuts bx at its stored best position and returns the upper half.
func (bx *box) split() box {
	hi := box{r0: bx.r0, r1: bx.r1, g0: bx.g0, g1: bx.g1, b0: bx.b0, b1: bx.b1}
	switch bx.dir {
	case axisR:
		hi.r0, bx.r1 = bx.cut, bx.cut
	case axisG:
		hi.g0, bx.g1 = bx.cut, bx.cut
	default:
		hi.b0, bx.b1 = bx.cut, bx.cut
	}
	return hi
}

// Table maps reduced-precision RGB to a representative color.
type Table struct {
	lut      []uint8
	colors   []picture.Pixel
	variance float64
}

// NewTable runs Wu's quantizer over src and returns a table with at most
// k colors; k is clamped to [1, MaxColors]. Fewer colors are produced when
// src does not hold k separable colors.
func NewTable(src *picture.Picture, k int) *Table {
	k = min(max(k, 1), MaxColors)
	m := newMoments(src)

	boxes := make([]box, 1, k)
	boxes[0] = box{r1: side - 1, g1: side - 1, b1: side - 1}
	m.evaluate(&boxes[0])

	for len(boxes) < k {
		best := -1
		for i := range boxes {
			if boxes[i].cut >= 0 && (best < 0 || boxes[i].gain > boxes[best].gain) {
				best = i
			}
		}
		if best < 0 {
			break
		}
		next := boxes[best].split()
		m.evaluate(&boxes[best])
		m.evaluate(&next)
		boxes = append(boxes, next)
	}

	t := &Table{
		lut:    make([]uint8, cells),
		colors: make([]picture.Pixel, len(boxes)),
	}
	for i := range boxes {
		bx := &boxes[i]
		t.variance += m.variance(bx)
		w := volume(bx, m.wt)
		if w > 0 {
			t.colors[i] = picture.Pixel{
				R: uint8((volume(bx, m.mr) + w/2) / w),
				G: uint8((volume(bx, m.mg) + w/2) / w),
				B: uint8((volume(bx, m.mb) + w/2) / w),
				A: 0xFF,
			}
		}
		for r := bx.r0 + 1; r <= bx.r1; r++ {
			for g := bx.g0 + 1; g <= bx.g1; g++ {
				for b := bx.b0 + 1; b <= bx.b1; b++ {
					t.lut[cell(r, g, b)] = uint8(i)
				}
			}
		}
	}

	logging.L().Debug("quantize", "requested", k, "colors", len(t.colors), "variance", t.variance)
	return t
}

// Colors returns the representative colors, one per box. Alpha is 255.
func (t *Table) Colors() []picture.Pixel {
	out := make([]picture.Pixel, len(t.colors))
	copy(out, t.colors)
	return out
}

// Variance returns the summed squared error of the source against the
// table colors, before rounding.
func (t *Table) Variance() float64 { return t.variance }

// Lookup returns the representative of c with c's alpha.
func (t *Table) Lookup(c picture.Pixel) picture.Pixel {
	q := t.colors[t.lut[cell(histIndex(c.R), histIndex(c.G), histIndex(c.B))]]
	q.A = c.A
	return q
}

// MapColors writes every pixel of src, passed through the table, into
// dst at the same coordinates. Original alpha is preserved.
func (t *Table) MapColors(dst, src *picture.Picture) {
	w, h := min(dst.Width(), src.Width()), min(dst.Height(), src.Height())
	for y := 0; y < h; y++ {
		srow, drow := src.Row(y)[:w], dst.Row(y)
		for x, c := range srow {
			drow[x] = t.Lookup(c)
		}
	}
	dst.ClearFlags(picture.FlagAssociated)
	dst.Classify()
	dst.SetFlags(picture.FlagDirty)
}

// Quantize returns a copy of src reduced to at most k colors.
func Quantize(src *picture.Picture, k int) (*picture.Picture, error) {
	dst, err := picture.New(src.Width(), src.Height())
	if err != nil {
		return nil, fmt.Errorf("quantize: %w", err)
	}
	NewTable(src, k).MapColors(dst, src)
	return dst, nil
}
