package resample

import (
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/AnyUserName/tkpic/internal/logging"
	"github.com/AnyUserName/tkpic/internal/picture"
)

// parallelThreshold is the pixel count above which passes are split
// across goroutines.
const parallelThreshold = 1 << 16

// Resample resizes src into dst using hf horizontally and vf vertically.
// The size of dst is the target size. Alpha is filtered exactly like the
// color channels. An axis whose length does not change is copied.
func Resample(dst, src *picture.Picture, hf, vf *Filter) {
	sw, sh := src.Width(), src.Height()
	dw, dh := dst.Width(), dst.Height()
	if sw == dw && sh == dh {
		picture.CopyArea(dst, src, src.Bounds(), image.Point{})
		inheritFlags(dst, src)
		return
	}

	logging.L().Debug("resample",
		"src", fmt.Sprintf("%dx%d", sw, sh),
		"dst", fmt.Sprintf("%dx%d", dw, dh),
		"hfilter", hf.Name, "vfilter", vf.Name)

	tmp := src
	if dw != sw {
		tmp = picture.MustNew(dw, sh)
		horizontalPass(tmp, src, computeWeights(sw, dw, hf))
	}
	if dh != sh {
		verticalPass(dst, tmp, computeWeights(sh, dh, vf))
	} else {
		picture.CopyArea(dst, tmp, tmp.Bounds(), image.Point{})
	}
	inheritFlags(dst, src)
}

// ResampleByName is Resample with filters looked up by name.
func ResampleByName(dst, src *picture.Picture, hname, vname string) error {
	hf, err := Lookup(hname)
	if err != nil {
		return err
	}
	vf, err := Lookup(vname)
	if err != nil {
		return err
	}
	Resample(dst, src, hf, vf)
	return nil
}

// Resize returns a new w×h picture resampled from src with f on both axes.
func Resize(src *picture.Picture, w, h int, f *Filter) (*picture.Picture, error) {
	dst, err := picture.New(w, h)
	if err != nil {
		return nil, fmt.Errorf("resize: %w", err)
	}
	Resample(dst, src, f, f)
	return dst, nil
}

// inheritFlags reclassifies dst, since filtering can turn a binary mask
// into partial alpha, and carries over the association of src.
func inheritFlags(dst, src *picture.Picture) {
	dst.ClearFlags(picture.FlagAssociated)
	dst.Classify()
	dst.SetFlags(src.Flags()&picture.FlagAssociated | picture.FlagDirty)
}

func horizontalPass(dst, src *picture.Picture, samples []sample) {
	parallelRows(dst.Height(), dst.Width(), func(lo, hi int) {
		for y := lo; y < hi; y++ {
			srow, drow := src.Row(y), dst.Row(y)
			for x, s := range samples {
				var r, g, b, a int32
				for i, w := range s.weights {
					c := srow[s.start+i]
					r += w * int32(c.R)
					g += w * int32(c.G)
					b += w * int32(c.B)
					a += w * int32(c.A)
				}
				drow[x] = picture.Pixel{R: clamp(r), G: clamp(g), B: clamp(b), A: clamp(a)}
			}
		}
	})
}

func verticalPass(dst, src *picture.Picture, samples []sample) {
	w := dst.Width()
	parallelRows(dst.Height(), w, func(lo, hi int) {
		acc := make([]int32, 4*w)
		for y := lo; y < hi; y++ {
			clear(acc)
			s := samples[y]
			for i, wt := range s.weights {
				srow := src.Row(s.start + i)
				for x, c := range srow {
					acc[4*x] += wt * int32(c.R)
					acc[4*x+1] += wt * int32(c.G)
					acc[4*x+2] += wt * int32(c.B)
					acc[4*x+3] += wt * int32(c.A)
				}
			}
			drow := dst.Row(y)
			for x := range drow {
				drow[x] = picture.Pixel{
					R: clamp(acc[4*x]),
					G: clamp(acc[4*x+1]),
					B: clamp(acc[4*x+2]),
					A: clamp(acc[4*x+3]),
				}
			}
		}
	})
}

// clamp rounds a fixed-point sum to a channel value.
func clamp(v int32) uint8 {
	v = (v + one/2) >> fracBits
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// parallelRows calls fn over disjoint [lo, hi) row ranges. Small pictures
// run on the calling goroutine.
func parallelRows(rows, width int, fn func(lo, hi int)) {
	workers := runtime.GOMAXPROCS(0)
	if rows*width < parallelThreshold || workers < 2 || rows < 2 {
		fn(0, rows)
		return
	}
	chunk := (rows + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < rows; lo += chunk {
		hi := min(lo+chunk, rows)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
