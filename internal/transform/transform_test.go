package transform

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnyUserName/tkpic/internal/picture"
)

var (
	red   = picture.Pixel{R: 255, A: 255}
	blue  = picture.Pixel{B: 255, A: 255}
	white = picture.Pixel{R: 255, G: 255, B: 255, A: 255}
)

// numbered gives every pixel a unique value so permutations are visible.
func numbered(w, h int) *picture.Picture {
	p := picture.MustNew(w, h)
	for y := 0; y < h; y++ {
		row := p.Row(y)
		for x := range row {
			row[x] = picture.Pixel{R: uint8(x), G: uint8(y), B: uint8(x*h + y), A: 255}
		}
	}
	p.Classify()
	return p
}

func solid(w, h int, c picture.Pixel) *picture.Picture {
	p := picture.MustNew(w, h)
	p.Blank(c)
	return p
}

// ─── right angles ────────────────────────────────────────────

func TestRotate90Convention(t *testing.T) {
	src := numbered(10, 10)
	dst := Rotate90(src)
	require.Equal(t, 10, dst.Width())
	require.Equal(t, 10, dst.Height())
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			require.Equal(t, src.PixelAt(x, y), dst.PixelAt(y, 9-x), "(%d,%d)", x, y)
		}
	}
}

func TestRotate90SwapsDimensions(t *testing.T) {
	src := numbered(7, 3)
	dst := Rotate90(src)
	assert.Equal(t, 3, dst.Width())
	assert.Equal(t, 7, dst.Height())
	// top-right corner moves to top-left
	assert.Equal(t, src.PixelAt(6, 0), dst.PixelAt(0, 0))

	dst = Rotate270(src)
	assert.Equal(t, 3, dst.Width())
	assert.Equal(t, 7, dst.Height())
	// top-left corner moves to top-right
	assert.Equal(t, src.PixelAt(0, 0), dst.PixelAt(2, 0))
}

func TestRightAngleCompositions(t *testing.T) {
	src := numbered(6, 4)
	assert.True(t, picture.Equal(src, Rotate270(Rotate90(src))))
	assert.True(t, picture.Equal(Rotate180(src), Rotate90(Rotate90(src))))
	assert.True(t, picture.Equal(Rotate270(src), Rotate90(Rotate180(src))))
	assert.True(t, picture.Equal(src, Rotate180(Rotate180(src))))
}

func TestRotateRightAnglesAreExact(t *testing.T) {
	src := numbered(6, 4)
	tests := []struct {
		deg  float64
		want *picture.Picture
	}{
		{0, src},
		{360, src},
		{-360, src},
		{720, src},
		{90, Rotate90(src)},
		{450, Rotate90(src)},
		{-270, Rotate90(src)},
		{180, Rotate180(src)},
		{-180, Rotate180(src)},
		{270, Rotate270(src)},
		{-90, Rotate270(src)},
	}
	for _, tt := range tests {
		got := Rotate(src, tt.deg, blue)
		assert.True(t, picture.Equal(tt.want, got), "%v°", tt.deg)
		assert.False(t, got.IsBlended(), "%v°", tt.deg)
	}
}

func TestRotateReturnsNewPicture(t *testing.T) {
	src := numbered(3, 3)
	dst := Rotate(src, 360, blue)
	dst.SetPixel(0, 0, white)
	assert.NotEqual(t, white, src.PixelAt(0, 0))
}

// ─── three-shear rotation ────────────────────────────────────

func TestRotateDimensions(t *testing.T) {
	src := solid(40, 20, red)
	tests := []struct {
		deg  float64
		w, h int
	}{
		{30, 45, 38},
		{-30, 45, 38},
		{45, 43, 43},
		{-45, 43, 43},
		{10, 43, 27},
		{120, 38, 45}, // 90 + 30 on the turned 20x40 picture
	}
	for _, tt := range tests {
		dst := Rotate(src, tt.deg, picture.Pixel{})
		assert.Equal(t, tt.w, dst.Width(), "%v° width", tt.deg)
		assert.Equal(t, tt.h, dst.Height(), "%v° height", tt.deg)
	}
}

func TestRotateShearFillsBackground(t *testing.T) {
	dst := Rotate(solid(40, 20, red), 30, blue)
	w, h := dst.Width(), dst.Height()
	assert.Equal(t, red, dst.PixelAt(w/2, h/2))
	for _, pt := range []image.Point{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}} {
		assert.Equal(t, blue, dst.PixelAt(pt.X, pt.Y), "corner %v", pt)
	}
	assert.True(t, dst.IsBlended())
	assert.False(t, dst.IsMasked())
}

func TestRotateShearConservesCoverage(t *testing.T) {
	dst := Rotate(solid(40, 20, red), 30, picture.Pixel{})
	var alpha int
	for y := 0; y < dst.Height(); y++ {
		for _, c := range dst.Row(y) {
			alpha += int(c.A)
		}
	}
	assert.InDelta(t, 40*20, float64(alpha)/255, 8)
}

func TestRotateShearDirection(t *testing.T) {
	// A marker right of center moves up when turned counter-clockwise.
	src := picture.MustNew(21, 21)
	src.SetPixel(15, 10, white)
	dst := Rotate(src, 20, picture.Pixel{})
	require.Equal(t, 27, dst.Width())
	require.Equal(t, 27, dst.Height())

	var best image.Point
	var bestA uint8
	for y := 0; y < dst.Height(); y++ {
		for x, c := range dst.Row(y) {
			if c.A > bestA {
				best, bestA = image.Pt(x, y), c.A
			}
		}
	}
	assert.Equal(t, image.Pt(18, 11), best)
}

func TestRotateKeepsAssociation(t *testing.T) {
	src := solid(8, 8, red)
	src.SetFlags(picture.FlagAssociated)
	for _, deg := range []float64{30, 90} {
		assert.True(t, Rotate(src, deg, picture.Pixel{}).IsAssociated(), "%v°", deg)
	}
}

func TestSkewLine(t *testing.T) {
	bg := picture.Pixel{}
	src := []picture.Pixel{{R: 200, A: 255}, {R: 100, A: 255}}

	dst := make([]picture.Pixel, 5)
	skewLine(dst, src, 2, bg)
	assert.Equal(t, []picture.Pixel{bg, bg, src[0], src[1], bg}, dst)

	skewLine(dst, src, 1.5, bg)
	assert.Equal(t, picture.Pixel{R: 100, A: 128}, dst[1])
	assert.Equal(t, picture.Pixel{R: 150, A: 255}, dst[2])
	assert.Equal(t, picture.Pixel{R: 50, A: 127}, dst[3])
	assert.Equal(t, bg, dst[4])

	skewLine(dst, src, -1, bg)
	assert.Equal(t, []picture.Pixel{src[1], bg, bg, bg, bg}, dst)
}

// ─── flips ───────────────────────────────────────────────────

func TestFlipInvolution(t *testing.T) {
	for _, sz := range [][2]int{{5, 4}, {4, 5}, {1, 1}, {1, 6}} {
		for _, vertical := range []bool{false, true} {
			p := numbered(sz[0], sz[1])
			orig := p.Clone()
			Flip(p, vertical)
			Flip(p, vertical)
			assert.True(t, picture.Equal(orig, p), "%v vertical=%v", sz, vertical)
		}
	}
}

func TestFlip(t *testing.T) {
	p := numbered(5, 3)
	orig := p.Clone()

	Flip(p, false)
	assert.Equal(t, orig.PixelAt(4, 1), p.PixelAt(0, 1))
	assert.Equal(t, orig.PixelAt(2, 1), p.PixelAt(2, 1))

	p = orig.Clone()
	Flip(p, true)
	assert.Equal(t, orig.PixelAt(3, 2), p.PixelAt(3, 0))
	assert.Equal(t, orig.PixelAt(3, 1), p.PixelAt(3, 1))

	Flip(p, false)
	assert.True(t, picture.Equal(Rotate180(orig), p))
}

// ─── scaling ─────────────────────────────────────────────────

func TestScaleUp(t *testing.T) {
	src := numbered(2, 2)
	dst, err := Scale(src, src.Bounds(), 4, 6)
	require.NoError(t, err)
	for y := 0; y < 6; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, src.PixelAt(x/2, y/3), dst.PixelAt(x, y), "(%d,%d)", x, y)
		}
	}
}

func TestScaleDownPicksFloor(t *testing.T) {
	src := numbered(9, 9)
	dst, err := Scale(src, src.Bounds(), 3, 3)
	require.NoError(t, err)
	assert.Equal(t, src.PixelAt(0, 0), dst.PixelAt(0, 0))
	assert.Equal(t, src.PixelAt(3, 6), dst.PixelAt(1, 2))
	assert.Equal(t, src.PixelAt(6, 6), dst.PixelAt(2, 2))
}

func TestScaleRegion(t *testing.T) {
	src := numbered(10, 10)
	dst, err := Scale(src, image.Rect(4, 2, 6, 4), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, src.PixelAt(4, 2), dst.PixelAt(0, 0))
	assert.Equal(t, src.PixelAt(5, 3), dst.PixelAt(1, 1))

	// regions hanging off the picture are clipped first
	dst, err = Scale(src, image.Rect(8, 8, 20, 20), 4, 4)
	require.NoError(t, err)
	assert.Equal(t, src.PixelAt(9, 9), dst.PixelAt(3, 3))
}

func TestScaleIdentity(t *testing.T) {
	src := numbered(7, 5)
	dst, err := Scale(src, src.Bounds(), 7, 5)
	require.NoError(t, err)
	assert.True(t, picture.Equal(src, dst))
}

func TestScaleErrors(t *testing.T) {
	src := numbered(4, 4)
	_, err := Scale(src, image.Rect(5, 5, 9, 9), 2, 2)
	assert.ErrorIs(t, err, picture.ErrInvalidDimension)
	_, err = Scale(src, src.Bounds(), 0, 2)
	assert.ErrorIs(t, err, picture.ErrInvalidDimension)
}

func TestCrop(t *testing.T) {
	src := numbered(8, 6)
	dst, err := Crop(src, image.Rect(2, 1, 5, 4))
	require.NoError(t, err)
	assert.Equal(t, 3, dst.Width())
	assert.Equal(t, 3, dst.Height())
	assert.Equal(t, src.PixelAt(2, 1), dst.PixelAt(0, 0))
	assert.Equal(t, src.PixelAt(4, 3), dst.PixelAt(2, 2))

	_, err = Crop(src, image.Rect(-5, -5, 0, 0))
	assert.ErrorIs(t, err, picture.ErrInvalidDimension)
}

func BenchmarkRotate30(b *testing.B) {
	src := numbered(256, 256)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Rotate(src, 30, picture.Pixel{})
	}
}
