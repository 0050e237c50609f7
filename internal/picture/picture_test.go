package picture

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr error
	}{
		{"1x1 minimum", 1, 1, nil},
		{"odd width", 7, 3, nil},
		{"max dimension", MaxDimension, 1, nil},
		{"zero width", 0, 10, ErrInvalidDimension},
		{"zero height", 10, 0, ErrInvalidDimension},
		{"negative width", -1, 10, ErrInvalidDimension},
		{"too wide", MaxDimension + 1, 1, ErrInvalidDimension},
		{"too tall", 1, MaxDimension + 1, ErrInvalidDimension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.w, tt.h)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.w, p.Width())
			assert.Equal(t, tt.h, p.Height())
			assert.GreaterOrEqual(t, p.Stride(), p.Width())
			assert.Zero(t, p.Stride()%rowAlign)
			assert.Len(t, p.pix, p.Stride()*p.Height())
			assert.True(t, p.IsDirty())
		})
	}
}

func TestRowIsBoundsChecked(t *testing.T) {
	p := MustNew(5, 2)
	row := p.Row(1)
	assert.Len(t, row, 5)
	assert.Equal(t, 5, cap(row), "row must not expose stride padding")
	assert.Panics(t, func() { _ = p.Row(2) })
}

// ─── scenarios ───────────────────────────────────────────────

func TestClassify_OpaqueRed(t *testing.T) {
	p := MustNew(4, 4)
	p.Blank(Pixel{R: 255, A: 255})
	p.Classify()

	assert.True(t, p.HasColor())
	assert.False(t, p.IsBlended())
	assert.False(t, p.IsMasked())
	assert.True(t, p.IsOpaque())
}

func TestClassify_BinaryMask(t *testing.T) {
	p := MustNew(2, 2)
	p.SetPixel(0, 0, Pixel{10, 10, 10, 255})
	p.SetPixel(1, 0, Pixel{20, 20, 20, 255})
	p.SetPixel(0, 1, Pixel{})
	p.SetPixel(1, 1, Pixel{})
	p.Classify()

	assert.True(t, p.IsMasked())
	assert.False(t, p.IsBlended())
	assert.False(t, p.HasColor())
	assert.False(t, p.IsOpaque())
}

func TestClassify_Blended(t *testing.T) {
	p := MustNew(3, 1)
	p.Blank(Pixel{50, 50, 50, 255})
	p.SetPixel(1, 0, Pixel{50, 50, 50, 128})
	p.SetPixel(2, 0, Pixel{})
	p.Classify()

	assert.True(t, p.IsBlended())
	assert.False(t, p.IsMasked(), "partial alpha is not a binary mask")
}

func TestClassify_AllTransparent(t *testing.T) {
	p := MustNew(2, 2)
	p.Blank(Pixel{R: 255, A: 255})
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			p.SetPixel(x, y, Pixel{})
		}
	}
	p.Classify()

	assert.False(t, p.IsMasked(), "a mask needs opaque pixels too")
	assert.False(t, p.IsBlended())
	assert.False(t, p.IsOpaque())
}

func TestBlankFlags(t *testing.T) {
	tests := []struct {
		name                         string
		c                            Pixel
		color, blended, masked, opaq bool
	}{
		{"opaque grey", Pixel{9, 9, 9, 255}, false, false, false, true},
		{"opaque blue", Pixel{0, 0, 200, 255}, true, false, false, true},
		{"transparent", Pixel{}, false, false, false, false},
		{"half", Pixel{1, 2, 3, 128}, true, true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MustNew(3, 3)
			p.Blank(tt.c)
			assert.Equal(t, tt.color, p.HasColor())
			assert.Equal(t, tt.blended, p.IsBlended())
			assert.Equal(t, tt.masked, p.IsMasked())
			assert.Equal(t, tt.opaq, p.IsOpaque())
			for y := 0; y < 3; y++ {
				for _, c := range p.Row(y) {
					require.Equal(t, tt.c, c)
				}
			}
		})
	}
}

// ─── lifecycle ───────────────────────────────────────────────

func TestResizeDiscards(t *testing.T) {
	p := MustNew(4, 4)
	p.Blank(Pixel{1, 2, 3, 255})
	p.ClearFlags(FlagDirty)

	require.NoError(t, p.Resize(6, 2))
	assert.Equal(t, 6, p.Width())
	assert.Equal(t, 2, p.Height())
	assert.True(t, p.IsDirty())
	assert.Equal(t, Pixel{}, p.PixelAt(0, 0))
}

func TestResizeFailureKeepsOriginal(t *testing.T) {
	p := MustNew(4, 4)
	p.Blank(Pixel{1, 2, 3, 255})
	before := p.Clone()

	err := p.Resize(0, 5)
	require.ErrorIs(t, err, ErrInvalidDimension)
	assert.True(t, Equal(before, p))
	assert.Equal(t, 4, p.Width())

	err = p.Adjust(MaxDimension+1, 1)
	require.ErrorIs(t, err, ErrInvalidDimension)
	assert.True(t, Equal(before, p))
}

func TestAdjustKeepsOverlap(t *testing.T) {
	p := MustNew(3, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			p.SetPixel(x, y, Pixel{uint8(x), uint8(y), 0, 255})
		}
	}

	require.NoError(t, p.Adjust(5, 2))
	assert.Equal(t, 5, p.Width())
	assert.Equal(t, 2, p.Height())
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, Pixel{uint8(x), uint8(y), 0, 255}, p.PixelAt(x, y))
		}
		assert.Equal(t, Pixel{}, p.PixelAt(4, y))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	p := MustNew(2, 2)
	p.Blank(Pixel{5, 5, 5, 255})
	c := p.Clone()
	c.SetPixel(0, 0, Pixel{})

	assert.Equal(t, Pixel{5, 5, 5, 255}, p.PixelAt(0, 0))
	assert.Equal(t, p.Flags()&^FlagDirty, c.Flags()&^FlagDirty)
}

func TestFree(t *testing.T) {
	p := MustNew(2, 2)
	p.Free()
	assert.Zero(t, p.Width())
	assert.Zero(t, p.Height())
	assert.True(t, p.Bounds().Empty())
}

// ─── areas ───────────────────────────────────────────────────

func TestClipArea(t *testing.T) {
	dst := MustNew(10, 10)
	src := MustNew(6, 6)

	sr, dp := ClipArea(dst, src, image.Rect(-2, -2, 4, 4), image.Pt(6, 0))
	assert.Equal(t, image.Rect(0, 0, 2, 4), sr)
	assert.Equal(t, image.Pt(8, 2), dp)

	sr, _ = ClipArea(dst, src, src.Bounds(), image.Pt(20, 20))
	assert.True(t, sr.Empty(), "disjoint placement must clip to nothing")

	sr, dp = ClipArea(dst, src, src.Bounds(), image.Pt(-3, -1))
	assert.Equal(t, image.Rect(3, 1, 6, 6), sr)
	assert.Equal(t, image.Pt(0, 0), dp)
}

func TestCopyArea(t *testing.T) {
	dst := MustNew(4, 4)
	src := MustNew(2, 2)
	src.Blank(Pixel{9, 8, 7, 255})

	CopyArea(dst, src, src.Bounds(), image.Pt(3, 3))
	assert.Equal(t, Pixel{9, 8, 7, 255}, dst.PixelAt(3, 3))
	assert.Equal(t, Pixel{}, dst.PixelAt(2, 2))

	CopyArea(dst, src, src.Bounds(), image.Pt(10, 10)) // no-op
}

func TestZeroTransparent(t *testing.T) {
	p := MustNew(3, 1)
	p.SetPixel(0, 0, Pixel{R: 255, A: 0})
	p.SetPixel(1, 0, Pixel{R: 255, A: 1})
	p.SetPixel(2, 0, Pixel{G: 9, B: 9, A: 255})
	p.ZeroTransparent()

	assert.Equal(t, Pixel{}, p.PixelAt(0, 0))
	assert.Equal(t, Pixel{R: 255, A: 1}, p.PixelAt(1, 0))
	assert.Equal(t, Pixel{G: 9, B: 9, A: 255}, p.PixelAt(2, 0))
	assert.True(t, p.IsDirty())
}

func TestGreyscale(t *testing.T) {
	p := MustNew(1, 1)
	p.SetPixel(0, 0, Pixel{255, 255, 255, 77})
	p.Greyscale()
	assert.Equal(t, Pixel{255, 255, 255, 77}, p.PixelAt(0, 0))
	assert.False(t, p.HasColor())
}

// ─── image bridge ────────────────────────────────────────────

func TestFromImageNRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(2, 3, 5, 5))
	img.SetNRGBA(2, 3, color.NRGBA{R: 200, G: 10, B: 20, A: 128})
	img.SetNRGBA(4, 4, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	p, err := FromImage(img)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Width())
	assert.Equal(t, 2, p.Height())
	assert.Equal(t, Pixel{200, 10, 20, 128}, p.PixelAt(0, 0))
	assert.Equal(t, Pixel{1, 2, 3, 255}, p.PixelAt(2, 1))
	assert.True(t, p.IsBlended())
	assert.True(t, p.HasColor())
}

func TestFromImageRGBAUnpremultiplies(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 64, G: 32, B: 0, A: 128})

	p, err := FromImage(img)
	require.NoError(t, err)
	c := p.PixelAt(0, 0)
	assert.InDelta(t, 128, int(c.R), 1)
	assert.InDelta(t, 64, int(c.G), 1)
	assert.Equal(t, uint8(128), c.A)
	assert.False(t, p.IsAssociated())
}

func TestFromImageEmpty(t *testing.T) {
	_, err := FromImage(image.NewNRGBA(image.Rect(0, 0, 0, 4)))
	assert.ErrorIs(t, err, ErrInvalidDimension)
}

func TestNRGBARoundTrip(t *testing.T) {
	p := MustNew(3, 2)
	p.SetPixel(0, 0, Pixel{1, 2, 3, 4})
	p.SetPixel(2, 1, Pixel{250, 240, 230, 255})

	q, err := FromImage(p.NRGBA())
	require.NoError(t, err)
	assert.True(t, Equal(p, q))
}

func TestImageInterface(t *testing.T) {
	p := MustNew(2, 2)
	p.Set(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 40})

	var img image.Image = p
	assert.Equal(t, color.NRGBAModel, img.ColorModel())
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 40}, img.At(1, 1))
	assert.Equal(t, color.NRGBA{}, img.At(5, 5))
}
