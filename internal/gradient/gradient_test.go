package gradient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnyUserName/tkpic/internal/picture"
)

var (
	black = picture.Pixel{A: 255}
	white = picture.Pixel{R: 255, G: 255, B: 255, A: 255}
)

func render(w, h int, spec Spec) *picture.Picture {
	p := picture.MustNew(w, h)
	Render(p, spec, black, white)
	return p
}

func TestLinearPaths(t *testing.T) {
	tests := []struct {
		path                   Path
		topLeft, topRight, btm uint8
	}{
		{X, 0, 255, 0},
		{Y, 0, 0, 255},
		{XY, 0, 128, 128},
		{YX, 128, 0, 255},
	}
	for _, tt := range tests {
		t.Run(tt.path.String(), func(t *testing.T) {
			p := render(11, 11, Spec{Shape: Linear, Path: tt.path})
			assert.Equal(t, tt.topLeft, p.PixelAt(0, 0).R)
			assert.Equal(t, tt.topRight, p.PixelAt(10, 0).R)
			assert.Equal(t, tt.btm, p.PixelAt(0, 10).R)
			assert.Equal(t, uint8(255), p.PixelAt(5, 5).A)
		})
	}
}

func TestLinearMonotonic(t *testing.T) {
	p := render(50, 1, Spec{Shape: Linear, Path: X})
	row := p.Row(0)
	for x := 1; x < len(row); x++ {
		assert.GreaterOrEqual(t, row[x].G, row[x-1].G)
	}
}

func TestBilinearMirrors(t *testing.T) {
	p := render(11, 3, Spec{Shape: Bilinear, Path: X})
	assert.Equal(t, uint8(0), p.PixelAt(0, 1).R)
	assert.Equal(t, uint8(255), p.PixelAt(5, 1).R)
	assert.Equal(t, uint8(0), p.PixelAt(10, 1).R)
	for x := 0; x < 11; x++ {
		assert.Equal(t, p.PixelAt(x, 0), p.PixelAt(10-x, 0))
	}
}

func TestRadial(t *testing.T) {
	p := render(21, 21, Spec{Shape: Radial})
	assert.Equal(t, white, p.PixelAt(10, 10))
	assert.Equal(t, black, p.PixelAt(0, 0))
	assert.Equal(t, black, p.PixelAt(20, 20))
	assert.Equal(t, p.PixelAt(3, 10), p.PixelAt(10, 3))
}

func TestRectangular(t *testing.T) {
	p := render(21, 11, Spec{Shape: Rectangular})
	assert.Equal(t, black, p.PixelAt(0, 5))
	assert.Equal(t, black, p.PixelAt(10, 0))
	assert.Equal(t, white, p.PixelAt(10, 5))
}

func TestDegenerateSizes(t *testing.T) {
	for _, shape := range []Shape{Linear, Bilinear, Radial, Rectangular} {
		for _, sz := range [][2]int{{1, 1}, {1, 7}, {7, 1}} {
			p := render(sz[0], sz[1], Spec{Shape: shape, Path: XY})
			require.Equal(t, sz[0], p.Width())
			for y := 0; y < p.Height(); y++ {
				for _, c := range p.Row(y) {
					require.Equal(t, uint8(255), c.A, "%v %v", shape, sz)
				}
			}
		}
	}
	assert.Equal(t, white, render(1, 1, Spec{Shape: Radial}).PixelAt(0, 0))
}

func TestLogarithmic(t *testing.T) {
	plain := render(11, 1, Spec{Path: X})
	logp := render(11, 1, Spec{Path: X, Logarithmic: true})
	assert.Equal(t, plain.PixelAt(0, 0), logp.PixelAt(0, 0))
	assert.Equal(t, plain.PixelAt(10, 0), logp.PixelAt(10, 0))
	// log10(9*0.5+1) ≈ 0.74
	assert.Equal(t, uint8(189), logp.PixelAt(5, 0).R)
	assert.Greater(t, logp.PixelAt(2, 0).R, plain.PixelAt(2, 0).R)
}

func TestJitter(t *testing.T) {
	spec := Spec{Shape: Linear, Path: X, Jitter: true, Seed: 42}
	a := render(64, 8, spec)
	b := render(64, 8, spec)
	assert.True(t, picture.Equal(a, b), "same seed, same picture")

	spec.Seed = 43
	c := render(64, 8, spec)
	assert.False(t, picture.Equal(a, c))

	plain := render(64, 8, Spec{Shape: Linear, Path: X})
	for y := 0; y < 8; y++ {
		for x, px := range a.Row(y) {
			want := float64(plain.PixelAt(x, y).R)
			assert.InDelta(t, want, float64(px.R), want*0.05+1, "(%d,%d)", x, y)
		}
	}
}

func TestRenderTranslucentEndpoints(t *testing.T) {
	p := picture.MustNew(5, 1)
	Render(p, Spec{Path: X}, picture.Pixel{R: 255}, picture.Pixel{R: 255, A: 255})
	assert.True(t, p.IsBlended())
	assert.True(t, p.HasColor())
	assert.Equal(t, uint8(128), p.PixelAt(2, 0).A)
}

func TestParse(t *testing.T) {
	for i, n := range shapeNames {
		s, err := ParseShape(n)
		require.NoError(t, err)
		assert.Equal(t, Shape(i), s)
	}
	for i, n := range pathNames {
		p, err := ParsePath(n)
		require.NoError(t, err)
		assert.Equal(t, Path(i), p)
	}
	p, err := ParsePath("YX")
	require.NoError(t, err)
	assert.Equal(t, YX, p)

	_, err = ParseShape("conical")
	assert.Error(t, err)
	_, err = ParsePath("z")
	assert.Error(t, err)
}
