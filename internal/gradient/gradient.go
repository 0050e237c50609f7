// Package gradient fills pictures with color ramps.
package gradient

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/AnyUserName/tkpic/internal/picture"
)

// Shape selects how the ramp parameter follows the pixel position.
type Shape uint8

const (
	Linear Shape = iota
	Bilinear
	Radial
	Rectangular
)

// Path is the direction of linear and bilinear ramps.
type Path uint8

const (
	X Path = iota
	Y
	XY // top-left to bottom-right
	YX // top-right to bottom-left
)

var (
	shapeNames = [...]string{"linear", "bilinear", "radial", "rectangular"}
	pathNames  = [...]string{"x", "y", "xy", "yx"}
)

func (s Shape) String() string { return nameOf(shapeNames[:], int(s), "Shape") }
func (p Path) String() string  { return nameOf(pathNames[:], int(p), "Path") }

func nameOf(names []string, i int, kind string) string {
	if i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("%s(%d)", kind, i)
}

// ParseShape returns the shape with the given name.
func ParseShape(name string) (Shape, error) {
	for i, n := range shapeNames {
		if strings.EqualFold(n, name) {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("gradient: unknown shape %q", name)
}

// ParsePath returns the path with the given name.
func ParsePath(name string) (Path, error) {
	for i, n := range pathNames {
		if strings.EqualFold(n, name) {
			return Path(i), nil
		}
	}
	return 0, fmt.Errorf("gradient: unknown path %q", name)
}

// Spec describes a ramp.
type Spec struct {
	Shape Shape
	Path  Path
	// Jitter perturbs the ramp parameter by up to ±5% of itself.
	Jitter bool
	// Logarithmic remaps t to log10(9t+1).
	Logarithmic bool
	// Seed drives the jitter; equal seeds give equal pictures.
	Seed uint64
}

// Render fills p with a ramp from low (t = 0) to high (t = 1).
func Render(p *picture.Picture, spec Spec, low, high picture.Pixel) {
	w, h := p.Width(), p.Height()
	var rng *rand.Rand
	if spec.Jitter {
		rng = rand.New(rand.NewPCG(spec.Seed, spec.Seed^0x9e3779b97f4a7c15))
	}

	for y := 0; y < h; y++ {
		row := p.Row(y)
		for x := range row {
			t := spec.param(x, y, w, h)
			if rng != nil {
				t = clamp01(t + t*(0.05-rng.Float64()*0.10))
			}
			if spec.Logarithmic {
				t = math.Log10(9*t + 1)
			}
			row[x] = lerp(low, high, t)
		}
	}
	p.ClearFlags(picture.FlagAssociated)
	p.Classify()
	p.SetFlags(picture.FlagDirty)
}

// param returns the ramp parameter in [0, 1] at (x, y).
func (s Spec) param(x, y, w, h int) float64 {
	tx, ty := fraction(x, w), fraction(y, h)
	switch s.Shape {
	case Bilinear:
		return 1 - math.Abs(2*s.linear(tx, ty)-1)
	case Radial:
		cx, cy := float64(w-1)/2, float64(h-1)/2
		maxd := math.Hypot(cx, cy)
		if maxd == 0 {
			return 1
		}
		return clamp01(1 - math.Hypot(float64(x)-cx, float64(y)-cy)/maxd)
	case Rectangular:
		ex := min(tx, 1-tx)
		ey := min(ty, 1-ty)
		if w == 1 {
			ex = 0.5
		}
		if h == 1 {
			ey = 0.5
		}
		return clamp01(2 * min(ex, ey))
	default:
		return s.linear(tx, ty)
	}
}

func (s Spec) linear(tx, ty float64) float64 {
	switch s.Path {
	case Y:
		return ty
	case XY:
		return (tx + ty) / 2
	case YX:
		return ((1 - tx) + ty) / 2
	default:
		return tx
	}
}

// fraction is i/(n-1), or 0 for a single pixel.
func fraction(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}

func clamp01(t float64) float64 { return min(max(t, 0), 1) }

func lerp(a, b picture.Pixel, t float64) picture.Pixel {
	ch := func(u, v uint8) uint8 {
		return uint8(math.Round(float64(u) + (float64(v)-float64(u))*t))
	}
	return picture.Pixel{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B), A: ch(a.A, b.A)}
}
