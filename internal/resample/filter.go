// Package resample resizes pictures with separable 1-D filters.
//
// A resize runs a horizontal pass into an intermediate picture and then a
// vertical pass into the destination. Weights for each destination index
// are computed once per call from a named filter of the catalog below.
package resample

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrUnknownFilter is returned by Lookup for names not in the catalog.
var ErrUnknownFilter = errors.New("resample: unknown filter")

// Filter is a continuous kernel that is zero outside [-Support, Support].
type Filter struct {
	Name    string
	Support float64
	Kernel  func(x float64) float64
}

// catalog is never mutated after initialization.
var catalog = map[string]*Filter{
	"box":      {Name: "box", Support: 0.5, Kernel: boxKernel},
	"triangle": {Name: "triangle", Support: 1.0, Kernel: triangleKernel},
	"bell":     {Name: "bell", Support: 1.5, Kernel: bellKernel},
	"bspline":  {Name: "bspline", Support: 2.0, Kernel: bsplineKernel},
	"catrom":   {Name: "catrom", Support: 2.0, Kernel: catromKernel},
	"mitchell": {Name: "mitchell", Support: 2.0, Kernel: mitchellKernel},
	"gaussian": {Name: "gaussian", Support: 1.25, Kernel: gaussianKernel},
	"lanczos3": {Name: "lanczos3", Support: 3.0, Kernel: lanczos3Kernel},
	"sinc":     {Name: "sinc", Support: 4.0, Kernel: sincKernel},
}

var aliases = map[string]string{
	"tent": "triangle",
}

// Lookup returns the filter registered under name (case-insensitive).
func Lookup(name string) (*Filter, error) {
	key := strings.ToLower(name)
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	f, ok := catalog[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
	return f, nil
}

// MustLookup is Lookup for names known at compile time.
func MustLookup(name string) *Filter {
	f, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return f
}

// Names lists the catalog, aliases included, in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog)+len(aliases))
	for name := range catalog {
		names = append(names, name)
	}
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func boxKernel(x float64) float64 {
	if x < -0.5 || x > 0.5 {
		return 0
	}
	return 1
}

func triangleKernel(x float64) float64 {
	x = math.Abs(x)
	if x < 1 {
		return 1 - x
	}
	return 0
}

func bellKernel(x float64) float64 {
	x = math.Abs(x)
	switch {
	case x < 0.5:
		return 0.75 - x*x
	case x < 1.5:
		x -= 1.5
		return 0.5 * x * x
	}
	return 0
}

func bsplineKernel(x float64) float64 {
	x = math.Abs(x)
	switch {
	case x < 1:
		return 0.5*x*x*x - x*x + 2.0/3.0
	case x < 2:
		x = 2 - x
		return x * x * x / 6
	}
	return 0
}

// catromKernel is the Catmull-Rom cubic (B=0, C=0.5).
func catromKernel(x float64) float64 {
	x = math.Abs(x)
	switch {
	case x < 1:
		return 0.5 * (2 + x*x*(-5+3*x))
	case x < 2:
		return 0.5 * (4 + x*(-8+x*(5-x)))
	}
	return 0
}

// mitchellKernel is the Mitchell-Netravali cubic with B = C = 1/3.
func mitchellKernel(x float64) float64 {
	const b, c = 1.0 / 3.0, 1.0 / 3.0
	x = math.Abs(x)
	xx := x * x
	switch {
	case x < 1:
		return ((12-9*b-6*c)*xx*x + (-18+12*b+6*c)*xx + (6 - 2*b)) / 6
	case x < 2:
		return ((-b-6*c)*xx*x + (6*b+30*c)*xx + (-12*b-48*c)*x + (8*b + 24*c)) / 6
	}
	return 0
}

func gaussianKernel(x float64) float64 {
	if math.Abs(x) >= 1.25 {
		return 0
	}
	return math.Exp(-2*x*x) * math.Sqrt(2/math.Pi)
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	x *= math.Pi
	return math.Sin(x) / x
}

func lanczos3Kernel(x float64) float64 {
	x = math.Abs(x)
	if x < 3 {
		return sinc(x) * sinc(x/3)
	}
	return 0
}

func sincKernel(x float64) float64 {
	if math.Abs(x) < 4 {
		return sinc(x)
	}
	return 0
}
