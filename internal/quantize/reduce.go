package quantize

import (
	"fmt"
	"strings"

	"github.com/AnyUserName/tkpic/internal/picture"
)

// Method names a palette search.
type Method string

const (
	Wu     Method = "wu"
	Median Method = "median"
)

// ParseMethod accepts "wu", "median" or "" (Wu).
func ParseMethod(name string) (Method, error) {
	switch m := Method(strings.ToLower(name)); m {
	case "", Wu:
		return Wu, nil
	case Median:
		return m, nil
	}
	return "", fmt.Errorf("quantize: unknown method %q", name)
}

// Options controls Reduce.
type Options struct {
	Colors int
	Method Method
	// Dither diffuses the error of snapping each pixel to its nearest
	// found color instead of mapping it to its box color.
	Dither bool
}

// Reduce returns a copy of src limited to opts.Colors colors, plus the
// colors found. Every output pixel is one of those colors with its
// original alpha.
func Reduce(src *picture.Picture, opts Options) (*picture.Picture, []picture.Pixel, error) {
	method, err := ParseMethod(string(opts.Method))
	if err != nil {
		return nil, nil, err
	}

	var dst *picture.Picture
	var colors []picture.Pixel
	switch method {
	case Median:
		dst, colors, err = MedianCut(src, opts.Colors)
		if err != nil {
			return nil, nil, err
		}
	default:
		t := NewTable(src, opts.Colors)
		colors = t.Colors()
		if !opts.Dither {
			dst, err = picture.New(src.Width(), src.Height())
			if err != nil {
				return nil, nil, fmt.Errorf("quantize: %w", err)
			}
			t.MapColors(dst, src)
		}
	}

	if opts.Dither {
		dst = DitherColors(src, colors)
	}
	return dst, colors, nil
}
