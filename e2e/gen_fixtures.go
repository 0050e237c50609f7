//go:build ignore

// gen_fixtures creates small test images for the E2E smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/AnyUserName/tkpic/internal/codec"
	"github.com/AnyUserName/tkpic/internal/gradient"
	"github.com/AnyUserName/tkpic/internal/picture"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "cards"), 0o755)
	reg := codec.NewRegistry()

	// Banner (JPEG, 400x225)
	banner := picture.MustNew(400, 225)
	gradient.Render(banner, gradient.Spec{Path: gradient.XY},
		picture.Pixel{B: 128, A: 255}, picture.Pixel{R: 255, G: 255, B: 128, A: 255})
	write(reg, filepath.Join(dir, "banner.jpg"), banner)

	// Cards (PNG, BMP, TIFF; 200x150 each)
	for i, ext := range []string{"png", "bmp", "tiff"} {
		name := fmt.Sprintf("card-%d.%s", i+1, ext)
		write(reg, filepath.Join(dir, "cards", name), solidWithBorder(200, 150, uint8((i+1)*60)))
	}

	// Small alpha image
	logo := picture.MustNew(100, 100)
	gradient.Render(logo, gradient.Spec{Shape: gradient.Radial},
		picture.Pixel{R: 220, G: 60, B: 30}, picture.Pixel{R: 220, G: 60, B: 30, A: 255})
	write(reg, filepath.Join(dir, "logo.png"), logo)

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 5 fixtures in %s\n", dir)
}

func write(reg *codec.Registry, path string, p *picture.Picture) {
	if err := reg.WriteFile(path, p, 90); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func solidWithBorder(w, h int, base uint8) *picture.Picture {
	p := picture.MustNew(w, h)
	p.Blank(picture.Pixel{R: 255, G: 255, B: 255, A: 255})
	inner := picture.MustNew(w-8, h-8)
	inner.Blank(picture.Pixel{R: base, G: base + 40, B: base + 80, A: 255})
	picture.CopyArea(p, inner, inner.Bounds(), image.Pt(4, 4))
	p.Classify()
	return p
}
