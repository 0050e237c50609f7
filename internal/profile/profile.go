// Package profile holds the named processing presets used by build.
package profile

import "sort"

// Profile defines how every source image is turned into variants.
type Profile struct {
	Name    string
	Widths  []int    // target widths for resize
	Formats []string // output formats in priority order
	Quality int      // encoding quality 1-100
	Retina  bool     // generate 2x variants for retina

	Filter    string // resample filter name
	Blur      int    // box-car blur radius applied after resizing, 0 for none
	Colors    int    // palette size, 0 keeps full color
	Quantizer string // "wu" or "median"
	Dither    bool   // error-diffuse onto a uniform palette after quantizing
}

// Default is the profile Get falls back to.
const Default = "web"

// Built-in profiles.
var profiles = map[string]Profile{
	"web": {
		Name:    "web",
		Widths:  []int{320, 640, 960, 1280},
		Formats: []string{"webp", "jpeg"},
		Quality: 82,
		Retina:  true,
		Filter:  "lanczos3",
	},
	"web-hq": {
		Name:    "web-hq",
		Widths:  []int{320, 640, 960, 1280, 1920},
		Formats: []string{"webp", "png"},
		Quality: 92,
		Retina:  true,
		Filter:  "lanczos3",
	},
	"thumbnail": {
		Name:    "thumbnail",
		Widths:  []int{64, 128, 256},
		Formats: []string{"webp", "jpeg"},
		Quality: 78,
		Filter:  "catrom",
	},
	"poster": {
		Name:      "poster",
		Widths:    []int{480, 960},
		Formats:   []string{"png", "gif"},
		Quality:   82,
		Filter:    "mitchell",
		Colors:    16,
		Quantizer: "wu",
	},
	"retro": {
		Name:      "retro",
		Widths:    []int{160, 320},
		Formats:   []string{"png", "gif"},
		Quality:   82,
		Filter:    "box",
		Colors:    8,
		Quantizer: "median",
		Dither:    true,
	},
}

// Get returns a profile by name. Falls back to web if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p.clone()
	}
	p := profiles[Default].clone()
	p.Name = name // preserve requested name
	return p
}

// Names lists the built-in profiles in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// clone keeps callers that override Widths or Formats from editing the
// shared preset.
func (p Profile) clone() Profile {
	p.Widths = append([]int(nil), p.Widths...)
	p.Formats = append([]string(nil), p.Formats...)
	return p
}

// EffectiveWidths returns all widths including retina variants.
func (p Profile) EffectiveWidths(originalWidth int) []int {
	seen := map[int]bool{}
	var result []int

	for _, w := range p.Widths {
		if w > originalWidth {
			continue // don't upscale
		}
		if !seen[w] {
			seen[w] = true
			result = append(result, w)
		}
		if p.Retina {
			w2 := w * 2
			if w2 <= originalWidth && !seen[w2] {
				seen[w2] = true
				result = append(result, w2)
			}
		}
	}

	// Always include original width if not already present
	// (for cases where original is smaller than smallest target).
	if len(result) == 0 && originalWidth > 0 {
		result = append(result, originalWidth)
	}

	return result
}
