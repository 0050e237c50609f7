package codec

import (
	"fmt"
	"strings"
)

// priority is the order Available reports formats in.
var priority = []string{"webp", "jpeg", "png", "gif", "tiff", "bmp"}

// Registry holds all available encoders and selects one per format.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry of the built-in encoders plus extra,
// keeping only those that report themselves available. An extra encoder
// replaces a built-in one of the same format.
func NewRegistry(extra ...Encoder) *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}
	for _, enc := range append(builtinEncoders(), extra...) {
		if enc.Available() {
			r.encoders[enc.Format()] = enc
		}
	}
	return r
}

// Get returns an encoder for the given format, or nil if unavailable.
// "jpg" and "tif" are accepted as aliases.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[normalizeFormat(format)]
}

// Available returns all available format names.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range priority {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// ResolveFormats filters requested formats to only those available,
// and ensures at least one fallback format is present.
func (r *Registry) ResolveFormats(requested []string, hasAlpha bool) []string {
	var resolved []string
	seen := map[string]bool{}

	for _, f := range requested {
		f = normalizeFormat(f)
		if _, ok := r.encoders[f]; ok && !seen[f] {
			resolved = append(resolved, f)
			seen[f] = true
		}
	}

	if len(resolved) == 0 {
		fallback := "jpeg"
		if hasAlpha {
			fallback = "png"
		}
		if r.encoders[fallback] != nil {
			resolved = append(resolved, fallback)
			seen[fallback] = true
		}
	}

	// JPEG drops alpha, so transparent pictures always get a PNG too.
	if hasAlpha && !seen["png"] && !seen["webp"] && r.encoders["png"] != nil {
		resolved = append(resolved, "png")
	}

	return resolved
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}

func normalizeFormat(f string) string {
	f = strings.ToLower(strings.TrimPrefix(f, "."))
	switch f {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return f
}
