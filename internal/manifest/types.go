// Package manifest describes the JSON index written next to built assets.
package manifest

// Manifest is the top-level output of a build.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	BasePath    string           `json:"base_path"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Assets      map[string]Asset `json:"assets"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures build-time parameters for diagnostics.
type BuildInfo struct {
	Workers  int      `json:"workers"`
	Filter   string   `json:"filter"`
	Colors   int      `json:"colors,omitempty"`
	Dither   bool     `json:"dither,omitempty"`
	Encoders []string `json:"encoders,omitempty"`
}

// Asset describes a single source image and all its generated variants.
type Asset struct {
	ID          string       `json:"id"` // name-based UUID of key and digest
	Original    OriginalInfo `json:"original"`
	Digest      string       `json:"digest"`              // xxhash64 of the decoded pixels
	AspectRatio float64      `json:"aspect_ratio"`        // width / height
	AvgColor    *[3]uint8    `json:"avg_color,omitempty"` // [R,G,B] 0-255
	Palette     []string     `json:"palette,omitempty"`   // dominant colors, "#rrggbb"
	Variants    []Variant    `json:"variants"`
}

// OriginalInfo holds metadata about the source image.
type OriginalInfo struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
	HasAlpha bool   `json:"has_alpha"`
	Color    bool   `json:"color"`            // false for greyscale sources
	Masked   bool   `json:"masked,omitempty"` // binary alpha with holes
}

// Variant is one encoded output of an asset at a specific size and format.
type Variant struct {
	Format string `json:"format"` // "webp", "jpeg", "png", ...
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"`             // bytes on disk
	Hash   string `json:"hash"`             // first 16 hex chars of xxhash64
	Path   string `json:"path"`             // relative to base_path
	Colors int    `json:"colors,omitempty"` // palette size when quantized
}

// Stats aggregates build metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalAssets      int   `json:"total_assets"`
	TotalVariants    int   `json:"total_variants"`
	SkippedRegress   int   `json:"skipped_regress,omitempty"` // variants skipped (larger than original)
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// FileName is the manifest's name inside an output directory.
const FileName = "tkpic.manifest.json"
