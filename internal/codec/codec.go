package codec

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/AnyUserName/tkpic/internal/logging"
	"github.com/AnyUserName/tkpic/internal/picture"
)

// sourceFormats maps the file extensions Decode understands to format
// names. It follows the decoders linked in above plus imaging's own
// (png, jpeg, gif).
var sourceFormats = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".webp": "webp",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
	".tga":  "tga",
}

// SourceFormat reports the format of the file at path judged by its
// extension, and whether Decode can read it.
func SourceFormat(path string) (string, bool) {
	f, ok := sourceFormats[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// SourceExtensions lists the extensions SourceFormat accepts, sorted.
func SourceExtensions() []string {
	exts := make([]string, 0, len(sourceFormats))
	for ext := range sourceFormats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Decode reads any registered image format from r, applies the EXIF
// orientation and returns the pixels as a classified, straight-alpha
// picture.
func Decode(r io.Reader) (*picture.Picture, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	p, err := picture.FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return p, nil
}

// DecodeBytes is Decode over an in-memory file.
func DecodeBytes(data []byte) (*picture.Picture, error) {
	return Decode(bytes.NewReader(data))
}

// DecodeFile opens and decodes the file at path.
func DecodeFile(path string) (*picture.Picture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logging.L().Debug("decoded", "path", path,
		"width", p.Width(), "height", p.Height(), "flags", p.Flags())
	return p, nil
}

// Encode converts p to straight alpha and encodes it with enc.
func Encode(enc Encoder, p *picture.Picture, quality int) ([]byte, error) {
	return enc.Encode(p.NRGBA(), quality)
}

// FormatOf returns the output format implied by the extension of path.
func FormatOf(path string) string {
	return normalizeFormat(filepath.Ext(path))
}

// WriteFile encodes p in the format named by the extension of path and
// writes it there.
func (r *Registry) WriteFile(path string, p *picture.Picture, quality int) error {
	format := FormatOf(path)
	enc := r.Get(format)
	if enc == nil {
		return fmt.Errorf("write %s: no encoder for %q", path, format)
	}
	data, err := Encode(enc, p, quality)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
