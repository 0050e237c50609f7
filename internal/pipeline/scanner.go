package pipeline

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/tkpic/internal/codec"
)

// Source is one decodable image found under the input directory.
type Source struct {
	AbsPath string
	// RelPath is slash-separated and relative to the input directory.
	RelPath string
	// Key names the asset in the manifest: RelPath without its extension.
	Key    string
	Format string
	Size   int64
}

// ScanImages returns every file under inputDir that codec can decode, in
// lexical path order. Directories whose name starts with a dot are not
// entered.
func ScanImages(inputDir string) ([]Source, error) {
	var sources []Source
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case d.IsDir():
			if path != inputDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		format, ok := codec.SourceFormat(path)
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: rel,
			Key:     strings.TrimSuffix(rel, filepath.Ext(rel)),
			Format:  format,
			Size:    info.Size(),
		})
		return nil
	})
	return sources, err
}
