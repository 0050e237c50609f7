package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/tkpic/internal/codec"
	"github.com/AnyUserName/tkpic/internal/composite"
	"github.com/AnyUserName/tkpic/internal/hasher"
	"github.com/AnyUserName/tkpic/internal/logging"
	"github.com/AnyUserName/tkpic/internal/manifest"
	"github.com/AnyUserName/tkpic/internal/picture"
	"github.com/AnyUserName/tkpic/internal/quantize"
	"github.com/AnyUserName/tkpic/internal/resample"
)

// previewColors is the size of the dominant-color palette in the manifest.
const previewColors = 8

// processResult holds the result of processing a single source image.
type processResult struct {
	key            string
	asset          manifest.Asset
	err            error
	skippedRegress int // variants skipped because larger than original
}

// processImage handles a single source image: decode, describe, then
// resize, filter, reduce and encode each variant.
func (p *Pipeline) processImage(src Source) processResult {
	result := processResult{key: src.Key}
	log := logging.L().With("key", src.Key)
	cfg := p.cfg

	pic, err := codec.DecodeFile(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("decode %s: %w", src.RelPath, err)
		return result
	}
	origW, origH := pic.Width(), pic.Height()
	hasAlpha := !pic.IsOpaque()

	digest := hasher.PictureDigest(pic, 16)
	avg := averageColor(pic)
	result.asset = manifest.Asset{
		ID: manifest.AssetID(src.Key, digest),
		Original: manifest.OriginalInfo{
			Width:    origW,
			Height:   origH,
			Format:   src.Format,
			Size:     src.Size,
			HasAlpha: hasAlpha,
			Color:    pic.HasColor(),
			Masked:   pic.IsMasked(),
		},
		Digest:      digest,
		AspectRatio: float64(origW) / float64(origH),
		AvgColor:    &avg,
		Palette:     hexColors(quantize.NewTable(pic, previewColors).Colors()),
	}

	widths := cfg.Profile.EffectiveWidths(origW)
	formats := p.registry.ResolveFormats(cfg.Profile.Formats, hasAlpha)

	keyDir := filepath.Dir(src.Key)
	if err := os.MkdirAll(filepath.Join(cfg.OutputDir, keyDir), 0o755); err != nil {
		result.err = fmt.Errorf("create dir for %s: %w", src.Key, err)
		return result
	}

	if hasAlpha {
		premultiply(pic)
	}

	for _, w := range widths {
		h := max(origH*w/origW, 1)

		variant, colors, err := p.render(pic, w, h)
		if err != nil {
			result.err = fmt.Errorf("render %s@%dx%d: %w", src.Key, w, h, err)
			return result
		}

		for _, format := range formats {
			enc := p.registry.Get(format)
			if enc == nil {
				continue
			}

			data, err := codec.Encode(enc, variant, cfg.Profile.Quality)
			if err != nil {
				log.Warn("encode failed", "width", w, "height", h, "format", format, "err", err)
				continue
			}

			if cfg.NoRegressSize && int64(len(data)) >= src.Size {
				log.Debug("skip larger than original", "width", w, "format", format,
					"encoded", len(data), "original", src.Size)
				result.skippedRegress++
				continue
			}

			contentHash := hasher.ContentHash(data, 16)

			// key.w.h.hash.ext
			fileName := fmt.Sprintf("%s.%d.%d.%s.%s",
				filepath.Base(src.Key), w, h, contentHash[:8], enc.Extension())
			relPath := filepath.ToSlash(filepath.Join(keyDir, fileName))

			outPath := filepath.Join(cfg.OutputDir, relPath)
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				result.err = fmt.Errorf("write %s: %w", relPath, err)
				return result
			}

			result.asset.Variants = append(result.asset.Variants, manifest.Variant{
				Format: format,
				Width:  w,
				Height: h,
				Size:   int64(len(data)),
				Hash:   contentHash,
				Path:   relPath,
				Colors: colors,
			})
		}
	}

	return result
}

// render produces one w×h variant of pic with the profile's filter, blur
// and palette reduction applied. It returns the palette size, 0 when the
// variant keeps full color.
func (p *Pipeline) render(pic *picture.Picture, w, h int) (*picture.Picture, int, error) {
	prof := p.cfg.Profile

	out, err := resample.Resize(pic, w, h, p.filter)
	if err != nil {
		return nil, 0, err
	}
	if prof.Blur > 0 {
		blurred := picture.MustNew(w, h)
		resample.Blur(blurred, out, prof.Blur)
		blurred.Classify()
		blurred.SetFlags(out.Flags() & picture.FlagAssociated)
		out = blurred
	}
	composite.Unassociate(out)

	if prof.Colors <= 0 {
		return out, 0, nil
	}
	reduced, colors, err := quantize.Reduce(out, quantize.Options{
		Colors: prof.Colors,
		Method: quantize.Method(prof.Quantizer),
		Dither: prof.Dither,
	})
	if err != nil {
		return nil, 0, err
	}
	return reduced, len(colors), nil
}

// premultiply prepares pic for filtering: hidden colors are cleared and
// the rest associated, so no color reaches a neighbor except in proportion
// to its alpha.
func premultiply(pic *picture.Picture) {
	pic.ZeroTransparent()
	composite.Associate(pic)
}

// averageColor is the alpha-weighted mean color of p. Fully transparent
// pictures average to black.
func averageColor(p *picture.Picture) [3]uint8 {
	var rSum, gSum, bSum, aSum uint64
	for y := 0; y < p.Height(); y++ {
		for _, c := range p.Row(y) {
			a := uint64(c.A)
			rSum += uint64(c.R) * a
			gSum += uint64(c.G) * a
			bSum += uint64(c.B) * a
			aSum += a
		}
	}
	if aSum == 0 {
		return [3]uint8{}
	}
	return [3]uint8{
		uint8((rSum + aSum/2) / aSum),
		uint8((gSum + aSum/2) / aSum),
		uint8((bSum + aSum/2) / aSum),
	}
}

func hexColors(colors []picture.Pixel) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return out
}
