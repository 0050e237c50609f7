package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/tkpic/internal/codec"
	"github.com/AnyUserName/tkpic/internal/composite"
	"github.com/AnyUserName/tkpic/internal/picture"
	"github.com/AnyUserName/tkpic/internal/quantize"
	"github.com/AnyUserName/tkpic/internal/resample"
	"github.com/AnyUserName/tkpic/internal/transform"
)

var (
	convertOut        string
	convertCrop       string
	convertResize     string
	convertScale      string
	convertFilter     string
	convertRotate     float64
	convertBackground string
	convertFlip       string
	convertBlur       int
	convertTent       bool
	convertGreyscale  bool
	convertFade       uint8
	convertColors     int
	convertQuantizer  string
	convertDither     bool
	convertLevels     int
	convertQuality    int
)

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Transform a single image",
	Long: `Decodes one image, applies the requested steps in this order and
writes the result in the format named by the output extension:

  crop → resize|scale → rotate → flip → blur → tent → greyscale → fade → colors|levels`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.StringVarP(&convertOut, "out", "o", "", "output file (required)")
	f.StringVar(&convertCrop, "crop", "", "crop to X,Y,W,H first")
	f.StringVar(&convertResize, "resize", "", "resample to WxH")
	f.StringVar(&convertScale, "scale", "", "nearest-neighbor scale to WxH")
	f.StringVar(&convertFilter, "filter", "lanczos3", "resample filter for --resize")
	f.Float64Var(&convertRotate, "rotate", 0, "rotate counter-clockwise by degrees")
	f.StringVar(&convertBackground, "background", "#00000000", "fill for corners exposed by --rotate")
	f.StringVar(&convertFlip, "flip", "", "mirror: h (left-right) or v (top-bottom)")
	f.IntVar(&convertBlur, "blur", 0, "box blur radius")
	f.BoolVar(&convertTent, "tent", false, "soften with a 3x3 tent filter")
	f.BoolVar(&convertGreyscale, "greyscale", false, "convert to grey")
	f.Uint8Var(&convertFade, "fade", 0, "lower alpha by this amount")
	f.IntVar(&convertColors, "colors", 0, "reduce to at most this many colors")
	f.StringVar(&convertQuantizer, "quantizer", "wu", "palette search: wu or median")
	f.BoolVar(&convertDither, "dither", false, "error-diffuse when reducing colors")
	f.IntVar(&convertLevels, "levels", 0, "dither onto this many uniform levels per channel")
	f.IntVarP(&convertQuality, "quality", "q", codec.DefaultQuality, "encoder quality 1-100")
	_ = convertCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	pic, err := codec.DecodeFile(args[0])
	if err != nil {
		return err
	}
	slog.Debug("convert", "input", args[0], "width", pic.Width(), "height", pic.Height())
	if !pic.IsOpaque() {
		pic.ZeroTransparent()
	}

	if convertCrop != "" {
		r, err := parseRect(convertCrop)
		if err != nil {
			return err
		}
		if pic, err = transform.Crop(pic, r); err != nil {
			return err
		}
	}

	switch {
	case convertResize != "" && convertScale != "":
		return fmt.Errorf("--resize and --scale are exclusive")
	case convertResize != "":
		w, h, err := parseSize(convertResize)
		if err != nil {
			return err
		}
		f, err := resample.Lookup(convertFilter)
		if err != nil {
			return err
		}
		pic, err = withAssociated(pic, func(p *picture.Picture) (*picture.Picture, error) {
			return resample.Resize(p, w, h, f)
		})
		if err != nil {
			return err
		}
	case convertScale != "":
		w, h, err := parseSize(convertScale)
		if err != nil {
			return err
		}
		if pic, err = transform.Scale(pic, pic.Bounds(), w, h); err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("rotate") {
		bg, err := parseColor(convertBackground)
		if err != nil {
			return err
		}
		pic, _ = withAssociated(pic, func(p *picture.Picture) (*picture.Picture, error) {
			return transform.Rotate(p, convertRotate, composite.AssociatedColor(bg)), nil
		})
	}

	switch convertFlip {
	case "":
	case "h":
		transform.Flip(pic, false)
	case "v":
		transform.Flip(pic, true)
	default:
		return fmt.Errorf("--flip %q: want h or v", convertFlip)
	}

	if convertBlur > 0 {
		pic, _ = withAssociated(pic, func(p *picture.Picture) (*picture.Picture, error) {
			blurred := picture.MustNew(p.Width(), p.Height())
			resample.Blur(blurred, p, convertBlur)
			blurred.Classify()
			blurred.SetFlags(p.Flags() & picture.FlagAssociated)
			return blurred, nil
		})
	}
	if convertTent {
		pic, _ = withAssociated(pic, func(p *picture.Picture) (*picture.Picture, error) {
			resample.TentHorizontally(p, p)
			resample.TentVertically(p, p)
			p.Classify()
			return p, nil
		})
	}
	if convertGreyscale {
		pic.Greyscale()
	}
	if convertFade > 0 {
		composite.Fade(pic, convertFade)
	}

	switch {
	case convertColors > 0:
		reduced, colors, err := quantize.Reduce(pic, quantize.Options{
			Colors: convertColors,
			Method: quantize.Method(convertQuantizer),
			Dither: convertDither,
		})
		if err != nil {
			return err
		}
		slog.Debug("reduced", "colors", len(colors))
		pic = reduced
	case convertLevels > 0:
		pic = quantize.Dither(pic, quantize.UniformPalette(convertLevels))
	}

	if err := codec.NewRegistry().WriteFile(convertOut, pic, convertQuality); err != nil {
		return err
	}
	fmt.Printf("  %s → %s (%dx%d)\n", args[0], convertOut, pic.Width(), pic.Height())
	return nil
}

// withAssociated runs a filtering step on associated colors, so partly
// transparent pixels contribute in proportion to their alpha, and returns
// the result in the association state pic came in with.
func withAssociated(pic *picture.Picture, step func(*picture.Picture) (*picture.Picture, error)) (*picture.Picture, error) {
	straight := !pic.IsAssociated()
	composite.Associate(pic)
	out, err := step(pic)
	if err != nil {
		return nil, err
	}
	if straight {
		composite.Unassociate(out)
	}
	return out, nil
}
