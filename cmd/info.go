package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/tkpic/internal/codec"
	"github.com/AnyUserName/tkpic/internal/hasher"
	"github.com/AnyUserName/tkpic/internal/picture"
	"github.com/AnyUserName/tkpic/internal/quantize"
)

var infoColors int

var infoCmd = &cobra.Command{
	Use:   "info <file>...",
	Short: "Describe decoded images: size, classification, digest, dominant colors",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().IntVar(&infoColors, "colors", 8, "dominant colors to list (0 = none)")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(_ *cobra.Command, args []string) error {
	for _, path := range args {
		pic, err := codec.DecodeFile(path)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Printf("  %s\n", path)
		fmt.Printf("    Size:     %dx%d (stride %d)\n", pic.Width(), pic.Height(), pic.Stride())
		fmt.Printf("    Class:    %s\n", describe(pic))
		fmt.Printf("    Digest:   %s\n", hasher.PictureDigest(pic, 16))
		if infoColors > 0 {
			var sb strings.Builder
			for i, c := range quantize.NewTable(pic, infoColors).Colors() {
				if i > 0 {
					sb.WriteByte(' ')
				}
				fmt.Fprintf(&sb, "#%02x%02x%02x", c.R, c.G, c.B)
			}
			fmt.Printf("    Colors:   %s\n", sb.String())
		}
	}
	fmt.Println()
	return nil
}

func describe(p *picture.Picture) string {
	parts := []string{"grey"}
	if p.HasColor() {
		parts[0] = "color"
	}
	switch {
	case p.IsBlended():
		parts = append(parts, "translucent")
	case p.IsMasked():
		parts = append(parts, "masked")
	default:
		parts = append(parts, "opaque")
	}
	return strings.Join(parts, ", ")
}
