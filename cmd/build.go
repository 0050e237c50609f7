package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/tkpic/internal/codec"
	"github.com/AnyUserName/tkpic/internal/config"
	"github.com/AnyUserName/tkpic/internal/manifest"
	"github.com/AnyUserName/tkpic/internal/pipeline"
)

var buildFlags config.Flags

var buildCmd = &cobra.Command{
	Use:   "build <input_dir>",
	Short: "Process images and generate variants + manifest",
	Long: `Scans input directory for images (` + strings.Join(codec.SourceExtensions(), " ") + `),
resamples each to the profile widths with the profile filter, optionally
blurs and reduces its palette, encodes every variant in the profile formats,
and writes a manifest file.

Output filenames are content-addressed: <key>.<w>.<h>.<hash>.ext`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.StringVarP(&buildFlags.OutputDir, "out", "o", "", "output directory (default "+config.DefaultOutputDir+")")
	f.StringVarP(&buildFlags.Profile, "profile", "p", "", "processing profile (default web)")
	f.IntVarP(&buildFlags.Workers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	f.IntSliceVar(&buildFlags.Widths, "widths", nil, "custom widths (overrides profile)")
	f.StringSliceVar(&buildFlags.Formats, "formats", nil, "output formats (overrides profile)")
	f.IntVarP(&buildFlags.Quality, "quality", "q", 0, "quality 1-100 (0 = profile default)")
	f.StringVar(&buildFlags.Filter, "filter", "", "resample filter (overrides profile)")
	f.IntVar(&buildFlags.Blur, "blur", 0, "box blur radius after resizing")
	f.IntVar(&buildFlags.Colors, "colors", 0, "reduce every variant to this many colors")
	f.StringVar(&buildFlags.Quantizer, "quantizer", "", "palette search: wu or median")
	f.BoolVar(&buildFlags.Dither, "dither", false, "error-diffuse reduced variants")
	f.BoolVar(&buildFlags.NoRegressSize, "no-regress-size", true, "skip variants larger than original file")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	start := time.Now()

	var cfg config.Config
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	flags := buildFlags
	flags.NoRegressSizeSet = cmd.Flags().Changed("no-regress-size")
	cfg.Resolve(flags)

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	prof := cfg.BuildProfile()
	slog.Info("build",
		"input", absInput, "output", absOutput,
		"profile", prof.Name, "widths", prof.Widths, "filter", prof.Filter,
		"quality", prof.Quality, "colors", prof.Colors)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p, err := pipeline.New(pipeline.Config{
		InputDir:      absInput,
		OutputDir:     absOutput,
		Profile:       prof,
		Workers:       cfg.Workers,
		NoRegressSize: *cfg.NoRegressSize,
	})
	if err != nil {
		return err
	}

	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBuildReport(m, time.Since(start))
	return nil
}

func printBuildReport(m *manifest.Manifest, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║              tkpic build complete                ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	stats := m.Stats
	ratio := float64(0)
	if stats.TotalInputBytes > 0 {
		ratio = float64(stats.TotalOutputBytes) / float64(stats.TotalInputBytes) * 100
	}

	fmt.Printf("  Assets:      %d\n", stats.TotalAssets)
	fmt.Printf("  Variants:    %d\n", stats.TotalVariants)
	fmt.Printf("  Input size:  %s\n", formatBytes(stats.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(stats.TotalOutputBytes))
	fmt.Printf("  Ratio:       %.1f%% of original\n", ratio)
	if stats.SkippedRegress > 0 {
		fmt.Printf("  Skipped:     %d variants (larger than original)\n", stats.SkippedRegress)
	}
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))

	if bi := m.BuildInfo; bi != nil {
		fmt.Printf("  Workers:     %d\n", bi.Workers)
		fmt.Printf("  Filter:      %s\n", bi.Filter)
		if bi.Colors > 0 {
			fmt.Printf("  Colors:      %d (dither %v)\n", bi.Colors, bi.Dither)
		}
	}
	fmt.Println()

	// Top 10 heaviest assets.
	if len(m.Assets) > 0 {
		type assetSize struct {
			key        string
			inputSize  int64
			outputSize int64
		}
		var items []assetSize
		for key, a := range m.Assets {
			var outSum int64
			for _, v := range a.Variants {
				outSum += v.Size
			}
			items = append(items, assetSize{key, a.Original.Size, outSum})
		}
		sort.Slice(items, func(i, j int) bool {
			return items[i].inputSize > items[j].inputSize
		})
		n := min(len(items), 10)
		fmt.Printf("  Top %d heaviest (original → variants):\n", n)
		for _, it := range items[:n] {
			fmt.Printf("    %-40s %8s → %8s\n",
				truncKey(it.key, 40),
				formatBytes(it.inputSize),
				formatBytes(it.outputSize),
			)
		}
		fmt.Println()
	}

	fmt.Printf("  Formats:     %s\n", strings.Join(detectOutputFormats(m), ", "))
	fmt.Println()

	data, _ := json.Marshal(m)
	fmt.Printf("  Manifest:    %s (%s)\n", manifest.FileName, formatBytes(int64(len(data))))
	fmt.Println()
}

// formatOrder is the display order of output formats.
var formatOrder = []string{"webp", "jpeg", "png", "gif", "tiff", "bmp"}

func detectOutputFormats(m *manifest.Manifest) []string {
	set := map[string]bool{}
	for _, a := range m.Assets {
		for _, v := range a.Variants {
			set[v.Format] = true
		}
	}
	var out []string
	for _, f := range formatOrder {
		if set[f] {
			out = append(out, f)
		}
	}
	return out
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
