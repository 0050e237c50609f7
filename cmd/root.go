package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/tkpic/internal/logging"
)

var (
	version    = "0.1.0"
	verbose    bool
	logLevel   string
	logFormat  string
	logFile    string
	configPath string

	logSink io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "tkpic",
	Short: "Picture processing toolkit: resample, composite, quantize, rotate",
	Long: `tkpic runs images through an in-memory RGBA picture engine.

It resamples with a catalog of filters, composites with arithmetic
operators and blend modes, reduces colors with Wu's quantizer and
Ostromoukhov dithering, rotates by arbitrary angles with three shears,
and renders gradients. The build command batch-processes a directory
into content-addressed variants plus a manifest.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logSink != nil {
			logSink.Close()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")
	pf.StringVar(&logLevel, "log-level", "WARN", "log level (DEBUG, INFO, WARN, ERROR)")
	pf.StringVar(&logFormat, "log-format", "text", "log format (text|json)")
	pf.StringVar(&logFile, "log-file", "", "write logs to a rotating file instead of stderr")
	pf.StringVarP(&configPath, "config", "c", "", "JSON config file for build")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"tkpic %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// setupLogging installs the logger described by the persistent flags as
// both the slog default and the engine logger.
func setupLogging(*cobra.Command, []string) error {
	level, ok := logging.ParseLevel(logLevel)
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	if logFile != "" {
		f := logging.FileWriter(logFile, 0, 0)
		w, logSink = f, f
	}

	var json bool
	switch logFormat {
	case "text":
	case "json":
		json = true
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", logFormat)
	}

	logger := logging.Logger(w, json, level)
	slog.SetDefault(logger)
	logging.SetLogger(logger)
	if !ok {
		logger.Warn("invalid log level, defaulting to INFO", "level", logLevel)
	}
	return nil
}
