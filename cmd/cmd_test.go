package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnyUserName/tkpic/internal/codec"
	"github.com/AnyUserName/tkpic/internal/manifest"
	"github.com/AnyUserName/tkpic/internal/picture"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// The commands share package-level flag variables, so one test walks
// through them in sequence with each command used once.
func TestCommands(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	ramp := filepath.Join(in, "ramp.png")
	require.NoError(t, execute(t, "gradient", "-o", filepath.Join(dir, "tmp.png"),
		"--size", "64x32", "--shape", "radial", "--from", "#102030", "--to", "#f0e0d0"))

	require.NoError(t, execute(t, "convert", filepath.Join(dir, "tmp.png"), "-o", filepath.Join(dir, "small.png"),
		"--resize", "32x16", "--filter", "catrom", "--rotate", "90", "--flip", "h", "--colors", "4"))
	small, err := codec.DecodeFile(filepath.Join(dir, "small.png"))
	require.NoError(t, err)
	assert.Equal(t, 16, small.Width())
	assert.Equal(t, 32, small.Height())
	colors := map[picture.Pixel]bool{}
	for y := 0; y < small.Height(); y++ {
		for _, c := range small.Row(y) {
			colors[c] = true
		}
	}
	assert.LessOrEqual(t, len(colors), 4)

	require.NoError(t, execute(t, "composite", filepath.Join(dir, "tmp.png"), filepath.Join(dir, "small.png"),
		"-o", filepath.Join(dir, "comp.png"), "--mode", "multiply", "--at", "4,4"))
	comp, err := codec.DecodeFile(filepath.Join(dir, "comp.png"))
	require.NoError(t, err)
	assert.Equal(t, 64, comp.Width())

	require.NoError(t, execute(t, "info", filepath.Join(dir, "comp.png")))

	// build over a directory holding the gradient
	require.NoError(t, os.MkdirAll(in, 0o755))
	require.NoError(t, codec.NewRegistry().WriteFile(ramp, comp, 0))
	out := filepath.Join(dir, "out")
	require.NoError(t, execute(t, "build", in, "-o", out, "--widths", "16,32",
		"--formats", "png", "--filter", "box", "--no-regress-size=false"))

	m, err := manifest.ReadJSON(out)
	require.NoError(t, err)
	require.Contains(t, m.Assets, "ramp")
	// 16 and 32 plus the retina 64 of the default profile
	assert.Len(t, m.Assets["ramp"].Variants, 3)

	require.NoError(t, execute(t, "validate", filepath.Join(out, manifest.FileName)))
	require.NoError(t, execute(t, "stats", out))

	assert.Error(t, execute(t, "validate", filepath.Join(dir, "missing.json")))
}
