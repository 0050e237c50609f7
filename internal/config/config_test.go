package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tkpic.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{"profile": "poster", "workers": 3, "colors": 32, "no_regress_size": false}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "poster", cfg.Profile)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 32, cfg.Colors)
	require.NotNil(t, cfg.NoRegressSize)
	assert.False(t, *cfg.NoRegressSize)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "config: read")

	_, err = Load(writeConfig(t, `{"workers": "many"}`))
	assert.ErrorContains(t, err, "config: parse")
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, "web", cfg.Profile)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	require.NotNil(t, cfg.NoRegressSize)
	assert.True(t, *cfg.NoRegressSize)

	p := cfg.BuildProfile()
	assert.Equal(t, "lanczos3", p.Filter)
	assert.Equal(t, 82, p.Quality)
	assert.Zero(t, p.Colors)
}

func TestResolveFlagsWin(t *testing.T) {
	cfg := Config{Profile: "poster", Workers: 2, Quality: 50, Filter: "box"}
	cfg.Resolve(Flags{
		Workers:          6,
		Filter:           "catrom",
		Colors:           300,
		Dither:           true,
		NoRegressSizeSet: true,
	})
	assert.Equal(t, "poster", cfg.Profile, "file value kept")
	assert.Equal(t, 6, cfg.Workers)
	assert.False(t, *cfg.NoRegressSize)

	p := cfg.BuildProfile()
	assert.Equal(t, "poster", p.Name)
	assert.Equal(t, "catrom", p.Filter)
	assert.Equal(t, 50, p.Quality)
	assert.Equal(t, 256, p.Colors, "clamped")
	assert.True(t, p.Dither)
}

func TestBuildProfileDoesNotAlias(t *testing.T) {
	cfg := Config{Widths: []int{100}}
	cfg.Resolve(Flags{})
	p := cfg.BuildProfile()
	p.Widths[0] = 7
	assert.Equal(t, 100, cfg.Widths[0])
}
