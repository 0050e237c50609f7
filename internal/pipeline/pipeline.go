// Package pipeline runs every image of a directory through the picture
// engine and collects the encoded variants into a manifest.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/AnyUserName/tkpic/internal/codec"
	"github.com/AnyUserName/tkpic/internal/logging"
	"github.com/AnyUserName/tkpic/internal/manifest"
	"github.com/AnyUserName/tkpic/internal/profile"
	"github.com/AnyUserName/tkpic/internal/resample"
)

// Config holds all parameters for a build pipeline run.
type Config struct {
	InputDir      string
	OutputDir     string
	Profile       profile.Profile
	Workers       int
	NoRegressSize bool // skip variants larger than original
	// Registry defaults to codec.NewRegistry().
	Registry *codec.Registry
}

// Pipeline orchestrates image processing.
type Pipeline struct {
	cfg      Config
	filter   *resample.Filter
	registry *codec.Registry
}

// New creates a configured pipeline. It fails when the profile names an
// unknown resample filter.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	f, err := resample.Lookup(cfg.Profile.Filter)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", cfg.Profile.Name, err)
	}
	reg := cfg.Registry
	if reg == nil {
		reg = codec.NewRegistry()
	}
	return &Pipeline{cfg: cfg, filter: f, registry: reg}, nil
}

// Run executes the full build pipeline and returns the manifest.
func (p *Pipeline) Run() (*manifest.Manifest, error) {
	log := logging.L()
	log.Debug("encoders", "available", p.registry.Available())

	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}
	log.Info("scanned", "dir", p.cfg.InputDir, "images", len(sources))

	// Each picture is owned by the worker processing it; nothing else is
	// shared but the read-only filter and registry.
	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			log.Debug("processing", "key", s.Key)
			results[idx] = p.processImage(s)
			if results[idx].err == nil {
				log.Debug("done", "key", s.Key, "variants", len(results[idx].asset.Variants))
			}
		}(i, src)
	}
	wg.Wait()

	m := manifest.New(p.cfg.Profile.Name)

	var failed, totalSkipped int
	for _, r := range results {
		if r.err != nil {
			failed++
			log.Error("process failed", "key", r.key, "err", r.err)
			continue
		}
		m.Assets[r.key] = r.asset
		totalSkipped += r.skippedRegress
	}

	// Partial failures are reported but do not fail the build.
	if failed > 0 {
		if failed == len(sources) {
			return nil, fmt.Errorf("all %d images failed to process", failed)
		}
		log.Warn("some images had errors", "failed", failed, "total", len(sources))
	}

	m.BuildInfo = &manifest.BuildInfo{
		Workers:  p.cfg.Workers,
		Filter:   p.filter.Name,
		Colors:   p.cfg.Profile.Colors,
		Dither:   p.cfg.Profile.Dither,
		Encoders: p.registry.Available(),
	}
	m.Stats.SkippedRegress = totalSkipped
	m.ComputeStats()
	return m, nil
}
