package main

import (
	"fmt"

	"github.com/slaakko/cmajor-sub007/internal/driver"
	"github.com/slaakko/cmajor-sub007/internal/export"
	"github.com/slaakko/cmajor-sub007/internal/project"
)

const appName = "cmres"

// loadProject finds the cmres.toml governing dir.
func loadProject(dir string) (*project.Config, error) {
	path, ok, err := project.FindConfig(dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no %s found in %s or any parent directory", project.ConfigName, dir)
	}
	return project.LoadConfig(path)
}

// openCache opens the project's archive cache unless it is disabled in the
// configuration or on the command line.
func openCache(cfg *project.Config, disabled bool) (*export.DiskCache, error) {
	if disabled || !cfg.Cache.Enabled {
		return nil, nil
	}
	cache, err := export.OpenDiskCache(appName, cfg.CacheDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open cache %s: %w", cfg.CacheDir(), err)
	}
	return cache, nil
}

// driverOptions merges command-line limits with the configuration. A depth
// given on the command line wins.
func driverOptions(cfg *project.Config, maxDiags, maxDepth, jobs int, cache *export.DiskCache) driver.Options {
	if maxDepth <= 0 {
		maxDepth = cfg.Resolve.MaxInstantiationDepth
	}
	return driver.Options{
		MaxDiagnostics: maxDiags,
		MaxDepth:       maxDepth,
		Jobs:           jobs,
		Cache:          cache,
	}
}

func unitNames(cfg *project.Config) []string {
	names := make([]string, len(cfg.Units))
	for i, u := range cfg.Units {
		names[i] = u.Name
	}
	return names
}
