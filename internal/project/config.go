package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// UnitExtension is the suffix of unit declaration files.
const UnitExtension = ".unit.toml"

// DefaultCacheDir is used when [cache].dir is not set. Relative paths are
// taken from the project root.
const DefaultCacheDir = ".cmres/cache"

// Config is a parsed cmres.toml.
type Config struct {
	Path    string `toml:"-"`
	Root    string `toml:"-"`
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
	Units   []UnitEntry   `toml:"unit"`
	Cache   CacheConfig   `toml:"cache"`
	Resolve ResolveConfig `toml:"resolve"`
}

// UnitEntry is one [[unit]] table. Imports add to the ones the unit file
// declares itself.
type UnitEntry struct {
	Name    string   `toml:"name"`
	Path    string   `toml:"path"`
	Imports []string `toml:"imports"`
}

type CacheConfig struct {
	Dir     string `toml:"dir"`
	Enabled bool   `toml:"enabled"`
}

type ResolveConfig struct {
	// MaxInstantiationDepth bounds nested instantiation; zero keeps the
	// resolver default.
	MaxInstantiationDepth int `toml:"max_instantiation_depth"`
}

var (
	// ErrProjectSectionMissing indicates that [project] is missing.
	ErrProjectSectionMissing = errors.New("missing [project]")
	// ErrProjectNameMissing indicates that [project].name is missing.
	ErrProjectNameMissing = errors.New("missing [project].name")
)

// LoadConfig parses and validates a cmres.toml. Without [[unit]] entries
// the units are discovered under the project root.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if !meta.IsDefined("project") {
		return nil, fmt.Errorf("%s: %w", path, ErrProjectSectionMissing)
	}
	cfg.Project.Name = strings.TrimSpace(cfg.Project.Name)
	if !meta.IsDefined("project", "name") || cfg.Project.Name == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrProjectNameMissing)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	cfg.Path = abs
	cfg.Root = filepath.Dir(abs)
	if !meta.IsDefined("cache", "enabled") {
		cfg.Cache.Enabled = true
	}
	if strings.TrimSpace(cfg.Cache.Dir) == "" {
		cfg.Cache.Dir = DefaultCacheDir
	}
	if cfg.Resolve.MaxInstantiationDepth < 0 {
		return nil, fmt.Errorf("%s: [resolve].max_instantiation_depth must not be negative", path)
	}

	if len(cfg.Units) == 0 {
		units, err := DiscoverUnits(cfg.Root)
		if err != nil {
			return nil, err
		}
		cfg.Units = units
	}
	seen := make(map[string]bool, len(cfg.Units))
	for i := range cfg.Units {
		u := &cfg.Units[i]
		u.Name = strings.TrimSpace(u.Name)
		if !IsValidUnitName(u.Name) {
			return nil, fmt.Errorf("%s: invalid unit name %q", path, u.Name)
		}
		if seen[u.Name] {
			return nil, fmt.Errorf("%s: unit %q declared twice", path, u.Name)
		}
		seen[u.Name] = true
		p, err := ResolveUnitPath(cfg.Root, u.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: unit %q: %w", path, u.Name, err)
		}
		u.Path = p
		for _, imp := range u.Imports {
			if !IsValidUnitName(imp) {
				return nil, fmt.Errorf("%s: unit %q imports invalid name %q", path, u.Name, imp)
			}
		}
	}
	return &cfg, nil
}

// CacheDir returns the absolute cache directory.
func (c *Config) CacheDir() string {
	if filepath.IsAbs(c.Cache.Dir) {
		return c.Cache.Dir
	}
	return filepath.Join(c.Root, filepath.FromSlash(c.Cache.Dir))
}

// ResolveUnitPath resolves and validates a unit path relative to the
// project root.
func ResolveUnitPath(root, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("missing path")
	}
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("invalid path %q: must be relative", path)
	}
	full := filepath.Join(root, filepath.Clean(filepath.FromSlash(path)))
	if !pathWithin(root, full) {
		return "", fmt.Errorf("invalid path %q: escapes project root", path)
	}
	info, err := os.Stat(full)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("invalid path %q: is a directory", path)
	}
	return full, nil
}

// DiscoverUnits finds every unit file below root, skipping hidden
// directories. Names come from the file names.
func DiscoverUnits(root string) ([]UnitEntry, error) {
	var out []UnitEntry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), UnitExtension) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out = append(out, UnitEntry{
			Name: strings.TrimSuffix(d.Name(), UnitExtension),
			Path: filepath.ToSlash(rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover units under %s: %w", root, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func pathWithin(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(rel, "..") && rel != ".."
}
