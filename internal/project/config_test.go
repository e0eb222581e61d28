package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "core.unit.toml"), "")
	writeFile(t, filepath.Join(root, "src", "app.unit.toml"), "")
	path := filepath.Join(root, ConfigName)
	writeFile(t, path, `
[project]
name = "demo"

[[unit]]
name = "core"
path = "src/core.unit.toml"

[[unit]]
name = "app"
path = "src/app.unit.toml"
imports = ["core"]

[cache]
enabled = false

[resolve]
max_instantiation_depth = 16
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Project.Name != "demo" || len(cfg.Units) != 2 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Units[1].Path != filepath.Join(root, "src", "app.unit.toml") {
		t.Fatalf("unit path not resolved: %q", cfg.Units[1].Path)
	}
	if len(cfg.Units[1].Imports) != 1 || cfg.Units[1].Imports[0] != "core" {
		t.Fatalf("imports = %v", cfg.Units[1].Imports)
	}
	if cfg.Cache.Enabled {
		t.Fatalf("cache should be disabled")
	}
	if cfg.CacheDir() != filepath.Join(root, ".cmres", "cache") {
		t.Fatalf("cache dir = %q", cfg.CacheDir())
	}
	if cfg.Resolve.MaxInstantiationDepth != 16 {
		t.Fatalf("depth = %d", cfg.Resolve.MaxInstantiationDepth)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		is      error
	}{
		{name: "missing project", content: "[cache]\nenabled = true\n", is: ErrProjectSectionMissing},
		{name: "missing name", content: "[project]\n", is: ErrProjectNameMissing},
		{name: "bad toml", content: "[project\n", want: "failed to parse TOML"},
		{name: "unknown key", content: "[project]\nname = \"x\"\ncolour = 1\n", want: "unknown key"},
		{name: "invalid unit name", content: "[project]\nname = \"x\"\n[[unit]]\nname = \"9lives\"\npath = \"a.unit.toml\"\n", want: "invalid unit name"},
		{name: "escaping path", content: "[project]\nname = \"x\"\n[[unit]]\nname = \"a\"\npath = \"../a.unit.toml\"\n", want: "escapes project root"},
		{name: "missing file", content: "[project]\nname = \"x\"\n[[unit]]\nname = \"a\"\npath = \"nope.unit.toml\"\n", want: "invalid path"},
		{name: "duplicate unit", content: "[project]\nname = \"x\"\n[[unit]]\nname = \"a\"\npath = \"a.unit.toml\"\n[[unit]]\nname = \"a\"\npath = \"a.unit.toml\"\n", want: "declared twice"},
		{name: "negative depth", content: "[project]\nname = \"x\"\n[resolve]\nmax_instantiation_depth = -1\n", want: "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, filepath.Join(root, "a.unit.toml"), "")
			path := filepath.Join(root, ConfigName)
			writeFile(t, path, tt.content)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Fatalf("error %v is not %v", err, tt.is)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestDiscoverUnits(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.unit.toml"), "")
	writeFile(t, filepath.Join(root, "lib", "a.unit.toml"), "")
	writeFile(t, filepath.Join(root, ".cmres", "cache", "x.unit.toml"), "")
	writeFile(t, filepath.Join(root, "notes.toml"), "")
	path := filepath.Join(root, ConfigName)
	writeFile(t, path, "[project]\nname = \"d\"\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	var names []string
	for _, u := range cfg.Units {
		names = append(names, u.Name)
	}
	if strings.Join(names, ",") != "b,a" {
		t.Fatalf("discovered %v", names)
	}
	if !cfg.Cache.Enabled {
		t.Fatalf("cache should default to enabled")
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigName), "[project]\nname = \"x\"\n")
	deep := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got, ok, err := FindProjectRoot(deep)
	if err != nil || !ok {
		t.Fatalf("FindProjectRoot: ok=%v err=%v", ok, err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Fatalf("root = %q, want %q", got, want)
	}
}

func TestIsValidUnitName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"core", true},
		{"coll.seq", true},
		{"_x1", true},
		{"", false},
		{"a..b", false},
		{"1a", false},
		{"a-b", false},
		{"ü", false},
	}
	for _, tt := range tests {
		if got := IsValidUnitName(tt.name); got != tt.want {
			t.Fatalf("IsValidUnitName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCombineDependsOnOrder(t *testing.T) {
	a, b, c := HashContent([]byte("a")), HashContent([]byte("b")), HashContent([]byte("c"))
	if Combine(a, b, c) == Combine(a, c, b) {
		t.Fatalf("dependency order does not affect the hash")
	}
	if Combine(a, b) != Combine(a, b) {
		t.Fatalf("hash is not deterministic")
	}
}
