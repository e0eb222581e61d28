package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/diagfmt"
	"github.com/slaakko/cmajor-sub007/internal/project"
	"github.com/slaakko/cmajor-sub007/internal/source"
)

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{in: "", want: uiModeAuto},
		{in: " ON ", want: uiModeOn},
		{in: "off", want: uiModeOff},
		{in: "sometimes", wantErr: true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("readUIMode(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("readUIMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if !shouldUseTUI(uiModeOn) || shouldUseTUI(uiModeOff) {
		t.Fatalf("explicit ui modes ignored")
	}
}

func TestDriverOptionsPrefersFlagDepth(t *testing.T) {
	cfg := &project.Config{}
	cfg.Resolve.MaxInstantiationDepth = 12
	if got := driverOptions(cfg, 10, 0, 2, nil); got.MaxDepth != 12 || got.Jobs != 2 || got.MaxDiagnostics != 10 {
		t.Fatalf("unexpected options %+v", got)
	}
	if got := driverOptions(cfg, 10, 5, 0, nil); got.MaxDepth != 5 {
		t.Fatalf("flag depth ignored: %d", got.MaxDepth)
	}
}

func TestOpenCacheDisabled(t *testing.T) {
	cfg := &project.Config{Root: t.TempDir()}
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = "cache"
	cache, err := openCache(cfg, true)
	if err != nil || cache != nil {
		t.Fatalf("--no-cache opened a cache: %v", err)
	}
	cache, err = openCache(cfg, false)
	if err != nil || cache == nil {
		t.Fatalf("openCache: %v", err)
	}
}

func TestPrintDiagnosticsJSON(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.unit.toml", []byte("unit = \"a\"\n"))
	bag := diag.NewBag(10)
	diag.ReportError(diag.BagReporter{Bag: bag}, diag.SemaNoViableFunction, source.Span{File: id, Start: 0, End: 4}, "no viable function").Emit()

	var buf bytes.Buffer
	err := printDiagnostics(&buf, fs, []unitDiagnostics{{unit: "a", bag: bag}}, outputOptions{format: "json", pathMode: diagfmt.PathModeBasename})
	if err != nil {
		t.Fatalf("printDiagnostics: %v", err)
	}
	for _, want := range []string{`"unit": "a"`, `"code": "SEM3100"`, `"count": 1`} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("output lacks %s:\n%s", want, buf.String())
		}
	}
}
