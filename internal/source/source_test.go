package source

import (
	"fmt"
	"sync"
	"testing"
)

func TestInternerRoundTrip(t *testing.T) {
	in := NewInterner()
	a := in.Intern("List")
	b := in.Intern("List")
	if a != b {
		t.Fatalf("expected identical ids, got %d and %d", a, b)
	}
	if got := in.MustLookup(a); got != "List" {
		t.Fatalf("lookup mismatch: %q", got)
	}
	if _, ok := in.Find("missing"); ok {
		t.Fatalf("Find must not insert")
	}
	if in.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", in.Len())
	}
}

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("unit.toml", []byte("a\nbc\n\nxyz"))
	cases := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},
		{1, 1, 2},
		{2, 2, 1},
		{3, 2, 2},
		{5, 3, 1},
		{6, 4, 1},
		{8, 4, 3},
	}
	for _, c := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: c.off, End: c.off})
		if start.Line != c.line || start.Col != c.col {
			t.Fatalf("offset %d: expected %d:%d, got %d:%d", c.off, c.line, c.col, start.Line, start.Col)
		}
	}
	if got := fs.Get(id).GetLine(2); got != "bc" {
		t.Fatalf("GetLine(2) = %q", got)
	}
	if got := fs.Get(id).GetLine(4); got != "xyz" {
		t.Fatalf("GetLine(4) = %q", got)
	}
}

func TestNormalizeCRLFAndBOM(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\r\nb\rc"))
	if !changed || string(out) != "a\nb\rc" {
		t.Fatalf("unexpected normalization: %q", out)
	}
	stripped, had := removeBOM([]byte{0xEF, 0xBB, 0xBF, 'x'})
	if !had || string(stripped) != "x" {
		t.Fatalf("BOM not removed: %q", stripped)
	}
	composed, changed := normalizeNFC([]byte("# cafe\u0301\n"))
	if !changed || string(composed) != "# caf\u00e9\n" {
		t.Fatalf("NFC not applied: %q", composed)
	}
	if _, changed := normalizeNFC([]byte("plain")); changed {
		t.Fatalf("ASCII reported as changed")
	}
}

func TestFileSetConcurrentAdd(t *testing.T) {
	fs := NewFileSet()
	base := fs.AddVirtual("base.toml", []byte("x"))
	var wg sync.WaitGroup
	ids := make([][]FileID, 8)
	for w := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 50 {
				name := fmt.Sprintf("w%d#body%d", w, i)
				id := fs.AddVirtual(name, []byte(name))
				ids[w] = append(ids[w], id)
				if fs.Get(base) == nil {
					t.Errorf("base file lost")
					return
				}
			}
		}()
	}
	wg.Wait()
	seen := make(map[FileID]bool)
	for w, list := range ids {
		for i, id := range list {
			if seen[id] {
				t.Fatalf("id %d handed out twice", id)
			}
			seen[id] = true
			want := fmt.Sprintf("w%d#body%d", w, i)
			if got := string(fs.Get(id).Content); got != want {
				t.Fatalf("file %d holds %q, want %q", id, got, want)
			}
			if f, ok := fs.GetByPath(want); !ok || f.ID != id {
				t.Fatalf("path %s does not map to %d", want, id)
			}
		}
	}
}
