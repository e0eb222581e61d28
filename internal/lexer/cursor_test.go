package lexer

import (
	"testing"

	"github.com/slaakko/cmajor-sub007/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.unit.toml", []byte(content))
	return fs.Get(id)
}

func TestCursorSequentialReading(t *testing.T) {
	c := NewCursor(createFile("ab"))
	if c.Peek() != 'a' || c.Bump() != 'a' {
		t.Fatalf("expected 'a'")
	}
	b0, b1, ok := c.Peek2()
	if ok || b0 != 0 || b1 != 0 {
		t.Fatalf("Peek2 at the last byte must fail")
	}
	if c.Bump() != 'b' || !c.EOF() {
		t.Fatalf("expected 'b' then EOF")
	}
	if c.Bump() != 0 || c.Peek() != 0 {
		t.Fatalf("reads past EOF must return 0")
	}
}

func TestCursorWindow(t *testing.T) {
	c := NewWindow(createFile("0123456789"), 3, 6)
	m := c.Mark()
	var got []byte
	for !c.EOF() {
		got = append(got, c.Bump())
	}
	if string(got) != "345" {
		t.Fatalf("window read %q", got)
	}
	sp := c.SpanFrom(m)
	if sp.Start != 3 || sp.End != 6 {
		t.Fatalf("unexpected span %+v", sp)
	}
	c.Reset(m)
	if !c.Eat('3') || c.Eat('x') {
		t.Fatalf("Eat mismatch after reset")
	}
}

func TestCursorWindowClamped(t *testing.T) {
	c := NewWindow(createFile("abc"), 5, 10)
	if !c.EOF() || c.Off != 3 {
		t.Fatalf("window beyond content must be empty, off=%d", c.Off)
	}
}
