package unitfile

import (
	"fmt"
	"strings"

	"github.com/slaakko/cmajor-sub007/internal/parser"
	"github.com/slaakko/cmajor-sub007/internal/source"

	"fortio.org/safecast"
)

// locator maps decoded TOML strings back to byte ranges of the unit file.
// Entries are visited in document order; each entry searches from the
// position of its name.
type locator struct {
	fs      *source.FileSet
	file    source.FileID
	content string
	pos     int
	anchor  int
	virtual int
}

func (l *locator) srcFile() *source.File { return l.fs.Get(l.file) }

// enter anchors the following lookups at the next occurrence of name.
func (l *locator) enter(name string) source.Span {
	start, ok := l.search(name, l.pos)
	if !ok {
		start, ok = l.search(name, 0)
	}
	if !ok {
		l.anchor = l.pos
		return l.here()
	}
	l.anchor = start
	l.pos = start + len(name)
	return l.span(start, len(name))
}

// fragment returns the range holding text. Text that does not occur
// verbatim, for example because of escapes, is placed into a virtual file.
func (l *locator) fragment(text, what string) parser.Fragment {
	start, ok := l.search(text, l.anchor)
	if !ok {
		start, ok = l.search(text, 0)
	}
	if ok {
		if end := start + len(text); end > l.pos {
			l.pos = end
		}
		sp := l.span(start, len(text))
		return parser.Fragment{File: l.srcFile(), Start: sp.Start, End: sp.End}
	}
	l.virtual++
	name := fmt.Sprintf("%s#%s%d", l.srcFile().Path, what, l.virtual)
	id := l.fs.AddVirtual(name, []byte(text))
	return parser.Whole(l.fs.Get(id))
}

// span of text as a plain string value, without parsing it.
func (l *locator) spanOf(text string) source.Span {
	start, ok := l.search(text, l.anchor)
	if !ok {
		start, ok = l.search(text, 0)
	}
	if !ok {
		return source.Span{File: l.file, Start: l.offset(l.anchor), End: l.offset(l.anchor)}
	}
	return l.span(start, len(text))
}

// here is the empty span at the current search position.
func (l *locator) here() source.Span {
	return source.Span{File: l.file, Start: l.offset(l.pos), End: l.offset(l.pos)}
}

// search prefers quoted occurrences so that "T" does not match inside "Tree".
func (l *locator) search(text string, from int) (int, bool) {
	if text == "" || from > len(l.content) {
		return 0, false
	}
	rest := l.content[from:]
	for _, q := range []string{`"`, `'`} {
		if i := strings.Index(rest, q+text+q); i >= 0 {
			return from + i + 1, true
		}
	}
	if i := strings.Index(rest, text); i >= 0 {
		return from + i, true
	}
	return 0, false
}

func (l *locator) span(start, n int) source.Span {
	return source.Span{File: l.file, Start: l.offset(start), End: l.offset(start + n)}
}

func (l *locator) offset(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("unit file offset overflow: %w", err))
	}
	return v
}
