package unitfile

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/parser"
	"github.com/slaakko/cmajor-sub007/internal/source"
)

// Extension is the suffix of unit declaration files.
const Extension = ".unit.toml"

type Options struct {
	Reporter  diag.Reporter
	MaxErrors uint
}

// Import is a unit named in the imports list.
type Import struct {
	Name string
	Span source.Span
}

// Unit is a loaded declaration file.
type Unit struct {
	Name    string
	Source  source.FileID
	File    ast.FileID
	Imports []Import
}

// Load reads path into fs and parses it.
func Load(fs *source.FileSet, path string, b *ast.Builder, opts Options) (*Unit, error) {
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load unit %s: %w", path, err)
	}
	u, ok := Parse(fs, id, b, opts)
	if !ok {
		return u, fmt.Errorf("%s: %w", path, ErrMalformed)
	}
	return u, nil
}

// ErrMalformed reports that a unit file had syntax errors; details went to
// the reporter.
var ErrMalformed = errors.New("malformed unit file")

// Parse decodes the file already stored in fs. The returned unit is usable
// even when ok is false; malformed declarations are left out.
func Parse(fs *source.FileSet, id source.FileID, b *ast.Builder, opts Options) (*Unit, bool) {
	f := fs.Get(id)
	path, content := f.Path, string(f.Content)
	l := &loader{
		b:    b,
		opts: parser.Options{Reporter: opts.Reporter, MaxErrors: opts.MaxErrors},
		loc:  &locator{fs: fs, file: id, content: content},
		ns:   make(map[string]ast.ItemID),
	}
	u := &Unit{Name: unitName(path), Source: id}

	var doc document
	md, err := toml.Decode(content, &doc)
	if err != nil {
		l.report(diag.UnitSyntax, tomlErrorSpan(f, err), "malformed unit file: "+tomlMessage(err))
		u.File = b.NewFile(id, path, u.Name)
		return u, false
	}
	for _, key := range md.Undecoded() {
		l.report(diag.UnitSyntax, l.loc.spanOf(key[len(key)-1]), "unknown key '"+key.String()+"'")
	}
	if doc.Unit != "" {
		u.Name = doc.Unit
	}
	u.File = b.NewFile(id, path, u.Name)
	l.file = u.File

	seen := make(map[string]bool, len(doc.Imports))
	for _, name := range doc.Imports {
		sp := l.loc.spanOf(name)
		if seen[name] {
			l.report(diag.UnitDuplicateEntry, sp, "unit '"+name+"' imported twice")
			continue
		}
		seen[name] = true
		u.Imports = append(u.Imports, Import{Name: name, Span: sp})
	}

	for i := range doc.Classes {
		c := &doc.Classes[i]
		if item, ok := l.class(c, false); ok {
			l.push(c.Namespace, item)
		}
	}
	for i := range doc.Enums {
		e := &doc.Enums[i]
		if item, ok := l.enum(e); ok {
			l.push(e.Namespace, item)
		}
	}
	for i := range doc.Vars {
		v := &doc.Vars[i]
		if item, ok := l.variable(v); ok {
			l.push(v.Namespace, item)
		}
	}
	for i := range doc.Functions {
		fn := &doc.Functions[i]
		if item, ok := l.function(fn, ""); ok {
			l.push(fn.Namespace, item)
		}
	}
	return u, !l.failed
}

func unitName(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(base, Extension) {
		return strings.TrimSuffix(base, Extension)
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func tomlMessage(err error) string {
	var perr toml.ParseError
	if errors.As(err, &perr) {
		return perr.Message
	}
	return err.Error()
}

// tomlErrorSpan points at the line the TOML decoder complained about.
func tomlErrorSpan(f *source.File, err error) source.Span {
	var perr toml.ParseError
	if !errors.As(err, &perr) || perr.Position.Line <= 0 {
		return source.Span{File: f.ID}
	}
	line := perr.Position.Line
	var start uint32
	if line > 1 && line-2 < len(f.LineIdx) {
		start = f.LineIdx[line-2] + 1
	}
	end := uint32(len(f.Content))
	if line-1 < len(f.LineIdx) {
		end = f.LineIdx[line-1]
	}
	return source.Span{File: f.ID, Start: start, End: end}
}
