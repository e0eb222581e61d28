// Package parser turns declaration fragments of unit files into syntax-tree
// nodes: type expressions, parameters, type parameters, constraints and
// function bodies.
package parser

import (
	"slices"

	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/lexer"
	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error limit was reached.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Fragment is a byte range of a file holding one fragment.
type Fragment struct {
	File  *source.File
	Start uint32
	End   uint32
}

// Whole is the fragment covering all of f.
func Whole(f *source.File) Fragment {
	return Fragment{File: f, Start: 0, End: uint32(len(f.Content))}
}

// Parser holds the state for one fragment.
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	opts     *Options
	lastSpan source.Span
	quiet    int
	failed   bool
}

func newParser(b *ast.Builder, f Fragment, opts *Options) *Parser {
	lx := lexer.NewRange(f.File, f.Start, f.End, lexer.Options{Reporter: opts.Reporter})
	return &Parser{lx: lx, arenas: b, opts: opts, lastSpan: lx.EmptySpan()}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// finish requires the whole fragment to be consumed.
func (p *Parser) finish(what string) bool {
	if !p.at(token.EOF) {
		p.err(diag.UnitSyntax, "unexpected '"+p.lx.Peek().Text+"' after "+what)
		return false
	}
	return !p.failed
}

// Type parses a complete type expression such as "const List<T>&".
func Type(b *ast.Builder, f Fragment, opts *Options) (ast.TypeExprID, bool) {
	p := newParser(b, f, opts)
	t, ok := p.parseType()
	return t, ok && p.finish("type")
}

// Param parses "Type name". The name may be omitted.
func Param(b *ast.Builder, f Fragment, opts *Options) (ast.Param, bool) {
	p := newParser(b, f, opts)
	start := p.lx.Peek().Span
	t, ok := p.parseType()
	if !ok {
		return ast.Param{}, false
	}
	prm := ast.Param{Type: t, Span: start.Cover(p.lastSpan)}
	if p.at(token.Ident) {
		tok := p.advance()
		prm.Name = tok.Text
		prm.Span = prm.Span.Cover(tok.Span)
	}
	return prm, p.finish("parameter")
}

// TypeParam parses "T" or "U = Default".
func TypeParam(b *ast.Builder, f Fragment, opts *Options) (ast.TypeParam, bool) {
	p := newParser(b, f, opts)
	tok, ok := p.expect(token.Ident, diag.UnitSyntax, "expected type parameter name")
	if !ok {
		return ast.TypeParam{}, false
	}
	tp := ast.TypeParam{Name: tok.Text, Span: tok.Span}
	if p.at(token.Assign) {
		p.advance()
		tp.Default, ok = p.parseType()
		if !ok {
			return ast.TypeParam{}, false
		}
		tp.Span = tp.Span.Cover(p.lastSpan)
	}
	return tp, p.finish("type parameter")
}

// Constraint parses a where-clause expression.
func Constraint(b *ast.Builder, f Fragment, opts *Options) (ast.ConstraintID, bool) {
	p := newParser(b, f, opts)
	c, ok := p.parseConstraintOr()
	return c, ok && p.finish("constraint")
}

// Body parses a sequence of statements.
func Body(b *ast.Builder, f Fragment, opts *Options) ([]ast.StmtID, bool) {
	p := newParser(b, f, opts)
	var stmts []ast.StmtID
	ok := true
	for !p.at(token.EOF) {
		st, good := p.parseStmt()
		if !good {
			ok = false
			p.resyncStmt()
			continue
		}
		stmts = append(stmts, st)
	}
	return stmts, ok && !p.failed
}
