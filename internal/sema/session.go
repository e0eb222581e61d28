// Package sema implements the semantic-resolution core: overload
// resolution, generic class instantiation with constraint checking and lazy
// member binding, and the two binder passes that drive them.
package sema

import (
	"errors"

	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/constraint"
	"github.com/slaakko/cmajor-sub007/internal/conv"
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/symbols"
	"github.com/slaakko/cmajor-sub007/internal/trace"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

const defaultMaxDepth = 64

// Options configure a Session. The zero value is usable.
type Options struct {
	// MaxDepth bounds nested instantiation.
	MaxDepth int
	Reporter diag.Reporter
	Tracer   trace.Tracer
	// TraceParent is the span resolution and instantiation spans nest under.
	TraceParent uint64
}

// Session holds the per-unit state shared by the binder, the overload
// resolver and the instantiation engine. It is single-threaded.
type Session struct {
	AST   *ast.Builder
	Table *symbols.Table
	Types *types.Interner
	Conv  *conv.Table

	opts     Options
	reporter diag.Reporter
	tracer   trace.Tracer

	resolver *Resolver
	engine   *Engine
	binder   *Binder
	checker  *constraint.Checker

	builtinScope symbols.ScopeID
	builtins     map[builtinKey]symbols.SymbolID
	defaultsDone map[symbols.SymbolID]bool
}

func NewSession(b *ast.Builder, opts Options) *Session {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	in := types.NewInterner()
	s := &Session{
		AST:          b,
		Table:        symbols.NewTable(symbols.Hints{}),
		Types:        in,
		Conv:         conv.NewTable(in),
		opts:         opts,
		reporter:     opts.Reporter,
		tracer:       opts.Tracer,
		builtins:     make(map[builtinKey]symbols.SymbolID),
		defaultsDone: make(map[symbols.SymbolID]bool),
	}
	s.builtinScope = s.Table.NewScope(symbols.ScopeNamespace, "@builtin", symbols.NoScopeID, symbols.NoSymbolID, noSpan)
	s.resolver = &Resolver{s: s}
	s.engine = newEngine(s)
	s.binder = newBinder(s)
	s.checker = constraint.NewChecker(in, prober{s: s})
	return s
}

func (s *Session) Resolver() *Resolver { return s.resolver }

func (s *Session) Engine() *Engine { return s.engine }

func (s *Session) Binder() *Binder { return s.binder }

func (s *Session) Checker() *constraint.Checker { return s.checker }

// Report turns err into a diagnostic on the session reporter.
func (s *Session) Report(err error) {
	if err == nil {
		return
	}
	var se *Error
	if errors.As(err, &se) {
		diag.ReportError(s.reporter, se.Code, se.Span, se.Message).WithNotes(se.Notes...).Emit()
		return
	}
	diag.ReportError(s.reporter, diag.SemaError, noSpan, err.Error()).Emit()
}

// Signature renders a function symbol as "ns.C.f(const C*, int)".
func (s *Session) Signature(fn symbols.SymbolID) string {
	sym := s.Table.Symbol(fn)
	if sym == nil {
		return "<invalid>"
	}
	name := s.Table.QualifiedName(fn)
	if sym.Signature == nil {
		return name
	}
	return name + s.Types.Names(sym.Signature.Params)
}
