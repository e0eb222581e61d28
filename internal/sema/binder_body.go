package sema

import (
	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/symbols"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

// bodyCtx is the state of one function body being bound.
type bodyCtx struct {
	fn     symbols.SymbolID
	scope  symbols.ScopeID
	env    typeEnv
	result types.TypeID
	// this is the type of the implicit this parameter, NoTypeID outside
	// member functions.
	this  types.TypeID
	class symbols.SymbolID
}

func (ctx *bodyCtx) scopes() []LookupScope {
	return []LookupScope{{Scope: ctx.scope, Mode: symbols.LookupThisBasesAndParents}}
}

// bindFunction opens a function scope holding the parameters and binds
// body statement by statement.
func (b *Binder) bindFunction(fn symbols.SymbolID, body []ast.StmtID, env typeEnv) {
	s := b.s
	sym := *s.Table.Symbol(fn)
	fs := s.Table.NewScope(symbols.ScopeFunction, sym.Name, sym.Scope, fn, sym.Span)
	ctx := &bodyCtx{
		fn:     fn,
		scope:  fs,
		env:    typeEnv{scope: fs, args: env.args},
		result: sym.Signature.Result,
		class:  sym.Parent,
	}
	member := sym.Flags.Has(symbols.FlagMember) && !sym.Flags.Has(symbols.FlagStatic)
	for i, p := range sym.Signature.Params {
		if member && i == 0 {
			ctx.this = p
			continue
		}
		if i >= len(sym.Signature.ParamNames) || sym.Signature.ParamNames[i] == "" {
			continue
		}
		s.Table.Install(fs, &symbols.Symbol{
			Name:   sym.Signature.ParamNames[i],
			Kind:   symbols.SymbolParam,
			Span:   sym.Span,
			Parent: fn,
			Type:   p,
		})
	}
	s.Table.Begin(fs)
	defer s.Table.End()
	for _, st := range body {
		b.bindStmt(ctx, st)
	}
}

func (b *Binder) bindStmt(ctx *bodyCtx, id ast.StmtID) {
	src := b.s.AST.Stmt(id)
	if src == nil {
		invariant("unknown statement %d", id)
	}
	st := *src
	switch st.Kind {
	case ast.StmtVar:
		b.bindVar(ctx, id, st)
	case ast.StmtExpr:
		b.bindExpr(ctx, st.X)
	case ast.StmtReturn:
		b.bindReturn(ctx, id, st)
	default:
		invariant("unknown statement kind %d", st.Kind)
	}
}

func (b *Binder) bindVar(ctx *bodyCtx, id ast.StmtID, st ast.Stmt) {
	s := b.s
	in := s.Types
	t, err := s.resolveType(st.Type, ctx.env)
	if err != nil {
		s.Report(err)
		return
	}
	defer s.Table.Install(ctx.scope, &symbols.Symbol{Name: st.Name, Kind: symbols.SymbolLocal, Span: st.Span, Parent: ctx.fn, Type: t})
	if in.KindOf(t) == types.KindVoid {
		diag.ReportError(s.reporter, diag.SemaError, st.Span, "variable '"+st.Name+"' cannot have type void").Emit()
		return
	}
	if in.IsReference(t) {
		if !st.Init.IsValid() {
			diag.ReportError(s.reporter, diag.SemaError, st.Span, "reference '"+st.Name+"' must be initialized").Emit()
			return
		}
		if x, ok := b.bindExpr(ctx, st.Init); ok {
			b.bindReference(x, t, st.Span)
		}
		return
	}
	args := []Argument{b.temporary(t, st.Span)}
	mode := ConversionImplicit
	switch {
	case st.Init.IsValid():
		x, ok := b.bindExpr(ctx, st.Init)
		if !ok {
			return
		}
		args = append(args, x)
	case st.HasCtor:
		more, ok := b.bindArgs(ctx, st.CtorArgs)
		if !ok {
			return
		}
		args = append(args, more...)
		mode = ConversionExplicit
	}
	if _, ok := b.resolveCall(ast.NoExprID, id, st.Span, symbols.GroupConstructor, args, nil, mode); ok {
		b.destroy(t, st.Span)
	}
}

// temporary is the this argument constructing an object of type t.
func (b *Binder) temporary(t types.TypeID, sp source.Span) Argument {
	a := RvalueArg(b.s.Types.AddPointer(t))
	a.Span = sp
	return a
}

func (b *Binder) bindReference(x Argument, t types.TypeID, sp source.Span) bool {
	s := b.s
	if _, ok := s.resolver.matchArgument(x, t, ConversionImplicit); !ok {
		diag.ReportError(s.reporter, diag.SemaNoConversion, sp,
			"cannot bind "+x.Category.String()+" of type '"+s.Types.Name(x.Type)+"' to '"+s.Types.Name(t)+"'").Emit()
		return false
	}
	return true
}

// destroy resolves the destructor a class-typed local needs at scope exit.
func (b *Binder) destroy(t types.TypeID, sp source.Span) {
	s := b.s
	if s.Types.IsPointer(t) {
		return
	}
	cls := s.resolver.classSymbol(t)
	if !cls.IsValid() || len(s.Table.Members(s.Table.Symbol(cls).Owns, symbols.GroupDestructor)) == 0 {
		return
	}
	if _, err := s.resolver.ResolveAt(sp, symbols.GroupDestructor, []Argument{b.temporary(t, sp)}, nil, ConversionImplicit); err != nil {
		s.Report(err)
	}
}

func (b *Binder) bindReturn(ctx *bodyCtx, id ast.StmtID, st ast.Stmt) {
	s := b.s
	in := s.Types
	void := in.Builtins().Void
	if !st.X.IsValid() {
		if ctx.result != void {
			diag.ReportError(s.reporter, diag.SemaReturnMismatch, st.Span,
				"missing return value in function returning '"+in.Name(ctx.result)+"'").Emit()
		}
		return
	}
	x, ok := b.bindExpr(ctx, st.X)
	if !ok {
		return
	}
	switch {
	case ctx.result == void:
		diag.ReportError(s.reporter, diag.SemaReturnMismatch, st.Span, "cannot return a value from a function returning void").Emit()
	case in.IsReference(ctx.result):
		b.bindReference(x, ctx.result, st.Span)
	default:
		args := []Argument{b.temporary(ctx.result, st.Span), x}
		b.resolveCall(ast.NoExprID, id, st.Span, symbols.GroupConstructor, args, nil, ConversionImplicit)
	}
}

func (b *Binder) bindArgs(ctx *bodyCtx, ids []ast.ExprID) ([]Argument, bool) {
	out := make([]Argument, 0, len(ids))
	ok := true
	for _, id := range ids {
		a, good := b.bindExpr(ctx, id)
		ok = ok && good
		out = append(out, a)
	}
	return out, ok
}

// resolveCall resolves and records a call, reporting failures.
func (b *Binder) resolveCall(expr ast.ExprID, stmt ast.StmtID, sp source.Span, group string, args []Argument, scopes []LookupScope, mode ConversionMode) (symbols.SymbolID, bool) {
	m, err := b.s.resolver.ResolveAt(sp, group, args, scopes, mode)
	if err != nil {
		b.s.Report(err)
		return symbols.NoSymbolID, false
	}
	b.record(BoundCall{Expr: expr, Stmt: stmt, Func: m.Func, Conversions: m.Conversions})
	return m.Func, true
}
