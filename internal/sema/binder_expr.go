package sema

import (
	"strconv"
	"strings"

	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/symbols"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

// bindExpr binds an expression and describes its value as a call argument.
// A false result means a diagnostic was already reported.
func (b *Binder) bindExpr(ctx *bodyCtx, id ast.ExprID) (Argument, bool) {
	s := b.s
	in := s.Types
	src := s.AST.Expr(id)
	if src == nil {
		invariant("unknown expression %d", id)
	}
	e := *src
	bt := in.Builtins()
	var a Argument
	ok := true
	switch e.Kind {
	case ast.ExprName:
		a, ok = b.bindName(ctx, e)
	case ast.ExprIntLit:
		a = RvalueArg(b.intLiteralType(e.Text))
	case ast.ExprFloatLit:
		t := bt.Double
		if strings.HasSuffix(e.Text, "f") {
			t = bt.Float
		}
		a = RvalueArg(t)
	case ast.ExprBoolLit:
		a = RvalueArg(bt.Bool)
	case ast.ExprCharLit:
		a = RvalueArg(bt.Char)
	case ast.ExprNull:
		a = RvalueArg(bt.NullPtr)
	case ast.ExprThis:
		if !ctx.this.IsValid() {
			b.errorAt(e.Span, "'this' used outside a member function")
			return Argument{}, false
		}
		a = RvalueArg(ctx.this)
	case ast.ExprCall:
		a, ok = b.bindCall(ctx, id, e)
	case ast.ExprMemberCall:
		a, ok = b.bindMemberCall(ctx, id, e)
	case ast.ExprConstruct, ast.ExprCast:
		t, err := s.resolveType(e.Type, ctx.env)
		if err != nil {
			s.Report(err)
			return Argument{}, false
		}
		args := e.Args
		if e.Kind == ast.ExprCast {
			args = []ast.ExprID{e.X}
		}
		a, ok = b.bindConstruction(ctx, id, e.Span, in.RemoveRef(t), args)
	case ast.ExprAddr:
		x, good := b.bindExpr(ctx, e.X)
		if !good {
			return Argument{}, false
		}
		if x.Category != Lvalue {
			b.errorAt(e.Span, "cannot take the address of an rvalue")
			return Argument{}, false
		}
		a = RvalueArg(in.AddPointer(x.Type))
	case ast.ExprDeref:
		x, good := b.bindExpr(ctx, e.X)
		if !good {
			return Argument{}, false
		}
		if !in.IsPointer(x.Type) {
			b.errorAt(e.Span, "cannot dereference non-pointer type '"+in.Name(x.Type)+"'")
			return Argument{}, false
		}
		a = LvalueArg(in.RemovePointer(x.Type))
	case ast.ExprMove:
		x, good := b.bindExpr(ctx, e.X)
		if !good {
			return Argument{}, false
		}
		a = RvalueArg(x.Type)
	case ast.ExprBinary:
		args, good := b.bindArgs(ctx, []ast.ExprID{e.X, e.Y})
		if !good {
			return Argument{}, false
		}
		a, ok = b.callResult(b.resolveCall(id, ast.NoStmtID, e.Span, "operator"+e.Name, args, ctx.scopes(), ConversionImplicit))
	case ast.ExprAssign:
		args, good := b.bindArgs(ctx, []ast.ExprID{e.X, e.Y})
		if !good {
			return Argument{}, false
		}
		if args[0].Category != Lvalue {
			b.errorAt(e.Span, "cannot assign to an rvalue")
			return Argument{}, false
		}
		args[0] = b.temporary(args[0].Type, args[0].Span)
		a, ok = b.callResult(b.resolveCall(id, ast.NoStmtID, e.Span, "operator=", args, ctx.scopes(), ConversionImplicit))
	default:
		invariant("unknown expression kind %d", e.Kind)
	}
	a.Span = e.Span
	return a, ok
}

func (b *Binder) errorAt(sp source.Span, msg string) {
	diag.ReportError(b.s.reporter, diag.SemaError, sp, msg).Emit()
}

func (b *Binder) intLiteralType(text string) types.TypeID {
	bt := b.s.Types.Builtins()
	unsigned := strings.HasSuffix(text, "u") || strings.HasSuffix(text, "U")
	negative := strings.HasPrefix(text, "-")
	v, err := strconv.ParseUint(strings.TrimRight(strings.TrimPrefix(text, "-"), "uU"), 0, 64)
	if err != nil {
		return bt.Long
	}
	switch {
	case negative && v <= 0x80000000:
		return bt.Int
	case negative:
		return bt.Long
	case unsigned && v <= 0xFFFFFFFF:
		return bt.UInt
	case unsigned:
		return bt.ULong
	case v <= 0x7FFFFFFF:
		return bt.Int
	}
	return bt.Long
}

// callResult turns the selected function into the call's value.
func (b *Binder) callResult(fn symbols.SymbolID, ok bool) (Argument, bool) {
	if !ok {
		return Argument{}, false
	}
	in := b.s.Types
	r := b.s.Table.Symbol(fn).Signature.Result
	if in.IsLvalueRef(r) {
		return LvalueArg(in.RemoveRef(r)), true
	}
	return RvalueArg(in.RemoveRef(r)), true
}

func (b *Binder) bindName(ctx *bodyCtx, e ast.Expr) (Argument, bool) {
	s := b.s
	in := s.Types
	ids := s.Table.LookupQualified(ctx.scope, e.Name)
	if len(ids) == 0 {
		diag.ReportError(s.reporter, diag.SemaUnresolvedName, e.Span, "name '"+e.Name+"' not found").Emit()
		return Argument{}, false
	}
	sym := *s.Table.Symbol(ids[0])
	switch sym.Kind {
	case symbols.SymbolLocal, symbols.SymbolParam:
		return LvalueArg(in.RemoveRef(sym.Type)), true
	case symbols.SymbolVariable:
		t := sym.Type
		if sym.Flags.Has(symbols.FlagMember) {
			if !ctx.this.IsValid() {
				b.errorAt(e.Span, "member variable '"+e.Name+"' used without an object")
				return Argument{}, false
			}
			if in.IsConst(ctx.this) && !in.IsPointer(t) {
				t = in.AddConst(t)
			}
		}
		return LvalueArg(in.RemoveRef(t)), true
	case symbols.SymbolEnumConstant:
		return RvalueArg(sym.Type), true
	}
	b.errorAt(e.Span, "'"+e.Name+"' is a "+sym.Kind.String()+", not a value")
	return Argument{}, false
}

// bindConstruction binds T(args) and cast<T>(x): both construct a
// temporary of type t with explicit conversions allowed.
func (b *Binder) bindConstruction(ctx *bodyCtx, id ast.ExprID, sp source.Span, t types.TypeID, argExprs []ast.ExprID) (Argument, bool) {
	if b.s.Types.KindOf(t) == types.KindVoid {
		b.errorAt(sp, "cannot construct a value of type void")
		return Argument{}, false
	}
	rest, ok := b.bindArgs(ctx, argExprs)
	if !ok {
		return Argument{}, false
	}
	args := append([]Argument{b.temporary(t, sp)}, rest...)
	if _, ok := b.resolveCall(id, ast.NoStmtID, sp, symbols.GroupConstructor, args, nil, ConversionExplicit); !ok {
		return Argument{}, false
	}
	return RvalueArg(t), true
}

func (b *Binder) bindCall(ctx *bodyCtx, id ast.ExprID, e ast.Expr) (Argument, bool) {
	s := b.s
	if k, ok := types.KindByName(e.Name); ok {
		return b.bindConstruction(ctx, id, e.Span, s.Types.Basic(k), e.Args)
	}
	ids := s.Table.LookupQualified(ctx.scope, e.Name)
	if len(ids) > 0 {
		if sym := s.Table.Symbol(ids[0]); sym.IsType() {
			return b.bindConstruction(ctx, id, e.Span, sym.Type, e.Args)
		}
	}
	dot := strings.LastIndexByte(e.Name, '.')
	if dot >= 0 && b.isValueName(ctx, e.Name[:dot]) {
		recv, ok := b.bindName(ctx, ast.Expr{Kind: ast.ExprName, Span: e.Span, Name: e.Name[:dot]})
		if !ok {
			return Argument{}, false
		}
		recv.Span = e.Span
		return b.memberCall(ctx, id, e.Span, recv, e.Name[dot+1:], e.Args, false)
	}
	args, ok := b.bindArgs(ctx, e.Args)
	if !ok {
		return Argument{}, false
	}
	group := e.Name
	scopes := ctx.scopes()
	if dot >= 0 {
		owners := s.Table.LookupQualified(ctx.scope, e.Name[:dot])
		if len(owners) != 1 || !s.Table.Symbol(owners[0]).Owns.IsValid() {
			diag.ReportError(s.reporter, diag.SemaUnresolvedName, e.Span, "'"+e.Name[:dot]+"' does not name a namespace or class").Emit()
			return Argument{}, false
		}
		group = e.Name[dot+1:]
		scopes = []LookupScope{{Scope: s.Table.Symbol(owners[0]).Owns, Mode: symbols.LookupThisAndBases}}
	} else if ctx.this.IsValid() && b.hasMemberFunction(ctx.class, group) {
		this := RvalueArg(ctx.this)
		this.Span = e.Span
		args = append([]Argument{this}, args...)
	}
	return b.callResult(b.resolveCall(id, ast.NoStmtID, e.Span, group, args, scopes, ConversionImplicit))
}

func (b *Binder) hasMemberFunction(class symbols.SymbolID, name string) bool {
	s := b.s
	cls := s.Table.Symbol(class)
	if cls == nil || !cls.Owns.IsValid() {
		return false
	}
	for _, id := range s.Table.Lookup(cls.Owns, name, symbols.LookupThisAndBases) {
		fn := s.Table.Symbol(id)
		if fn.IsFunction() && fn.Flags.Has(symbols.FlagMember) && !fn.Flags.Has(symbols.FlagStatic) {
			return true
		}
	}
	return false
}

// isValueName reports whether name denotes a local, parameter or variable,
// so that "x.f()" is a member call rather than a qualified call.
func (b *Binder) isValueName(ctx *bodyCtx, name string) bool {
	ids := b.s.Table.LookupQualified(ctx.scope, name)
	if len(ids) == 0 {
		return false
	}
	switch b.s.Table.Symbol(ids[0]).Kind {
	case symbols.SymbolLocal, symbols.SymbolParam, symbols.SymbolVariable:
		return true
	}
	return false
}

func (b *Binder) bindMemberCall(ctx *bodyCtx, id ast.ExprID, e ast.Expr) (Argument, bool) {
	recv, ok := b.bindExpr(ctx, e.X)
	if !ok {
		return Argument{}, false
	}
	return b.memberCall(ctx, id, e.Span, recv, e.Name, e.Args, e.Arrow)
}

func (b *Binder) memberCall(ctx *bodyCtx, id ast.ExprID, sp source.Span, recv Argument, name string, argExprs []ast.ExprID, arrow bool) (Argument, bool) {
	in := b.s.Types
	if arrow != in.IsPointer(recv.Type) {
		op := "'.'"
		if arrow {
			op = "'->'"
		}
		b.errorAt(sp, op+" cannot be applied to '"+in.Name(recv.Type)+"'")
		return Argument{}, false
	}
	if _, ok := in.ClassOf(recv.Type); !ok {
		b.errorAt(sp, "'"+in.Name(recv.Type)+"' is not a class type")
		return Argument{}, false
	}
	rest, ok := b.bindArgs(ctx, argExprs)
	if !ok {
		return Argument{}, false
	}
	args := append([]Argument{recv}, rest...)
	return b.callResult(b.resolveCall(id, ast.NoStmtID, sp, name, args, nil, ConversionImplicit))
}
