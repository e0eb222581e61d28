package sema

import (
	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/symbols"
)

// BoundCall records the function a call-like construct resolved to.
// Variable initializations carry the statement instead of an expression.
type BoundCall struct {
	Expr        ast.ExprID
	Stmt        ast.StmtID
	Func        symbols.SymbolID
	Conversions []ArgConversion
}

type classState uint8

const (
	classPending classState = iota
	classCompleting
	classComplete
)

// Binder runs the two binder passes: declarations register names and
// types, bodies resolve statements and expressions.
type Binder struct {
	s *Session

	classes   map[symbols.SymbolID]classState
	pending   []symbols.SymbolID
	functions []symbols.SymbolID

	calls  []BoundCall
	byExpr map[ast.ExprID]int
}

func newBinder(s *Session) *Binder {
	return &Binder{
		s:       s,
		classes: make(map[symbols.SymbolID]classState),
		byExpr:  make(map[ast.ExprID]int),
	}
}

// Calls lists every resolved call in binding order.
func (b *Binder) Calls() []BoundCall {
	return append([]BoundCall(nil), b.calls...)
}

// CallOf returns the call recorded for expr.
func (b *Binder) CallOf(expr ast.ExprID) (BoundCall, bool) {
	i, ok := b.byExpr[expr]
	if !ok {
		return BoundCall{}, false
	}
	return b.calls[i], true
}

// Functions lists the non-generic functions with bodies declared so far.
func (b *Binder) Functions() []symbols.SymbolID {
	return append([]symbols.SymbolID(nil), b.functions...)
}

func (b *Binder) record(call BoundCall) {
	if call.Expr.IsValid() {
		b.byExpr[call.Expr] = len(b.calls)
	}
	b.calls = append(b.calls, call)
}
