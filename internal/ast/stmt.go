package ast

import "github.com/slaakko/cmajor-sub007/internal/source"

type StmtKind uint8

const (
	StmtVar StmtKind = iota + 1
	StmtExpr
	StmtReturn
)

type Stmt struct {
	Kind StmtKind
	Span source.Span
	Name string
	Type TypeExprID
	// Init is "= expr"; CtorArgs is "(args)"; HasCtor distinguishes "x()" from "x".
	Init     ExprID
	CtorArgs []ExprID
	HasCtor  bool
	X        ExprID
}
