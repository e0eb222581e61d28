package ast

import (
	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

type TypeExprKind uint8

const (
	TypeExprName        TypeExprKind = iota + 1 // int, Foo, ns.Foo, T
	TypeExprGeneric                             // List<int>
	TypeExprDerived                             // const T&, T*
	TypeExprPlaceholder                         // bound type argument of an instantiation clone
)

type TypeExpr struct {
	Kind  TypeExprKind
	Span  source.Span
	Name  string // dotted for qualified names
	Args  []TypeExprID
	Elem  TypeExprID
	Deriv types.Derivations
	Slot  int
}
