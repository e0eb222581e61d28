package ast

import "github.com/slaakko/cmajor-sub007/internal/source"

type ExprKind uint8

const (
	ExprName ExprKind = iota + 1
	ExprIntLit
	ExprFloatLit
	ExprBoolLit
	ExprCharLit
	ExprNull
	ExprThis
	ExprCall       // Name(Args)
	ExprMemberCall // Recv.Name(Args) or Recv->Name(Args)
	ExprConstruct  // Type(Args)
	ExprAddr
	ExprDeref
	ExprMove
	ExprCast // cast<Type>(X)
	ExprBinary
	ExprAssign
)

type Expr struct {
	Kind  ExprKind
	Span  source.Span
	Name  string // identifier, callee, member or operator
	Text  string // literal text
	X     ExprID // operand, receiver or left side
	Y     ExprID // right side
	Args  []ExprID
	Type  TypeExprID
	Arrow bool
}
