package ast

import "github.com/slaakko/cmajor-sub007/internal/source"

type ConstraintKind uint8

const (
	ConstraintAnd ConstraintKind = iota + 1
	ConstraintOr
	ConstraintNot
	ConstraintPred
)

// Constraint is a where-clause node over the type parameters of a generic class.
type Constraint struct {
	Kind  ConstraintKind
	Span  source.Span
	Left  ConstraintID
	Right ConstraintID
	Name  string
	Args  []TypeExprID
}
