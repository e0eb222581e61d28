package parser

import (
	"github.com/slaakko/cmajor-sub007/internal/token"
)

// Binary operator precedence; larger binds tighter.
const (
	precAssignment     = 1 // =
	precEquality       = 2 // == !=
	precComparison     = 3 // < <= > >=
	precAdditive       = 4 // + -
	precMultiplicative = 5 // * /
)

// binaryPrec returns the precedence of kind and whether it is right
// associative. Zero means kind is not a binary operator.
func binaryPrec(kind token.Kind) (int, bool) {
	switch kind {
	case token.Assign:
		return precAssignment, true
	case token.EqEq, token.BangEq:
		return precEquality, false
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison, false
	case token.Plus, token.Minus:
		return precAdditive, false
	case token.Star, token.Slash:
		return precMultiplicative, false
	}
	return 0, false
}
