package sema

import (
	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/constraint"
	"github.com/slaakko/cmajor-sub007/internal/symbols"
)

// buildConstraint translates a where-clause into a checker tree. Predicate
// arguments naming a type parameter, optionally derived as in "const T&",
// stay symbolic; anything else resolves to a concrete type in scope.
func (s *Session) buildConstraint(id ast.ConstraintID, scope symbols.ScopeID, params map[string]bool) (*constraint.Tree, error) {
	tree := constraint.NewTree()
	if _, err := s.buildConstraintNode(tree, id, scope, params); err != nil {
		return nil, err
	}
	return tree, nil
}

func (s *Session) buildConstraintNode(tree *constraint.Tree, id ast.ConstraintID, scope symbols.ScopeID, params map[string]bool) (constraint.NodeID, error) {
	src := s.AST.Constraint(id)
	if src == nil {
		invariant("unknown constraint %d", id)
	}
	c := *src
	switch c.Kind {
	case ast.ConstraintAnd, ast.ConstraintOr:
		l, err := s.buildConstraintNode(tree, c.Left, scope, params)
		if err != nil {
			return constraint.NoNodeID, err
		}
		r, err := s.buildConstraintNode(tree, c.Right, scope, params)
		if err != nil {
			return constraint.NoNodeID, err
		}
		if c.Kind == ast.ConstraintAnd {
			return tree.And(l, r, c.Span), nil
		}
		return tree.Or(l, r, c.Span), nil
	case ast.ConstraintNot:
		x, err := s.buildConstraintNode(tree, c.Left, scope, params)
		if err != nil {
			return constraint.NoNodeID, err
		}
		return tree.Not(x, c.Span), nil
	case ast.ConstraintPred:
		args := make([]constraint.Arg, len(c.Args))
		for i, a := range c.Args {
			arg, err := s.constraintArg(a, scope, params)
			if err != nil {
				return constraint.NoNodeID, err
			}
			args[i] = arg
		}
		return tree.Pred(c.Name, args, c.Span), nil
	}
	invariant("unknown constraint kind %d", c.Kind)
	return constraint.NoNodeID, nil
}

func (s *Session) constraintArg(id ast.TypeExprID, scope symbols.ScopeID, params map[string]bool) (constraint.Arg, error) {
	te := *s.AST.Type(id)
	switch te.Kind {
	case ast.TypeExprName:
		if params[te.Name] {
			return constraint.Arg{Param: te.Name}, nil
		}
	case ast.TypeExprDerived:
		if elem := s.AST.Type(te.Elem); elem != nil && elem.Kind == ast.TypeExprName && params[elem.Name] {
			return constraint.Arg{Param: elem.Name, Deriv: te.Deriv}, nil
		}
	}
	t, err := s.resolveType(id, typeEnv{scope: scope})
	if err != nil {
		return constraint.Arg{}, err
	}
	return constraint.Arg{Type: t}, nil
}
