package parser

import (
	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/token"
)

// parseConstraintOr handles
//
//	or   := and (("or" | "||") and)*
//	and  := unary (("and" | "&&") unary)*
//	unary := ("not" | "!") unary | "(" or ")" | pred
//	pred := Name<Type, ...> | Type "is" Name[<Type, ...>]
func (p *Parser) parseConstraintOr() (ast.ConstraintID, bool) {
	left, ok := p.parseConstraintAnd()
	if !ok {
		return ast.NoConstraintID, false
	}
	for p.atOr(token.KwOr, token.OrOr) {
		p.advance()
		right, ok := p.parseConstraintAnd()
		if !ok {
			return ast.NoConstraintID, false
		}
		left = p.binaryConstraint(ast.ConstraintOr, left, right)
	}
	return left, true
}

func (p *Parser) parseConstraintAnd() (ast.ConstraintID, bool) {
	left, ok := p.parseConstraintUnary()
	if !ok {
		return ast.NoConstraintID, false
	}
	for p.atOr(token.KwAnd, token.AndAnd) {
		p.advance()
		right, ok := p.parseConstraintUnary()
		if !ok {
			return ast.NoConstraintID, false
		}
		left = p.binaryConstraint(ast.ConstraintAnd, left, right)
	}
	return left, true
}

func (p *Parser) binaryConstraint(kind ast.ConstraintKind, left, right ast.ConstraintID) ast.ConstraintID {
	b := p.arenas
	sp := b.Constraint(left).Span.Cover(b.Constraint(right).Span)
	return b.NewConstraint(ast.Constraint{Kind: kind, Span: sp, Left: left, Right: right})
}

func (p *Parser) parseConstraintUnary() (ast.ConstraintID, bool) {
	start := p.lx.Peek().Span
	switch {
	case p.atOr(token.KwNot, token.Bang):
		p.advance()
		inner, ok := p.parseConstraintUnary()
		if !ok {
			return ast.NoConstraintID, false
		}
		sp := start.Cover(p.arenas.Constraint(inner).Span)
		return p.arenas.NewConstraint(ast.Constraint{Kind: ast.ConstraintNot, Span: sp, Left: inner}), true
	case p.at(token.LParen):
		p.advance()
		inner, ok := p.parseConstraintOr()
		if !ok {
			return ast.NoConstraintID, false
		}
		if _, ok := p.expect(token.RParen, diag.UnitBadConstraint, "expected ')' in constraint"); !ok {
			return ast.NoConstraintID, false
		}
		return inner, true
	}
	return p.parsePredicate()
}

func (p *Parser) parsePredicate() (ast.ConstraintID, bool) {
	start := p.lx.Peek().Span
	subject, ok := p.parseType()
	if !ok {
		return ast.NoConstraintID, false
	}
	if p.at(token.KwIs) {
		p.advance()
		name, ok := p.expect(token.Ident, diag.UnitBadConstraint, "expected predicate name after 'is'")
		if !ok {
			return ast.NoConstraintID, false
		}
		args := []ast.TypeExprID{subject}
		if p.at(token.Lt) {
			p.advance()
			for {
				arg, ok := p.parseType()
				if !ok {
					return ast.NoConstraintID, false
				}
				args = append(args, arg)
				if !p.at(token.Comma) {
					break
				}
				p.advance()
			}
			if _, ok := p.expect(token.Gt, diag.UnitBadConstraint, "expected '>' after predicate arguments"); !ok {
				return ast.NoConstraintID, false
			}
		}
		return p.arenas.NewConstraint(ast.Constraint{
			Kind: ast.ConstraintPred,
			Span: start.Cover(p.lastSpan),
			Name: name.Text,
			Args: args,
		}), true
	}
	t := *p.arenas.Type(subject)
	if t.Kind != ast.TypeExprGeneric {
		p.report(diag.UnitBadConstraint, t.Span, "expected predicate application such as 'Comparable<T>' or 'T is Comparable'")
		return ast.NoConstraintID, false
	}
	return p.arenas.NewConstraint(ast.Constraint{
		Kind: ast.ConstraintPred,
		Span: t.Span,
		Name: t.Name,
		Args: t.Args,
	}), true
}
