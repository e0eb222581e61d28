package parser

import (
	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/token"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

// parseType recognizes
//
//	[const] Name(.Name)* [<Type, ...>] (* | & | &&)*
//
// where at most one reference suffix ends the type.
func (p *Parser) parseType() (ast.TypeExprID, bool) {
	start := p.lx.Peek().Span
	var deriv types.Derivations
	if p.at(token.KwConst) {
		p.advance()
		deriv.Const = true
	}
	base, ok := p.parseTypePrimary()
	if !ok {
		return ast.NoTypeExprID, false
	}
	for {
		switch {
		case p.at(token.Star) && deriv.Ref == types.RefNone:
			p.advance()
			deriv.Pointers++
			continue
		case p.at(token.Amp) && deriv.Ref == types.RefNone:
			p.advance()
			deriv.Ref = types.RefLvalue
			continue
		case p.at(token.AndAnd) && deriv.Ref == types.RefNone:
			p.advance()
			deriv.Ref = types.RefRvalue
			continue
		}
		break
	}
	if deriv == (types.Derivations{}) {
		return base, true
	}
	return p.arenas.NewType(ast.TypeExpr{
		Kind:  ast.TypeExprDerived,
		Span:  start.Cover(p.lastSpan),
		Elem:  base,
		Deriv: deriv,
	}), true
}

func (p *Parser) parseTypePrimary() (ast.TypeExprID, bool) {
	first, ok := p.expect(token.Ident, diag.UnitBadTypeExpr, "expected type name")
	if !ok {
		return ast.NoTypeExprID, false
	}
	name := first.Text
	sp := first.Span
	for p.at(token.Dot) {
		p.advance()
		seg, ok := p.expect(token.Ident, diag.UnitBadTypeExpr, "expected identifier after '.'")
		if !ok {
			return ast.NoTypeExprID, false
		}
		name += "." + seg.Text
		sp = sp.Cover(seg.Span)
	}
	if !p.at(token.Lt) {
		return p.arenas.NameType(name, sp), true
	}
	p.advance()
	var args []ast.TypeExprID
	for {
		arg, ok := p.parseType()
		if !ok {
			return ast.NoTypeExprID, false
		}
		args = append(args, arg)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	closing, ok := p.expect(token.Gt, diag.UnitBadTypeExpr, "expected '>' after type arguments")
	if !ok {
		return ast.NoTypeExprID, false
	}
	return p.arenas.NewType(ast.TypeExpr{
		Kind: ast.TypeExprGeneric,
		Span: sp.Cover(closing.Span),
		Name: name,
		Args: args,
	}), true
}
