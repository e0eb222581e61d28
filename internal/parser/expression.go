package parser

import (
	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/token"
)

func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseBinary(precAssignment)
}

// parseBinary is precedence climbing over binaryPrec.
func (p *Parser) parseBinary(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		op := p.lx.Peek()
		prec, right := binaryPrec(op.Kind)
		if prec == 0 || prec < minPrec {
			return left, true
		}
		p.advance()
		next := prec + 1
		if right {
			next = prec
		}
		rhs, ok := p.parseBinary(next)
		if !ok {
			return ast.NoExprID, false
		}
		sp := p.exprSpan(left).Cover(p.exprSpan(rhs))
		if op.Kind == token.Assign {
			left = p.arenas.NewExpr(ast.Expr{Kind: ast.ExprAssign, Span: sp, X: left, Y: rhs})
			continue
		}
		left = p.arenas.NewExpr(ast.Expr{Kind: ast.ExprBinary, Span: sp, Name: op.Text, X: left, Y: rhs})
	}
}

func (p *Parser) exprSpan(id ast.ExprID) source.Span {
	return p.arenas.Expr(id).Span
}

func (p *Parser) parseUnary() (ast.ExprID, bool) {
	start := p.lx.Peek()
	var kind ast.ExprKind
	switch start.Kind {
	case token.Amp:
		kind = ast.ExprAddr
	case token.Star:
		kind = ast.ExprDeref
	case token.Minus:
		p.advance()
		lit := p.lx.Peek()
		if lit.Kind != token.IntLit && lit.Kind != token.FloatLit {
			p.err(diag.UnitBadExpr, "unary '-' applies to numeric literals only")
			return ast.NoExprID, false
		}
		p.advance()
		litKind := ast.ExprIntLit
		if lit.Kind == token.FloatLit {
			litKind = ast.ExprFloatLit
		}
		return p.arenas.NewExpr(ast.Expr{Kind: litKind, Span: start.Span.Cover(lit.Span), Text: "-" + lit.Text}), true
	default:
		return p.parsePostfix()
	}
	p.advance()
	x, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.NewExpr(ast.Expr{Kind: kind, Span: start.Span.Cover(p.exprSpan(x)), X: x}), true
}

// parsePostfix handles member calls "x.f(...)" and "p->f(...)" after a
// primary expression.
func (p *Parser) parsePostfix() (ast.ExprID, bool) {
	x, ok := p.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}
	for p.atOr(token.Dot, token.Arrow) {
		arrow := p.advance().Kind == token.Arrow
		name, ok := p.expect(token.Ident, diag.UnitBadExpr, "expected member function name")
		if !ok {
			return ast.NoExprID, false
		}
		args, ok := p.parseArgs()
		if !ok {
			return ast.NoExprID, false
		}
		x = p.arenas.NewExpr(ast.Expr{
			Kind:  ast.ExprMemberCall,
			Span:  p.exprSpan(x).Cover(p.lastSpan),
			Name:  name.Text,
			X:     x,
			Args:  args,
			Arrow: arrow,
		})
	}
	return x, true
}

// parseArgs parses "(expr, ...)".
func (p *Parser) parseArgs() ([]ast.ExprID, bool) {
	if _, ok := p.expect(token.LParen, diag.UnitBadExpr, "expected '('"); !ok {
		return nil, false
	}
	var args []ast.ExprID
	if p.at(token.RParen) {
		p.advance()
		return args, true
	}
	for {
		arg, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		args = append(args, arg)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.RParen, diag.UnitBadExpr, "expected ')' after arguments"); !ok {
		return nil, false
	}
	return args, true
}

func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	lit := func(kind ast.ExprKind) (ast.ExprID, bool) {
		p.advance()
		return p.arenas.NewExpr(ast.Expr{Kind: kind, Span: tok.Span, Text: tok.Text}), true
	}
	switch tok.Kind {
	case token.IntLit:
		return lit(ast.ExprIntLit)
	case token.FloatLit:
		return lit(ast.ExprFloatLit)
	case token.CharLit:
		return lit(ast.ExprCharLit)
	case token.KwTrue, token.KwFalse:
		return lit(ast.ExprBoolLit)
	case token.KwNull:
		return lit(ast.ExprNull)
	case token.KwThis:
		return lit(ast.ExprThis)
	case token.LParen:
		p.advance()
		x, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.RParen, diag.UnitBadExpr, "expected ')'"); !ok {
			return ast.NoExprID, false
		}
		return x, true
	case token.KwMove:
		p.advance()
		args, ok := p.parseArgs()
		if !ok {
			return ast.NoExprID, false
		}
		if len(args) != 1 {
			p.report(diag.UnitBadExpr, tok.Span, "move takes exactly one argument")
			return ast.NoExprID, false
		}
		return p.arenas.NewExpr(ast.Expr{Kind: ast.ExprMove, Span: tok.Span.Cover(p.lastSpan), X: args[0]}), true
	case token.KwCast:
		return p.parseCast()
	case token.Ident:
		return p.parseNameOrCall()
	}
	p.err(diag.UnitBadExpr, "expected expression, found '"+tok.Kind.String()+"'")
	return ast.NoExprID, false
}

// parseCast parses "cast<Type>(expr)".
func (p *Parser) parseCast() (ast.ExprID, bool) {
	start := p.advance()
	if _, ok := p.expect(token.Lt, diag.UnitBadExpr, "expected '<' after cast"); !ok {
		return ast.NoExprID, false
	}
	t, ok := p.parseType()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.Gt, diag.UnitBadExpr, "expected '>' after cast type"); !ok {
		return ast.NoExprID, false
	}
	args, ok := p.parseArgs()
	if !ok {
		return ast.NoExprID, false
	}
	if len(args) != 1 {
		p.report(diag.UnitBadExpr, start.Span, "cast takes exactly one argument")
		return ast.NoExprID, false
	}
	return p.arenas.NewExpr(ast.Expr{Kind: ast.ExprCast, Span: start.Span.Cover(p.lastSpan), Type: t, X: args[0]}), true
}

// parseNameOrCall handles "a.b.c", "f(args)", "ns.f(args)" and the
// construction "List<int>(args)". A generic construction is tried first and
// abandoned when no '(' follows the closing '>'.
func (p *Parser) parseNameOrCall() (ast.ExprID, bool) {
	var construct ast.ExprID
	if p.speculate(func() bool {
		t, ok := p.parseType()
		if !ok || p.arenas.Type(t).Kind != ast.TypeExprGeneric || !p.at(token.LParen) {
			return false
		}
		args, ok := p.parseArgs()
		if !ok {
			return false
		}
		construct = p.arenas.NewExpr(ast.Expr{
			Kind: ast.ExprConstruct,
			Span: p.arenas.Type(t).Span.Cover(p.lastSpan),
			Type: t,
			Args: args,
		})
		return true
	}) {
		return construct, true
	}

	first := p.advance()
	name := first.Text
	sp := first.Span
	for p.at(token.Dot) {
		st := p.lx.Save()
		p.advance()
		if !p.at(token.Ident) {
			p.lx.Restore(st)
			break
		}
		seg := p.advance()
		name += "." + seg.Text
		sp = sp.Cover(seg.Span)
	}
	if !p.at(token.LParen) {
		return p.arenas.NewExpr(ast.Expr{Kind: ast.ExprName, Span: sp, Name: name}), true
	}
	args, ok := p.parseArgs()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.NewExpr(ast.Expr{Kind: ast.ExprCall, Span: sp.Cover(p.lastSpan), Name: name, Args: args}), true
}
