package parser

import (
	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/token"
)

// parseStmt parses one statement:
//
//	"return" [expr] ";"
//	Type name [= expr | (args)] ";"
//	expr ";"
//
// The final ';' of a body may be omitted.
func (p *Parser) parseStmt() (ast.StmtID, bool) {
	start := p.lx.Peek().Span
	if p.at(token.KwReturn) {
		p.advance()
		st := ast.Stmt{Kind: ast.StmtReturn}
		if !p.atOr(token.Semicolon, token.EOF) {
			x, ok := p.parseExpr()
			if !ok {
				return ast.NoStmtID, false
			}
			st.X = x
		}
		st.Span = start.Cover(p.lastSpan)
		return p.endStmt(st)
	}

	var decl ast.Stmt
	if p.speculate(func() bool {
		t, ok := p.parseType()
		if !ok || !p.at(token.Ident) {
			return false
		}
		name := p.advance()
		if !p.atOr(token.Semicolon, token.Assign, token.LParen, token.EOF) {
			return false
		}
		decl = ast.Stmt{Kind: ast.StmtVar, Name: name.Text, Type: t}
		return true
	}) {
		return p.parseVarRest(decl, start)
	}

	x, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.endStmt(ast.Stmt{Kind: ast.StmtExpr, Span: start.Cover(p.lastSpan), X: x})
}

func (p *Parser) parseVarRest(st ast.Stmt, start source.Span) (ast.StmtID, bool) {
	switch {
	case p.at(token.Assign):
		p.advance()
		init, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		st.Init = init
	case p.at(token.LParen):
		args, ok := p.parseArgs()
		if !ok {
			return ast.NoStmtID, false
		}
		st.CtorArgs = args
		st.HasCtor = true
	}
	st.Span = start.Cover(p.lastSpan)
	return p.endStmt(st)
}

func (p *Parser) endStmt(st ast.Stmt) (ast.StmtID, bool) {
	if !p.at(token.EOF) {
		semi, ok := p.expect(token.Semicolon, diag.UnitSyntax, "expected ';' after statement")
		if !ok {
			return ast.NoStmtID, false
		}
		st.Span = st.Span.Cover(semi.Span)
	}
	return p.arenas.NewStmt(st), true
}
