package parser

import (
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/token"
)

// advance consumes the next token and updates lastSpan.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagnosticSpan points just after the last token at the end of input.
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagnosticSpan()
	p.report(code, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: p.lx.Peek().Text}, false
}

func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, p.diagnosticSpan(), msg)
}

// report records an error unless the parser is speculating.
func (p *Parser) report(code diag.Code, sp source.Span, msg string) bool {
	if p.quiet > 0 {
		return false
	}
	p.failed = true
	if p.opts.Reporter == nil {
		return false
	}
	p.opts.CurrentErrors++
	if p.opts.Enough() {
		return false
	}
	p.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	return true
}

// speculate runs fn without reporting and rewinds the lexer when it fails.
func (p *Parser) speculate(fn func() bool) bool {
	st := p.lx.Save()
	last := p.lastSpan
	p.quiet++
	ok := fn()
	p.quiet--
	if !ok {
		p.lx.Restore(st)
		p.lastSpan = last
	}
	return ok
}

// resyncStmt skips to the token after the next ';'.
func (p *Parser) resyncStmt() {
	for !p.at(token.EOF) {
		if p.advance().Kind == token.Semicolon {
			return
		}
	}
}
