package lexer

import (
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/source"
)

type Options struct {
	Reporter diag.Reporter // nil discards errors; lexing continues either way
}

func (lx *Lexer) report(sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(diag.UnitSyntax, diag.SevError, sp, msg, nil)
	}
}
