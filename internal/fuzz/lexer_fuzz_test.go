package fuzztests

import (
	"testing"

	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/lexer"
	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addBodySeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.body", input))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		// Every token consumes at least one byte.
		for i := 0; ; i++ {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
			if i > len(input) {
				t.Fatalf("lexer produced more tokens than input bytes")
			}
			if tok.Span.End > uint32(len(input)) || tok.Span.Start > tok.Span.End {
				t.Fatalf("bad token span %v", tok.Span)
			}
		}
	})
}
