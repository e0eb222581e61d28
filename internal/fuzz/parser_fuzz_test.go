package fuzztests

import (
	"context"
	"testing"
	"time"

	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/parser"
	"github.com/slaakko/cmajor-sub007/internal/source"
)

// parseTimeout bounds one input; exceeding it means the parser loops.
const parseTimeout = 5 * time.Second

func FuzzParserBodyNoHang(f *testing.F) {
	addBodySeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.body", input))
			bag := diag.NewBag(128)
			opts := parser.Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 128}
			b := ast.NewBuilder(ast.Hints{})
			_, _ = parser.Body(b, parser.Whole(file), &opts)
			_, _ = parser.Type(b, parser.Whole(file), &opts)
			_, _ = parser.Constraint(b, parser.Whole(file), &opts)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser did not finish within %s on %q", parseTimeout, input)
		}
	})
}
