package fuzztests

import (
	"context"
	"testing"

	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/driver"
	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/testkit"
	"github.com/slaakko/cmajor-sub007/internal/unitfile"
)

func FuzzUnitFileSpans(f *testing.F) {
	addUnitSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		fs := source.NewFileSet()
		id := fs.AddVirtual("fuzz.unit.toml", input)
		b := ast.NewBuilder(ast.Hints{})
		u, _ := unitfile.Parse(fs, id, b, unitfile.Options{Reporter: diag.BagReporter{Bag: diag.NewBag(64)}, MaxErrors: 64})
		if err := testkit.CheckSpanInvariants(fs, b, u.File); err != nil {
			t.Fatalf("span invariants: %v", err)
		}
	})
}

// FuzzCheckUnit runs the whole resolver. Internal invariant failures are
// turned into fatal diagnostics by the driver, so any panic is a bug.
func FuzzCheckUnit(f *testing.F) {
	addUnitSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		fs := source.NewFileSet()
		id := fs.AddVirtual("fuzz.unit.toml", input)
		res := driver.CheckUnit(context.Background(), fs, id, nil, driver.Options{MaxDiagnostics: 64, MaxDepth: 16})
		if res.Broken != res.Bag.HasErrors() {
			t.Fatalf("broken=%v but bag errors=%v", res.Broken, res.Bag.HasErrors())
		}
		if !res.Broken && res.Archive == nil {
			t.Fatalf("clean unit produced no archive")
		}
	})
}
