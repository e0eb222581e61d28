package sema

import (
	"testing"

	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/symbols"
)

func TestDeclarationErrors(t *testing.T) {
	tests := []struct {
		name string
		unit string
		code diag.Code
	}{
		{
			name: "duplicate function",
			unit: `
[[function]]
name = "f"
params = ["int a"]

[[function]]
name = "f"
params = ["int b"]
`,
			code: diag.SemaDuplicateSymbol,
		},
		{
			name: "cyclic inheritance",
			unit: `
[[class]]
name = "A"
base = "B"

[[class]]
name = "B"
base = "A"
`,
			code: diag.SemaCyclicInheritance,
		},
		{
			name: "base is not a class",
			unit: `
[[class]]
name = "A"
base = "int"
`,
			code: diag.SemaBadBaseClass,
		},
		{
			name: "unknown parameter type",
			unit: `
[[function]]
name = "f"
params = ["Missing m"]
`,
			code: diag.SemaUnresolvedType,
		},
		{
			name: "missing return value",
			unit: `
[[function]]
name = "f"
result = "int"
body = "return;"
`,
			code: diag.SemaReturnMismatch,
		},
		{
			name: "unresolved name",
			unit: `
[[function]]
name = "f"
body = "x;"
`,
			code: diag.SemaUnresolvedName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := bindUnit(t, tt.unit)
			f.expectCode(tt.code)
		})
	}
}

func TestSynthesizedCopyOperations(t *testing.T) {
	f := declareUnit(t, `
[[class]]
name = "P"

[[class.var]]
name = "x"
type = "int"

[[function]]
name = "main"
body = "P p; P q = p; q = p;"
`, Options{})
	owns := f.s.Table.Symbol(f.symbol("P")).Owns
	if n := len(f.s.Table.Members(owns, symbols.GroupConstructor)); n != 0 {
		t.Fatalf("constructors synthesized before first use: %d", n)
	}
	f.s.Binder().BindBodies()
	f.expectClean()
	f.expectCall("P.@constructor(P*)")
	f.expectCall("P.@constructor(P*, const P&)")
	f.expectCall("P.operator=(P*, const P&)")
	for _, c := range f.s.Binder().Calls() {
		if f.s.Table.Symbol(c.Func).Parent == f.symbol("P") && !f.s.Engine().IsBound(c.Func) {
			t.Fatalf("%s was called but not bound", f.s.Signature(c.Func))
		}
	}
}

func TestSuppressedFunctionCannotBeCalled(t *testing.T) {
	f := bindUnit(t, `
[[class]]
name = "S"

[[class.function]]
kind = "constructor"
body = ""

[[class.function]]
kind = "constructor"
params = ["const S& that"]
flags = ["suppressed"]

[[function]]
name = "main"
body = "S a; S b(a);"
`)
	f.expectCode(diag.SemaSuppressedFunction)
}

func TestConvertingConstructors(t *testing.T) {
	f := bindUnit(t, `
[[class]]
name = "Meters"

[[class.function]]
kind = "constructor"
params = ["double v"]
body = ""

[[class]]
name = "Feet"

[[class.function]]
kind = "constructor"
params = ["double v"]
flags = ["explicit"]
body = ""

[[function]]
name = "walk"
params = ["Meters m"]

[[function]]
name = "run"
params = ["Feet d"]

[[function]]
name = "main"
body = "walk(2.5); run(2.5); run(Feet(2.5));"
`)
	f.expectCode(diag.SemaExplicitCastRequired)
	f.expectCall("walk(Meters)")
	f.expectCall("run(Feet)")
	f.expectCall("Feet.@constructor(Feet*, double)")
}

func TestQualifiedCallIntoNamespace(t *testing.T) {
	f := bindUnit(t, `
[[function]]
name = "area"
namespace = "geo.flat"
params = ["int x"]
result = "int"

[[function]]
name = "main"
body = "int a = geo.flat.area(1);"
`)
	f.expectClean()
	f.expectCall("geo.flat.area(int)")
}

func TestCallOfRecordsExpression(t *testing.T) {
	f := bindUnit(t, `
[[function]]
name = "f"

[[function]]
name = "main"
body = "f();"
`)
	f.expectClean()
	calls := f.s.Binder().Calls()
	if len(calls) != 1 {
		t.Fatalf("expected one call, got %v", f.calls())
	}
	got, ok := f.s.Binder().CallOf(calls[0].Expr)
	if !ok || got.Func != calls[0].Func {
		t.Fatalf("CallOf did not find the recorded call")
	}
	if len(f.s.Binder().Functions()) != 1 {
		t.Fatalf("expected main as the only function with a body")
	}
}
