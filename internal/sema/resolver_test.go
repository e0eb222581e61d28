package sema

import (
	"testing"

	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/symbols"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

func TestExactMatchBeatsWidening(t *testing.T) {
	f := bindUnit(t, `
[[function]]
name = "f"
params = ["int x"]

[[function]]
name = "f"
params = ["long x"]

[[function]]
name = "main"
body = "f(1); f(2u);"
`)
	f.expectClean()
	f.expectCall("f(int)")
	// uint widens to long but narrows to int.
	f.expectCall("f(long)")
}

func TestAmbiguousCallListsCandidates(t *testing.T) {
	f := bindUnit(t, `
[[function]]
name = "f"
params = ["int a", "long b"]

[[function]]
name = "f"
params = ["long a", "int b"]

[[function]]
name = "main"
body = "f(1, 2);"
`)
	d := f.expectCode(diag.SemaAmbiguousCall)
	if len(d.Notes) != 2 {
		t.Fatalf("expected 2 candidate notes, got %d", len(d.Notes))
	}
	if len(f.calls()) != 0 {
		t.Fatalf("ambiguous call was recorded: %v", f.calls())
	}
}

func TestDerivedToBaseDistance(t *testing.T) {
	f := bindUnit(t, `
[[class]]
name = "A"

[[class]]
name = "B"
base = "A"

[[class]]
name = "C"
base = "B"

[[function]]
name = "g"
params = ["A* p"]

[[function]]
name = "g"
params = ["B* p"]

[[function]]
name = "main"
body = "C c; g(&c);"
`)
	f.expectClean()
	f.expectCall("g(B*)")
}

const hierarchyUnit = `
[[class]]
name = "A"

[[class]]
name = "B"
base = "A"

[[class]]
name = "C"
base = "B"

[[class]]
name = "D"
`

func TestDerivedPointerConversions(t *testing.T) {
	t.Run("indirect base only", func(t *testing.T) {
		f := bindUnit(t, hierarchyUnit+`
[[function]]
name = "g"
params = ["A* p"]

[[function]]
name = "main"
body = "C c; g(&c);"
`)
		f.expectClean()
		f.expectCall("g(A*)")
	})
	t.Run("unrelated class", func(t *testing.T) {
		f := bindUnit(t, hierarchyUnit+`
[[function]]
name = "h"
params = ["D* p"]

[[function]]
name = "main"
body = "C c; h(&c);"
`)
		f.expectCode(diag.SemaNoViableFunction)
		if len(f.calls()) != 0 {
			t.Fatalf("call to unrelated class was recorded: %v", f.calls())
		}
	})
}

func TestBaseToDerivedNeedsCast(t *testing.T) {
	f := bindUnit(t, `
[[class]]
name = "A"

[[class]]
name = "B"
base = "A"

[[function]]
name = "h"
params = ["B* p"]

[[function]]
name = "main"
body = "A a; h(&a); h(cast<B*>(&a));"
`)
	f.expectCode(diag.SemaNoViableFunction)
	f.expectCall("h(B*)")
}

func TestExplicitConversionRequiresCast(t *testing.T) {
	f := bindUnit(t, `
[[function]]
name = "k"
params = ["int x"]

[[function]]
name = "main"
body = "k(1.5); k(cast<int>(1.5));"
`)
	f.expectCode(diag.SemaExplicitCastRequired)
	n := 0
	for _, c := range f.calls() {
		if c == "k(int)" {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("expected one resolved call to k(int), got %v", f.calls())
	}
}

func TestReferenceBinding(t *testing.T) {
	tests := []struct {
		name string
		body string
		code diag.Code
	}{
		{"lvalue to ref", "int n = 0; r(n);", diag.UnknownCode},
		{"rvalue to ref", "r(1);", diag.SemaNoViableFunction},
		{"rvalue to const ref", "cr(1);", diag.UnknownCode},
		{"lvalue to rvalue ref", "int n = 0; rr(n);", diag.SemaNoViableFunction},
		{"moved to rvalue ref", "int n = 0; rr(move(n));", diag.UnknownCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := bindUnit(t, `
[[function]]
name = "r"
params = ["int& x"]

[[function]]
name = "cr"
params = ["const int& x"]

[[function]]
name = "rr"
params = ["int&& x"]

[[function]]
name = "main"
body = "`+tt.body+`"
`)
			if tt.code == diag.UnknownCode {
				f.expectClean()
				return
			}
			f.expectCode(tt.code)
		})
	}
}

func TestMemberCallAdaptsThis(t *testing.T) {
	f := bindUnit(t, `
[[class]]
name = "Counter"

[[class.var]]
name = "n"
type = "int"

[[class.function]]
name = "get"
result = "int"
flags = ["const"]
body = "return n;"

[[class.function]]
name = "bump"
body = "n = n + get();"

[[function]]
name = "main"
body = "Counter c; c.bump(); int v = c.get(); Counter* p = &c; p->bump();"
`)
	f.expectClean()
	f.expectCall("Counter.get(const Counter*)")
	f.expectCall("Counter.bump(Counter*)")
}

func TestNoViableFunctionExplainsCandidates(t *testing.T) {
	f := bindUnit(t, `
[[function]]
name = "f"
params = ["int a", "int b"]

[[function]]
name = "main"
body = "f(1);"
`)
	d := f.expectCode(diag.SemaNoViableFunction)
	if len(d.Notes) != 1 {
		t.Fatalf("expected one candidate note, got %d", len(d.Notes))
	}
}

func TestResolveDirect(t *testing.T) {
	f := declareUnit(t, `
[[function]]
name = "f"
params = ["double x"]
`, Options{})
	scopes := []LookupScope{{Scope: f.s.Table.Root(), Mode: symbols.LookupThis}}
	m, err := f.s.Resolver().Resolve("f", []Argument{RvalueArg(f.basic(types.KindInt))}, scopes, ConversionImplicit)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if m.Candidates != 1 || len(m.Conversions) != 1 || m.Conversions[0].IsIdentity() {
		t.Fatalf("unexpected match %+v", m)
	}
	_, err = f.s.Resolver().Resolve("missing", nil, scopes, ConversionImplicit)
	expectSemaError(t, err, diag.SemaNoViableFunction)
}

func TestBuiltinOperators(t *testing.T) {
	f := bindUnit(t, `
[[enum]]
name = "Color"
constants = ["red", "green"]

[[function]]
name = "main"
body = "int a = 1; long b = a + 2; bool c = a < b; Color k = Color.red; bool d = k == Color.green; int* p = null;"
`)
	f.expectClean()
	f.expectCall("@builtin.operator+(int, int)")
	f.expectCall("@builtin.operator<(long, long)")
}
