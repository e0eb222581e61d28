package symbols

import (
	"testing"

	"github.com/slaakko/cmajor-sub007/internal/source"
)

func TestLookupModes(t *testing.T) {
	tab := NewTable(Hints{})
	ns := tab.Install(tab.Root(), &Symbol{Name: "ns", Kind: SymbolNamespace})
	nsScope := tab.NewScope(ScopeNamespace, "ns", tab.Root(), ns, source.Span{})
	tab.Symbol(ns).Owns = nsScope

	base := tab.Install(nsScope, &Symbol{Name: "B", Kind: SymbolClass})
	baseScope := tab.NewScope(ScopeClass, "B", nsScope, base, source.Span{})
	tab.Symbol(base).Owns = baseScope
	derived := tab.Install(nsScope, &Symbol{Name: "D", Kind: SymbolClass})
	derivedScope := tab.NewScope(ScopeClass, "D", nsScope, derived, source.Span{})
	tab.Symbol(derived).Owns = derivedScope
	tab.AddBase(derivedScope, baseScope)

	fBase := tab.Install(baseScope, &Symbol{Name: "f", Kind: SymbolFunction})
	fDerived := tab.Install(derivedScope, &Symbol{Name: "f", Kind: SymbolFunction})
	fFree := tab.Install(nsScope, &Symbol{Name: "f", Kind: SymbolFunction})

	cases := []struct {
		mode LookupMode
		want []SymbolID
	}{
		{LookupThis, []SymbolID{fDerived}},
		{LookupThisAndBases, []SymbolID{fDerived, fBase}},
		{LookupThisAndParents, []SymbolID{fDerived, fFree}},
		{LookupThisBasesAndParents, []SymbolID{fDerived, fBase, fFree}},
	}
	for _, tc := range cases {
		got := tab.Lookup(derivedScope, "f", tc.mode)
		if len(got) != len(tc.want) {
			t.Fatalf("mode %d: want %v, got %v", tc.mode, tc.want, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("mode %d: want %v, got %v", tc.mode, tc.want, got)
			}
		}
	}
	if first := tab.LookupFirst(derivedScope, "f", LookupThisBasesAndParents); len(first) != 1 || first[0] != fDerived {
		t.Fatalf("LookupFirst should stop at the nearest scope, got %v", first)
	}
	if q := tab.LookupQualified(tab.Root(), "ns.D"); len(q) != 1 || q[0] != derived {
		t.Fatalf("qualified lookup failed: %v", q)
	}
	if name := tab.QualifiedName(fDerived); name != "ns.D.f" {
		t.Fatalf("unexpected qualified name %q", name)
	}
}

func TestContainerBracketing(t *testing.T) {
	tab := NewTable(Hints{})
	inner := tab.NewScope(ScopeClass, "C", tab.Root(), NoSymbolID, source.Span{})
	if tab.Current() != tab.Root() {
		t.Fatalf("empty container stack should report the root")
	}
	tab.Begin(inner)
	if tab.Current() != inner {
		t.Fatalf("Begin did not open the container")
	}
	tab.End()
	if tab.Current() != tab.Root() {
		t.Fatalf("End did not close the container")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("unbalanced End must panic")
		}
	}()
	tab.End()
}
