package conv

import (
	"testing"

	"github.com/slaakko/cmajor-sub007/internal/symbols"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

func TestNumericRules(t *testing.T) {
	in := types.NewInterner()
	tab := NewTable(in)
	b := in.Builtins()

	cases := []struct {
		name     string
		src, tgt types.TypeID
		explicit bool
	}{
		{"int->long widens", b.Int, b.Long, false},
		{"int->double widens", b.Int, b.Double, false},
		{"long->int narrows", b.Long, b.Int, true},
		{"int->uint changes sign", b.Int, b.UInt, true},
		{"double->int truncates", b.Double, b.Int, true},
		{"bool->int", b.Bool, b.Int, true},
	}
	for _, tc := range cases {
		c, ok := tab.Lookup(tc.src, tc.tgt)
		if !ok {
			t.Fatalf("%s: no conversion", tc.name)
		}
		if c.Explicit != tc.explicit || c.Rank != RankConversion || c.Distance != 0 {
			t.Fatalf("%s: unexpected %+v", tc.name, c)
		}
	}
	if c, ok := tab.Lookup(in.AddConst(b.Int), b.Int); !ok || !c.IsIdentity() {
		t.Fatalf("const int -> int should be identity, got %+v", c)
	}
}

func TestPointerRules(t *testing.T) {
	in := types.NewInterner()
	tab := NewTable(in)
	b := in.Builtins()
	intPtr := in.AddPointer(b.Int)
	voidPtr := in.AddPointer(b.Void)

	if c, ok := tab.Lookup(intPtr, voidPtr); !ok || c.Explicit {
		t.Fatalf("int* -> void* should be implicit, got %+v %v", c, ok)
	}
	if c, ok := tab.Lookup(b.NullPtr, intPtr); !ok || c.Kind != KindNullPtr {
		t.Fatalf("nullptr -> int* missing, got %+v", c)
	}
	if c, ok := tab.Lookup(voidPtr, intPtr); !ok || !c.Explicit {
		t.Fatalf("void* -> int* should be explicit-only")
	}
	constPtr := in.AddPointer(in.AddConst(b.Int))
	if _, ok := tab.Lookup(constPtr, intPtr); ok {
		t.Fatalf("const int* -> int* must not convert")
	}
}

func TestFunctionConversionsAndMemo(t *testing.T) {
	in := types.NewInterner()
	tab := NewTable(in)
	b := in.Builtins()
	cls := in.RegisterClass("Big", 1)

	if _, ok := tab.Lookup(b.Int, cls); ok {
		t.Fatalf("no conversion expected before registration")
	}
	tab.AddFunction(symbols.SymbolID(7), b.Int, in.AddLvalueRef(in.AddConst(cls)), true)
	c, ok := tab.Lookup(b.Int, cls)
	if !ok || c.Kind != KindFunction || c.Func != 7 || !c.Explicit {
		t.Fatalf("registered conversion not found after memoized miss: %+v", c)
	}
	tab.AddFunction(symbols.SymbolID(8), b.Int, cls, false)
	if all := tab.LookupAll(b.Int, cls); len(all) != 2 {
		t.Fatalf("expected two registered conversions, got %d", len(all))
	}
	if c, _ := tab.Lookup(b.Int, cls); c.Func != 8 {
		t.Fatalf("implicit conversion should be preferred, got %+v", c)
	}
}

func TestClassConversion(t *testing.T) {
	in := types.NewInterner()
	tab := NewTable(in)
	a := in.RegisterClass("A", 1)
	bc := in.RegisterClass("B", 2)
	c := in.RegisterClass("C", 3)
	in.SetClassBase(bc, a)
	in.SetClassBase(c, bc)

	up, ok := tab.ClassConversion(in.AddPointer(c), in.AddPointer(a), false)
	if !ok || up.Kind != KindDerivedToBase || up.Distance != 2 {
		t.Fatalf("C* -> A* should be derived-to-base distance 2, got %+v", up)
	}
	if _, ok := tab.ClassConversion(in.AddPointer(a), in.AddPointer(c), false); ok {
		t.Fatalf("base-to-derived requires explicit mode")
	}
	down, ok := tab.ClassConversion(in.AddPointer(a), in.AddPointer(bc), true)
	if !ok || down.Kind != KindBaseToDerived || down.Distance != 1 || !down.Explicit {
		t.Fatalf("explicit A* -> B* failed: %+v", down)
	}
	ref := in.AddLvalueRef(in.AddConst(a))
	if r, ok := tab.ClassConversion(c, ref, false); !ok || r.Distance != 2 {
		t.Fatalf("C -> const A& should convert, got %+v", r)
	}
	if !Better(Conversion{Rank: RankConversion, Distance: 1}, Conversion{Rank: RankConversion, Distance: 2}) {
		t.Fatalf("smaller distance should be better")
	}
}
