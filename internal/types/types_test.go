package types

import "testing"

func TestInternDeduplicates(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	p1 := in.MakeDerived(b.Int, Derivations{Pointers: 1})
	p2 := in.AddPointer(b.Int)
	if p1 != p2 {
		t.Fatalf("int* interned twice: %d vs %d", p1, p2)
	}
	cref := in.MakeDerived(b.Int, Derivations{Const: true, Ref: RefLvalue})
	if in.Name(cref) != "const int&" {
		t.Fatalf("unexpected name %q", in.Name(cref))
	}
	if in.PlainType(cref) != b.Int {
		t.Fatalf("plain(const int&) should be int, got %s", in.Name(in.PlainType(cref)))
	}
	if in.DerivationCount(cref) != 2 {
		t.Fatalf("expected 2 derivations, got %d", in.DerivationCount(cref))
	}
}

func TestMakeDerivedFolds(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	pp := in.AddPointer(in.AddPointer(b.Char))
	root, d := in.Split(pp)
	if root != b.Char || d.Pointers != 2 {
		t.Fatalf("expected char** with char base, got %s", in.Name(pp))
	}
	if in.RemovePointer(pp) != in.AddPointer(b.Char) {
		t.Fatalf("RemovePointer(char**) != char*")
	}
	constPtr := in.AddPointer(in.AddConst(b.Int))
	if in.PlainType(constPtr) != constPtr {
		t.Fatalf("pointee const must survive PlainType, got %s", in.Name(in.PlainType(constPtr)))
	}
}

func TestClassDistanceAndSpecialization(t *testing.T) {
	in := NewInterner()
	a := in.RegisterClass("A", 1)
	bcls := in.RegisterClass("B", 2)
	c := in.RegisterClass("C", 3)
	in.SetClassBase(bcls, a)
	in.SetClassBase(c, bcls)

	if d, ok := in.ClassDistance(c, a); !ok || d != 2 {
		t.Fatalf("distance C->A: want 2, got %d (%v)", d, ok)
	}
	if _, ok := in.ClassDistance(a, c); ok {
		t.Fatalf("A is not derived from C")
	}

	b := in.Builtins()
	l1 := in.Specialize(9, "List", []TypeID{b.Int})
	l2 := in.Specialize(9, "List", []TypeID{b.Int})
	l3 := in.Specialize(9, "List", []TypeID{b.Long})
	if l1 != l2 || l1 == l3 {
		t.Fatalf("specializations must be canonical per argument list")
	}
	if in.Name(in.AddPointer(l1)) != "List<int>*" {
		t.Fatalf("unexpected name %q", in.Name(in.AddPointer(l1)))
	}
	if in.RegisterClass("X", 0) == in.RegisterClass("X", 0) {
		t.Fatalf("nominal classes must be distinct")
	}
}
