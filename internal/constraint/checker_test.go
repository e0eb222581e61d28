package constraint

import (
	"strings"
	"testing"

	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

type fakeProber struct {
	in    *types.Interner
	ops   map[string]map[types.TypeID]bool // group -> plain first-arg type
	calls int
}

func (p *fakeProber) HasOperation(group string, args []types.TypeID) (bool, string) {
	p.calls++
	first := p.in.PlainType(args[0])
	if group == "@constructor" {
		first = p.in.RemovePointer(first)
	}
	if p.ops[group][first] {
		return true, ""
	}
	return false, "no viable function for " + group
}

func (p *fakeProber) IsDerived(d, b types.TypeID) bool {
	_, ok := p.in.ClassDistance(d, b)
	return ok
}

func (p *fakeProber) Convertible(src, tgt types.TypeID) bool { return src == tgt }

func setup() (*types.Interner, *fakeProber, *Checker, types.TypeID) {
	in := types.NewInterner()
	key := in.RegisterClass("Key", 1)
	p := &fakeProber{in: in, ops: map[string]map[types.TypeID]bool{
		"operator<":  {in.Builtins().Int: true},
		"operator==": {in.Builtins().Int: true, key: true},
	}}
	return in, p, NewChecker(in, p), key
}

func TestComparableGating(t *testing.T) {
	in, _, c, key := setup()
	tree := NewTree()
	tree.Pred("Comparable", []Arg{{Param: "T"}}, source.Span{Start: 10, End: 23})

	if r := c.Check(tree, map[string]types.TypeID{"T": in.Builtins().Int}); !r.Satisfied {
		t.Fatalf("int should be Comparable: %+v", r.Explanation)
	}
	r := c.Check(tree, map[string]types.TypeID{"T": key})
	if r.Satisfied {
		t.Fatalf("Key lacks operator< and must fail")
	}
	if !strings.Contains(r.Explanation.Text, "Comparable<Key>") || r.Explanation.Span.Start != 10 {
		t.Fatalf("explanation should name the predicate and its location: %+v", r.Explanation)
	}
}

func TestShortCircuitAndExplanations(t *testing.T) {
	in, p, c, key := setup()
	tree := NewTree()
	left := tree.Pred("Comparable", []Arg{{Param: "T"}}, source.Span{})
	right := tree.Pred("EqualityComparable", []Arg{{Param: "T"}}, source.Span{})
	tree.And(left, right, source.Span{})

	p.calls = 0
	if r := c.Check(tree, map[string]types.TypeID{"T": key}); r.Satisfied {
		t.Fatalf("and must fail on the left operand")
	}
	if p.calls != 1 {
		t.Fatalf("and must short-circuit, prober called %d times", p.calls)
	}

	or := NewTree()
	l := or.Pred("Comparable", []Arg{{Param: "T"}}, source.Span{})
	r := or.Pred("Pointer", []Arg{{Param: "T"}}, source.Span{})
	or.Or(l, r, source.Span{})
	res := c.Check(or, map[string]types.TypeID{"T": key})
	if res.Satisfied || len(res.Explanation.Children) != 2 {
		t.Fatalf("or failure must list both alternatives: %+v", res.Explanation)
	}
	if flat := res.Explanation.Flatten(); len(flat) != 3 || !strings.HasPrefix(flat[1].Text, "  ") {
		t.Fatalf("unexpected flattened explanation: %+v", flat)
	}

	not := NewTree()
	not.Not(not.Pred("Integral", []Arg{{Param: "T"}}, source.Span{}), source.Span{})
	if res := c.Check(not, map[string]types.TypeID{"T": in.Builtins().Long}); res.Satisfied {
		t.Fatalf("not Integral<long> must fail")
	} else if !strings.Contains(res.Explanation.Text, "Integral<long>") {
		t.Fatalf("negation should name the predicate that held: %q", res.Explanation.Text)
	}
}

func TestArityUnknownAndCustomPredicates(t *testing.T) {
	in, _, c, _ := setup()
	b := in.Builtins()
	tree := NewTree()
	tree.Pred("Same", []Arg{{Param: "T"}}, source.Span{})
	if r := c.Check(tree, map[string]types.TypeID{"T": b.Int}); r.Satisfied || !strings.Contains(r.Explanation.Text, "expects 2") {
		t.Fatalf("arity mismatch not reported: %+v", r)
	}

	c.Register("Small", 1, func(_ *Checker, args []types.TypeID) (bool, string) {
		return args[0] == b.Byte, "too large"
	})
	custom := NewTree()
	custom.Pred("Small", []Arg{{Param: "T", Deriv: types.Derivations{Const: true}}}, source.Span{})
	if r := c.Check(custom, map[string]types.TypeID{"T": b.Byte}); r.Satisfied {
		t.Fatalf("derivations must be applied to the bound parameter")
	}

	unknown := NewTree()
	unknown.Pred("Frobnicable", []Arg{{Type: b.Int}}, source.Span{})
	if r := c.Check(unknown, nil); r.Satisfied || !strings.Contains(r.Explanation.Text, "unknown predicate") {
		t.Fatalf("unknown predicate should fail: %+v", r)
	}
	if r := c.Check(nil, nil); !r.Satisfied {
		t.Fatalf("absent constraint is satisfied")
	}
}
