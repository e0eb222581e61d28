package constraint

import (
	"fmt"
	"strings"

	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/symbols"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

// Prober answers the questions predicates ask. The semantic analyzer
// implements it with trial overload resolution that captures failures
// instead of reporting them.
type Prober interface {
	// HasOperation reports whether group resolves for arguments of the given
	// types. Reference types denote lvalues, T&& denotes a movable rvalue.
	HasOperation(group string, args []types.TypeID) (bool, string)
	IsDerived(derived, base types.TypeID) bool
	Convertible(src, tgt types.TypeID) bool
}

// Explanation is a tree of failure reasons.
type Explanation struct {
	Text     string
	Span     source.Span
	Children []Explanation
}

// Flatten lists the explanation depth first, indenting nested reasons.
func (e Explanation) Flatten() []Explanation {
	var out []Explanation
	var walk func(x Explanation, depth int)
	walk = func(x Explanation, depth int) {
		if x.Text != "" {
			out = append(out, Explanation{Text: strings.Repeat("  ", depth) + x.Text, Span: x.Span})
			depth++
		}
		for _, c := range x.Children {
			walk(c, depth)
		}
	}
	walk(e, 0)
	return out
}

type Result struct {
	Satisfied   bool
	Explanation Explanation
}

// PredicateFunc evaluates a predicate on concrete argument types.
type PredicateFunc func(c *Checker, args []types.TypeID) (bool, string)

type predicateDef struct {
	arity int
	fn    PredicateFunc
}

type Checker struct {
	types  *types.Interner
	prober Prober
	preds  map[string]predicateDef
}

func NewChecker(in *types.Interner, prober Prober) *Checker {
	c := &Checker{types: in, prober: prober, preds: make(map[string]predicateDef, 16)}
	registerBuiltins(c)
	return c
}

// Register adds or replaces a named predicate with a fixed arity.
func (c *Checker) Register(name string, arity int, fn PredicateFunc) {
	c.preds[name] = predicateDef{arity: arity, fn: fn}
}

func (c *Checker) Types() *types.Interner { return c.types }

func (c *Checker) Prober() Prober { return c.prober }

// Check evaluates tree under bindings (type-parameter name -> type).
func (c *Checker) Check(tree *Tree, bindings map[string]types.TypeID) Result {
	if tree == nil || tree.Root == NoNodeID {
		return Result{Satisfied: true}
	}
	ok, expl := c.eval(tree, tree.Root, bindings)
	return Result{Satisfied: ok, Explanation: expl}
}

func (c *Checker) eval(tree *Tree, id NodeID, bindings map[string]types.TypeID) (bool, Explanation) {
	n := tree.Node(id)
	if n == nil {
		return true, Explanation{}
	}
	switch n.Kind {
	case NodeAnd:
		ok, e := c.eval(tree, n.Left, bindings)
		if !ok {
			return false, e
		}
		return c.eval(tree, n.Right, bindings)
	case NodeOr:
		ok, le := c.eval(tree, n.Left, bindings)
		if ok {
			return true, Explanation{}
		}
		ok, re := c.eval(tree, n.Right, bindings)
		if ok {
			return true, Explanation{}
		}
		return false, Explanation{
			Text:     "none of the alternatives holds:",
			Span:     n.Span,
			Children: []Explanation{le, re},
		}
	case NodeNot:
		ok, _ := c.eval(tree, n.Left, bindings)
		if ok {
			return false, Explanation{
				Text: fmt.Sprintf("'%s' holds but must not", c.describe(tree, n.Left, bindings)),
				Span: n.Span,
			}
		}
		return true, Explanation{}
	case NodePred:
		return c.evalPred(n, bindings)
	}
	panic(fmt.Sprintf("constraint: unknown node kind %d", n.Kind))
}

func (c *Checker) evalPred(n *Node, bindings map[string]types.TypeID) (bool, Explanation) {
	label := c.predLabel(n.Pred, bindings)
	fail := func(reason string) (bool, Explanation) {
		text := fmt.Sprintf("'%s' is not satisfied", label)
		if reason != "" {
			text += ": " + reason
		}
		return false, Explanation{Text: text, Span: n.Span}
	}
	def, ok := c.preds[n.Pred.Name]
	if !ok {
		return fail("unknown predicate")
	}
	if def.arity != len(n.Pred.Args) {
		return fail(fmt.Sprintf("expects %d argument(s), got %d", def.arity, len(n.Pred.Args)))
	}
	args := make([]types.TypeID, len(n.Pred.Args))
	for i, a := range n.Pred.Args {
		t, ok := c.bind(a, bindings)
		if !ok {
			return fail(fmt.Sprintf("type parameter '%s' is not bound", a.Param))
		}
		args[i] = t
	}
	if ok, reason := def.fn(c, args); !ok {
		return fail(reason)
	}
	return true, Explanation{}
}

func (c *Checker) bind(a Arg, bindings map[string]types.TypeID) (types.TypeID, bool) {
	if a.Param == "" {
		return a.Type, a.Type != types.NoTypeID
	}
	t, ok := bindings[a.Param]
	if !ok {
		return types.NoTypeID, false
	}
	return c.types.MakeDerived(t, a.Deriv), true
}

func (c *Checker) predLabel(p Predicate, bindings map[string]types.TypeID) string {
	parts := make([]string, len(p.Args))
	for i, a := range p.Args {
		if t, ok := c.bind(a, bindings); ok {
			parts[i] = c.types.Name(t)
		} else {
			parts[i] = a.Param
		}
	}
	return p.Name + "<" + strings.Join(parts, ", ") + ">"
}

func (c *Checker) describe(tree *Tree, id NodeID, bindings map[string]types.TypeID) string {
	n := tree.Node(id)
	if n != nil && n.Kind == NodePred {
		return c.predLabel(n.Pred, bindings)
	}
	return tree.String(id)
}

// Groups the built-in predicates probe.
var (
	groupLess   = "operator<"
	groupEqual  = "operator=="
	groupAssign = "operator="
	groupCtor   = symbols.GroupConstructor
)
