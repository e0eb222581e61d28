// Package constraint evaluates where-clauses of generic classes.
//
// A constraint is a tree of conjunctions, disjunctions, negations and named
// predicates over the type parameters of a generic class. Evaluation is
// stateless; every Check starts from scratch.
package constraint

import (
	"fmt"
	"strings"

	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

type NodeID uint32

const NoNodeID NodeID = 0

type NodeKind uint8

const (
	NodeAnd NodeKind = iota + 1
	NodeOr
	NodeNot
	NodePred
)

// Arg is a predicate argument: either a type parameter (with derivations
// applied on top, as in "const T&") or a concrete type.
type Arg struct {
	Param string
	Deriv types.Derivations
	Type  types.TypeID
}

type Predicate struct {
	Name string
	Args []Arg
}

type Node struct {
	Kind  NodeKind
	Left  NodeID
	Right NodeID
	Pred  Predicate
	Span  source.Span
}

// Tree owns the nodes of one constraint expression.
type Tree struct {
	nodes []Node
	Root  NodeID
}

func NewTree() *Tree {
	return &Tree{nodes: make([]Node, 1, 8)}
}

func (t *Tree) add(n Node) NodeID {
	t.nodes = append(t.nodes, n)
	id := NodeID(len(t.nodes) - 1)
	t.Root = id
	return id
}

func (t *Tree) Node(id NodeID) *Node {
	if t == nil || id == NoNodeID || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

func (t *Tree) And(l, r NodeID, sp source.Span) NodeID {
	return t.add(Node{Kind: NodeAnd, Left: l, Right: r, Span: sp})
}

func (t *Tree) Or(l, r NodeID, sp source.Span) NodeID {
	return t.add(Node{Kind: NodeOr, Left: l, Right: r, Span: sp})
}

func (t *Tree) Not(x NodeID, sp source.Span) NodeID {
	return t.add(Node{Kind: NodeNot, Left: x, Span: sp})
}

func (t *Tree) Pred(name string, args []Arg, sp source.Span) NodeID {
	return t.add(Node{Kind: NodePred, Pred: Predicate{Name: name, Args: args}, Span: sp})
}

// String renders the subtree rooted at id using param names for arguments.
func (t *Tree) String(id NodeID) string {
	n := t.Node(id)
	if n == nil {
		return ""
	}
	switch n.Kind {
	case NodeAnd:
		return "(" + t.String(n.Left) + " and " + t.String(n.Right) + ")"
	case NodeOr:
		return "(" + t.String(n.Left) + " or " + t.String(n.Right) + ")"
	case NodeNot:
		return "not " + t.String(n.Left)
	}
	parts := make([]string, len(n.Pred.Args))
	for i, a := range n.Pred.Args {
		if a.Param != "" {
			parts[i] = a.Param
		} else {
			parts[i] = fmt.Sprintf("#%d", a.Type)
		}
	}
	return n.Pred.Name + "<" + strings.Join(parts, ", ") + ">"
}
