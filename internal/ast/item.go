package ast

import "github.com/slaakko/cmajor-sub007/internal/source"

type ItemKind uint8

const (
	ItemNamespace ItemKind = iota + 1
	ItemClass
	ItemFunction
	ItemVariable
	ItemEnum
)

func (k ItemKind) String() string {
	switch k {
	case ItemNamespace:
		return "namespace"
	case ItemClass:
		return "class"
	case ItemFunction:
		return "function"
	case ItemVariable:
		return "variable"
	case ItemEnum:
		return "enum"
	}
	return "item"
}

type FnFlags uint32

const (
	FnConstructor FnFlags = 1 << iota
	FnDestructor
	FnConversion
	FnStatic
	FnVirtual
	FnOverride
	FnAbstract
	FnConst
	FnExplicit
	FnDefault
	FnSuppressed
	FnNothrow
)

func (f FnFlags) Has(x FnFlags) bool { return f&x != 0 }

type TypeParam struct {
	Name    string
	Default TypeExprID
	Span    source.Span
}

type Param struct {
	Name string
	Type TypeExprID
	Span source.Span
}

type Item struct {
	Kind     ItemKind
	Span     source.Span
	Name     string
	Children []ItemID

	// classes
	TypeParams []TypeParam
	Constraint ConstraintID
	Base       TypeExprID

	// functions
	Params  []Param
	Result  TypeExprID
	Flags   FnFlags
	Body    []StmtID
	HasBody bool

	// variables and enums
	Type      TypeExprID
	Constants []string

	// Origin is the item this one was cloned from.
	Origin   ItemID
	Instance bool
}

// IsGeneric reports whether a class declares type parameters.
func (it *Item) IsGeneric() bool { return it.Kind == ItemClass && len(it.TypeParams) > 0 }
