package symbols

import (
	"strings"

	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

// Reserved function-group names.
const (
	GroupConstructor = "@constructor"
	GroupDestructor  = "@destructor"
	GroupConversion  = "@conversion"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolNamespace
	SymbolClass
	SymbolGenericClass
	SymbolFunction
	SymbolVariable // member variable
	SymbolParam
	SymbolLocal
	SymbolTypeParam // type parameter bound to a concrete type, or an injected class name
	SymbolEnum
	SymbolEnumConstant
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolNamespace:
		return "namespace"
	case SymbolClass:
		return "class"
	case SymbolGenericClass:
		return "generic class"
	case SymbolFunction:
		return "function"
	case SymbolVariable:
		return "member variable"
	case SymbolParam:
		return "parameter"
	case SymbolLocal:
		return "local"
	case SymbolTypeParam:
		return "type parameter"
	case SymbolEnum:
		return "enum"
	case SymbolEnumConstant:
		return "enum constant"
	default:
		return "invalid"
	}
}

// SymbolFlags encode function attributes and provenance.
type SymbolFlags uint32

const (
	FlagConstructor SymbolFlags = 1 << iota
	FlagDestructor
	FlagConversion
	FlagStatic
	FlagVirtual
	FlagOverride
	FlagAbstract
	FlagConverting // constructor usable as an implicit conversion
	FlagExplicit
	FlagNothrow
	FlagSuppressed
	FlagConst
	FlagDefault // declared "= default", bound member-wise
	FlagSynthesized
	FlagBuiltin
	FlagImported
	FlagMember
)

var flagNames = []struct {
	flag SymbolFlags
	name string
}{
	{FlagConstructor, "constructor"},
	{FlagDestructor, "destructor"},
	{FlagConversion, "conversion"},
	{FlagStatic, "static"},
	{FlagVirtual, "virtual"},
	{FlagOverride, "override"},
	{FlagAbstract, "abstract"},
	{FlagConverting, "converting"},
	{FlagExplicit, "explicit"},
	{FlagNothrow, "nothrow"},
	{FlagSuppressed, "suppressed"},
	{FlagConst, "const"},
	{FlagDefault, "default"},
	{FlagSynthesized, "synthesized"},
	{FlagBuiltin, "builtin"},
	{FlagImported, "imported"},
	{FlagMember, "member"},
}

func (f SymbolFlags) Has(x SymbolFlags) bool { return f&x != 0 }

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 4)
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			labels = append(labels, fn.name)
		}
	}
	return labels
}

func (f SymbolFlags) String() string { return strings.Join(f.Strings(), ",") }

// BindState tracks lazy body binding of instantiation members.
type BindState uint8

const (
	BindNone BindState = iota // not generated by an instantiation
	BindUnbound
	BindBinding
	BindBound
)

func (s BindState) String() string {
	switch s {
	case BindUnbound:
		return "unbound"
	case BindBinding:
		return "binding"
	case BindBound:
		return "bound"
	}
	return "-"
}

// FunctionSignature lists parameter types including the implicit this.
type FunctionSignature struct {
	Params     []types.TypeID
	ParamNames []string
	Result     types.TypeID
}

func (s *FunctionSignature) Arity() int {
	if s == nil {
		return 0
	}
	return len(s.Params)
}

// Symbol is one entry of the symbol arena.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Flags SymbolFlags
	Span  source.Span

	Scope  ScopeID  // declaring scope
	Owns   ScopeID  // scope introduced by namespaces, classes and functions
	Parent SymbolID // enclosing class of a member

	Type      types.TypeID
	Signature *FunctionSignature

	Decl   ast.ItemID
	Origin ast.ItemID // subject member an instantiation member was cloned from

	// Instance is the owning engine's instantiation handle, 0 when the symbol
	// was not generated by an instantiation.
	Instance uint32
	State    BindState

	VTable []SymbolID
}

func (s *Symbol) IsFunction() bool { return s != nil && s.Kind == SymbolFunction }

// IsType reports whether the symbol names a type.
func (s *Symbol) IsType() bool {
	if s == nil {
		return false
	}
	switch s.Kind {
	case SymbolClass, SymbolEnum, SymbolTypeParam:
		return true
	}
	return false
}
