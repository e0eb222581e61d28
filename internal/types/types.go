package types

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeID uniquely identifies an interned type descriptor.
type TypeID uint32

// NoTypeID marks an absent or invalid type.
const NoTypeID TypeID = 0

func (id TypeID) IsValid() bool { return id != NoTypeID }

// Kind enumerates the type categories the resolution core distinguishes.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindBool
	KindChar
	KindSByte
	KindByte
	KindShort
	KindUShort
	KindInt
	KindUInt
	KindLong
	KindULong
	KindFloat
	KindDouble
	KindNullPtr
	KindClass
	KindEnum
	KindDerived
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindVoid:    "void",
	KindBool:    "bool",
	KindChar:    "char",
	KindSByte:   "sbyte",
	KindByte:    "byte",
	KindShort:   "short",
	KindUShort:  "ushort",
	KindInt:     "int",
	KindUInt:    "uint",
	KindLong:    "long",
	KindULong:   "ulong",
	KindFloat:   "float",
	KindDouble:  "double",
	KindNullPtr: "nullptr_t",
	KindClass:   "class",
	KindEnum:    "enum",
	KindDerived: "derived",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// KindByName maps a basic type keyword to its kind.
func KindByName(name string) (Kind, bool) {
	for k := KindVoid; k <= KindDouble; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return KindInvalid, false
}

// IsBasic reports whether k is a builtin scalar kind (void excluded).
func (k Kind) IsBasic() bool { return k >= KindBool && k <= KindDouble }

func (k Kind) IsIntegral() bool { return k >= KindSByte && k <= KindULong }

func (k Kind) IsSigned() bool {
	switch k {
	case KindSByte, KindShort, KindInt, KindLong:
		return true
	}
	return false
}

func (k Kind) IsFloat() bool { return k == KindFloat || k == KindDouble }

func (k Kind) IsNumeric() bool { return k.IsIntegral() || k.IsFloat() }

// RefKind distinguishes lvalue and rvalue references.
type RefKind uint8

const (
	RefNone RefKind = iota
	RefLvalue
	RefRvalue
)

// Derivations describe how a derived type is built from its base:
// const applies to the base, then pointer levels, then an optional reference.
type Derivations struct {
	Const    bool
	Pointers uint8
	Ref      RefKind
}

func (d Derivations) IsZero() bool { return !d.Const && d.Pointers == 0 && d.Ref == RefNone }

// Count is the number of derivation steps, used as a ranking tie-break.
func (d Derivations) Count() int {
	n := int(d.Pointers)
	if d.Const {
		n++
	}
	if d.Ref != RefNone {
		n++
	}
	return n
}

// Type is the immutable descriptor stored by the interner.
type Type struct {
	Kind    Kind
	Base    TypeID // KindDerived only; never itself derived
	Deriv   Derivations
	Payload uint32 // index into class or enum info
}

// ClassInfo describes a nominal class or a generic specialization.
type ClassInfo struct {
	Name     string
	Symbol   uint32 // class symbol in the owning table
	Base     TypeID
	Subject  uint32 // generic class symbol, 0 for ordinary classes
	Args     []TypeID
	Instance uint32 // instantiation handle once the specialization is instantiated
}

// IsSpecialization reports whether the class came from Specialize.
func (c *ClassInfo) IsSpecialization() bool { return c != nil && c.Subject != 0 }

type EnumInfo struct {
	Name       string
	Symbol     uint32
	Underlying TypeID
}

// ArgsKey renders a canonical key for an argument list.
func ArgsKey(args []TypeID) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = strconv.FormatUint(uint64(a), 10)
	}
	return strings.Join(parts, "#")
}

func (t Type) String() string {
	return fmt.Sprintf("%s(base=%d, payload=%d)", t.Kind, t.Base, t.Payload)
}
