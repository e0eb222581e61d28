package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the basic types.
type Builtins struct {
	Void    TypeID
	Bool    TypeID
	Char    TypeID
	SByte   TypeID
	Byte    TypeID
	Short   TypeID
	UShort  TypeID
	Int     TypeID
	UInt    TypeID
	Long    TypeID
	ULong   TypeID
	Float   TypeID
	Double  TypeID
	NullPtr TypeID
}

type specKey struct {
	subject uint32
	args    string
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// It is not safe for concurrent use; every compilation unit owns one.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	builtins Builtins
	basic    map[Kind]TypeID
	classes  []ClassInfo
	enums    []EnumInfo
	specs    map[specKey]TypeID
}

func NewInterner() *Interner {
	in := &Interner{
		types: make([]Type, 1, 64), // 0 is NoTypeID
		index: make(map[Type]TypeID, 64),
		basic: make(map[Kind]TypeID, 16),
		specs: make(map[specKey]TypeID),
	}
	in.classes = append(in.classes, ClassInfo{})
	in.enums = append(in.enums, EnumInfo{})
	b := &in.builtins
	for _, slot := range []struct {
		kind Kind
		dst  *TypeID
	}{
		{KindVoid, &b.Void}, {KindBool, &b.Bool}, {KindChar, &b.Char},
		{KindSByte, &b.SByte}, {KindByte, &b.Byte}, {KindShort, &b.Short},
		{KindUShort, &b.UShort}, {KindInt, &b.Int}, {KindUInt, &b.UInt},
		{KindLong, &b.Long}, {KindULong, &b.ULong}, {KindFloat, &b.Float},
		{KindDouble, &b.Double}, {KindNullPtr, &b.NullPtr},
	} {
		*slot.dst = in.Intern(Type{Kind: slot.kind})
		in.basic[slot.kind] = *slot.dst
	}
	return in
}

func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Basic returns the TypeID of a basic kind.
func (in *Interner) Basic(k Kind) TypeID {
	return in.basic[k]
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("types: invalid TypeID %d", id))
	}
	return tt
}

// Len returns the number of interned descriptors.
func (in *Interner) Len() int { return len(in.types) - 1 }

// RegisterClass creates a fresh nominal class type.
func (in *Interner) RegisterClass(name string, symbol uint32) TypeID {
	return in.newClass(ClassInfo{Name: name, Symbol: symbol})
}

// Specialize returns the class type of subject applied to args. The same
// subject and argument list always yield the same TypeID, before and after
// the specialization is instantiated.
func (in *Interner) Specialize(subject uint32, name string, args []TypeID) TypeID {
	key := specKey{subject: subject, args: ArgsKey(args)}
	if id, ok := in.specs[key]; ok {
		return id
	}
	id := in.newClass(ClassInfo{
		Name:    name,
		Subject: subject,
		Args:    append([]TypeID(nil), args...),
	})
	in.specs[key] = id
	return id
}

// FindSpecialization looks up an existing specialization without creating it.
func (in *Interner) FindSpecialization(subject uint32, args []TypeID) (TypeID, bool) {
	id, ok := in.specs[specKey{subject: subject, args: ArgsKey(args)}]
	return id, ok
}

func (in *Interner) newClass(info ClassInfo) TypeID {
	idx, err := safecast.Conv[uint32](len(in.classes))
	if err != nil {
		panic(fmt.Errorf("len(classes) overflow: %w", err))
	}
	in.classes = append(in.classes, info)
	return in.internRaw(Type{Kind: KindClass, Payload: idx})
}

// ClassInfo returns the mutable class record behind a class type.
func (in *Interner) ClassInfo(id TypeID) (*ClassInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindClass || int(t.Payload) >= len(in.classes) {
		return nil, false
	}
	return &in.classes[t.Payload], true
}

func (in *Interner) SetClassBase(class, base TypeID) {
	if info, ok := in.ClassInfo(class); ok {
		info.Base = base
	}
}

func (in *Interner) SetClassSymbol(class TypeID, symbol uint32) {
	if info, ok := in.ClassInfo(class); ok {
		info.Symbol = symbol
	}
}

// SetInstance links a specialization to its instantiation.
func (in *Interner) SetInstance(class TypeID, inst uint32) {
	if info, ok := in.ClassInfo(class); ok {
		info.Instance = inst
	}
}

func (in *Interner) RegisterEnum(name string, symbol uint32, underlying TypeID) TypeID {
	idx, err := safecast.Conv[uint32](len(in.enums))
	if err != nil {
		panic(fmt.Errorf("len(enums) overflow: %w", err))
	}
	in.enums = append(in.enums, EnumInfo{Name: name, Symbol: symbol, Underlying: underlying})
	return in.internRaw(Type{Kind: KindEnum, Payload: idx})
}

func (in *Interner) EnumInfo(id TypeID) (*EnumInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindEnum || int(t.Payload) >= len(in.enums) {
		return nil, false
	}
	return &in.enums[t.Payload], true
}
