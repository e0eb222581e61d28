package types

// MakeDerived applies d on top of base. Derivations of an already derived
// base are folded so every derived descriptor has a non-derived base.
func (in *Interner) MakeDerived(base TypeID, d Derivations) TypeID {
	root, cur := in.Split(base)
	if root == NoTypeID {
		return NoTypeID
	}
	folded := Derivations{
		Const:    cur.Const || d.Const,
		Pointers: cur.Pointers + d.Pointers,
		Ref:      cur.Ref,
	}
	if d.Pointers > 0 {
		folded.Ref = RefNone
	}
	if d.Ref != RefNone {
		folded.Ref = d.Ref
	}
	return in.derive(root, folded)
}

func (in *Interner) derive(root TypeID, d Derivations) TypeID {
	if d.IsZero() {
		return root
	}
	return in.Intern(Type{Kind: KindDerived, Base: root, Deriv: d})
}

// Split returns the non-derived base of id and the derivations on top of it.
func (in *Interner) Split(id TypeID) (TypeID, Derivations) {
	t, ok := in.Lookup(id)
	if !ok {
		return NoTypeID, Derivations{}
	}
	if t.Kind == KindDerived {
		return t.Base, t.Deriv
	}
	return id, Derivations{}
}

// BaseType strips every derivation.
func (in *Interner) BaseType(id TypeID) TypeID {
	root, _ := in.Split(id)
	return root
}

// Derivations returns the derivations applied to id.
func (in *Interner) Derivations(id TypeID) Derivations {
	_, d := in.Split(id)
	return d
}

// PlainType removes the reference and a top-level const. Const on the
// pointee of a pointer is kept so const-correctness survives matching.
func (in *Interner) PlainType(id TypeID) TypeID {
	root, d := in.Split(id)
	d.Ref = RefNone
	if d.Pointers == 0 {
		d.Const = false
	}
	return in.derive(root, d)
}

func (in *Interner) RemoveRef(id TypeID) TypeID {
	root, d := in.Split(id)
	d.Ref = RefNone
	return in.derive(root, d)
}

func (in *Interner) RemoveConst(id TypeID) TypeID {
	root, d := in.Split(id)
	d.Const = false
	return in.derive(root, d)
}

// RemovePointer drops one pointer level and any reference.
func (in *Interner) RemovePointer(id TypeID) TypeID {
	root, d := in.Split(id)
	if d.Pointers == 0 {
		return id
	}
	d.Pointers--
	d.Ref = RefNone
	return in.derive(root, d)
}

func (in *Interner) AddPointer(id TypeID) TypeID {
	return in.MakeDerived(in.RemoveRef(id), Derivations{Pointers: 1})
}

func (in *Interner) AddConst(id TypeID) TypeID {
	return in.MakeDerived(id, Derivations{Const: true})
}

func (in *Interner) AddLvalueRef(id TypeID) TypeID {
	return in.MakeDerived(id, Derivations{Ref: RefLvalue})
}

func (in *Interner) AddRvalueRef(id TypeID) TypeID {
	return in.MakeDerived(id, Derivations{Ref: RefRvalue})
}

func (in *Interner) DerivationCount(id TypeID) int {
	return in.Derivations(id).Count()
}

func (in *Interner) IsPointer(id TypeID) bool { return in.Derivations(id).Pointers > 0 }

func (in *Interner) IsConst(id TypeID) bool { return in.Derivations(id).Const }

func (in *Interner) IsLvalueRef(id TypeID) bool { return in.Derivations(id).Ref == RefLvalue }

func (in *Interner) IsRvalueRef(id TypeID) bool { return in.Derivations(id).Ref == RefRvalue }

func (in *Interner) IsReference(id TypeID) bool { return in.Derivations(id).Ref != RefNone }

// KindOf reports the kind of the non-derived base, or KindDerived when id
// is a pointer.
func (in *Interner) KindOf(id TypeID) Kind {
	root, d := in.Split(id)
	if d.Pointers > 0 {
		return KindDerived
	}
	t, ok := in.Lookup(root)
	if !ok {
		return KindInvalid
	}
	return t.Kind
}

// ClassOf returns the class type of id after stripping all derivations.
func (in *Interner) ClassOf(id TypeID) (TypeID, bool) {
	root := in.BaseType(id)
	t, ok := in.Lookup(root)
	if !ok || t.Kind != KindClass {
		return NoTypeID, false
	}
	return root, true
}

// ClassDistance counts base steps from derived up to base. Both must be
// non-derived class types.
func (in *Interner) ClassDistance(derived, base TypeID) (int, bool) {
	dist := 0
	seen := make(map[TypeID]struct{})
	for cur := derived; cur != NoTypeID; dist++ {
		if cur == base {
			return dist, true
		}
		if _, loop := seen[cur]; loop {
			return 0, false
		}
		seen[cur] = struct{}{}
		info, ok := in.ClassInfo(cur)
		if !ok {
			return 0, false
		}
		cur = info.Base
	}
	return 0, false
}
