package sema

import (
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/export"
	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/symbols"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

// Export records inst with its member signatures, their bind state and the
// generic base chain.
func (e *Engine) Export(inst *Instantiation) export.Instantiation {
	s := e.s
	rec := export.Instantiation{
		Schema:  export.SchemaVersion,
		Subject: s.Table.QualifiedName(inst.Subject),
		Args:    e.typeRefs(inst.Args),
	}
	for _, fn := range inst.Members {
		sym := s.Table.Symbol(fn)
		rec.Members = append(rec.Members, export.Member{
			Name:   sym.Name,
			Params: e.typeRefs(sym.Signature.Params),
			Result: e.typeRef(sym.Signature.Result),
			Flags:  uint32(sym.Flags),
			Bound:  sym.State == symbols.BindBound,
		})
	}
	if inst.Base != nil {
		rec.Bases = []export.Instantiation{e.Export(inst.Base)}
	}
	return rec
}

// ExportAll archives every instantiation the unit owns. Imported ones stay
// with the unit that exported them. Failed instantiations and those whose
// constraint did not hold are not exported.
func (e *Engine) ExportAll(unit string) *export.Archive {
	a := &export.Archive{Schema: export.SchemaVersion, Unit: unit}
	for _, inst := range e.insts[1:] {
		if inst.Imported || inst.State == StateFailed || inst.constraintErr != nil {
			continue
		}
		a.Instantiations = append(a.Instantiations, e.Export(inst))
	}
	return a
}

func (e *Engine) typeRefs(ids []types.TypeID) []export.TypeRef {
	out := make([]export.TypeRef, len(ids))
	for i, id := range ids {
		out[i] = e.typeRef(id)
	}
	return out
}

func (e *Engine) typeRef(id types.TypeID) export.TypeRef {
	s := e.s
	root, d := s.Types.Split(id)
	t := s.Types.MustLookup(root)
	ref := export.TypeRef{Kind: uint8(t.Kind), Const: d.Const, Pointers: d.Pointers, Ref: uint8(d.Ref)}
	switch t.Kind {
	case types.KindClass:
		info, _ := s.Types.ClassInfo(root)
		if info.IsSpecialization() {
			ref.Name = s.Table.QualifiedName(symbols.SymbolID(info.Subject))
			ref.Args = e.typeRefs(info.Args)
		} else {
			ref.Name = s.Table.QualifiedName(symbols.SymbolID(info.Symbol))
		}
	case types.KindEnum:
		info, _ := s.Types.EnumInfo(root)
		ref.Name = s.Table.QualifiedName(symbols.SymbolID(info.Symbol))
	}
	return ref
}

func (e *Engine) typeFromRef(ref export.TypeRef, sp source.Span) (types.TypeID, error) {
	s := e.s
	kind := types.Kind(ref.Kind)
	var base types.TypeID
	switch {
	case kind == types.KindClass || kind == types.KindEnum:
		ids := s.Table.LookupQualified(s.Table.Root(), ref.Name)
		if len(ref.Args) > 0 {
			subject := e.genericAmong(ids)
			if !subject.IsValid() {
				return types.NoTypeID, errorf(diag.ExpImportInstantiation, sp, "imported type '%s' is not a generic class", ref.Name)
			}
			args := make([]types.TypeID, len(ref.Args))
			for i, a := range ref.Args {
				t, err := e.typeFromRef(a, sp)
				if err != nil {
					return types.NoTypeID, err
				}
				args[i] = t
			}
			base = e.specialize(subject, args)
			break
		}
		for _, id := range ids {
			if sym := s.Table.Symbol(id); sym.Kind == symbols.SymbolClass || sym.Kind == symbols.SymbolEnum {
				base = sym.Type
				break
			}
		}
		if !base.IsValid() {
			return types.NoTypeID, errorf(diag.ExpImportInstantiation, sp, "imported type '%s' not found", ref.Name)
		}
	case kind >= types.KindVoid && kind <= types.KindNullPtr:
		base = s.Types.Basic(kind)
	default:
		return types.NoTypeID, errorf(diag.ExpSchemaMismatch, sp, "imported type reference has unknown kind %d", ref.Kind)
	}
	return s.Types.MakeDerived(base, types.Derivations{
		Const:    ref.Const,
		Pointers: ref.Pointers,
		Ref:      types.RefKind(ref.Ref),
	}), nil
}

func (e *Engine) genericAmong(ids []symbols.SymbolID) symbols.SymbolID {
	for _, id := range ids {
		if e.s.Table.Symbol(id).Kind == symbols.SymbolGenericClass {
			return id
		}
	}
	return symbols.NoSymbolID
}

// Import restores an instantiation exported by another unit. Bases are
// imported first. Members recorded as bound are marked bound and imported
// so they are never rebound here.
func (e *Engine) Import(rec *export.Instantiation, sp source.Span) (*Instantiation, error) {
	s := e.s
	for i := range rec.Bases {
		if _, err := e.Import(&rec.Bases[i], sp); err != nil {
			return nil, err
		}
	}
	subject := e.genericAmong(s.Table.LookupQualified(s.Table.Root(), rec.Subject))
	if !subject.IsValid() {
		return nil, errorf(diag.SemaNotGenericClass, sp, "imported instantiation subject '%s' is not a generic class", rec.Subject)
	}
	args := make([]types.TypeID, len(rec.Args))
	for i, a := range rec.Args {
		t, err := e.typeFromRef(a, sp)
		if err != nil {
			return nil, err
		}
		args[i] = t
	}
	_, existed := e.Find(subject, args)
	inst, err := e.EnsureInstantiated(subject, args, Request{Scope: s.Table.Root(), Span: sp, DeferConstraint: true})
	if err != nil {
		return nil, err
	}
	if !existed {
		// The exporting unit already validated the constraint.
		inst.deferred = false
		inst.Imported = true
	}
	for _, m := range rec.Members {
		if !m.Bound {
			continue
		}
		params := make([]types.TypeID, len(m.Params))
		for i, p := range m.Params {
			t, err := e.typeFromRef(p, sp)
			if err != nil {
				return nil, err
			}
			params[i] = t
		}
		fn := e.findMember(inst, m.Name, params)
		if !fn.IsValid() && symbols.SymbolFlags(m.Flags).Has(symbols.FlagSynthesized) {
			s.ensureClassDefaults(inst.Class)
			fn = e.findMember(inst, m.Name, params)
		}
		if !fn.IsValid() {
			return nil, errorf(diag.ExpImportInstantiation, sp, "member '%s%s' of imported instantiation '%s' not found",
				m.Name, s.Types.Names(params), inst.Name)
		}
		sym := s.Table.Symbol(fn)
		if sym.State == symbols.BindBound {
			continue
		}
		sym.State = symbols.BindBound
		sym.Flags |= symbols.FlagImported
		e.stats.MembersImported++
	}
	return inst, nil
}

// ImportArchive imports every instantiation of a.
func (e *Engine) ImportArchive(a *export.Archive, sp source.Span) error {
	for i := range a.Instantiations {
		if _, err := e.Import(&a.Instantiations[i], sp); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) findMember(inst *Instantiation, name string, params []types.TypeID) symbols.SymbolID {
	for _, id := range e.s.Table.Members(inst.Scope, name) {
		sym := e.s.Table.Symbol(id)
		if !sym.IsFunction() || sym.Signature.Arity() != len(params) {
			continue
		}
		same := true
		for i, p := range sym.Signature.Params {
			if p != params[i] {
				same = false
				break
			}
		}
		if same {
			return id
		}
	}
	return symbols.NoSymbolID
}
