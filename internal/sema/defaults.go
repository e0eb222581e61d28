package sema

import (
	"fmt"

	"github.com/slaakko/cmajor-sub007/internal/symbols"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

type memberwiseKind uint8

const (
	memberwiseDefault memberwiseKind = iota
	memberwiseCopy
	memberwiseMove
	memberwiseCopyAssign
	memberwiseMoveAssign
	memberwiseEqual
	memberwiseDestroy
)

// ensureClassDefaults synthesizes the default, copy and move constructors
// and the copy and move assignments a class does not declare itself.
// Suppressed declarations count as declared.
func (s *Session) ensureClassDefaults(class symbols.SymbolID) {
	if s.defaultsDone[class] {
		return
	}
	s.defaultsDone[class] = true
	cls := *s.Table.Symbol(class)
	if cls.Kind != symbols.SymbolClass || !cls.Owns.IsValid() {
		return
	}
	in := s.Types
	copyParam := in.AddLvalueRef(in.AddConst(cls.Type))
	moveParam := in.AddRvalueRef(cls.Type)

	var userCtor, hasCopy, hasMove, hasCopyAssign, hasMoveAssign bool
	for _, id := range s.Table.Members(cls.Owns, symbols.GroupConstructor) {
		userCtor = true
		switch secondParam(s.Table.Symbol(id)) {
		case copyParam:
			hasCopy = true
		case moveParam:
			hasMove = true
		}
	}
	for _, id := range s.Table.Members(cls.Owns, "operator=") {
		switch secondParam(s.Table.Symbol(id)) {
		case copyParam:
			hasCopyAssign = true
		case moveParam:
			hasMoveAssign = true
		}
	}
	this := in.AddPointer(cls.Type)
	if !userCtor {
		s.synthesize(class, symbols.GroupConstructor, this)
	}
	if !hasCopy && !hasMove && !hasMoveAssign {
		s.synthesize(class, symbols.GroupConstructor, this, copyParam)
	}
	if !hasCopyAssign && !hasMove && !hasMoveAssign {
		s.synthesize(class, "operator=", this, copyParam)
	}
	if !hasCopy && !hasMove && !hasCopyAssign && !hasMoveAssign {
		s.synthesize(class, symbols.GroupConstructor, this, moveParam)
		s.synthesize(class, "operator=", this, moveParam)
	}
}

func secondParam(sym *symbols.Symbol) types.TypeID {
	if sym == nil || sym.Signature.Arity() != 2 {
		return types.NoTypeID
	}
	return sym.Signature.Params[1]
}

func (s *Session) synthesize(class symbols.SymbolID, group string, params ...types.TypeID) symbols.SymbolID {
	cls := *s.Table.Symbol(class)
	flags := symbols.FlagSynthesized | symbols.FlagMember
	if group == symbols.GroupConstructor {
		flags |= symbols.FlagConstructor
	}
	names := make([]string, len(params))
	names[0] = "this"
	if len(names) > 1 {
		names[1] = "that"
	}
	void := s.Types.Builtins().Void
	id := s.Table.Install(cls.Owns, &symbols.Symbol{
		Name:      group,
		Kind:      symbols.SymbolFunction,
		Flags:     flags,
		Span:      cls.Span,
		Parent:    class,
		Type:      void,
		Signature: &symbols.FunctionSignature{Params: params, ParamNames: names, Result: void},
		Instance:  cls.Instance,
		State:     symbols.BindUnbound,
	})
	if inst := s.engine.Lookup(InstanceID(cls.Instance)); inst != nil {
		inst.Members = append(inst.Members, id)
	}
	return id
}

func (s *Session) memberwiseKindOf(sym *symbols.Symbol) memberwiseKind {
	switch sym.Name {
	case symbols.GroupConstructor:
		if sym.Signature.Arity() == 1 {
			return memberwiseDefault
		}
		if s.Types.IsRvalueRef(sym.Signature.Params[1]) {
			return memberwiseMove
		}
		return memberwiseCopy
	case "operator=":
		if s.Types.IsRvalueRef(sym.Signature.Params[1]) {
			return memberwiseMoveAssign
		}
		return memberwiseCopyAssign
	case "operator==":
		return memberwiseEqual
	case symbols.GroupDestructor:
		return memberwiseDestroy
	}
	invariant("'%s' cannot be bound member-wise", sym.Name)
	return 0
}

// bindMemberwise binds a synthesized or "= default" member by resolving the
// same operation on the base class and on every member variable.
func (b *Binder) bindMemberwise(fn symbols.SymbolID) error {
	s := b.s
	sym := *s.Table.Symbol(fn)
	if sym.State != symbols.BindUnbound {
		return nil
	}
	cls := s.Table.Symbol(sym.Parent)
	if cls == nil || cls.Kind != symbols.SymbolClass {
		invariant("member-wise function '%s' has no owning class", s.Signature(fn))
	}
	owns, classType := cls.Owns, cls.Type
	kind := s.memberwiseKindOf(&sym)
	s.Table.Symbol(fn).State = symbols.BindBinding

	var parts []types.TypeID
	if info, ok := s.Types.ClassInfo(classType); ok && info.Base.IsValid() {
		parts = append(parts, info.Base)
	}
	for _, id := range s.Table.Scope(owns).Symbols {
		if v := s.Table.Symbol(id); v.Kind == symbols.SymbolVariable {
			parts = append(parts, v.Type)
		}
	}
	scopes := []LookupScope{{Scope: owns, Mode: symbols.LookupThisBasesAndParents}}
	for _, t := range parts {
		group, args, ok := b.memberwiseCall(kind, t)
		if !ok {
			continue
		}
		if _, err := s.resolver.resolve(sym.Span, group, args, scopes, ConversionImplicit, true); err != nil {
			s.Table.Symbol(fn).State = symbols.BindBound
			if se, ok := err.(*Error); ok {
				se.WithNote(sym.Span, fmt.Sprintf("required by '%s'", s.Signature(fn)))
			}
			return err
		}
	}
	s.Table.Symbol(fn).State = symbols.BindBound
	s.engine.recordBound(fn)
	return nil
}

func (b *Binder) memberwiseCall(kind memberwiseKind, t types.TypeID) (string, []Argument, bool) {
	in := b.s.Types
	this := RvalueArg(in.AddPointer(t))
	constArg := LvalueArg(t)
	if !in.IsPointer(t) {
		constArg = LvalueArg(in.AddConst(t))
	}
	switch kind {
	case memberwiseDefault:
		return symbols.GroupConstructor, []Argument{this}, true
	case memberwiseCopy:
		return symbols.GroupConstructor, []Argument{this, constArg}, true
	case memberwiseMove:
		return symbols.GroupConstructor, []Argument{this, RvalueArg(t)}, true
	case memberwiseCopyAssign:
		return "operator=", []Argument{this, constArg}, true
	case memberwiseMoveAssign:
		return "operator=", []Argument{this, RvalueArg(t)}, true
	case memberwiseEqual:
		return "operator==", []Argument{constArg, constArg}, true
	case memberwiseDestroy:
		cls := b.s.resolver.classSymbol(t)
		if !cls.IsValid() || in.IsPointer(t) {
			return "", nil, false
		}
		owns := b.s.Table.Symbol(cls).Owns
		if len(b.s.Table.Members(owns, symbols.GroupDestructor)) == 0 {
			return "", nil, false
		}
		return symbols.GroupDestructor, []Argument{this}, true
	}
	return "", nil, false
}
