package sema

import (
	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/symbols"
)

// EnsureMemberBound binds member on first use. A deferred constraint is
// evaluated first, exactly once. Once it has failed, every later call
// returns the same error and binds nothing. After the member, the destructor and every
// non-abstract virtual function of the instantiation are bound as well.
// A member whose binding is in progress counts as bound.
func (e *Engine) EnsureMemberBound(inst *Instantiation, member symbols.SymbolID) error {
	if inst == nil {
		invariant("EnsureMemberBound without instantiation")
	}
	sym := e.s.Table.Symbol(member)
	if sym == nil || !sym.IsFunction() || InstanceID(sym.Instance) != inst.ID {
		invariant("symbol %d is not a member function of '%s'", member, inst.Name)
	}
	if inst.deferred {
		inst.deferred = false
		inst.constraintErr = e.checkConstraint(inst.Subject, inst.Args, inst.Name, inst.Span)
	}
	if inst.constraintErr != nil {
		return inst.constraintErr
	}
	if err := e.bindMember(inst, member); err != nil {
		return err
	}
	if inst.Destructor.IsValid() {
		if err := e.bindMember(inst, inst.Destructor); err != nil {
			return err
		}
	}
	return e.bindVirtuals(inst)
}

// IsBound reports whether fn has been bound or imported as bound.
func (e *Engine) IsBound(fn symbols.SymbolID) bool {
	sym := e.s.Table.Symbol(fn)
	return sym != nil && sym.State == symbols.BindBound
}

func (e *Engine) bindMember(inst *Instantiation, fn symbols.SymbolID) error {
	s := e.s
	sym := *s.Table.Symbol(fn)
	if sym.State != symbols.BindUnbound {
		return nil
	}
	if sym.Flags.Has(symbols.FlagSynthesized) || sym.Flags.Has(symbols.FlagDefault) {
		return s.binder.bindMemberwise(fn)
	}
	s.Table.Symbol(fn).State = symbols.BindBinding
	span := e.beginSpan("bind:" + s.Signature(fn))
	body := s.AST.CloneBody(sym.Origin, ast.CloneContext{Instance: true, Params: inst.params})
	s.binder.bindFunction(fn, body, typeEnv{scope: inst.Scope, args: inst.Args})
	s.Table.Symbol(fn).State = symbols.BindBound
	e.recordBound(fn)
	e.endSpan(span, "bound")
	return nil
}

// bindVirtuals binds every non-abstract function of the virtual table. The
// per-instantiation flag stops mutually referencing virtuals from recursing.
func (e *Engine) bindVirtuals(inst *Instantiation) error {
	if inst.virtualsBound || inst.bindingVirtuals {
		return nil
	}
	inst.bindingVirtuals = true
	defer func() { inst.bindingVirtuals = false }()
	vtable := append([]symbols.SymbolID(nil), e.s.Table.Symbol(inst.Class).VTable...)
	for _, fn := range vtable {
		if e.s.Table.Symbol(fn).Flags.Has(symbols.FlagAbstract) {
			continue
		}
		if err := e.s.ensureBound(fn); err != nil {
			return err
		}
	}
	inst.virtualsBound = true
	return nil
}
