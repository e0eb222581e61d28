package sema

import (
	"errors"

	"github.com/slaakko/cmajor-sub007/internal/symbols"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

// prober answers constraint predicates with trial resolution. Failures
// become reasons instead of diagnostics.
type prober struct {
	s *Session
}

func (p prober) HasOperation(group string, args []types.TypeID) (bool, string) {
	in := p.s.Types
	call := make([]Argument, len(args))
	for i, t := range args {
		switch in.Derivations(t).Ref {
		case types.RefLvalue:
			call[i] = LvalueArg(in.RemoveRef(t))
		default:
			call[i] = RvalueArg(in.RemoveRef(t))
		}
	}
	scopes := []LookupScope{{Scope: p.s.Table.Root(), Mode: symbols.LookupThis}}
	if _, err := p.s.resolver.TryResolve(group, call, scopes, ConversionImplicit); err != nil {
		var se *Error
		if errors.As(err, &se) {
			return false, se.Message
		}
		return false, err.Error()
	}
	return true, ""
}

func (p prober) IsDerived(derived, base types.TypeID) bool {
	in := p.s.Types
	d, ok1 := in.ClassOf(derived)
	b, ok2 := in.ClassOf(base)
	if !ok1 || !ok2 {
		return false
	}
	for _, cls := range []types.TypeID{d, b} {
		if _, err := p.s.engine.ensureClass(cls, Request{Scope: p.s.Table.Root()}); err != nil {
			return false
		}
	}
	dist, ok := in.ClassDistance(d, b)
	return ok && dist > 0
}

func (p prober) Convertible(src, tgt types.TypeID) bool {
	if src == tgt {
		return true
	}
	c, ok := p.s.resolver.matchArgument(RvalueArg(p.s.Types.RemoveRef(src)), tgt, ConversionImplicit)
	return ok && !c.Explicit
}
