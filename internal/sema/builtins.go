package sema

import (
	"github.com/slaakko/cmajor-sub007/internal/symbols"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

type builtinKey struct {
	group  string
	params string
}

var (
	comparisonGroups = map[string]bool{
		"operator==": true, "operator!=": true,
		"operator<": true, "operator>": true, "operator<=": true, "operator>=": true,
	}
	arithmeticGroups = map[string]bool{
		"operator+": true, "operator-": true, "operator*": true, "operator/": true,
	}
)

// builtinCandidates synthesizes the operations basic, pointer and enum
// types provide without declarations.
func (s *Session) builtinCandidates(group string, args []Argument) []symbols.SymbolID {
	in := s.Types
	boolType := in.Builtins().Bool
	void := in.Builtins().Void
	var out []symbols.SymbolID
	switch {
	case comparisonGroups[group] && len(args) == 2:
		for _, a := range args {
			if t := in.PlainType(a.Type); s.isScalar(t) {
				out = append(out, s.builtinFunction(group, []types.TypeID{t, t}, boolType))
			}
		}
	case arithmeticGroups[group] && len(args) == 2:
		for _, a := range args {
			if t := in.PlainType(a.Type); in.KindOf(t).IsNumeric() {
				out = append(out, s.builtinFunction(group, []types.TypeID{t, t}, t))
			}
		}
	case group == "operator=" && len(args) == 2:
		if t, ok := s.scalarTarget(args[0].Type); ok {
			out = append(out, s.builtinFunction(group, []types.TypeID{in.AddPointer(t), t}, void))
		}
	case group == symbols.GroupConstructor && (len(args) == 1 || len(args) == 2):
		if t, ok := s.scalarTarget(args[0].Type); ok {
			params := []types.TypeID{in.AddPointer(t)}
			if len(args) == 2 {
				params = append(params, t)
			}
			out = append(out, s.builtinFunction(group, params, void))
		}
	}
	return out
}

// scalarTarget returns T for a pointer T* to a mutable scalar.
func (s *Session) scalarTarget(ptr types.TypeID) (types.TypeID, bool) {
	in := s.Types
	if !in.IsPointer(ptr) || in.IsReference(ptr) {
		return types.NoTypeID, false
	}
	t := in.RemovePointer(ptr)
	if !s.isScalar(t) || (in.IsConst(t) && !in.IsPointer(t)) {
		return types.NoTypeID, false
	}
	return t, true
}

func (s *Session) isScalar(t types.TypeID) bool {
	switch k := s.Types.KindOf(t); {
	case k.IsBasic(), k == types.KindNullPtr, k == types.KindEnum, k == types.KindDerived:
		return true
	}
	return false
}

func (s *Session) builtinFunction(group string, params []types.TypeID, result types.TypeID) symbols.SymbolID {
	key := builtinKey{group: group, params: types.ArgsKey(params)}
	if id, ok := s.builtins[key]; ok {
		return id
	}
	flags := symbols.FlagBuiltin | symbols.FlagSynthesized
	if group == symbols.GroupConstructor {
		flags |= symbols.FlagConstructor
	}
	id := s.Table.Install(s.builtinScope, &symbols.Symbol{
		Name:      group,
		Kind:      symbols.SymbolFunction,
		Flags:     flags,
		Type:      result,
		Signature: &symbols.FunctionSignature{Params: params, Result: result},
	})
	s.builtins[key] = id
	return id
}
