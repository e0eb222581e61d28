package sema

import (
	"strings"

	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/symbols"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

// typeEnv is the context a type expression resolves in.
type typeEnv struct {
	scope symbols.ScopeID
	// args fills the placeholder slots of an instantiation clone.
	args []types.TypeID
	// params binds type parameter names while defaults are filled in.
	params map[string]types.TypeID
}

// resolveType maps a type expression to a TypeID. A missing expression is
// void. Generic uses produce specialization types without instantiating them.
func (s *Session) resolveType(id ast.TypeExprID, env typeEnv) (types.TypeID, error) {
	src := s.AST.Type(id)
	if src == nil {
		return s.Types.Builtins().Void, nil
	}
	te := *src
	switch te.Kind {
	case ast.TypeExprName:
		return s.resolveTypeName(te.Name, te.Span, env)
	case ast.TypeExprGeneric:
		return s.resolveGeneric(te, env)
	case ast.TypeExprDerived:
		elem, err := s.resolveType(te.Elem, env)
		if err != nil {
			return types.NoTypeID, err
		}
		return s.Types.MakeDerived(elem, te.Deriv), nil
	case ast.TypeExprPlaceholder:
		if te.Slot < 0 || te.Slot >= len(env.args) {
			invariant("placeholder %q refers to slot %d of %d", te.Name, te.Slot, len(env.args))
		}
		return env.args[te.Slot], nil
	}
	invariant("unknown type expression kind %d", te.Kind)
	return types.NoTypeID, nil
}

func (s *Session) resolveTypeName(name string, sp source.Span, env typeEnv) (types.TypeID, error) {
	if k, ok := types.KindByName(name); ok {
		return s.Types.Basic(k), nil
	}
	if t, ok := env.params[name]; ok {
		return t, nil
	}
	ids := s.Table.LookupQualified(env.scope, name)
	if len(ids) == 0 {
		return types.NoTypeID, errorf(diag.SemaUnresolvedType, sp, "type '%s' not found", name)
	}
	for _, id := range ids {
		sym := s.Table.Symbol(id)
		switch sym.Kind {
		case symbols.SymbolClass, symbols.SymbolEnum, symbols.SymbolTypeParam:
			return sym.Type, nil
		case symbols.SymbolGenericClass:
			return types.NoTypeID, errorf(diag.SemaTooFewTemplateArgs, sp, "generic class '%s' used without template arguments", name)
		}
	}
	return types.NoTypeID, errorf(diag.SemaNotAType, sp, "'%s' is not a type", name)
}

func (s *Session) resolveGeneric(te ast.TypeExpr, env typeEnv) (types.TypeID, error) {
	ids := s.Table.LookupQualified(env.scope, te.Name)
	if len(ids) == 0 {
		return types.NoTypeID, errorf(diag.SemaUnresolvedType, te.Span, "type '%s' not found", te.Name)
	}
	subject := s.engine.genericAmong(ids)
	if !subject.IsValid() && !strings.Contains(te.Name, ".") {
		// Inside an instantiation the subject name is hidden by the
		// injected class name.
		subject = s.engine.genericAmong(s.Table.Lookup(env.scope, te.Name, symbols.LookupThisBasesAndParents))
	}
	if !subject.IsValid() {
		return types.NoTypeID, errorf(diag.SemaNotGenericClass, te.Span, "'%s' is not a generic class", te.Name)
	}
	args := make([]types.TypeID, len(te.Args))
	for i, a := range te.Args {
		t, err := s.resolveType(a, env)
		if err != nil {
			return types.NoTypeID, err
		}
		args[i] = t
	}
	full, err := s.engine.completeArgs(subject, args, te.Span)
	if err != nil {
		return types.NoTypeID, err
	}
	return s.engine.specialize(subject, full), nil
}
