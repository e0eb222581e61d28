package symbols

import "strings"

// Lookup collects every symbol named name across the scopes mode reaches
// from scope, nearest first. Function groups use it so overloads declared
// in bases and enclosing namespaces are all candidates.
func (t *Table) Lookup(scope ScopeID, name string, mode LookupMode) []SymbolID {
	var out []SymbolID
	seen := make(map[SymbolID]struct{})
	t.walk(scope, mode, make(map[ScopeID]struct{}), func(s *Scope) bool {
		for _, id := range s.NameIndex[name] {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
		return true
	})
	return out
}

// LookupFirst returns the symbols of the nearest scope that declares name.
func (t *Table) LookupFirst(scope ScopeID, name string, mode LookupMode) []SymbolID {
	var out []SymbolID
	t.walk(scope, mode, make(map[ScopeID]struct{}), func(s *Scope) bool {
		if ids := s.NameIndex[name]; len(ids) > 0 {
			out = ids
			return false
		}
		return true
	})
	return out
}

// LookupQualified resolves a dotted name: the first segment through the
// scope chain, the rest as members of the scopes owned by the previous hit.
func (t *Table) LookupQualified(scope ScopeID, dotted string) []SymbolID {
	parts := strings.Split(dotted, ".")
	ids := t.LookupFirst(scope, parts[0], LookupThisBasesAndParents)
	for _, part := range parts[1:] {
		if len(ids) != 1 {
			return nil
		}
		owner := t.Symbols.Get(ids[0])
		if owner == nil || !owner.Owns.IsValid() {
			return nil
		}
		ids = t.LookupFirst(owner.Owns, part, LookupThisAndBases)
	}
	return ids
}

// walk visits scope, then its bases, then its parents per mode. visit
// returning false stops the walk.
func (t *Table) walk(scope ScopeID, mode LookupMode, visited map[ScopeID]struct{}, visit func(*Scope) bool) bool {
	for cur := scope; cur.IsValid(); {
		if !t.walkBases(cur, mode.bases(), visited, visit) {
			return false
		}
		if !mode.parents() {
			return true
		}
		s := t.Scopes.Get(cur)
		if s == nil {
			return true
		}
		cur = s.Parent
	}
	return true
}

func (t *Table) walkBases(scope ScopeID, withBases bool, visited map[ScopeID]struct{}, visit func(*Scope) bool) bool {
	if _, ok := visited[scope]; ok {
		return true
	}
	visited[scope] = struct{}{}
	s := t.Scopes.Get(scope)
	if s == nil {
		return true
	}
	if !visit(s) {
		return false
	}
	if !withBases {
		return true
	}
	for _, b := range s.Bases {
		if !t.walkBases(b, true, visited, visit) {
			return false
		}
	}
	return true
}
