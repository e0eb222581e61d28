package symbols

import (
	"github.com/slaakko/cmajor-sub007/internal/source"
)

type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeNamespace
	ScopeClass
	ScopeFunction
	ScopeBlock
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeNamespace:
		return "namespace"
	case ScopeClass:
		return "class"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope. Class scopes additionally link their base
// class scopes.
type Scope struct {
	Kind      ScopeKind
	Name      string
	Parent    ScopeID
	Bases     []ScopeID
	Owner     SymbolID
	Span      source.Span
	NameIndex map[string][]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}

// LookupMode selects which related scopes a lookup visits.
type LookupMode uint8

const (
	LookupThis LookupMode = iota
	LookupThisAndParents
	LookupThisAndBases
	LookupThisBasesAndParents
)

func (m LookupMode) bases() bool {
	return m == LookupThisAndBases || m == LookupThisBasesAndParents
}

func (m LookupMode) parents() bool {
	return m == LookupThisAndParents || m == LookupThisBasesAndParents
}
