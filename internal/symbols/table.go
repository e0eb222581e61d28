package symbols

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"github.com/slaakko/cmajor-sub007/internal/source"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table aggregates the scope and symbol arenas of one compilation unit.
// It is single-threaded; parallel builds give every unit its own table.
type Table struct {
	Scopes    *Scopes
	Symbols   *Symbols
	root      ScopeID
	container []ScopeID
}

func NewTable(h Hints) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	t := &Table{
		Scopes:  NewScopes(scopeCap),
		Symbols: NewSymbols(symCap),
	}
	t.root = t.Scopes.New(ScopeNamespace, "", NoScopeID, NoSymbolID, source.Span{})
	return t
}

// Root is the global namespace scope.
func (t *Table) Root() ScopeID { return t.root }

func (t *Table) Scope(id ScopeID) *Scope { return t.Scopes.Get(id) }

func (t *Table) Symbol(id SymbolID) *Symbol { return t.Symbols.Get(id) }

func (t *Table) NewScope(kind ScopeKind, name string, parent ScopeID, owner SymbolID, span source.Span) ScopeID {
	return t.Scopes.New(kind, name, parent, owner, span)
}

// NewSymbol allocates a symbol without making it visible in any scope.
func (t *Table) NewSymbol(sym *Symbol) SymbolID {
	return t.Symbols.New(sym)
}

// Install allocates sym and makes it visible in scope.
func (t *Table) Install(scope ScopeID, sym *Symbol) SymbolID {
	sym.Scope = scope
	id := t.Symbols.New(sym)
	t.Attach(scope, id)
	return id
}

// Attach makes an existing symbol visible in scope under its name.
func (t *Table) Attach(scope ScopeID, id SymbolID) {
	s := t.Scopes.Get(scope)
	sym := t.Symbols.Get(id)
	if s == nil || sym == nil {
		return
	}
	s.Symbols = append(s.Symbols, id)
	s.NameIndex[sym.Name] = append(s.NameIndex[sym.Name], id)
}

// AddBase links a class scope to the scope of its base class.
func (t *Table) AddBase(scope, base ScopeID) {
	s := t.Scopes.Get(scope)
	if s == nil || !base.IsValid() {
		return
	}
	for _, b := range s.Bases {
		if b == base {
			return
		}
	}
	s.Bases = append(s.Bases, base)
}

// Members returns the symbols named name declared directly in scope.
func (t *Table) Members(scope ScopeID, name string) []SymbolID {
	s := t.Scopes.Get(scope)
	if s == nil {
		return nil
	}
	return s.NameIndex[name]
}

// Begin opens scope as the current declaration container.
func (t *Table) Begin(scope ScopeID) {
	t.container = append(t.container, scope)
}

// End closes the innermost container opened by Begin.
func (t *Table) End() {
	if len(t.container) == 0 {
		panic("symbols: End without Begin")
	}
	t.container = t.container[:len(t.container)-1]
}

// Current returns the innermost open container, or the root namespace.
func (t *Table) Current() ScopeID {
	if n := len(t.container); n > 0 {
		return t.container[n-1]
	}
	return t.root
}

// QualifiedName joins the enclosing namespace and class names of id.
func (t *Table) QualifiedName(id SymbolID) string {
	sym := t.Symbols.Get(id)
	if sym == nil {
		return ""
	}
	parts := []string{sym.Name}
	for sc := t.Scopes.Get(sym.Scope); sc != nil; sc = t.Scopes.Get(sc.Parent) {
		if sc.Kind != ScopeNamespace && sc.Kind != ScopeClass {
			continue
		}
		if sc.Name != "" {
			parts = append(parts, sc.Name)
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// EnclosingNamespace walks up from scope to the nearest namespace scope.
func (t *Table) EnclosingNamespace(scope ScopeID) ScopeID {
	for sc := scope; sc.IsValid(); {
		s := t.Scopes.Get(sc)
		if s == nil {
			break
		}
		if s.Kind == ScopeNamespace {
			return sc
		}
		sc = s.Parent
	}
	return t.root
}
