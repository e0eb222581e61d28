package conv

import (
	"github.com/slaakko/cmajor-sub007/internal/symbols"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

type pair struct {
	src, tgt types.TypeID
}

type entry struct {
	conv Conversion
	ok   bool
}

// Table maps (source, target) pairs to conversions. Built-in rules are
// computed on first request and memoized, misses included. Registered
// function conversions take precedence over built-in rules.
type Table struct {
	types *types.Interner
	cache map[pair]entry
	funcs map[pair][]Conversion
}

func NewTable(in *types.Interner) *Table {
	return &Table{
		types: in,
		cache: make(map[pair]entry, 64),
		funcs: make(map[pair][]Conversion),
	}
}

// AddFunction registers a converting constructor or conversion function fn
// converting plain src into plain tgt.
func (t *Table) AddFunction(fn symbols.SymbolID, src, tgt types.TypeID, explicit bool) {
	src, tgt = t.types.PlainType(src), t.types.PlainType(tgt)
	key := pair{src, tgt}
	for _, c := range t.funcs[key] {
		if c.Func == fn {
			return
		}
	}
	t.funcs[key] = append(t.funcs[key], Conversion{
		Kind:     KindFunction,
		Rank:     RankConversion,
		Explicit: explicit,
		Func:     fn,
		Source:   src,
		Target:   tgt,
	})
	delete(t.cache, key)
}

// Lookup returns the conversion from src to tgt. Both are reduced to their
// plain types first.
func (t *Table) Lookup(src, tgt types.TypeID) (Conversion, bool) {
	src, tgt = t.types.PlainType(src), t.types.PlainType(tgt)
	key := pair{src, tgt}
	if e, ok := t.cache[key]; ok {
		return e.conv, e.ok
	}
	var e entry
	if fns := t.funcs[key]; len(fns) > 0 {
		e = entry{conv: preferImplicit(fns), ok: true}
	} else {
		e.conv, e.ok = t.builtin(src, tgt)
	}
	t.cache[key] = e
	return e.conv, e.ok
}

// LookupAll returns every registered function conversion for the pair. More
// than one entry means the conversion is ambiguous.
func (t *Table) LookupAll(src, tgt types.TypeID) []Conversion {
	return t.funcs[pair{t.types.PlainType(src), t.types.PlainType(tgt)}]
}

// Len reports the number of memoized pairs.
func (t *Table) Len() int { return len(t.cache) }

func preferImplicit(fns []Conversion) Conversion {
	for _, c := range fns {
		if !c.Explicit {
			return c
		}
	}
	return fns[0]
}

// ClassConversion matches pointers and references between classes related
// by inheritance. Base-to-derived is only available in explicit mode.
func (t *Table) ClassConversion(src, tgt types.TypeID, explicit bool) (Conversion, bool) {
	in := t.types
	srcRoot, sd := in.Split(src)
	tgtRoot, td := in.Split(tgt)
	srcCls, ok1 := in.ClassInfo(srcRoot)
	tgtCls, ok2 := in.ClassInfo(tgtRoot)
	if !ok1 || !ok2 || srcCls == tgtCls {
		return Conversion{}, false
	}
	switch {
	case td.Pointers > 0:
		if sd.Pointers != td.Pointers || td.Pointers != 1 {
			return Conversion{}, false
		}
	case td.Ref != types.RefNone:
		if sd.Pointers != 0 {
			return Conversion{}, false
		}
	default:
		return Conversion{}, false
	}
	// Const may be added, never dropped.
	if sd.Const && !td.Const {
		return Conversion{}, false
	}
	if d, ok := in.ClassDistance(srcRoot, tgtRoot); ok {
		return Conversion{Kind: KindDerivedToBase, Rank: RankConversion, Distance: d, Source: src, Target: tgt}, true
	}
	if explicit {
		if d, ok := in.ClassDistance(tgtRoot, srcRoot); ok {
			return Conversion{Kind: KindBaseToDerived, Rank: RankConversion, Distance: d, Explicit: true, Source: src, Target: tgt}, true
		}
	}
	return Conversion{}, false
}
