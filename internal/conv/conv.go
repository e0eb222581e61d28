// Package conv implements the conversion table: which operation turns a
// value of one type into another, how good that conversion is, and whether
// it may be applied implicitly.
package conv

import (
	"fmt"

	"github.com/slaakko/cmajor-sub007/internal/symbols"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

type Kind uint8

const (
	KindIdentity Kind = iota
	KindNumeric
	KindPointer // T* -> void*
	KindNullPtr // nullptr -> T*
	KindEnum    // enum -> underlying
	KindFunction
	KindDerivedToBase
	KindBaseToDerived
)

func (k Kind) String() string {
	switch k {
	case KindIdentity:
		return "identity"
	case KindNumeric:
		return "numeric"
	case KindPointer:
		return "pointer"
	case KindNullPtr:
		return "nullptr"
	case KindEnum:
		return "enum"
	case KindFunction:
		return "function"
	case KindDerivedToBase:
		return "derived-to-base"
	case KindBaseToDerived:
		return "base-to-derived"
	}
	return "unknown"
}

// Rank orders conversions; smaller is better.
type Rank uint8

const (
	RankExact Rank = iota
	RankConversion
)

func (r Rank) String() string {
	if r == RankExact {
		return "exact"
	}
	return "conversion"
}

// Conversion describes one argument adjustment.
type Conversion struct {
	Kind     Kind
	Rank     Rank
	Distance int
	Explicit bool
	Func     symbols.SymbolID
	Source   types.TypeID
	Target   types.TypeID
}

// Identity is the exact-match conversion of t onto itself.
func Identity(src, tgt types.TypeID) Conversion {
	return Conversion{Kind: KindIdentity, Rank: RankExact, Source: src, Target: tgt}
}

func (c Conversion) IsIdentity() bool { return c.Kind == KindIdentity }

func (c Conversion) String() string {
	s := fmt.Sprintf("%s %d->%d", c.Kind, c.Source, c.Target)
	if c.Explicit {
		s += " explicit"
	}
	if c.Distance > 0 {
		s += fmt.Sprintf(" distance=%d", c.Distance)
	}
	return s
}

// Better reports whether a is a strictly better conversion than b: better
// rank first, then smaller distance.
func Better(a, b Conversion) bool {
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.Distance < b.Distance
}
