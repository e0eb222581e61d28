package conv

import (
	"github.com/slaakko/cmajor-sub007/internal/types"
)

// widening lists the implicit numeric conversions. Everything else between
// basic types converts only explicitly.
var widening = map[types.Kind][]types.Kind{
	types.KindSByte:  {types.KindShort, types.KindInt, types.KindLong, types.KindFloat, types.KindDouble},
	types.KindByte:   {types.KindShort, types.KindUShort, types.KindInt, types.KindUInt, types.KindLong, types.KindULong, types.KindFloat, types.KindDouble},
	types.KindShort:  {types.KindInt, types.KindLong, types.KindFloat, types.KindDouble},
	types.KindUShort: {types.KindInt, types.KindUInt, types.KindLong, types.KindULong, types.KindFloat, types.KindDouble},
	types.KindInt:    {types.KindLong, types.KindDouble},
	types.KindUInt:   {types.KindLong, types.KindULong, types.KindDouble},
	types.KindLong:   {},
	types.KindULong:  {},
	types.KindFloat:  {types.KindDouble},
}

func isWidening(from, to types.Kind) bool {
	for _, k := range widening[from] {
		if k == to {
			return true
		}
	}
	return false
}

func (t *Table) builtin(src, tgt types.TypeID) (Conversion, bool) {
	if src == tgt {
		return Identity(src, tgt), true
	}
	in := t.types
	srcRoot, sd := in.Split(src)
	tgtRoot, td := in.Split(tgt)
	st := in.MustLookup(srcRoot)
	tt := in.MustLookup(tgtRoot)
	mk := func(kind Kind, explicit bool) (Conversion, bool) {
		return Conversion{Kind: kind, Rank: RankConversion, Explicit: explicit, Source: src, Target: tgt}, true
	}

	switch {
	case sd.Pointers == 0 && td.Pointers == 0:
		switch {
		case st.Kind.IsBasic() && tt.Kind.IsBasic():
			return mk(KindNumeric, !isWidening(st.Kind, tt.Kind))
		case st.Kind == types.KindEnum && tt.Kind.IsBasic():
			info, _ := in.EnumInfo(srcRoot)
			if info != nil && info.Underlying == tgtRoot {
				return mk(KindEnum, true)
			}
			if tt.Kind.IsIntegral() {
				return mk(KindEnum, true)
			}
		case st.Kind.IsIntegral() && tt.Kind == types.KindEnum:
			return mk(KindEnum, true)
		}
	case st.Kind == types.KindNullPtr && sd.Pointers == 0 && td.Pointers > 0:
		return mk(KindNullPtr, false)
	case sd.Pointers > 0 && td.Pointers == 1 && tt.Kind == types.KindVoid:
		// T* -> void*, keeping const.
		if sd.Const && !td.Const {
			return Conversion{}, false
		}
		return mk(KindPointer, false)
	case sd.Pointers == 1 && td.Pointers == 1 && st.Kind == types.KindVoid:
		return mk(KindPointer, true)
	case sd.Pointers == td.Pointers && srcRoot == tgtRoot && !sd.Const && td.Const:
		// T* -> const T*
		return Conversion{Kind: KindPointer, Rank: RankConversion, Source: src, Target: tgt}, true
	}
	return Conversion{}, false
}
