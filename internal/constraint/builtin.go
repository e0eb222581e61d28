package constraint

import (
	"fmt"

	"github.com/slaakko/cmajor-sub007/internal/types"
)

func registerBuiltins(c *Checker) {
	in := c.types
	constRef := func(t types.TypeID) types.TypeID {
		return in.MakeDerived(t, types.Derivations{Const: true, Ref: types.RefLvalue})
	}
	op := func(group string, build func(t types.TypeID) []types.TypeID) PredicateFunc {
		return func(c *Checker, args []types.TypeID) (bool, string) {
			if c.prober == nil {
				return false, "no prober"
			}
			return c.prober.HasOperation(group, build(args[0]))
		}
	}
	c.Register("Comparable", 1, op(groupLess, func(t types.TypeID) []types.TypeID {
		return []types.TypeID{constRef(t), constRef(t)}
	}))
	c.Register("EqualityComparable", 1, op(groupEqual, func(t types.TypeID) []types.TypeID {
		return []types.TypeID{constRef(t), constRef(t)}
	}))
	c.Register("DefaultConstructible", 1, op(groupCtor, func(t types.TypeID) []types.TypeID {
		return []types.TypeID{in.AddPointer(t)}
	}))
	c.Register("CopyConstructible", 1, op(groupCtor, func(t types.TypeID) []types.TypeID {
		return []types.TypeID{in.AddPointer(t), constRef(t)}
	}))
	c.Register("MoveConstructible", 1, op(groupCtor, func(t types.TypeID) []types.TypeID {
		return []types.TypeID{in.AddPointer(t), in.AddRvalueRef(t)}
	}))
	c.Register("Assignable", 1, op(groupAssign, func(t types.TypeID) []types.TypeID {
		return []types.TypeID{in.AddPointer(t), constRef(t)}
	}))

	c.Register("Derived", 2, func(c *Checker, args []types.TypeID) (bool, string) {
		if c.prober != nil && c.prober.IsDerived(args[0], args[1]) {
			return true, ""
		}
		return false, fmt.Sprintf("'%s' does not derive from '%s'", in.Name(args[0]), in.Name(args[1]))
	})
	c.Register("Same", 2, func(c *Checker, args []types.TypeID) (bool, string) {
		if args[0] == args[1] {
			return true, ""
		}
		return false, fmt.Sprintf("'%s' and '%s' differ", in.Name(args[0]), in.Name(args[1]))
	})
	c.Register("Convertible", 2, func(c *Checker, args []types.TypeID) (bool, string) {
		if c.prober != nil && c.prober.Convertible(args[0], args[1]) {
			return true, ""
		}
		return false, fmt.Sprintf("no implicit conversion from '%s' to '%s'", in.Name(args[0]), in.Name(args[1]))
	})
	kindPred := func(what string, test func(t types.TypeID) bool) PredicateFunc {
		return func(c *Checker, args []types.TypeID) (bool, string) {
			if test(args[0]) {
				return true, ""
			}
			return false, fmt.Sprintf("'%s' is not %s", in.Name(args[0]), what)
		}
	}
	c.Register("Pointer", 1, kindPred("a pointer type", in.IsPointer))
	c.Register("Class", 1, kindPred("a class type", func(t types.TypeID) bool {
		_, ok := in.ClassInfo(in.PlainType(t))
		return ok
	}))
	c.Register("Integral", 1, kindPred("an integral type", func(t types.TypeID) bool {
		return in.KindOf(in.PlainType(t)).IsIntegral()
	}))
	c.Register("Numeric", 1, kindPred("a numeric type", func(t types.TypeID) bool {
		return in.KindOf(in.PlainType(t)).IsNumeric()
	}))
}
