package sema

import (
	"fmt"
	"strings"

	"github.com/slaakko/cmajor-sub007/internal/conv"
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/symbols"
	"github.com/slaakko/cmajor-sub007/internal/trace"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

type ValueCategory uint8

const (
	Rvalue ValueCategory = iota
	Lvalue
)

func (c ValueCategory) String() string {
	if c == Lvalue {
		return "lvalue"
	}
	return "rvalue"
}

// Argument is one call argument. Type never carries a reference; the
// category says whether the argument names an object.
type Argument struct {
	Type           types.TypeID
	Category       ValueCategory
	BindsRvalueRef bool
	Span           source.Span
}

// LvalueArg is an argument naming an object of type t.
func LvalueArg(t types.TypeID) Argument {
	return Argument{Type: t, Category: Lvalue}
}

// RvalueArg is a temporary of type t.
func RvalueArg(t types.TypeID) Argument {
	return Argument{Type: t, Category: Rvalue, BindsRvalueRef: true}
}

type ConversionMode uint8

const (
	ConversionImplicit ConversionMode = iota
	ConversionExplicit
)

func (m ConversionMode) String() string {
	if m == ConversionExplicit {
		return "explicit"
	}
	return "implicit"
}

// LookupScope is one scope candidates are collected from.
type LookupScope struct {
	Scope symbols.ScopeID
	Mode  symbols.LookupMode
}

// ArgConversion is the conversion applied to one argument together with
// the derivation profile used as a ranking tie-break.
type ArgConversion struct {
	conv.Conversion
	ArgDerivations   int
	ParamDerivations int
}

// Match is the result of a successful resolution.
type Match struct {
	Func        symbols.SymbolID
	Conversions []ArgConversion
	// Candidates is the number of functions considered.
	Candidates int
}

// Resolver selects the function a call-like construct invokes.
type Resolver struct {
	s *Session
}

type candidate struct {
	fn     symbols.SymbolID
	convs  []ArgConversion
	reason string
}

// Resolve selects the best function of group for args. Candidates come from
// scopes, from the class of the first argument, from the namespaces of
// class arguments for operator groups, and from synthesized operations.
func (r *Resolver) Resolve(group string, args []Argument, scopes []LookupScope, mode ConversionMode) (Match, error) {
	var sp source.Span
	if len(args) > 0 {
		sp = args[0].Span
	}
	return r.resolve(sp, group, args, scopes, mode, true)
}

// ResolveAt is Resolve with an explicit location for diagnostics.
func (r *Resolver) ResolveAt(sp source.Span, group string, args []Argument, scopes []LookupScope, mode ConversionMode) (Match, error) {
	return r.resolve(sp, group, args, scopes, mode, true)
}

// TryResolve resolves without binding the selected function. Constraint
// probing uses it to ask whether an operation exists.
func (r *Resolver) TryResolve(group string, args []Argument, scopes []LookupScope, mode ConversionMode) (Match, error) {
	var sp source.Span
	if len(args) > 0 {
		sp = args[0].Span
	}
	return r.resolve(sp, group, args, scopes, mode, false)
}

func (r *Resolver) resolve(sp source.Span, group string, args []Argument, scopes []LookupScope, mode ConversionMode, bind bool) (m Match, err error) {
	s := r.s
	span := trace.Begin(s.tracer, trace.ScopeResolve, "resolve:"+group, s.engine.traceParent())
	defer func() {
		if err != nil {
			span.End(err.Error())
			return
		}
		span.End(s.Signature(m.Func))
	}()

	if err := r.instantiateArgClasses(sp, args, scopes); err != nil {
		return Match{}, err
	}
	fns := r.collect(group, args, scopes)
	var viable, rejected []candidate
	for _, fn := range fns {
		c := r.match(fn, args, mode)
		if c.reason != "" {
			rejected = append(rejected, c)
			continue
		}
		viable = append(viable, c)
	}
	if len(viable) == 0 {
		return Match{Candidates: len(fns)}, r.noViable(sp, group, args, rejected)
	}
	best := viable[0]
	for _, c := range viable[1:] {
		if r.betterFunctionMatch(c, best, mode) {
			best = c
		}
	}
	var tied []candidate
	for _, c := range viable {
		if c.fn != best.fn && !r.betterFunctionMatch(best, c, mode) {
			tied = append(tied, c)
		}
	}
	if len(tied) > 0 {
		return Match{Candidates: len(fns)}, r.ambiguous(sp, group, args, append([]candidate{best}, tied...))
	}

	m = Match{Func: best.fn, Conversions: best.convs, Candidates: len(fns)}
	win := s.Table.Symbol(best.fn)
	if win.Flags.Has(symbols.FlagSuppressed) {
		return m, errorf(diag.SemaSuppressedFunction, sp, "cannot call suppressed function '%s'", s.Signature(best.fn)).
			WithNote(win.Span, "declared here")
	}
	if mode == ConversionImplicit {
		params := win.Signature.Params
		for i, c := range best.convs {
			if !c.Explicit {
				continue
			}
			at := args[i].Span
			if at.Empty() {
				at = sp
			}
			return m, errorf(diag.SemaExplicitCastRequired, at,
				"cannot convert implicitly from '%s' to '%s'; explicit cast required",
				s.Types.Name(args[i].Type), s.Types.Name(params[i]))
		}
	}
	if !bind {
		return m, nil
	}
	if err := s.ensureBound(best.fn); err != nil {
		return m, err
	}
	for _, c := range best.convs {
		if c.Func.IsValid() {
			if err := s.ensureBound(c.Func); err != nil {
				return m, err
			}
		}
	}
	return m, nil
}

// instantiateArgClasses instantiates every generic specialization an
// argument's class type refers to so its members are visible.
func (r *Resolver) instantiateArgClasses(sp source.Span, args []Argument, scopes []LookupScope) error {
	scope := r.s.Table.Root()
	if len(scopes) > 0 {
		scope = scopes[0].Scope
	}
	for _, a := range args {
		cls, ok := r.s.Types.ClassOf(a.Type)
		if !ok {
			continue
		}
		if _, err := r.s.engine.ensureClass(cls, Request{Scope: scope, Span: sp}); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) collect(group string, args []Argument, scopes []LookupScope) []symbols.SymbolID {
	s := r.s
	var out []symbols.SymbolID
	seen := make(map[symbols.SymbolID]struct{})
	add := func(ids []symbols.SymbolID) {
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if s.Table.Symbol(id).IsFunction() {
				out = append(out, id)
			}
		}
	}
	for _, sc := range scopes {
		add(s.Table.Lookup(sc.Scope, group, sc.Mode))
	}
	if len(args) > 0 {
		if cls := r.classSymbol(args[0].Type); cls.IsValid() {
			s.ensureClassDefaults(cls)
			mode := symbols.LookupThisAndBases
			if group == symbols.GroupConstructor || group == symbols.GroupDestructor {
				mode = symbols.LookupThis
			}
			add(s.Table.Lookup(s.Table.Symbol(cls).Owns, group, mode))
		}
	}
	if strings.HasPrefix(group, "operator") {
		for _, a := range args {
			if ns := r.associatedNamespace(a.Type); ns.IsValid() {
				add(s.Table.Lookup(ns, group, symbols.LookupThis))
			}
		}
	}
	add(s.builtinCandidates(group, args))
	return out
}

// classSymbol returns the class symbol behind t with all derivations
// stripped, or NoSymbolID.
func (r *Resolver) classSymbol(t types.TypeID) symbols.SymbolID {
	cls, ok := r.s.Types.ClassOf(t)
	if !ok {
		return symbols.NoSymbolID
	}
	info, _ := r.s.Types.ClassInfo(cls)
	id := symbols.SymbolID(info.Symbol)
	if sym := r.s.Table.Symbol(id); sym == nil || sym.Kind != symbols.SymbolClass {
		return symbols.NoSymbolID
	}
	return id
}

func (r *Resolver) associatedNamespace(t types.TypeID) symbols.ScopeID {
	s := r.s
	root := s.Types.BaseType(t)
	var owner symbols.SymbolID
	if info, ok := s.Types.ClassInfo(root); ok {
		owner = symbols.SymbolID(info.Symbol)
	} else if info, ok := s.Types.EnumInfo(root); ok {
		owner = symbols.SymbolID(info.Symbol)
	}
	sym := s.Table.Symbol(owner)
	if sym == nil {
		return symbols.NoScopeID
	}
	return s.Table.EnclosingNamespace(sym.Scope)
}

func (r *Resolver) match(fn symbols.SymbolID, args []Argument, mode ConversionMode) candidate {
	s := r.s
	sym := s.Table.Symbol(fn)
	flags := sym.Flags
	sig := sym.Signature
	c := candidate{fn: fn}
	if sig.Arity() != len(args) {
		c.reason = fmt.Sprintf("expects %d argument(s), got %d", sig.Arity(), len(args))
		return c
	}
	c.convs = make([]ArgConversion, len(args))
	for i, a := range args {
		if i == 0 && flags.Has(symbols.FlagMember) && !flags.Has(symbols.FlagStatic) {
			a = r.thisArgument(a)
		}
		ac, ok := r.matchArgument(a, sig.Params[i], mode)
		if !ok {
			c.reason = fmt.Sprintf("cannot convert argument %d from '%s' to '%s'",
				i+1, s.Types.Name(a.Type), s.Types.Name(sig.Params[i]))
			return c
		}
		c.convs[i] = ac
	}
	return c
}

// thisArgument adapts a class-typed receiver to the implicit this pointer
// of a member function.
func (r *Resolver) thisArgument(a Argument) Argument {
	in := r.s.Types
	if in.IsPointer(a.Type) {
		return a
	}
	if _, ok := in.ClassOf(a.Type); !ok {
		return a
	}
	return Argument{Type: in.AddPointer(a.Type), Category: Rvalue, BindsRvalueRef: true, Span: a.Span}
}

func (r *Resolver) matchArgument(a Argument, param types.TypeID, mode ConversionMode) (ArgConversion, bool) {
	s := r.s
	in := s.Types
	pd := in.Derivations(param)
	out := ArgConversion{ArgDerivations: in.DerivationCount(a.Type), ParamDerivations: pd.Count()}
	switch pd.Ref {
	case types.RefLvalue:
		if !pd.Const && (a.Category != Lvalue || in.IsConst(a.Type)) {
			return out, false
		}
	case types.RefRvalue:
		if !a.BindsRvalueRef {
			return out, false
		}
	}
	if a.Type == param || in.PlainType(a.Type) == in.PlainType(param) {
		out.Conversion = conv.Identity(a.Type, param)
		return out, true
	}
	if c, ok := s.Conv.ClassConversion(a.Type, param, mode == ConversionExplicit); ok {
		out.Conversion = c
		return out, true
	}
	if pd.Ref == types.RefLvalue && !pd.Const {
		return out, false
	}
	c, ok := s.Conv.Lookup(a.Type, param)
	if !ok {
		return out, false
	}
	out.Conversion = c
	return out, true
}

// betterArgumentMatch compares two conversions of the same argument:
// 1 when a is better, -1 when b is better, 0 when neither is.
func betterArgumentMatch(a, b ArgConversion, mode ConversionMode) int {
	if a.Rank != b.Rank {
		if a.Rank < b.Rank {
			return 1
		}
		return -1
	}
	if mode == ConversionImplicit && a.Explicit != b.Explicit {
		if !a.Explicit {
			return 1
		}
		return -1
	}
	if a.Distance != b.Distance {
		if a.Distance < b.Distance {
			return 1
		}
		return -1
	}
	if a.ParamDerivations != b.ParamDerivations {
		if a.ParamDerivations < b.ParamDerivations {
			return 1
		}
		return -1
	}
	return 0
}

func (r *Resolver) betterFunctionMatch(a, b candidate, mode ConversionMode) bool {
	if mode == ConversionImplicit {
		ae, be := needsExplicit(a), needsExplicit(b)
		if ae != be {
			return !ae
		}
	}
	aBetter, bBetter := 0, 0
	for i := range a.convs {
		switch betterArgumentMatch(a.convs[i], b.convs[i], mode) {
		case 1:
			aBetter++
		case -1:
			bBetter++
		}
	}
	if aBetter != bBetter {
		return aBetter > bBetter
	}
	ac, bc := conversionCount(a), conversionCount(b)
	if ac != bc {
		return ac < bc
	}
	aSyn := r.s.Table.Symbol(a.fn).Flags.Has(symbols.FlagSynthesized)
	bSyn := r.s.Table.Symbol(b.fn).Flags.Has(symbols.FlagSynthesized)
	return !aSyn && bSyn
}

func needsExplicit(c candidate) bool {
	for _, ac := range c.convs {
		if ac.Explicit {
			return true
		}
	}
	return false
}

func conversionCount(c candidate) int {
	n := 0
	for _, ac := range c.convs {
		if !ac.IsIdentity() {
			n++
		}
	}
	return n
}

func (r *Resolver) callText(group string, args []Argument) string {
	ts := make([]types.TypeID, len(args))
	for i, a := range args {
		ts[i] = a.Type
	}
	return group + r.s.Types.Names(ts)
}

func (r *Resolver) noViable(sp source.Span, group string, args []Argument, rejected []candidate) error {
	s := r.s
	if len(rejected) == 0 {
		return errorf(diag.SemaNoViableFunction, sp, "no function '%s' found for call '%s'", group, r.callText(group, args))
	}
	err := errorf(diag.SemaNoViableFunction, sp, "no viable function for call '%s'; %d candidate(s) considered",
		r.callText(group, args), len(rejected))
	for _, c := range rejected {
		err.WithNote(s.Table.Symbol(c.fn).Span, fmt.Sprintf("candidate '%s': %s", s.Signature(c.fn), c.reason))
	}
	return err
}

func (r *Resolver) ambiguous(sp source.Span, group string, args []Argument, tied []candidate) error {
	s := r.s
	err := errorf(diag.SemaAmbiguousCall, sp, "ambiguous call '%s'", r.callText(group, args))
	for _, c := range tied {
		err.WithNote(s.Table.Symbol(c.fn).Span, "candidate '"+s.Signature(c.fn)+"'")
	}
	return err
}

// ensureBound binds fn on first use when it belongs to an instantiation or
// was synthesized member-wise.
func (s *Session) ensureBound(fn symbols.SymbolID) error {
	sym := s.Table.Symbol(fn)
	if sym == nil || sym.State != symbols.BindUnbound {
		return nil
	}
	if sym.Instance != 0 {
		inst := s.engine.Lookup(InstanceID(sym.Instance))
		if inst == nil {
			invariant("function '%s' refers to unknown instantiation %d", s.Signature(fn), sym.Instance)
		}
		return s.engine.EnsureMemberBound(inst, fn)
	}
	return s.binder.bindMemberwise(fn)
}
