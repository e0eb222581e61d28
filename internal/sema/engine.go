package sema

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/constraint"
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/symbols"
	"github.com/slaakko/cmajor-sub007/internal/trace"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

// InstanceID indexes the engine's instantiation arena. Symbols refer to
// their instantiation by this handle.
type InstanceID uint32

const NoInstanceID InstanceID = 0

type InstantiationState uint8

const (
	StateRequested InstantiationState = iota
	StateDeclarationsBound
	StateFailed
)

func (s InstantiationState) String() string {
	switch s {
	case StateDeclarationsBound:
		return "declarations-bound"
	case StateFailed:
		return "failed"
	}
	return "requested"
}

// InstantiationKey identifies an instantiation by subject and canonical
// argument list.
type InstantiationKey struct {
	Subject symbols.SymbolID
	Args    string
}

// Instantiation is one generic class applied to concrete type arguments.
type Instantiation struct {
	ID      InstanceID
	Key     InstantiationKey
	Name    string
	Subject symbols.SymbolID
	Args    []types.TypeID
	Type    types.TypeID
	Class   symbols.SymbolID
	Scope   symbols.ScopeID
	Item    ast.ItemID
	Span    source.Span
	State   InstantiationState

	Members    []symbols.SymbolID
	Destructor symbols.SymbolID
	Base       *Instantiation
	Imported   bool

	params          map[string]int
	deferred        bool
	constraintErr   error
	bindingVirtuals bool
	virtualsBound   bool
}

// HasDeferredConstraint reports whether the constraint still awaits
// evaluation on first member binding.
func (inst *Instantiation) HasDeferredConstraint() bool { return inst.deferred }

// Request carries the context of an instantiation request.
type Request struct {
	Scope symbols.ScopeID
	Span  source.Span
	// DeferConstraint stores the constraint unevaluated until a member is
	// first bound.
	DeferConstraint bool
}

type Stats struct {
	Instantiations   int
	MembersBound     int
	MembersImported  int
	ConstraintChecks int
}

type subjectConstraint struct {
	tree *constraint.Tree
	span source.Span
	err  error
}

// Engine materializes generic class instantiations on demand. Each request
// for the same subject and arguments yields the same Instantiation, even
// while the first request is still declaring its members.
type Engine struct {
	s           *Session
	insts       []*Instantiation
	byKey       map[InstantiationKey]*Instantiation
	failed      map[InstantiationKey]*Error
	constraints map[symbols.SymbolID]*subjectConstraint
	bound       []symbols.SymbolID
	depth       int
	declDepth   int
	spans       []uint64
	stats       Stats
}

func newEngine(s *Session) *Engine {
	return &Engine{
		s:           s,
		insts:       make([]*Instantiation, 1, 16), // 0 is NoInstanceID
		byKey:       make(map[InstantiationKey]*Instantiation),
		failed:      make(map[InstantiationKey]*Error),
		constraints: make(map[symbols.SymbolID]*subjectConstraint),
	}
}

// Lookup returns the instantiation with the given handle, or nil.
func (e *Engine) Lookup(id InstanceID) *Instantiation {
	if id == NoInstanceID || int(id) >= len(e.insts) {
		return nil
	}
	return e.insts[id]
}

// Find returns an existing instantiation without creating one.
func (e *Engine) Find(subject symbols.SymbolID, args []types.TypeID) (*Instantiation, bool) {
	inst, ok := e.byKey[InstantiationKey{Subject: subject, Args: types.ArgsKey(args)}]
	return inst, ok
}

// Instantiations lists the unit's instantiations in creation order. Failed
// ones are left out.
func (e *Engine) Instantiations() []*Instantiation {
	out := make([]*Instantiation, 0, len(e.insts)-1)
	for _, inst := range e.insts[1:] {
		if inst.State != StateFailed {
			out = append(out, inst)
		}
	}
	return out
}

// BoundMembers lists the functions bound by this unit in binding order.
func (e *Engine) BoundMembers() []symbols.SymbolID {
	return append([]symbols.SymbolID(nil), e.bound...)
}

func (e *Engine) Stats() Stats { return e.stats }

func (e *Engine) recordBound(fn symbols.SymbolID) {
	e.bound = append(e.bound, fn)
	e.stats.MembersBound++
}

func (e *Engine) traceParent() uint64 {
	if n := len(e.spans); n > 0 {
		return e.spans[n-1]
	}
	return e.s.opts.TraceParent
}

func (e *Engine) beginSpan(name string) *trace.Span {
	sp := trace.Begin(e.s.tracer, trace.ScopeInstantiation, name, e.traceParent())
	e.spans = append(e.spans, sp.ID())
	return sp
}

func (e *Engine) endSpan(sp *trace.Span, detail string) {
	e.spans = e.spans[:len(e.spans)-1]
	sp.End(detail)
}

// specialize returns the specialization type of subject for complete args.
func (e *Engine) specialize(subject symbols.SymbolID, args []types.TypeID) types.TypeID {
	return e.s.Types.Specialize(uint32(subject), e.s.Table.QualifiedName(subject), args)
}

func (e *Engine) subjectItem(subject symbols.SymbolID) (*symbols.Symbol, ast.Item) {
	sym := e.s.Table.Symbol(subject)
	if sym == nil || sym.Kind != symbols.SymbolGenericClass {
		invariant("symbol %d is not a generic class", subject)
	}
	it := e.s.AST.Item(sym.Decl)
	if it == nil || !it.IsGeneric() {
		invariant("generic class '%s' has no generic declaration", sym.Name)
	}
	return sym, *it
}

// completeArgs checks the argument count and fills missing trailing
// arguments from defaults, which may refer to earlier parameters.
func (e *Engine) completeArgs(subject symbols.SymbolID, args []types.TypeID, sp source.Span) ([]types.TypeID, error) {
	sym, item := e.subjectItem(subject)
	name := e.s.Table.QualifiedName(subject)
	tps := item.TypeParams
	if len(args) > len(tps) {
		return nil, errorf(diag.SemaTooManyTemplateArgs, sp,
			"too many template arguments for '%s': expected at most %d, got %d", name, len(tps), len(args)).
			WithNote(sym.Span, "declared here")
	}
	if len(args) == len(tps) {
		return args, nil
	}
	full := append(make([]types.TypeID, 0, len(tps)), args...)
	env := typeEnv{scope: sym.Scope, params: make(map[string]types.TypeID, len(tps))}
	for i, a := range args {
		env.params[tps[i].Name] = a
	}
	for _, tp := range tps[len(args):] {
		if !tp.Default.IsValid() {
			return nil, errorf(diag.SemaTooFewTemplateArgs, sp,
				"too few template arguments for '%s': type parameter '%s' has no default", name, tp.Name).
				WithNote(tp.Span, "type parameter declared here")
		}
		t, err := e.s.resolveType(tp.Default, env)
		if err != nil {
			return nil, err
		}
		env.params[tp.Name] = t
		full = append(full, t)
	}
	return full, nil
}

// ensureClass instantiates cls when it is a specialization that has not
// been instantiated yet. Ordinary classes yield nil.
func (e *Engine) ensureClass(cls types.TypeID, req Request) (*Instantiation, error) {
	info, ok := e.s.Types.ClassInfo(cls)
	if !ok || !info.IsSpecialization() {
		return nil, nil
	}
	if info.Instance != 0 {
		if inst := e.Lookup(InstanceID(info.Instance)); inst != nil && inst.State != StateFailed {
			return inst, nil
		}
	}
	return e.EnsureInstantiated(symbols.SymbolID(info.Subject), append([]types.TypeID(nil), info.Args...), req)
}

// EnsureInstantiated returns the instantiation of subject for args, creating
// it on first request. The constraint is evaluated before creation unless
// it is deferred.
func (e *Engine) EnsureInstantiated(subject symbols.SymbolID, args []types.TypeID, req Request) (*Instantiation, error) {
	s := e.s
	if sym := s.Table.Symbol(subject); sym == nil || sym.Kind != symbols.SymbolGenericClass {
		return nil, errorf(diag.SemaNotGenericClass, req.Span, "'%s' is not a generic class", s.Table.QualifiedName(subject))
	}
	full, err := e.completeArgs(subject, args, req.Span)
	if err != nil {
		return nil, err
	}
	key := InstantiationKey{Subject: subject, Args: types.ArgsKey(full)}
	if inst, ok := e.byKey[key]; ok {
		return inst, nil
	}
	if ferr, ok := e.failed[key]; ok {
		cp := *ferr
		cp.Span = req.Span
		cp.Notes = append([]diag.Note(nil), ferr.Notes...)
		return nil, &cp
	}
	typ := e.specialize(subject, full)
	name := s.Types.Name(typ)
	if e.depth >= s.opts.MaxDepth {
		return nil, errorf(diag.SemaInstantiationTooDeep, req.Span,
			"instantiating '%s' exceeds the maximum nesting depth of %d", name, s.opts.MaxDepth)
	}
	deferred := req.DeferConstraint || e.declDepth > 0
	if !deferred {
		if err := e.checkConstraint(subject, full, name, req.Span); err != nil {
			if se, ok := err.(*Error); ok {
				e.failed[key] = se
			}
			return nil, err
		}
	}

	e.depth++
	defer func() { e.depth-- }()
	span := e.beginSpan("instantiate:" + name)
	inst, err := e.create(subject, full, key, typ, name, req, deferred)
	if err != nil {
		e.endSpan(span, err.Error())
		return nil, err
	}
	e.endSpan(span, inst.State.String())
	return inst, nil
}

func (e *Engine) create(subject symbols.SymbolID, args []types.TypeID, key InstantiationKey, typ types.TypeID, name string, req Request, deferred bool) (*Instantiation, error) {
	s := e.s
	subj, item := e.subjectItem(subject)
	sym := *subj
	value, err := safecast.Conv[uint32](len(e.insts))
	if err != nil {
		panic(fmt.Errorf("instantiations arena overflow: %w", err))
	}
	id := InstanceID(value)

	cls := s.Table.NewSymbol(&symbols.Symbol{
		Name:     sym.Name,
		Kind:     symbols.SymbolClass,
		Span:     sym.Span,
		Scope:    sym.Scope,
		Type:     typ,
		Origin:   sym.Decl,
		Instance: uint32(id),
	})
	scope := s.Table.NewScope(symbols.ScopeClass, sym.Name, sym.Scope, cls, sym.Span)
	s.Table.Symbol(cls).Owns = scope
	s.Types.SetClassSymbol(typ, uint32(cls))
	s.Types.SetInstance(typ, uint32(id))

	params := make(map[string]int, len(item.TypeParams))
	for i, tp := range item.TypeParams {
		params[tp.Name] = i
		s.Table.Install(scope, &symbols.Symbol{Name: tp.Name, Kind: symbols.SymbolTypeParam, Span: tp.Span, Type: args[i]})
	}
	// The subject name inside the instantiation denotes the instantiation.
	s.Table.Install(scope, &symbols.Symbol{Name: sym.Name, Kind: symbols.SymbolTypeParam, Span: sym.Span, Type: typ})

	clone := s.AST.Clone(sym.Decl, ast.CloneContext{Instance: true, Params: params, SkipBodies: true})
	s.Table.Symbol(cls).Decl = clone

	inst := &Instantiation{
		ID:      id,
		Key:     key,
		Name:    name,
		Subject: subject,
		Args:    append([]types.TypeID(nil), args...),
		Type:    typ,
		Class:   cls,
		Scope:   scope,
		Item:    clone,
		Span:    req.Span,
		State:   StateRequested,
		params:  params,
	}
	if deferred && item.Constraint.IsValid() {
		inst.deferred = true
	}
	e.insts = append(e.insts, inst)
	e.byKey[key] = inst
	e.stats.Instantiations++

	e.declDepth++
	err = s.binder.declareInstance(inst)
	e.declDepth--
	if err != nil {
		// The arena slot stays so later handles remain valid.
		delete(e.byKey, key)
		inst.State = StateFailed
		s.Types.SetInstance(typ, 0)
		if se, ok := err.(*Error); ok {
			e.failed[key] = se
		}
		return nil, err
	}
	inst.State = StateDeclarationsBound
	return inst, nil
}

// constraintOf builds the constraint tree of subject once.
func (e *Engine) constraintOf(subject symbols.SymbolID) *subjectConstraint {
	if sc, ok := e.constraints[subject]; ok {
		return sc
	}
	sym, item := e.subjectItem(subject)
	sc := &subjectConstraint{}
	if c := e.s.AST.Constraint(item.Constraint); c != nil {
		sc.span = c.Span
		params := make(map[string]bool, len(item.TypeParams))
		for _, tp := range item.TypeParams {
			params[tp.Name] = true
		}
		sc.tree, sc.err = e.s.buildConstraint(item.Constraint, sym.Scope, params)
	}
	e.constraints[subject] = sc
	return sc
}

func (e *Engine) checkConstraint(subject symbols.SymbolID, args []types.TypeID, name string, sp source.Span) error {
	sc := e.constraintOf(subject)
	if sc.err != nil {
		return sc.err
	}
	if sc.tree == nil {
		return nil
	}
	_, item := e.subjectItem(subject)
	bindings := make(map[string]types.TypeID, len(args))
	for i, tp := range item.TypeParams {
		bindings[tp.Name] = args[i]
	}
	e.stats.ConstraintChecks++
	res := e.s.checker.Check(sc.tree, bindings)
	if res.Satisfied {
		return nil
	}
	err := errorf(diag.SemaConstraintNotSatisfied, sp, "cannot instantiate '%s': constraint not satisfied", name)
	for _, x := range res.Explanation.Flatten() {
		err.WithNote(x.Span, x.Text)
	}
	err.WithNote(sc.span, "constraint declared here")
	return err
}
