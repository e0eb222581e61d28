package sema

import (
	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/symbols"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

var fnFlagMap = []struct {
	fn  ast.FnFlags
	sym symbols.SymbolFlags
}{
	{ast.FnStatic, symbols.FlagStatic},
	{ast.FnVirtual, symbols.FlagVirtual},
	{ast.FnOverride, symbols.FlagOverride},
	{ast.FnAbstract, symbols.FlagAbstract},
	{ast.FnConst, symbols.FlagConst},
	{ast.FnExplicit, symbols.FlagExplicit},
	{ast.FnDefault, symbols.FlagDefault},
	{ast.FnSuppressed, symbols.FlagSuppressed},
	{ast.FnNothrow, symbols.FlagNothrow},
}

// DeclareFile runs the declaration pass over every item of file.
func (b *Binder) DeclareFile(file ast.FileID) {
	f := b.s.AST.File(file)
	if f == nil {
		invariant("unknown file %d", file)
	}
	b.DeclareItems(append([]ast.ItemID(nil), f.Items...))
}

// DeclareItem declares one top-level item and everything it contains.
func (b *Binder) DeclareItem(item ast.ItemID) {
	b.DeclareItems([]ast.ItemID{item})
}

// DeclareItems registers types first so classes may refer to each other in
// any order, then completes classes base-first, then free functions.
func (b *Binder) DeclareItems(items []ast.ItemID) {
	root := b.s.Table.Root()
	for _, it := range items {
		b.declareTypes(it, root)
	}
	for len(b.pending) > 0 {
		id := b.pending[0]
		b.pending = b.pending[1:]
		if err := b.completeClass(id, typeEnv{scope: b.s.Table.Symbol(id).Owns}, nil); err != nil {
			b.s.Report(err)
		}
	}
	for _, it := range items {
		b.declareFunctions(it, root)
	}
}

func (b *Binder) declareTypes(item ast.ItemID, scope symbols.ScopeID) {
	s := b.s
	it := *s.AST.Item(item)
	switch it.Kind {
	case ast.ItemNamespace:
		ns := b.namespaceScope(scope, it, true)
		for _, c := range it.Children {
			b.declareTypes(c, ns)
		}
	case ast.ItemClass:
		if b.duplicateType(scope, it) {
			return
		}
		if it.IsGeneric() {
			s.Table.Install(scope, &symbols.Symbol{Name: it.Name, Kind: symbols.SymbolGenericClass, Span: it.Span, Decl: item})
			return
		}
		id := s.Table.Install(scope, &symbols.Symbol{Name: it.Name, Kind: symbols.SymbolClass, Span: it.Span, Decl: item})
		typ := s.Types.RegisterClass(s.Table.QualifiedName(id), uint32(id))
		cs := s.Table.NewScope(symbols.ScopeClass, it.Name, scope, id, it.Span)
		sym := s.Table.Symbol(id)
		sym.Type = typ
		sym.Owns = cs
		b.pending = append(b.pending, id)
		for _, c := range it.Children {
			if k := s.AST.Item(c).Kind; k == ast.ItemClass || k == ast.ItemEnum {
				b.declareTypes(c, cs)
			}
		}
	case ast.ItemEnum:
		if !b.duplicateType(scope, it) {
			b.declareEnum(item, it, scope)
		}
	}
}

// namespaceScope returns the scope of the namespace it names in scope.
// Namespaces may be reopened.
func (b *Binder) namespaceScope(scope symbols.ScopeID, it ast.Item, create bool) symbols.ScopeID {
	s := b.s
	for _, id := range s.Table.Members(scope, it.Name) {
		if sym := s.Table.Symbol(id); sym.Kind == symbols.SymbolNamespace {
			return sym.Owns
		}
	}
	if !create {
		invariant("namespace '%s' was not declared", it.Name)
	}
	id := s.Table.Install(scope, &symbols.Symbol{Name: it.Name, Kind: symbols.SymbolNamespace, Span: it.Span})
	ns := s.Table.NewScope(symbols.ScopeNamespace, it.Name, scope, id, it.Span)
	s.Table.Symbol(id).Owns = ns
	return ns
}

func (b *Binder) duplicateType(scope symbols.ScopeID, it ast.Item) bool {
	s := b.s
	for _, id := range s.Table.Members(scope, it.Name) {
		prev := s.Table.Symbol(id)
		switch prev.Kind {
		case symbols.SymbolClass, symbols.SymbolGenericClass, symbols.SymbolEnum, symbols.SymbolNamespace:
			diag.ReportError(s.reporter, diag.SemaDuplicateSymbol, it.Span, "'"+it.Name+"' is already declared").
				WithNote(prev.Span, "previous declaration").
				Emit()
			return true
		}
	}
	return false
}

func (b *Binder) declareEnum(item ast.ItemID, it ast.Item, scope symbols.ScopeID) {
	s := b.s
	underlying := s.Types.Builtins().Int
	if it.Type.IsValid() {
		t, err := s.resolveType(it.Type, typeEnv{scope: scope})
		switch {
		case err != nil:
			s.Report(err)
		case !s.Types.KindOf(t).IsIntegral():
			diag.ReportError(s.reporter, diag.SemaError, it.Span, "underlying type of enum '"+it.Name+"' must be integral").Emit()
		default:
			underlying = t
		}
	}
	id := s.Table.Install(scope, &symbols.Symbol{Name: it.Name, Kind: symbols.SymbolEnum, Span: it.Span, Decl: item})
	typ := s.Types.RegisterEnum(s.Table.QualifiedName(id), uint32(id), underlying)
	es := s.Table.NewScope(symbols.ScopeClass, it.Name, scope, id, it.Span)
	sym := s.Table.Symbol(id)
	sym.Type = typ
	sym.Owns = es
	for _, c := range it.Constants {
		s.Table.Install(es, &symbols.Symbol{Name: c, Kind: symbols.SymbolEnumConstant, Span: it.Span, Type: typ, Parent: id})
	}
}

// completeClass resolves the base class, declares member variables and
// functions and builds the virtual table. Bases complete first.
func (b *Binder) completeClass(id symbols.SymbolID, env typeEnv, inst *Instantiation) error {
	s := b.s
	switch b.classes[id] {
	case classComplete:
		return nil
	case classCompleting:
		sym := s.Table.Symbol(id)
		return errorf(diag.SemaCyclicInheritance, sym.Span, "cyclic inheritance involving '%s'", s.Table.QualifiedName(id))
	}
	b.classes[id] = classCompleting
	defer func() { b.classes[id] = classComplete }()

	sym := *s.Table.Symbol(id)
	item := *s.AST.Item(sym.Decl)
	var baseErr error
	if item.Base.IsValid() {
		baseErr = b.completeBase(id, sym, item, env, inst)
		if baseErr != nil && inst != nil {
			return baseErr
		}
	}
	for _, c := range item.Children {
		child := *s.AST.Item(c)
		switch child.Kind {
		case ast.ItemVariable:
			t, err := s.resolveType(child.Type, env)
			if err != nil {
				s.Report(err)
				continue
			}
			s.Table.Install(sym.Owns, &symbols.Symbol{
				Name:   child.Name,
				Kind:   symbols.SymbolVariable,
				Flags:  symbols.FlagMember,
				Span:   child.Span,
				Parent: id,
				Type:   t,
				Decl:   c,
			})
		case ast.ItemFunction:
			b.declareFunction(c, sym.Owns, id, env, inst)
		}
	}
	b.buildVTable(id)
	return baseErr
}

func (b *Binder) completeBase(id symbols.SymbolID, sym symbols.Symbol, item ast.Item, env typeEnv, inst *Instantiation) error {
	s := b.s
	baseSpan := s.AST.Type(item.Base).Span
	bt, err := s.resolveType(item.Base, env)
	if err != nil {
		return err
	}
	cls, ok := s.Types.ClassOf(bt)
	if !ok || cls != bt {
		return errorf(diag.SemaBadBaseClass, baseSpan, "base of '%s' must be a class, got '%s'", sym.Name, s.Types.Name(bt))
	}
	baseInst, err := s.engine.ensureClass(cls, Request{Scope: env.scope, Span: baseSpan})
	if err != nil {
		return err
	}
	if inst != nil {
		inst.Base = baseInst
	}
	info, _ := s.Types.ClassInfo(cls)
	baseSym := symbols.SymbolID(info.Symbol)
	if baseInst == nil {
		if err := b.completeClass(baseSym, typeEnv{scope: s.Table.Symbol(baseSym).Owns}, nil); err != nil {
			return err
		}
	}
	if _, cyclic := s.Types.ClassDistance(cls, sym.Type); cyclic {
		return errorf(diag.SemaCyclicInheritance, baseSpan, "cyclic inheritance involving '%s'", s.Table.QualifiedName(id))
	}
	s.Types.SetClassBase(sym.Type, cls)
	s.Table.AddBase(sym.Owns, s.Table.Symbol(baseSym).Owns)
	return nil
}

func (b *Binder) declareFunctions(item ast.ItemID, scope symbols.ScopeID) {
	s := b.s
	it := *s.AST.Item(item)
	switch it.Kind {
	case ast.ItemNamespace:
		ns := b.namespaceScope(scope, it, false)
		for _, c := range it.Children {
			b.declareFunctions(c, ns)
		}
	case ast.ItemFunction:
		b.declareFunction(item, scope, symbols.NoSymbolID, typeEnv{scope: scope}, nil)
	case ast.ItemVariable:
		t, err := s.resolveType(it.Type, typeEnv{scope: scope})
		if err != nil {
			s.Report(err)
			return
		}
		s.Table.Install(scope, &symbols.Symbol{Name: it.Name, Kind: symbols.SymbolVariable, Span: it.Span, Type: t, Decl: item})
	}
}

// declareFunction registers a free or member function. Members get the
// implicit this parameter. Converting constructors and conversion functions
// are entered into the conversion table.
func (b *Binder) declareFunction(item ast.ItemID, scope symbols.ScopeID, owner symbols.SymbolID, env typeEnv, inst *Instantiation) symbols.SymbolID {
	s := b.s
	in := s.Types
	it := *s.AST.Item(item)
	name := it.Name
	var flags symbols.SymbolFlags
	switch {
	case it.Flags.Has(ast.FnConstructor):
		name, flags = symbols.GroupConstructor, symbols.FlagConstructor
	case it.Flags.Has(ast.FnDestructor):
		name, flags = symbols.GroupDestructor, symbols.FlagDestructor
	case it.Flags.Has(ast.FnConversion):
		name, flags = symbols.GroupConversion, symbols.FlagConversion
	}
	for _, m := range fnFlagMap {
		if it.Flags.Has(m.fn) {
			flags |= m.sym
		}
	}
	sig := &symbols.FunctionSignature{}
	var classType types.TypeID
	if owner.IsValid() {
		flags |= symbols.FlagMember
		classType = s.Table.Symbol(owner).Type
		if !flags.Has(symbols.FlagStatic) {
			this := classType
			if flags.Has(symbols.FlagConst) {
				this = in.AddConst(this)
			}
			sig.Params = append(sig.Params, in.AddPointer(this))
			sig.ParamNames = append(sig.ParamNames, "this")
		}
	}
	for _, p := range it.Params {
		t, err := s.resolveType(p.Type, env)
		if err != nil {
			s.Report(err)
			return symbols.NoSymbolID
		}
		sig.Params = append(sig.Params, t)
		sig.ParamNames = append(sig.ParamNames, p.Name)
	}
	sig.Result = in.Builtins().Void
	if !flags.Has(symbols.FlagConstructor) && !flags.Has(symbols.FlagDestructor) {
		t, err := s.resolveType(it.Result, env)
		if err != nil {
			s.Report(err)
			return symbols.NoSymbolID
		}
		sig.Result = t
	}
	if prev := b.sameSignature(scope, name, sig.Params); prev.IsValid() {
		diag.ReportError(s.reporter, diag.SemaDuplicateSymbol, it.Span, "function '"+s.Signature(prev)+"' is already declared").
			WithNote(s.Table.Symbol(prev).Span, "previous declaration").
			Emit()
		return symbols.NoSymbolID
	}

	ctor := flags.Has(symbols.FlagConstructor)
	converting := ctor && sig.Arity() == 2 && in.PlainType(sig.Params[1]) != classType
	if converting && !flags.Has(symbols.FlagExplicit) {
		flags |= symbols.FlagConverting
	}
	sym := &symbols.Symbol{
		Name:      name,
		Kind:      symbols.SymbolFunction,
		Flags:     flags,
		Span:      it.Span,
		Parent:    owner,
		Type:      sig.Result,
		Signature: sig,
		Decl:      item,
		Origin:    it.Origin,
	}
	if inst != nil {
		sym.Instance = uint32(inst.ID)
		sym.State = symbols.BindUnbound
	} else if flags.Has(symbols.FlagDefault) {
		sym.State = symbols.BindUnbound
	}
	id := s.Table.Install(scope, sym)
	if inst != nil {
		inst.Members = append(inst.Members, id)
		if flags.Has(symbols.FlagDestructor) {
			inst.Destructor = id
		}
	}
	explicit := flags.Has(symbols.FlagExplicit)
	switch {
	case converting:
		s.Conv.AddFunction(id, sig.Params[1], classType, explicit)
	case flags.Has(symbols.FlagConversion) && owner.IsValid():
		s.Conv.AddFunction(id, classType, sig.Result, explicit)
	}
	if inst == nil && it.HasBody && !flags.Has(symbols.FlagDefault) && !flags.Has(symbols.FlagSuppressed) {
		b.functions = append(b.functions, id)
	}
	return id
}

func (b *Binder) sameSignature(scope symbols.ScopeID, name string, params []types.TypeID) symbols.SymbolID {
	for _, id := range b.s.Table.Members(scope, name) {
		sym := b.s.Table.Symbol(id)
		if sym.IsFunction() && sameTypes(sym.Signature.Params, params) {
			return id
		}
	}
	return symbols.NoSymbolID
}

func sameTypes(a, b []types.TypeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// buildVTable copies the base table and lets virtual functions of the class
// override slots with the same name and parameters after this.
func (b *Binder) buildVTable(id symbols.SymbolID) {
	s := b.s
	sym := s.Table.Symbol(id)
	owns, classType := sym.Owns, sym.Type
	var vtable []symbols.SymbolID
	if info, ok := s.Types.ClassInfo(classType); ok && info.Base.IsValid() {
		if baseInfo, ok := s.Types.ClassInfo(info.Base); ok {
			if base := s.Table.Symbol(symbols.SymbolID(baseInfo.Symbol)); base != nil {
				vtable = append(vtable, base.VTable...)
			}
		}
	}
	for _, fid := range s.Table.Scope(owns).Symbols {
		fn := s.Table.Symbol(fid)
		if !fn.IsFunction() || !(fn.Flags.Has(symbols.FlagVirtual) || fn.Flags.Has(symbols.FlagOverride) || fn.Flags.Has(symbols.FlagAbstract)) {
			continue
		}
		slot := -1
		for i, v := range vtable {
			if b.overrides(fid, v) {
				slot = i
				break
			}
		}
		if slot >= 0 {
			vtable[slot] = fid
			continue
		}
		if fn.Flags.Has(symbols.FlagOverride) {
			diag.ReportError(s.reporter, diag.SemaError, fn.Span, "'"+s.Signature(fid)+"' overrides no virtual function").Emit()
		}
		vtable = append(vtable, fid)
	}
	s.Table.Symbol(id).VTable = vtable
}

func (b *Binder) overrides(fn, virtual symbols.SymbolID) bool {
	f, v := b.s.Table.Symbol(fn), b.s.Table.Symbol(virtual)
	if f.Name != v.Name || f.Signature.Arity() != v.Signature.Arity() || f.Signature.Arity() == 0 {
		return false
	}
	return sameTypes(f.Signature.Params[1:], v.Signature.Params[1:])
}

// declareInstance runs the declaration pass over an instantiation's clone.
func (b *Binder) declareInstance(inst *Instantiation) error {
	return b.completeClass(inst.Class, typeEnv{scope: inst.Scope, args: inst.Args}, inst)
}

// BindBodies runs the body pass over every declared non-generic function.
func (b *Binder) BindBodies() {
	for _, fn := range b.Functions() {
		b.BindBody(fn)
	}
}

// BindBody binds the body of an ordinary function.
func (b *Binder) BindBody(fn symbols.SymbolID) {
	s := b.s
	sym := s.Table.Symbol(fn)
	if sym == nil || !sym.IsFunction() {
		invariant("symbol %d is not a function", fn)
	}
	scope := sym.Scope
	it := s.AST.Item(sym.Decl)
	if it == nil {
		return
	}
	b.bindFunction(fn, append([]ast.StmtID(nil), it.Body...), typeEnv{scope: scope})
}
