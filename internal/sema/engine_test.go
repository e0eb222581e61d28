package sema

import (
	"testing"

	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/export"
	"github.com/slaakko/cmajor-sub007/internal/types"
)

const pairUnit = `
[[class]]
name = "Pair"
type_params = ["T", "U = T"]

[[class.var]]
name = "first"
type = "T"

[[class.var]]
name = "second"
type = "U"

[[class]]
name = "Map"
type_params = ["K", "V"]
`

func TestDefaultTemplateArguments(t *testing.T) {
	f := declareUnit(t, pairUnit, Options{})
	intType := f.basic(types.KindInt)
	inst := f.instantiate("Pair", intType)
	if len(inst.Args) != 2 || inst.Args[0] != intType || inst.Args[1] != intType {
		t.Fatalf("expected [int int], got %s", f.s.Types.Names(inst.Args))
	}
	if inst.Name != "Pair<int, int>" {
		t.Fatalf("unexpected name %q", inst.Name)
	}
	if inst.State != StateDeclarationsBound {
		t.Fatalf("expected declarations bound, got %s", inst.State)
	}
	same := f.instantiate("Pair", intType, intType)
	if same != inst {
		t.Fatalf("Pair<int> and Pair<int, int> are different instantiations")
	}
}

func TestTemplateArgumentCount(t *testing.T) {
	f := declareUnit(t, pairUnit, Options{})
	intType := f.basic(types.KindInt)
	e := f.s.Engine()

	_, err := e.EnsureInstantiated(f.symbol("Map"), []types.TypeID{intType}, f.request())
	se := expectSemaError(t, err, diag.SemaTooFewTemplateArgs)
	if !hasNote(se, "type parameter declared here") {
		t.Fatalf("missing declaration note: %+v", se.Notes)
	}
	_, err = e.EnsureInstantiated(f.symbol("Pair"), []types.TypeID{intType, intType, intType}, f.request())
	expectSemaError(t, err, diag.SemaTooManyTemplateArgs)
	if len(e.Instantiations()) != 0 {
		t.Fatalf("failed requests created instantiations")
	}
}

func TestInstantiationIsIdempotent(t *testing.T) {
	f := declareUnit(t, pairUnit, Options{})
	intType, longType := f.basic(types.KindInt), f.basic(types.KindLong)
	a := f.instantiate("Map", intType, longType)
	b := f.instantiate("Map", intType, longType)
	c := f.instantiate("Map", longType, intType)
	if a != b {
		t.Fatalf("repeated request produced a new instantiation")
	}
	if a == c {
		t.Fatalf("different arguments share an instantiation")
	}
	if got := f.s.Engine().Stats().Instantiations; got != 2 {
		t.Fatalf("expected 2 instantiations, got %d", got)
	}
	if found, ok := f.s.Engine().Find(f.symbol("Map"), []types.TypeID{intType, longType}); !ok || found != a {
		t.Fatalf("Find did not return the existing instantiation")
	}
	if f.s.Engine().Lookup(a.ID) != a {
		t.Fatalf("Lookup(%d) mismatch", a.ID)
	}
}

func TestNotAGenericClass(t *testing.T) {
	f := declareUnit(t, `
[[class]]
name = "Plain"
`, Options{})
	_, err := f.s.Engine().EnsureInstantiated(f.symbol("Plain"), nil, f.request())
	expectSemaError(t, err, diag.SemaNotGenericClass)
}

const sortedUnit = `
[[class]]
name = "Plain"

[[class]]
name = "Sorted"
type_params = ["T"]
constraint = "T is Comparable"

[[class.function]]
name = "get"
result = "int"
body = "return 0;"
`

func TestConstraintGatesInstantiation(t *testing.T) {
	f := declareUnit(t, sortedUnit, Options{})
	e := f.s.Engine()
	f.instantiate("Sorted", f.basic(types.KindInt))

	plain := f.s.Table.Symbol(f.symbol("Plain")).Type
	_, err := e.EnsureInstantiated(f.symbol("Sorted"), []types.TypeID{plain}, f.request())
	se := expectSemaError(t, err, diag.SemaConstraintNotSatisfied)
	if !hasNote(se, "constraint declared here") {
		t.Fatalf("missing constraint note: %+v", se.Notes)
	}
	if _, ok := e.Find(f.symbol("Sorted"), []types.TypeID{plain}); ok {
		t.Fatalf("failed instantiation was kept")
	}
	checks := e.Stats().ConstraintChecks

	// A repeated request reports the cached failure.
	_, err = e.EnsureInstantiated(f.symbol("Sorted"), []types.TypeID{plain}, f.request())
	expectSemaError(t, err, diag.SemaConstraintNotSatisfied)
	if got := e.Stats().ConstraintChecks; got != checks {
		t.Fatalf("constraint rechecked: %d checks, want %d", got, checks)
	}
}

func TestDeferredConstraintEvaluatedOnce(t *testing.T) {
	f := declareUnit(t, sortedUnit, Options{})
	e := f.s.Engine()
	plain := f.s.Table.Symbol(f.symbol("Plain")).Type
	req := f.request()
	req.DeferConstraint = true
	inst, err := e.EnsureInstantiated(f.symbol("Sorted"), []types.TypeID{plain}, req)
	if err != nil {
		t.Fatalf("deferred request failed: %v", err)
	}
	if !inst.HasDeferredConstraint() || e.Stats().ConstraintChecks != 0 {
		t.Fatalf("constraint was not deferred")
	}
	get := f.member(inst, "get")
	err = e.EnsureMemberBound(inst, get)
	expectSemaError(t, err, diag.SemaConstraintNotSatisfied)
	if inst.HasDeferredConstraint() {
		t.Fatalf("constraint still deferred after first binding")
	}
	err = e.EnsureMemberBound(inst, get)
	expectSemaError(t, err, diag.SemaConstraintNotSatisfied)
	if got := e.Stats().ConstraintChecks; got != 1 {
		t.Fatalf("expected 1 constraint check, got %d", got)
	}
	if e.IsBound(get) || len(e.BoundMembers()) != 0 {
		t.Fatalf("member of an instantiation with a failed constraint was bound")
	}
	if n := len(e.ExportAll("sorted").Instantiations); n != 0 {
		t.Fatalf("instantiation with a failed constraint was exported")
	}
}

func TestFailedInstantiationIsNotReused(t *testing.T) {
	f := bindUnit(t, `
[[class]]
name = "Broken"
type_params = ["T"]
base = "Missing"

[[class.function]]
name = "get"
result = "int"
body = "return 0;"

[[function]]
name = "main"
body = "Broken<int> b; int x = b.get(); int y = b.get();"
`)
	items := f.bag.Items()
	if len(items) == 0 {
		t.Fatalf("expected diagnostics for the broken instantiation")
	}
	for _, d := range items {
		if d.Code != diag.SemaUnresolvedType {
			t.Fatalf("expected only %s, got %v", diag.SemaUnresolvedType.ID(), f.messages())
		}
	}
	e := f.s.Engine()
	if n := len(e.Instantiations()); n != 0 {
		t.Fatalf("failed instantiation is listed: %d", n)
	}
	if n := len(e.ExportAll("broken").Instantiations); n != 0 {
		t.Fatalf("failed instantiation was exported: %d", n)
	}
	typ := e.specialize(f.symbol("Broken"), []types.TypeID{f.basic(types.KindInt)})
	inst, err := e.ensureClass(typ, f.request())
	if inst != nil {
		t.Fatalf("failed instantiation was returned")
	}
	expectSemaError(t, err, diag.SemaUnresolvedType)
}

const holderUnit = `
[[class]]
name = "Holder"
type_params = ["T"]

[[class.var]]
name = "value"
type = "T"

[[class.function]]
name = "first"
result = "T"
body = "return value;"

[[class.function]]
name = "second"
params = ["T x"]
body = "value = x;"

[[class.function]]
kind = "destructor"
body = ""

[[function]]
name = "main"
body = "Holder<int> h; int v = h.first();"
`

func TestMembersBindLazily(t *testing.T) {
	f := bindUnit(t, holderUnit)
	f.expectClean()
	insts := f.s.Engine().Instantiations()
	if len(insts) != 1 || insts[0].Name != "Holder<int>" {
		t.Fatalf("unexpected instantiations %d", len(insts))
	}
	inst := insts[0]
	e := f.s.Engine()
	if !e.IsBound(f.member(inst, "first")) {
		t.Fatalf("called member was not bound")
	}
	if !e.IsBound(inst.Destructor) {
		t.Fatalf("destructor was not bound with the first member")
	}
	if e.IsBound(f.member(inst, "second")) {
		t.Fatalf("uncalled member was bound")
	}
	f.expectCall("Holder.first(Holder<int>*)")
}

func TestVirtualsBoundWithFirstMember(t *testing.T) {
	f := declareUnit(t, `
[[class]]
name = "Shape"
type_params = ["T"]

[[class.function]]
name = "ping"
flags = ["virtual"]
body = "pong();"

[[class.function]]
name = "pong"
flags = ["virtual"]
body = "ping();"

[[class.function]]
name = "area"
result = "T"
flags = ["virtual", "abstract"]

[[class.function]]
name = "helper"
body = ""
`, Options{})
	inst := f.instantiate("Shape", f.basic(types.KindDouble))
	e := f.s.Engine()
	if err := e.EnsureMemberBound(inst, f.member(inst, "helper")); err != nil {
		t.Fatalf("binding helper: %v", err)
	}
	f.expectClean()
	for _, name := range []string{"helper", "ping", "pong"} {
		if !e.IsBound(f.member(inst, name)) {
			t.Fatalf("%s was not bound", name)
		}
	}
	if e.IsBound(f.member(inst, "area")) {
		t.Fatalf("abstract function was bound")
	}
	if got := len(e.BoundMembers()); got != 3 {
		t.Fatalf("expected 3 bound members, got %d", got)
	}
}

func TestInstantiationDepthLimit(t *testing.T) {
	f := declareUnit(t, `
[[class]]
name = "Nest"
type_params = ["T"]
base = "Nest<Nest<T>>"
`, Options{MaxDepth: 8})
	_, err := f.s.Engine().EnsureInstantiated(f.symbol("Nest"), []types.TypeID{f.basic(types.KindInt)}, f.request())
	expectSemaError(t, err, diag.SemaInstantiationTooDeep)
}

func TestExportImportRoundTrip(t *testing.T) {
	src := bindUnit(t, holderUnit)
	src.expectClean()
	archive := src.s.Engine().ExportAll("holder")
	if len(archive.Instantiations) != 1 {
		t.Fatalf("expected one exported instantiation, got %d", len(archive.Instantiations))
	}
	rec := archive.Instantiations[0]
	if rec.Subject != "Holder" || rec.BoundMembers() == 0 {
		t.Fatalf("unexpected record %+v", rec)
	}
	data, err := export.WriteArchive(archive)
	if err != nil {
		t.Fatalf("write archive: %v", err)
	}
	decoded, err := export.ReadArchive(data)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}

	dst := declareUnit(t, holderUnit, Options{})
	e := dst.s.Engine()
	if err := e.ImportArchive(decoded, noSpan); err != nil {
		t.Fatalf("import: %v", err)
	}
	insts := e.Instantiations()
	if len(insts) != 1 || !insts[0].Imported {
		t.Fatalf("instantiation was not imported")
	}
	inst := insts[0]
	first := dst.member(inst, "first")
	if !e.IsBound(first) || !e.IsBound(inst.Destructor) {
		t.Fatalf("bound members were not imported as bound")
	}
	if e.IsBound(dst.member(inst, "second")) {
		t.Fatalf("unbound member was imported as bound")
	}
	if err := e.EnsureMemberBound(inst, first); err != nil {
		t.Fatalf("EnsureMemberBound: %v", err)
	}
	if n := len(e.BoundMembers()); n != 0 {
		t.Fatalf("imported members were rebound: %d", n)
	}
	if got := e.Stats().MembersImported; got != rec.BoundMembers() {
		t.Fatalf("imported %d members, exported %d bound", got, rec.BoundMembers())
	}
}

func TestImportKeepsOwnInstantiation(t *testing.T) {
	src := bindUnit(t, holderUnit)
	src.expectClean()
	archive := src.s.Engine().ExportAll("holder")

	dst := declareUnit(t, holderUnit, Options{})
	e := dst.s.Engine()
	own := dst.instantiate("Holder", dst.basic(types.KindInt))
	if err := e.ImportArchive(archive, noSpan); err != nil {
		t.Fatalf("import: %v", err)
	}
	insts := e.Instantiations()
	if len(insts) != 1 || insts[0] != own {
		t.Fatalf("import replaced the unit's own instantiation")
	}
	if own.Imported {
		t.Fatalf("own instantiation was marked imported")
	}
	if n := len(e.ExportAll("dst").Instantiations); n != 1 {
		t.Fatalf("own instantiation was not exported: %d", n)
	}
}

func TestInvariantViolationPanics(t *testing.T) {
	f := declareUnit(t, pairUnit, Options{})
	defer func() {
		r := recover()
		if _, ok := r.(InvariantError); !ok {
			t.Fatalf("expected InvariantError panic, got %v", r)
		}
	}()
	_ = f.s.Engine().EnsureMemberBound(nil, f.symbol("Pair"))
}
