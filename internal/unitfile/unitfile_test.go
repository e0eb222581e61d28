package unitfile

import (
	"testing"

	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/testkit"
)

const listUnit = `
unit = "containers"
imports = ["core", "memory"]

[[class]]
name = "List"
namespace = "coll.seq"
type_params = ["T", "U = T"]
constraint = "T is Comparable and not Pointer<U>"

[[class.var]]
name = "count"
type = "int"

[[class.function]]
kind = "constructor"
params = ["const List<T, U>& that"]
body = '''
    count = that.size();
'''

[[class.function]]
name = "size"
result = "int"
flags = ["const"]
body = "return count;"

[[class.function]]
name = "clear"
flags = ["virtual", "abstract"]

[[enum]]
name = "Color"
underlying = "byte"
constants = ["red", "green"]

[[function]]
name = "main"
body = """
List<int> xs;
int n = xs.size();
"""
`

type fixture struct {
	fs  *source.FileSet
	b   *ast.Builder
	bag *diag.Bag
	src source.FileID
}

func parseText(t *testing.T, path, text string) (*fixture, *Unit, bool) {
	t.Helper()
	f := &fixture{
		fs:  source.NewFileSet(),
		b:   ast.NewBuilder(ast.Hints{}),
		bag: diag.NewBag(50),
	}
	f.src = f.fs.AddVirtual(path, []byte(text))
	u, ok := Parse(f.fs, f.src, f.b, Options{Reporter: diag.BagReporter{Bag: f.bag}})
	return f, u, ok
}

func (f *fixture) text(sp source.Span) string {
	file := f.fs.Get(sp.File)
	return string(file.Content[sp.Start:sp.End])
}

func (f *fixture) child(t *testing.T, parent *ast.Item, kind ast.ItemKind, name string) *ast.Item {
	t.Helper()
	for _, id := range parent.Children {
		it := f.b.Item(id)
		if it.Kind == kind && it.Name == name {
			return it
		}
	}
	t.Fatalf("%s %q not found in %q", kind, name, parent.Name)
	return nil
}

func TestParseUnit(t *testing.T) {
	f, u, ok := parseText(t, "containers.unit.toml", listUnit)
	if !ok {
		t.Fatalf("parse failed: %+v", f.bag.Items())
	}
	if u.Name != "containers" {
		t.Fatalf("unit name %q", u.Name)
	}
	if err := testkit.CheckSpanInvariants(f.fs, f.b, u.File); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
	if len(u.Imports) != 2 || u.Imports[1].Name != "memory" || f.text(u.Imports[1].Span) != "memory" {
		t.Fatalf("unexpected imports %+v", u.Imports)
	}

	file := f.b.File(u.File)
	if file.Unit != "containers" || len(file.Items) != 3 {
		t.Fatalf("unexpected file %+v", file)
	}
	coll := f.b.Item(file.Items[0])
	if coll.Kind != ast.ItemNamespace || coll.Name != "coll" {
		t.Fatalf("expected namespace coll first, got %s %q", coll.Kind, coll.Name)
	}
	seq := f.child(t, coll, ast.ItemNamespace, "seq")
	list := f.child(t, seq, ast.ItemClass, "List")
	if f.text(list.Span) != "List" {
		t.Fatalf("class span covers %q", f.text(list.Span))
	}
	if len(list.TypeParams) != 2 || list.TypeParams[1].Name != "U" || !list.TypeParams[1].Default.IsValid() {
		t.Fatalf("unexpected type params %+v", list.TypeParams)
	}
	c := f.b.Constraint(list.Constraint)
	if c.Kind != ast.ConstraintAnd || f.b.Constraint(c.Left).Name != "Comparable" {
		t.Fatalf("unexpected constraint %+v", c)
	}
	if got := f.text(c.Span); got != "T is Comparable and not Pointer<U>" {
		t.Fatalf("constraint span covers %q", got)
	}

	f.child(t, list, ast.ItemVariable, "count")
	ctor := f.child(t, list, ast.ItemFunction, "List")
	if !ctor.Flags.Has(ast.FnConstructor) || len(ctor.Params) != 1 || ctor.Params[0].Name != "that" {
		t.Fatalf("unexpected constructor %+v", ctor)
	}
	if !ctor.HasBody || len(ctor.Body) != 1 {
		t.Fatalf("constructor body not parsed: %+v", ctor.Body)
	}
	if got := f.text(f.b.Stmt(ctor.Body[0]).Span); got != "count = that.size();" {
		t.Fatalf("statement span covers %q", got)
	}
	size := f.child(t, list, ast.ItemFunction, "size")
	if !size.Flags.Has(ast.FnConst) || !size.Result.IsValid() {
		t.Fatalf("unexpected size %+v", size)
	}
	clear := f.child(t, list, ast.ItemFunction, "clear")
	if clear.HasBody || !clear.Flags.Has(ast.FnAbstract) || !clear.Flags.Has(ast.FnVirtual) {
		t.Fatalf("unexpected clear %+v", clear)
	}

	color := f.b.Item(file.Items[1])
	if color.Kind != ast.ItemEnum || len(color.Constants) != 2 || !color.Type.IsValid() {
		t.Fatalf("unexpected enum %+v", color)
	}
	main := f.b.Item(file.Items[2])
	if main.Kind != ast.ItemFunction || len(main.Body) != 2 {
		t.Fatalf("unexpected main %+v", main)
	}
}

func TestUnitNameFromPath(t *testing.T) {
	_, u, ok := parseText(t, "src/geometry.unit.toml", "")
	if !ok || u.Name != "geometry" {
		t.Fatalf("unit name %q", u.Name)
	}
}

func TestMalformedToml(t *testing.T) {
	f, _, ok := parseText(t, "bad.unit.toml", "unit = \"x\"\n[[class]\nname = 1\n")
	if ok {
		t.Fatalf("expected failure")
	}
	items := f.bag.Items()
	if len(items) != 1 || items[0].Code != diag.UnitSyntax {
		t.Fatalf("unexpected diagnostics %+v", items)
	}
	if items[0].Primary.File != f.src {
		t.Fatalf("error span %+v is not in the unit file", items[0].Primary)
	}
}

func TestDeclarationErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
		code diag.Code
	}{
		{"unknown key", "[[class]]\nname = \"A\"\nfields = 3\n", diag.UnitSyntax},
		{"missing name", "[[class]]\nbase = \"B\"\n", diag.UnitMissingName},
		{"unknown kind", "[[class]]\nname = \"A\"\n[[class.function]]\nname = \"f\"\nkind = \"method\"\n", diag.UnitUnknownKind},
		{"unknown flag", "[[function]]\nname = \"f\"\nflags = [\"inline\"]\n", diag.UnitUnknownKind},
		{"free constructor", "[[function]]\nkind = \"constructor\"\nname = \"A\"\n", diag.UnitUnknownKind},
		{"bad type", "[[var]]\nname = \"v\"\ntype = \"List<int\"\n", diag.UnitBadTypeExpr},
		{"bad constraint", "[[class]]\nname = \"A\"\ntype_params = [\"T\"]\nconstraint = \"T\"\n", diag.UnitBadConstraint},
		{"constraint without params", "[[class]]\nname = \"A\"\nconstraint = \"C<T>\"\n", diag.UnitBadConstraint},
		{"duplicate type param", "[[class]]\nname = \"A\"\ntype_params = [\"T\", \"T\"]\n", diag.UnitDuplicateEntry},
		{"duplicate import", "imports = [\"a\", \"a\"]\n", diag.UnitDuplicateEntry},
		{"bad body", "[[function]]\nname = \"f\"\nbody = \"f(;\"\n", diag.UnitBadExpr},
	}
	for _, tc := range cases {
		f, _, ok := parseText(t, "case.unit.toml", tc.text)
		if ok {
			t.Fatalf("%s: expected failure", tc.name)
		}
		items := f.bag.Items()
		if len(items) == 0 || items[0].Code != tc.code {
			t.Fatalf("%s: expected %s, got %+v", tc.name, tc.code.ID(), items)
		}
	}
}

func TestEscapedBodyUsesVirtualFile(t *testing.T) {
	text := "[[function]]\nname = \"f\"\nbody = \"char c = '\\\\n';\"\n"
	f, u, ok := parseText(t, "esc.unit.toml", text)
	if !ok {
		t.Fatalf("parse failed: %+v", f.bag.Items())
	}
	fn := f.b.Item(f.b.File(u.File).Items[0])
	if len(fn.Body) != 1 {
		t.Fatalf("body not parsed")
	}
	sp := f.b.Stmt(fn.Body[0]).Span
	if sp.File == u.Source {
		t.Fatalf("escaped fragment cannot map into the unit file")
	}
	if got := f.text(sp); got != `char c = '\n';` {
		t.Fatalf("virtual span covers %q", got)
	}
	if err := testkit.CheckSpanInvariants(f.fs, f.b, u.File); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
}
