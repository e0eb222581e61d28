package dag

import (
	"reflect"
	"testing"

	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/project"
	"github.com/slaakko/cmajor-sub007/internal/source"
)

func batchesToNames(idx UnitIndex, batches [][]UnitID) [][]string {
	out := make([][]string, len(batches))
	for i, batch := range batches {
		names := make([]string, len(batch))
		for j, id := range batch {
			names[j] = idx.IDToName[int(id)]
		}
		out[i] = names
	}
	return out
}

func unit(name string, imports ...string) project.UnitMeta {
	meta := project.UnitMeta{Name: name}
	for _, imp := range imports {
		meta.Imports = append(meta.Imports, project.ImportMeta{Name: imp})
	}
	return meta
}

func nodesFor(bag *diag.Bag, metas ...project.UnitMeta) []UnitNode {
	nodes := make([]UnitNode, len(metas))
	for i, meta := range metas {
		nodes[i] = UnitNode{Meta: meta, Reporter: diag.BagReporter{Bag: bag}}
	}
	return nodes
}

func TestBuildIndexIncludesImports(t *testing.T) {
	idx := BuildIndex([]project.UnitMeta{unit("app", "coll.seq", "core"), unit("core")})
	want := []string{"app", "coll.seq", "core"}
	if !reflect.DeepEqual(idx.IDToName, want) {
		t.Fatalf("IDToName = %v, want %v", idx.IDToName, want)
	}
	for i, name := range want {
		if id, ok := idx.NameToID[name]; !ok || int(id) != i {
			t.Fatalf("NameToID[%q] = %v, want %d", name, id, i)
		}
	}
}

func TestToposortBatchesDependenciesFirst(t *testing.T) {
	metas := []project.UnitMeta{
		unit("app", "coll", "core"),
		unit("coll", "core"),
		unit("core"),
		unit("tools", "core"),
	}
	bag := diag.NewBag(10)
	idx := BuildIndex(metas)
	g, _ := BuildGraph(idx, nodesFor(bag, metas...))
	topo := ToposortKahn(g)
	if topo.Cyclic {
		t.Fatalf("unexpected cycle: %v", topo.Cycles)
	}
	want := [][]string{{"core"}, {"coll", "tools"}, {"app"}}
	if got := batchesToNames(idx, topo.Batches); !reflect.DeepEqual(got, want) {
		t.Fatalf("batches = %v, want %v", got, want)
	}
	if len(topo.Order) != 4 {
		t.Fatalf("order has %d units", len(topo.Order))
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
}

func TestBuildGraphReportsMissingUnits(t *testing.T) {
	importSpan := source.Span{File: 1, Start: 5, End: 8}
	app := project.UnitMeta{
		Name:    "app",
		Imports: []project.ImportMeta{{Name: "core"}, {Name: "util", Span: importSpan}},
	}
	bag := diag.NewBag(10)
	metas := []project.UnitMeta{app, unit("core")}
	idx := BuildIndex(metas)
	g, slots := BuildGraph(idx, nodesFor(bag, metas...))

	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.ProjMissingUnit || d.Primary != importSpan {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	utilID := idx.NameToID["util"]
	if slots[utilID].Present || g.Present[utilID] {
		t.Fatalf("missing unit marked present")
	}
	appID := idx.NameToID["app"]
	if g.Indeg[appID] != 1 || len(g.Deps[appID]) != 1 {
		t.Fatalf("app should depend on core only: indeg=%d deps=%v", g.Indeg[appID], g.Deps[appID])
	}
}

func TestBuildGraphReportsDuplicatesAndSelfImports(t *testing.T) {
	first := source.Span{File: 1, Start: 0, End: 4}
	bag := diag.NewBag(10)
	a := unit("a", "a")
	a.Span = first
	metas := []project.UnitMeta{a, unit("a")}
	idx := BuildIndex(metas)
	g, _ := BuildGraph(idx, nodesFor(bag, metas...))

	codes := map[diag.Code]int{}
	for _, d := range bag.Items() {
		codes[d.Code]++
	}
	if codes[diag.ProjDuplicateUnit] != 1 || codes[diag.ProjImportCycle] != 1 {
		t.Fatalf("unexpected diagnostics %v", codes)
	}
	for _, d := range bag.Items() {
		if d.Code == diag.ProjDuplicateUnit && (len(d.Notes) != 1 || d.Notes[0].Span != first) {
			t.Fatalf("duplicate should point at the first declaration: %+v", d.Notes)
		}
	}
	if g.Indeg[idx.NameToID["a"]] != 0 {
		t.Fatalf("self import counted as a dependency")
	}
}

func TestToposortDetectsCycles(t *testing.T) {
	metas := []project.UnitMeta{unit("a", "b"), unit("b", "a"), unit("c"), unit("d", "a")}
	bag := diag.NewBag(10)
	idx := BuildIndex(metas)
	g, slots := BuildGraph(idx, nodesFor(bag, metas...))
	topo := ToposortKahn(g)
	if !topo.Cyclic {
		t.Fatalf("cycle not detected")
	}
	got := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		got = append(got, idx.IDToName[int(id)])
	}
	// d only waits for the cycle, so it stays blocked as well.
	if want := []string{"a", "b", "d"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("cycles = %v, want %v", got, want)
	}
	ReportCycles(idx, slots, topo)
	if n := bag.Count(diag.SevError); n != 3 {
		t.Fatalf("expected 3 cycle diagnostics, got %d", n)
	}
}

func TestReportBrokenDeps(t *testing.T) {
	coreErr := diag.NewError(diag.SemaUnresolvedType, source.Span{File: 2, Start: 1, End: 3}, "unresolved type Foo")
	importSpan := source.Span{File: 1, Start: 10, End: 14}
	app := project.UnitMeta{Name: "app", Imports: []project.ImportMeta{{Name: "core", Span: importSpan}}}

	bagApp := diag.NewBag(10)
	bagCore := diag.NewBag(10)
	nodes := []UnitNode{
		{Meta: app, Reporter: diag.BagReporter{Bag: bagApp}},
		{Meta: unit("core"), Reporter: diag.BagReporter{Bag: bagCore}, Broken: true, FirstErr: &coreErr},
	}
	idx := BuildIndex([]project.UnitMeta{nodes[0].Meta, nodes[1].Meta})
	_, slots := BuildGraph(idx, nodes)
	ReportBrokenDeps(idx, slots)

	if bagCore.Len() != 0 {
		t.Fatalf("broken unit received diagnostics")
	}
	if bagApp.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bagApp.Len())
	}
	d := bagApp.Items()[0]
	if d.Code != diag.ProjUnitFailed || d.Primary != importSpan {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if len(d.Notes) != 1 || d.Notes[0].Span != coreErr.Primary {
		t.Fatalf("note should point at the first error: %+v", d.Notes)
	}
}
