package driver_test

import (
	"testing"

	"github.com/slaakko/cmajor-sub007/internal/driver"
	"github.com/slaakko/cmajor-sub007/internal/project"
	"github.com/slaakko/cmajor-sub007/internal/project/dag"
)

func digest(b byte) project.Digest {
	var d project.Digest
	for i := range d {
		d[i] = b
	}
	return d
}

// chain builds app -> coll -> core with IDs 0, 1, 2.
func chain() (dag.Graph, *dag.Topo, []dag.UnitSlot) {
	g := dag.Graph{
		Deps:    [][]dag.UnitID{{1}, {2}, {}},
		Users:   [][]dag.UnitID{{}, {0}, {1}},
		Indeg:   []int{1, 1, 0},
		Present: []bool{true, true, true},
	}
	topo := &dag.Topo{Order: []dag.UnitID{2, 1, 0}}
	slots := []dag.UnitSlot{
		{Meta: project.UnitMeta{Name: "app", ContentHash: digest('A')}, Present: true},
		{Meta: project.UnitMeta{Name: "coll", ContentHash: digest('B')}, Present: true},
		{Meta: project.UnitMeta{Name: "core", ContentHash: digest('C')}, Present: true},
	}
	return g, topo, slots
}

func TestComputeUnitHashesIsTransitive(t *testing.T) {
	g, topo, slots := chain()
	driver.ComputeUnitHashes(g, slots, topo)

	if slots[2].Meta.UnitHash != project.Combine(digest('C')) {
		t.Fatal("core hash should cover its content only")
	}
	if slots[1].Meta.UnitHash != project.Combine(digest('B'), slots[2].Meta.UnitHash) {
		t.Fatal("coll hash should cover core")
	}
	prev := slots[0].Meta.UnitHash

	slots[2].Meta.ContentHash = digest('X')
	driver.ComputeUnitHashes(g, slots, topo)
	if slots[0].Meta.UnitHash == prev {
		t.Fatal("app hash must change when a transitive import changes")
	}
}

func TestComputeUnitHashesSkipsCycles(t *testing.T) {
	g, _, slots := chain()
	driver.ComputeUnitHashes(g, slots, &dag.Topo{Cyclic: true})
	for _, slot := range slots {
		if slot.Meta.UnitHash != (project.Digest{}) {
			t.Fatalf("%s hashed despite a cycle", slot.Meta.Name)
		}
	}
}
