package driver

import (
	"github.com/slaakko/cmajor-sub007/internal/project"
	"github.com/slaakko/cmajor-sub007/internal/project/dag"
)

// ComputeUnitHashes fills UnitHash in dependency order, so every hash
// covers the content of all transitively imported units. A cyclic graph is
// left untouched.
func ComputeUnitHashes(g dag.Graph, slots []dag.UnitSlot, topo *dag.Topo) {
	if topo == nil || topo.Cyclic {
		return
	}
	for _, id := range topo.Order {
		slot := &slots[int(id)]
		if !slot.Present {
			continue
		}
		deps := make([]project.Digest, 0, len(g.Deps[int(id)]))
		for _, to := range g.Deps[int(id)] {
			deps = append(deps, slots[int(to)].Meta.UnitHash)
		}
		slot.Meta.UnitHash = project.Combine(slot.Meta.ContentHash, deps...)
	}
}
