package dag

import (
	"fmt"
	"slices"
	"strings"

	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/project"
	"github.com/slaakko/cmajor-sub007/internal/source"
)

// Graph stores import edges in both directions. Waves of the topological
// order come out dependencies first.
type Graph struct {
	Deps    [][]UnitID // Deps[unit] = imported units
	Users   [][]UnitID // Users[unit] = units importing it
	Indeg   []int      // number of present imports per unit
	Present []bool     // the unit exists, not only imported
}

type UnitNode struct {
	Meta     project.UnitMeta
	Reporter diag.Reporter
	Broken   bool
	FirstErr *diag.Diagnostic
}

type UnitSlot struct {
	Meta     project.UnitMeta
	Reporter diag.Reporter
	Present  bool
	Broken   bool
	FirstErr *diag.Diagnostic
}

func BuildGraph(idx UnitIndex, nodes []UnitNode) (Graph, []UnitSlot) {
	nodeCount := len(idx.IDToName)
	g := Graph{
		Deps:    make([][]UnitID, nodeCount),
		Users:   make([][]UnitID, nodeCount),
		Indeg:   make([]int, nodeCount),
		Present: make([]bool, nodeCount),
	}
	slots := make([]UnitSlot, nodeCount)
	for i, name := range idx.IDToName {
		slots[i].Meta.Name = name
	}

	for _, node := range nodes {
		meta := node.Meta
		if meta.Name == "" {
			continue
		}
		id, ok := idx.NameToID[meta.Name]
		if !ok {
			continue
		}
		slot := &slots[int(id)]
		if slot.Present {
			if node.Reporter != nil {
				notes := make([]diag.Note, 0, 1)
				if slot.Meta.Span != (source.Span{}) {
					notes = append(notes, diag.Note{
						Span: slot.Meta.Span,
						Msg:  fmt.Sprintf("previous declaration of %q", slot.Meta.Name),
					})
				}
				node.Reporter.Report(
					diag.ProjDuplicateUnit,
					diag.SevError,
					meta.Span,
					fmt.Sprintf("duplicate unit %q", meta.Name),
					notes,
				)
			}
			continue
		}
		slot.Meta = meta
		slot.Reporter = node.Reporter
		slot.Present = true
		slot.Broken = node.Broken
		slot.FirstErr = node.FirstErr
		g.Present[int(id)] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present || len(slot.Meta.Imports) == 0 {
			continue
		}
		seen := make(map[UnitID]struct{}, len(slot.Meta.Imports))
		for _, dep := range slot.Meta.Imports {
			if dep.Name == "" {
				continue
			}
			toID, ok := idx.NameToID[dep.Name]
			if !ok {
				continue
			}
			if UnitID(from) == toID {
				if slot.Reporter != nil {
					slot.Reporter.Report(
						diag.ProjImportCycle,
						diag.SevError,
						dep.Span,
						fmt.Sprintf("unit %q imports itself", slot.Meta.Name),
						nil,
					)
				}
				continue
			}
			if _, dup := seen[toID]; dup {
				continue
			}
			seen[toID] = struct{}{}

			if !g.Present[int(toID)] {
				if slot.Reporter != nil {
					slot.Reporter.Report(
						diag.ProjMissingUnit,
						diag.SevError,
						dep.Span,
						fmt.Sprintf("unit %q imports unknown unit %q", slot.Meta.Name, dep.Name),
						nil,
					)
				}
				continue
			}
			g.Deps[from] = append(g.Deps[from], toID)
			g.Users[int(toID)] = append(g.Users[int(toID)], UnitID(from))
			g.Indeg[from]++
		}
		slices.Sort(g.Deps[from])
	}
	for i := range g.Users {
		slices.Sort(g.Users[i])
	}

	return g, slots
}

func ReportCycles(idx UnitIndex, slots []UnitSlot, topo *Topo) {
	if !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, idx.IDToName[int(id)])
	}
	summary := strings.Join(names, " -> ")

	for _, id := range topo.Cycles {
		slot := slots[int(id)]
		if !slot.Present || slot.Reporter == nil {
			continue
		}
		msg := fmt.Sprintf("unit %q participates in an import cycle: %s", slot.Meta.Name, summary)
		slot.Reporter.Report(diag.ProjImportCycle, diag.SevError, slot.Meta.Span, msg, nil)
	}
}

// ReportBrokenDeps reports every import of a unit that failed, pointing at
// the first error of the dependency.
func ReportBrokenDeps(idx UnitIndex, slots []UnitSlot) {
	for i := range slots {
		slotFrom := &slots[i]
		if !slotFrom.Present || slotFrom.Reporter == nil || len(slotFrom.Meta.Imports) == 0 {
			continue
		}
		emitted := make(map[string]struct{}, len(slotFrom.Meta.Imports))
		for _, imp := range slotFrom.Meta.Imports {
			toID, ok := idx.NameToID[imp.Name]
			if !ok {
				continue
			}
			depSlot := slots[int(toID)]
			if !depSlot.Broken {
				continue
			}
			if _, seen := emitted[imp.Name]; seen {
				continue
			}
			emitted[imp.Name] = struct{}{}

			notes := []diag.Note(nil)
			if depSlot.FirstErr != nil {
				notes = append(notes, diag.Note{
					Span: depSlot.FirstErr.Primary,
					Msg:  fmt.Sprintf("first error in dependency: %s", depSlot.FirstErr.Message),
				})
			}

			msg := fmt.Sprintf("imported unit %q has errors", imp.Name)
			slotFrom.Reporter.Report(diag.ProjUnitFailed, diag.SevError, imp.Span, msg, notes)
		}
	}
}
