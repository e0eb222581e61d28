package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/export"
	"github.com/slaakko/cmajor-sub007/internal/project"
	"github.com/slaakko/cmajor-sub007/internal/project/dag"
	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/trace"
	"github.com/slaakko/cmajor-sub007/internal/unitfile"
)

// BuildResult holds every unit of a project in configuration order.
type BuildResult struct {
	FileSet *source.FileSet
	Units   []*UnitResult
	// Waves lists unit names batch by batch in the order they were checked.
	Waves [][]string
}

func (r *BuildResult) HasErrors() bool {
	for _, u := range r.Units {
		if u.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Unit returns the result for the named unit.
func (r *BuildResult) Unit(name string) *UnitResult {
	for _, u := range r.Units {
		if u.Name == name {
			return u
		}
	}
	return nil
}

// scanned is a unit file after loading and a declaration-free scan of its
// imports.
type scanned struct {
	entry   project.UnitEntry
	source  source.FileID
	loadErr error
	meta    project.UnitMeta
}

// Build checks every unit of cfg. Units run in waves: a unit starts once
// every unit it imports has finished, and units within a wave run on up to
// opts.Jobs goroutines. An error is returned only when ctx is cancelled.
func Build(ctx context.Context, cfg *project.Config, opts Options) (*BuildResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "build:"+cfg.Project.Name, trace.ParentFromContext(ctx))
	defer span.End("")
	ctx = trace.WithParent(ctx, span.ID())

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	fs := source.NewFileSet()
	units := make([]scanned, len(cfg.Units))
	for i, entry := range cfg.Units {
		units[i].entry = entry
		emit(opts.Progress, Event{Unit: entry.Name, Stage: StageLoad, Status: StatusQueued})
		id, err := fs.Load(entry.Path)
		if err != nil {
			units[i].loadErr = err
			continue
		}
		units[i].source = id
	}
	// Scanning shares the file set; parsing may add virtual files to it.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scanUnit(fs, &units[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &BuildResult{FileSet: fs, Units: make([]*UnitResult, len(units))}
	metas := make([]project.UnitMeta, len(units))
	nodes := make([]dag.UnitNode, len(units))
	for i := range units {
		u := &units[i]
		bag := diag.NewBag(opts.maxDiagnostics())
		res.Units[i] = &UnitResult{Name: u.entry.Name, Path: u.entry.Path, Source: u.source, Bag: bag}
		if u.loadErr != nil {
			diag.ReportError(diag.BagReporter{Bag: bag}, diag.IOLoadFileError, source.Span{}, u.loadErr.Error()).Emit()
			finish(res.Units[i])
		}
		metas[i] = u.meta
		nodes[i] = dag.UnitNode{
			Meta:     u.meta,
			Reporter: diag.BagReporter{Bag: bag},
			Broken:   res.Units[i].Broken,
			FirstErr: res.Units[i].FirstErr,
		}
	}

	idx := dag.BuildIndex(metas)
	graph, slots := dag.BuildGraph(idx, nodes)
	topo := dag.ToposortKahn(graph)
	dag.ReportCycles(idx, slots, topo)
	ComputeUnitHashes(graph, slots, topo)

	// byID maps unit IDs to results. Duplicate names keep the first unit.
	byID := make([]*UnitResult, len(idx.IDToName))
	byIndex := make([]int, len(idx.IDToName))
	for i := len(units) - 1; i >= 0; i-- {
		id := idx.NameToID[units[i].entry.Name]
		byID[int(id)] = res.Units[i]
		byIndex[int(id)] = i
	}

	for _, batch := range topo.Batches {
		names := make([]string, len(batch))
		for i, id := range batch {
			names[i] = idx.IDToName[int(id)]
		}
		res.Waves = append(res.Waves, names)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(jobs)
		for _, id := range batch {
			ur := byID[int(id)]
			u := &units[byIndex[int(id)]]
			if u.loadErr != nil {
				continue
			}
			deps := dependencies(idx, graph, topo, byID, id)
			key := export.Digest(slots[int(id)].Meta.UnitHash)
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				runUnit(gctx, fs, ur, u.source, deps, key, opts)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for _, id := range batch {
			ur := byID[int(id)]
			slots[int(id)].Broken = ur.Broken
			slots[int(id)].FirstErr = ur.FirstErr
		}
	}

	dag.ReportBrokenDeps(idx, slots)
	for i, ur := range res.Units {
		if topo.Cyclic && slices.Contains(topo.Cycles, idx.NameToID[ur.Name]) {
			emit(opts.Progress, Event{Unit: ur.Name, Stage: StageDeclare, Status: StatusError, Err: errImportCycle})
		}
		if units[i].loadErr != nil {
			emit(opts.Progress, Event{Unit: ur.Name, Stage: StageLoad, Status: StatusError, Err: units[i].loadErr})
		}
		finish(ur)
	}
	return res, nil
}

var errImportCycle = errors.New("unit is part of an import cycle")

// scanUnit parses the unit file into a throwaway tree to learn its imports.
// Imports listed in the configuration add to the ones the file declares.
func scanUnit(fs *source.FileSet, u *scanned) {
	u.meta = project.UnitMeta{Name: u.entry.Name, Path: u.entry.Path}
	if u.loadErr != nil {
		return
	}
	f := fs.Get(u.source)
	u.meta.Span = source.Span{File: u.source}
	u.meta.ContentHash = project.HashContent(f.Content)

	parsed, _ := unitfile.Parse(fs, u.source, ast.NewBuilder(ast.Hints{}), unitfile.Options{Reporter: diag.NopReporter{}})
	seen := make(map[string]bool)
	for _, imp := range parsed.Imports {
		if !seen[imp.Name] {
			seen[imp.Name] = true
			u.meta.Imports = append(u.meta.Imports, project.ImportMeta{Name: imp.Name, Span: imp.Span})
		}
	}
	for _, name := range u.entry.Imports {
		if !seen[name] {
			seen[name] = true
			u.meta.Imports = append(u.meta.Imports, project.ImportMeta{Name: name, Span: u.meta.Span})
		}
	}
}

// dependencies collects the transitive imports of id in build order.
func dependencies(idx dag.UnitIndex, g dag.Graph, topo *dag.Topo, byID []*UnitResult, id dag.UnitID) []Dependency {
	reach := make(map[dag.UnitID]bool)
	stack := append([]dag.UnitID(nil), g.Deps[int(id)]...)
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reach[top] {
			continue
		}
		reach[top] = true
		stack = append(stack, g.Deps[int(top)]...)
	}
	var deps []Dependency
	for _, dep := range topo.Order {
		if !reach[dep] {
			continue
		}
		ur := byID[int(dep)]
		if ur == nil || ur.Source == 0 {
			continue
		}
		deps = append(deps, Dependency{Name: idx.IDToName[int(dep)], Source: ur.Source, Archive: ur.Archive})
	}
	return deps
}

// runUnit checks one unit, or reuses its cached archive when the unit and
// everything it imports are unchanged.
func runUnit(ctx context.Context, fs *source.FileSet, ur *UnitResult, file source.FileID, deps []Dependency, key export.Digest, opts Options) {
	started := time.Now()
	if opts.Cache != nil {
		a, broken, ok, err := opts.Cache.Get(key)
		switch {
		case err != nil:
			diag.ReportWarning(diag.BagReporter{Bag: ur.Bag}, diag.IOCacheError, source.Span{}, fmt.Sprintf("failed to read cache entry %s: %v", key, err)).Emit()
		case ok && !broken:
			ur.Archive = a
			ur.Cached = true
			finish(ur)
			ur.Elapsed = time.Since(started)
			emit(opts.Progress, Event{Unit: ur.Name, Stage: StageExport, Status: StatusCached, Elapsed: ur.Elapsed})
			return
		}
	}

	emit(opts.Progress, Event{Unit: ur.Name, Stage: StageBind, Status: StatusWorking})
	checked := checkUnit(ctx, fs, file, ur.Name, deps, ur.Bag, opts)
	ur.Session = checked.Session
	ur.Archive = checked.Archive
	ur.Broken = checked.Broken
	ur.FirstErr = checked.FirstErr
	ur.Elapsed = checked.Elapsed

	if opts.Cache != nil && ur.Archive != nil {
		if err := opts.Cache.Put(key, ur.Archive, ur.Broken); err != nil {
			diag.ReportWarning(diag.BagReporter{Bag: ur.Bag}, diag.IOCacheError, source.Span{}, fmt.Sprintf("failed to write cache entry %s: %v", key, err)).Emit()
		}
	}
	status := StatusDone
	var err error
	if ur.Broken {
		status = StatusError
		err = fmt.Errorf("unit %s has errors", ur.Name)
	}
	emit(opts.Progress, Event{Unit: ur.Name, Stage: StageExport, Status: status, Err: err, Elapsed: ur.Elapsed})
}
