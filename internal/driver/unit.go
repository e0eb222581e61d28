// Package driver checks compilation units. Every unit gets private
// symbol, type and conversion tables; instantiations travel between units
// only as export archives.
package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/export"
	"github.com/slaakko/cmajor-sub007/internal/sema"
	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/trace"
	"github.com/slaakko/cmajor-sub007/internal/unitfile"
)

const defaultMaxDiagnostics = 100

// Options configure CheckUnit and Build. The zero value is usable.
type Options struct {
	MaxDiagnostics int
	// MaxDepth bounds nested instantiation; zero keeps the resolver default.
	MaxDepth int
	// Jobs limits concurrently checked units; zero means GOMAXPROCS.
	Jobs int
	// Cache stores unit archives between runs. Nil disables caching.
	Cache    *export.DiskCache
	Progress ProgressSink
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return defaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

// Dependency is an imported unit: the file whose declarations become
// visible and the archive of the instantiations it owns.
type Dependency struct {
	Name    string
	Source  source.FileID
	Archive *export.Archive
}

// UnitResult is the outcome of checking one unit.
type UnitResult struct {
	Name     string
	Path     string
	Source   source.FileID
	Bag      *diag.Bag
	Session  *sema.Session // nil for cached or skipped units
	Archive  *export.Archive
	Broken   bool
	FirstErr *diag.Diagnostic
	Cached   bool
	Elapsed  time.Duration
}

// CheckUnit runs both binder passes over file. Declarations of deps are
// visible and their archives are imported before any body is bound, so
// their instantiations are reused instead of rebound.
func CheckUnit(ctx context.Context, fs *source.FileSet, file source.FileID, deps []Dependency, opts Options) *UnitResult {
	return checkUnit(ctx, fs, file, "", deps, diag.NewBag(opts.maxDiagnostics()), opts)
}

func checkUnit(ctx context.Context, fs *source.FileSet, file source.FileID, name string, deps []Dependency, bag *diag.Bag, opts Options) (res *UnitResult) {
	started := time.Now()
	f := fs.Get(file)
	res = &UnitResult{Name: name, Source: file, Bag: bag}
	if f != nil {
		res.Path = f.Path
	}
	// Duplicates would otherwise count against the bag limit.
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	tracer := trace.FromContext(ctx)
	b := ast.NewBuilder(ast.Hints{})
	u, _ := unitfile.Parse(fs, file, b, unitfile.Options{Reporter: reporter})
	if res.Name == "" {
		res.Name = u.Name
	}
	span := trace.Begin(tracer, trace.ScopeUnit, "unit:"+res.Name, trace.ParentFromContext(ctx))

	s := sema.NewSession(b, sema.Options{
		MaxDepth:    opts.MaxDepth,
		Reporter:    reporter,
		Tracer:      tracer,
		TraceParent: span.ID(),
	})
	res.Session = s

	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(sema.InvariantError)
			if !ok {
				panic(r)
			}
			diag.NewReportBuilder(reporter, diag.SevFatal, diag.SemaInternal, source.Span{File: file}, ie.Error()).
				WithNote(source.Span{}, fmt.Sprintf("checking of unit '%s' was aborted", res.Name)).
				Emit()
			res.Archive = nil
		}
		finish(res)
		res.Elapsed = time.Since(started)
		span.End(fmt.Sprintf("errors=%d", bag.Count(diag.SevError)))
	}()

	// Imported declarations belong to their own units; their diagnostics
	// were reported there.
	for _, dep := range deps {
		du, _ := unitfile.Parse(fs, dep.Source, b, unitfile.Options{Reporter: diag.NopReporter{}})
		s.Binder().DeclareFile(du.File)
	}
	own := len(s.Binder().Functions())
	s.Binder().DeclareFile(u.File)

	importSpans := make(map[string]source.Span, len(u.Imports))
	for _, imp := range u.Imports {
		importSpans[imp.Name] = imp.Span
	}
	for _, dep := range deps {
		if dep.Archive == nil {
			continue
		}
		if err := s.Engine().ImportArchive(dep.Archive, importSpans[dep.Name]); err != nil {
			s.Report(err)
		}
	}

	if ctx.Err() != nil {
		return res
	}
	for _, fn := range s.Binder().Functions()[own:] {
		s.Binder().BindBody(fn)
	}
	res.Archive = s.Engine().ExportAll(res.Name)
	return res
}

// finish sorts the diagnostics and records the first error.
func finish(res *UnitResult) {
	res.Bag.Sort()
	res.Bag.Dedup()
	res.Broken = res.Bag.HasErrors()
	for _, d := range res.Bag.Items() {
		if d.Severity >= diag.SevError {
			first := d
			res.FirstErr = &first
			break
		}
	}
}
