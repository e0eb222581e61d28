package sema

import (
	"strings"
	"testing"

	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/source"
	"github.com/slaakko/cmajor-sub007/internal/symbols"
	"github.com/slaakko/cmajor-sub007/internal/types"
	"github.com/slaakko/cmajor-sub007/internal/unitfile"
)

type fixture struct {
	t   *testing.T
	fs  *source.FileSet
	b   *ast.Builder
	bag *diag.Bag
	s   *Session
}

// declareUnit parses text as a unit file and runs the declaration pass.
func declareUnit(t *testing.T, text string, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		t:   t,
		fs:  source.NewFileSet(),
		b:   ast.NewBuilder(ast.Hints{}),
		bag: diag.NewBag(100),
	}
	id := f.fs.AddVirtual("test"+unitfile.Extension, []byte(text))
	u, ok := unitfile.Parse(f.fs, id, f.b, unitfile.Options{Reporter: diag.BagReporter{Bag: f.bag}})
	if !ok {
		t.Fatalf("unit did not parse: %v", f.messages())
	}
	opts.Reporter = diag.BagReporter{Bag: f.bag}
	f.s = NewSession(f.b, opts)
	f.s.Binder().DeclareFile(u.File)
	return f
}

// bindUnit runs both binder passes over text.
func bindUnit(t *testing.T, text string) *fixture {
	t.Helper()
	f := declareUnit(t, text, Options{})
	f.s.Binder().BindBodies()
	return f
}

func (f *fixture) messages() []string {
	var out []string
	for _, d := range f.bag.Items() {
		out = append(out, d.Code.ID()+": "+d.Message)
	}
	return out
}

func (f *fixture) expectClean() {
	f.t.Helper()
	if f.bag.Len() != 0 {
		f.t.Fatalf("unexpected diagnostics: %v", f.messages())
	}
}

// expectCode returns the only diagnostic and checks its code.
func (f *fixture) expectCode(code diag.Code) diag.Diagnostic {
	f.t.Helper()
	items := f.bag.Items()
	if len(items) != 1 {
		f.t.Fatalf("expected one diagnostic %s, got %v", code.ID(), f.messages())
	}
	if items[0].Code != code {
		f.t.Fatalf("expected %s, got %v", code.ID(), f.messages())
	}
	return items[0]
}

// calls renders the signature of every recorded call.
func (f *fixture) calls() []string {
	var out []string
	for _, c := range f.s.Binder().Calls() {
		out = append(out, f.s.Signature(c.Func))
	}
	return out
}

func (f *fixture) expectCall(sig string) {
	f.t.Helper()
	for _, c := range f.calls() {
		if c == sig {
			return
		}
	}
	f.t.Fatalf("no call to %s in %v", sig, f.calls())
}

func (f *fixture) symbol(name string) symbols.SymbolID {
	f.t.Helper()
	ids := f.s.Table.LookupQualified(f.s.Table.Root(), name)
	if len(ids) == 0 {
		f.t.Fatalf("symbol %s not found", name)
	}
	return ids[0]
}

func (f *fixture) basic(k types.Kind) types.TypeID {
	return f.s.Types.Basic(k)
}

func (f *fixture) request() Request {
	return Request{Scope: f.s.Table.Root()}
}

func (f *fixture) instantiate(subject string, args ...types.TypeID) *Instantiation {
	f.t.Helper()
	inst, err := f.s.Engine().EnsureInstantiated(f.symbol(subject), args, f.request())
	if err != nil {
		f.t.Fatalf("instantiating %s: %v", subject, err)
	}
	return inst
}

// member returns the member function of inst named name.
func (f *fixture) member(inst *Instantiation, name string) symbols.SymbolID {
	f.t.Helper()
	for _, id := range inst.Members {
		if f.s.Table.Symbol(id).Name == name {
			return id
		}
	}
	f.t.Fatalf("%s has no member %s", inst.Name, name)
	return symbols.NoSymbolID
}

func expectSemaError(t *testing.T, err error, code diag.Code) *Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got no error", code.ID())
	}
	se, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if se.Code != code {
		t.Fatalf("expected %s, got %v", code.ID(), se)
	}
	return se
}

func hasNote(e *Error, text string) bool {
	for _, n := range e.Notes {
		if strings.Contains(n.Msg, text) {
			return true
		}
	}
	return false
}
