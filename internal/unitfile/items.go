package unitfile

import (
	"strings"

	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/parser"
	"github.com/slaakko/cmajor-sub007/internal/source"
)

type loader struct {
	b      *ast.Builder
	opts   parser.Options
	loc    *locator
	file   ast.FileID
	ns     map[string]ast.ItemID
	failed bool
}

var functionKinds = map[string]ast.FnFlags{
	"":            0,
	"function":    0,
	"constructor": ast.FnConstructor,
	"destructor":  ast.FnDestructor,
	"conversion":  ast.FnConversion,
}

var functionFlags = map[string]ast.FnFlags{
	"static":     ast.FnStatic,
	"virtual":    ast.FnVirtual,
	"override":   ast.FnOverride,
	"abstract":   ast.FnAbstract,
	"const":      ast.FnConst,
	"explicit":   ast.FnExplicit,
	"default":    ast.FnDefault,
	"suppressed": ast.FnSuppressed,
	"nothrow":    ast.FnNothrow,
}

func (l *loader) report(code diag.Code, sp source.Span, msg string) {
	l.failed = true
	if l.opts.Reporter == nil {
		return
	}
	l.opts.CurrentErrors++
	if l.opts.Enough() {
		return
	}
	l.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
}

// push places a top-level item into its namespace, creating namespace items
// on first use.
func (l *loader) push(namespace string, item ast.ItemID) {
	if namespace == "" {
		l.b.PushItem(l.file, item)
		return
	}
	l.b.AddChild(l.namespace(namespace), item)
}

func (l *loader) namespace(path string) ast.ItemID {
	if id, ok := l.ns[path]; ok {
		return id
	}
	parent := ast.NoItemID
	name := path
	if dot := strings.LastIndexByte(path, '.'); dot >= 0 {
		parent = l.namespace(path[:dot])
		name = path[dot+1:]
	}
	id := l.b.NewItem(ast.Item{Kind: ast.ItemNamespace, Name: name, Span: l.loc.spanOf(path)})
	if parent.IsValid() {
		l.b.AddChild(parent, id)
	} else {
		l.b.PushItem(l.file, id)
	}
	l.ns[path] = id
	return id
}

func (l *loader) requireName(name, what string) (source.Span, bool) {
	if name == "" {
		l.report(diag.UnitMissingName, l.loc.here(), what+" without a name")
		return source.Span{}, false
	}
	return l.loc.enter(name), true
}

func (l *loader) class(c *classEntry, nested bool) (ast.ItemID, bool) {
	sp, ok := l.requireName(c.Name, "class")
	if !ok {
		return ast.NoItemID, false
	}
	if nested && c.Namespace != "" {
		l.report(diag.UnitSyntax, l.loc.spanOf(c.Namespace), "nested class '"+c.Name+"' cannot declare a namespace")
	}
	it := ast.Item{Kind: ast.ItemClass, Name: c.Name, Span: sp}
	good := true

	names := make(map[string]bool, len(c.TypeParams))
	for _, text := range c.TypeParams {
		tp, ok := parser.TypeParam(l.b, l.loc.fragment(text, "type_param"), &l.opts)
		if !ok {
			l.failed = true
			good = false
			continue
		}
		if names[tp.Name] {
			l.report(diag.UnitDuplicateEntry, tp.Span, "duplicate type parameter '"+tp.Name+"'")
			good = false
			continue
		}
		names[tp.Name] = true
		it.TypeParams = append(it.TypeParams, tp)
	}
	if c.Constraint != "" {
		if len(c.TypeParams) == 0 {
			l.report(diag.UnitBadConstraint, l.loc.spanOf(c.Constraint), "constraint on non-generic class '"+c.Name+"'")
			good = false
		} else if id, ok := parser.Constraint(l.b, l.loc.fragment(c.Constraint, "constraint"), &l.opts); ok {
			it.Constraint = id
		} else {
			l.failed = true
			good = false
		}
	}
	if c.Base != "" {
		if id, ok := parser.Type(l.b, l.loc.fragment(c.Base, "base"), &l.opts); ok {
			it.Base = id
		} else {
			l.failed = true
			good = false
		}
	}

	for i := range c.Vars {
		if id, ok := l.variable(&c.Vars[i]); ok {
			it.Children = append(it.Children, id)
		}
	}
	for i := range c.Functions {
		if id, ok := l.function(&c.Functions[i], c.Name); ok {
			it.Children = append(it.Children, id)
		}
	}
	for i := range c.Classes {
		if id, ok := l.class(&c.Classes[i], true); ok {
			it.Children = append(it.Children, id)
		}
	}
	for i := range c.Enums {
		if id, ok := l.enum(&c.Enums[i]); ok {
			it.Children = append(it.Children, id)
		}
	}
	if !good {
		return ast.NoItemID, false
	}
	return l.b.NewItem(it), true
}

func (l *loader) variable(v *varEntry) (ast.ItemID, bool) {
	sp, ok := l.requireName(v.Name, "variable")
	if !ok {
		return ast.NoItemID, false
	}
	if v.Type == "" {
		l.report(diag.UnitBadTypeExpr, sp, "variable '"+v.Name+"' has no type")
		return ast.NoItemID, false
	}
	t, ok := parser.Type(l.b, l.loc.fragment(v.Type, "type"), &l.opts)
	if !ok {
		l.failed = true
		return ast.NoItemID, false
	}
	return l.b.NewItem(ast.Item{Kind: ast.ItemVariable, Name: v.Name, Span: sp, Type: t}), true
}

func (l *loader) enum(e *enumEntry) (ast.ItemID, bool) {
	sp, ok := l.requireName(e.Name, "enum")
	if !ok {
		return ast.NoItemID, false
	}
	it := ast.Item{Kind: ast.ItemEnum, Name: e.Name, Span: sp, Constants: e.Constants}
	if e.Underlying != "" {
		t, ok := parser.Type(l.b, l.loc.fragment(e.Underlying, "underlying"), &l.opts)
		if !ok {
			l.failed = true
			return ast.NoItemID, false
		}
		it.Type = t
	}
	seen := make(map[string]bool, len(e.Constants))
	for _, c := range e.Constants {
		if seen[c] {
			l.report(diag.UnitDuplicateEntry, l.loc.spanOf(c), "duplicate enum constant '"+c+"'")
			return ast.NoItemID, false
		}
		seen[c] = true
	}
	return l.b.NewItem(it), true
}

// function builds a function item. class is the enclosing class name, empty
// for free functions.
func (l *loader) function(fn *functionEntry, class string) (ast.ItemID, bool) {
	kind, ok := functionKinds[fn.Kind]
	if !ok {
		l.report(diag.UnitUnknownKind, l.loc.spanOf(fn.Kind), "unknown function kind '"+fn.Kind+"'")
		return ast.NoItemID, false
	}
	name := fn.Name
	switch {
	case kind == ast.FnConstructor && name == "":
		name = class
	case kind == ast.FnDestructor && name == "":
		name = "~" + class
	case kind == ast.FnConversion && name == "":
		name = "operator " + fn.Result
	}
	var sp source.Span
	if fn.Name != "" {
		sp = l.loc.enter(fn.Name)
	} else if name != "" {
		sp = l.loc.enter(fn.Kind)
	} else {
		l.report(diag.UnitMissingName, l.loc.here(), "function without a name")
		return ast.NoItemID, false
	}
	if kind != 0 && class == "" {
		l.report(diag.UnitUnknownKind, sp, fn.Kind+" '"+name+"' declared outside a class")
		return ast.NoItemID, false
	}
	if kind == ast.FnConversion && fn.Result == "" {
		l.report(diag.UnitBadTypeExpr, sp, "conversion function needs a result type")
		return ast.NoItemID, false
	}

	it := ast.Item{Kind: ast.ItemFunction, Name: name, Span: sp, Flags: kind}
	for _, f := range fn.Flags {
		flag, ok := functionFlags[f]
		if !ok {
			l.report(diag.UnitUnknownKind, l.loc.spanOf(f), "unknown function flag '"+f+"'")
			return ast.NoItemID, false
		}
		it.Flags |= flag
	}
	good := true
	for _, text := range fn.Params {
		p, ok := parser.Param(l.b, l.loc.fragment(text, "param"), &l.opts)
		if !ok {
			l.failed = true
			good = false
			continue
		}
		it.Params = append(it.Params, p)
	}
	if fn.Result != "" {
		t, ok := parser.Type(l.b, l.loc.fragment(fn.Result, "result"), &l.opts)
		if !ok {
			l.failed = true
			good = false
		}
		it.Result = t
	}
	if fn.Body != nil {
		it.HasBody = true
		if strings.TrimSpace(*fn.Body) != "" {
			body, ok := parser.Body(l.b, l.loc.fragment(*fn.Body, "body"), &l.opts)
			if !ok {
				l.failed = true
				good = false
			}
			it.Body = body
		}
	}
	if !good {
		return ast.NoItemID, false
	}
	return l.b.NewItem(it), true
}
