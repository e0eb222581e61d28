package ast

// CloneContext drives Clone.
type CloneContext struct {
	// Instance marks the clone as part of a generic instantiation.
	Instance bool
	// Params maps type-parameter names to placeholder slots. Unqualified,
	// argument-free type names found here become TypeExprPlaceholder.
	Params map[string]int
	// SkipBodies leaves function bodies out; member bodies are cloned one at
	// a time when they are first bound.
	SkipBodies bool
}

// Clone deep-copies item and its children. Arena pointers are not held across
// allocations because the arenas may grow while cloning.
func (b *Builder) Clone(item ItemID, ctx CloneContext) ItemID {
	src := b.Item(item)
	if src == nil {
		return NoItemID
	}
	it := *src
	it.Origin = item
	it.Instance = ctx.Instance
	it.Children = nil
	it.Base = b.cloneType(src.Base, ctx)
	it.Result = b.cloneType(it.Result, ctx)
	it.Type = b.cloneType(it.Type, ctx)
	it.Constraint = b.cloneConstraint(it.Constraint, ctx)

	if len(it.TypeParams) > 0 {
		tps := make([]TypeParam, len(it.TypeParams))
		for i, tp := range it.TypeParams {
			tp.Default = b.cloneType(tp.Default, ctx)
			tps[i] = tp
		}
		it.TypeParams = tps
	}
	if len(it.Params) > 0 {
		ps := make([]Param, len(it.Params))
		for i, p := range it.Params {
			p.Type = b.cloneType(p.Type, ctx)
			ps[i] = p
		}
		it.Params = ps
	}
	body := it.Body
	it.Body = nil
	if !ctx.SkipBodies && len(body) > 0 {
		it.Body = make([]StmtID, 0, len(body))
		for _, s := range body {
			it.Body = append(it.Body, b.cloneStmt(s, ctx))
		}
	}
	children := append([]ItemID(nil), src.Children...)
	id := b.NewItem(it)
	for _, child := range children {
		b.AddChild(id, b.Clone(child, ctx))
	}
	return id
}

func (b *Builder) cloneType(id TypeExprID, ctx CloneContext) TypeExprID {
	src := b.Type(id)
	if src == nil {
		return NoTypeExprID
	}
	t := *src
	switch t.Kind {
	case TypeExprName:
		if slot, ok := ctx.Params[t.Name]; ok {
			return b.NewType(TypeExpr{Kind: TypeExprPlaceholder, Name: t.Name, Slot: slot, Span: t.Span})
		}
	case TypeExprGeneric:
		args := make([]TypeExprID, len(t.Args))
		for i, a := range t.Args {
			args[i] = b.cloneType(a, ctx)
		}
		t.Args = args
	case TypeExprDerived:
		t.Elem = b.cloneType(t.Elem, ctx)
	}
	return b.NewType(t)
}

func (b *Builder) cloneExprs(ids []ExprID, ctx CloneContext) []ExprID {
	if ids == nil {
		return nil
	}
	out := make([]ExprID, len(ids))
	for i, e := range ids {
		out[i] = b.cloneExpr(e, ctx)
	}
	return out
}

func (b *Builder) cloneExpr(id ExprID, ctx CloneContext) ExprID {
	src := b.Expr(id)
	if src == nil {
		return NoExprID
	}
	e := *src
	e.X = b.cloneExpr(e.X, ctx)
	e.Y = b.cloneExpr(e.Y, ctx)
	e.Args = b.cloneExprs(e.Args, ctx)
	e.Type = b.cloneType(e.Type, ctx)
	if e.Kind == ExprCall {
		// T(x) with T a type parameter is a construction.
		if slot, ok := ctx.Params[e.Name]; ok {
			e.Kind = ExprConstruct
			e.Type = b.NewType(TypeExpr{Kind: TypeExprPlaceholder, Name: e.Name, Slot: slot, Span: e.Span})
		}
	}
	return b.NewExpr(e)
}

func (b *Builder) cloneStmt(id StmtID, ctx CloneContext) StmtID {
	src := b.Stmt(id)
	if src == nil {
		return NoStmtID
	}
	s := *src
	s.Type = b.cloneType(s.Type, ctx)
	s.Init = b.cloneExpr(s.Init, ctx)
	s.CtorArgs = b.cloneExprs(s.CtorArgs, ctx)
	s.X = b.cloneExpr(s.X, ctx)
	return b.NewStmt(s)
}

func (b *Builder) cloneConstraint(id ConstraintID, ctx CloneContext) ConstraintID {
	src := b.Constraint(id)
	if src == nil {
		return NoConstraintID
	}
	c := *src
	c.Left = b.cloneConstraint(c.Left, ctx)
	c.Right = b.cloneConstraint(c.Right, ctx)
	if len(c.Args) > 0 {
		args := make([]TypeExprID, len(c.Args))
		for i, a := range c.Args {
			args[i] = b.cloneType(a, ctx)
		}
		c.Args = args
	}
	return b.NewConstraint(c)
}

// CloneBody clones the body of function item fn into a fresh statement list.
func (b *Builder) CloneBody(fn ItemID, ctx CloneContext) []StmtID {
	src := b.Item(fn)
	if src == nil || len(src.Body) == 0 {
		return nil
	}
	body := append([]StmtID(nil), src.Body...)
	out := make([]StmtID, 0, len(body))
	for _, s := range body {
		out = append(out, b.cloneStmt(s, ctx))
	}
	return out
}
