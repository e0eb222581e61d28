package ast

import (
	"github.com/slaakko/cmajor-sub007/internal/source"
)

type Hints struct{ Items, Stmts, Exprs, Types uint }

type File struct {
	Source source.FileID
	Path   string
	Unit   string
	Items  []ItemID
}

// Builder owns every syntax-tree arena of one compilation unit.
type Builder struct {
	Files       *Arena[File]
	Items       *Arena[Item]
	Stmts       *Arena[Stmt]
	Exprs       *Arena[Expr]
	Types       *Arena[TypeExpr]
	Constraints *Arena[Constraint]
}

func NewBuilder(hints Hints) *Builder {
	if hints.Items == 0 {
		hints.Items = 1 << 7
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if hints.Types == 0 {
		hints.Types = 1 << 8
	}
	return &Builder{
		Files:       NewArena[File](4),
		Items:       NewArena[Item](hints.Items),
		Stmts:       NewArena[Stmt](hints.Stmts),
		Exprs:       NewArena[Expr](hints.Exprs),
		Types:       NewArena[TypeExpr](hints.Types),
		Constraints: NewArena[Constraint](16),
	}
}

func (b *Builder) NewFile(src source.FileID, path, unit string) FileID {
	return FileID(b.Files.Allocate(File{Source: src, Path: path, Unit: unit}))
}

func (b *Builder) File(id FileID) *File { return b.Files.Get(uint32(id)) }

func (b *Builder) NewItem(it Item) ItemID { return ItemID(b.Items.Allocate(it)) }

func (b *Builder) Item(id ItemID) *Item { return b.Items.Get(uint32(id)) }

// PushItem appends item to the top level of file.
func (b *Builder) PushItem(file FileID, item ItemID) {
	if f := b.File(file); f != nil {
		f.Items = append(f.Items, item)
	}
}

// AddChild appends child to a namespace or class item.
func (b *Builder) AddChild(parent, child ItemID) {
	if p := b.Item(parent); p != nil {
		p.Children = append(p.Children, child)
	}
}

func (b *Builder) NewStmt(s Stmt) StmtID { return StmtID(b.Stmts.Allocate(s)) }

func (b *Builder) Stmt(id StmtID) *Stmt { return b.Stmts.Get(uint32(id)) }

func (b *Builder) NewExpr(e Expr) ExprID { return ExprID(b.Exprs.Allocate(e)) }

func (b *Builder) Expr(id ExprID) *Expr { return b.Exprs.Get(uint32(id)) }

func (b *Builder) NewType(t TypeExpr) TypeExprID { return TypeExprID(b.Types.Allocate(t)) }

func (b *Builder) Type(id TypeExprID) *TypeExpr { return b.Types.Get(uint32(id)) }

func (b *Builder) NewConstraint(c Constraint) ConstraintID {
	return ConstraintID(b.Constraints.Allocate(c))
}

func (b *Builder) Constraint(id ConstraintID) *Constraint {
	return b.Constraints.Get(uint32(id))
}

// NameType is a shortcut for a simple named type expression.
func (b *Builder) NameType(name string, sp source.Span) TypeExprID {
	return b.NewType(TypeExpr{Kind: TypeExprName, Name: name, Span: sp})
}
