package generator

import (
	"github.com/ccqual/ccqual/internal/cast"
	"github.com/ccqual/ccqual/internal/qual"
)

// visitExpr is cvs_of combined with the generic traversal: it returns
// the CVs e denotes (possibly none) and, along the way, emits every
// constraint that spec.md §4.3 attaches to the construct it finds —
// pointer arithmetic, subscripting, and standalone casts.
func (g *Generator) visitExpr(e cast.Expr) []qual.CV {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case *cast.Ident:
		return g.cvsOfIdent(v)
	case *cast.IntLit, *cast.StringLit:
		return nil
	case *cast.UnaryExpr:
		return g.visitUnary(v)
	case *cast.PostfixExpr:
		cvs := g.visitExpr(v.X)
		g.emitPointerArith(cvs, v.Loc)
		return cvs
	case *cast.BinaryExpr:
		xcvs := g.visitExpr(v.X)
		ycvs := g.visitExpr(v.Y)
		if v.IsPointerArith() {
			g.emitPointerArith(xcvs, v.Loc)
			g.emitPointerArith(ycvs, v.Loc)
		}
		return nil
	case *cast.IndexExpr:
		xcvs := g.visitExpr(v.X)
		g.visitExpr(v.Index)
		g.emitSubscript(xcvs, v.Loc)
		return xcvs
	case *cast.CallExpr:
		return g.visitCall(v)
	case *cast.CastExpr:
		return g.visitStandaloneCast(v)
	case *cast.AssignExpr:
		return g.visitAssignExpr(v)
	case *cast.SizeofExpr:
		return nil
	default:
		return nil
	}
}

func (g *Generator) cvsOfIdent(id *cast.Ident) []qual.CV {
	if id.Decl == nil {
		return nil
	}
	switch d := id.Decl.(type) {
	case *cast.VarDecl:
		return g.info.CVsAt(d.Loc)
	case *cast.FuncDecl:
		return g.info.CVsAt(d.Loc)
	default:
		return nil
	}
}

func (g *Generator) visitUnary(v *cast.UnaryExpr) []qual.CV {
	switch v.Op {
	case "&":
		g.visitExpr(v.X) // walk for nested side effects only
		return nil
	case "*":
		return g.visitExpr(v.X)
	case "++", "--":
		cvs := g.visitExpr(v.X)
		g.emitPointerArith(cvs, v.Loc)
		return cvs
	default:
		g.visitExpr(v.X)
		return nil
	}
}

// visitStandaloneCast implements spec.md §4.3's "C-style cast visited
// standalone" rule: a cast not already consumed by the richer
// assignment-specific rule (visitAssignExpr / assignRHSToCVs) forces
// its operand to Wild whenever source and destination disagree.
func (g *Generator) visitStandaloneCast(v *cast.CastExpr) []qual.CV {
	inner := g.visitExpr(v.X)
	srcType := g.exprStaticType(v.X)
	if !cast.StructurallyEqual(srcType, v.Type) {
		g.forceWildCVs(inner, v.Loc, "cast type mismatch")
	}
	return inner
}

// exprStaticType is a best-effort lookup of the declared (unsolved)
// type of an expression, used only to decide whether a cast's source
// and destination are structurally equal.
func (g *Generator) exprStaticType(e cast.Expr) cast.Type {
	switch v := e.(type) {
	case *cast.Ident:
		switch d := v.Decl.(type) {
		case *cast.VarDecl:
			return d.Type
		case *cast.FuncDecl:
			return d.Type.Return
		}
	case *cast.CallExpr:
		if fd, ok := v.Fun.(*cast.Ident); ok {
			if f, ok2 := fd.Decl.(*cast.FuncDecl); ok2 {
				return f.Type.Return
			}
		}
	case *cast.CastExpr:
		return v.Type
	case *cast.IntLit:
		return &cast.BaseType{Name: "int"}
	case *cast.StringLit:
		return &cast.PointerType{Elem: &cast.BaseType{Name: "char"}}
	case *cast.UnaryExpr:
		if v.Op == "&" {
			return &cast.PointerType{Elem: g.exprStaticType(v.X)}
		}
		if v.Op == "*" {
			if pt, ok := g.exprStaticType(v.X).(*cast.PointerType); ok {
				return pt.Elem
			}
		}
	}
	return nil
}
