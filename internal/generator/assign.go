package generator

import (
	"github.com/ccqual/ccqual/internal/cast"
	"github.com/ccqual/ccqual/internal/qual"
	"github.com/ccqual/ccqual/internal/srcloc"
)

// visitAssignExpr handles `lhs = rhs` and the compound forms.
func (g *Generator) visitAssignExpr(a *cast.AssignExpr) []qual.CV {
	lhsCVs := g.visitExpr(a.LHS)

	if a.IsCompoundArith() {
		g.emitPointerArith(lhsCVs, a.Loc)
		g.visitExpr(a.RHS)
		return lhsCVs
	}
	if a.Op != "=" {
		g.visitExpr(a.RHS)
		return lhsCVs
	}

	lhsType := g.exprStaticType(a.LHS)
	g.assignRHSToCVs(lhsCVs, lhsType, a.RHS, a.Loc)
	return lhsCVs
}

// assignRHSToCVs implements spec.md §4.3's Assignment rule against an
// arbitrary target CV set V (the same logic backs plain `=`,
// initializers, call arguments, and `return`).
func (g *Generator) assignRHSToCVs(v []qual.CV, lhsType cast.Type, rhs cast.Expr, loc srcloc.Loc) {
	if rhs == nil {
		return
	}
	if len(v) == 0 {
		g.visitExpr(rhs)
		return
	}

	switch rv := rhs.(type) {
	case *cast.CastExpr:
		innerCVs := g.visitExpr(rv.X)
		srcType := g.exprStaticType(rv.X)
		g.applyCastAssignmentRule(v, lhsType, rv, innerCVs, srcType, loc)
		return
	case *cast.IntLit:
		if !rv.IsNullConstant() {
			g.forceWildCVs(v, loc, "non-null integer assigned to pointer")
		}
		return
	case *cast.UnaryExpr:
		if rv.Op == "&" {
			g.visitExpr(rv.X)
			return
		}
	}

	w := g.visitExpr(rhs)
	if len(w) > 0 {
		g.constrainEqSets(v, w, loc, "assignment")
	}
}

// applyCastAssignmentRule is the cast branch of the Assignment rule:
// structurally-equal casts propagate equality, the malloc/sizeof
// special case adds no constraint at all, and everything else forces
// both sides to Wild.
func (g *Generator) applyCastAssignmentRule(v []qual.CV, lhsType cast.Type, ce *cast.CastExpr, innerCVs []qual.CV, srcType cast.Type, loc srcloc.Loc) {
	if isSafeMallocSizeofAssign(ce, lhsType) {
		return
	}
	if cast.StructurallyEqual(srcType, ce.Type) {
		g.constrainEqSets(v, innerCVs, loc, "cast with structurally equal types")
		return
	}
	g.forceWildCVs(v, loc, "cast type mismatch")
	g.forceWildCVs(innerCVs, loc, "cast type mismatch")
}

// isSafeMallocSizeofAssign is spec.md §4.3's malloc special rule:
// `(T*)malloc(sizeof(T))` assigned into a `T*`-shaped target adds no
// constraint — the allocation is considered safe for the LHS kind.
func isSafeMallocSizeofAssign(ce *cast.CastExpr, lhsType cast.Type) bool {
	call, ok := ce.X.(*cast.CallExpr)
	if !ok {
		return false
	}
	name, ok := call.CalleeName()
	if !ok || name != "malloc" || len(call.Args) != 1 {
		return false
	}
	sz, ok := call.Args[0].(*cast.SizeofExpr)
	if !ok {
		return false
	}
	ptrT := &cast.PointerType{Elem: sz.Type}
	return cast.StructurallyEqual(ptrT, lhsType) && cast.StructurallyEqual(ptrT, ce.Type)
}
