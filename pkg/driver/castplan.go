package driver

import (
	"fmt"

	"github.com/ccqual/ccqual/internal/cast"
	"github.com/ccqual/ccqual/internal/generator"
	"github.com/ccqual/ccqual/internal/planner"
	"github.com/ccqual/ccqual/internal/prettyprrint"
	"github.com/ccqual/ccqual/internal/qual"
	"github.com/ccqual/ccqual/internal/rewrite"
	"github.com/ccqual/ccqual/internal/srcloc"
)

// PlanCasts implements Phase B of spec.md §4.7: every assignment,
// initializer, return, and call-site argument is a place where a
// value flows into a declared slot, and the solved kinds on either
// side are compared regardless of whether the source text already
// wrote a cast there — an existing cast is only consulted to decide
// whether to strip it (structurally_equal) or keep it as a plain
// cast, mirroring
// original_source/tools/checked-c-convert/CheckedCConvert.cpp's
// assign() (invoked unconditionally from VisitDeclStmt/VisitBinAssign)
// and VisitCallExpr (one cast decision per call argument). A cast is
// only ever inserted or rewritten when its operand is a bare
// identifier, since that is the only shape this AST lets the driver
// locate an exact source end for; anything with a richer operand (a
// call, a field access) is left untouched rather than risk a wrong
// span.
func (c *Context) PlanCasts(p *planner.Planner, mgr *rewrite.Manager) ([]planner.CastPlan, error) {
	var out []planner.CastPlan
	for _, tu := range c.TUs {
		for _, d := range tu.Decls {
			c.castPlansInDecl(p, d, &out)
		}
	}
	for _, plan := range out {
		id := plan.Cast.X.(*cast.Ident)
		buf, err := mgr.BufferFor(plan.Cast.Loc.File)
		if err != nil {
			return out, err
		}
		end := srcloc.Loc{File: id.Loc.File, Line: id.Loc.Line, Col: id.Loc.Col + len(id.Name)}
		buf.Replace(plan.Cast.Loc, end, plan.Text)
	}
	return out, nil
}

func (c *Context) castPlansInDecl(p *planner.Planner, d cast.Decl, out *[]planner.CastPlan) {
	switch v := d.(type) {
	case *cast.DeclStmt:
		for _, vd := range v.Decls {
			c.castPlanForInit(p, vd, out)
		}
	case *cast.FuncDecl:
		if v.Body == nil {
			return
		}
		c.castPlansInStmt(p, c.funcCVFor(v), v.Body, out)
	}
}

// castPlansInStmt walks every statement reachable from s with
// cast.Walk, and for each one reaches into its expressions looking
// for assignment, initializer, return, and call sites. fv is the
// enclosing function's CV set, used to plan `return e;` against its
// declared return type; nil when s is not inside a function body.
func (c *Context) castPlansInStmt(p *planner.Planner, fv *qual.FunctionCV, s cast.Stmt, out *[]planner.CastPlan) {
	cast.Walk(s, func(st cast.Stmt) bool {
		switch v := st.(type) {
		case *cast.DeclStmt:
			for _, vd := range v.Decls {
				c.castPlanForInit(p, vd, out)
			}
		case *cast.ExprStmt:
			c.castPlansInExpr(p, v.X, out)
		case *cast.ReturnStmt:
			if v.Value != nil {
				c.planValueIntoCV(p, c.returnCV(fv), v.Value, out)
				c.castPlansInExpr(p, v.Value, out)
			}
		case *cast.IfStmt:
			c.castPlansInExpr(p, v.Cond, out)
		case *cast.WhileStmt:
			c.castPlansInExpr(p, v.Cond, out)
		case *cast.ForStmt:
			if v.Cond != nil {
				c.castPlansInExpr(p, v.Cond, out)
			}
		}
		return true
	})
}

func (c *Context) returnCV(fv *qual.FunctionCV) *qual.PointerCV {
	if fv == nil || len(fv.ReturnCVs) != 1 {
		return nil
	}
	pcv, _ := fv.ReturnCVs[0].(*qual.PointerCV)
	return pcv
}

// castPlansInExpr recurses into every expression reachable from e,
// planning a cast wherever a value flows into a declared slot: the
// left side of a plain "=" assignment, and every argument of a call
// whose callee is a known function. cast.Walk only covers statements,
// so this is a second, expression-level walker — internal/generator's
// own visitExpr recurses the same way, for the same reason.
func (c *Context) castPlansInExpr(p *planner.Planner, e cast.Expr, out *[]planner.CastPlan) {
	switch v := e.(type) {
	case nil:
		return
	case *cast.AssignExpr:
		if v.Op == "=" {
			c.planValueIntoCV(p, c.singleCV(c.exprDeclLoc(v.LHS)), v.RHS, out)
		}
		c.castPlansInExpr(p, v.LHS, out)
		c.castPlansInExpr(p, v.RHS, out)
	case *cast.CallExpr:
		c.castPlansForCallArgs(p, v, out)
		c.castPlansInExpr(p, v.Fun, out)
		for _, a := range v.Args {
			c.castPlansInExpr(p, a, out)
		}
	case *cast.CastExpr:
		c.castPlansInExpr(p, v.X, out)
	case *cast.UnaryExpr:
		c.castPlansInExpr(p, v.X, out)
	case *cast.PostfixExpr:
		c.castPlansInExpr(p, v.X, out)
	case *cast.BinaryExpr:
		c.castPlansInExpr(p, v.X, out)
		c.castPlansInExpr(p, v.Y, out)
	case *cast.IndexExpr:
		c.castPlansInExpr(p, v.X, out)
		c.castPlansInExpr(p, v.Index, out)
	}
}

// castPlansForCallArgs plans a cast for every argument at a call site
// whose callee this run has a FunctionCV for, mirroring
// internal/generator/calls.go's visitCall: only arguments within the
// callee's declared arity are checked against a parameter CV, since
// anything past it (a variadic tail) was already forced Wild at
// generation time and has no slot to compare against.
func (c *Context) castPlansForCallArgs(p *planner.Planner, call *cast.CallExpr, out *[]planner.CastPlan) {
	name, ok := call.CalleeName()
	if !ok {
		return
	}
	fv := c.Info.LookupFunctionCV(name)
	if fv == nil {
		return
	}
	for i, arg := range call.Args {
		if i >= fv.Arity() {
			continue
		}
		slot := fv.ParamCVs[i]
		if len(slot) != 1 {
			continue
		}
		dstCV, ok := slot[0].(*qual.PointerCV)
		if !ok {
			continue
		}
		c.planValueIntoCV(p, dstCV, arg, out)
	}
}

func (c *Context) castPlanForInit(p *planner.Planner, vd *cast.VarDecl, out *[]planner.CastPlan) {
	if vd.Init == nil {
		return
	}
	c.planValueIntoCV(p, c.singleCV(vd.Loc), vd.Init, out)
	c.castPlansInExpr(p, vd.Init, out)
}

// planValueIntoCV implements Phase B's comparison for one value
// flowing into dstCV: looking through an existing cast the way
// assign() does, a bare-identifier operand is checked against dstCV
// regardless of whether a cast was already written. An rhs that
// already carries a cast keeps that cast's written type for the
// structural_equal check; one that does not gets a synthetic cast
// built from dstCV's own reconstructed type, so a plain "p = q;" or
// "f(q)" is compared exactly like an already-cast "p = (T)q;" instead
// of being silently skipped.
func (c *Context) planValueIntoCV(p *planner.Planner, dstCV *qual.PointerCV, rhs cast.Expr, out *[]planner.CastPlan) {
	if dstCV == nil || rhs == nil {
		return
	}
	ce, inner := unwrapCast(rhs)
	id, ok := inner.(*cast.Ident)
	if !ok {
		return
	}
	synthesized := ce == nil
	var structurallyEqual bool
	if !synthesized {
		structurallyEqual = cast.StructurallyEqual(c.declaredTypeOf(id), ce.Type)
	} else {
		dstType := generator.ReconstructType(dstCV)
		ce = &cast.CastExpr{Type: dstType, X: id, Loc: id.Loc}
		structurallyEqual = cast.StructurallyEqual(c.declaredTypeOf(id), dstType)
	}
	srcCV := c.singleCV(c.exprDeclLoc(id))
	plan := p.PlanCast(ce, srcCV, dstCV, structurallyEqual)
	if plan.Action == planner.CastNone {
		return
	}
	if synthesized && plan.Action == planner.CastCommentOut {
		// Nothing was ever written here to comment out.
		return
	}
	plan.Text = renderCastPlanText(plan, dstCV, p, id.Name)
	*out = append(*out, plan)
}

// unwrapCast looks through a pre-existing cast around e, the way
// assign() does, returning it alongside the expression it wraps. e
// itself is returned unwrapped, with a nil cast, when there is
// nothing to look through.
func unwrapCast(e cast.Expr) (*cast.CastExpr, cast.Expr) {
	if ce, ok := e.(*cast.CastExpr); ok {
		return ce, ce.X
	}
	return nil, e
}

// renderCastPlanText builds the literal replacement text for a cast
// plan's full `(Type)operand` span, since PlanCast itself only
// decides the disposition and (for CastAssumeBounds) a best-effort
// text built from planner's own operand-text placeholder; the driver
// has the real operand name in hand and uses it instead.
func renderCastPlanText(plan planner.CastPlan, dstCV *qual.PointerCV, p *planner.Planner, operand string) string {
	switch plan.Action {
	case planner.CastAssumeBounds:
		return fmt.Sprintf("_Assume_bounds_cast<%s>(%s)", prettyprrint.TypeString(dstCV, p.Solved), operand)
	case planner.CastPlain:
		return fmt.Sprintf("(%s)%s", plan.Cast.Type.String(), operand)
	case planner.CastCommentOut:
		return fmt.Sprintf("/* (%s)%s */ %s", plan.Cast.Type.String(), operand, operand)
	default:
		return operand
	}
}

func (c *Context) exprDeclLoc(e cast.Expr) srcloc.Loc {
	id, ok := e.(*cast.Ident)
	if !ok || id.Decl == nil {
		return srcloc.Loc{}
	}
	switch d := id.Decl.(type) {
	case *cast.VarDecl:
		return d.Loc
	case *cast.FuncDecl:
		return d.Loc
	default:
		return srcloc.Loc{}
	}
}

func (c *Context) declaredTypeOf(id *cast.Ident) cast.Type {
	if id.Decl == nil {
		return nil
	}
	switch d := id.Decl.(type) {
	case *cast.VarDecl:
		return d.Type
	case *cast.FuncDecl:
		return d.Type.Return
	default:
		return nil
	}
}

func (c *Context) singleCV(loc srcloc.Loc) *qual.PointerCV {
	if loc.File == "" {
		return nil
	}
	cvs := c.Info.CVsAt(loc)
	if len(cvs) != 1 {
		return nil
	}
	pcv, ok := cvs[0].(*qual.PointerCV)
	if !ok {
		return nil
	}
	return pcv
}
