package driver

import (
	"fmt"

	"github.com/ccqual/ccqual/internal/cast"
	"github.com/ccqual/ccqual/internal/planner"
	"github.com/ccqual/ccqual/internal/qual"
	"github.com/ccqual/ccqual/internal/rewrite"
	"github.com/ccqual/ccqual/internal/srcloc"
)

// PlanAndRewrite runs Phase A over every declarator this run saw and
// records the resulting edits into mgr, then runs Phase B (PlanCasts)
// and records its cast edits into mgr as well. It returns the per-declarator
// plans it made, keyed by declaration location, for --dump-intermediate.
func (c *Context) PlanAndRewrite(mgr *rewrite.Manager) (map[srcloc.Loc]planner.DeclPlan, error) {
	p := planner.New(c.Info, c.Solved.Assignment)
	plans := make(map[srcloc.Loc]planner.DeclPlan)

	for _, tu := range c.TUs {
		for _, d := range tu.Decls {
			c.planDecl(p, d, plans)
		}
	}

	for _, tu := range c.TUs {
		for _, d := range tu.Decls {
			if err := c.applyDeclPlans(mgr, tu.Path, d, plans); err != nil {
				return plans, err
			}
		}
	}

	if _, err := c.PlanCasts(p, mgr); err != nil {
		return plans, err
	}

	return plans, nil
}

func (c *Context) planDecl(p *planner.Planner, d cast.Decl, plans map[srcloc.Loc]planner.DeclPlan) {
	switch v := d.(type) {
	case *cast.DeclStmt:
		for _, vd := range v.Decls {
			c.planOneVar(p, vd, plans, planner.RewriteType)
		}
	case *cast.StructDecl:
		for _, f := range v.Fields {
			c.planOneVar(p, f, plans, planner.RewriteType)
		}
	case *cast.FuncDecl:
		hint := c.paramDisposition(v, c.funcCVFor(v))
		for _, pd := range v.ParamDecls {
			c.planOneVar(p, pd, plans, hint)
		}
		if v.Body != nil {
			c.planBlock(p, v.Body, plans)
		}
	}
}

// funcCVFor returns the FunctionCV proginfo allocated for this exact
// FuncDecl occurrence (a prototype and its definition each get their
// own FunctionCV; internal/linker ties their slots together with Eq
// constraints once every TU has been generated).
func (c *Context) funcCVFor(v *cast.FuncDecl) *qual.FunctionCV {
	cvs := c.Info.CVsAt(v.Loc)
	if len(cvs) != 1 {
		return nil
	}
	fv, _ := cvs[0].(*qual.FunctionCV)
	return fv
}

// paramDisposition implements spec.md §4.7's four-way parameter
// decision for every parameter of v:
//
//   - DoNothing when v's parameter list is variadic (a varargs
//     parameter is never rewritten to a checked pointer type), or
//     when no declaration of this symbol anywhere in the run has a
//     body (a pure prototype has nothing to bound).
//   - MakeBoundary when v is the definition and proginfo recorded a
//     second declaration of the same symbol (a prototype elsewhere):
//     callers reaching the function only through that prototype were
//     not reverified by this run.
//   - IncreaseCallers when v is that second declaration itself: its
//     own redeclaration and callers need the wider type, not the
//     definition's body.
//   - RewriteType otherwise (a single, self-contained declaration).
//
// internal/linker's cross-TU merge ties every redeclaration's
// parameter qvars together with Eq before solving, so a definition
// and its prototype always resolve to the same atom; "is there a
// second declaration" is what actually distinguishes the four cases,
// not a divergent σ(def) vs σ(decl) comparison.
func (c *Context) paramDisposition(v *cast.FuncDecl, fv *qual.FunctionCV) planner.DeclAction {
	if fv != nil && fv.IsVariadic {
		return planner.DoNothing
	}
	if !c.Info.HasBodyAnywhere(v.Name) {
		return planner.DoNothing
	}
	if len(c.Info.GlobalSymbolsFor(v.Name)) < 2 {
		return planner.RewriteType
	}
	if v.HasBody() {
		return planner.MakeBoundary
	}
	return planner.IncreaseCallers
}

func (c *Context) planBlock(p *planner.Planner, b *cast.BlockStmt, plans map[srcloc.Loc]planner.DeclPlan) {
	for _, s := range b.Stmts {
		c.planStmt(p, s, plans)
	}
}

func (c *Context) planStmt(p *planner.Planner, s cast.Stmt, plans map[srcloc.Loc]planner.DeclPlan) {
	switch v := s.(type) {
	case *cast.BlockStmt:
		c.planBlock(p, v, plans)
	case *cast.DeclStmt:
		for _, vd := range v.Decls {
			c.planOneVar(p, vd, plans, planner.RewriteType)
		}
	case *cast.IfStmt:
		c.planStmt(p, v.Then, plans)
		if v.Else != nil {
			c.planStmt(p, v.Else, plans)
		}
	case *cast.WhileStmt:
		c.planStmt(p, v.Body, plans)
	case *cast.ForStmt:
		if v.Init != nil {
			c.planStmt(p, v.Init, plans)
		}
		c.planStmt(p, v.Body, plans)
	}
}

func (c *Context) planOneVar(p *planner.Planner, vd *cast.VarDecl, plans map[srcloc.Loc]planner.DeclPlan, hint planner.DeclAction) {
	if vd.InSystemHdr || !cast.IsPointerOrArray(vd.Type) {
		return
	}
	cvs := c.Info.CVsAt(vd.Loc)
	if len(cvs) != 1 {
		return
	}
	pcv, ok := cvs[0].(*qual.PointerCV)
	if !ok {
		return
	}
	plans[vd.Loc] = p.PlanDecl(vd, pcv, hint)
}

func (c *Context) applyDeclPlans(mgr *rewrite.Manager, path string, d cast.Decl, plans map[srcloc.Loc]planner.DeclPlan) error {
	switch v := d.(type) {
	case *cast.DeclStmt:
		return c.applyDeclStmt(mgr, v, plans)
	case *cast.StructDecl:
		for _, f := range v.Fields {
			if err := c.applyOneVar(mgr, f, plans); err != nil {
				return err
			}
		}
	case *cast.FuncDecl:
		for _, pd := range v.ParamDecls {
			if err := c.applyOneVar(mgr, pd, plans); err != nil {
				return err
			}
		}
		if v.Body != nil {
			if err := c.applyBlock(mgr, v.Body, plans); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Context) applyBlock(mgr *rewrite.Manager, b *cast.BlockStmt, plans map[srcloc.Loc]planner.DeclPlan) error {
	for _, s := range b.Stmts {
		if err := c.applyStmt(mgr, s, plans); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) applyStmt(mgr *rewrite.Manager, s cast.Stmt, plans map[srcloc.Loc]planner.DeclPlan) error {
	switch v := s.(type) {
	case *cast.BlockStmt:
		return c.applyBlock(mgr, v, plans)
	case *cast.DeclStmt:
		return c.applyDeclStmt(mgr, v, plans)
	case *cast.IfStmt:
		if err := c.applyStmt(mgr, v.Then, plans); err != nil {
			return err
		}
		if v.Else != nil {
			return c.applyStmt(mgr, v.Else, plans)
		}
	case *cast.WhileStmt:
		return c.applyStmt(mgr, v.Body, plans)
	case *cast.ForStmt:
		if v.Init != nil {
			if err := c.applyStmt(mgr, v.Init, plans); err != nil {
				return err
			}
		}
		return c.applyStmt(mgr, v.Body, plans)
	}
	return nil
}

func (c *Context) applyDeclStmt(mgr *rewrite.Manager, stmt *cast.DeclStmt, plans map[srcloc.Loc]planner.DeclPlan) error {
	perDecl := make(map[*cast.VarDecl]planner.DeclPlan, len(stmt.Decls))
	for _, vd := range stmt.Decls {
		if plan, ok := plans[vd.Loc]; ok {
			perDecl[vd] = plan
		}
	}
	if rebuild, text := planner.PlanDeclStmt(stmt, perDecl); rebuild {
		buf, err := mgr.BufferFor(stmt.Loc.File)
		if err != nil {
			return err
		}
		buf.Replace(stmt.Loc, stmt.End, text)
		return nil
	}
	for _, vd := range stmt.Decls {
		if err := c.applyOneVar(mgr, vd, plans); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) applyOneVar(mgr *rewrite.Manager, vd *cast.VarDecl, plans map[srcloc.Loc]planner.DeclPlan) error {
	plan, ok := plans[vd.Loc]
	if !ok || plan.Action == planner.DoNothing {
		return nil
	}
	buf, err := mgr.BufferFor(vd.Loc.File)
	if err != nil {
		return fmt.Errorf("buffering %s: %w", vd.Loc.File, err)
	}
	end := srcloc.Loc{File: vd.Loc.File, Line: vd.Loc.Line, Col: vd.Loc.Col + declaratorSourceLen(vd)}
	buf.Replace(vd.Loc, end, plan.NewText)
	return nil
}

// declaratorSourceLen approximates how many source columns the
// written declarator (stars, name, array brackets) occupies, since
// this program's AST does not retain the declarator's exact source
// span separately from its containing statement's. A plain rewriter
// built against a real C frontend would use the frontend's own token
// ranges instead of this estimate.
func declaratorSourceLen(vd *cast.VarDecl) int {
	depth, _ := cast.PointerDepth(vd.Type)
	return depth + len(vd.Name)
}

// RenderAll returns the rewritten text for every touched file.
func (c *Context) RenderAll(mgr *rewrite.Manager) (map[string]string, error) {
	out := make(map[string]string)
	for _, path := range mgr.TouchedFiles() {
		text, err := mgr.Render(path)
		if err != nil {
			return nil, err
		}
		out[path] = text
	}
	return out, nil
}
