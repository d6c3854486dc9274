package generator

import "github.com/ccqual/ccqual/internal/cast"

func (g *Generator) genBlock(b *cast.BlockStmt) {
	for _, s := range b.Stmts {
		g.genStmt(s)
	}
}

func (g *Generator) genStmt(s cast.Stmt) {
	switch v := s.(type) {
	case *cast.BlockStmt:
		g.genBlock(v)
	case *cast.DeclStmt:
		g.genDeclStmt(v)
	case *cast.ExprStmt:
		g.visitExpr(v.X)
	case *cast.ReturnStmt:
		g.genReturn(v)
	case *cast.IfStmt:
		g.visitExpr(v.Cond)
		g.genStmt(v.Then)
		if v.Else != nil {
			g.genStmt(v.Else)
		}
	case *cast.WhileStmt:
		g.visitExpr(v.Cond)
		g.genStmt(v.Body)
	case *cast.ForStmt:
		if v.Init != nil {
			g.genStmt(v.Init)
		}
		if v.Cond != nil {
			g.visitExpr(v.Cond)
		}
		if v.Post != nil {
			g.genStmt(v.Post)
		}
		g.genStmt(v.Body)
	}
}

// genReturn implements spec.md §4.3's Return rule: treat `return e`
// as an assignment from e to the enclosing function's return-CV set.
func (g *Generator) genReturn(r *cast.ReturnStmt) {
	if r.Value == nil || g.curFunc == nil {
		if r.Value != nil {
			g.visitExpr(r.Value)
		}
		return
	}
	var retType cast.Type
	if len(g.curFunc.ReturnCVs) > 0 {
		retType = ReconstructType(g.curFunc.ReturnCVs[0])
	}
	g.assignRHSToCVs(g.curFunc.ReturnCVs, retType, r.Value, r.Loc)
}
