package generator

import "github.com/ccqual/ccqual/internal/cast"

func (g *Generator) genDeclStmt(stmt *cast.DeclStmt) {
	for _, vd := range stmt.Decls {
		cvs := g.info.AddVariable(vd, stmt)
		if vd.Init != nil {
			g.assignRHSToCVs(cvs, vd.Type, vd.Init, vd.Loc)
		}
	}
}

func (g *Generator) genStructDecl(sd *cast.StructDecl) {
	for _, f := range sd.Fields {
		f.InSystemHdr = f.InSystemHdr || sd.InSystemHdr
		g.info.AddVariable(f, nil)
	}
}

func (g *Generator) genFuncDecl(fd *cast.FuncDecl) {
	fv := g.info.AddFunctionDecl(fd)

	for i, pd := range fd.ParamDecls {
		pd.IsParam = true
		if i < len(fv.ParamCVs) && fv.ParamCVs[i] != nil {
			g.info.AttachParamCV(pd, fv.ParamCVs[i])
		}
	}

	if fd.Body == nil {
		return
	}

	prevFunc := g.curFunc
	g.curFunc = fv
	g.genBlock(fd.Body)
	g.curFunc = prevFunc
}
