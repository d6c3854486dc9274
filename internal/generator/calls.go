package generator

import (
	"github.com/ccqual/ccqual/internal/cast"
	"github.com/ccqual/ccqual/internal/qual"
)

// visitCall implements spec.md §4.3's Call rule.
func (g *Generator) visitCall(call *cast.CallExpr) []qual.CV {
	name, isIdent := call.CalleeName()
	if !isIdent {
		g.visitExpr(call.Fun)
		for _, a := range call.Args {
			argCVs := g.visitExpr(a)
			g.forceWildCVs(argCVs, call.Loc, "call through opaque function value")
		}
		return nil
	}

	fv := g.info.LookupFunctionCV(name)
	if fv == nil {
		for _, a := range call.Args {
			g.visitExpr(a)
		}
		return nil
	}

	for i, a := range call.Args {
		if i < fv.Arity() {
			slot := fv.ParamCVs[i]
			var paramType cast.Type
			if len(slot) > 0 {
				paramType = ReconstructType(slot[0])
			}
			g.assignRHSToCVs(slot, paramType, a, call.Loc)
			continue
		}
		argCVs := g.visitExpr(a)
		g.forceWildCVs(argCVs, call.Loc, "variadic/extra argument")
	}

	return fv.ReturnCVs
}
