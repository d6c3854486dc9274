// Package generator implements the constraint generator of spec.md
// §4.3: a syntax-directed traversal of each translation unit that
// emits constraints reflecting how every pointer is used.
package generator

import (
	"github.com/ccqual/ccqual/internal/cast"
	"github.com/ccqual/ccqual/internal/diagnostics"
	"github.com/ccqual/ccqual/internal/proginfo"
	"github.com/ccqual/ccqual/internal/qual"
	"github.com/ccqual/ccqual/internal/srcloc"
)

// Generator walks one translation unit at a time. It is not itself
// safe for concurrent use across TUs — callers generating TUs in
// parallel (spec.md §5) construct one Generator per worker, all
// sharing the same *proginfo.ProgramInfo, whose own methods take the
// lock.
type Generator struct {
	info    *proginfo.ProgramInfo
	log     *diagnostics.Logger
	curFunc *qual.FunctionCV
}

func New(info *proginfo.ProgramInfo, log *diagnostics.Logger) *Generator {
	return &Generator{info: info, log: log}
}

// GenerateTU implements the outer pass over a translation unit:
// top-level declarations are visited directly; function bodies are
// visited as the function declaration itself is reached.
func (g *Generator) GenerateTU(tu *cast.TranslationUnit) {
	for _, d := range tu.Decls {
		g.genTopLevelDecl(d, tu)
	}
}

func (g *Generator) genTopLevelDecl(d cast.Decl, tu *cast.TranslationUnit) {
	switch v := d.(type) {
	case *cast.DeclStmt:
		g.genDeclStmt(v)
	case *cast.FuncDecl:
		g.genFuncDecl(v)
	case *cast.StructDecl:
		g.genStructDecl(v)
	}
}

func (g *Generator) constrainEqSets(a, b []qual.CV, loc srcloc.Loc, reason string) {
	for _, av := range a {
		for _, bv := range b {
			g.constrainEqCV(av, bv, loc, reason)
		}
	}
}

// constrainEqCV implements spec.md §4.3's constrain_eq element-wise
// recursion for a single pair of CVs.
func (g *Generator) constrainEqCV(a, b qual.CV, loc srcloc.Loc, reason string) {
	switch av := a.(type) {
	case *qual.PointerCV:
		bv, ok := b.(*qual.PointerCV)
		if !ok {
			g.forceWildCV(a, loc, reason)
			g.forceWildCV(b, loc, reason)
			return
		}
		if len(av.Levels) == len(bv.Levels) {
			for i := range av.Levels {
				g.info.Store.AddEq(qual.Var(av.Levels[i]), qual.Var(bv.Levels[i]), loc, reason)
			}
		} else {
			// Unequal depth: under-approximate by tying every pair of
			// qvars together rather than concluding Wild outright.
			for _, x := range av.Levels {
				for _, y := range bv.Levels {
					g.info.Store.AddEq(qual.Var(x), qual.Var(y), loc, reason)
				}
			}
		}
		g.constrainNestedFV(av.NestedFV, bv.NestedFV, loc, reason)
	case *qual.FunctionCV:
		bv, ok := b.(*qual.FunctionCV)
		if !ok {
			g.forceWildCV(a, loc, reason)
			g.forceWildCV(b, loc, reason)
			return
		}
		g.constrainEqFV(av, bv, loc, reason)
	}
}

func (g *Generator) constrainNestedFV(a, b *qual.FunctionCV, loc srcloc.Loc, reason string) {
	if a == nil && b == nil {
		return
	}
	if a == nil || b == nil {
		g.forceWildFV(a, loc, reason)
		g.forceWildFV(b, loc, reason)
		return
	}
	g.constrainEqFV(a, b, loc, reason)
}

func (g *Generator) constrainEqFV(a, b *qual.FunctionCV, loc srcloc.Loc, reason string) {
	g.constrainEqSets(a.ReturnCVs, b.ReturnCVs, loc, reason)
	if len(a.ParamCVs) == len(b.ParamCVs) {
		for i := range a.ParamCVs {
			g.constrainEqSets(a.ParamCVs[i], b.ParamCVs[i], loc, reason)
		}
		return
	}
	g.forceWildFV(a, loc, reason)
	g.forceWildFV(b, loc, reason)
}

func (g *Generator) forceWildCVs(cvs []qual.CV, loc srcloc.Loc, reason string) {
	for _, cv := range cvs {
		g.forceWildCV(cv, loc, reason)
	}
}

func (g *Generator) forceWildCV(cv qual.CV, loc srcloc.Loc, reason string) {
	if cv == nil {
		return
	}
	switch v := cv.(type) {
	case *qual.PointerCV:
		for _, qv := range v.Levels {
			g.info.Store.AddEq(qual.Var(qv), qual.Const(qual.Wild), loc, reason)
		}
		g.forceWildFV(v.NestedFV, loc, reason)
	case *qual.FunctionCV:
		g.forceWildFV(v, loc, reason)
	}
}

func (g *Generator) forceWildFV(fv *qual.FunctionCV, loc srcloc.Loc, reason string) {
	if fv == nil {
		return
	}
	g.forceWildCVs(fv.ReturnCVs, loc, reason)
	for _, slot := range fv.ParamCVs {
		g.forceWildCVs(slot, loc, reason)
	}
}

func (g *Generator) emitPointerArith(cvs []qual.CV, loc srcloc.Loc) {
	for _, cv := range cvs {
		if pcv, ok := cv.(*qual.PointerCV); ok {
			g.info.Store.AddNotPtr(pcv.Outer(), loc, "pointer arithmetic")
		}
	}
}

func (g *Generator) emitSubscript(cvs []qual.CV, loc srcloc.Loc) {
	for _, cv := range cvs {
		if pcv, ok := cv.(*qual.PointerCV); ok {
			g.info.Store.AddEq(qual.Var(pcv.Outer()), qual.Const(qual.Arr), loc, "subscript")
			pcv.QualMap[pcv.Outer()] = append(pcv.QualMap[pcv.Outer()], qual.Arr)
		}
	}
}

// ReconstructType rebuilds a cast.Type from a CV's shape, used to
// re-run structural_equal checks against the types written at a cast,
// declaration, or call-argument site. Exported so pkg/driver's Phase B
// cast planning can compare a call argument's declared type against
// the callee's parameter CV without duplicating this shape-walk.
func ReconstructType(cv qual.CV) cast.Type {
	pcv, ok := cv.(*qual.PointerCV)
	if !ok {
		return nil
	}
	var t cast.Type = &cast.BaseType{Name: pcv.BaseType}
	for i := len(pcv.Levels) - 1; i >= 0; i-- {
		qv := pcv.Levels[i]
		switch pcv.OrigArrInfo[qv] {
		case qual.OrigSizedArray:
			t = &cast.ArrayType{Elem: t, Size: cast.ArraySize{Sized: true, N: pcv.ArrSize[qv]}}
		case qual.OrigUnsizedArray:
			t = &cast.ArrayType{Elem: t, Size: cast.ArraySize{}}
		default:
			t = &cast.PointerType{Elem: t}
		}
	}
	return t
}
