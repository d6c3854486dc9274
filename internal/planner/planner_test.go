package planner_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ccqual/ccqual/internal/cast"
	"github.com/ccqual/ccqual/internal/cparse"
	"github.com/ccqual/ccqual/internal/planner"
	"github.com/ccqual/ccqual/internal/proginfo"
	"github.com/ccqual/ccqual/internal/qual"
	"github.com/ccqual/ccqual/internal/solver"
)

func varCV(t *testing.T, pi *proginfo.ProgramInfo, src string) (*cast.VarDecl, *qual.PointerCV) {
	t.Helper()
	tu, err := cparse.ParseFile("a.c", src, false)
	require.NoError(t, err)
	ds := tu.Decls[0].(*cast.DeclStmt)
	vd := ds.Decls[0]
	cvs := pi.AddVariable(vd, ds)
	require.Len(t, cvs, 1)
	return vd, cvs[0].(*qual.PointerCV)
}

func TestPlanDeclDoesNothingWhenAllLevelsStayPtr(t *testing.T) {
	pi := proginfo.New()
	vd, cv := varCV(t, pi, "int *p;\n")

	p := planner.New(pi, solver.Assignment{cv.Outer(): qual.Ptr})
	plan := p.PlanDecl(vd, cv, planner.RewriteType)
	require.Equal(t, planner.DoNothing, plan.Action)
}

func TestPlanDeclRewritesTypeWhenRaisedAndNotABoundary(t *testing.T) {
	pi := proginfo.New()
	vd, cv := varCV(t, pi, "int *p;\n")

	p := planner.New(pi, solver.Assignment{cv.Outer(): qual.Arr})
	plan := p.PlanDecl(vd, cv, planner.RewriteType)
	require.Equal(t, planner.RewriteType, plan.Action)
	require.Contains(t, plan.NewText, "_Array_ptr")
}

func TestPlanDeclMakesBoundaryWhenRaisedAndIsBoundary(t *testing.T) {
	pi := proginfo.New()
	vd, cv := varCV(t, pi, "int *p;\n")

	p := planner.New(pi, solver.Assignment{cv.Outer(): qual.Wild})
	plan := p.PlanDecl(vd, cv, planner.MakeBoundary)
	require.Equal(t, planner.MakeBoundary, plan.Action)
	require.Contains(t, plan.NewText, "itype boundary")
}

func TestPlanDeclIncreasesCallersWhenHintIsIncreaseCallers(t *testing.T) {
	pi := proginfo.New()
	vd, cv := varCV(t, pi, "int *p;\n")

	p := planner.New(pi, solver.Assignment{cv.Outer(): qual.Arr})
	plan := p.PlanDecl(vd, cv, planner.IncreaseCallers)
	require.Equal(t, planner.IncreaseCallers, plan.Action)
	require.Contains(t, plan.NewText, "_Array_ptr")
}

func TestPlanDeclDoesNothingForVariadicHintEvenWhenRaised(t *testing.T) {
	pi := proginfo.New()
	vd, cv := varCV(t, pi, "int *p;\n")

	p := planner.New(pi, solver.Assignment{cv.Outer(): qual.Wild})
	plan := p.PlanDecl(vd, cv, planner.DoNothing)
	require.Equal(t, planner.DoNothing, plan.Action)
}

func TestPlanCastNoneWhenEitherSideHasNoCV(t *testing.T) {
	pi := proginfo.New()
	p := planner.New(pi, solver.Assignment{})
	ce := &cast.CastExpr{Type: &cast.BaseType{Name: "int"}}
	plan := p.PlanCast(ce, nil, nil, true)
	require.Equal(t, planner.CastNone, plan.Action)
}

func TestPlanCastAssumeBoundsWhenNarrowingFromWild(t *testing.T) {
	pi := proginfo.New()
	_, srcCV := varCV(t, pi, "int *src;\n")
	_, dstCV := varCV(t, pi, "\nint *dst;\n")

	asn := solver.Assignment{srcCV.Outer(): qual.Wild, dstCV.Outer(): qual.Ptr}
	p := planner.New(pi, asn)
	ce := &cast.CastExpr{Type: &cast.PointerType{Elem: &cast.BaseType{Name: "int"}}}
	plan := p.PlanCast(ce, srcCV, dstCV, true)
	require.Equal(t, planner.CastAssumeBounds, plan.Action)
	require.Contains(t, plan.Text, "_Assume_bounds_cast")
}

func TestPlanCastCommentOutWhenBothSidesBecomeCheckedAndStructurallyEqual(t *testing.T) {
	pi := proginfo.New()
	_, srcCV := varCV(t, pi, "int *src;\n")
	_, dstCV := varCV(t, pi, "int *dst;\n")

	asn := solver.Assignment{srcCV.Outer(): qual.Arr, dstCV.Outer(): qual.Arr}
	p := planner.New(pi, asn)
	ce := &cast.CastExpr{Type: &cast.PointerType{Elem: &cast.BaseType{Name: "int"}}}
	plan := p.PlanCast(ce, srcCV, dstCV, true)
	require.Equal(t, planner.CastCommentOut, plan.Action)
}

func TestPlanCastPlainWhenDestinationStaysWildAndTypesDiffer(t *testing.T) {
	pi := proginfo.New()
	_, srcCV := varCV(t, pi, "int *src;\n")
	_, dstCV := varCV(t, pi, "char *dst;\n")

	asn := solver.Assignment{srcCV.Outer(): qual.Wild, dstCV.Outer(): qual.Wild}
	p := planner.New(pi, asn)
	ce := &cast.CastExpr{Type: &cast.PointerType{Elem: &cast.BaseType{Name: "char"}}}
	plan := p.PlanCast(ce, srcCV, dstCV, false)
	require.Equal(t, planner.CastPlain, plan.Action)
}
