package generator_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ccqual/ccqual/internal/cparse"
	"github.com/ccqual/ccqual/internal/diagnostics"
	"github.com/ccqual/ccqual/internal/generator"
	"github.com/ccqual/ccqual/internal/proginfo"
	"github.com/ccqual/ccqual/internal/qual"
	"github.com/ccqual/ccqual/internal/solver"
	"github.com/ccqual/ccqual/internal/srcloc"
)

func genTU(t *testing.T, src string) *proginfo.ProgramInfo {
	t.Helper()
	tu, err := cparse.ParseFile("a.c", src, false)
	require.NoError(t, err)

	info := proginfo.New()
	log := diagnostics.New(io.Discard, false)
	g := generator.New(info, log)
	g.GenerateTU(tu)
	return info
}

func solveAndGet(t *testing.T, info *proginfo.ProgramInfo, decl string) qual.Atom {
	t.Helper()
	result := solver.Solve(info.Store, info.Store.Allocator().Count())
	cvs := info.CVsAt(locOf(t, info, decl))
	require.Len(t, cvs, 1)
	pcv, ok := cvs[0].(*qual.PointerCV)
	require.True(t, ok)
	return result.Assignment[pcv.Outer()]
}

// locOf re-finds a declaration's location by scanning VarMap, since
// the test doesn't have direct access to the AST node it parsed.
func locOf(t *testing.T, info *proginfo.ProgramInfo, name string) srcloc.Loc {
	t.Helper()
	for loc, cvs := range info.VarMap {
		for _, cv := range cvs {
			if pcv, ok := cv.(*qual.PointerCV); ok && pcv.Name == name {
				return loc
			}
		}
	}
	t.Fatalf("no CV recorded for %q", name)
	return srcloc.Loc{}
}

func TestSubscriptRaisesToArr(t *testing.T) {
	src := "void f(void) {\n  int *p;\n  int x;\n  x = p[0];\n}\n"
	info := genTU(t, src)
	got := solveAndGet(t, info, "p")
	require.Equal(t, qual.Arr, got)
}

func TestUnrelatedPointerStaysAtPtr(t *testing.T) {
	src := "void f(void) {\n  int *p;\n}\n"
	info := genTU(t, src)
	got := solveAndGet(t, info, "p")
	require.Equal(t, qual.Ptr, got)
}

func TestVoidStarIsSeededWild(t *testing.T) {
	src := "void f(void) {\n  void *p;\n}\n"
	info := genTU(t, src)
	got := solveAndGet(t, info, "p")
	require.Equal(t, qual.Wild, got)
}

func TestCastTypeMismatchForcesWild(t *testing.T) {
	src := "void f(void) {\n  int *p;\n  char *q;\n  q = (char *)p;\n}\n"
	info := genTU(t, src)
	got := solveAndGet(t, info, "p")
	require.Equal(t, qual.Wild, got)
}
